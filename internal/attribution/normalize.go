// Package attribution decides which tenant a scraped document belongs to
// using weighted keyword ownership.
package attribution

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize trims and lowercases a keyword or text fragment. Input is
// NFC-composed first so precomposed and combining accents compare equal.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// DocumentText builds the normalized text blob scored for a document.
func DocumentText(title, description string) string {
	return Normalize(title + " " + description)
}

func keywordLength(keyword string) int {
	return utf8.RuneCountInString(keyword)
}

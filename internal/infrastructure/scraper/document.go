package scraper

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"DailyInsights/internal/domain"
)

var scrapedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// rawDocument mirrors the scraper's JSON item; optional fields are pointers
// so absence is distinguishable from an empty string.
type rawDocument struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
	Source      *string `json:"source"`
	Industry    *string `json:"industry"`
	ScrapedAt   *string `json:"scraped_at"`
}

func (r rawDocument) toDocument(fallback time.Time) (domain.ScrapedDocument, error) {
	link := strings.TrimSpace(r.URL)
	if link == "" {
		return domain.ScrapedDocument{}, errors.New("missing url")
	}
	if parsed, err := url.Parse(link); err != nil || parsed.Host == "" {
		return domain.ScrapedDocument{}, errors.New("invalid url " + link)
	}

	title := cleanText(r.Title)
	if title == "" {
		return domain.ScrapedDocument{}, errors.New("missing title for " + link)
	}

	return domain.ScrapedDocument{
		Title:       title,
		URL:         link,
		Description: cleanText(deref(r.Description)),
		Source:      strings.TrimSpace(deref(r.Source)),
		Industry:    strings.TrimSpace(deref(r.Industry)),
		ScrapedAt:   parseScrapedAt(deref(r.ScrapedAt), fallback),
	}, nil
}

// cleanText strips markup and collapses whitespace.
func cleanText(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

func parseScrapedAt(value string, fallback time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	for _, layout := range scrapedAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

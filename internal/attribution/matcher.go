package attribution

import (
	"regexp"
	"strings"
)

// Score weights for a matched keyword.
const (
	UniqueWeight = 3
	SharedWeight = 1
)

// Keywords up to this many characters must match as a whole token.
const shortKeywordMaxLen = 4

// TenantScore is the outcome of scoring one document against one tenant.
type TenantScore struct {
	TenantID string
	Score    int
	Matched  []string
}

// Matcher scores documents against the tenant registries of one run.
type Matcher struct {
	registries []Registry
	index      *OwnershipIndex
	tokens     map[string]*regexp.Regexp
}

// NewMatcher precompiles the token patterns for short keywords.
func NewMatcher(regs []Registry, index *OwnershipIndex) *Matcher {
	m := &Matcher{
		registries: regs,
		index:      index,
		tokens:     make(map[string]*regexp.Regexp),
	}
	for _, reg := range regs {
		for _, kw := range reg.Keywords {
			if keywordLength(kw) > shortKeywordMaxLen {
				continue
			}
			if _, ok := m.tokens[kw]; ok {
				continue
			}
			m.tokens[kw] = tokenPattern(kw)
		}
	}
	return m
}

// Score returns one entry per tenant, in registry order. text is normalized
// before matching.
func (m *Matcher) Score(text string) []TenantScore {
	text = Normalize(text)
	scores := make([]TenantScore, 0, len(m.registries))
	for _, reg := range m.registries {
		ts := TenantScore{TenantID: reg.TenantID}
		for _, kw := range reg.Keywords {
			if !m.matches(text, kw) {
				continue
			}
			ts.Matched = append(ts.Matched, kw)
			ts.Score += m.index.Weight(kw)
		}
		scores = append(scores, ts)
	}
	return scores
}

func (m *Matcher) matches(text, keyword string) bool {
	if re, ok := m.tokens[keyword]; ok {
		return re.MatchString(text)
	}
	return strings.Contains(text, keyword)
}

func tokenPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(keyword) + `(?:$|[^\p{L}\p{N}_])`)
}

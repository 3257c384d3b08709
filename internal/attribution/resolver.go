package attribution

import "strings"

const (
	// DefaultIndustry labels documents without a winning tenant or scraper hint.
	DefaultIndustry = "general"

	labelKeywords = 3
)

// Attribution is the resolved owner and display label for one document.
type Attribution struct {
	TenantID *string
	Industry string
	Score    int
	Matched  []string
}

// Assigned reports whether a tenant was picked.
func (a Attribution) Assigned() bool {
	return a.TenantID != nil
}

// Resolve picks the tenant with the strictly greatest score. Ties go to the
// first tenant in scores order. A forced tenant bypasses scoring entirely.
func Resolve(scores []TenantScore, forced *string, hint, defaultIndustry string) Attribution {
	fallback := fallbackIndustry(hint, defaultIndustry)

	if forced != nil && *forced != "" {
		id := *forced
		return Attribution{TenantID: &id, Industry: fallback}
	}

	var best *TenantScore
	for i := range scores {
		if best == nil || scores[i].Score > best.Score {
			best = &scores[i]
		}
	}

	if best == nil || best.Score <= 0 {
		return Attribution{Industry: fallback}
	}

	id := best.TenantID
	top := best.Matched
	if len(top) > labelKeywords {
		top = top[:labelKeywords]
	}

	return Attribution{
		TenantID: &id,
		Industry: strings.Join(top, ", "),
		Score:    best.Score,
		Matched:  append([]string(nil), best.Matched...),
	}
}

func fallbackIndustry(hint, defaultIndustry string) string {
	if h := strings.TrimSpace(hint); h != "" {
		return h
	}
	if d := strings.TrimSpace(defaultIndustry); d != "" {
		return d
	}
	return DefaultIndustry
}

package attribution

import (
	"strings"

	"DailyInsights/internal/domain"
)

// Registry is the normalized keyword set of one tenant. Keywords keep the
// order in which they were first seen: name, raw keyword text, linked keywords.
type Registry struct {
	TenantID string
	Keywords []string
}

// Has reports whether the normalized keyword belongs to the registry.
func (r Registry) Has(keyword string) bool {
	for _, kw := range r.Keywords {
		if kw == keyword {
			return true
		}
	}
	return false
}

// BuildRegistry collects the keyword set of a single tenant.
func BuildRegistry(t domain.Tenant) Registry {
	reg := Registry{TenantID: t.ID}
	seen := make(map[string]struct{})

	add := func(raw string) {
		kw := Normalize(raw)
		if kw == "" {
			return
		}
		if _, ok := seen[kw]; ok {
			return
		}
		seen[kw] = struct{}{}
		reg.Keywords = append(reg.Keywords, kw)
	}

	add(t.Name)
	for _, token := range strings.Split(t.RawKeywordText, ",") {
		add(token)
	}
	for _, kw := range t.LinkedKeywords {
		add(kw.Name)
	}

	return reg
}

// BuildRegistries builds registries for all tenants, preserving input order.
func BuildRegistries(tenants []domain.Tenant) []Registry {
	regs := make([]Registry, 0, len(tenants))
	for _, t := range tenants {
		regs = append(regs, BuildRegistry(t))
	}
	return regs
}

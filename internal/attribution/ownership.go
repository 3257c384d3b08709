package attribution

// OwnershipIndex maps each normalized keyword to the tenants holding it.
// It is built once per run and never mutated afterwards.
type OwnershipIndex struct {
	owners map[string][]string
	order  []string
}

// NewOwnershipIndex indexes every keyword of every registry. Owner lists
// follow registry order.
func NewOwnershipIndex(regs []Registry) *OwnershipIndex {
	idx := &OwnershipIndex{owners: make(map[string][]string)}
	for _, reg := range regs {
		for _, kw := range reg.Keywords {
			owners, known := idx.owners[kw]
			if !known {
				idx.order = append(idx.order, kw)
			}
			if containsString(owners, reg.TenantID) {
				continue
			}
			idx.owners[kw] = append(owners, reg.TenantID)
		}
	}
	return idx
}

// Owners returns a copy of the owner list for keyword.
func (idx *OwnershipIndex) Owners(keyword string) []string {
	if idx == nil {
		return nil
	}
	owners := idx.owners[keyword]
	out := make([]string, len(owners))
	copy(out, owners)
	return out
}

// IsUnique reports whether exactly one tenant holds the keyword.
func (idx *OwnershipIndex) IsUnique(keyword string) bool {
	return idx != nil && len(idx.owners[keyword]) == 1
}

// IsShared reports whether two or more tenants hold the keyword.
func (idx *OwnershipIndex) IsShared(keyword string) bool {
	return idx != nil && len(idx.owners[keyword]) > 1
}

// Weight is the score contribution of a matched keyword.
func (idx *OwnershipIndex) Weight(keyword string) int {
	switch {
	case idx.IsUnique(keyword):
		return UniqueWeight
	case idx.IsShared(keyword):
		return SharedWeight
	default:
		return 0
	}
}

// Len is the size of the keyword vocabulary.
func (idx *OwnershipIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.order)
}

// Vocabulary returns keywords in first-seen order, capped at limit when limit > 0.
func (idx *OwnershipIndex) Vocabulary(limit int) []string {
	if idx == nil {
		return nil
	}
	n := len(idx.order)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]string, n)
	copy(out, idx.order[:n])
	return out
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

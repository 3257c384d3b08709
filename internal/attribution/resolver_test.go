package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePicksHighestScore(t *testing.T) {
	t.Parallel()

	_, m := acmeFixture()
	got := Resolve(m.Score("Acme Corp expands its finance arm"), nil, "", "")

	require.True(t, got.Assigned())
	assert.Equal(t, "B", *got.TenantID)
	assert.Equal(t, "acme, finance", got.Industry)
	assert.Equal(t, SharedWeight+UniqueWeight, got.Score)
}

func TestResolveUnassignedWhenNothingMatches(t *testing.T) {
	t.Parallel()

	_, m := acmeFixture()

	got := Resolve(m.Score("Breakthrough unrelated to said company"), nil, "", "")
	assert.False(t, got.Assigned())
	assert.Equal(t, DefaultIndustry, got.Industry)

	got = Resolve(m.Score("Breakthrough unrelated to said company"), nil, " Energy ", "")
	assert.Equal(t, "Energy", got.Industry)

	got = Resolve(nil, nil, "", "misc")
	assert.False(t, got.Assigned())
	assert.Equal(t, "misc", got.Industry)
}

func TestResolveForcedTenantIgnoresScores(t *testing.T) {
	t.Parallel()

	forced := "C"
	scores := []TenantScore{{TenantID: "A", Score: 9, Matched: []string{"acme"}}}

	got := Resolve(scores, &forced, "", "")
	require.True(t, got.Assigned())
	assert.Equal(t, "C", *got.TenantID)
	assert.Equal(t, DefaultIndustry, got.Industry)
	assert.Zero(t, got.Score)

	got = Resolve(scores, &forced, "Retail", "")
	assert.Equal(t, "Retail", got.Industry)
}

func TestResolveEmptyForcedTenantFallsBackToScoring(t *testing.T) {
	t.Parallel()

	empty := ""
	scores := []TenantScore{{TenantID: "A", Score: 1, Matched: []string{"acme"}}}
	got := Resolve(scores, &empty, "", "")
	require.True(t, got.Assigned())
	assert.Equal(t, "A", *got.TenantID)
}

func TestResolveTieGoesToFirstTenant(t *testing.T) {
	t.Parallel()

	scores := []TenantScore{
		{TenantID: "first", Score: 4, Matched: []string{"x"}},
		{TenantID: "second", Score: 4, Matched: []string{"y"}},
	}
	got := Resolve(scores, nil, "", "")
	require.True(t, got.Assigned())
	assert.Equal(t, "first", *got.TenantID)
}

func TestResolveLabelUsesFirstThreeMatches(t *testing.T) {
	t.Parallel()

	scores := []TenantScore{
		{TenantID: "A", Score: 5, Matched: []string{"one", "two", "three", "four", "five"}},
	}
	got := Resolve(scores, nil, "hint", "")
	assert.Equal(t, "one, two, three", got.Industry)
	assert.Len(t, got.Matched, 5)
}

// The comparison is purely arithmetic: four shared hits (4) beat one unique hit (3).
func TestSharedMatchesCanOutscoreUnique(t *testing.T) {
	t.Parallel()

	regs := []Registry{
		{TenantID: "orion", Keywords: []string{"orion"}},
		{TenantID: "lyra", Keywords: []string{"lyra", "zeta", "delta", "gamma", "kappa"}},
		{TenantID: "vega", Keywords: []string{"vega", "zeta", "delta", "gamma", "kappa"}},
	}
	m := NewMatcher(regs, NewOwnershipIndex(regs))

	scores := m.Score("orion report: zeta, delta, gamma and kappa")
	assert.Equal(t, UniqueWeight, scoreOf(t, scores, "orion").Score)
	assert.Equal(t, 4*SharedWeight, scoreOf(t, scores, "lyra").Score)
	assert.Equal(t, 4*SharedWeight, scoreOf(t, scores, "vega").Score)

	got := Resolve(scores, nil, "", "")
	require.True(t, got.Assigned())
	assert.Equal(t, "lyra", *got.TenantID)
	assert.Equal(t, "zeta, delta, gamma", got.Industry)

	scores = m.Score("orion report: zeta and delta")
	got = Resolve(scores, nil, "", "")
	require.True(t, got.Assigned())
	assert.Equal(t, "orion", *got.TenantID)
}

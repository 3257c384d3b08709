package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acmeFixture() ([]Registry, *Matcher) {
	regs := []Registry{
		{TenantID: "A", Keywords: []string{"acme", "ai"}},
		{TenantID: "B", Keywords: []string{"acme", "finance"}},
	}
	return regs, NewMatcher(regs, NewOwnershipIndex(regs))
}

func scoreOf(t *testing.T, scores []TenantScore, tenantID string) TenantScore {
	t.Helper()
	for _, s := range scores {
		if s.TenantID == tenantID {
			return s
		}
	}
	t.Fatalf("tenant %s not scored", tenantID)
	return TenantScore{}
}

func TestShortKeywordRequiresWholeToken(t *testing.T) {
	t.Parallel()

	_, m := acmeFixture()

	scores := m.Score("Breakthrough unrelated to said company")
	assert.Equal(t, 0, scoreOf(t, scores, "A").Score)
	assert.Equal(t, 0, scoreOf(t, scores, "B").Score)

	scores = m.Score("Paid maintenance plans")
	assert.Empty(t, scoreOf(t, scores, "A").Matched)

	scores = m.Score("AI breakthrough announced")
	a := scoreOf(t, scores, "A")
	assert.Equal(t, []string{"ai"}, a.Matched)
	assert.Equal(t, UniqueWeight, a.Score)
}

func TestShortKeywordMatchesAtPunctuation(t *testing.T) {
	t.Parallel()

	_, m := acmeFixture()

	for _, text := range []string{"(acme)", "acme, inc.", "news: acme", "acme"} {
		scores := m.Score(text)
		assert.Equal(t, []string{"acme"}, scoreOf(t, scores, "A").Matched, text)
	}
	scores := m.Score("acmeville council")
	assert.Empty(t, scoreOf(t, scores, "A").Matched)
}

func TestLongKeywordMatchesSubstring(t *testing.T) {
	t.Parallel()

	_, m := acmeFixture()

	scores := m.Score("Lender refinanced its debt")
	b := scoreOf(t, scores, "B")
	assert.Equal(t, []string{"finance"}, b.Matched)
	assert.Equal(t, UniqueWeight, b.Score)
}

func TestScoreSumsUniqueAndSharedWeights(t *testing.T) {
	t.Parallel()

	_, m := acmeFixture()

	scores := m.Score(DocumentText("Acme Corp expands its finance arm", "AI desk"))
	a := scoreOf(t, scores, "A")
	b := scoreOf(t, scores, "B")

	assert.Equal(t, SharedWeight+UniqueWeight, a.Score)
	assert.Equal(t, []string{"acme", "ai"}, a.Matched)
	assert.Equal(t, SharedWeight+UniqueWeight, b.Score)
	assert.Equal(t, []string{"acme", "finance"}, b.Matched)
}

func TestScoreGrowsWithMoreMatches(t *testing.T) {
	t.Parallel()

	_, m := acmeFixture()

	one := scoreOf(t, m.Score("acme results"), "B").Score
	two := scoreOf(t, m.Score("acme finance results"), "B").Score
	assert.Greater(t, two, one)
	assert.GreaterOrEqual(t, one, 0)
}

func TestScoreIsDeterministic(t *testing.T) {
	t.Parallel()

	_, m := acmeFixture()
	text := "Acme finance update on AI"
	assert.Equal(t, m.Score(text), m.Score(text))
}

func TestScoreWithoutRegistries(t *testing.T) {
	t.Parallel()

	m := NewMatcher(nil, NewOwnershipIndex(nil))
	assert.Empty(t, m.Score("anything at all"))
}

func TestScoreKeepsRegistryOrder(t *testing.T) {
	t.Parallel()

	regs, m := acmeFixture()
	scores := m.Score("nothing relevant")
	require.Len(t, scores, len(regs))
	for i, reg := range regs {
		assert.Equal(t, reg.TenantID, scores[i].TenantID)
	}
}

package optimizer

import (
	"testing"

	"github.com/eshaffer321/cardperks-backend/internal/domain/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func mockCards() []Card {
	return []Card{
		{
			ID:             "1",
			Name:           "Amex Platinum",
			RewardCurrency: "MR",
			Color:          "#1a1a2e",
			Categories: []Category{
				{Name: "flights", EarnRate: 5, EarnType: EarnMultiplier},
				{Name: "prepaid_hotels", EarnRate: 5, EarnType: EarnMultiplier},
				{Name: "everything_else", EarnRate: 1, EarnType: EarnMultiplier},
			},
		},
		{
			ID:             "2",
			Name:           "Alaska Visa",
			RewardCurrency: "miles",
			Color:          "#01426a",
			Categories: []Category{
				{Name: "grocery", EarnRate: 2, EarnType: EarnMultiplier},
				{Name: "alaska_airlines", EarnRate: 3, EarnType: EarnMultiplier},
				{Name: "everything_else", EarnRate: 1, EarnType: EarnMultiplier},
			},
		},
		{
			ID:             "3",
			Name:           "Discover it",
			RewardCurrency: "cashback",
			Color:          "#f76400",
			Categories: []Category{
				{Name: "grocery_q1_2026", EarnRate: 5, EarnType: EarnPercent, Notes: strptr("5% Jan-Mar 2026")},
				{Name: "everything_else", EarnRate: 1, EarnType: EarnPercent},
			},
		},
	}
}

func newOptimizer() *Optimizer {
	return New(resolver.NewDefault())
}

func TestRank_PlatinumFirstForFlights(t *testing.T) {
	results := newOptimizer().Rank("flights", mockCards())

	require.NotEmpty(t, results)
	assert.Equal(t, "Amex Platinum", results[0].Card.Name)
	assert.Equal(t, 5.0, results[0].EarnRate)
	assert.Equal(t, "flights", results[0].CategoryMatched)
}

func TestRank_AlaskaFirstForGrocery(t *testing.T) {
	results := newOptimizer().Rank("grocery", mockCards())

	require.NotEmpty(t, results)
	// Exact tier wins over the longer grocery_q1_2026 slug, so Alaska's 2x
	// beats both cards falling back to 1x
	assert.Equal(t, "Alaska Visa", results[0].Card.Name)
	assert.Equal(t, 2.0, results[0].EarnRate)
}

func TestRank_AlaskaAirlinesQuery(t *testing.T) {
	results := newOptimizer().Rank("alaska_airlines", mockCards())

	require.NotEmpty(t, results)
	assert.Equal(t, "Alaska Visa", results[0].Card.Name)
	assert.Equal(t, 3.0, results[0].EarnRate)
}

func TestRank_FallsBackToEverythingElse(t *testing.T) {
	results := newOptimizer().Rank("dining", mockCards())

	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, 1.0, r.EarnRate)
		assert.Equal(t, "everything_else", r.CategoryMatched)
		assert.Equal(t, resolver.ReasonFallback, r.MatchReason)
	}
}

func TestRank_AllCardsReturned(t *testing.T) {
	results := newOptimizer().Rank("flights", mockCards())

	assert.Len(t, results, 3)
}

func TestRank_StableTieOrder(t *testing.T) {
	results := newOptimizer().Rank("dining", mockCards())

	// All tied at 1x; input order must be preserved
	require.Len(t, results, 3)
	assert.Equal(t, "Amex Platinum", results[0].Card.Name)
	assert.Equal(t, "Alaska Visa", results[1].Card.Name)
	assert.Equal(t, "Discover it", results[2].Card.Name)
}

func TestRank_OtherCategoriesSortedByRate(t *testing.T) {
	results := newOptimizer().Rank("flights", mockCards())

	require.NotEmpty(t, results)
	other := results[0].OtherCategories
	require.Len(t, other, 2)
	assert.Equal(t, "prepaid_hotels", other[0].Name)
	assert.Equal(t, "everything_else", other[1].Name)
	for i := 1; i < len(other); i++ {
		assert.GreaterOrEqual(t, other[i-1].EarnRate, other[i].EarnRate)
	}
}

func TestRank_CardWithoutFallbackDropped(t *testing.T) {
	cards := []Card{
		{
			ID:   "broken",
			Name: "Misconfigured",
			Categories: []Category{
				{Name: "gas", EarnRate: 3, EarnType: EarnMultiplier},
			},
		},
	}

	results := newOptimizer().Rank("dining", cards)

	assert.Empty(t, results)
}

func TestRank_EmptyCardList(t *testing.T) {
	results := newOptimizer().Rank("flights", nil)

	assert.Empty(t, results)
}

func TestRank_AliasQuery(t *testing.T) {
	results := newOptimizer().Rank("whole foods", mockCards())

	require.NotEmpty(t, results)
	assert.Equal(t, "Alaska Visa", results[0].Card.Name)
	assert.Equal(t, "grocery", results[0].CategoryMatched)
	assert.Equal(t, resolver.ReasonAlias, results[0].MatchReason)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	cards := mockCards()

	_ = newOptimizer().Rank("flights", cards)

	assert.Equal(t, mockCards(), cards)
}

func TestRank_Idempotent(t *testing.T) {
	cards := mockCards()

	first := newOptimizer().Rank("grocry", cards)
	second := newOptimizer().Rank("grocry", cards)

	assert.Equal(t, first, second)
}

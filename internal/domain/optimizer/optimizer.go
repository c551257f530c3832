// Package optimizer ranks cards by earn rate for a spend query.
//
// The query is resolved once against the union of every card's categories,
// then each card is scored independently: its own entry for the resolved
// category if it has one, otherwise its everything_else entry. Results come
// back sorted by earn rate descending with ties preserving input order —
// callers rely on that ordering being deterministic.
package optimizer

import (
	"sort"

	"github.com/eshaffer321/cardperks-backend/internal/domain/resolver"
)

// Optimizer ranks cards using a category resolver.
type Optimizer struct {
	resolver *resolver.Resolver
}

// New creates an optimizer backed by the given resolver.
func New(r *resolver.Resolver) *Optimizer {
	return &Optimizer{resolver: r}
}

// Rank resolves query against the combined category set of cards and returns
// one CardResult per card, best earn rate first.
//
// A card with neither the resolved category nor an everything_else entry is
// dropped from the output — a data-quality problem for the caller to surface,
// not an error here.
func (o *Optimizer) Rank(query string, cards []Card) []CardResult {
	// Union of category slugs across all cards, input order preserved
	seen := make(map[string]bool)
	var allCategories []string
	for _, card := range cards {
		for _, c := range card.Categories {
			if !seen[c.Name] {
				seen[c.Name] = true
				allCategories = append(allCategories, c.Name)
			}
		}
	}

	match := o.resolver.Resolve(query, allCategories)

	results := make([]CardResult, 0, len(cards))
	for _, card := range cards {
		matched, ok := findCategory(card, match.Category)
		if !ok {
			matched, ok = findCategory(card, resolver.Fallback)
		}
		if !ok {
			continue
		}

		other := make([]Category, 0, len(card.Categories)-1)
		for _, c := range card.Categories {
			if c.Name != matched.Name {
				other = append(other, c)
			}
		}
		sort.SliceStable(other, func(i, j int) bool {
			return other[i].EarnRate > other[j].EarnRate
		})

		results = append(results, CardResult{
			Card:            card,
			EarnRate:        matched.EarnRate,
			EarnType:        matched.EarnType,
			CategoryMatched: matched.Name,
			MatchReason:     match.Reason,
			Notes:           matched.Notes,
			OtherCategories: other,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].EarnRate > results[j].EarnRate
	})

	return results
}

func findCategory(card Card, name string) (Category, bool) {
	for _, c := range card.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

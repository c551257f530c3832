// Package resolver maps a free-text spend query ("whole foods", "flights",
// "grocry") to a card category slug.
//
// Resolution runs a tiered strategy in strict priority order, first hit wins:
//
//  1. alias     — exact lookup in the merchant alias table
//  2. exact     — case-insensitive match against a known category
//  3. substring — known category contains the query or vice versa
//  4. fuzzy     — edit-distance match against alias keys, then categories
//  5. fallback  — the everything_else sentinel
//
// Resolution never fails: every query lands on some category, worst case the
// fallback sentinel.
package resolver

import "strings"

// Fallback is the sentinel category every card is expected to define.
// It is excluded from substring and fuzzy candidates so a weak match never
// shadows the real fallback path.
const Fallback = "everything_else"

// Minimum similarity scores for fuzzy acceptance. Alias keys are short
// merchant names, so they get a stricter threshold than category slugs.
const (
	aliasFuzzyThreshold    = 0.75
	categoryFuzzyThreshold = 0.70
)

// Reason records which tier of the strategy produced a match.
type Reason string

const (
	ReasonAlias     Reason = "alias"
	ReasonExact     Reason = "exact"
	ReasonSubstring Reason = "substring"
	ReasonFuzzy     Reason = "fuzzy"
	ReasonFallback  Reason = "fallback"
)

// Match is the result of resolving a query.
type Match struct {
	Category string `json:"category"`
	Reason   Reason `json:"reason"`
}

// Resolver resolves queries against a fixed alias table.
// Safe for concurrent use; the table is never mutated after construction.
type Resolver struct {
	aliases  []Alias
	aliasMap map[string]string
}

// New creates a resolver with the given alias table. Order matters: fuzzy
// ties go to the earlier entry.
func New(aliases []Alias) *Resolver {
	aliasMap := make(map[string]string, len(aliases))
	for _, a := range aliases {
		if _, exists := aliasMap[a.Merchant]; !exists {
			aliasMap[a.Merchant] = a.Category
		}
	}
	return &Resolver{aliases: aliases, aliasMap: aliasMap}
}

// NewDefault creates a resolver with the built-in merchant alias table.
func NewDefault() *Resolver {
	return New(DefaultAliases())
}

// readable converts a category slug to its human-readable form.
func readable(slug string) string {
	return strings.ReplaceAll(slug, "_", " ")
}

// Resolve maps query to one of knownCategories (or an alias target).
func (r *Resolver) Resolve(query string, knownCategories []string) Match {
	normalized := strings.TrimSpace(strings.ToLower(query))
	queryReadable := strings.ReplaceAll(normalized, "_", " ")

	// 1. Exact alias lookup
	if category, ok := r.aliasMap[normalized]; ok {
		return Match{Category: category, Reason: ReasonAlias}
	}

	// 2. Exact category match on the readable form
	for _, c := range knownCategories {
		if c != Fallback && readable(c) == queryReadable {
			return Match{Category: c, Reason: ReasonExact}
		}
	}

	// 3. Substring match, longest slug wins, ties by input order
	var sub string
	for _, c := range knownCategories {
		if c == Fallback {
			continue
		}
		cn := readable(c)
		if !strings.Contains(cn, queryReadable) && !strings.Contains(queryReadable, cn) {
			continue
		}
		if len(c) > len(sub) {
			sub = c
		}
	}
	if sub != "" {
		return Match{Category: sub, Reason: ReasonSubstring}
	}

	// 4. Fuzzy match against alias keys
	if category, ok := r.bestFuzzyAlias(normalized); ok {
		return Match{Category: category, Reason: ReasonFuzzy}
	}

	// 5. Fuzzy match against category readable forms
	if category, ok := bestFuzzyCategory(queryReadable, knownCategories); ok {
		return Match{Category: category, Reason: ReasonFuzzy}
	}

	return Match{Category: Fallback, Reason: ReasonFallback}
}

func (r *Resolver) bestFuzzyAlias(query string) (string, bool) {
	var best string
	var bestScore float64
	for _, a := range r.aliases {
		score := similarity(query, a.Merchant)
		if score >= aliasFuzzyThreshold && score > bestScore {
			bestScore = score
			best = a.Category
		}
	}
	return best, best != ""
}

func bestFuzzyCategory(queryReadable string, knownCategories []string) (string, bool) {
	var best string
	var bestScore float64
	for _, c := range knownCategories {
		if c == Fallback {
			continue
		}
		score := similarity(queryReadable, readable(c))
		if score >= categoryFuzzyThreshold && score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best, best != ""
}

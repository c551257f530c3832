package matcher

import "regexp"

// BenefitPattern maps a benefit name to the normalized description
// substrings that identify everyday purchases against it. Used by the
// bank-sync path, where transaction text is a raw merchant descriptor.
type BenefitPattern struct {
	Benefit  string   `yaml:"benefit"`
	Patterns []string `yaml:"patterns"`
}

// CreditRule classifies a statement-credit line item to a benefit name.
// Used by the CSV-import path, where the text is Amex's own credit
// description rather than a merchant descriptor, so the rule set is broader
// and regex-based. Rules are evaluated strictly in order; first match wins.
type CreditRule struct {
	Pattern *regexp.Regexp
	Benefit string
}

// DefaultBenefitPatterns returns the built-in substring table for the
// bank-sync path. Benefits absent from this table (Hotel Credit, Global
// Entry) are not auto-detectable from generic transaction text and are
// skipped.
//
// This table and DefaultCreditRules cover slightly different benefit sets
// (Walmart+ and Saks appear under different names, Uber One only has a
// credit rule). The two tables are kept separate.
func DefaultBenefitPatterns() []BenefitPattern {
	return []BenefitPattern{
		{"Digital Entertainment", []string{"disney", "peacock", "espn", "nytimes", "hulu", "spotify", "paramount", "appletv", "wsj", "amcplus", "appleone"}},
		{"Resy Credit", []string{"resy"}},
		{"lululemon Credit", []string{"lululemon"}},
		{"Uber Cash", []string{"uber"}},
		{"Walmart+", []string{"walmart"}},
		{"Saks", []string{"saks"}},
		{"Airline Fee Credit", []string{"alaska", "delta", "united", "americanair", "southwest", "jetblue", "frontier"}},
		{"CLEAR+", []string{"clearme", "clear"}},
		{"Equinox", []string{"equinox"}},
		{"Oura Ring", []string{"oura"}},
	}
}

// DefaultCreditRules returns the built-in rule list for classifying
// statement-credit descriptions. Order is priority: the broad DIGITAL ENT
// rule runs before narrower merchant rules so an "AMEX CREDIT - DIGITAL ENT"
// line never lands on a streaming merchant rule further down.
func DefaultCreditRules() []CreditRule {
	return []CreditRule{
		{regexp.MustCompile(`(?i)DIGITAL ENT|DISNEY|PEACOCK|ESPN|NYT|WALL ST`), "Digital Entertainment"},
		{regexp.MustCompile(`(?i)UBER CASH|UBER.*CREDIT`), "Uber Cash"},
		{regexp.MustCompile(`(?i)UBER ONE`), "Uber One Credit"},
		{regexp.MustCompile(`(?i)RESY`), "Resy Credit"},
		{regexp.MustCompile(`(?i)LULULEMON`), "lululemon Credit"},
		{regexp.MustCompile(`(?i)WALMART.*PLUS|WALMART.*CREDIT`), "Walmart+ Credit"},
		{regexp.MustCompile(`(?i)SAKS`), "Saks Fifth Avenue"},
		{regexp.MustCompile(`(?i)CLEAR.*CREDIT|CLEAR PLUS`), "CLEAR+ Credit"},
		{regexp.MustCompile(`(?i)AIRLINE.*CREDIT|ALASKA.*CREDIT`), "Airline Fee Credit"},
		{regexp.MustCompile(`(?i)HOTEL.*CREDIT|AMEX.*HOTEL`), "Hotel Credit"},
		{regexp.MustCompile(`(?i)EQUINOX`), "Equinox/SoulCycle"},
		{regexp.MustCompile(`(?i)OURA`), "Oura Ring Credit"},
	}
}

package optimizer

import "github.com/eshaffer321/cardperks-backend/internal/domain/resolver"

// EarnType describes how a category's earn rate is denominated.
type EarnType string

const (
	EarnMultiplier EarnType = "multiplier" // e.g. 5x points
	EarnCashback   EarnType = "cashback"   // flat cash back
	EarnPercent    EarnType = "percent"    // e.g. 5% rotating category
)

// Category is one earn-rate entry on a card.
type Category struct {
	Name     string   `json:"category_name"`
	EarnRate float64  `json:"earn_rate"`
	EarnType EarnType `json:"earn_type"`
	Notes    *string  `json:"notes"`
}

// Card is a credit card with its category list. Read-only input: ranking
// never mutates a card. Every well-formed card defines an everything_else
// category; cards missing it are dropped from ranking rather than erroring.
type Card struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	RewardCurrency string     `json:"reward_currency"`
	Color          string     `json:"color"`
	Categories     []Category `json:"categories"`
}

// CardResult is one card's entry in a ranking.
type CardResult struct {
	Card            Card            `json:"card"`
	EarnRate        float64         `json:"earn_rate"`
	EarnType        EarnType        `json:"earn_type"`
	CategoryMatched string          `json:"category_matched"`
	MatchReason     resolver.Reason `json:"match_reason"`
	Notes           *string         `json:"notes"`
	OtherCategories []Category      `json:"other_categories"`
}

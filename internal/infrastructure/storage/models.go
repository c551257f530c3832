package storage

import "time"

// Card is a stored credit card with its earn-rate categories.
type Card struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	RewardCurrency string         `json:"reward_currency"`
	Color          string         `json:"color"`
	Categories     []CardCategory `json:"categories"`
}

// CardCategory is one earn-rate entry on a stored card. Every well-formed
// card carries an everything_else entry; the API surfaces cards without one
// so the data problem can be fixed upstream.
type CardCategory struct {
	Name     string  `json:"category_name"`
	EarnRate float64 `json:"earn_rate"`
	EarnType string  `json:"earn_type"`
	Notes    *string `json:"notes"`
}

// Benefit is a recurring credit allotment on a card.
type Benefit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AmountCents int64     `json:"amount_cents"`
	ResetPeriod string    `json:"reset_period"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// BenefitUsage is one recorded usage event against a benefit period.
//
// The (benefit_id, period_key, notes) triple is the import dedup key: the
// same statement line re-imported from a second CSV upload must not record
// twice. The schema enforces it with a unique index.
type BenefitUsage struct {
	ID              string    `json:"id"`
	BenefitID       string    `json:"benefit_id"`
	PeriodKey       string    `json:"period_key"`
	AmountUsedCents int64     `json:"amount_used_cents"`
	Notes           string    `json:"notes"`
	Source          string    `json:"source"` // "csv" or "budget-sync"
	CreatedAt       time.Time `json:"created_at"`
}

// Offer is an Amex offer definition. SpendMinCents is nil for offers with
// no spend threshold.
type Offer struct {
	ID            string  `json:"id"`
	Merchant      string  `json:"merchant"`
	Description   string  `json:"description"`
	SpendMinCents *int64  `json:"spend_min_cents"`
}

// Enrollment is a user's enrollment in an offer. Merchant and SpendMinCents
// are denormalized from the offer on read so matching doesn't need a second
// query.
type Enrollment struct {
	ID            string     `json:"id"`
	OfferID       string     `json:"offer_id"`
	Merchant      string     `json:"merchant"`
	SpendMinCents *int64     `json:"spend_min_cents"`
	EnrolledAt    time.Time  `json:"enrolled_at"`
	ThresholdMet  bool       `json:"threshold_met"`
	SpentCents    int64      `json:"spent_amount_cents"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// SyncRun records one import or sync invocation for the history panel.
type SyncRun struct {
	ID            int64      `json:"id"`
	Source        string     `json:"source"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	Imported      int        `json:"imported"`
	Skipped       int        `json:"skipped"`
	OffersUpdated int        `json:"offers_updated"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}

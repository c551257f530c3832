package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// CategoryResponse is one earn-rate entry on a card.
type CategoryResponse struct {
	Name     string  `json:"category_name"`
	EarnRate float64 `json:"earn_rate"`
	EarnType string  `json:"earn_type"`
	Notes    *string `json:"notes,omitempty"`
}

// CardResponse represents a card in API responses.
type CardResponse struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	RewardCurrency string             `json:"reward_currency"`
	Color          string             `json:"color,omitempty"`
	Categories     []CategoryResponse `json:"categories"`
}

// CardListResponse is returned when listing cards.
type CardListResponse struct {
	Cards []CardResponse `json:"cards"`
	Count int            `json:"count"`
}

// RankedCardResponse is one card's entry in an optimizer ranking.
type RankedCardResponse struct {
	Card            CardResponse       `json:"card"`
	EarnRate        float64            `json:"earn_rate"`
	EarnType        string             `json:"earn_type"`
	CategoryMatched string             `json:"category_matched"`
	MatchReason     string             `json:"match_reason"`
	Notes           *string            `json:"notes,omitempty"`
	OtherCategories []CategoryResponse `json:"other_categories"`
}

// OptimizerResponse is returned by the optimizer endpoint.
type OptimizerResponse struct {
	Query   string               `json:"query"`
	Results []RankedCardResponse `json:"results"`
}

// BenefitResponse represents a benefit with its current-period state.
type BenefitResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	AmountCents    int64  `json:"amount_cents"`
	ResetPeriod    string `json:"reset_period"`
	PeriodKey      string `json:"period_key"`
	PeriodEnd      string `json:"period_end"`
	UsedCents      int64  `json:"used_cents"`
	RemainingCents int64  `json:"remaining_cents"`
	ExpiringSoon   bool   `json:"expiring_soon"`
}

// BenefitListResponse is returned when listing benefits.
type BenefitListResponse struct {
	Benefits []BenefitResponse `json:"benefits"`
	Count    int               `json:"count"`
}

// UsageResponse is one recorded usage row.
type UsageResponse struct {
	ID              string `json:"id"`
	PeriodKey       string `json:"period_key"`
	AmountUsedCents int64  `json:"amount_used_cents"`
	Notes           string `json:"notes,omitempty"`
	Source          string `json:"source"`
}

// UsageListResponse is returned when listing a benefit's usage.
type UsageListResponse struct {
	BenefitID string          `json:"benefit_id"`
	PeriodKey string          `json:"period_key"`
	Usage     []UsageResponse `json:"usage"`
	Count     int             `json:"count"`
}

// OfferResponse represents an offer in API responses.
type OfferResponse struct {
	ID            string `json:"id"`
	Merchant      string `json:"merchant"`
	Description   string `json:"description,omitempty"`
	SpendMinCents *int64 `json:"spend_min_cents,omitempty"`
}

// OfferListResponse is returned when listing offers.
type OfferListResponse struct {
	Offers []OfferResponse `json:"offers"`
	Count  int             `json:"count"`
}

// EnrollmentResponse represents an enrollment in API responses.
type EnrollmentResponse struct {
	ID            string `json:"id"`
	OfferID       string `json:"offer_id"`
	Merchant      string `json:"merchant"`
	SpendMinCents *int64 `json:"spend_min_cents,omitempty"`
	EnrolledAt    string `json:"enrolled_at"`
	ThresholdMet  bool   `json:"threshold_met"`
	SpentCents    int64  `json:"spent_amount_cents"`
}

// EnrollmentListResponse is returned when listing enrollments.
type EnrollmentListResponse struct {
	Enrollments []EnrollmentResponse `json:"enrollments"`
	Count       int                  `json:"count"`
}

// ImportResponse is returned after a CSV statement import.
type ImportResponse struct {
	Parsed           int                   `json:"parsed"`
	BenefitsImported int                   `json:"benefits_imported"`
	BenefitsSkipped  int                   `json:"benefits_skipped"`
	OffersUpdated    int                   `json:"offers_updated"`
	Matches          []ImportMatchResponse `json:"matches"`
}

// ImportMatchResponse is one benefit credit detected during an import.
type ImportMatchResponse struct {
	BenefitName string `json:"benefit_name"`
	PeriodKey   string `json:"period_key"`
	AmountCents int64  `json:"amount_cents"`
	Notes       string `json:"notes,omitempty"`
}

// SyncRunResponse represents an import/sync run in API responses.
type SyncRunResponse struct {
	ID            int64  `json:"id"`
	Source        string `json:"source"`
	StartedAt     string `json:"started_at"`
	CompletedAt   string `json:"completed_at,omitempty"`
	Imported      int    `json:"imported"`
	Skipped       int    `json:"skipped"`
	OffersUpdated int    `json:"offers_updated"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

// SyncRunListResponse is returned when listing sync runs.
type SyncRunListResponse struct {
	Runs  []SyncRunResponse `json:"runs"`
	Count int               `json:"count"`
}

package matcher

import (
	"time"

	"github.com/eshaffer321/cardperks-backend/internal/domain/period"
)

// Transaction is a parsed bank transaction record. Amounts are signed cents;
// credits (refunds, statement credits) are positive per the Amex export
// convention.
type Transaction struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	IsCredit    bool      `json:"is_credit"`
}

// Benefit is a recurring credit allotment. The matcher only reads it.
type Benefit struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	AmountCents int64        `json:"amount_cents"`
	ResetPeriod period.Reset `json:"reset_period"`
}

// BenefitMatch reports detected usage for one benefit in its current period.
// AmountUsedCents is capped at the benefit's allotment for a single batch;
// callers merging across batches must re-apply the cap themselves.
type BenefitMatch struct {
	BenefitID       string `json:"benefit_id"`
	BenefitName     string `json:"benefit_name"`
	PeriodKey       string `json:"period_key"`
	AmountUsedCents int64  `json:"amount_used_cents"`
}

// EnrolledOffer is an offer enrollment with an optional spend threshold.
// SpendMinCents is nil when the offer defines no threshold; such enrollments
// are never evaluated, neither met nor unmet.
type EnrolledOffer struct {
	EnrollmentID  string    `json:"enrollment_id"`
	OfferID       string    `json:"offer_id"`
	Merchant      string    `json:"merchant"`
	SpendMinCents *int64    `json:"spend_min_cents"`
	EnrolledAt    time.Time `json:"enrolled_at"`
}

// OfferMatch reports an enrollment whose accumulated spend reached its
// threshold. SpendMinCents echoes the original threshold for display.
type OfferMatch struct {
	EnrollmentID    string `json:"enrollment_id"`
	OfferID         string `json:"offer_id"`
	TotalSpentCents int64  `json:"total_spent_cents"`
	SpendMinCents   int64  `json:"spend_min_cents"`
}

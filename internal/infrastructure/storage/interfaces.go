package storage

import "time"

// Repository defines the complete storage interface.
// This interface allows swapping implementations and makes testing with
// mocks straightforward.
type Repository interface {
	CardRepository
	BenefitRepository
	OfferRepository
	SyncRunRepository
	Close() error
}

// CardRepository handles card and category operations.
type CardRepository interface {
	// SaveCard inserts or replaces a card with its categories
	SaveCard(card *Card) error

	// ListCards returns all cards with their categories, insertion order
	ListCards() ([]Card, error)
}

// BenefitRepository handles benefit and usage operations.
type BenefitRepository interface {
	// SaveBenefit inserts or replaces a benefit
	SaveBenefit(benefit *Benefit) error

	// ListBenefits returns benefits, optionally only active ones
	ListBenefits(activeOnly bool) ([]Benefit, error)

	// GetBenefit retrieves a benefit by ID; ErrNotFound if absent
	GetBenefit(id string) (*Benefit, error)

	// ListUsage returns usage rows for a benefit in a period
	ListUsage(benefitID, periodKey string) ([]BenefitUsage, error)

	// HasUsage checks the import dedup key (benefit, period, notes)
	HasUsage(benefitID, periodKey, notes string) (bool, error)

	// RecordUsage inserts a usage row, assigning an ID when empty.
	// Returns ErrDuplicateUsage when the dedup key already exists.
	RecordUsage(usage *BenefitUsage) error

	// UpsertUsage inserts a usage row, replacing any existing row with the
	// same dedup key. Used by budget-sync, which recomputes period usage
	// fresh on every run.
	UpsertUsage(usage *BenefitUsage) error
}

// OfferRepository handles offer and enrollment operations.
type OfferRepository interface {
	// SaveOffer inserts or replaces an offer
	SaveOffer(offer *Offer) error

	// ListOffers returns all offers, insertion order
	ListOffers() ([]Offer, error)

	// GetOffer retrieves an offer by ID; ErrNotFound if absent
	GetOffer(id string) (*Offer, error)

	// Enroll records an enrollment in an offer
	Enroll(enrollment *Enrollment) error

	// ListEnrollments returns enrollments joined with their offer's
	// merchant and threshold, optionally only ones not yet met
	ListEnrollments(openOnly bool) ([]Enrollment, error)

	// MarkThresholdMet flips an enrollment to met with its final spend
	MarkThresholdMet(enrollmentID string, spentCents int64, completedAt time.Time) error
}

// SyncRunRepository records import/sync history.
type SyncRunRepository interface {
	// StartSyncRun opens a run and returns its ID
	StartSyncRun(source string) (int64, error)

	// CompleteSyncRun closes a run with its counters
	CompleteSyncRun(id int64, imported, skipped, offersUpdated int, errorMessage string) error

	// ListSyncRuns returns the most recent runs, newest first
	ListSyncRuns(limit int) ([]SyncRun, error)
}

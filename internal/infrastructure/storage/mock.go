package storage

import (
	"sort"
	"strconv"
	"time"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores everything in maps and slices, making tests fast and isolated.
type MockRepository struct {
	cards       []Card
	benefits    map[string]*Benefit
	usage       []BenefitUsage
	offers      map[string]*Offer
	enrollments map[string]*Enrollment
	syncRuns    map[int64]*SyncRun
	nextRunID   int64
	nextID      int

	// Hooks for test assertions
	RecordUsageCalled      bool
	UpsertUsageCalled      bool
	LastRecordedUsage      *BenefitUsage
	MarkThresholdMetCalled bool

	// Error injection for testing error paths
	ListCardsErr       error
	ListBenefitsErr    error
	RecordUsageErr     error
	ListEnrollmentsErr error
	MarkThresholdErr   error
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		benefits:    make(map[string]*Benefit),
		offers:      make(map[string]*Offer),
		enrollments: make(map[string]*Enrollment),
		syncRuns:    make(map[int64]*SyncRun),
	}
}

func (m *MockRepository) newID() string {
	m.nextID++
	return "mock-" + strconv.Itoa(m.nextID)
}

func (m *MockRepository) Close() error { return nil }

func (m *MockRepository) SaveCard(card *Card) error {
	if card.ID == "" {
		card.ID = m.newID()
	}
	for i := range m.cards {
		if m.cards[i].ID == card.ID {
			m.cards[i] = *card
			return nil
		}
	}
	m.cards = append(m.cards, *card)
	return nil
}

func (m *MockRepository) ListCards() ([]Card, error) {
	if m.ListCardsErr != nil {
		return nil, m.ListCardsErr
	}
	return append([]Card(nil), m.cards...), nil
}

func (m *MockRepository) SaveBenefit(benefit *Benefit) error {
	if benefit.ID == "" {
		benefit.ID = m.newID()
	}
	copied := *benefit
	m.benefits[benefit.ID] = &copied
	return nil
}

func (m *MockRepository) ListBenefits(activeOnly bool) ([]Benefit, error) {
	if m.ListBenefitsErr != nil {
		return nil, m.ListBenefitsErr
	}
	var benefits []Benefit
	for _, b := range m.benefits {
		if activeOnly && !b.Active {
			continue
		}
		benefits = append(benefits, *b)
	}
	sort.Slice(benefits, func(i, j int) bool { return benefits[i].Name < benefits[j].Name })
	return benefits, nil
}

func (m *MockRepository) GetBenefit(id string) (*Benefit, error) {
	b, ok := m.benefits[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *MockRepository) ListUsage(benefitID, periodKey string) ([]BenefitUsage, error) {
	var result []BenefitUsage
	for _, u := range m.usage {
		if u.BenefitID == benefitID && u.PeriodKey == periodKey {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *MockRepository) HasUsage(benefitID, periodKey, notes string) (bool, error) {
	for _, u := range m.usage {
		if u.BenefitID == benefitID && u.PeriodKey == periodKey && u.Notes == notes {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) RecordUsage(usage *BenefitUsage) error {
	m.RecordUsageCalled = true
	if m.RecordUsageErr != nil {
		return m.RecordUsageErr
	}
	exists, _ := m.HasUsage(usage.BenefitID, usage.PeriodKey, usage.Notes)
	if exists {
		return ErrDuplicateUsage
	}
	if usage.ID == "" {
		usage.ID = m.newID()
	}
	m.LastRecordedUsage = usage
	m.usage = append(m.usage, *usage)
	return nil
}

func (m *MockRepository) UpsertUsage(usage *BenefitUsage) error {
	m.UpsertUsageCalled = true
	if usage.ID == "" {
		usage.ID = m.newID()
	}
	for i, u := range m.usage {
		if u.BenefitID == usage.BenefitID && u.PeriodKey == usage.PeriodKey && u.Notes == usage.Notes {
			m.usage[i] = *usage
			return nil
		}
	}
	m.usage = append(m.usage, *usage)
	return nil
}

func (m *MockRepository) SaveOffer(offer *Offer) error {
	if offer.ID == "" {
		offer.ID = m.newID()
	}
	copied := *offer
	m.offers[offer.ID] = &copied
	return nil
}

func (m *MockRepository) ListOffers() ([]Offer, error) {
	var offers []Offer
	for _, o := range m.offers {
		offers = append(offers, *o)
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].ID < offers[j].ID })
	return offers, nil
}

func (m *MockRepository) GetOffer(id string) (*Offer, error) {
	o, ok := m.offers[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *MockRepository) Enroll(enrollment *Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = m.newID()
	}
	copied := *enrollment
	m.enrollments[enrollment.ID] = &copied
	return nil
}

func (m *MockRepository) ListEnrollments(openOnly bool) ([]Enrollment, error) {
	if m.ListEnrollmentsErr != nil {
		return nil, m.ListEnrollmentsErr
	}
	var result []Enrollment
	for _, e := range m.enrollments {
		if openOnly && e.ThresholdMet {
			continue
		}
		joined := *e
		if offer, ok := m.offers[e.OfferID]; ok {
			joined.Merchant = offer.Merchant
			joined.SpendMinCents = offer.SpendMinCents
		}
		result = append(result, joined)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockRepository) MarkThresholdMet(enrollmentID string, spentCents int64, completedAt time.Time) error {
	m.MarkThresholdMetCalled = true
	if m.MarkThresholdErr != nil {
		return m.MarkThresholdErr
	}
	e, ok := m.enrollments[enrollmentID]
	if !ok {
		return ErrNotFound
	}
	e.ThresholdMet = true
	e.SpentCents = spentCents
	e.CompletedAt = &completedAt
	return nil
}

func (m *MockRepository) StartSyncRun(source string) (int64, error) {
	m.nextRunID++
	m.syncRuns[m.nextRunID] = &SyncRun{ID: m.nextRunID, Source: source, StartedAt: time.Now().UTC()}
	return m.nextRunID, nil
}

func (m *MockRepository) CompleteSyncRun(id int64, imported, skipped, offersUpdated int, errorMessage string) error {
	run, ok := m.syncRuns[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.Imported = imported
	run.Skipped = skipped
	run.OffersUpdated = offersUpdated
	run.ErrorMessage = errorMessage
	return nil
}

func (m *MockRepository) ListSyncRuns(limit int) ([]SyncRun, error) {
	var runs []SyncRun
	for _, r := range m.syncRuns {
		runs = append(runs, *r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID > runs[j].ID })
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

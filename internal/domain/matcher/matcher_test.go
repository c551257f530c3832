package matcher

import (
	"testing"
	"time"

	"github.com/eshaffer321/cardperks-backend/internal/domain/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func int64ptr(v int64) *int64 { return &v }

func TestNormalizeMerchant(t *testing.T) {
	assert.Equal(t, "traderjoes552", NormalizeMerchant("Trader Joe's #552"))
	assert.Equal(t, "deltaairlines", NormalizeMerchant("DELTA AIR LINES"))
	assert.Equal(t, "", NormalizeMerchant("  --- "))
	assert.Equal(t, "uber", NormalizeMerchant("UBER"))
}

func TestOfferSpend_OnlyAfterEnrollment(t *testing.T) {
	m := NewDefault()
	enrolledAt := date(2026, time.January, 10)

	txns := []Transaction{
		{Date: enrolledAt, Description: "DELTA AIR LINES ATLANTA", AmountCents: 5000},
		{Date: date(2026, time.January, 5), Description: "DELTA AIR LINES ATLANTA", AmountCents: 100000},
	}

	assert.Equal(t, int64(5000), m.OfferSpend("Delta", enrolledAt, txns))
}

func TestOfferSpend_SubstringContainment(t *testing.T) {
	m := NewDefault()
	enrolledAt := date(2026, time.January, 1)

	txns := []Transaction{
		{Date: date(2026, time.February, 1), Description: "TST* RESY - SOME BISTRO", AmountCents: 7500},
		{Date: date(2026, time.February, 2), Description: "WHOLE FOODS MARKET", AmountCents: 4200},
	}

	assert.Equal(t, int64(7500), m.OfferSpend("Resy", enrolledAt, txns))
}

func TestOfferSpend_EmptyMerchantMatchesNothing(t *testing.T) {
	m := NewDefault()

	txns := []Transaction{
		{Date: date(2026, time.February, 1), Description: "ANYTHING", AmountCents: 100},
	}

	assert.Equal(t, int64(0), m.OfferSpend("  !! ", date(2026, time.January, 1), txns))
}

func TestMatchBenefits_SumsCurrentPeriod(t *testing.T) {
	m := NewDefault()
	now := date(2026, time.March, 15)

	benefits := []Benefit{
		{ID: "b1", Name: "Digital Entertainment", AmountCents: 2500, ResetPeriod: period.Monthly},
	}
	txns := []Transaction{
		{Date: date(2026, time.March, 3), Description: "DISNEY PLUS BURBANK", AmountCents: 1299},
		{Date: date(2026, time.March, 10), Description: "PEACOCK PREMIUM", AmountCents: 599},
		// Previous period, excluded
		{Date: date(2026, time.February, 28), Description: "DISNEY PLUS BURBANK", AmountCents: 1299},
	}

	results := m.MatchBenefits(benefits, txns, now)

	require.Len(t, results, 1)
	assert.Equal(t, "b1", results[0].BenefitID)
	assert.Equal(t, "2026-03", results[0].PeriodKey)
	assert.Equal(t, int64(1898), results[0].AmountUsedCents)
}

func TestMatchBenefits_CapsAtAllotment(t *testing.T) {
	m := NewDefault()
	now := date(2026, time.March, 15)

	benefits := []Benefit{
		{ID: "b1", Name: "Uber Cash", AmountCents: 1500, ResetPeriod: period.Monthly},
	}
	txns := []Transaction{
		{Date: date(2026, time.March, 3), Description: "UBER TRIP SAN FRANCISCO", AmountCents: 2300},
	}

	results := m.MatchBenefits(benefits, txns, now)

	require.Len(t, results, 1)
	assert.Equal(t, int64(1500), results[0].AmountUsedCents)
}

func TestMatchBenefits_UnconfiguredBenefitSkipped(t *testing.T) {
	m := NewDefault()
	now := date(2026, time.March, 15)

	// Hotel Credit has no pattern entry: AmexTravel-only, undetectable
	benefits := []Benefit{
		{ID: "b1", Name: "Hotel Credit", AmountCents: 20000, ResetPeriod: period.Annual},
	}
	txns := []Transaction{
		{Date: date(2026, time.March, 3), Description: "MARRIOTT DOWNTOWN", AmountCents: 20000},
	}

	assert.Empty(t, m.MatchBenefits(benefits, txns, now))
}

func TestMatchBenefits_NoMatchesNoResult(t *testing.T) {
	m := NewDefault()
	now := date(2026, time.March, 15)

	benefits := []Benefit{
		{ID: "b1", Name: "Resy Credit", AmountCents: 10000, ResetPeriod: period.Monthly},
	}
	txns := []Transaction{
		{Date: date(2026, time.March, 3), Description: "SHELL OIL", AmountCents: 4800},
	}

	assert.Empty(t, m.MatchBenefits(benefits, txns, now))
}

func TestMatchBenefits_SemiAnnualPeriodWindow(t *testing.T) {
	m := NewDefault()
	now := date(2026, time.August, 10)

	benefits := []Benefit{
		{ID: "b1", Name: "Saks", AmountCents: 5000, ResetPeriod: period.SemiAnnual},
	}
	txns := []Transaction{
		// June is H1, outside the current H2 window
		{Date: date(2026, time.June, 20), Description: "SAKS FIFTH AVENUE", AmountCents: 5000},
		{Date: date(2026, time.July, 2), Description: "SAKS FIFTH AVENUE", AmountCents: 2100},
	}

	results := m.MatchBenefits(benefits, txns, now)

	require.Len(t, results, 1)
	assert.Equal(t, "2026-H2", results[0].PeriodKey)
	assert.Equal(t, int64(2100), results[0].AmountUsedCents)
}

func TestMatchBenefits_CustomTable(t *testing.T) {
	m := New([]BenefitPattern{
		{Benefit: "Coffee Credit", Patterns: []string{"bluebottle"}},
	}, nil)
	now := date(2026, time.March, 15)

	benefits := []Benefit{
		{ID: "b1", Name: "Coffee Credit", AmountCents: 1000, ResetPeriod: period.Monthly},
	}
	txns := []Transaction{
		{Date: date(2026, time.March, 3), Description: "BLUE BOTTLE COFFEE", AmountCents: 650},
	}

	results := m.MatchBenefits(benefits, txns, now)

	require.Len(t, results, 1)
	assert.Equal(t, int64(650), results[0].AmountUsedCents)
}

func TestClassifyCredit_FirstRuleWins(t *testing.T) {
	m := NewDefault()

	// DISNEY also appears in the Digital Entertainment rule, which is first
	name, ok := m.ClassifyCredit("AMEX CREDIT - DIGITAL ENT", 2500)

	require.True(t, ok)
	assert.Equal(t, "Digital Entertainment", name)
}

func TestClassifyCredit_DebitsNeverMatch(t *testing.T) {
	m := NewDefault()

	_, ok := m.ClassifyCredit("RESY CREDIT", -1000)

	assert.False(t, ok)
}

func TestClassifyCredit_NoRuleMatches(t *testing.T) {
	m := NewDefault()

	_, ok := m.ClassifyCredit("WHOLE FOODS MARKET", 4500)

	assert.False(t, ok)
}

func TestClassifyCredit_CaseInsensitive(t *testing.T) {
	m := NewDefault()

	name, ok := m.ClassifyCredit("uber cash credit", 1500)

	require.True(t, ok)
	assert.Equal(t, "Uber Cash", name)
}

func TestMatchOffers_ThresholdMet(t *testing.T) {
	m := NewDefault()

	enrollments := []EnrolledOffer{
		{EnrollmentID: "e1", OfferID: "o1", Merchant: "Delta", SpendMinCents: int64ptr(10000), EnrolledAt: date(2026, time.January, 1)},
	}
	txns := []Transaction{
		{Date: date(2026, time.February, 1), Description: "DELTA AIR LINES", AmountCents: 6000, IsCredit: true},
		{Date: date(2026, time.February, 10), Description: "DELTA AIR LINES", AmountCents: 5000, IsCredit: true},
	}

	results := m.MatchOffers(enrollments, txns)

	require.Len(t, results, 1)
	assert.Equal(t, "e1", results[0].EnrollmentID)
	assert.Equal(t, int64(11000), results[0].TotalSpentCents)
	assert.Equal(t, int64(10000), results[0].SpendMinCents)
}

func TestMatchOffers_BelowThreshold(t *testing.T) {
	m := NewDefault()

	enrollments := []EnrolledOffer{
		{EnrollmentID: "e1", OfferID: "o1", Merchant: "Delta", SpendMinCents: int64ptr(10000)},
	}
	txns := []Transaction{
		{Date: date(2026, time.February, 1), Description: "DELTA AIR LINES", AmountCents: 6000, IsCredit: true},
	}

	assert.Empty(t, m.MatchOffers(enrollments, txns))
}

func TestMatchOffers_NilThresholdSkipped(t *testing.T) {
	m := NewDefault()

	enrollments := []EnrolledOffer{
		{EnrollmentID: "e1", OfferID: "o1", Merchant: "Delta", SpendMinCents: nil},
	}
	txns := []Transaction{
		{Date: date(2026, time.February, 1), Description: "DELTA AIR LINES", AmountCents: 60000, IsCredit: true},
	}

	assert.Empty(t, m.MatchOffers(enrollments, txns))
}

func TestMatchOffers_EmptyMerchantSkipped(t *testing.T) {
	m := NewDefault()

	enrollments := []EnrolledOffer{
		{EnrollmentID: "e1", OfferID: "o1", Merchant: "", SpendMinCents: int64ptr(1)},
	}
	txns := []Transaction{
		{Date: date(2026, time.February, 1), Description: "ANYTHING AT ALL", AmountCents: 60000, IsCredit: true},
	}

	assert.Empty(t, m.MatchOffers(enrollments, txns))
}

func TestMatchOffers_DebitsExcluded(t *testing.T) {
	m := NewDefault()

	enrollments := []EnrolledOffer{
		{EnrollmentID: "e1", OfferID: "o1", Merchant: "Delta", SpendMinCents: int64ptr(5000)},
	}
	txns := []Transaction{
		{Date: date(2026, time.February, 1), Description: "DELTA AIR LINES", AmountCents: -6000, IsCredit: false},
	}

	assert.Empty(t, m.MatchOffers(enrollments, txns))
}

// Package matcher maps bank transaction records to benefit usage and offer
// spend.
//
// Two independent paths share only the merchant normalization helper:
//
//   - Bank-sync: everyday purchase descriptions matched against substring
//     pattern tables (MatchBenefits, OfferSpend).
//   - CSV import: Amex statement-credit line items classified by an ordered
//     regex rule list (ClassifyCredit), and offer thresholds evaluated over
//     a whole statement (MatchOffers).
//
// Every entry point is non-throwing over well-typed input. A transaction
// that matches nothing simply falls out of the sums; a single odd row never
// aborts a batch.
package matcher

import (
	"strings"
	"time"

	"github.com/eshaffer321/cardperks-backend/internal/domain/period"
)

// Matcher evaluates transactions against configured pattern tables.
// Safe for concurrent use; tables are never mutated after construction.
type Matcher struct {
	benefitPatterns []BenefitPattern
	creditRules     []CreditRule
}

// New creates a matcher with the given tables. Both lists are ordered;
// order is priority for the credit rules.
func New(benefitPatterns []BenefitPattern, creditRules []CreditRule) *Matcher {
	return &Matcher{
		benefitPatterns: benefitPatterns,
		creditRules:     creditRules,
	}
}

// NewDefault creates a matcher with the built-in tables.
func NewDefault() *Matcher {
	return New(DefaultBenefitPatterns(), DefaultCreditRules())
}

// NormalizeMerchant lowercases s and strips every character outside
// [a-z0-9]. "Trader Joe's #552" and "TRADERJOES" normalize to forms where
// substring containment works.
func NormalizeMerchant(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OfferSpend sums the cents of transactions on/after enrolledAt whose
// normalized description contains the normalized merchant. Amounts are
// summed as given; the sign convention belongs to the feeding dataset.
//
// An empty normalized merchant returns 0 — an unconfigured merchant must
// not match every transaction.
func (m *Matcher) OfferSpend(merchant string, enrolledAt time.Time, txns []Transaction) int64 {
	norm := NormalizeMerchant(merchant)
	if norm == "" {
		return 0
	}

	var total int64
	for _, t := range txns {
		if t.Date.Before(enrolledAt) {
			continue
		}
		if strings.Contains(NormalizeMerchant(t.Description), norm) {
			total += t.AmountCents
		}
	}
	return total
}

// MatchBenefits detects current-period usage for each benefit with
// configured patterns. Benefits without an entry in the pattern table are
// skipped silently — not every benefit is detectable from generic
// transaction text. Reported usage is capped at the benefit's allotment.
func (m *Matcher) MatchBenefits(benefits []Benefit, txns []Transaction, now time.Time) []BenefitMatch {
	var results []BenefitMatch

	for _, benefit := range benefits {
		patterns, ok := m.patternsFor(benefit.Name)
		if !ok {
			continue
		}

		start := period.Start(benefit.ResetPeriod, now)

		var matched int64
		for _, t := range txns {
			if t.Date.Before(start) {
				continue
			}
			desc := NormalizeMerchant(t.Description)
			for _, p := range patterns {
				if strings.Contains(desc, p) {
					matched += t.AmountCents
					break
				}
			}
		}

		if matched == 0 {
			continue
		}
		if matched > benefit.AmountCents {
			matched = benefit.AmountCents
		}

		results = append(results, BenefitMatch{
			BenefitID:       benefit.ID,
			BenefitName:     benefit.Name,
			PeriodKey:       period.Key(benefit.ResetPeriod, now),
			AmountUsedCents: matched,
		})
	}

	return results
}

func (m *Matcher) patternsFor(benefitName string) ([]string, bool) {
	for _, bp := range m.benefitPatterns {
		if bp.Benefit == benefitName {
			return bp.Patterns, true
		}
	}
	return nil, false
}

// ClassifyCredit maps a statement-credit line item to a benefit name via
// the ordered credit rule list. Only credit-direction amounts classify;
// amountCents <= 0 never matches. Returns false when no rule matches.
func (m *Matcher) ClassifyCredit(description string, amountCents int64) (string, bool) {
	if amountCents <= 0 {
		return "", false
	}
	for _, rule := range m.creditRules {
		if rule.Pattern.MatchString(description) {
			return rule.Benefit, true
		}
	}
	return "", false
}

// MatchOffers evaluates open enrollments against a statement batch.
// Enrollments with no threshold or an empty merchant are skipped entirely.
// An enrollment whose matching credit-side spend reaches its threshold is
// reported with the cumulative cents and the original threshold.
func (m *Matcher) MatchOffers(enrollments []EnrolledOffer, txns []Transaction) []OfferMatch {
	var results []OfferMatch

	for _, e := range enrollments {
		if e.SpendMinCents == nil {
			continue
		}
		norm := NormalizeMerchant(e.Merchant)
		if norm == "" {
			continue
		}

		var total int64
		for _, t := range txns {
			if !t.IsCredit {
				continue
			}
			if strings.Contains(NormalizeMerchant(t.Description), norm) {
				total += t.AmountCents
			}
		}

		if total >= *e.SpendMinCents {
			results = append(results, OfferMatch{
				EnrollmentID:    e.EnrollmentID,
				OfferID:         e.OfferID,
				TotalSpentCents: total,
				SpendMinCents:   *e.SpendMinCents,
			})
		}
	}

	return results
}

// Package period computes calendar reset periods for recurring card benefits.
//
// A benefit resets on a fixed cadence (monthly, quarterly, semi-annual,
// annual, or every 4 years). Usage is bucketed by a period key derived from
// the transaction date, and the UI needs period boundaries and an
// "expiring soon" signal for reminder banners.
//
// All calculations are done in UTC so results don't drift with the server's
// local timezone. Every function is stateless and total: there are no error
// cases for a valid Reset value.
package period

import (
	"fmt"
	"time"
)

// Reset is a benefit reset cadence.
type Reset string

const (
	Monthly    Reset = "monthly"
	Quarterly  Reset = "quarterly"
	SemiAnnual Reset = "semi-annual"
	Annual     Reset = "annual"
	FourYear   Reset = "4-year"
)

// expiryDay is the day of month on/after which a period counts as expiring.
const expiryDay = 20

// Key returns the identifier for the period containing t.
//
// Keys sort lexicographically in time order within a cadence:
// monthly "2026-03", quarterly "2026-Q1", semi-annual "2026-H2",
// annual and 4-year "2026".
func Key(r Reset, t time.Time) string {
	t = t.UTC()
	year := t.Year()
	month := int(t.Month())

	switch r {
	case Monthly:
		return fmt.Sprintf("%d-%02d", year, month)
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", year, (month+2)/3)
	case SemiAnnual:
		half := 1
		if month > 6 {
			half = 2
		}
		return fmt.Sprintf("%d-H%d", year, half)
	default: // Annual, FourYear
		return fmt.Sprintf("%d", year)
	}
}

// Start returns the first calendar day of the period containing t,
// at UTC midnight.
func Start(r Reset, t time.Time) time.Time {
	t = t.UTC()
	year := t.Year()
	month := int(t.Month())

	switch r {
	case Monthly:
		return time.Date(year, t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Quarterly:
		startMonth := ((month-1)/3)*3 + 1
		return time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
	case SemiAnnual:
		startMonth := 1
		if month > 6 {
			startMonth = 7
		}
		return time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
	default: // Annual, FourYear
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

// End returns the last calendar day of the period containing t, inclusive,
// at UTC midnight.
//
// Implemented as "day 0 of the following period" so month lengths and leap
// years fall out of time.Date normalization instead of a lookup table.
func End(r Reset, t time.Time) time.Time {
	t = t.UTC()
	year := t.Year()
	month := int(t.Month())

	switch r {
	case Monthly:
		return time.Date(year, t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	case Quarterly:
		lastMonth := ((month + 2) / 3) * 3
		return time.Date(year, time.Month(lastMonth)+1, 0, 0, 0, 0, 0, time.UTC)
	case SemiAnnual:
		lastMonth := 6
		if month > 6 {
			lastMonth = 12
		}
		return time.Date(year, time.Month(lastMonth)+1, 0, 0, 0, 0, 0, time.UTC)
	default: // Annual, FourYear
		return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
}

// ExpiringSoon reports whether t falls in the terminal window of its period:
// on or after the 20th of the period's final month. Annual and 4-year
// benefits have no terminal window and always return false.
func ExpiringSoon(r Reset, t time.Time) bool {
	t = t.UTC()
	day := t.Day()
	month := int(t.Month())

	switch r {
	case Monthly:
		return day >= expiryDay
	case Quarterly:
		lastMonth := ((month + 2) / 3) * 3
		return month == lastMonth && day >= expiryDay
	case SemiAnnual:
		return (month == 6 || month == 12) && day >= expiryDay
	default:
		return false
	}
}

// RemainingCents returns the unused portion of a benefit allotment given the
// usage amounts already recorded for the period. Over-use floors at zero,
// never negative.
func RemainingCents(totalCents int64, usedAmounts []int64) int64 {
	var used int64
	for _, amount := range usedAmounts {
		used += amount
	}
	if used >= totalCents {
		return 0
	}
	return totalCents - used
}

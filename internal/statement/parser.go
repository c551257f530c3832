// Package statement parses Amex activity CSV exports into transaction
// records for the matcher.
package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/eshaffer321/cardperks-backend/internal/domain/matcher"
)

// Record is one parsed statement row.
type Record struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category"`
	IsCredit    bool      `json:"is_credit"`
}

// amexDateLayout matches the MM/DD/YYYY dates in Amex activity exports.
const amexDateLayout = "01/02/2006"

// Parse reads an Amex activity CSV. The first row is the header; fields are
// located by header name so column order doesn't matter. Rows missing a
// date or description are dropped, and unparseable amounts coerce to zero —
// a bad row never fails the whole import.
//
// Positive amounts are credits (refunds, statement credits), negative are
// charges, matching the app-wide sign convention.
func Parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV content: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("CSV is empty")
	}

	// Header lookup, trimmed of stray quotes and whitespace
	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.TrimSpace(strings.ReplaceAll(h, `"`, ""))] = i
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []Record
	for _, row := range rows[1:] {
		rawDate := field(row, "Date")
		description := field(row, "Description")
		if rawDate == "" || description == "" {
			continue
		}

		date, err := time.ParseInLocation(amexDateLayout, rawDate, time.UTC)
		if err != nil {
			continue
		}

		amount, err := strconv.ParseFloat(field(row, "Amount"), 64)
		if err != nil {
			amount = 0
		}
		amountCents := int64(math.Round(amount * 100))

		records = append(records, Record{
			Date:        date,
			Description: description,
			AmountCents: amountCents,
			Category:    field(row, "Category"),
			IsCredit:    amountCents > 0,
		})
	}

	return records, nil
}

// Transactions converts parsed records to matcher input.
func Transactions(records []Record) []matcher.Transaction {
	txns := make([]matcher.Transaction, len(records))
	for i, r := range records {
		txns[i] = matcher.Transaction{
			Date:        r.Date,
			Description: r.Description,
			AmountCents: r.AmountCents,
			IsCredit:    r.IsCredit,
		}
	}
	return txns
}

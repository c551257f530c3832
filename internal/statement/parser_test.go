package statement

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Date,Description,Amount,Extended Details,Appears On Your Statement As,Address,City/State,Zip Code,Country,Reference,Category
01/15/2026,"DISNEY PLUS",-12.99,"",DISNEY PLUS,,,,USA,,Entertainment
01/15/2026,"AMEX CREDIT - DIGITAL ENT",25.00,"","AMEX CREDIT",,,,USA,,Credit
`

func TestParse_SampleExport(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleCSV))

	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Contains(t, records[0].Description, "DISNEY")
	assert.Equal(t, int64(-1299), records[0].AmountCents)
	assert.False(t, records[0].IsCredit)
	assert.Equal(t, time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, "Entertainment", records[0].Category)
}

func TestParse_PositiveAmountsAreCredits(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleCSV))

	require.NoError(t, err)
	assert.Equal(t, int64(2500), records[1].AmountCents)
	assert.True(t, records[1].IsCredit)
}

func TestParse_DropsRowsMissingDateOrDescription(t *testing.T) {
	csv := "Date,Description,Amount\n" +
		",NO DATE,-1.00\n" +
		"01/15/2026,,-1.00\n" +
		"01/16/2026,KEPT,-2.00\n"

	records, err := Parse(strings.NewReader(csv))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "KEPT", records[0].Description)
}

func TestParse_MalformedAmountCoercesToZero(t *testing.T) {
	csv := "Date,Description,Amount\n01/15/2026,BAD AMOUNT,notanumber\n"

	records, err := Parse(strings.NewReader(csv))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(0), records[0].AmountCents)
	assert.False(t, records[0].IsCredit)
}

func TestParse_MalformedDateDropsRow(t *testing.T) {
	csv := "Date,Description,Amount\n2026-13-99,BAD DATE,-1.00\n01/16/2026,GOOD,-2.00\n"

	records, err := Parse(strings.NewReader(csv))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "GOOD", records[0].Description)
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))

	assert.Error(t, err)
}

func TestTransactions_Conversion(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	txns := Transactions(records)

	require.Len(t, txns, 2)
	assert.Equal(t, records[0].Description, txns[0].Description)
	assert.Equal(t, records[0].AmountCents, txns[0].AmountCents)
	assert.Equal(t, records[1].IsCredit, txns[1].IsCredit)
}

package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/cardperks-backend/internal/api"
	"github.com/eshaffer321/cardperks-backend/internal/api/dto"
	"github.com/eshaffer321/cardperks-backend/internal/application/service"
	"github.com/eshaffer321/cardperks-backend/internal/domain/matcher"
	"github.com/eshaffer321/cardperks-backend/internal/domain/optimizer"
	"github.com/eshaffer321/cardperks-backend/internal/domain/resolver"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
)

// These tests run the full stack against a real SQLite database:
// HTTP request → router → handlers → storage. They catch NULL handling
// and serialization issues that mock-based tests miss.

func createIntegrationServer(t *testing.T) (*httptest.Server, *storage.Storage) {
	t.Helper()

	store, err := storage.NewStorage(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	o := optimizer.New(resolver.NewDefault())
	benefits := service.NewBenefitService(store, nil)
	importer := service.NewImportService(store, matcher.NewDefault(), nil)
	server := api.NewServer(api.DefaultConfig(), store, o, benefits, importer, nil)

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return ts, store
}

func getJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

func TestIntegration_CardsRoundTrip(t *testing.T) {
	ts, store := createIntegrationServer(t)

	require.NoError(t, store.SaveCard(&storage.Card{
		Name:           "Amex Gold",
		RewardCurrency: "MR",
		Categories: []storage.CardCategory{
			{Name: "grocery", EarnRate: 4, EarnType: "multiplier"},
			{Name: "everything_else", EarnRate: 1, EarnType: "multiplier"},
		},
	}))

	var response dto.CardListResponse
	getJSON(t, ts.URL+"/api/cards", &response)

	require.Equal(t, 1, response.Count)
	assert.Equal(t, "Amex Gold", response.Cards[0].Name)
	require.Len(t, response.Cards[0].Categories, 2)
}

func TestIntegration_ImportThenUsage(t *testing.T) {
	ts, store := createIntegrationServer(t)

	benefit := &storage.Benefit{
		Name: "Digital Entertainment", AmountCents: 2500, ResetPeriod: "monthly", Active: true,
	}
	require.NoError(t, store.SaveBenefit(benefit))

	csv := "Date,Description,Amount,Category\n01/15/2026,\"AMEX CREDIT - DIGITAL ENT\",25.00,Credit\n"
	resp, err := http.Post(ts.URL+"/api/transactions/import", "text/csv", strings.NewReader(csv))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var imported dto.ImportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&imported))
	assert.Equal(t, 1, imported.BenefitsImported)

	var usage dto.UsageListResponse
	getJSON(t, ts.URL+"/api/benefits/"+benefit.ID+"/usage?period=2026-01", &usage)

	require.Equal(t, 1, usage.Count)
	assert.Equal(t, int64(2500), usage.Usage[0].AmountUsedCents)
	assert.Equal(t, "csv", usage.Usage[0].Source)

	// Run history recorded the import
	var runs dto.SyncRunListResponse
	getJSON(t, ts.URL+"/api/runs", &runs)
	require.Equal(t, 1, runs.Count)
	assert.Equal(t, "csv", runs.Runs[0].Source)
}

func TestIntegration_OfferEnrollment(t *testing.T) {
	ts, store := createIntegrationServer(t)

	spendMin := int64(50000)
	offer := &storage.Offer{Merchant: "Delta", Description: "Spend $500, get $100", SpendMinCents: &spendMin}
	require.NoError(t, store.SaveOffer(offer))

	resp, err := http.Post(ts.URL+"/api/offers/"+offer.ID+"/enroll", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var enrollment dto.EnrollmentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&enrollment))
	assert.Equal(t, "Delta", enrollment.Merchant)

	var list dto.EnrollmentListResponse
	getJSON(t, ts.URL+"/api/offers/enrollments?open=true", &list)
	require.Equal(t, 1, list.Count)
	require.NotNil(t, list.Enrollments[0].SpendMinCents)
	assert.Equal(t, int64(50000), *list.Enrollments[0].SpendMinCents)
}

func TestIntegration_OfferWithNullThreshold(t *testing.T) {
	ts, store := createIntegrationServer(t)

	require.NoError(t, store.SaveOffer(&storage.Offer{Merchant: "Starbucks", Description: "Get 10% back"}))

	var response dto.OfferListResponse
	getJSON(t, ts.URL+"/api/offers", &response)

	require.Equal(t, 1, response.Count)
	assert.Nil(t, response.Offers[0].SpendMinCents)
}

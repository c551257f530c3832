package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/cardperks-backend/internal/api/dto"
	"github.com/eshaffer321/cardperks-backend/internal/api/handlers"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
)

func int64ptr(v int64) *int64 { return &v }

func TestOffersHandler_List(t *testing.T) {
	t.Run("returns offers", func(t *testing.T) {
		repo := storage.NewMockRepository()
		require.NoError(t, repo.SaveOffer(&storage.Offer{
			Merchant: "Delta", Description: "Spend $500, get $100", SpendMinCents: int64ptr(50000),
		}))
		handler := handlers.NewOffersHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/offers", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.OfferListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		require.Equal(t, 1, response.Count)
		assert.Equal(t, "Delta", response.Offers[0].Merchant)
		require.NotNil(t, response.Offers[0].SpendMinCents)
		assert.Equal(t, int64(50000), *response.Offers[0].SpendMinCents)
	})

	t.Run("returns empty list when no offers", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewOffersHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/offers", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.OfferListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, 0, response.Count)
	})
}

func TestOffersHandler_Enroll(t *testing.T) {
	t.Run("enrolls in an offer", func(t *testing.T) {
		repo := storage.NewMockRepository()
		offer := &storage.Offer{Merchant: "Delta", SpendMinCents: int64ptr(50000)}
		require.NoError(t, repo.SaveOffer(offer))
		handler := handlers.NewOffersHandler(repo)

		req := httptest.NewRequest(http.MethodPost, "/api/offers/"+offer.ID+"/enroll", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", offer.ID))
		rec := httptest.NewRecorder()

		handler.Enroll(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var response dto.EnrollmentResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.NotEmpty(t, response.ID)
		assert.Equal(t, offer.ID, response.OfferID)
		assert.Equal(t, "Delta", response.Merchant)
		assert.False(t, response.ThresholdMet)
	})

	t.Run("honors enrolled_at from request body", func(t *testing.T) {
		repo := storage.NewMockRepository()
		offer := &storage.Offer{Merchant: "Delta"}
		require.NoError(t, repo.SaveOffer(offer))
		handler := handlers.NewOffersHandler(repo)

		enrolledAt := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
		body, err := json.Marshal(dto.EnrollRequest{EnrolledAt: &enrolledAt})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/offers/"+offer.ID+"/enroll", bytes.NewReader(body))
		req = req.WithContext(setChiURLParam(req.Context(), "id", offer.ID))
		rec := httptest.NewRecorder()

		handler.Enroll(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var response dto.EnrollmentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, enrolledAt.Format(time.RFC3339), response.EnrolledAt)
	})

	t.Run("returns 404 for unknown offer", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewOffersHandler(repo)

		req := httptest.NewRequest(http.MethodPost, "/api/offers/nope/enroll", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "nope"))
		rec := httptest.NewRecorder()

		handler.Enroll(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOffersHandler_Enrollments(t *testing.T) {
	t.Run("filters open enrollments", func(t *testing.T) {
		repo := storage.NewMockRepository()
		offer := &storage.Offer{Merchant: "Delta", SpendMinCents: int64ptr(50000)}
		require.NoError(t, repo.SaveOffer(offer))

		open := &storage.Enrollment{OfferID: offer.ID, EnrolledAt: time.Now().UTC()}
		require.NoError(t, repo.Enroll(open))
		met := &storage.Enrollment{OfferID: offer.ID, EnrolledAt: time.Now().UTC()}
		require.NoError(t, repo.Enroll(met))
		require.NoError(t, repo.MarkThresholdMet(met.ID, 60000, time.Now().UTC()))

		handler := handlers.NewOffersHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/offers/enrollments?open=true", nil)
		rec := httptest.NewRecorder()

		handler.Enrollments(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.EnrollmentListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		require.Equal(t, 1, response.Count)
		assert.Equal(t, open.ID, response.Enrollments[0].ID)
		assert.False(t, response.Enrollments[0].ThresholdMet)
	})
}

package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/cardperks-backend/internal/api/dto"
	"github.com/eshaffer321/cardperks-backend/internal/api/handlers"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
)

func TestCardsHandler_List(t *testing.T) {
	t.Run("returns empty list when no cards", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewCardsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.CardListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Empty(t, response.Cards)
		assert.Equal(t, 0, response.Count)
	})

	t.Run("returns cards with categories", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedCards(t, repo)
		handler := handlers.NewCardsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.CardListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, 2, response.Count)
		require.Len(t, response.Cards, 2)
		assert.Len(t, response.Cards[0].Categories, 2)
	})

	t.Run("returns 500 when repository fails", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.ListCardsErr = assert.AnError
		handler := handlers.NewCardsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

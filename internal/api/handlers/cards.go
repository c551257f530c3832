package handlers

import (
	"net/http"

	"github.com/eshaffer321/cardperks-backend/internal/api/dto"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
)

// CardsHandler handles card-related HTTP requests.
type CardsHandler struct {
	*Base
}

// NewCardsHandler creates a new cards handler.
func NewCardsHandler(repo storage.Repository) *CardsHandler {
	return &CardsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/cards - returns all cards with their categories.
func (h *CardsHandler) List(w http.ResponseWriter, r *http.Request) {
	cards, err := h.repo.ListCards()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.CardListResponse{
		Cards: make([]dto.CardResponse, 0, len(cards)),
		Count: len(cards),
	}
	for _, card := range cards {
		response.Cards = append(response.Cards, toCardResponse(card))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// toCardResponse converts a storage Card to an API response.
func toCardResponse(card storage.Card) dto.CardResponse {
	resp := dto.CardResponse{
		ID:             card.ID,
		Name:           card.Name,
		RewardCurrency: card.RewardCurrency,
		Color:          card.Color,
		Categories:     make([]dto.CategoryResponse, 0, len(card.Categories)),
	}
	for _, c := range card.Categories {
		resp.Categories = append(resp.Categories, dto.CategoryResponse{
			Name:     c.Name,
			EarnRate: c.EarnRate,
			EarnType: c.EarnType,
			Notes:    c.Notes,
		})
	}
	return resp
}

package handlers

import (
	"net/http"

	"github.com/eshaffer321/cardperks-backend/internal/api/dto"
	"github.com/eshaffer321/cardperks-backend/internal/domain/optimizer"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
)

// OptimizerHandler answers "which card should I use for X" queries.
type OptimizerHandler struct {
	*Base
	optimizer *optimizer.Optimizer
}

// NewOptimizerHandler creates a new optimizer handler.
func NewOptimizerHandler(repo storage.Repository, o *optimizer.Optimizer) *OptimizerHandler {
	return &OptimizerHandler{
		Base:      NewBase(repo),
		optimizer: o,
	}
}

// Rank handles GET /api/optimizer?q= - ranks stored cards for a spending
// query, best earn rate first.
func (h *OptimizerHandler) Rank(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("query parameter q is required"))
		return
	}

	stored, err := h.repo.ListCards()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	cards := make([]optimizer.Card, 0, len(stored))
	for _, c := range stored {
		cards = append(cards, toOptimizerCard(c))
	}

	results := h.optimizer.Rank(query, cards)

	response := dto.OptimizerResponse{
		Query:   query,
		Results: make([]dto.RankedCardResponse, 0, len(results)),
	}
	for _, res := range results {
		response.Results = append(response.Results, toRankedCardResponse(res))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// toOptimizerCard converts a stored card into ranking input.
func toOptimizerCard(card storage.Card) optimizer.Card {
	out := optimizer.Card{
		ID:             card.ID,
		Name:           card.Name,
		RewardCurrency: card.RewardCurrency,
		Color:          card.Color,
		Categories:     make([]optimizer.Category, 0, len(card.Categories)),
	}
	for _, c := range card.Categories {
		out.Categories = append(out.Categories, optimizer.Category{
			Name:     c.Name,
			EarnRate: c.EarnRate,
			EarnType: optimizer.EarnType(c.EarnType),
			Notes:    c.Notes,
		})
	}
	return out
}

func toRankedCardResponse(res optimizer.CardResult) dto.RankedCardResponse {
	out := dto.RankedCardResponse{
		Card:            optimizerCardResponse(res.Card),
		EarnRate:        res.EarnRate,
		EarnType:        string(res.EarnType),
		CategoryMatched: res.CategoryMatched,
		MatchReason:     string(res.MatchReason),
		Notes:           res.Notes,
		OtherCategories: make([]dto.CategoryResponse, 0, len(res.OtherCategories)),
	}
	for _, c := range res.OtherCategories {
		out.OtherCategories = append(out.OtherCategories, toCategoryResponse(c))
	}
	return out
}

func optimizerCardResponse(card optimizer.Card) dto.CardResponse {
	resp := dto.CardResponse{
		ID:             card.ID,
		Name:           card.Name,
		RewardCurrency: card.RewardCurrency,
		Color:          card.Color,
		Categories:     make([]dto.CategoryResponse, 0, len(card.Categories)),
	}
	for _, c := range card.Categories {
		resp.Categories = append(resp.Categories, toCategoryResponse(c))
	}
	return resp
}

func toCategoryResponse(c optimizer.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		Name:     c.Name,
		EarnRate: c.EarnRate,
		EarnType: string(c.EarnType),
		Notes:    c.Notes,
	}
}

package handlers

import (
	"net/http"

	"github.com/eshaffer321/cardperks-backend/internal/api/dto"
	"github.com/eshaffer321/cardperks-backend/internal/application/service"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
)

// TransactionsHandler handles statement import HTTP requests.
type TransactionsHandler struct {
	*Base
	importer *service.ImportService
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(repo storage.Repository, importer *service.ImportService) *TransactionsHandler {
	return &TransactionsHandler{
		Base:     NewBase(repo),
		importer: importer,
	}
}

// Import handles POST /api/transactions/import - parses a CSV statement
// from the request body, records benefit usage, and updates offer
// thresholds.
func (h *TransactionsHandler) Import(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	summary, err := h.importer.ImportCSV(r.Body)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("could not parse statement: "+err.Error()))
		return
	}

	response := dto.ImportResponse{
		Parsed:           summary.Parsed,
		BenefitsImported: summary.BenefitsImported,
		BenefitsSkipped:  summary.BenefitsSkipped,
		OffersUpdated:    summary.OffersUpdated,
		Matches:          make([]dto.ImportMatchResponse, 0, len(summary.Matches)),
	}
	for _, m := range summary.Matches {
		response.Matches = append(response.Matches, dto.ImportMatchResponse{
			BenefitName: m.BenefitName,
			PeriodKey:   m.PeriodKey,
			AmountCents: m.AmountCents,
			Notes:       m.Notes,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}

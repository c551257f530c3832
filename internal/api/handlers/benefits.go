package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/cardperks-backend/internal/api/dto"
	"github.com/eshaffer321/cardperks-backend/internal/application/service"
	"github.com/eshaffer321/cardperks-backend/internal/domain/period"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
)

// BenefitsHandler handles benefit-related HTTP requests.
type BenefitsHandler struct {
	*Base
	benefits *service.BenefitService
}

// NewBenefitsHandler creates a new benefits handler.
func NewBenefitsHandler(repo storage.Repository, benefits *service.BenefitService) *BenefitsHandler {
	return &BenefitsHandler{
		Base:     NewBase(repo),
		benefits: benefits,
	}
}

// List handles GET /api/benefits - returns active benefits with their
// current period key, usage, and expiring-soon flag.
func (h *BenefitsHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.benefits.Overview()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.BenefitListResponse{
		Benefits: make([]dto.BenefitResponse, 0, len(statuses)),
		Count:    len(statuses),
	}
	for _, s := range statuses {
		response.Benefits = append(response.Benefits, dto.BenefitResponse{
			ID:             s.Benefit.ID,
			Name:           s.Benefit.Name,
			AmountCents:    s.Benefit.AmountCents,
			ResetPeriod:    s.Benefit.ResetPeriod,
			PeriodKey:      s.PeriodKey,
			PeriodEnd:      s.PeriodEnd.Format("2006-01-02"),
			UsedCents:      s.UsedCents,
			RemainingCents: s.RemainingCents,
			ExpiringSoon:   s.ExpiringSoon,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Usage handles GET /api/benefits/{id}/usage - returns usage rows for a
// benefit. The period query parameter selects a period key; it defaults to
// the benefit's current period.
func (h *BenefitsHandler) Usage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("benefit ID is required"))
		return
	}

	benefit, err := h.repo.GetBenefit(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, dto.NotFoundError("benefit"))
			return
		}
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	periodKey := r.URL.Query().Get("period")
	if periodKey == "" {
		periodKey = period.Key(period.Reset(benefit.ResetPeriod), time.Now().UTC())
	}

	usage, err := h.repo.ListUsage(benefit.ID, periodKey)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.UsageListResponse{
		BenefitID: benefit.ID,
		PeriodKey: periodKey,
		Usage:     make([]dto.UsageResponse, 0, len(usage)),
		Count:     len(usage),
	}
	for _, u := range usage {
		response.Usage = append(response.Usage, dto.UsageResponse{
			ID:              u.ID,
			PeriodKey:       u.PeriodKey,
			AmountUsedCents: u.AmountUsedCents,
			Notes:           u.Notes,
			Source:          u.Source,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/cardperks-backend/internal/api/dto"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
)

// OffersHandler handles offer and enrollment HTTP requests.
type OffersHandler struct {
	*Base
}

// NewOffersHandler creates a new offers handler.
func NewOffersHandler(repo storage.Repository) *OffersHandler {
	return &OffersHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/offers - returns all offers.
func (h *OffersHandler) List(w http.ResponseWriter, r *http.Request) {
	offers, err := h.repo.ListOffers()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.OfferListResponse{
		Offers: make([]dto.OfferResponse, 0, len(offers)),
		Count:  len(offers),
	}
	for _, o := range offers {
		response.Offers = append(response.Offers, dto.OfferResponse{
			ID:            o.ID,
			Merchant:      o.Merchant,
			Description:   o.Description,
			SpendMinCents: o.SpendMinCents,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Enroll handles POST /api/offers/{id}/enroll - enrolls in an offer.
func (h *OffersHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("offer ID is required"))
		return
	}

	offer, err := h.repo.GetOffer(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, dto.NotFoundError("offer"))
			return
		}
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	var req dto.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	enrolledAt := time.Now().UTC()
	if req.EnrolledAt != nil {
		enrolledAt = req.EnrolledAt.UTC()
	}

	enrollment := &storage.Enrollment{
		OfferID:    offer.ID,
		EnrolledAt: enrolledAt,
	}
	if err := h.repo.Enroll(enrollment); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.EnrollmentResponse{
		ID:            enrollment.ID,
		OfferID:       offer.ID,
		Merchant:      offer.Merchant,
		SpendMinCents: offer.SpendMinCents,
		EnrolledAt:    enrolledAt.Format(time.RFC3339),
	}
	h.WriteJSON(w, http.StatusCreated, response)
}

// Enrollments handles GET /api/offers/enrollments - returns enrollments
// joined with their offer details. The open query parameter limits results
// to enrollments whose threshold has not been met.
func (h *OffersHandler) Enrollments(w http.ResponseWriter, r *http.Request) {
	openOnly := r.URL.Query().Get("open") == "true"

	enrollments, err := h.repo.ListEnrollments(openOnly)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.EnrollmentListResponse{
		Enrollments: make([]dto.EnrollmentResponse, 0, len(enrollments)),
		Count:       len(enrollments),
	}
	for _, e := range enrollments {
		response.Enrollments = append(response.Enrollments, dto.EnrollmentResponse{
			ID:            e.ID,
			OfferID:       e.OfferID,
			Merchant:      e.Merchant,
			SpendMinCents: e.SpendMinCents,
			EnrolledAt:    e.EnrolledAt.Format(time.RFC3339),
			ThresholdMet:  e.ThresholdMet,
			SpentCents:    e.SpentCents,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prospectly/coinledger/internal/adapter/http/dto"
	"github.com/prospectly/coinledger/internal/domain"
	"github.com/prospectly/coinledger/internal/usecase"
)

// ReservationService defines the behavior needed by ReservationHandler.
type ReservationService interface {
	CreateReservation(ctx context.Context, input usecase.CreateReservationInput) (*domain.PendingReservation, error)
	CompleteReservation(ctx context.Context, reservationID string) error
	FailReservation(ctx context.Context, reservationID, reason string) error
	RefundReservation(ctx context.Context, reservationID, description string) error
	ListPending(ctx context.Context, accountID string) ([]*domain.PendingReservation, error)
	GetReservation(ctx context.Context, reservationID string) (*domain.PendingReservation, error)
}

// ReservationHandler handles reservation HTTP requests.
type ReservationHandler struct {
	reservationUC ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(reservationUC ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationUC: reservationUC}
}

// Create places a hold.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	res, err := h.reservationUC.CreateReservation(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create reservation", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReservationFromDomain(res))
}

// Get retrieves a reservation by ID.
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.reservationUC.GetReservation(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get reservation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReservationFromDomain(res))
}

// Complete commits a pending hold, charging the account.
func (h *ReservationHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.reservationUC.CompleteReservation(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to complete reservation", err.Error())
		return
	}

	h.writeReservation(w, r, id)
}

// Fail releases a hold without charging.
func (h *ReservationHandler) Fail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.FailReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.reservationUC.FailReservation(r.Context(), id, req.Reason); err != nil {
		writeError(w, mapDomainError(err), "failed to release reservation", err.Error())
		return
	}

	h.writeReservation(w, r, id)
}

// Refund compensates a completed hold with a new credit.
func (h *ReservationHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.RefundReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.reservationUC.RefundReservation(r.Context(), id, req.Description); err != nil {
		writeError(w, mapDomainError(err), "failed to refund reservation", err.Error())
		return
	}

	h.writeReservation(w, r, id)
}

// ListByAccount lists pending holds for an account.
func (h *ReservationHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	reservations, err := h.reservationUC.ListPending(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list reservations", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListReservationsResponse{
		Reservations: dto.ReservationsFromDomain(reservations),
	})
}

func (h *ReservationHandler) writeReservation(w http.ResponseWriter, r *http.Request, id string) {
	res, err := h.reservationUC.GetReservation(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get reservation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReservationFromDomain(res))
}

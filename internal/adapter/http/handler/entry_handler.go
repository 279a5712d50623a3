package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prospectly/coinledger/internal/adapter/http/dto"
	"github.com/prospectly/coinledger/internal/domain"
	"github.com/prospectly/coinledger/internal/usecase"
)

// LedgerService defines the behavior needed by EntryHandler.
type LedgerService interface {
	ListEntries(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	VerifyAccount(ctx context.Context, accountID string) (*usecase.VerificationReport, error)
}

// EntryHandler handles ledger entry HTTP requests.
type EntryHandler struct {
	ledgerUC LedgerService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(ledgerUC LedgerService) *EntryHandler {
	return &EntryHandler{ledgerUC: ledgerUC}
}

// ListByAccount lists ledger entries for an account, newest first.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", usecase.DefaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.ledgerUC.ListEntries(r.Context(), accountID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Limit:   limit,
		Offset:  offset,
	})
}

// Verify replays the account's ledger and reports consistency.
func (h *EntryHandler) Verify(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	report, err := h.ledgerUC.VerifyAccount(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to verify ledger", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VerificationFromReport(report))
}

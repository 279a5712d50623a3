package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prospectly/coinledger/internal/adapter/http/dto"
	"github.com/prospectly/coinledger/internal/domain"
)

// WalletService defines the behavior needed by AccountHandler.
type WalletService interface {
	CreateAccount(ctx context.Context, userID string, signupBonus int64) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	GetBalance(ctx context.Context, accountID string) (int64, error)
	DeductCoins(ctx context.Context, accountID string, amount int64, description, referenceID string) error
	CreditCoins(ctx context.Context, accountID string, amount int64, kind domain.EntryKind, description, referenceID string) error
	RefundTransaction(ctx context.Context, accountID string, originalAmount int64, description, referenceID string) error
}

// AccountHandler handles account and direct-debit HTTP requests.
type AccountHandler struct {
	walletUC    WalletService
	signupBonus int64
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(walletUC WalletService, signupBonus int64) *AccountHandler {
	return &AccountHandler{
		walletUC:    walletUC,
		signupBonus: signupBonus,
	}
}

// Create creates a new coin account for a user.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id", "")
		return
	}

	account, err := h.walletUC.CreateAccount(r.Context(), req.UserID, h.signupBonus)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.walletUC.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// GetBalance returns the current coin balance.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	balance, err := h.walletUC.GetBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID: id,
		Balance:   balance,
	})
}

// Deduct performs a direct debit against the account.
func (h *AccountHandler) Deduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.DeductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.walletUC.DeductCoins(r.Context(), id, req.Amount, req.Description, req.ReferenceID); err != nil {
		writeError(w, mapDomainError(err), "failed to deduct coins", err.Error())
		return
	}

	h.writeBalance(w, r, id)
}

// Credit adds coins to the account.
func (h *AccountHandler) Credit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.walletUC.CreditCoins(r.Context(), id, req.Amount, domain.EntryKind(req.Kind), req.Description, req.ReferenceID); err != nil {
		writeError(w, mapDomainError(err), "failed to credit coins", err.Error())
		return
	}

	h.writeBalance(w, r, id)
}

// Refund credits back a previously debited amount.
func (h *AccountHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.walletUC.RefundTransaction(r.Context(), id, req.Amount, req.Description, req.ReferenceID); err != nil {
		writeError(w, mapDomainError(err), "failed to refund coins", err.Error())
		return
	}

	h.writeBalance(w, r, id)
}

func (h *AccountHandler) writeBalance(w http.ResponseWriter, r *http.Request, id string) {
	balance, err := h.walletUC.GetBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID: id,
		Balance:   balance,
	})
}

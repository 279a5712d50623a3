package dto

import (
	"time"

	"github.com/prospectly/coinledger/internal/domain"
	"github.com/prospectly/coinledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Balance   int64     `json:"balance"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Balance:   a.Balance,
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// BalanceResponse represents a balance read.
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}

// ReservationResponse represents a reservation in API responses.
type ReservationResponse struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"account_id"`
	Amount        int64     `json:"amount"`
	Kind          string    `json:"kind"`
	Description   string    `json:"description,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ReservationFromDomain converts a domain reservation to a response.
func ReservationFromDomain(res *domain.PendingReservation) *ReservationResponse {
	return &ReservationResponse{
		ID:            res.ID,
		AccountID:     res.AccountID,
		Amount:        res.Amount,
		Kind:          string(res.Kind),
		Description:   res.Description,
		ReferenceID:   res.ReferenceID,
		Status:        string(res.Status),
		FailureReason: res.FailureReason,
		ExpiresAt:     res.ExpiresAt,
		CreatedAt:     res.CreatedAt,
		UpdatedAt:     res.UpdatedAt,
	}
}

// ReservationsFromDomain converts domain reservations to responses.
func ReservationsFromDomain(reservations []*domain.PendingReservation) []*ReservationResponse {
	result := make([]*ReservationResponse, len(reservations))
	for i, res := range reservations {
		result[i] = ReservationFromDomain(res)
	}
	return result
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	Amount       int64     `json:"amount"`
	Kind         string    `json:"kind"`
	Description  string    `json:"description,omitempty"`
	BalanceAfter int64     `json:"balance_after"`
	ReferenceID  string    `json:"reference_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:           e.ID,
		AccountID:    e.AccountID,
		Amount:       e.Amount,
		Kind:         string(e.Kind),
		Description:  e.Description,
		BalanceAfter: e.BalanceAfter,
		ReferenceID:  e.ReferenceID,
		CreatedAt:    e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps a page of ledger entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// ListReservationsResponse wraps the pending reservations of an account.
type ListReservationsResponse struct {
	Reservations []*ReservationResponse `json:"reservations"`
}

// VerificationResponse represents a ledger consistency report.
type VerificationResponse struct {
	AccountID       string `json:"account_id"`
	Consistent      bool   `json:"consistent"`
	Entries         int64  `json:"entries"`
	ComputedBalance int64  `json:"computed_balance"`
	StoredBalance   int64  `json:"stored_balance"`
	FirstBadEntryID string `json:"first_bad_entry_id,omitempty"`
}

// VerificationFromReport converts a usecase report to a response.
func VerificationFromReport(r *usecase.VerificationReport) *VerificationResponse {
	return &VerificationResponse{
		AccountID:       r.AccountID,
		Consistent:      r.Consistent,
		Entries:         r.Entries,
		ComputedBalance: r.ComputedBalance,
		StoredBalance:   r.StoredBalance,
		FirstBadEntryID: r.FirstBadEntryID,
	}
}

// PricingResponse represents the coin price book.
type PricingResponse struct {
	Costs map[string]int64 `json:"costs"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

package dto

import (
	"github.com/prospectly/coinledger/internal/domain"
	"github.com/prospectly/coinledger/internal/usecase"
)

// CreateAccountRequest represents a request to create a coin account.
type CreateAccountRequest struct {
	UserID string `json:"user_id"`
}

// CreateReservationRequest represents a request to place a hold.
type CreateReservationRequest struct {
	AccountID   string `json:"account_id"`
	Amount      int64  `json:"amount"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	ReferenceID string `json:"reference_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateReservationRequest) ToUseCaseInput() usecase.CreateReservationInput {
	return usecase.CreateReservationInput{
		AccountID:   r.AccountID,
		Amount:      r.Amount,
		Kind:        domain.EntryKind(r.Kind),
		Description: r.Description,
		ReferenceID: r.ReferenceID,
	}
}

// FailReservationRequest carries the reason for releasing a hold.
type FailReservationRequest struct {
	Reason string `json:"reason"`
}

// RefundReservationRequest carries the reason for compensating a committed
// hold.
type RefundReservationRequest struct {
	Description string `json:"description"`
}

// DeductRequest represents a direct debit.
type DeductRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ReferenceID string `json:"reference_id,omitempty"`
}

// CreditRequest represents a credit (earn, bonus, purchase, ad reward).
type CreditRequest struct {
	Amount      int64  `json:"amount"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	ReferenceID string `json:"reference_id,omitempty"`
}

// RefundRequest represents a compensating credit for an earlier debit.
type RefundRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ReferenceID string `json:"reference_id,omitempty"`
}

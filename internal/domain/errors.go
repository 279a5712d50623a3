package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountExists     = errors.New("account already exists for user")
	ErrInsufficientFunds = errors.New("insufficient coin balance")

	// Reservation errors
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrReservationNotPending = errors.New("reservation is not pending")

	// Validation errors
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidKind   = errors.New("unknown entry kind")

	// ErrUpdateConflict is returned when the store detected a concurrent
	// update race and bounded retries were exhausted.
	ErrUpdateConflict = errors.New("concurrent update conflict")
)

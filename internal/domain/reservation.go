package domain

import "time"

// ReservationStatus is the lifecycle state of a pending reservation.
type ReservationStatus string

const (
	// ReservationStatusPending is the initial state: coins are held against
	// future success of the chargeable work, balance untouched.
	ReservationStatusPending ReservationStatus = "pending"
	// ReservationStatusCompleted is terminal: the hold was committed, the
	// balance adjusted and exactly one ledger entry written.
	ReservationStatusCompleted ReservationStatus = "completed"
	// ReservationStatusFailed is terminal: the hold was released with no
	// balance effect.
	ReservationStatusFailed ReservationStatus = "failed"
	// ReservationStatusRefunded is terminal and reachable only from
	// completed, when a committed charge was compensated after the fact.
	ReservationStatusRefunded ReservationStatus = "refunded"
)

// Terminal reports whether s is a resolved state.
func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationStatusCompleted, ReservationStatusFailed, ReservationStatusRefunded:
		return true
	case ReservationStatusPending:
		return false
	}
	return false
}

// PendingReservation is a hold placed against an account before the
// corresponding chargeable work is known to succeed. Amount is signed the
// way it will hit the balance on completion: negative for spend holds,
// positive for credit holds. Creating a reservation never changes the
// balance; only completing it does.
type PendingReservation struct {
	ID            string
	AccountID     string
	Amount        int64
	Kind          EntryKind
	Description   string
	ReferenceID   string
	Status        ReservationStatus
	FailureReason string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks reservation fields that do not depend on account state.
func (r *PendingReservation) Validate() error {
	if r.Amount == 0 {
		return ErrInvalidAmount
	}
	if !r.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

// Expired reports whether the reservation is a stale pending hold at now.
func (r *PendingReservation) Expired(now time.Time) bool {
	return r.Status == ReservationStatusPending && !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

package usecase

import (
	"context"
	"time"

	"github.com/prospectly/coinledger/internal/domain"
)

// AccountRepository defines data access for coin accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// ApplyBalanceDelta atomically adds delta to the account balance,
	// rejecting the update when the result would be negative. It returns
	// the new balance. This is the only write path for balances.
	ApplyBalanceDelta(ctx context.Context, tx Transaction, id string, delta int64, updatedAt time.Time) (int64, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	// GetByAccountAsc returns every entry for an account in creation order,
	// for ledger replay.
	GetByAccountAsc(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error)
	CountByAccount(ctx context.Context, accountID string) (int64, error)
}

// ReservationRepository defines data access for pending transactions.
type ReservationRepository interface {
	Create(ctx context.Context, tx Transaction, res *domain.PendingReservation) error
	GetByID(ctx context.Context, id string) (*domain.PendingReservation, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.PendingReservation, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.ReservationStatus, reason string, updatedAt time.Time) error
	ListPendingByAccount(ctx context.Context, accountID string) ([]*domain.PendingReservation, error)
	// ListExpiredPending returns stale pending reservations, skipping rows
	// locked by concurrent sweepers.
	ListExpiredPending(ctx context.Context, tx Transaction, before time.Time, limit int) ([]*domain.PendingReservation, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient store conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

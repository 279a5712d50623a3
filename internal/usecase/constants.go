package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. Prevents long-running transactions from holding row locks.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultReservationLifetime bounds how long a pending reservation may
	// wait for its commit or release before the sweeper fails it.
	DefaultReservationLifetime = time.Hour

	// SweepBatchSize is the maximum number of stale reservations expired in
	// one sweeper pass.
	SweepBatchSize = 100

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultListLimit and MaxListLimit bound entry pagination.
	DefaultListLimit = 50
	MaxListLimit     = 200

	balanceCachePrefix = "balance:"
)

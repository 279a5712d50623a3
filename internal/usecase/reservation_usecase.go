package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/prospectly/coinledger/internal/domain"
	"github.com/prospectly/coinledger/internal/infrastructure/metrics"
)

// ReservationUseCase gates chargeable work behind holds that can be cleanly
// committed or released. Creating a hold never touches the balance; only
// completing it does, atomically with the ledger entry.
type ReservationUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	reservationRepo ReservationRepository
	entryRepo       EntryRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	retrier         Retrier
	cache           Cache
	metrics         *metrics.Metrics
	lifetime        time.Duration
}

func NewReservationUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	reservationRepo ReservationRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	metrics *metrics.Metrics,
	lifetime time.Duration,
) *ReservationUseCase {
	if lifetime <= 0 {
		lifetime = DefaultReservationLifetime
	}
	return &ReservationUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		reservationRepo: reservationRepo,
		entryRepo:       entryRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		retrier:         retrier,
		cache:           cache,
		metrics:         metrics,
		lifetime:        lifetime,
	}
}

// CreateReservationInput carries the parameters for a new hold. Amount is
// always positive; spend holds are stored negated.
type CreateReservationInput struct {
	AccountID   string
	Amount      int64
	Kind        domain.EntryKind
	Description string
	ReferenceID string
}

// CreateReservation places a hold against the account. For spend holds the
// current balance must cover the amount, but the balance itself is not
// changed and sufficiency is re-checked at commit time.
func (uc *ReservationUseCase) CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.PendingReservation, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Kind.Valid() {
		return nil, domain.ErrInvalidKind
	}

	signed := input.Amount
	if input.Kind == domain.EntryKindSpend {
		signed = -input.Amount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	var res *domain.PendingReservation
	err := uc.retry(txCtx, func() error {
		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
		if err != nil {
			return err
		}

		if input.Kind == domain.EntryKindSpend {
			if err := account.ValidateDebit(input.Amount); err != nil {
				uc.countInsufficientFunds()
				return err
			}
		}

		now := time.Now().UTC()
		res = &domain.PendingReservation{
			ID:          uc.idGen.Generate(),
			AccountID:   input.AccountID,
			Amount:      signed,
			Kind:        input.Kind,
			Description: input.Description,
			ReferenceID: input.ReferenceID,
			Status:      domain.ReservationStatusPending,
			ExpiresAt:   now.Add(uc.lifetime),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := uc.reservationRepo.Create(txCtx, tx, res); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   res.ID,
			AggregateType: domain.AggregateTypeReservation,
			EventType:     domain.EventTypeReservationCreated,
			Payload: map[string]any{
				"reservation_id": res.ID,
				"account_id":     res.AccountID,
				"amount":         res.Amount,
				"kind":           string(res.Kind),
				"reference_id":   res.ReferenceID,
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ReservationsCreated.Inc()
	}

	return res, nil
}

// CompleteReservation commits a pending hold: the balance is adjusted by
// the reserved amount and exactly one ledger entry is written, all in one
// transaction. Committing a resolved reservation fails with
// ErrReservationNotPending so a retry can never double-charge.
func (uc *ReservationUseCase) CompleteReservation(ctx context.Context, reservationID string) error {
	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	var accountID string
	err := uc.retry(txCtx, func() error {
		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		res, err := uc.reservationRepo.GetByIDForUpdate(txCtx, tx, reservationID)
		if err != nil {
			return err
		}

		if res.Status != domain.ReservationStatusPending {
			return domain.ErrReservationNotPending
		}
		accountID = res.AccountID

		now := time.Now().UTC()
		newBalance, err := uc.accountRepo.ApplyBalanceDelta(txCtx, tx, res.AccountID, res.Amount, now)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientFunds) {
				uc.countInsufficientFunds()
			}
			return err
		}

		entry := &domain.LedgerEntry{
			ID:           uc.idGen.Generate(),
			AccountID:    res.AccountID,
			Amount:       res.Amount,
			Kind:         res.Kind,
			Description:  res.Description,
			BalanceAfter: newBalance,
			ReferenceID:  res.ReferenceID,
			CreatedAt:    now,
		}
		if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
			return err
		}

		if err := uc.reservationRepo.UpdateStatus(txCtx, tx, res.ID, domain.ReservationStatusCompleted, "", now); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   res.ID,
			AggregateType: domain.AggregateTypeReservation,
			EventType:     domain.EventTypeReservationCompleted,
			Payload: map[string]any{
				"reservation_id": res.ID,
				"account_id":     res.AccountID,
				"entry_id":       entry.ID,
				"amount":         res.Amount,
				"balance_after":  newBalance,
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		if uc.metrics != nil {
			uc.metrics.EntriesRecorded.WithLabelValues(string(res.Kind)).Inc()
			if res.Amount < 0 {
				uc.metrics.CoinsSpent.Add(float64(-res.Amount))
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	uc.invalidateBalance(ctx, accountID)

	if uc.metrics != nil {
		uc.metrics.ReservationsCompleted.Inc()
		uc.metrics.ReservationDuration.Observe(time.Since(start).Seconds())
	}

	return nil
}

// FailReservation releases a hold with no balance effect. The transition
// only has effect from pending; calling it on an already-resolved
// reservation is a no-op, so callers may release on any failure path
// without checking state first.
func (uc *ReservationUseCase) FailReservation(ctx context.Context, reservationID, reason string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	failed := false
	err := uc.retry(txCtx, func() error {
		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		res, err := uc.reservationRepo.GetByIDForUpdate(txCtx, tx, reservationID)
		if err != nil {
			return err
		}

		if res.Status != domain.ReservationStatusPending {
			return nil
		}

		now := time.Now().UTC()
		if err := uc.reservationRepo.UpdateStatus(txCtx, tx, res.ID, domain.ReservationStatusFailed, reason, now); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   res.ID,
			AggregateType: domain.AggregateTypeReservation,
			EventType:     domain.EventTypeReservationFailed,
			Payload: map[string]any{
				"reservation_id": res.ID,
				"account_id":     res.AccountID,
				"reason":         reason,
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		failed = true
		return nil
	})
	if err != nil {
		return err
	}

	if failed && uc.metrics != nil {
		uc.metrics.ReservationsFailed.Inc()
	}

	return nil
}

// RefundReservation compensates a committed hold after the fact: a new earn
// entry credits the charged amount back, and the reservation is marked
// refunded. The original ledger entry is never touched.
func (uc *ReservationUseCase) RefundReservation(ctx context.Context, reservationID, description string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	var accountID string
	err := uc.retry(txCtx, func() error {
		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		res, err := uc.reservationRepo.GetByIDForUpdate(txCtx, tx, reservationID)
		if err != nil {
			return err
		}

		if res.Status != domain.ReservationStatusCompleted {
			return domain.ErrReservationNotPending
		}
		accountID = res.AccountID

		credit := res.Amount
		if credit < 0 {
			credit = -credit
		}

		now := time.Now().UTC()
		newBalance, err := uc.accountRepo.ApplyBalanceDelta(txCtx, tx, res.AccountID, credit, now)
		if err != nil {
			return err
		}

		entry := &domain.LedgerEntry{
			ID:           uc.idGen.Generate(),
			AccountID:    res.AccountID,
			Amount:       credit,
			Kind:         domain.EntryKindEarn,
			Description:  "Refund: " + description,
			BalanceAfter: newBalance,
			ReferenceID:  res.ID,
			CreatedAt:    now,
		}
		if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
			return err
		}

		if err := uc.reservationRepo.UpdateStatus(txCtx, tx, res.ID, domain.ReservationStatusRefunded, "", now); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return err
	}

	uc.invalidateBalance(ctx, accountID)

	if uc.metrics != nil {
		uc.metrics.RefundsTotal.Inc()
	}

	return nil
}

// GetReservation returns a reservation by ID.
func (uc *ReservationUseCase) GetReservation(ctx context.Context, reservationID string) (*domain.PendingReservation, error) {
	return uc.reservationRepo.GetByID(ctx, reservationID)
}

// ListPending returns the unresolved holds for an account.
func (uc *ReservationUseCase) ListPending(ctx context.Context, accountID string) ([]*domain.PendingReservation, error) {
	return uc.reservationRepo.ListPendingByAccount(ctx, accountID)
}

// WithReservation runs a unit of chargeable work under a hold: reserve,
// execute, then commit on success or release with the failure reason
// otherwise. The hold is always resolved; callers remain responsible for
// cleaning up their own partial outputs on failure.
func (uc *ReservationUseCase) WithReservation(ctx context.Context, input CreateReservationInput, work func(ctx context.Context) error) error {
	res, err := uc.CreateReservation(ctx, input)
	if err != nil {
		return err
	}

	if workErr := work(ctx); workErr != nil {
		if failErr := uc.FailReservation(ctx, res.ID, workErr.Error()); failErr != nil {
			return failErr
		}
		return workErr
	}

	return uc.CompleteReservation(ctx, res.ID)
}

// SweepExpired fails pending reservations past their deadline and returns
// how many were expired. Expired holds never held balance, so this only
// corrects the available-to-spend view.
func (uc *ReservationUseCase) SweepExpired(ctx context.Context) (int, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	stale, err := uc.reservationRepo.ListExpiredPending(txCtx, tx, now, SweepBatchSize)
	if err != nil {
		return 0, err
	}

	for _, res := range stale {
		if err := uc.reservationRepo.UpdateStatus(txCtx, tx, res.ID, domain.ReservationStatusFailed, "reservation expired", now); err != nil {
			return 0, err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   res.ID,
			AggregateType: domain.AggregateTypeReservation,
			EventType:     domain.EventTypeReservationFailed,
			Payload: map[string]any{
				"reservation_id": res.ID,
				"account_id":     res.AccountID,
				"reason":         "reservation expired",
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return 0, err
	}

	if uc.metrics != nil && len(stale) > 0 {
		uc.metrics.ReservationsSwept.Add(float64(len(stale)))
	}

	return len(stale), nil
}

func (uc *ReservationUseCase) retry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

func (uc *ReservationUseCase) invalidateBalance(ctx context.Context, accountID string) {
	if uc.cache == nil || accountID == "" {
		return
	}
	_ = uc.cache.Delete(ctx, balanceCachePrefix+accountID)
}

func (uc *ReservationUseCase) countInsufficientFunds() {
	if uc.metrics != nil {
		uc.metrics.InsufficientFunds.Inc()
	}
}

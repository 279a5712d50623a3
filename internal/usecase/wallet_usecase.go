package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prospectly/coinledger/internal/domain"
	"github.com/prospectly/coinledger/internal/infrastructure/metrics"
)

// WalletUseCase handles account creation, balance reads and the direct
// (non-reserved) balance mutations: synchronous debits, credits and
// compensating refunds. Every mutation is a single transaction pairing the
// conditional balance update with exactly one ledger entry.
type WalletUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
	cacheTTL    time.Duration
	metrics     *metrics.Metrics
}

func NewWalletUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	cacheTTL time.Duration,
	metrics *metrics.Metrics,
) *WalletUseCase {
	return &WalletUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
	}
}

// CreateAccount opens a coin account for a user. When signupBonus is
// positive the account starts with a bonus credit and a matching ledger
// entry, so even the opening balance replays from the ledger.
func (uc *WalletUseCase) CreateAccount(ctx context.Context, userID string, signupBonus int64) (*domain.Account, error) {
	if userID == "" {
		return nil, domain.ErrAccountNotFound
	}
	if signupBonus < 0 {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := uc.accountRepo.GetByUserID(ctx, userID); err == nil {
		return nil, domain.ErrAccountExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		UserID:    userID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	if signupBonus > 0 {
		newBalance, err := uc.accountRepo.ApplyBalanceDelta(txCtx, tx, account.ID, signupBonus, now)
		if err != nil {
			return nil, err
		}
		account.Balance = newBalance

		entry := &domain.LedgerEntry{
			ID:           uc.idGen.Generate(),
			AccountID:    account.ID,
			Amount:       signupBonus,
			Kind:         domain.EntryKindBonus,
			Description:  "Signup bonus",
			BalanceAfter: newBalance,
			CreatedAt:    now,
		}
		if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
			return nil, err
		}
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountCreated,
		Payload: map[string]any{
			"account_id": account.ID,
			"user_id":    userID,
			"balance":    account.Balance,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount returns the account by ID.
func (uc *WalletUseCase) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, accountID)
}

// GetBalance returns the current coin balance, served from a short-lived
// cache when possible. The cache is invalidated on every mutation, so a
// stale read only ever lasts the TTL.
func (uc *WalletUseCase) GetBalance(ctx context.Context, accountID string) (int64, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, balanceCachePrefix+accountID); err == nil {
			if balance, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return balance, nil
			}
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, balanceCachePrefix+accountID, strconv.FormatInt(account.Balance, 10), uc.cacheTTL)
	}

	return account.Balance, nil
}

// DeductCoins charges the account immediately: one conditional debit plus
// one spend entry in a single transaction. Used by actions billed
// synchronously with their own success, where no hold step is needed.
func (uc *WalletUseCase) DeductCoins(ctx context.Context, accountID string, amount int64, description, referenceID string) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	err := uc.mutateBalance(ctx, accountID, -amount, domain.EntryKindSpend, description, referenceID)
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.DebitsTotal.Inc()
		uc.metrics.CoinsSpent.Add(float64(amount))
	}

	return nil
}

// CreditCoins adds coins to the account: purchases, earned rewards, ad
// rewards and bonuses all land here.
func (uc *WalletUseCase) CreditCoins(ctx context.Context, accountID string, amount int64, kind domain.EntryKind, description, referenceID string) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if !kind.Valid() || kind == domain.EntryKindSpend {
		return domain.ErrInvalidKind
	}

	err := uc.mutateBalance(ctx, accountID, amount, kind, description, referenceID)
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.CreditsTotal.WithLabelValues(string(kind)).Inc()
	}

	return nil
}

// RefundTransaction compensates a committed charge: it credits the
// absolute amount back and appends a new earn entry marked as a refund.
// The ledger stays append-only; the original charge is never retracted.
func (uc *WalletUseCase) RefundTransaction(ctx context.Context, accountID string, originalAmount int64, description, referenceID string) error {
	amount := originalAmount
	if amount < 0 {
		amount = -amount
	}
	if amount == 0 {
		return domain.ErrInvalidAmount
	}

	err := uc.mutateBalance(ctx, accountID, amount, domain.EntryKindEarn, "Refund: "+description, referenceID)
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.RefundsTotal.Inc()
	}

	return nil
}

// mutateBalance is the shared single-transaction path for direct balance
// changes: lock the account row, apply the conditional delta, append the
// entry, emit the outbox event.
func (uc *WalletUseCase) mutateBalance(ctx context.Context, accountID string, delta int64, kind domain.EntryKind, description, referenceID string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	err := uc.retry(txCtx, func() error {
		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		// Lock the row first so a missing account surfaces as NotFound
		// rather than as a failed conditional update.
		if _, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID); err != nil {
			return err
		}

		now := time.Now().UTC()
		newBalance, err := uc.accountRepo.ApplyBalanceDelta(txCtx, tx, accountID, delta, now)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientFunds) && uc.metrics != nil {
				uc.metrics.InsufficientFunds.Inc()
			}
			return err
		}

		entry := &domain.LedgerEntry{
			ID:           uc.idGen.Generate(),
			AccountID:    accountID,
			Amount:       delta,
			Kind:         kind,
			Description:  description,
			BalanceAfter: newBalance,
			ReferenceID:  referenceID,
			CreatedAt:    now,
		}
		if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   entry.ID,
			AggregateType: domain.AggregateTypeEntry,
			EventType:     domain.EventTypeEntryRecorded,
			Payload: map[string]any{
				"entry_id":      entry.ID,
				"account_id":    accountID,
				"amount":        delta,
				"kind":          string(kind),
				"balance_after": newBalance,
				"reference_id":  referenceID,
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
			uc.metrics.EntriesRecorded.WithLabelValues(string(kind)).Inc()
		}

		return nil
	})
	if err != nil {
		return err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, balanceCachePrefix+accountID)
	}

	return nil
}

func (uc *WalletUseCase) retry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

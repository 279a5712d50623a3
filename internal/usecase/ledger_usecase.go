package usecase

import (
	"context"

	"github.com/prospectly/coinledger/internal/domain"
	"github.com/prospectly/coinledger/internal/infrastructure/metrics"
)

// LedgerUseCase serves read access to the append-only ledger and verifies
// its internal consistency.
type LedgerUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	metrics     *metrics.Metrics
}

func NewLedgerUseCase(accountRepo AccountRepository, entryRepo EntryRepository, metrics *metrics.Metrics) *LedgerUseCase {
	return &LedgerUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		metrics:     metrics,
	}
}

// ListEntries returns ledger entries for an account, newest first.
func (uc *LedgerUseCase) ListEntries(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	return uc.entryRepo.GetByAccount(ctx, accountID, limit, offset)
}

// VerificationReport is the result of replaying an account's ledger.
type VerificationReport struct {
	AccountID       string
	Consistent      bool
	Entries         int64
	ComputedBalance int64
	StoredBalance   int64
	FirstBadEntryID string
}

// VerifyAccount replays all entries for the account in creation order from
// a starting balance of zero and checks that every BalanceAfter snapshot
// and the final stored balance agree with the running sum.
func (uc *LedgerUseCase) VerifyAccount(ctx context.Context, accountID string) (*VerificationReport, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.GetByAccountAsc(ctx, accountID)
	if err != nil {
		return nil, err
	}

	report := &VerificationReport{
		AccountID:     accountID,
		Consistent:    true,
		Entries:       int64(len(entries)),
		StoredBalance: account.Balance,
	}

	var running int64
	for _, entry := range entries {
		running += entry.Amount
		if entry.BalanceAfter != running {
			report.Consistent = false
			if report.FirstBadEntryID == "" {
				report.FirstBadEntryID = entry.ID
			}
		}
	}
	report.ComputedBalance = running

	if running != account.Balance {
		report.Consistent = false
	}

	if uc.metrics != nil {
		result := "consistent"
		if !report.Consistent {
			result = "inconsistent"
		}
		uc.metrics.VerificationsTotal.WithLabelValues(result).Inc()
	}

	return report, nil
}

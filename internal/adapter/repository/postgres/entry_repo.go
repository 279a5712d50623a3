package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prospectly/coinledger/internal/domain"
	"github.com/prospectly/coinledger/internal/infrastructure/postgres/generated"
	"github.com/prospectly/coinledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. Entries are
// append-only; there are no update or delete paths.
type EntryRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create records a ledger entry inside the given transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	_, err := queries.CreateEntry(ctx, generated.CreateEntryParams{
		ID:           entry.ID,
		AccountID:    entry.AccountID,
		Amount:       entry.Amount,
		Kind:         string(entry.Kind),
		Description:  entry.Description,
		BalanceAfter: entry.BalanceAfter,
		ReferenceID:  stringToPgText(entry.ReferenceID),
		CreatedAt:    timeToPgTimestamptz(entry.CreatedAt),
	})

	return err
}

// GetByAccount lists entries for an account, newest first.
func (r *EntryRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.GetEntriesByAccount(ctx, generated.GetEntriesByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// GetByAccountAsc lists all entries for an account in creation order, for
// ledger replay.
func (r *EntryRepository) GetByAccountAsc(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.GetEntriesByAccountAsc(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// CountByAccount returns the number of entries for an account.
func (r *EntryRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	return r.queries.CountEntriesByAccount(ctx, accountID)
}

func rowsToEntries(rows []generated.LedgerEntry) []*domain.LedgerEntry {
	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries
}

func rowToEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:           row.ID,
		AccountID:    row.AccountID,
		Amount:       row.Amount,
		Kind:         domain.EntryKind(row.Kind),
		Description:  row.Description,
		BalanceAfter: row.BalanceAfter,
		ReferenceID:  row.ReferenceID.String,
		CreatedAt:    row.CreatedAt.Time,
	}
}

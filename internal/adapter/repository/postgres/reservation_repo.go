package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prospectly/coinledger/internal/domain"
	"github.com/prospectly/coinledger/internal/infrastructure/postgres/generated"
	"github.com/prospectly/coinledger/internal/usecase"
)

// ReservationRepository implements usecase.ReservationRepository.
type ReservationRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewReservationRepository creates a new ReservationRepository.
func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create creates a new pending reservation.
func (r *ReservationRepository) Create(ctx context.Context, tx usecase.Transaction, res *domain.PendingReservation) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	_, err := queries.CreatePendingTransaction(ctx, generated.CreatePendingTransactionParams{
		ID:            res.ID,
		AccountID:     res.AccountID,
		Amount:        res.Amount,
		Kind:          string(res.Kind),
		Description:   res.Description,
		ReferenceID:   stringToPgText(res.ReferenceID),
		Status:        string(res.Status),
		FailureReason: stringToPgText(res.FailureReason),
		ExpiresAt:     timeToPgTimestamptz(res.ExpiresAt),
		CreatedAt:     timeToPgTimestamptz(res.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(res.UpdatedAt),
	})

	return err
}

// GetByID retrieves a reservation by ID.
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*domain.PendingReservation, error) {
	row, err := r.queries.GetPendingTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}

		return nil, err
	}

	return rowToReservation(row), nil
}

// GetByIDForUpdate retrieves a reservation by ID with a FOR UPDATE lock.
// Commit and release both lock the row first, so concurrent resolutions of
// the same reservation serialize here.
func (r *ReservationRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.PendingReservation, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.GetPendingTransactionByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}

		return nil, err
	}

	return rowToReservation(row), nil
}

// UpdateStatus transitions a reservation and records the failure reason, if
// any.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ReservationStatus, reason string, updatedAt time.Time) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	return queries.UpdatePendingTransactionStatus(ctx, generated.UpdatePendingTransactionStatusParams{
		ID:            id,
		Status:        string(status),
		FailureReason: stringToPgText(reason),
		UpdatedAt:     timeToPgTimestamptz(updatedAt),
	})
}

// ListPendingByAccount lists unresolved reservations for an account.
func (r *ReservationRepository) ListPendingByAccount(ctx context.Context, accountID string) ([]*domain.PendingReservation, error) {
	rows, err := r.queries.ListPendingByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return rowsToReservations(rows), nil
}

// ListExpiredPending lists pending reservations past their deadline, locked
// with SKIP LOCKED so concurrent sweepers never contend on the same batch.
func (r *ReservationRepository) ListExpiredPending(ctx context.Context, tx usecase.Transaction, before time.Time, limit int) ([]*domain.PendingReservation, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	rows, err := queries.ListExpiredPending(ctx, generated.ListExpiredPendingParams{
		ExpiresAt: timeToPgTimestamptz(before),
		Limit:     int32(limit),
	})
	if err != nil {
		return nil, err
	}

	return rowsToReservations(rows), nil
}

func rowsToReservations(rows []generated.PendingTransaction) []*domain.PendingReservation {
	reservations := make([]*domain.PendingReservation, 0, len(rows))
	for _, row := range rows {
		reservations = append(reservations, rowToReservation(row))
	}

	return reservations
}

func rowToReservation(row generated.PendingTransaction) *domain.PendingReservation {
	return &domain.PendingReservation{
		ID:            row.ID,
		AccountID:     row.AccountID,
		Amount:        row.Amount,
		Kind:          domain.EntryKind(row.Kind),
		Description:   row.Description,
		ReferenceID:   row.ReferenceID.String,
		Status:        domain.ReservationStatus(row.Status),
		FailureReason: row.FailureReason.String,
		ExpiresAt:     row.ExpiresAt.Time,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}

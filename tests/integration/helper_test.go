package integration

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/prospectly/coinledger/internal/adapter/repository/postgres"
	"github.com/prospectly/coinledger/internal/usecase"
	"github.com/prospectly/coinledger/tests/testutil"
)

type coinLedger struct {
	db            *testutil.TestDB
	walletUC      *usecase.WalletUseCase
	reservationUC *usecase.ReservationUseCase
	ledgerUC      *usecase.LedgerUseCase
	outboxRepo    *postgres.OutboxRepository
}

func newCoinLedger(t *testing.T, reservationLifetime time.Duration) *coinLedger {
	t.Helper()

	db := testutil.NewTestDB(t)
	t.Cleanup(db.Cleanup)

	pool := db.Pool
	txManager := postgres.NewTxManager(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop())

	return &coinLedger{
		db:            db,
		walletUC:      usecase.NewWalletUseCase(txManager, accountRepo, entryRepo, outboxRepo, idGen, retrier, nil, 0, nil),
		reservationUC: usecase.NewReservationUseCase(txManager, accountRepo, reservationRepo, entryRepo, outboxRepo, idGen, retrier, nil, nil, reservationLifetime),
		ledgerUC:      usecase.NewLedgerUseCase(accountRepo, entryRepo, nil),
		outboxRepo:    outboxRepo,
	}
}

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prospectly/coinledger/internal/domain"
	"github.com/prospectly/coinledger/internal/usecase"
	"github.com/prospectly/coinledger/internal/usecase/mocks"
)

type reservationFixture struct {
	accounts     *mocks.MockAccountRepository
	reservations *mocks.MockReservationRepository
	entries      *mocks.MockEntryRepository
	outbox       *mocks.MockOutboxRepository
	uc           *usecase.ReservationUseCase
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()
	f := &reservationFixture{
		accounts:     mocks.NewMockAccountRepository(),
		reservations: mocks.NewMockReservationRepository(),
		entries:      mocks.NewMockEntryRepository(),
		outbox:       mocks.NewMockOutboxRepository(),
	}
	f.uc = usecase.NewReservationUseCase(
		mocks.NewMockTransactionManager(),
		f.accounts,
		f.reservations,
		f.entries,
		f.outbox,
		mocks.NewMockIDGenerator(),
		mocks.NewMockRetrier(),
		mocks.NewMockCache(),
		nil,
		time.Hour,
	)
	return f
}

func TestCreateReservation(t *testing.T) {
	tests := []struct {
		name       string
		balance    int64
		input      usecase.CreateReservationInput
		wantErr    error
		wantAmount int64
	}{
		{
			name:       "spend hold within balance",
			balance:    100,
			input:      usecase.CreateReservationInput{AccountID: "acc-1", Amount: 25, Kind: domain.EntryKindSpend, Description: "deck"},
			wantAmount: -25,
		},
		{
			name:    "spend hold exceeding balance",
			balance: 5,
			input:   usecase.CreateReservationInput{AccountID: "acc-1", Amount: 25, Kind: domain.EntryKindSpend, Description: "deck"},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:       "credit hold ignores balance",
			balance:    0,
			input:      usecase.CreateReservationInput{AccountID: "acc-1", Amount: 30, Kind: domain.EntryKindAdReward, Description: "ad"},
			wantAmount: 30,
		},
		{
			name:    "zero amount rejected",
			balance: 100,
			input:   usecase.CreateReservationInput{AccountID: "acc-1", Amount: 0, Kind: domain.EntryKindSpend},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount rejected",
			balance: 100,
			input:   usecase.CreateReservationInput{AccountID: "acc-1", Amount: -5, Kind: domain.EntryKindSpend},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "unknown kind rejected",
			balance: 100,
			input:   usecase.CreateReservationInput{AccountID: "acc-1", Amount: 5, Kind: "gift"},
			wantErr: domain.ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReservationFixture(t)
			f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: tt.balance})

			res, err := f.uc.CreateReservation(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateReservation error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != domain.ReservationStatusPending {
				t.Errorf("status = %s, want pending", res.Status)
			}
			if res.Amount != tt.wantAmount {
				t.Errorf("stored amount = %d, want %d", res.Amount, tt.wantAmount)
			}
			if res.ExpiresAt.IsZero() {
				t.Error("reservation should carry an expiry deadline")
			}

			// Creating a hold never touches the balance.
			acc, _ := f.accounts.GetByID(context.Background(), "acc-1")
			if acc.Balance != tt.balance {
				t.Errorf("balance changed to %d on reserve, want %d", acc.Balance, tt.balance)
			}
			if len(f.entries.All()) != 0 {
				t.Error("no ledger entry should exist before commit")
			}
		})
	}
}

func TestCompleteReservationChargesOnce(t *testing.T) {
	f := newReservationFixture(t)
	f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: 100})

	res, err := f.uc.CreateReservation(context.Background(), usecase.CreateReservationInput{
		AccountID: "acc-1", Amount: 25, Kind: domain.EntryKindSpend, Description: "deck", ReferenceID: "deck-7",
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	if err := f.uc.CompleteReservation(context.Background(), res.ID); err != nil {
		t.Fatalf("CompleteReservation: %v", err)
	}

	acc, _ := f.accounts.GetByID(context.Background(), "acc-1")
	if acc.Balance != 75 {
		t.Errorf("balance = %d, want 75", acc.Balance)
	}

	entries := f.entries.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Amount != -25 || entries[0].BalanceAfter != 75 {
		t.Errorf("entry = {amount: %d, balanceAfter: %d}, want {-25, 75}", entries[0].Amount, entries[0].BalanceAfter)
	}
	if entries[0].ReferenceID != "deck-7" {
		t.Errorf("entry referenceID = %q, want deck-7", entries[0].ReferenceID)
	}

	// Second commit must fail loudly and charge nothing.
	err = f.uc.CompleteReservation(context.Background(), res.ID)
	if !errors.Is(err, domain.ErrReservationNotPending) {
		t.Fatalf("second complete error = %v, want ErrReservationNotPending", err)
	}
	acc, _ = f.accounts.GetByID(context.Background(), "acc-1")
	if acc.Balance != 75 {
		t.Errorf("balance after double commit = %d, want 75", acc.Balance)
	}
	if len(f.entries.All()) != 1 {
		t.Error("double commit must not write a second entry")
	}
}

func TestCompleteReservationUnknownID(t *testing.T) {
	f := newReservationFixture(t)
	err := f.uc.CompleteReservation(context.Background(), "missing")
	if !errors.Is(err, domain.ErrReservationNotFound) {
		t.Fatalf("error = %v, want ErrReservationNotFound", err)
	}
}

func TestFailReservationIsFree(t *testing.T) {
	f := newReservationFixture(t)
	f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: 50})

	res, err := f.uc.CreateReservation(context.Background(), usecase.CreateReservationInput{
		AccountID: "acc-1", Amount: 25, Kind: domain.EntryKindSpend, Description: "x",
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	if err := f.uc.FailReservation(context.Background(), res.ID, "user cancelled"); err != nil {
		t.Fatalf("FailReservation: %v", err)
	}

	acc, _ := f.accounts.GetByID(context.Background(), "acc-1")
	if acc.Balance != 50 {
		t.Errorf("balance = %d, want 50 (release is free)", acc.Balance)
	}
	if len(f.entries.All()) != 0 {
		t.Error("release must not write a ledger entry")
	}

	stored, _ := f.reservations.GetByID(context.Background(), res.ID)
	if stored.Status != domain.ReservationStatusFailed {
		t.Errorf("status = %s, want failed", stored.Status)
	}
	if stored.FailureReason != "user cancelled" {
		t.Errorf("failure reason = %q, want user cancelled", stored.FailureReason)
	}

	// Redundant release is a tolerated no-op.
	if err := f.uc.FailReservation(context.Background(), res.ID, "again"); err != nil {
		t.Fatalf("redundant FailReservation: %v", err)
	}
	stored, _ = f.reservations.GetByID(context.Background(), res.ID)
	if stored.FailureReason != "user cancelled" {
		t.Errorf("redundant release overwrote reason: %q", stored.FailureReason)
	}

	// Commit after release must fail.
	if err := f.uc.CompleteReservation(context.Background(), res.ID); !errors.Is(err, domain.ErrReservationNotPending) {
		t.Fatalf("complete after fail = %v, want ErrReservationNotPending", err)
	}
}

func TestConcurrentSpendSafety(t *testing.T) {
	// Two holds of 10 against a balance of 10 may both be created, but only
	// one commit can succeed; the balance never goes negative.
	f := newReservationFixture(t)
	f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: 10})

	r1, err := f.uc.CreateReservation(context.Background(), usecase.CreateReservationInput{
		AccountID: "acc-1", Amount: 10, Kind: domain.EntryKindSpend, Description: "a",
	})
	if err != nil {
		t.Fatalf("reserve r1: %v", err)
	}
	r2, err := f.uc.CreateReservation(context.Background(), usecase.CreateReservationInput{
		AccountID: "acc-1", Amount: 10, Kind: domain.EntryKindSpend, Description: "b",
	})
	if err != nil {
		t.Fatalf("reserve r2: %v", err)
	}

	if err := f.uc.CompleteReservation(context.Background(), r1.ID); err != nil {
		t.Fatalf("complete r1: %v", err)
	}
	if err := f.uc.CompleteReservation(context.Background(), r2.ID); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("complete r2 = %v, want ErrInsufficientFunds", err)
	}

	acc, _ := f.accounts.GetByID(context.Background(), "acc-1")
	if acc.Balance != 0 {
		t.Errorf("final balance = %d, want 0", acc.Balance)
	}
	if len(f.entries.All()) != 1 {
		t.Errorf("entries = %d, want exactly 1", len(f.entries.All()))
	}

	// The losing hold is still pending and can be released cleanly.
	if err := f.uc.FailReservation(context.Background(), r2.ID, "insufficient funds at commit"); err != nil {
		t.Fatalf("release r2: %v", err)
	}
}

func TestWithReservation(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		f := newReservationFixture(t)
		f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: 100})

		ran := false
		err := f.uc.WithReservation(context.Background(), usecase.CreateReservationInput{
			AccountID: "acc-1", Amount: 25, Kind: domain.EntryKindSpend, Description: "deck",
		}, func(ctx context.Context) error {
			ran = true
			return nil
		})
		if err != nil {
			t.Fatalf("WithReservation: %v", err)
		}
		if !ran {
			t.Fatal("work was not executed")
		}

		acc, _ := f.accounts.GetByID(context.Background(), "acc-1")
		if acc.Balance != 75 {
			t.Errorf("balance = %d, want 75", acc.Balance)
		}
	})

	t.Run("releases on work failure", func(t *testing.T) {
		f := newReservationFixture(t)
		f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: 100})

		workErr := errors.New("generation failed")
		err := f.uc.WithReservation(context.Background(), usecase.CreateReservationInput{
			AccountID: "acc-1", Amount: 25, Kind: domain.EntryKindSpend, Description: "deck",
		}, func(ctx context.Context) error {
			return workErr
		})
		if !errors.Is(err, workErr) {
			t.Fatalf("error = %v, want the work error", err)
		}

		acc, _ := f.accounts.GetByID(context.Background(), "acc-1")
		if acc.Balance != 100 {
			t.Errorf("balance = %d, want 100 (nothing charged)", acc.Balance)
		}
		if len(f.entries.All()) != 0 {
			t.Error("failed work must not produce a ledger entry")
		}

		pending, _ := f.uc.ListPending(context.Background(), "acc-1")
		if len(pending) != 0 {
			t.Error("hold should have been released")
		}
	})

	t.Run("does not run work when reserve fails", func(t *testing.T) {
		f := newReservationFixture(t)
		f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: 5})

		err := f.uc.WithReservation(context.Background(), usecase.CreateReservationInput{
			AccountID: "acc-1", Amount: 25, Kind: domain.EntryKindSpend, Description: "deck",
		}, func(ctx context.Context) error {
			t.Fatal("work must not run without a hold")
			return nil
		})
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("error = %v, want ErrInsufficientFunds", err)
		}
	})
}

func TestRefundReservation(t *testing.T) {
	f := newReservationFixture(t)
	f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: 100})

	res, _ := f.uc.CreateReservation(context.Background(), usecase.CreateReservationInput{
		AccountID: "acc-1", Amount: 25, Kind: domain.EntryKindSpend, Description: "deck",
	})
	if err := f.uc.CompleteReservation(context.Background(), res.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := f.uc.RefundReservation(context.Background(), res.ID, "deck unusable"); err != nil {
		t.Fatalf("refund: %v", err)
	}

	acc, _ := f.accounts.GetByID(context.Background(), "acc-1")
	if acc.Balance != 100 {
		t.Errorf("balance = %d, want 100 after refund", acc.Balance)
	}

	entries := f.entries.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (charge + compensating credit)", len(entries))
	}
	refund := entries[1]
	if refund.Amount != 25 || refund.Kind != domain.EntryKindEarn {
		t.Errorf("refund entry = {amount: %d, kind: %s}, want {25, earn}", refund.Amount, refund.Kind)
	}
	if refund.Description != "Refund: deck unusable" {
		t.Errorf("refund description = %q", refund.Description)
	}

	stored, _ := f.reservations.GetByID(context.Background(), res.ID)
	if stored.Status != domain.ReservationStatusRefunded {
		t.Errorf("status = %s, want refunded", stored.Status)
	}

	// A refund is terminal; refunding twice must fail.
	if err := f.uc.RefundReservation(context.Background(), res.ID, "again"); !errors.Is(err, domain.ErrReservationNotPending) {
		t.Fatalf("double refund = %v, want ErrReservationNotPending", err)
	}

	// Refunding a pending hold must fail too.
	fresh, _ := f.uc.CreateReservation(context.Background(), usecase.CreateReservationInput{
		AccountID: "acc-1", Amount: 10, Kind: domain.EntryKindSpend, Description: "x",
	})
	if err := f.uc.RefundReservation(context.Background(), fresh.ID, "nope"); !errors.Is(err, domain.ErrReservationNotPending) {
		t.Fatalf("refund of pending hold = %v, want ErrReservationNotPending", err)
	}
}

func TestSweepExpired(t *testing.T) {
	f := newReservationFixture(t)
	f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: 100})

	now := time.Now().UTC()
	f.reservations.Seed(&domain.PendingReservation{
		ID: "res-stale", AccountID: "acc-1", Amount: -10, Kind: domain.EntryKindSpend,
		Status: domain.ReservationStatusPending, ExpiresAt: now.Add(-time.Minute),
	})
	f.reservations.Seed(&domain.PendingReservation{
		ID: "res-fresh", AccountID: "acc-1", Amount: -10, Kind: domain.EntryKindSpend,
		Status: domain.ReservationStatusPending, ExpiresAt: now.Add(time.Hour),
	})

	swept, err := f.uc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if swept != 1 {
		t.Fatalf("swept = %d, want 1", swept)
	}

	stale, _ := f.reservations.GetByID(context.Background(), "res-stale")
	if stale.Status != domain.ReservationStatusFailed {
		t.Errorf("stale status = %s, want failed", stale.Status)
	}
	fresh, _ := f.reservations.GetByID(context.Background(), "res-fresh")
	if fresh.Status != domain.ReservationStatusPending {
		t.Errorf("fresh status = %s, want pending", fresh.Status)
	}

	acc, _ := f.accounts.GetByID(context.Background(), "acc-1")
	if acc.Balance != 100 {
		t.Errorf("balance = %d, want 100 (sweep never touches balance)", acc.Balance)
	}
}

func TestReservationEventsEmitted(t *testing.T) {
	f := newReservationFixture(t)
	f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: 100})

	res, _ := f.uc.CreateReservation(context.Background(), usecase.CreateReservationInput{
		AccountID: "acc-1", Amount: 25, Kind: domain.EntryKindSpend, Description: "deck",
	})
	_ = f.uc.CompleteReservation(context.Background(), res.ID)

	events := f.outbox.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].EventType != domain.EventTypeReservationCreated {
		t.Errorf("first event = %s", events[0].EventType)
	}
	if events[1].EventType != domain.EventTypeReservationCompleted {
		t.Errorf("second event = %s", events[1].EventType)
	}
}

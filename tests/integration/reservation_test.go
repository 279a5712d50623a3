package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prospectly/coinledger/internal/domain"
	"github.com/prospectly/coinledger/internal/usecase"
	"github.com/prospectly/coinledger/tests/testutil"
)

func TestReservationLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	cl := newCoinLedger(t, time.Hour)

	account, err := cl.walletUC.CreateAccount(ctx, "user-"+testutil.GenerateID(), 100)
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	res, err := cl.reservationUC.CreateReservation(ctx, usecase.CreateReservationInput{
		AccountID:   account.ID,
		Amount:      25,
		Kind:        domain.EntryKindSpend,
		Description: "Generate deck",
	})
	if err != nil {
		t.Fatalf("failed to create reservation: %v", err)
	}
	if res.Status != domain.ReservationStatusPending {
		t.Fatalf("expected pending reservation, got %s", res.Status)
	}

	// The hold must not touch the balance.
	balance, err := cl.walletUC.GetBalance(ctx, account.ID)
	if err != nil {
		t.Fatalf("failed to get balance: %v", err)
	}
	if balance != 100 {
		t.Fatalf("expected balance 100 while held, got %d", balance)
	}

	pending, err := cl.reservationUC.ListPending(ctx, account.ID)
	if err != nil {
		t.Fatalf("failed to list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != res.ID {
		t.Fatalf("expected the hold to be listed, got %+v", pending)
	}

	if err := cl.reservationUC.CompleteReservation(ctx, res.ID); err != nil {
		t.Fatalf("failed to complete reservation: %v", err)
	}

	balance, err = cl.walletUC.GetBalance(ctx, account.ID)
	if err != nil {
		t.Fatalf("failed to get balance: %v", err)
	}
	if balance != 75 {
		t.Fatalf("expected balance 75 after commit, got %d", balance)
	}

	// A commit is not repeatable.
	if err := cl.reservationUC.CompleteReservation(ctx, res.ID); !errors.Is(err, domain.ErrReservationNotPending) {
		t.Fatalf("expected ErrReservationNotPending, got %v", err)
	}

	entries, err := cl.ledgerUC.ListEntries(ctx, account.ID, 10, 0)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected bonus + spend entries, got %d", len(entries))
	}
	if entries[0].Amount != -25 || entries[0].BalanceAfter != 75 {
		t.Fatalf("unexpected spend entry %+v", entries[0])
	}
}

func TestReservationRelease(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	cl := newCoinLedger(t, time.Hour)

	account, err := cl.walletUC.CreateAccount(ctx, "user-"+testutil.GenerateID(), 30)
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	res, err := cl.reservationUC.CreateReservation(ctx, usecase.CreateReservationInput{
		AccountID:   account.ID,
		Amount:      30,
		Kind:        domain.EntryKindSpend,
		Description: "Generate deck",
	})
	if err != nil {
		t.Fatalf("failed to create reservation: %v", err)
	}

	if err := cl.reservationUC.FailReservation(ctx, res.ID, "generation timed out"); err != nil {
		t.Fatalf("failed to release reservation: %v", err)
	}

	// Releasing twice is a no-op.
	if err := cl.reservationUC.FailReservation(ctx, res.ID, "again"); err != nil {
		t.Fatalf("expected repeated release to be a no-op, got %v", err)
	}

	got, err := cl.reservationUC.GetReservation(ctx, res.ID)
	if err != nil {
		t.Fatalf("failed to get reservation: %v", err)
	}
	if got.Status != domain.ReservationStatusFailed || got.FailureReason != "generation timed out" {
		t.Fatalf("unexpected reservation %+v", got)
	}

	balance, err := cl.walletUC.GetBalance(ctx, account.ID)
	if err != nil {
		t.Fatalf("failed to get balance: %v", err)
	}
	if balance != 30 {
		t.Fatalf("expected release to be free, got balance %d", balance)
	}
}

func TestReservationRefund(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	cl := newCoinLedger(t, time.Hour)

	account, err := cl.walletUC.CreateAccount(ctx, "user-"+testutil.GenerateID(), 100)
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	res, err := cl.reservationUC.CreateReservation(ctx, usecase.CreateReservationInput{
		AccountID:   account.ID,
		Amount:      25,
		Kind:        domain.EntryKindSpend,
		Description: "Generate deck",
	})
	if err != nil {
		t.Fatalf("failed to create reservation: %v", err)
	}
	if err := cl.reservationUC.CompleteReservation(ctx, res.ID); err != nil {
		t.Fatalf("failed to complete reservation: %v", err)
	}

	if err := cl.reservationUC.RefundReservation(ctx, res.ID, "deck unusable"); err != nil {
		t.Fatalf("failed to refund reservation: %v", err)
	}

	balance, err := cl.walletUC.GetBalance(ctx, account.ID)
	if err != nil {
		t.Fatalf("failed to get balance: %v", err)
	}
	if balance != 100 {
		t.Fatalf("expected refund to restore balance, got %d", balance)
	}

	// Refunding twice is rejected.
	if err := cl.reservationUC.RefundReservation(ctx, res.ID, "again"); !errors.Is(err, domain.ErrReservationNotPending) {
		t.Fatalf("expected ErrReservationNotPending, got %v", err)
	}
}

func TestSweepExpiredReservations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	cl := newCoinLedger(t, 50*time.Millisecond)

	account, err := cl.walletUC.CreateAccount(ctx, "user-"+testutil.GenerateID(), 100)
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	res, err := cl.reservationUC.CreateReservation(ctx, usecase.CreateReservationInput{
		AccountID:   account.ID,
		Amount:      25,
		Kind:        domain.EntryKindSpend,
		Description: "Generate deck",
	})
	if err != nil {
		t.Fatalf("failed to create reservation: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	swept, err := cl.reservationUC.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("failed to sweep: %v", err)
	}
	if swept < 1 {
		t.Fatalf("expected at least 1 swept reservation, got %d", swept)
	}

	got, err := cl.reservationUC.GetReservation(ctx, res.ID)
	if err != nil {
		t.Fatalf("failed to get reservation: %v", err)
	}
	if got.Status != domain.ReservationStatusFailed {
		t.Fatalf("expected swept reservation to be failed, got %s", got.Status)
	}
}

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

type walletFixture struct {
	accounts *mocks.MockAccountRepository
	entries  *mocks.MockEntryRepository
	outbox   *mocks.MockOutboxRepository
	cache    *mocks.MockCache
	uc       *usecase.WalletUseCase
}

func newWalletFixture(t *testing.T) *walletFixture {
	t.Helper()
	f := &walletFixture{
		accounts: mocks.NewMockAccountRepository(),
		entries:  mocks.NewMockEntryRepository(),
		outbox:   mocks.NewMockOutboxRepository(),
		cache:    mocks.NewMockCache(),
	}
	f.uc = usecase.NewWalletUseCase(
		mocks.NewMockTransactionManager(),
		f.accounts,
		f.entries,
		f.outbox,
		mocks.NewMockIDGenerator(),
		mocks.NewMockRetrier(),
		f.cache,
		5*time.Second,
		nil,
	)
	return f
}

func TestCreateAccount(t *testing.T) {
	t.Run("with signup bonus", func(t *testing.T) {
		f := newWalletFixture(t)

		acc, err := f.uc.CreateAccount(context.Background(), "user-1", 50)
		if err != nil {
			t.Fatalf("CreateAccount: %v", err)
		}
		if acc.Balance != 50 {
			t.Errorf("balance = %d, want 50", acc.Balance)
		}
		if acc.UserID != "user-1" {
			t.Errorf("userID = %q", acc.UserID)
		}

		entries := f.entries.All()
		if len(entries) != 1 {
			t.Fatalf("entries = %d, want 1 bonus entry", len(entries))
		}
		if entries[0].Kind != domain.EntryKindBonus || entries[0].Amount != 50 || entries[0].BalanceAfter != 50 {
			t.Errorf("bonus entry = {kind: %s, amount: %d, balanceAfter: %d}", entries[0].Kind, entries[0].Amount, entries[0].BalanceAfter)
		}
	})

	t.Run("without bonus", func(t *testing.T) {
		f := newWalletFixture(t)

		acc, err := f.uc.CreateAccount(context.Background(), "user-1", 0)
		if err != nil {
			t.Fatalf("CreateAccount: %v", err)
		}
		if acc.Balance != 0 {
			t.Errorf("balance = %d, want 0", acc.Balance)
		}
		if len(f.entries.All()) != 0 {
			t.Error("no entry expected without a bonus")
		}
	})

	t.Run("duplicate user", func(t *testing.T) {
		f := newWalletFixture(t)

		if _, err := f.uc.CreateAccount(context.Background(), "user-1", 0); err != nil {
			t.Fatalf("first CreateAccount: %v", err)
		}
		if _, err := f.uc.CreateAccount(context.Background(), "user-1", 0); !errors.Is(err, domain.ErrAccountExists) {
			t.Fatalf("second CreateAccount = %v, want ErrAccountExists", err)
		}
	})
}

func TestDeductAndRefundRoundTrip(t *testing.T) {
	f := newWalletFixture(t)
	f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: 100})

	if err := f.uc.DeductCoins(context.Background(), "acc-1", 20, "Reveal prospect", "prospect-9"); err != nil {
		t.Fatalf("DeductCoins: %v", err)
	}
	if err := f.uc.RefundTransaction(context.Background(), "acc-1", -20, "Reveal prospect", "prospect-9"); err != nil {
		t.Fatalf("RefundTransaction: %v", err)
	}

	acc, _ := f.accounts.GetByID(context.Background(), "acc-1")
	if acc.Balance != 100 {
		t.Errorf("balance = %d, want 100 after refund", acc.Balance)
	}

	entries := f.entries.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Amount != -20 || entries[0].Kind != domain.EntryKindSpend {
		t.Errorf("debit entry = {amount: %d, kind: %s}", entries[0].Amount, entries[0].Kind)
	}
	if entries[1].Amount != 20 || entries[1].Kind != domain.EntryKindEarn {
		t.Errorf("refund entry = {amount: %d, kind: %s}", entries[1].Amount, entries[1].Kind)
	}
	if entries[1].Description != "Refund: Reveal prospect" {
		t.Errorf("refund description = %q", entries[1].Description)
	}
	if entries[1].ReferenceID != "prospect-9" {
		t.Errorf("refund referenceID = %q", entries[1].ReferenceID)
	}
}

func TestDeductCoins(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		amount  int64
		wantErr error
	}{
		{name: "sufficient funds", balance: 100, amount: 100},
		{name: "insufficient funds", balance: 5, amount: 10, wantErr: domain.ErrInsufficientFunds},
		{name: "zero amount", balance: 100, amount: 0, wantErr: domain.ErrInvalidAmount},
		{name: "negative amount", balance: 100, amount: -1, wantErr: domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWalletFixture(t)
			f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: tt.balance})

			err := f.uc.DeductCoins(context.Background(), "acc-1", tt.amount, "spend", "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DeductCoins = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				acc, _ := f.accounts.GetByID(context.Background(), "acc-1")
				if acc.Balance != tt.balance {
					t.Errorf("failed debit changed balance to %d", acc.Balance)
				}
				if len(f.entries.All()) != 0 {
					t.Error("failed debit must not write an entry")
				}
			}
		})
	}

	t.Run("unknown account", func(t *testing.T) {
		f := newWalletFixture(t)
		if err := f.uc.DeductCoins(context.Background(), "missing", 10, "spend", ""); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("DeductCoins = %v, want ErrAccountNotFound", err)
		}
	})
}

func TestCreditCoins(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		kind    domain.EntryKind
		wantErr error
	}{
		{name: "earn", amount: 10, kind: domain.EntryKindEarn},
		{name: "ad reward", amount: 5, kind: domain.EntryKindAdReward},
		{name: "purchase", amount: 500, kind: domain.EntryKindPurchase},
		{name: "spend kind rejected", amount: 10, kind: domain.EntryKindSpend, wantErr: domain.ErrInvalidKind},
		{name: "unknown kind rejected", amount: 10, kind: "gift", wantErr: domain.ErrInvalidKind},
		{name: "zero amount rejected", amount: 0, kind: domain.EntryKindEarn, wantErr: domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWalletFixture(t)
			f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: 0})

			err := f.uc.CreditCoins(context.Background(), "acc-1", tt.amount, tt.kind, "credit", "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreditCoins = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				acc, _ := f.accounts.GetByID(context.Background(), "acc-1")
				if acc.Balance != tt.amount {
					t.Errorf("balance = %d, want %d", acc.Balance, tt.amount)
				}
			}
		})
	}
}

func TestGetBalanceCaching(t *testing.T) {
	f := newWalletFixture(t)
	f.accounts.Seed(&domain.Account{ID: "acc-1", Balance: 42})

	balance, err := f.uc.GetBalance(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance != 42 {
		t.Fatalf("balance = %d, want 42", balance)
	}

	// Second read is served from cache: break the repository to prove it.
	f.accounts.GetByIDFunc = func(ctx context.Context, id string) (*domain.Account, error) {
		t.Fatal("repository should not be hit on a cached read")
		return nil, nil
	}
	balance, err = f.uc.GetBalance(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("cached GetBalance: %v", err)
	}
	if balance != 42 {
		t.Errorf("cached balance = %d, want 42", balance)
	}
	f.accounts.GetByIDFunc = nil

	// A mutation invalidates the cache, so the next read sees fresh state.
	if err := f.uc.DeductCoins(context.Background(), "acc-1", 2, "spend", ""); err != nil {
		t.Fatalf("DeductCoins: %v", err)
	}
	balance, err = f.uc.GetBalance(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("GetBalance after debit: %v", err)
	}
	if balance != 40 {
		t.Errorf("balance after debit = %d, want 40", balance)
	}
}

func TestWalletEventsEmitted(t *testing.T) {
	f := newWalletFixture(t)

	acc, err := f.uc.CreateAccount(context.Background(), "user-1", 50)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := f.uc.DeductCoins(context.Background(), acc.ID, 10, "spend", ""); err != nil {
		t.Fatalf("DeductCoins: %v", err)
	}

	events := f.outbox.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].EventType != domain.EventTypeAccountCreated {
		t.Errorf("first event = %s, want %s", events[0].EventType, domain.EventTypeAccountCreated)
	}
	if events[1].EventType != domain.EventTypeEntryRecorded {
		t.Errorf("second event = %s, want %s", events[1].EventType, domain.EventTypeEntryRecorded)
	}
}

package domain

import "time"

// EntryKind classifies a ledger entry by the business event that produced it.
type EntryKind string

const (
	EntryKindEarn     EntryKind = "earn"
	EntryKindSpend    EntryKind = "spend"
	EntryKindBonus    EntryKind = "bonus"
	EntryKindPurchase EntryKind = "purchase"
	EntryKindAdReward EntryKind = "ad_reward"
)

// Valid reports whether k is a known entry kind.
func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindEarn, EntryKindSpend, EntryKindBonus, EntryKindPurchase, EntryKindAdReward:
		return true
	}
	return false
}

// LedgerEntry is one committed balance change. Entries are append-only:
// they are written exactly once and never mutated or deleted. Amount is
// signed (negative for spends), BalanceAfter snapshots the account balance
// immediately after the change committed.
type LedgerEntry struct {
	ID           string
	AccountID    string
	Amount       int64
	Kind         EntryKind
	Description  string
	BalanceAfter int64
	ReferenceID  string
	CreatedAt    time.Time
}

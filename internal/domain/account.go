package domain

import "time"

// Account holds the coin balance for one user of the platform.
// The balance is a count of indivisible coins and is never negative.
type Account struct {
	ID        string
	UserID    string
	Balance   int64
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateDebit checks if the account can be debited by amount coins.
func (a *Account) ValidateDebit(amount int64) error {
	if a.Balance-amount < 0 {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns the balance after a debit of amount coins.
func (a *Account) ApplyDebit(amount int64) int64 {
	return a.Balance - amount
}

// ApplyCredit returns the balance after a credit of amount coins.
func (a *Account) ApplyCredit(amount int64) int64 {
	return a.Balance + amount
}

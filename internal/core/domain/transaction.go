package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement a transaction records.
type TransactionType string

const (
	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense || t == Transfer
}

// CategoryType returns the category type a transaction of this kind must reference.
// TRANSFER transactions carry no category.
func (t TransactionType) CategoryType() (CategoryType, bool) {
	switch t {
	case Income:
		return CategoryIncome, true
	case Expense:
		return CategoryExpense, true
	}
	return "", false
}

// Transaction is a single ledger entry.
// AccountID is the affected account; for TRANSFER it is the source and
// ToAccountID the destination.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	OwnerID       string          `json:"ownerID"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"` // Always positive
	AccountID     string          `json:"accountID"`
	ToAccountID   *string         `json:"toAccountID,omitempty"`
	CategoryID    *string         `json:"categoryID,omitempty"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Notes         string          `json:"notes"`
	AuditFields
}

// Effects returns the signed balance change this transaction causes on every account it touches.
func (t Transaction) Effects() map[string]decimal.Decimal {
	effects := make(map[string]decimal.Decimal, 2)
	switch t.Type {
	case Income:
		effects[t.AccountID] = t.Amount
	case Expense:
		effects[t.AccountID] = t.Amount.Neg()
	case Transfer:
		effects[t.AccountID] = t.Amount.Neg()
		if t.ToAccountID != nil {
			to := *t.ToAccountID
			effects[to] = effects[to].Add(t.Amount)
		}
	}
	return effects
}

// AccountIDs lists every account referenced by the transaction.
func (t Transaction) AccountIDs() []string {
	ids := []string{t.AccountID}
	if t.ToAccountID != nil && *t.ToAccountID != t.AccountID {
		ids = append(ids, *t.ToAccountID)
	}
	return ids
}

// References reports whether the transaction touches accountID on either leg.
func (t Transaction) References(accountID string) bool {
	return t.AccountID == accountID || (t.ToAccountID != nil && *t.ToAccountID == accountID)
}

// CategoryIDValue returns the category id or the empty string.
func (t Transaction) CategoryIDValue() string {
	if t.CategoryID == nil {
		return ""
	}
	return *t.CategoryID
}

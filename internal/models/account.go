package models

import (
	"github.com/shopspring/decimal"
)

// AccountType is stored as text and checked by a constraint.
type AccountType string

// Account is a row of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	OwnerID        string          `db:"owner_id"`
	Name           string          `db:"name"`
	AccountType    AccountType     `db:"account_type"`
	CurrencyCode   string          `db:"currency_code"`
	Balance        decimal.Decimal `db:"balance"` // Running balance, changed only by relative updates
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	Color          string          `db:"color"`
	Description    string          `db:"description"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
// ToAccountID is set only for TRANSFER rows and CategoryID only for INCOME and EXPENSE rows.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	OwnerID       string          `db:"owner_id"`
	Type          string          `db:"transaction_type"`
	Amount        decimal.Decimal `db:"amount"`
	AccountID     string          `db:"account_id"`
	ToAccountID   *string         `db:"to_account_id"`
	CategoryID    *string         `db:"category_id"`
	Date          time.Time       `db:"transaction_date"`
	Description   string          `db:"description"`
	Notes         string          `db:"notes"`
	AuditFields
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	BudgetID   string          `db:"budget_id"`
	OwnerID    string          `db:"owner_id"`
	CategoryID string          `db:"category_id"`
	Amount     decimal.Decimal `db:"amount"`
	Period     string          `db:"period"`
	StartDate  time.Time       `db:"start_date"`
	EndDate    *time.Time      `db:"end_date"`
	IsActive   bool            `db:"is_active"`
	AuditFields
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the calendar span a budget limit applies to.
type BudgetPeriod string

const (
	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is a known budget period.
func (p BudgetPeriod) Valid() bool {
	return p == Weekly || p == Monthly || p == Yearly
}

// Budget caps spending in an EXPENSE category over a window.
// EndDate is derived from Period when absent.
type Budget struct {
	BudgetID   string          `json:"budgetID"`
	OwnerID    string          `json:"ownerID"`
	CategoryID string          `json:"categoryID"`
	Amount     decimal.Decimal `json:"amount"`
	Period     BudgetPeriod    `json:"period"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    *time.Time      `json:"endDate,omitempty"`
	IsActive   bool            `json:"isActive"`
	AuditFields
}

// BudgetProgress is always recomputed from the ledger and never stored.
type BudgetProgress struct {
	Budget        Budget          `json:"budget"`
	WindowStart   time.Time       `json:"windowStart"`
	WindowEnd     time.Time       `json:"windowEnd"`
	Spent         decimal.Decimal `json:"spent"`
	Percentage    decimal.Decimal `json:"percentage"` // In [0, 100]
	Remaining     decimal.Decimal `json:"remaining"`  // Never negative
	DaysRemaining int             `json:"daysRemaining"`
}

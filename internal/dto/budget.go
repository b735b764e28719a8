package dto

import (
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines a spending cap for an EXPENSE category.
// EndDate is derived from Period when omitted; IsActive defaults to true.
type CreateBudgetRequest struct {
	CategoryID string              `json:"categoryID" binding:"required"`
	Amount     decimal.Decimal     `json:"amount" binding:"money"`
	Period     domain.BudgetPeriod `json:"period" binding:"required,oneof=weekly monthly yearly"`
	StartDate  time.Time           `json:"startDate" binding:"required"`
	EndDate    *time.Time          `json:"endDate"`
	IsActive   *bool               `json:"isActive"`
}

// UpdateBudgetRequest is a partial update. An explicit null endDate clears it,
// so the end is derived from the period again.
type UpdateBudgetRequest struct {
	CategoryID *string              `json:"categoryID" binding:"omitempty,min=1"`
	Amount     *decimal.Decimal     `json:"amount" binding:"omitempty,money"`
	Period     *domain.BudgetPeriod `json:"period" binding:"omitempty,oneof=weekly monthly yearly"`
	StartDate  *time.Time           `json:"startDate"`
	EndDate    OptionalTime         `json:"endDate"`
	IsActive   *bool                `json:"isActive"`
}

type ListBudgetsParams struct {
	IsActive *bool `form:"isActive"`
}

// BudgetProgressResponse is a budget together with its live spending figures.
type BudgetProgressResponse struct {
	BudgetID      string              `json:"budgetID"`
	CategoryID    string              `json:"categoryID"`
	Amount        decimal.Decimal     `json:"amount"`
	Period        domain.BudgetPeriod `json:"period"`
	StartDate     time.Time           `json:"startDate"`
	EndDate       time.Time           `json:"endDate"`
	IsActive      bool                `json:"isActive"`
	Spent         decimal.Decimal     `json:"spent"`
	Percentage    decimal.Decimal     `json:"percentage"`
	Remaining     decimal.Decimal     `json:"remaining"`
	DaysRemaining int                 `json:"daysRemaining"`
}

func ToBudgetProgressResponse(p *domain.BudgetProgress) BudgetProgressResponse {
	return BudgetProgressResponse{
		BudgetID:      p.Budget.BudgetID,
		CategoryID:    p.Budget.CategoryID,
		Amount:        p.Budget.Amount,
		Period:        p.Budget.Period,
		StartDate:     p.WindowStart,
		EndDate:       p.WindowEnd,
		IsActive:      p.Budget.IsActive,
		Spent:         p.Spent,
		Percentage:    p.Percentage,
		Remaining:     p.Remaining,
		DaysRemaining: p.DaysRemaining,
	}
}

func ToBudgetProgressResponses(progress []domain.BudgetProgress) []BudgetProgressResponse {
	res := make([]BudgetProgressResponse, len(progress))
	for i := range progress {
		res[i] = ToBudgetProgressResponse(&progress[i])
	}
	return res
}

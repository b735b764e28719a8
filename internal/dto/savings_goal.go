package dto

import (
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

type CreateSavingsGoalRequest struct {
	Name          string          `json:"name" binding:"required,max=100"`
	Description   string          `json:"description" binding:"max=500"`
	TargetAmount  decimal.Decimal `json:"targetAmount" binding:"money"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline"`
}

// UpdateSavingsGoalRequest is a partial update. An explicit null deadline clears it.
type UpdateSavingsGoalRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=100"`
	Description   *string          `json:"description" binding:"omitempty,max=500"`
	TargetAmount  *decimal.Decimal `json:"targetAmount" binding:"omitempty,money"`
	CurrentAmount *decimal.Decimal `json:"currentAmount"`
	Deadline      OptionalTime     `json:"deadline"`
}

// ContributeRequest adds money to a goal. It never touches account balances.
type ContributeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"money"`
}

type ListSavingsGoalsParams struct {
	Completed *bool `form:"completed"`
}

type SavingsGoalResponse struct {
	GoalID        string          `json:"goalID"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Remaining     decimal.Decimal `json:"remaining"`
	IsCompleted   bool            `json:"isCompleted"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

func ToSavingsGoalResponse(g *domain.SavingsGoal) SavingsGoalResponse {
	return SavingsGoalResponse{
		GoalID:        g.GoalID,
		Name:          g.Name,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Remaining:     g.Remaining(),
		IsCompleted:   g.IsCompleted,
		Deadline:      g.Deadline,
		CreatedAt:     g.CreatedAt,
		LastUpdatedAt: g.LastUpdatedAt,
	}
}

func ToSavingsGoalResponses(goals []domain.SavingsGoal) []SavingsGoalResponse {
	res := make([]SavingsGoalResponse, len(goals))
	for i := range goals {
		res[i] = ToSavingsGoalResponse(&goals[i])
	}
	return res
}

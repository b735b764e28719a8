package services

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// GoalSvcFacade defines savings goal operations. Goals never affect account balances.
type GoalSvcFacade interface {
	CreateGoal(ctx context.Context, ownerID string, req dto.CreateSavingsGoalRequest) (*domain.SavingsGoal, error)
	GetGoal(ctx context.Context, ownerID, goalID string) (*domain.SavingsGoal, error)
	ListGoals(ctx context.Context, ownerID string, completed *bool) ([]domain.SavingsGoal, error)

	// UpdateGoal edits a goal under the same row lock as contributions and
	// re-derives IsCompleted, so lowering the target can complete a goal and raising it can reopen one.
	UpdateGoal(ctx context.Context, ownerID, goalID string, req dto.UpdateSavingsGoalRequest) (*domain.SavingsGoal, error)
	DeleteGoal(ctx context.Context, ownerID, goalID string) error

	// ContributeToGoal adds amount to an open goal and completes it once the target is met.
	ContributeToGoal(ctx context.Context, ownerID, goalID string, amount decimal.Decimal) (*domain.SavingsGoal, error)
}

package repositories

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

type GoalReader interface {
	FindGoalByID(ctx context.Context, ownerID, goalID string) (*domain.SavingsGoal, error)

	// ListGoals lists open goals first, then by deadline, optionally filtered by completion.
	ListGoals(ctx context.Context, ownerID string, completed *bool) ([]domain.SavingsGoal, error)
}

type GoalWriter interface {
	SaveGoal(ctx context.Context, goal domain.SavingsGoal) error
}

type GoalRepositoryFacade interface {
	GoalReader
	GoalWriter
}

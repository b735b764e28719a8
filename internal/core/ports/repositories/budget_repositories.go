package repositories

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

type BudgetReader interface {
	FindBudgetByID(ctx context.Context, ownerID, budgetID string) (*domain.Budget, error)

	// ListBudgets lists the owner's budgets newest first, optionally filtered by IsActive.
	ListBudgets(ctx context.Context, ownerID string, isActive *bool) ([]domain.Budget, error)
}

type BudgetWriter interface {
	SaveBudget(ctx context.Context, budget domain.Budget) error
	UpdateBudget(ctx context.Context, budget domain.Budget) error
	DeleteBudget(ctx context.Context, ownerID, budgetID string) error
}

type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}

package services

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/dto"
)

// BudgetSvcFacade defines budget management and live progress.
type BudgetSvcFacade interface {
	CreateBudget(ctx context.Context, ownerID string, req dto.CreateBudgetRequest) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, ownerID, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, ownerID, budgetID string) error

	// GetBudgetProgress recomputes spending for the budget's window from the ledger.
	GetBudgetProgress(ctx context.Context, ownerID, budgetID string) (*domain.BudgetProgress, error)
	ListBudgetProgress(ctx context.Context, ownerID string, isActive *bool) ([]domain.BudgetProgress, error)
}

package repositories

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

// CategoryReader defines read operations for category data
type CategoryReader interface {
	FindCategoryByID(ctx context.Context, ownerID, categoryID string) (*domain.Category, error)

	// ListCategories lists the owner's categories, optionally restricted to one type.
	ListCategories(ctx context.Context, ownerID string, categoryType *domain.CategoryType) ([]domain.Category, error)
}

// CategoryWriter defines write operations for category data
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) error

	// DeleteCategory fails with ErrValidation while transactions or budgets reference the category.
	DeleteCategory(ctx context.Context, ownerID, categoryID string) error
}

type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}

package services

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/dto"
)

type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, ownerID string, req dto.CreateCategoryRequest) (*domain.Category, error)
	ListCategories(ctx context.Context, ownerID string, categoryType *domain.CategoryType) ([]domain.Category, error)

	// DeleteCategory rejects default categories and categories still in use.
	DeleteCategory(ctx context.Context, ownerID, categoryID string) error
}

package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/google/uuid"
)

type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
	now          func() time.Time
}

func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo, now: time.Now}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, ownerID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validationf("category name is required")
	}
	if !req.Type.Valid() {
		return nil, apperrors.Validationf("unknown category type %q", req.Type)
	}
	cat := domain.Category{
		CategoryID:  uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Type:        req.Type,
		Color:       req.Color,
		Icon:        req.Icon,
		AuditFields: domain.NewAuditFields(ownerID, s.now()),
	}
	if err := s.categoryRepo.SaveCategory(ctx, cat); err != nil {
		s.LogFailure(ctx, err, "Failed to save category", slog.String("name", name))
		return nil, err
	}
	s.LogInfo(ctx, "Category created", slog.String("category_id", cat.CategoryID), slog.String("type", string(cat.Type)))
	return &cat, nil
}

func (s *categoryService) ListCategories(ctx context.Context, ownerID string, categoryType *domain.CategoryType) ([]domain.Category, error) {
	cats, err := s.categoryRepo.ListCategories(ctx, ownerID, categoryType)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, err
	}
	return cats, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, ownerID, categoryID string) error {
	cat, err := s.categoryRepo.FindCategoryByID(ctx, ownerID, categoryID)
	if err != nil {
		s.LogFailure(ctx, err, "Category to delete not found", slog.String("category_id", categoryID))
		return err
	}
	if cat.IsDefault {
		return apperrors.Validationf("default category %s cannot be deleted", categoryID)
	}
	if err := s.categoryRepo.DeleteCategory(ctx, ownerID, categoryID); err != nil {
		s.LogFailure(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return err
	}
	s.LogInfo(ctx, "Category deleted", slog.String("category_id", categoryID))
	return nil
}

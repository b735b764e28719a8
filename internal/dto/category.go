package dto

import (
	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

type CreateCategoryRequest struct {
	Name  string              `json:"name" binding:"required,max=50"`
	Type  domain.CategoryType `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Color string              `json:"color" binding:"omitempty,hexcolor"`
	Icon  string              `json:"icon" binding:"max=50"`
}

type ListCategoriesParams struct {
	Type string `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
}

type CategoryResponse struct {
	CategoryID string              `json:"categoryID"`
	Name       string              `json:"name"`
	Type       domain.CategoryType `json:"type"`
	Color      string              `json:"color"`
	Icon       string              `json:"icon"`
	IsDefault  bool                `json:"isDefault"`
}

func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Type:       c.Type,
		Color:      c.DisplayColor(),
		Icon:       c.Icon,
		IsDefault:  c.IsDefault,
	}
}

func ToCategoryResponses(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToCategoryResponse(&categories[i])
	}
	return res
}

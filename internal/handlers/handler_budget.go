package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := &budgetHandler{budgetService: budgetService}

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.PATCH("/:id", h.updateBudget)
		budgets.DELETE("/:id", h.deleteBudget)
		budgets.GET("/:id/progress", h.getBudgetProgress)
	}
}

// createBudget godoc
// @Summary Create a budget
// @Description Caps spending on an EXPENSE category over a weekly, monthly or yearly period
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetProgressResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 500 {object} map[string]string "Failed to create budget"
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	budget, err := h.budgetService.CreateBudget(c.Request.Context(), ownerID, req)
	if err != nil {
		respondError(c, err, "create budget")
		return
	}

	// A new budget is answered with its live progress, like the listing.
	progress, err := h.budgetService.GetBudgetProgress(c.Request.Context(), ownerID, budget.BudgetID)
	if err != nil {
		respondError(c, err, "compute budget progress")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Budget created", slog.String("budget_id", budget.BudgetID))
	c.JSON(http.StatusCreated, dto.ToBudgetProgressResponse(progress))
}

// listBudgets godoc
// @Summary List budgets with progress
// @Tags budgets
// @Produce  json
// @Param   isActive query bool false "Filter by active flag"
// @Success 200 {array} dto.BudgetProgressResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list budgets"
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	progress, err := h.budgetService.ListBudgetProgress(c.Request.Context(), ownerID, params.IsActive)
	if err != nil {
		respondError(c, err, "list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetProgressResponses(progress))
}

// getBudgetProgress godoc
// @Summary Get budget progress
// @Tags budgets
// @Produce  json
// @Param   id path string true "Budget ID"
// @Success 200 {object} dto.BudgetProgressResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 500 {object} map[string]string "Failed to compute budget progress"
// @Security BearerAuth
// @Router /budgets/{id}/progress [get]
func (h *budgetHandler) getBudgetProgress(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	progress, err := h.budgetService.GetBudgetProgress(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondError(c, err, "compute budget progress")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetProgressResponse(progress))
}

// updateBudget godoc
// @Summary Update a budget
// @Description Partial update. Send "endDate": null to derive the end from the period again
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   id path string true "Budget ID"
// @Param   budget body dto.UpdateBudgetRequest true "Fields to change"
// @Success 200 {object} dto.BudgetProgressResponse
// @Failure 400 {object} map[string]string "Invalid input or non-EXPENSE category"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Budget or category not found"
// @Failure 500 {object} map[string]string "Failed to update budget"
// @Security BearerAuth
// @Router /budgets/{id} [patch]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), ownerID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "update budget")
		return
	}
	progress, err := h.budgetService.GetBudgetProgress(c.Request.Context(), ownerID, budget.BudgetID)
	if err != nil {
		respondError(c, err, "compute budget progress")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetProgressResponse(progress))
}

// deleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Param   id path string true "Budget ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 500 {object} map[string]string "Failed to delete budget"
// @Security BearerAuth
// @Router /budgets/{id} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	budgetID := c.Param("id")
	if err := h.budgetService.DeleteBudget(c.Request.Context(), ownerID, budgetID); err != nil {
		respondError(c, err, "delete budget")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Budget deleted", slog.String("budget_id", budgetID))
	c.Status(http.StatusNoContent)
}

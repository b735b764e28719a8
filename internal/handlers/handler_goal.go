package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type goalHandler struct {
	goalService portssvc.GoalSvcFacade
}

func registerGoalRoutes(rg *gin.RouterGroup, goalService portssvc.GoalSvcFacade) {
	h := &goalHandler{goalService: goalService}

	goals := rg.Group("/savings-goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.GET("/:id", h.getGoal)
		goals.PATCH("/:id", h.updateGoal)
		goals.DELETE("/:id", h.deleteGoal)
		goals.POST("/:id/contribute", h.contribute)
	}
}

// createGoal godoc
// @Summary Create a savings goal
// @Tags savings-goals
// @Accept  json
// @Produce  json
// @Param   goal body dto.CreateSavingsGoalRequest true "Goal details"
// @Success 201 {object} dto.SavingsGoalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create savings goal"
// @Security BearerAuth
// @Router /savings-goals [post]
func (h *goalHandler) createGoal(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req dto.CreateSavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	goal, err := h.goalService.CreateGoal(c.Request.Context(), ownerID, req)
	if err != nil {
		respondError(c, err, "create savings goal")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSavingsGoalResponse(goal))
}

// listGoals godoc
// @Summary List savings goals
// @Description Open goals first, then by deadline
// @Tags savings-goals
// @Produce  json
// @Param   completed query bool false "Filter by completion"
// @Success 200 {array} dto.SavingsGoalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list savings goals"
// @Security BearerAuth
// @Router /savings-goals [get]
func (h *goalHandler) listGoals(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var params dto.ListSavingsGoalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	goals, err := h.goalService.ListGoals(c.Request.Context(), ownerID, params.Completed)
	if err != nil {
		respondError(c, err, "list savings goals")
		return
	}
	c.JSON(http.StatusOK, dto.ToSavingsGoalResponses(goals))
}

// getGoal godoc
// @Summary Get a savings goal
// @Tags savings-goals
// @Produce  json
// @Param   id path string true "Goal ID"
// @Success 200 {object} dto.SavingsGoalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 500 {object} map[string]string "Failed to retrieve savings goal"
// @Security BearerAuth
// @Router /savings-goals/{id} [get]
func (h *goalHandler) getGoal(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	goal, err := h.goalService.GetGoal(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve savings goal")
		return
	}
	c.JSON(http.StatusOK, dto.ToSavingsGoalResponse(goal))
}

// contribute godoc
// @Summary Contribute to a savings goal
// @Description Adds to the goal's progress. Account balances are not affected
// @Tags savings-goals
// @Accept  json
// @Produce  json
// @Param   id path string true "Goal ID"
// @Param   contribution body dto.ContributeRequest true "Amount to add"
// @Success 200 {object} dto.SavingsGoalResponse
// @Failure 400 {object} map[string]string "Invalid amount or goal already completed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 409 {object} map[string]string "Concurrent update, retry"
// @Failure 500 {object} map[string]string "Failed to contribute to savings goal"
// @Security BearerAuth
// @Router /savings-goals/{id}/contribute [post]
func (h *goalHandler) contribute(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req dto.ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	goalID := c.Param("id")
	goal, err := h.goalService.ContributeToGoal(c.Request.Context(), ownerID, goalID, req.Amount)
	if err != nil {
		respondError(c, err, "contribute to savings goal")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Goal contribution recorded",
		slog.String("goal_id", goalID), slog.Bool("completed", goal.IsCompleted))
	c.JSON(http.StatusOK, dto.ToSavingsGoalResponse(goal))
}

// updateGoal godoc
// @Summary Update a savings goal
// @Description Partial update. Completion is recomputed from the target and current amounts
// @Tags savings-goals
// @Accept  json
// @Produce  json
// @Param   id path string true "Goal ID"
// @Param   goal body dto.UpdateSavingsGoalRequest true "Fields to change"
// @Success 200 {object} dto.SavingsGoalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 409 {object} map[string]string "Concurrent update, retry"
// @Failure 500 {object} map[string]string "Failed to update savings goal"
// @Security BearerAuth
// @Router /savings-goals/{id} [patch]
func (h *goalHandler) updateGoal(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req dto.UpdateSavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}
	goal, err := h.goalService.UpdateGoal(c.Request.Context(), ownerID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "update savings goal")
		return
	}
	c.JSON(http.StatusOK, dto.ToSavingsGoalResponse(goal))
}

// deleteGoal godoc
// @Summary Delete a savings goal
// @Tags savings-goals
// @Param   id path string true "Goal ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 500 {object} map[string]string "Failed to delete savings goal"
// @Security BearerAuth
// @Router /savings-goals/{id} [delete]
func (h *goalHandler) deleteGoal(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	goalID := c.Param("id")
	if err := h.goalService.DeleteGoal(c.Request.Context(), ownerID, goalID); err != nil {
		respondError(c, err, "delete savings goal")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Savings goal deleted", slog.String("goal_id", goalID))
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	loc              *time.Location
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, loc *time.Location) {
	h := &reportingHandler{reportingService: reportingService, loc: loc}
	rg.GET("/reports", h.getReport)
}

// getReport godoc
// @Summary Generate a report
// @Description Builds a weekly, monthly, annual, net-worth, category-breakdown or single-category report from one consistent snapshot
// @Tags reports
// @Produce json
// @Param type query string true "weekly, monthly, annual, networth, breakdown or category"
// @Param startDate query string false "Window start (YYYY-MM-DD or RFC3339)"
// @Param endDate query string false "Window end (YYYY-MM-DD or RFC3339)"
// @Param year query int false "Year for monthly and annual reports"
// @Param month query int false "Month 1-12 for monthly reports"
// @Param categoryId query string false "Category for the category report"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports [get]
func (h *reportingHandler) getReport(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	query, err := params.ToQuery(h.loc)
	if err != nil {
		respondError(c, err, "generate report")
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Generating report", slog.String("type", params.Type))

	data, err := h.reportingService.GetReport(c.Request.Context(), ownerID, query)
	if err != nil {
		respondError(c, err, "generate report")
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(data))
}

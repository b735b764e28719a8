package dto

import (
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

// ReportParams defines query parameters for GET /reports.
type ReportParams struct {
	Type       string `form:"type" binding:"required,oneof=weekly monthly annual networth breakdown category"`
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
	Year       int    `form:"year" binding:"omitempty,min=1900,max=9999"`
	Month      int    `form:"month" binding:"omitempty,min=1,max=12"`
	CategoryID string `form:"categoryId"`
}

// ToQuery parses the parameters. A window is set only when both dates are present.
func (p ReportParams) ToQuery(loc *time.Location) (domain.ReportQuery, error) {
	q := domain.ReportQuery{
		Type:       domain.ReportType(p.Type),
		Year:       p.Year,
		Month:      p.Month,
		CategoryID: p.CategoryID,
	}
	start, err := ParseQueryDate(p.StartDate, loc, false)
	if err != nil {
		return q, err
	}
	end, err := ParseQueryDate(p.EndDate, loc, true)
	if err != nil {
		return q, err
	}
	if (start == nil) != (end == nil) {
		return q, apperrors.Validationf("startDate and endDate must be given together")
	}
	if start != nil {
		if end.Before(*start) {
			return q, apperrors.Validationf("endDate must not be before startDate")
		}
		q.Window = &domain.Window{Start: *start, End: *end}
	}
	if q.Type == domain.ReportCategory && (q.CategoryID == "" || q.Window == nil) {
		return q, apperrors.Validationf("category report requires categoryId, startDate and endDate")
	}
	return q, nil
}

// ReportResponse tags the report payload with its type.
type ReportResponse struct {
	Type domain.ReportType `json:"type"`
	Data domain.ReportData `json:"data"`
}

func ToReportResponse(data domain.ReportData) ReportResponse {
	return ReportResponse{Type: data.ReportType(), Data: data}
}

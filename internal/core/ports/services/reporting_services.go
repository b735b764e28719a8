package services

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

// ReportingService defines operations for generating financial reports.
// Every report reads from a single consistent snapshot.
type ReportingService interface {
	// GetReport dispatches on query.Type.
	GetReport(ctx context.Context, ownerID string, query domain.ReportQuery) (domain.ReportData, error)

	WeeklyReport(ctx context.Context, ownerID string, window *domain.Window) (*domain.WeeklyReport, error)
	MonthlyReport(ctx context.Context, ownerID string, year, month int) (*domain.MonthlyReport, error)
	AnnualReport(ctx context.Context, ownerID string, year int) (*domain.AnnualReport, error)
	NetWorthReport(ctx context.Context, ownerID string) (*domain.NetWorthReport, error)

	// CategoryBreakdown groups expenses by category; a nil window covers all time.
	CategoryBreakdown(ctx context.Context, ownerID string, window *domain.Window) (*domain.CategoryBreakdown, error)
	CategoryReport(ctx context.Context, ownerID, categoryID string, window domain.Window) (*domain.CategoryReport, error)
}

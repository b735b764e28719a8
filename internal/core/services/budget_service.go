package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/utils/periods"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type budgetService struct {
	BaseService
	budgets   portsrepo.BudgetRepositoryFacade
	snapshots portsrepo.SnapshotProvider
	now       func() time.Time
	loc       *time.Location
}

// BudgetServiceOption is a functional option for configuring the budget service
type BudgetServiceOption func(*budgetService)

func WithBudgetClock(now func() time.Time) BudgetServiceOption {
	return func(s *budgetService) {
		s.now = now
	}
}

// WithBudgetLocation sets the calendar used to derive period ends.
func WithBudgetLocation(loc *time.Location) BudgetServiceOption {
	return func(s *budgetService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewBudgetService creates the budget aggregator. Progress is never stored; it is
// recomputed from a ledger snapshot on every call.
func NewBudgetService(budgets portsrepo.BudgetRepositoryFacade, snapshots portsrepo.SnapshotProvider, opts ...BudgetServiceOption) portssvc.BudgetSvcFacade {
	s := &budgetService{
		budgets:   budgets,
		snapshots: snapshots,
		now:       time.Now,
		loc:       time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) CreateBudget(ctx context.Context, ownerID string, req dto.CreateBudgetRequest) (*domain.Budget, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	budget := domain.Budget{
		BudgetID:    uuid.NewString(),
		OwnerID:     ownerID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Period:      req.Period,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsActive:    isActive,
		AuditFields: domain.NewAuditFields(ownerID, s.now()),
	}
	if err := validateBudget(budget); err != nil {
		return nil, err
	}
	if err := s.requireExpenseCategory(ctx, ownerID, budget.CategoryID); err != nil {
		return nil, err
	}
	if err := s.budgets.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "Failed to save budget", slog.String("category_id", req.CategoryID))
		return nil, err
	}

	s.LogInfo(ctx, "Budget created", slog.String("budget_id", budget.BudgetID), slog.String("period", string(budget.Period)))
	return &budget, nil
}

// UpdateBudget applies a partial update. A changed category must still be an EXPENSE category.
func (s *budgetService) UpdateBudget(ctx context.Context, ownerID, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	existing, err := s.budgets.FindBudgetByID(ctx, ownerID, budgetID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to find budget", slog.String("budget_id", budgetID))
		return nil, err
	}

	budget := *existing
	if req.CategoryID != nil {
		budget.CategoryID = *req.CategoryID
	}
	if req.Amount != nil {
		budget.Amount = *req.Amount
	}
	if req.Period != nil {
		budget.Period = *req.Period
	}
	if req.StartDate != nil {
		budget.StartDate = *req.StartDate
	}
	budget.EndDate = req.EndDate.Apply(existing.EndDate)
	if req.IsActive != nil {
		budget.IsActive = *req.IsActive
	}
	if err := validateBudget(budget); err != nil {
		return nil, err
	}
	if budget.CategoryID != existing.CategoryID {
		if err := s.requireExpenseCategory(ctx, ownerID, budget.CategoryID); err != nil {
			return nil, err
		}
	}
	budget.Touch(ownerID, s.now())

	if err := s.budgets.UpdateBudget(ctx, budget); err != nil {
		s.LogFailure(ctx, err, "Failed to update budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	s.LogInfo(ctx, "Budget updated", slog.String("budget_id", budgetID))
	return &budget, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, ownerID, budgetID string) error {
	if err := s.budgets.DeleteBudget(ctx, ownerID, budgetID); err != nil {
		s.LogFailure(ctx, err, "Failed to delete budget", slog.String("budget_id", budgetID))
		return err
	}
	s.LogInfo(ctx, "Budget deleted", slog.String("budget_id", budgetID))
	return nil
}

func validateBudget(b domain.Budget) error {
	if err := domain.ValidateAmount(b.Amount); err != nil {
		return err
	}
	if !b.Period.Valid() {
		return apperrors.Validationf("unknown budget period %q", b.Period)
	}
	if b.StartDate.IsZero() {
		return apperrors.Validationf("startDate is required")
	}
	if b.EndDate != nil && b.EndDate.Before(b.StartDate) {
		return apperrors.Validationf("endDate must not be before startDate")
	}
	return nil
}

func (s *budgetService) requireExpenseCategory(ctx context.Context, ownerID, categoryID string) error {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to open ledger snapshot")
		return err
	}
	cat, err := snap.FindCategoryByID(ctx, ownerID, categoryID)
	closeSnapshot(ctx, &s.BaseService, snap)
	if err != nil {
		s.LogFailure(ctx, err, "Budget category lookup failed", slog.String("category_id", categoryID))
		return err
	}
	if cat.Type != domain.CategoryExpense {
		return apperrors.Validationf("budgets can only track EXPENSE categories, %s is %s", cat.CategoryID, cat.Type)
	}
	return nil
}

func (s *budgetService) GetBudgetProgress(ctx context.Context, ownerID, budgetID string) (*domain.BudgetProgress, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to open ledger snapshot")
		return nil, err
	}
	defer closeSnapshot(ctx, &s.BaseService, snap)

	budget, err := snap.FindBudgetByID(ctx, ownerID, budgetID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to find budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	progress, err := s.progress(ctx, snap, *budget)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (s *budgetService) ListBudgetProgress(ctx context.Context, ownerID string, isActive *bool) ([]domain.BudgetProgress, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to open ledger snapshot")
		return nil, err
	}
	defer closeSnapshot(ctx, &s.BaseService, snap)

	budgets, err := snap.ListBudgets(ctx, ownerID, isActive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets")
		return nil, err
	}
	out := make([]domain.BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		p, err := s.progress(ctx, snap, b)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *budgetService) progress(ctx context.Context, reader portsrepo.TransactionReader, budget domain.Budget) (domain.BudgetProgress, error) {
	window, err := BudgetWindow(budget, s.loc)
	if err != nil {
		return domain.BudgetProgress{}, err
	}
	spent, err := reader.SumExpenses(ctx, budget.OwnerID, budget.CategoryID, window)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum budget expenses", slog.String("budget_id", budget.BudgetID))
		return domain.BudgetProgress{}, err
	}
	return ComputeBudgetProgress(budget, window, spent, s.now()), nil
}

// BudgetWindow returns [startDate, endDate], deriving the end from the period when unset.
func BudgetWindow(budget domain.Budget, loc *time.Location) (domain.Window, error) {
	start := budget.StartDate.In(loc)
	if budget.EndDate != nil {
		return domain.Window{Start: start, End: budget.EndDate.In(loc)}, nil
	}
	end, err := periods.PeriodEnd(start, budget.Period)
	if err != nil {
		return domain.Window{}, apperrors.Validationf("%s", err.Error())
	}
	return domain.Window{Start: start, End: end}, nil
}

// ComputeBudgetProgress derives the spend figures. Percentage is capped at 100 and
// remaining floored at zero, so overspending shows as a full budget.
func ComputeBudgetProgress(budget domain.Budget, window domain.Window, spent decimal.Decimal, asOf time.Time) domain.BudgetProgress {
	pct := decimal.Zero
	if budget.Amount.IsPositive() {
		pct = spent.Div(budget.Amount).Mul(hundred)
	}
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	remaining := budget.Amount.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return domain.BudgetProgress{
		Budget:        budget,
		WindowStart:   window.Start,
		WindowEnd:     window.End,
		Spent:         spent,
		Percentage:    pct.Round(2),
		Remaining:     remaining,
		DaysRemaining: periods.DaysRemaining(window.End, asOf),
	}
}

func closeSnapshot(ctx context.Context, base *BaseService, snap portsrepo.Snapshot) {
	if err := snap.Close(context.WithoutCancel(ctx)); err != nil {
		base.LogError(ctx, err, "Failed to close ledger snapshot")
	}
}

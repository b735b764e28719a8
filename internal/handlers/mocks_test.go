package handlers_test

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateTransaction(ctx context.Context, ownerID string, in domain.TransactionInput) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) UpdateTransaction(ctx context.Context, ownerID, transactionID string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, transactionID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) DeleteTransaction(ctx context.Context, ownerID, transactionID string) error {
	args := m.Called(ctx, ownerID, transactionID)
	return args.Error(0)
}

func (m *MockLedgerService) Transfer(ctx context.Context, ownerID string, in domain.TransferInput) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) GetTransaction(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) (*domain.TransactionPage, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionPage), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, ownerID string, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsSummary(ctx context.Context, ownerID string) (*domain.AccountsSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountsSummary), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, ownerID, accountID string) error {
	args := m.Called(ctx, ownerID, accountID)
	return args.Error(0)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, ownerID, accountID string) error {
	args := m.Called(ctx, ownerID, accountID)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock GoalService ---
type MockGoalService struct {
	mock.Mock
}

func (m *MockGoalService) CreateGoal(ctx context.Context, ownerID string, req dto.CreateSavingsGoalRequest) (*domain.SavingsGoal, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalService) GetGoal(ctx context.Context, ownerID, goalID string) (*domain.SavingsGoal, error) {
	args := m.Called(ctx, ownerID, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalService) ListGoals(ctx context.Context, ownerID string, completed *bool) ([]domain.SavingsGoal, error) {
	args := m.Called(ctx, ownerID, completed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalService) ContributeToGoal(ctx context.Context, ownerID, goalID string, amount decimal.Decimal) (*domain.SavingsGoal, error) {
	args := m.Called(ctx, ownerID, goalID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalService) UpdateGoal(ctx context.Context, ownerID, goalID string, req dto.UpdateSavingsGoalRequest) (*domain.SavingsGoal, error) {
	args := m.Called(ctx, ownerID, goalID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalService) DeleteGoal(ctx context.Context, ownerID, goalID string) error {
	args := m.Called(ctx, ownerID, goalID)
	return args.Error(0)
}

var _ portssvc.GoalSvcFacade = (*MockGoalService)(nil)

// --- Mock BudgetService ---
type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) CreateBudget(ctx context.Context, ownerID string, req dto.CreateBudgetRequest) (*domain.Budget, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) UpdateBudget(ctx context.Context, ownerID, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	args := m.Called(ctx, ownerID, budgetID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) DeleteBudget(ctx context.Context, ownerID, budgetID string) error {
	args := m.Called(ctx, ownerID, budgetID)
	return args.Error(0)
}

func (m *MockBudgetService) GetBudgetProgress(ctx context.Context, ownerID, budgetID string) (*domain.BudgetProgress, error) {
	args := m.Called(ctx, ownerID, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetProgress), args.Error(1)
}

func (m *MockBudgetService) ListBudgetProgress(ctx context.Context, ownerID string, isActive *bool) ([]domain.BudgetProgress, error) {
	args := m.Called(ctx, ownerID, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetProgress), args.Error(1)
}

var _ portssvc.BudgetSvcFacade = (*MockBudgetService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetReport(ctx context.Context, ownerID string, query domain.ReportQuery) (domain.ReportData, error) {
	args := m.Called(ctx, ownerID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.ReportData), args.Error(1)
}

func (m *MockReportingService) WeeklyReport(ctx context.Context, ownerID string, window *domain.Window) (*domain.WeeklyReport, error) {
	args := m.Called(ctx, ownerID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeeklyReport), args.Error(1)
}

func (m *MockReportingService) MonthlyReport(ctx context.Context, ownerID string, year, month int) (*domain.MonthlyReport, error) {
	args := m.Called(ctx, ownerID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyReport), args.Error(1)
}

func (m *MockReportingService) AnnualReport(ctx context.Context, ownerID string, year int) (*domain.AnnualReport, error) {
	args := m.Called(ctx, ownerID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnnualReport), args.Error(1)
}

func (m *MockReportingService) NetWorthReport(ctx context.Context, ownerID string) (*domain.NetWorthReport, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetWorthReport), args.Error(1)
}

func (m *MockReportingService) CategoryBreakdown(ctx context.Context, ownerID string, window *domain.Window) (*domain.CategoryBreakdown, error) {
	args := m.Called(ctx, ownerID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryBreakdown), args.Error(1)
}

func (m *MockReportingService) CategoryReport(ctx context.Context, ownerID, categoryID string, window domain.Window) (*domain.CategoryReport, error) {
	args := m.Called(ctx, ownerID, categoryID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryReport), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

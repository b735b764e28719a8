package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/core/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const ownerID = "owner-1"

// fixedNow is a Thursday.
var fixedNow = time.Date(2024, 5, 16, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []domain.LedgerEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.LedgerEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// ledgerFixture wires every service to one in-memory store.
type ledgerFixture struct {
	store     *memory.Store
	publisher *recordingPublisher
	ledger    portssvc.LedgerSvcFacade
	accounts  portssvc.AccountSvcFacade
	category  portssvc.CategorySvcFacade
	budgets   portssvc.BudgetSvcFacade
	goals     portssvc.GoalSvcFacade
	reports   portssvc.ReportingService
}

func newLedgerFixture() *ledgerFixture {
	store := memory.NewStore()
	repos := store.Provider()
	pub := &recordingPublisher{}
	clock := func() time.Time { return fixedNow }
	policy := services.RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond, Timeout: 2 * time.Second}

	return &ledgerFixture{
		store:     store,
		publisher: pub,
		ledger: services.NewLedgerService(repos.TxManager, repos.TransactionRepo,
			services.WithLedgerPublisher(pub),
			services.WithLedgerRetryPolicy(policy),
			services.WithLedgerClock(clock),
		),
		accounts: services.NewAccountService(repos.AccountRepo, repos.TransactionRepo, services.WithAccountClock(clock)),
		category: services.NewCategoryService(repos.CategoryRepo),
		budgets:  services.NewBudgetService(repos.BudgetRepo, repos.Snapshots, services.WithBudgetClock(clock)),
		goals: services.NewGoalService(repos.GoalRepo, repos.TxManager,
			services.WithGoalPublisher(pub),
			services.WithGoalRetryPolicy(policy),
			services.WithGoalClock(clock),
		),
		reports: services.NewReportingService(repos.Snapshots, services.WithReportingClock(clock)),
	}
}

func (f *ledgerFixture) account(t *testing.T, name, balance string) string {
	t.Helper()
	acc, err := f.accounts.CreateAccount(context.Background(), ownerID, dto.CreateAccountRequest{
		Name:        name,
		AccountType: domain.BankAccount,
		Balance:     dec(balance),
	})
	require.NoError(t, err)
	return acc.AccountID
}

func (f *ledgerFixture) newCategory(t *testing.T, name string, typ domain.CategoryType) string {
	t.Helper()
	cat, err := f.category.CreateCategory(context.Background(), ownerID, dto.CreateCategoryRequest{Name: name, Type: typ})
	require.NoError(t, err)
	return cat.CategoryID
}

func (f *ledgerFixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	acc, err := f.accounts.GetAccountByID(context.Background(), ownerID, accountID)
	require.NoError(t, err)
	return acc.Balance
}

// assertLedgerConsistent checks that every balance equals its opening balance
// plus the signed effects of the stored transactions.
func (f *ledgerFixture) assertLedgerConsistent(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	accounts, err := f.store.ListAccounts(ctx, ownerID, false)
	require.NoError(t, err)
	txns, err := f.store.FindTransactionsInWindow(ctx, ownerID, nil)
	require.NoError(t, err)

	expected := map[string]decimal.Decimal{}
	for _, a := range accounts {
		expected[a.AccountID] = a.OpeningBalance
	}
	for _, txn := range txns {
		for id, d := range txn.Effects() {
			expected[id] = expected[id].Add(d)
		}
	}
	for _, a := range accounts {
		require.Truef(t, a.Balance.Equal(expected[a.AccountID]),
			"account %s: balance %s, expected %s", a.Name, a.Balance, expected[a.AccountID])
	}
}

func expenseIn(account, category, amount string, date time.Time) domain.ExpenseInput {
	return domain.ExpenseInput{
		AccountID:   account,
		CategoryID:  category,
		EntryFields: domain.EntryFields{Amount: dec(amount), Date: date, Description: "expense"},
	}
}

func incomeIn(account, category, amount string, date time.Time) domain.IncomeInput {
	return domain.IncomeInput{
		AccountID:   account,
		CategoryID:  category,
		EntryFields: domain.EntryFields{Amount: dec(amount), Date: date, Description: "income"},
	}
}

func transferIn(from, to, amount string, date time.Time) domain.TransferInput {
	return domain.TransferInput{
		FromAccountID: from,
		ToAccountID:   to,
		EntryFields:   domain.EntryFields{Amount: dec(amount), Date: date, Description: "Transfer"},
	}
}

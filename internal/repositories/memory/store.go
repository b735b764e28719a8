// Package memory is an in-process implementation of every repository port.
// Mutations run through units of work that take per-row locks in ascending id
// order and stage their writes until Commit.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store holds all data in memory. The zero value is not usable; call NewStore.
type Store struct {
	mu    sync.RWMutex
	st    *state
	locks *lockTable
}

func NewStore() *Store {
	return &Store{st: newState(), locks: newLockTable()}
}

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     s,
		CategoryRepo:    s,
		TransactionRepo: s,
		BudgetRepo:      s,
		GoalRepo:        s,
		TxManager:       s,
		Snapshots:       s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade  = (*Store)(nil)
	_ portsrepo.CategoryRepositoryFacade = (*Store)(nil)
	_ portsrepo.TransactionReader        = (*Store)(nil)
	_ portsrepo.BudgetRepositoryFacade   = (*Store)(nil)
	_ portsrepo.GoalRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionManager       = (*Store)(nil)
	_ portsrepo.SnapshotProvider         = (*Store)(nil)
)

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// --- accounts ---

func (s *Store) FindAccountByID(ctx context.Context, ownerID, accountID string) (acc *domain.Account, err error) {
	s.read(func(st *state) { acc, err = st.account(ownerID, accountID) })
	return acc, err
}

func (s *Store) ListAccounts(ctx context.Context, ownerID string, activeOnly bool) (out []domain.Account, err error) {
	s.read(func(st *state) { out = st.listAccounts(ownerID, activeOnly) })
	return out, nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	return s.write(func(st *state) error {
		if _, ok := st.accounts[account.AccountID]; ok {
			return apperrors.ErrDuplicate
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

// DeactivateAccount takes the account row lock so it never interleaves with an open unit of work.
func (s *Store) DeactivateAccount(ctx context.Context, ownerID, accountID, userID string, now time.Time) error {
	if err := s.locks.acquire(ctx, accountKey(accountID)); err != nil {
		return err
	}
	defer s.locks.release(accountKey(accountID))
	return s.write(func(st *state) error {
		acc, err := st.account(ownerID, accountID)
		if err != nil {
			return err
		}
		acc.IsActive = false
		acc.Touch(userID, now)
		st.accounts[accountID] = *acc
		return nil
	})
}

func (s *Store) DeleteAccount(ctx context.Context, ownerID, accountID string) error {
	if err := s.locks.acquire(ctx, accountKey(accountID)); err != nil {
		return err
	}
	defer s.locks.release(accountKey(accountID))
	return s.write(func(st *state) error {
		if _, err := st.account(ownerID, accountID); err != nil {
			return err
		}
		if n := st.countByAccount(ownerID, accountID); n > 0 {
			return apperrors.Validationf("account %s is referenced by %d transactions", accountID, n)
		}
		delete(st.accounts, accountID)
		return nil
	})
}

// --- categories ---

func (s *Store) FindCategoryByID(ctx context.Context, ownerID, categoryID string) (cat *domain.Category, err error) {
	s.read(func(st *state) { cat, err = st.category(ownerID, categoryID) })
	return cat, err
}

func (s *Store) ListCategories(ctx context.Context, ownerID string, categoryType *domain.CategoryType) (out []domain.Category, err error) {
	s.read(func(st *state) { out = st.listCategories(ownerID, categoryType) })
	return out, nil
}

func (s *Store) SaveCategory(ctx context.Context, category domain.Category) error {
	return s.write(func(st *state) error {
		if _, ok := st.categories[category.CategoryID]; ok {
			return apperrors.ErrDuplicate
		}
		for _, c := range st.categories {
			if c.OwnerID == category.OwnerID && c.Type == category.Type && c.Name == category.Name {
				return apperrors.ErrDuplicate
			}
		}
		st.categories[category.CategoryID] = category
		return nil
	})
}

func (s *Store) DeleteCategory(ctx context.Context, ownerID, categoryID string) error {
	return s.write(func(st *state) error {
		if _, err := st.category(ownerID, categoryID); err != nil {
			return err
		}
		if st.categoryInUse(categoryID) {
			return apperrors.Validationf("category %s is still referenced by transactions or budgets", categoryID)
		}
		delete(st.categories, categoryID)
		return nil
	})
}

// --- transactions (read side) ---

func (s *Store) FindTransactionByID(ctx context.Context, ownerID, transactionID string) (txn *domain.Transaction, err error) {
	s.read(func(st *state) { txn, err = st.transaction(ownerID, transactionID) })
	return txn, err
}

func (s *Store) ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) (out []domain.Transaction, total int, err error) {
	s.read(func(st *state) { out, total = st.listTransactions(ownerID, filter) })
	return out, total, nil
}

func (s *Store) FindTransactionsInWindow(ctx context.Context, ownerID string, window *domain.Window) (out []domain.Transaction, err error) {
	s.read(func(st *state) { out = st.transactionsInWindow(ownerID, window) })
	return out, nil
}

func (s *Store) SumExpenses(ctx context.Context, ownerID, categoryID string, window domain.Window) (sum decimal.Decimal, err error) {
	s.read(func(st *state) { sum = st.sumExpenses(ownerID, categoryID, window) })
	return sum, nil
}

func (s *Store) CountTransactionsByAccount(ctx context.Context, ownerID, accountID string) (n int, err error) {
	s.read(func(st *state) { n = st.countByAccount(ownerID, accountID) })
	return n, nil
}

// --- budgets ---

func (s *Store) FindBudgetByID(ctx context.Context, ownerID, budgetID string) (b *domain.Budget, err error) {
	s.read(func(st *state) { b, err = st.budget(ownerID, budgetID) })
	return b, err
}

func (s *Store) ListBudgets(ctx context.Context, ownerID string, isActive *bool) (out []domain.Budget, err error) {
	s.read(func(st *state) { out = st.listBudgets(ownerID, isActive) })
	return out, nil
}

func (s *Store) SaveBudget(ctx context.Context, budget domain.Budget) error {
	return s.write(func(st *state) error {
		if _, ok := st.budgets[budget.BudgetID]; ok {
			return apperrors.ErrDuplicate
		}
		if _, err := st.category(budget.OwnerID, budget.CategoryID); err != nil {
			return apperrors.Validationf("budget category %s does not exist", budget.CategoryID)
		}
		st.budgets[budget.BudgetID] = budget
		return nil
	})
}

func (s *Store) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	return s.write(func(st *state) error {
		if _, err := st.budget(budget.OwnerID, budget.BudgetID); err != nil {
			return err
		}
		if _, err := st.category(budget.OwnerID, budget.CategoryID); err != nil {
			return apperrors.Validationf("budget category %s does not exist", budget.CategoryID)
		}
		st.budgets[budget.BudgetID] = budget
		return nil
	})
}

func (s *Store) DeleteBudget(ctx context.Context, ownerID, budgetID string) error {
	return s.write(func(st *state) error {
		if _, err := st.budget(ownerID, budgetID); err != nil {
			return err
		}
		delete(st.budgets, budgetID)
		return nil
	})
}

// --- savings goals ---

func (s *Store) FindGoalByID(ctx context.Context, ownerID, goalID string) (g *domain.SavingsGoal, err error) {
	s.read(func(st *state) { g, err = st.goal(ownerID, goalID) })
	return g, err
}

func (s *Store) ListGoals(ctx context.Context, ownerID string, completed *bool) (out []domain.SavingsGoal, err error) {
	s.read(func(st *state) { out = st.listGoals(ownerID, completed) })
	return out, nil
}

func (s *Store) SaveGoal(ctx context.Context, goal domain.SavingsGoal) error {
	return s.write(func(st *state) error {
		if _, ok := st.goals[goal.GoalID]; ok {
			return apperrors.ErrDuplicate
		}
		st.goals[goal.GoalID] = goal
		return nil
	})
}

// Snapshot copies the committed state under the read lock. Later commits are not visible through it.
func (s *Store) Snapshot(ctx context.Context) (portsrepo.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Persistence("open snapshot", err)
	}
	var snap *Store
	s.read(func(st *state) { snap = &Store{st: st.clone(), locks: newLockTable()} })
	return snapshot{snap}, nil
}

type snapshot struct {
	*Store
}

func (snapshot) Close(context.Context) error { return nil }

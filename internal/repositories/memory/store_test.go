package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "user-1"

var t0 = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func seedAccount(t *testing.T, s *Store, id, balance string) {
	t.Helper()
	require.NoError(t, s.SaveAccount(context.Background(), domain.Account{
		AccountID:      id,
		OwnerID:        owner,
		Name:           id,
		AccountType:    domain.BankAccount,
		CurrencyCode:   "MXN",
		Balance:        decimal.RequireFromString(balance),
		OpeningBalance: decimal.RequireFromString(balance),
		IsActive:       true,
		AuditFields:    domain.NewAuditFields(owner, t0),
	}))
}

func seedCategory(t *testing.T, s *Store, id string, typ domain.CategoryType) {
	t.Helper()
	require.NoError(t, s.SaveCategory(context.Background(), domain.Category{
		CategoryID: id, OwnerID: owner, Name: id, Type: typ,
		AuditFields: domain.NewAuditFields(owner, t0),
	}))
}

func expense(id, account, category, amount string) domain.Transaction {
	return domain.Transaction{
		TransactionID: id, OwnerID: owner, Type: domain.Expense,
		Amount: decimal.RequireFromString(amount), AccountID: account,
		CategoryID: &category, Date: t0, Description: "x",
		AuditFields: domain.NewAuditFields(owner, t0),
	}
}

func balanceOf(t *testing.T, s *Store, id string) decimal.Decimal {
	t.Helper()
	acc, err := s.FindAccountByID(context.Background(), owner, id)
	require.NoError(t, err)
	return acc.Balance
}

func TestUnitOfWork_CommitAppliesStagedWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "a", "100")
	seedCategory(t, s, "food", domain.CategoryExpense)

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	accs, err := uow.LockAccounts(ctx, owner, []string{"a"})
	require.NoError(t, err)
	assert.True(t, accs["a"].Balance.Equal(decimal.NewFromInt(100)))

	txn := expense("t1", "a", "food", "30")
	require.NoError(t, uow.InsertTransaction(ctx, txn))
	require.NoError(t, uow.ApplyBalanceDeltas(ctx, map[string]decimal.Decimal{"a": decimal.NewFromInt(-30)}, owner, t0))

	// Not visible before commit.
	assert.True(t, balanceOf(t, s, "a").Equal(decimal.NewFromInt(100)))
	_, err = s.FindTransactionByID(ctx, owner, "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, uow.Commit(ctx))
	require.NoError(t, uow.Rollback(ctx))

	assert.True(t, balanceOf(t, s, "a").Equal(decimal.NewFromInt(70)))
	got, err := s.FindTransactionByID(ctx, owner, "t1")
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccountID)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "a", "100")
	seedCategory(t, s, "food", domain.CategoryExpense)

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = uow.LockAccounts(ctx, owner, []string{"a"})
	require.NoError(t, err)
	require.NoError(t, uow.InsertTransaction(ctx, expense("t1", "a", "food", "30")))
	require.NoError(t, uow.ApplyBalanceDeltas(ctx, map[string]decimal.Decimal{"a": decimal.NewFromInt(-30)}, owner, t0))
	require.NoError(t, uow.Rollback(ctx))

	assert.True(t, balanceOf(t, s, "a").Equal(decimal.NewFromInt(100)))
	n, err := s.CountTransactionsByAccount(ctx, owner, "a")
	require.NoError(t, err)
	assert.Zero(t, n)

	// Locks were released: a new unit can take them immediately.
	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	uow2, err := s.Begin(short)
	require.NoError(t, err)
	_, err = uow2.LockAccounts(short, owner, []string{"a"})
	require.NoError(t, err)
	require.NoError(t, uow2.Rollback(ctx))
}

func TestUnitOfWork_LockAccountsOwnership(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "a", "0")

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	defer uow.Rollback(ctx)

	_, err = uow.LockAccounts(ctx, "someone-else", []string{"a"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = uow.LockAccounts(ctx, owner, []string{"missing"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUnitOfWork_ApplyRequiresLock(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "a", "0")

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	defer uow.Rollback(ctx)

	err = uow.ApplyBalanceDeltas(ctx, map[string]decimal.Decimal{"a": decimal.NewFromInt(1)}, owner, t0)
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestUnitOfWork_LockWaitHonoursDeadline(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "a", "0")

	holder, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = holder.LockAccounts(ctx, owner, []string{"a"})
	require.NoError(t, err)
	defer holder.Rollback(ctx)

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	waiter, err := s.Begin(short)
	require.NoError(t, err)
	defer waiter.Rollback(ctx)

	_, err = waiter.LockAccounts(short, owner, []string{"a"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUnitOfWork_ConcurrentDeltasSerialise(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "a", "0")
	seedAccount(t, s, "b", "0")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids := []string{"a", "b"}
			if i%2 == 1 {
				ids = []string{"b", "a"}
			}
			uow, err := s.Begin(ctx)
			if !assert.NoError(t, err) {
				return
			}
			defer uow.Rollback(ctx)
			if _, err := uow.LockAccounts(ctx, owner, ids); !assert.NoError(t, err) {
				return
			}
			deltas := map[string]decimal.Decimal{"a": decimal.NewFromInt(1), "b": decimal.NewFromInt(-1)}
			assert.NoError(t, uow.ApplyBalanceDeltas(ctx, deltas, owner, t0))
			assert.NoError(t, uow.Commit(ctx))
		}(i)
	}
	wg.Wait()

	assert.True(t, balanceOf(t, s, "a").Equal(decimal.NewFromInt(50)))
	assert.True(t, balanceOf(t, s, "b").Equal(decimal.NewFromInt(-50)))
}

func TestUnitOfWork_UpdateAndDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "a", "100")
	seedCategory(t, s, "food", domain.CategoryExpense)

	uow, _ := s.Begin(ctx)
	require.NoError(t, uow.InsertTransaction(ctx, expense("t1", "a", "food", "10")))
	require.NoError(t, uow.Commit(ctx))

	uow, _ = s.Begin(ctx)
	got, err := uow.LockTransaction(ctx, owner, "t1")
	require.NoError(t, err)
	got.Description = "edited"
	require.NoError(t, uow.UpdateTransaction(ctx, *got))
	require.NoError(t, uow.Commit(ctx))

	stored, err := s.FindTransactionByID(ctx, owner, "t1")
	require.NoError(t, err)
	assert.Equal(t, "edited", stored.Description)

	uow, _ = s.Begin(ctx)
	_, err = uow.LockTransaction(ctx, owner, "t1")
	require.NoError(t, err)
	require.NoError(t, uow.DeleteTransaction(ctx, owner, "t1"))
	_, err = uow.LockTransaction(ctx, owner, "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, uow.Commit(ctx))

	_, err = s.FindTransactionByID(ctx, owner, "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUnitOfWork_CommitRejectsMissingCategory(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "a", "100")

	uow, _ := s.Begin(ctx)
	require.NoError(t, uow.InsertTransaction(ctx, expense("t1", "a", "ghost", "10")))
	err := uow.Commit(ctx)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = s.FindTransactionByID(ctx, owner, "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_DeleteAccountReferenced(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "a", "100")
	seedAccount(t, s, "b", "0")
	seedCategory(t, s, "food", domain.CategoryExpense)

	uow, _ := s.Begin(ctx)
	require.NoError(t, uow.InsertTransaction(ctx, expense("t1", "a", "food", "10")))
	require.NoError(t, uow.Commit(ctx))

	assert.ErrorIs(t, s.DeleteAccount(ctx, owner, "a"), apperrors.ErrValidation)
	assert.NoError(t, s.DeleteAccount(ctx, owner, "b"))
	assert.ErrorIs(t, s.DeleteAccount(ctx, owner, "b"), apperrors.ErrNotFound)
}

func TestStore_CategoryRules(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedCategory(t, s, "food", domain.CategoryExpense)

	dup := domain.Category{CategoryID: "food-2", OwnerID: owner, Name: "food", Type: domain.CategoryExpense}
	assert.ErrorIs(t, s.SaveCategory(ctx, dup), apperrors.ErrDuplicate)

	require.NoError(t, s.SaveBudget(ctx, domain.Budget{
		BudgetID: "b1", OwnerID: owner, CategoryID: "food",
		Amount: decimal.NewFromInt(100), Period: domain.Monthly, StartDate: t0, IsActive: true,
	}))
	assert.ErrorIs(t, s.DeleteCategory(ctx, owner, "food"), apperrors.ErrValidation)
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "a", "100")

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	defer snap.Close(ctx)

	uow, _ := s.Begin(ctx)
	_, err = uow.LockAccounts(ctx, owner, []string{"a"})
	require.NoError(t, err)
	require.NoError(t, uow.ApplyBalanceDeltas(ctx, map[string]decimal.Decimal{"a": decimal.NewFromInt(50)}, owner, t0))
	require.NoError(t, uow.Commit(ctx))

	old, err := snap.FindAccountByID(ctx, owner, "a")
	require.NoError(t, err)
	assert.True(t, old.Balance.Equal(decimal.NewFromInt(100)))
	assert.True(t, balanceOf(t, s, "a").Equal(decimal.NewFromInt(150)))
}

func TestStore_ListTransactionsPaging(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedAccount(t, s, "a", "1000")
	seedCategory(t, s, "food", domain.CategoryExpense)

	uow, _ := s.Begin(ctx)
	for i, id := range []string{"t1", "t2", "t3"} {
		txn := expense(id, "a", "food", "10")
		txn.Date = t0.AddDate(0, 0, i)
		require.NoError(t, uow.InsertTransaction(ctx, txn))
	}
	require.NoError(t, uow.Commit(ctx))

	page, total, err := s.ListTransactions(ctx, owner, domain.TransactionFilter{
		Page: 1, Limit: 2, SortBy: domain.SortByDate, SortOrder: domain.SortDesc,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "t3", page[0].TransactionID)
	assert.Equal(t, "t2", page[1].TransactionID)
}

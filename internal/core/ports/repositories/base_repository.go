package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerTx holds the ledger operations available inside a unit of work.
type LedgerTx interface {
	// LockAccounts locks the owner's accounts in ascending id order and returns them.
	// It fails with ErrNotFound if any id is missing or owned by someone else.
	LockAccounts(ctx context.Context, ownerID string, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceDeltas adds each signed delta to the matching account balance.
	// The accounts must already be locked by this unit of work.
	ApplyBalanceDeltas(ctx context.Context, deltas map[string]decimal.Decimal, userID string, now time.Time) error

	// FindCategory reads a category owned by ownerID.
	FindCategory(ctx context.Context, ownerID, categoryID string) (*domain.Category, error)

	// LockTransaction locks and returns a transaction owned by ownerID.
	LockTransaction(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error)

	InsertTransaction(ctx context.Context, txn domain.Transaction) error
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
	DeleteTransaction(ctx context.Context, ownerID, transactionID string) error
}

// GoalTx holds the savings goal operations available inside a unit of work.
type GoalTx interface {
	// LockGoal locks and returns a savings goal owned by ownerID.
	LockGoal(ctx context.Context, ownerID, goalID string) (*domain.SavingsGoal, error)

	// UpdateGoalProgress persists CurrentAmount and IsCompleted of a locked goal.
	UpdateGoalProgress(ctx context.Context, goal domain.SavingsGoal) error

	// UpdateGoal persists every editable field of a locked goal.
	UpdateGoal(ctx context.Context, goal domain.SavingsGoal) error
	DeleteGoal(ctx context.Context, ownerID, goalID string) error
}

// UnitOfWork is one atomic unit: every change made through it commits together or not at all.
// Rollback after Commit is a no-op, so callers defer it right after Begin.
type UnitOfWork interface {
	LedgerTx
	GoalTx
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager starts units of work.
type TransactionManager interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// LedgerReader is the read-only query surface used by the aggregators.
type LedgerReader interface {
	AccountReader
	CategoryReader
	TransactionReader
	BudgetReader
}

// Snapshot is a LedgerReader whose reads all observe the same committed state.
type Snapshot interface {
	LedgerReader
	Close(ctx context.Context) error
}

// SnapshotProvider opens consistent read snapshots.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

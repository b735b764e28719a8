package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every Postgres repository onto one pool.
func NewRepositoryProvider(pool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(pool),
		CategoryRepo:    newPgxCategoryRepository(pool),
		TransactionRepo: newPgxTransactionRepository(pool),
		BudgetRepo:      newPgxBudgetRepository(pool),
		GoalRepo:        newPgxGoalRepository(pool),
		TxManager:       newPgxTxManager(pool, lockTimeout),
		Snapshots:       newPgxSnapshotProvider(pool),
	}
}

package pgsql

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finance_ledger/internal/models"
	"github.com/SscSPs/finance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxTxManager opens read-committed transactions with a bounded lock wait.
type PgxTxManager struct {
	BaseRepository
	lockTimeout time.Duration
}

func newPgxTxManager(pool *pgxpool.Pool, lockTimeout time.Duration) *PgxTxManager {
	return &PgxTxManager{BaseRepository: BaseRepository{Pool: pool}, lockTimeout: lockTimeout}
}

var _ portsrepo.TransactionManager = (*PgxTxManager)(nil)

func (m *PgxTxManager) Begin(ctx context.Context) (portsrepo.UnitOfWork, error) {
	tx, err := m.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	if err := setLockTimeout(ctx, tx, m.lockTimeout); err != nil {
		_ = m.Rollback(ctx, tx)
		return nil, err
	}
	return &pgxUnitOfWork{base: &m.BaseRepository, tx: tx, queries: queries{db: tx}}, nil
}

type pgxUnitOfWork struct {
	base *BaseRepository
	tx   pgx.Tx
	queries
	done bool
}

var _ portsrepo.UnitOfWork = (*pgxUnitOfWork)(nil)

// LockAccounts takes row locks in ascending id order so concurrent units never deadlock.
func (u *pgxUnitOfWork) LockAccounts(ctx context.Context, ownerID string, accountIDs []string) (map[string]domain.Account, error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	rows, err := u.tx.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE owner_id = $1 AND account_id = ANY($2)
		ORDER BY account_id
		FOR UPDATE`, ownerID, ids)
	if err != nil {
		return nil, mapError("lock accounts", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError("lock accounts", err)
	}

	locked := make(map[string]domain.Account, len(ms))
	for _, m := range ms {
		locked[m.AccountID] = mapping.ToDomainAccount(m)
	}
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, apperrors.NotFoundf("account %s", id)
		}
	}
	return locked, nil
}

// ApplyBalanceDeltas issues relative updates; the row locks from LockAccounts keep them ordered.
func (u *pgxUnitOfWork) ApplyBalanceDeltas(ctx context.Context, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	ids := make([]string, 0, len(deltas))
	for id, d := range deltas {
		if !d.IsZero() {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	slices.Sort(ids)

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`
			UPDATE accounts
			SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
			WHERE account_id = $1`, id, deltas[id], now, userID)
	}
	results := u.tx.SendBatch(ctx, batch)
	defer results.Close()

	for _, id := range ids {
		tag, err := results.Exec()
		if err != nil {
			return mapError("apply balance delta "+id, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFoundf("account %s", id)
		}
	}
	return nil
}

func (u *pgxUnitOfWork) FindCategory(ctx context.Context, ownerID, categoryID string) (*domain.Category, error) {
	return u.FindCategoryByID(ctx, ownerID, categoryID)
}

func (u *pgxUnitOfWork) LockTransaction(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error) {
	return u.findTransaction(ctx, ownerID, transactionID, " FOR UPDATE")
}

func (u *pgxUnitOfWork) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	_, err := u.tx.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.TransactionID, m.OwnerID, m.Type, m.Amount, m.AccountID, m.ToAccountID,
		m.CategoryID, m.Date, m.Description, m.Notes, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError("insert transaction "+m.TransactionID, err)
	}
	return nil
}

func (u *pgxUnitOfWork) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	tag, err := u.tx.Exec(ctx, `
		UPDATE transactions
		SET transaction_type = $3, amount = $4, account_id = $5, to_account_id = $6, category_id = $7,
		    transaction_date = $8, description = $9, notes = $10, last_updated_at = $11, last_updated_by = $12
		WHERE owner_id = $1 AND transaction_id = $2`,
		m.OwnerID, m.TransactionID, m.Type, m.Amount, m.AccountID, m.ToAccountID, m.CategoryID,
		m.Date, m.Description, m.Notes, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError("update transaction "+m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("transaction %s", m.TransactionID)
	}
	return nil
}

func (u *pgxUnitOfWork) DeleteTransaction(ctx context.Context, ownerID, transactionID string) error {
	tag, err := u.tx.Exec(ctx, `DELETE FROM transactions WHERE owner_id = $1 AND transaction_id = $2`, ownerID, transactionID)
	if err != nil {
		return mapError("delete transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("transaction %s", transactionID)
	}
	return nil
}

func (u *pgxUnitOfWork) LockGoal(ctx context.Context, ownerID, goalID string) (*domain.SavingsGoal, error) {
	return u.findGoal(ctx, ownerID, goalID, " FOR UPDATE")
}

func (u *pgxUnitOfWork) UpdateGoalProgress(ctx context.Context, goal domain.SavingsGoal) error {
	tag, err := u.tx.Exec(ctx, `
		UPDATE savings_goals
		SET current_amount = $3, is_completed = $4, last_updated_at = $5, last_updated_by = $6
		WHERE owner_id = $1 AND goal_id = $2`,
		goal.OwnerID, goal.GoalID, goal.CurrentAmount, goal.IsCompleted, goal.LastUpdatedAt, goal.LastUpdatedBy,
	)
	if err != nil {
		return mapError("update goal "+goal.GoalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("goal %s", goal.GoalID)
	}
	return nil
}

func (u *pgxUnitOfWork) UpdateGoal(ctx context.Context, goal domain.SavingsGoal) error {
	m := mapping.ToModelSavingsGoal(goal)
	tag, err := u.tx.Exec(ctx, `
		UPDATE savings_goals
		SET name = $3, description = $4, target_amount = $5, current_amount = $6, is_completed = $7, deadline = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE owner_id = $1 AND goal_id = $2`,
		m.OwnerID, m.GoalID, m.Name, m.Description, m.TargetAmount, m.CurrentAmount, m.IsCompleted, m.Deadline,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError("update goal "+goal.GoalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("goal %s", goal.GoalID)
	}
	return nil
}

func (u *pgxUnitOfWork) DeleteGoal(ctx context.Context, ownerID, goalID string) error {
	tag, err := u.tx.Exec(ctx, `DELETE FROM savings_goals WHERE owner_id = $1 AND goal_id = $2`, ownerID, goalID)
	if err != nil {
		return mapError("delete goal "+goalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("goal %s", goalID)
	}
	return nil
}

func (u *pgxUnitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return apperrors.Persistence("commit", fmt.Errorf("unit of work already finished"))
	}
	u.done = true
	return u.base.Commit(ctx, u.tx)
}

// Rollback is a no-op once the unit has committed.
func (u *pgxUnitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	return u.base.Rollback(ctx, u.tx)
}

package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// unitOfWork stages every write until Commit. Reads see staged rows first,
// then the committed state.
type unitOfWork struct {
	store *Store
	held  map[string]struct{}
	order []string
	done  bool

	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	deletedTxns  map[string]struct{}
	goals        map[string]domain.SavingsGoal
	deletedGoals map[string]struct{}
}

var _ portsrepo.UnitOfWork = (*unitOfWork)(nil)

// Begin starts a unit of work against the store.
func (s *Store) Begin(ctx context.Context) (portsrepo.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Persistence("begin unit of work", err)
	}
	return &unitOfWork{
		store:        s,
		held:         map[string]struct{}{},
		accounts:     map[string]domain.Account{},
		transactions: map[string]domain.Transaction{},
		deletedTxns:  map[string]struct{}{},
		goals:        map[string]domain.SavingsGoal{},
		deletedGoals: map[string]struct{}{},
	}, nil
}

func (u *unitOfWork) active() error {
	if u.done {
		return apperrors.Persistence("unit of work", fmt.Errorf("already finished"))
	}
	return nil
}

func (u *unitOfWork) lock(ctx context.Context, key string) error {
	if _, ok := u.held[key]; ok {
		return nil
	}
	if err := u.store.locks.acquire(ctx, key); err != nil {
		return err
	}
	u.held[key] = struct{}{}
	u.order = append(u.order, key)
	return nil
}

func (u *unitOfWork) LockAccounts(ctx context.Context, ownerID string, accountIDs []string) (map[string]domain.Account, error) {
	if err := u.active(); err != nil {
		return nil, err
	}
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range sortedUnique(accountIDs) {
		if err := u.lock(ctx, accountKey(id)); err != nil {
			return nil, err
		}
		acc, err := u.account(ownerID, id)
		if err != nil {
			return nil, err
		}
		out[id] = *acc
	}
	return out, nil
}

func (u *unitOfWork) account(ownerID, id string) (*domain.Account, error) {
	if a, ok := u.accounts[id]; ok {
		return &a, nil
	}
	var (
		acc *domain.Account
		err error
	)
	u.store.read(func(st *state) { acc, err = st.account(ownerID, id) })
	return acc, err
}

func (u *unitOfWork) ApplyBalanceDeltas(ctx context.Context, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	if err := u.active(); err != nil {
		return err
	}
	for id, delta := range deltas {
		if _, ok := u.held[accountKey(id)]; !ok {
			return apperrors.Persistence("apply balance delta", fmt.Errorf("account %s is not locked", id))
		}
		acc, ok := u.accounts[id]
		if !ok {
			var committed domain.Account
			u.store.read(func(st *state) { committed, ok = st.accounts[id] })
			if !ok {
				return apperrors.NotFoundf("account %s", id)
			}
			acc = committed
		}
		acc.Balance = acc.Balance.Add(delta)
		acc.Touch(userID, now)
		u.accounts[id] = acc
	}
	return nil
}

func (u *unitOfWork) FindCategory(ctx context.Context, ownerID, categoryID string) (cat *domain.Category, err error) {
	if err := u.active(); err != nil {
		return nil, err
	}
	u.store.read(func(st *state) { cat, err = st.category(ownerID, categoryID) })
	return cat, err
}

func (u *unitOfWork) LockTransaction(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error) {
	if err := u.active(); err != nil {
		return nil, err
	}
	if err := u.lock(ctx, txnKey(transactionID)); err != nil {
		return nil, err
	}
	if _, gone := u.deletedTxns[transactionID]; gone {
		return nil, apperrors.NotFoundf("transaction %s", transactionID)
	}
	if t, ok := u.transactions[transactionID]; ok {
		return &t, nil
	}
	var (
		txn *domain.Transaction
		err error
	)
	u.store.read(func(st *state) { txn, err = st.transaction(ownerID, transactionID) })
	return txn, err
}

func (u *unitOfWork) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	if err := u.active(); err != nil {
		return err
	}
	var exists bool
	u.store.read(func(st *state) { _, exists = st.transactions[txn.TransactionID] })
	if _, staged := u.transactions[txn.TransactionID]; exists || staged {
		return apperrors.ErrDuplicate
	}
	u.transactions[txn.TransactionID] = txn
	return nil
}

func (u *unitOfWork) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	if err := u.active(); err != nil {
		return err
	}
	if _, ok := u.held[txnKey(txn.TransactionID)]; !ok {
		return apperrors.Persistence("update transaction", fmt.Errorf("transaction %s is not locked", txn.TransactionID))
	}
	u.transactions[txn.TransactionID] = txn
	return nil
}

func (u *unitOfWork) DeleteTransaction(ctx context.Context, ownerID, transactionID string) error {
	if err := u.active(); err != nil {
		return err
	}
	if _, ok := u.held[txnKey(transactionID)]; !ok {
		return apperrors.Persistence("delete transaction", fmt.Errorf("transaction %s is not locked", transactionID))
	}
	delete(u.transactions, transactionID)
	u.deletedTxns[transactionID] = struct{}{}
	return nil
}

func (u *unitOfWork) LockGoal(ctx context.Context, ownerID, goalID string) (*domain.SavingsGoal, error) {
	if err := u.active(); err != nil {
		return nil, err
	}
	if err := u.lock(ctx, goalKey(goalID)); err != nil {
		return nil, err
	}
	if _, gone := u.deletedGoals[goalID]; gone {
		return nil, apperrors.NotFoundf("goal %s", goalID)
	}
	if g, ok := u.goals[goalID]; ok {
		return &g, nil
	}
	var (
		goal *domain.SavingsGoal
		err  error
	)
	u.store.read(func(st *state) { goal, err = st.goal(ownerID, goalID) })
	return goal, err
}

func (u *unitOfWork) UpdateGoalProgress(ctx context.Context, goal domain.SavingsGoal) error {
	if err := u.active(); err != nil {
		return err
	}
	if _, ok := u.held[goalKey(goal.GoalID)]; !ok {
		return apperrors.Persistence("update goal progress", fmt.Errorf("goal %s is not locked", goal.GoalID))
	}
	u.goals[goal.GoalID] = goal
	return nil
}

func (u *unitOfWork) UpdateGoal(ctx context.Context, goal domain.SavingsGoal) error {
	if err := u.active(); err != nil {
		return err
	}
	if _, ok := u.held[goalKey(goal.GoalID)]; !ok {
		return apperrors.Persistence("update goal", fmt.Errorf("goal %s is not locked", goal.GoalID))
	}
	u.goals[goal.GoalID] = goal
	return nil
}

func (u *unitOfWork) DeleteGoal(ctx context.Context, ownerID, goalID string) error {
	if err := u.active(); err != nil {
		return err
	}
	if _, ok := u.held[goalKey(goalID)]; !ok {
		return apperrors.Persistence("delete goal", fmt.Errorf("goal %s is not locked", goalID))
	}
	delete(u.goals, goalID)
	u.deletedGoals[goalID] = struct{}{}
	return nil
}

// Commit publishes the staged rows atomically. Staged transactions must still
// reference existing accounts and categories, mirroring foreign keys.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if err := u.active(); err != nil {
		return err
	}
	defer u.finish()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: commit: %w", apperrors.ErrConflict, err)
	}
	return u.store.write(func(st *state) error {
		for _, t := range u.transactions {
			for _, id := range t.AccountIDs() {
				if _, ok := u.accounts[id]; ok {
					continue
				}
				if _, ok := st.accounts[id]; !ok {
					return apperrors.Validationf("transaction %s references missing account %s", t.TransactionID, id)
				}
			}
			if cid := t.CategoryIDValue(); cid != "" {
				if _, ok := st.categories[cid]; !ok {
					return apperrors.Validationf("transaction %s references missing category %s", t.TransactionID, cid)
				}
			}
		}
		for id, a := range u.accounts {
			st.accounts[id] = a
		}
		for id := range u.deletedTxns {
			delete(st.transactions, id)
		}
		for id, t := range u.transactions {
			st.transactions[id] = t
		}
		for id := range u.deletedGoals {
			delete(st.goals, id)
		}
		for id, g := range u.goals {
			st.goals[id] = g
		}
		return nil
	})
}

// Rollback discards staged writes. It is a no-op once the unit has finished.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.finish()
	return nil
}

func (u *unitOfWork) finish() {
	u.done = true
	for i := len(u.order) - 1; i >= 0; i-- {
		u.store.locks.release(u.order[i])
	}
	u.order = nil
	u.held = map[string]struct{}{}
}

package pgsql

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finance_ledger/internal/models"
	"github.com/SscSPs/finance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const budgetColumns = `budget_id, owner_id, category_id, amount, period, start_date, end_date, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxBudgetRepository struct {
	BaseRepository
	queries
}

func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}, queries: queries{db: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func (q queries) FindBudgetByID(ctx context.Context, ownerID, budgetID string) (*domain.Budget, error) {
	rows, err := q.db.Query(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE owner_id = $1 AND budget_id = $2`, ownerID, budgetID)
	if err != nil {
		return nil, mapError("find budget", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Budget])
	if err != nil {
		return nil, mapError("find budget "+budgetID, err)
	}
	b := mapping.ToDomainBudget(m)
	return &b, nil
}

func (q queries) ListBudgets(ctx context.Context, ownerID string, isActive *bool) ([]domain.Budget, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE owner_id = $1 AND ($2::boolean IS NULL OR is_active = $2)
		ORDER BY created_at DESC, budget_id`, ownerID, isActive)
	if err != nil {
		return nil, mapError("list budgets", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Budget])
	if err != nil {
		return nil, mapError("scan budgets", err)
	}
	out := make([]domain.Budget, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainBudget(m)
	}
	return out, nil
}

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO budgets (`+budgetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.BudgetID, m.OwnerID, m.CategoryID, m.Amount, m.Period, m.StartDate, m.EndDate, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError("save budget "+m.BudgetID, err)
	}
	return nil
}

func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE budgets
		SET category_id = $3, amount = $4, period = $5, start_date = $6, end_date = $7, is_active = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE owner_id = $1 AND budget_id = $2`,
		m.OwnerID, m.BudgetID, m.CategoryID, m.Amount, m.Period, m.StartDate, m.EndDate, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError("update budget "+m.BudgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("budget %s", m.BudgetID)
	}
	return nil
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, ownerID, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE owner_id = $1 AND budget_id = $2`, ownerID, budgetID)
	if err != nil {
		return mapError("delete budget "+budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("budget %s", budgetID)
	}
	return nil
}

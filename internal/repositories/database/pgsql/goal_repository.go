package pgsql

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finance_ledger/internal/models"
	"github.com/SscSPs/finance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const goalColumns = `goal_id, owner_id, name, description, target_amount, current_amount, is_completed, deadline,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxGoalRepository struct {
	BaseRepository
	queries
}

func newPgxGoalRepository(pool *pgxpool.Pool) portsrepo.GoalRepositoryFacade {
	return &PgxGoalRepository{BaseRepository: BaseRepository{Pool: pool}, queries: queries{db: pool}}
}

var _ portsrepo.GoalRepositoryFacade = (*PgxGoalRepository)(nil)

func (q queries) FindGoalByID(ctx context.Context, ownerID, goalID string) (*domain.SavingsGoal, error) {
	return q.findGoal(ctx, ownerID, goalID, "")
}

func (q queries) findGoal(ctx context.Context, ownerID, goalID, suffix string) (*domain.SavingsGoal, error) {
	rows, err := q.db.Query(ctx, `SELECT `+goalColumns+` FROM savings_goals WHERE owner_id = $1 AND goal_id = $2`+suffix, ownerID, goalID)
	if err != nil {
		return nil, mapError("find goal", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.SavingsGoal])
	if err != nil {
		return nil, mapError("find goal "+goalID, err)
	}
	g := mapping.ToDomainSavingsGoal(m)
	return &g, nil
}

// ListGoals orders open goals first, then by deadline with undated goals last.
func (q queries) ListGoals(ctx context.Context, ownerID string, completed *bool) ([]domain.SavingsGoal, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+goalColumns+`
		FROM savings_goals
		WHERE owner_id = $1 AND ($2::boolean IS NULL OR is_completed = $2)
		ORDER BY is_completed, deadline NULLS LAST, created_at, goal_id`, ownerID, completed)
	if err != nil {
		return nil, mapError("list goals", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.SavingsGoal])
	if err != nil {
		return nil, mapError("scan goals", err)
	}
	out := make([]domain.SavingsGoal, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainSavingsGoal(m)
	}
	return out, nil
}

func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.SavingsGoal) error {
	m := mapping.ToModelSavingsGoal(goal)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO savings_goals (`+goalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.GoalID, m.OwnerID, m.Name, m.Description, m.TargetAmount, m.CurrentAmount, m.IsCompleted, m.Deadline,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError("save goal "+m.GoalID, err)
	}
	return nil
}

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

const categoryColumns = `category_id, owner_id, name, category_type, color, icon, is_default,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCategoryRepository struct {
	BaseRepository
	queries
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}, queries: queries{db: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func (q queries) FindCategoryByID(ctx context.Context, ownerID, categoryID string) (*domain.Category, error) {
	rows, err := q.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE owner_id = $1 AND category_id = $2`, ownerID, categoryID)
	if err != nil {
		return nil, mapError("find category", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		return nil, mapError("find category "+categoryID, err)
	}
	cat := mapping.ToDomainCategory(m)
	return &cat, nil
}

func (q queries) ListCategories(ctx context.Context, ownerID string, categoryType *domain.CategoryType) ([]domain.Category, error) {
	var typ *string
	if categoryType != nil {
		s := string(*categoryType)
		typ = &s
	}
	rows, err := q.db.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE owner_id = $1 AND ($2::text IS NULL OR category_type = $2)
		ORDER BY category_type, name, category_id`, ownerID, typ)
	if err != nil {
		return nil, mapError("list categories", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		return nil, mapError("scan categories", err)
	}
	out := make([]domain.Category, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainCategory(m)
	}
	return out, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.CategoryID, m.OwnerID, m.Name, m.Type, m.Color, m.Icon, m.IsDefault,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError("save category "+m.Name, err)
	}
	return nil
}

// DeleteCategory depends on RESTRICT foreign keys from transactions and budgets.
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, ownerID, categoryID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM categories WHERE owner_id = $1 AND category_id = $2`, ownerID, categoryID)
	if err != nil {
		return mapError("delete category "+categoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("category %s", categoryID)
	}
	return nil
}

package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finance_ledger/internal/models"
	"github.com/SscSPs/finance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, owner_id, name, account_type, currency_code, balance, opening_balance,
	color, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
	queries
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}, queries: queries{db: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func (q queries) FindAccountByID(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	rows, err := q.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE owner_id = $1 AND account_id = $2`, ownerID, accountID)
	if err != nil {
		return nil, mapError("find account", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError("find account "+accountID, err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func (q queries) ListAccounts(ctx context.Context, ownerID string, activeOnly bool) ([]domain.Account, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE owner_id = $1 AND (is_active OR NOT $2)
		ORDER BY name, account_id`, ownerID, activeOnly)
	if err != nil {
		return nil, mapError("list accounts", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError("scan accounts", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// SaveAccount inserts a new account with balance equal to its opening balance.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.AccountID, m.OwnerID, m.Name, m.AccountType, m.CurrencyCode, m.Balance, m.OpeningBalance,
		m.Color, m.Description, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError("save account "+m.AccountID, err)
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, ownerID, accountID, userID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE owner_id = $1 AND account_id = $2`, ownerID, accountID, now, userID)
	if err != nil {
		return mapError("deactivate account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("account %s", accountID)
	}
	return nil
}

// DeleteAccount relies on the transactions foreign keys to refuse referenced accounts.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, ownerID, accountID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE owner_id = $1 AND account_id = $2`, ownerID, accountID)
	if err != nil {
		return mapError(fmt.Sprintf("delete account %s", accountID), err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("account %s", accountID)
	}
	return nil
}

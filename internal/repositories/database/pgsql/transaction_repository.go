package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finance_ledger/internal/models"
	"github.com/SscSPs/finance_ledger/internal/utils/mapping"
	"github.com/SscSPs/finance_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, owner_id, transaction_type, amount, account_id, to_account_id,
	category_id, transaction_date, description, notes, created_at, created_by, last_updated_at, last_updated_by`

// Sort keys are whitelisted here; they are interpolated into the statement.
var transactionSortColumns = map[domain.TransactionSortField]string{
	domain.SortByDate:        "transaction_date",
	domain.SortByAmount:      "amount",
	domain.SortByDescription: "lower(description)",
}

// queries holds the read statements shared by repositories, units of work and snapshots.
type queries struct {
	db querier
}

type PgxTransactionRepository struct {
	BaseRepository
	queries
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionReader {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}, queries: queries{db: pool}}
}

var _ portsrepo.TransactionReader = (*PgxTransactionRepository)(nil)

// transactionQuery accumulates WHERE conditions and their positional arguments.
type transactionQuery struct {
	conds []string
	args  []any
}

func newTransactionQuery(ownerID string) *transactionQuery {
	q := &transactionQuery{}
	q.add("owner_id = %s", ownerID)
	return q
}

// add appends a condition. Every %s verb in format (or %[1]s) is replaced by the new argument's placeholder.
func (q *transactionQuery) add(format string, arg any) {
	q.args = append(q.args, arg)
	q.conds = append(q.conds, fmt.Sprintf(format, "$"+strconv.Itoa(len(q.args))))
}

func (q *transactionQuery) where() string {
	return strings.Join(q.conds, " AND ")
}

func filterQuery(ownerID string, f domain.TransactionFilter) *transactionQuery {
	q := newTransactionQuery(ownerID)
	if f.Type != nil {
		q.add("transaction_type = %s", string(*f.Type))
	}
	if f.AccountID != "" {
		q.add("(account_id = %[1]s OR to_account_id = %[1]s)", f.AccountID)
	}
	if f.CategoryID != "" {
		q.add("category_id = %s", f.CategoryID)
	}
	if f.StartDate != nil {
		q.add("transaction_date >= %s", *f.StartDate)
	}
	if f.EndDate != nil {
		q.add("transaction_date <= %s", *f.EndDate)
	}
	if f.MinAmount != nil {
		q.add("amount >= %s", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q.add("amount <= %s", *f.MaxAmount)
	}
	if f.Search != "" {
		q.add("(description ILIKE %[1]s OR notes ILIKE %[1]s)", "%"+escapeLike(f.Search)+"%")
	}
	return q
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func orderBy(by domain.TransactionSortField, order domain.SortOrder) string {
	col, ok := transactionSortColumns[by]
	if !ok {
		col = transactionSortColumns[domain.SortByDate]
	}
	dir := "DESC"
	if order == domain.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf("%[1]s %[2]s, created_at %[2]s, transaction_id %[2]s", col, dir)
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, mapError("scan transactions", err)
	}
	out := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainTransaction(m)
	}
	return out, nil
}

func (q queries) FindTransactionByID(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error) {
	return q.findTransaction(ctx, ownerID, transactionID, "")
}

func (q queries) findTransaction(ctx context.Context, ownerID, transactionID, suffix string) (*domain.Transaction, error) {
	rows, err := q.db.Query(ctx, `SELECT `+transactionColumns+`
		FROM transactions WHERE owner_id = $1 AND transaction_id = $2`+suffix, ownerID, transactionID)
	if err != nil {
		return nil, mapError("find transaction", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, mapError("find transaction "+transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (q queries) ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) ([]domain.Transaction, int, error) {
	tq := filterQuery(ownerID, filter)

	var total int
	if err := q.db.QueryRow(ctx, `SELECT count(*) FROM transactions WHERE `+tq.where(), tq.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count transactions", err)
	}

	page, limit := pagination.Normalize(filter.Page, filter.Limit)
	args := append(tq.args, limit, pagination.Offset(page, limit))
	sql := fmt.Sprintf(`SELECT %s FROM transactions WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		transactionColumns, tq.where(), orderBy(filter.SortBy, filter.SortOrder), len(args)-1, len(args))

	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, mapError("list transactions", err)
	}
	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (q queries) FindTransactionsInWindow(ctx context.Context, ownerID string, window *domain.Window) ([]domain.Transaction, error) {
	tq := newTransactionQuery(ownerID)
	if window != nil {
		tq.add("transaction_date >= %s", window.Start)
		tq.add("transaction_date <= %s", window.End)
	}
	rows, err := q.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE `+tq.where()+
		` ORDER BY transaction_date, transaction_id`, tq.args...)
	if err != nil {
		return nil, mapError("find transactions in window", err)
	}
	return collectTransactions(rows)
}

func (q queries) SumExpenses(ctx context.Context, ownerID, categoryID string, window domain.Window) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := q.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE owner_id = $1 AND transaction_type = $2 AND category_id = $3
		  AND transaction_date BETWEEN $4 AND $5`,
		ownerID, string(domain.Expense), categoryID, window.Start, window.End,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, mapError("sum expenses", err)
	}
	return sum, nil
}

func (q queries) CountTransactionsByAccount(ctx context.Context, ownerID, accountID string) (int, error) {
	var n int
	err := q.db.QueryRow(ctx, `
		SELECT count(*) FROM transactions
		WHERE owner_id = $1 AND (account_id = $2 OR to_account_id = $2)`, ownerID, accountID).Scan(&n)
	if err != nil {
		return 0, mapError("count account transactions", err)
	}
	return n, nil
}

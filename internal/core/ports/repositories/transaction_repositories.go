package repositories

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader is the read-only ledger query surface. Writes go through UnitOfWork only.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction owned by ownerID.
	FindTransactionByID(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns one page of matching transactions and the total match count.
	ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) ([]domain.Transaction, int, error)

	// FindTransactionsInWindow returns every transaction dated inside window, or all of them when window is nil.
	FindTransactionsInWindow(ctx context.Context, ownerID string, window *domain.Window) ([]domain.Transaction, error)

	// SumExpenses totals EXPENSE amounts for a category within window.
	SumExpenses(ctx context.Context, ownerID, categoryID string, window domain.Window) (decimal.Decimal, error)

	// CountTransactionsByAccount counts transactions referencing accountID on either leg.
	CountTransactionsByAccount(ctx context.Context, ownerID, accountID string) (int, error)
}

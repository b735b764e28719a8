package services

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

// LedgerWriterSvc defines the balance-mutating ledger operations.
// Each one commits the transaction row and every balance change atomically.
type LedgerWriterSvc interface {
	CreateTransaction(ctx context.Context, ownerID string, in domain.TransactionInput) (*domain.Transaction, error)

	// UpdateTransaction reverts the old effects and applies the merged entry's effects.
	UpdateTransaction(ctx context.Context, ownerID, transactionID string, patch domain.TransactionPatch) (*domain.Transaction, error)

	// DeleteTransaction reverts every leg of the transaction, even on inactive accounts.
	DeleteTransaction(ctx context.Context, ownerID, transactionID string) error

	// Transfer moves money between two active accounts and rejects overdrafts.
	Transfer(ctx context.Context, ownerID string, in domain.TransferInput) (*domain.Transaction, error)
}

// LedgerReaderSvc defines read operations on ledger entries.
type LedgerReaderSvc interface {
	GetTransaction(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) (*domain.TransactionPage, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces.
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}

package services

import (
	"context"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for accounts.
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, ownerID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, ownerID string, activeOnly bool) ([]domain.Account, error)

	// GetAccountsSummary aggregates the owner's active accounts.
	GetAccountsSummary(ctx context.Context, ownerID string) (*domain.AccountsSummary, error)
}

// AccountWriterSvc defines write operations for accounts.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, ownerID, accountID string) error

	// DeleteAccount refuses to delete accounts that still have transactions.
	DeleteAccount(ctx context.Context, ownerID, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

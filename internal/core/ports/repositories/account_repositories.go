package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an account owned by ownerID.
	FindAccountByID(ctx context.Context, ownerID, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the owner's accounts ordered by name.
	ListAccounts(ctx context.Context, ownerID string, activeOnly bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account with its opening balance.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, ownerID, accountID, userID string, now time.Time) error

	// DeleteAccount removes an account. It fails with ErrValidation while transactions reference it.
	DeleteAccount(ctx context.Context, ownerID, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

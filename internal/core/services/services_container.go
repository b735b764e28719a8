package services

import (
	"github.com/SscSPs/finance_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	policy := RetryPolicy{
		MaxRetries: cfg.ConflictMaxRetries,
		Backoff:    cfg.ConflictRetryBackoff,
		Timeout:    cfg.TxTimeout,
	}
	loc := cfg.Location()

	return &portssvc.ServiceContainer{
		Ledger: NewLedgerService(repos.TxManager, repos.TransactionRepo,
			WithLedgerPublisher(publisher),
			WithLedgerRetryPolicy(policy),
		),
		Account:  NewAccountService(repos.AccountRepo, repos.TransactionRepo),
		Category: NewCategoryService(repos.CategoryRepo),
		Budget:   NewBudgetService(repos.BudgetRepo, repos.Snapshots, WithBudgetLocation(loc)),
		Goal: NewGoalService(repos.GoalRepo, repos.TxManager,
			WithGoalPublisher(publisher),
			WithGoalRetryPolicy(policy),
		),
		Reporting: NewReportingService(repos.Snapshots, WithReportingLocation(loc)),
	}
}

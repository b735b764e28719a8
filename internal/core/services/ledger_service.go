package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/utils/accounting"
	"github.com/SscSPs/finance_ledger/internal/utils/pagination"
	"github.com/google/uuid"
)

// ledgerService is the only writer of transactions and account balances.
// Every mutation locks the affected rows, applies signed deltas and commits
// in one unit of work.
type ledgerService struct {
	BaseService
	txManager portsrepo.TransactionManager
	txnReader portsrepo.TransactionReader
	publisher events.Publisher
	retry     RetryPolicy
	now       func() time.Time
	newID     func() string
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerPublisher sets where committed ledger events are sent.
func WithLedgerPublisher(p events.Publisher) LedgerServiceOption {
	return func(s *ledgerService) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithLedgerRetryPolicy(p RetryPolicy) LedgerServiceOption {
	return func(s *ledgerService) {
		s.retry = p
	}
}

func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

func WithLedgerIDGenerator(newID func() string) LedgerServiceOption {
	return func(s *ledgerService) {
		s.newID = newID
	}
}

// NewLedgerService creates the ledger mutator and transfer coordinator.
func NewLedgerService(txManager portsrepo.TransactionManager, txnReader portsrepo.TransactionReader, opts ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	s := &ledgerService{
		txManager: txManager,
		txnReader: txnReader,
		publisher: events.NopPublisher{},
		retry:     DefaultRetryPolicy,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// mutation is the outcome of one committed unit of work.
type mutation struct {
	txn    *domain.Transaction
	deltas accounting.Deltas
}

func (s *ledgerService) CreateTransaction(ctx context.Context, ownerID string, in domain.TransactionInput) (*domain.Transaction, error) {
	if in == nil {
		return nil, apperrors.Validationf("transaction input is required")
	}
	if err := in.Validate(); err != nil {
		s.LogWarn(ctx, err, "Rejected transaction input", slog.String("type", string(in.Kind())))
		return nil, err
	}

	res, err := withConflictRetry(ctx, &s.BaseService, s.retry, "create transaction", func(ctx context.Context) (mutation, error) {
		return s.insert(ctx, ownerID, in, false)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create transaction", slog.String("type", string(in.Kind())))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", res.txn.TransactionID),
		slog.String("type", string(res.txn.Type)),
		slog.String("amount", res.txn.Amount.String()))
	s.publish(ctx, domain.EventTransactionCreated, ownerID, res.txn.TransactionID, res.deltas)
	return res.txn, nil
}

func (s *ledgerService) Transfer(ctx context.Context, ownerID string, in domain.TransferInput) (*domain.Transaction, error) {
	if err := in.Validate(); err != nil {
		s.LogWarn(ctx, err, "Rejected transfer input")
		return nil, err
	}

	res, err := withConflictRetry(ctx, &s.BaseService, s.retry, "transfer", func(ctx context.Context) (mutation, error) {
		return s.insert(ctx, ownerID, in, true)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Transfer failed",
			slog.String("from_account_id", in.FromAccountID),
			slog.String("to_account_id", in.ToAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("transaction_id", res.txn.TransactionID),
		slog.String("from_account_id", in.FromAccountID),
		slog.String("to_account_id", in.ToAccountID),
		slog.String("amount", in.Amount.String()))
	s.publish(ctx, domain.EventTransferCompleted, ownerID, res.txn.TransactionID, res.deltas)
	return res.txn, nil
}

// insert writes a new transaction and applies its effects. With enforceFunds the
// source account must cover the amount, checked against its locked balance.
func (s *ledgerService) insert(ctx context.Context, ownerID string, in domain.TransactionInput, enforceFunds bool) (mutation, error) {
	uow, err := s.txManager.Begin(ctx)
	if err != nil {
		return mutation{}, err
	}
	defer rollback(ctx, &s.BaseService, uow)

	now := s.now()
	txn := domain.NewTransaction(s.newID(), ownerID, in, domain.NewAuditFields(ownerID, now))

	accounts, err := uow.LockAccounts(ctx, ownerID, txn.AccountIDs())
	if err != nil {
		return mutation{}, err
	}
	if err := requireActive(accounts, txn.AccountIDs()); err != nil {
		return mutation{}, err
	}
	if err := checkCategory(ctx, uow, ownerID, txn); err != nil {
		return mutation{}, err
	}
	if enforceFunds {
		src := accounts[txn.AccountID]
		if src.Balance.LessThan(txn.Amount) {
			return mutation{}, fmt.Errorf("%w: account %s has %s, transfer needs %s",
				apperrors.ErrInsufficientFunds, src.AccountID, src.Balance.StringFixed(domain.MoneyScale), txn.Amount.StringFixed(domain.MoneyScale))
		}
	}
	deltas := accounting.Apply(txn)
	if err := uow.InsertTransaction(ctx, txn); err != nil {
		return mutation{}, err
	}
	if err := uow.ApplyBalanceDeltas(ctx, deltas, ownerID, now); err != nil {
		return mutation{}, err
	}
	if err := uow.Commit(ctx); err != nil {
		return mutation{}, err
	}
	return mutation{txn: &txn, deltas: deltas}, nil
}

// UpdateTransaction always reverts the stored effects and applies the new ones,
// even when only descriptive fields change.
func (s *ledgerService) UpdateTransaction(ctx context.Context, ownerID, transactionID string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	res, err := withConflictRetry(ctx, &s.BaseService, s.retry, "update transaction", func(ctx context.Context) (mutation, error) {
		return s.update(ctx, ownerID, transactionID, patch)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	s.publish(ctx, domain.EventTransactionUpdated, ownerID, transactionID, res.deltas)
	return res.txn, nil
}

func (s *ledgerService) update(ctx context.Context, ownerID, transactionID string, patch domain.TransactionPatch) (mutation, error) {
	uow, err := s.txManager.Begin(ctx)
	if err != nil {
		return mutation{}, err
	}
	defer rollback(ctx, &s.BaseService, uow)

	existing, err := uow.LockTransaction(ctx, ownerID, transactionID)
	if err != nil {
		return mutation{}, err
	}
	in, err := patch.Merge(*existing)
	if err != nil {
		return mutation{}, err
	}
	if err := in.Validate(); err != nil {
		return mutation{}, err
	}

	now := s.now()
	next := domain.NewTransaction(existing.TransactionID, ownerID, in, existing.AuditFields)
	next.Touch(ownerID, now)

	accounts, err := uow.LockAccounts(ctx, ownerID, unionIDs(existing.AccountIDs(), next.AccountIDs()))
	if err != nil {
		return mutation{}, err
	}
	// Old accounts may have been deactivated since; only the new ones must be usable.
	if err := requireActive(accounts, next.AccountIDs()); err != nil {
		return mutation{}, err
	}
	if err := checkCategory(ctx, uow, ownerID, next); err != nil {
		return mutation{}, err
	}

	revert := accounting.Revert(*existing)
	if err := uow.ApplyBalanceDeltas(ctx, revert, ownerID, now); err != nil {
		return mutation{}, err
	}
	if err := uow.UpdateTransaction(ctx, next); err != nil {
		return mutation{}, err
	}
	apply := accounting.Apply(next)
	if err := uow.ApplyBalanceDeltas(ctx, apply, ownerID, now); err != nil {
		return mutation{}, err
	}
	if err := uow.Commit(ctx); err != nil {
		return mutation{}, err
	}
	return mutation{txn: &next, deltas: accounting.Merge(revert, apply)}, nil
}

// DeleteTransaction reverts every leg before removing the row. Inactive accounts are reverted too.
func (s *ledgerService) DeleteTransaction(ctx context.Context, ownerID, transactionID string) error {
	res, err := withConflictRetry(ctx, &s.BaseService, s.retry, "delete transaction", func(ctx context.Context) (mutation, error) {
		uow, err := s.txManager.Begin(ctx)
		if err != nil {
			return mutation{}, err
		}
		defer rollback(ctx, &s.BaseService, uow)

		existing, err := uow.LockTransaction(ctx, ownerID, transactionID)
		if err != nil {
			return mutation{}, err
		}
		if _, err := uow.LockAccounts(ctx, ownerID, existing.AccountIDs()); err != nil {
			return mutation{}, err
		}
		revert := accounting.Revert(*existing)
		if err := uow.ApplyBalanceDeltas(ctx, revert, ownerID, s.now()); err != nil {
			return mutation{}, err
		}
		if err := uow.DeleteTransaction(ctx, ownerID, transactionID); err != nil {
			return mutation{}, err
		}
		if err := uow.Commit(ctx); err != nil {
			return mutation{}, err
		}
		return mutation{txn: existing, deltas: revert}, nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	s.publish(ctx, domain.EventTransactionDeleted, ownerID, transactionID, res.deltas)
	return nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnReader.FindTransactionByID(ctx, ownerID, transactionID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to get transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return txn, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) (*domain.TransactionPage, error) {
	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)
	if filter.SortBy == "" {
		filter.SortBy = domain.SortByDate
	}
	if filter.SortOrder == "" {
		filter.SortOrder = domain.SortDesc
	}
	if filter.MinAmount != nil && filter.MaxAmount != nil && filter.MinAmount.GreaterThan(*filter.MaxAmount) {
		return nil, apperrors.Validationf("minAmount cannot exceed maxAmount")
	}

	txns, total, err := s.txnReader.ListTransactions(ctx, ownerID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return &domain.TransactionPage{
		Transactions: txns,
		Pagination:   pagination.NewPageInfo(filter.Page, filter.Limit, total),
	}, nil
}

// publish is best effort: the mutation is already committed.
func (s *ledgerService) publish(ctx context.Context, typ domain.LedgerEventType, ownerID, entityID string, deltas accounting.Deltas) {
	publishEvent(ctx, &s.BaseService, s.publisher, domain.LedgerEvent{
		EventID:    s.newID(),
		Type:       typ,
		OwnerID:    ownerID,
		EntityID:   entityID,
		Deltas:     deltas,
		OccurredAt: s.now(),
	})
}

func publishEvent(ctx context.Context, base *BaseService, publisher events.Publisher, event domain.LedgerEvent) {
	if err := publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		base.LogError(ctx, err, "Failed to publish ledger event",
			slog.String("event_type", string(event.Type)),
			slog.String("entity_id", event.EntityID))
	}
}

func requireActive(accounts map[string]domain.Account, ids []string) error {
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return apperrors.NotFoundf("account %s", id)
		}
		if !acc.IsActive {
			return apperrors.Validationf("account %s is inactive", id)
		}
	}
	return nil
}

// checkCategory enforces that INCOME and EXPENSE entries reference a category of the same type.
func checkCategory(ctx context.Context, uow portsrepo.LedgerTx, ownerID string, txn domain.Transaction) error {
	want, ok := txn.Type.CategoryType()
	if !ok {
		return nil
	}
	cat, err := uow.FindCategory(ctx, ownerID, txn.CategoryIDValue())
	if err != nil {
		return err
	}
	if cat.Type != want {
		return apperrors.Validationf("category %s is %s but the transaction is %s", cat.CategoryID, cat.Type, txn.Type)
	}
	return nil
}

func unionIDs(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, ids := range [][]string{a, b} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

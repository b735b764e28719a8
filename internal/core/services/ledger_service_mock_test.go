package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func activeAccount(id, balance string) domain.Account {
	return domain.Account{AccountID: id, OwnerID: ownerID, Balance: dec(balance), IsActive: true}
}

func TestTransfer_InsufficientFundsWritesNothing(t *testing.T) {
	txManager := new(MockTxManager)
	uow := new(MockUnitOfWork)
	publisher := new(MockPublisher)
	svc := services.NewLedgerService(txManager, nil,
		services.WithLedgerPublisher(publisher),
		services.WithLedgerIDGenerator(func() string { return "txn-1" }),
	)

	txManager.On("Begin", mock.Anything).Return(uow, nil).Once()
	uow.On("LockAccounts", mock.Anything, ownerID, []string{"a", "b"}).
		Return(map[string]domain.Account{"a": activeAccount("a", "10.00"), "b": activeAccount("b", "0")}, nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	_, err := svc.Transfer(context.Background(), ownerID, transferIn("a", "b", "10.01", fixedNow))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	uow.AssertExpectations(t)
	uow.AssertNotCalled(t, "InsertTransaction", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "ApplyBalanceDeltas", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCreateTransaction_RetriesConflicts(t *testing.T) {
	txManager := new(MockTxManager)
	first, second := new(MockUnitOfWork), new(MockUnitOfWork)
	publisher := new(MockPublisher)
	svc := services.NewLedgerService(txManager, nil,
		services.WithLedgerPublisher(publisher),
		services.WithLedgerRetryPolicy(services.RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond, Timeout: time.Second}),
		services.WithLedgerClock(func() time.Time { return fixedNow }),
	)
	food := &domain.Category{CategoryID: "food", OwnerID: ownerID, Type: domain.CategoryExpense}

	txManager.On("Begin", mock.Anything).Return(first, nil).Once()
	txManager.On("Begin", mock.Anything).Return(second, nil).Once()

	first.On("LockAccounts", mock.Anything, ownerID, []string{"a"}).
		Return(nil, apperrors.ErrConflict).Once()
	first.On("Rollback", mock.Anything).Return(nil).Once()

	second.On("LockAccounts", mock.Anything, ownerID, []string{"a"}).
		Return(map[string]domain.Account{"a": activeAccount("a", "0")}, nil).Once()
	second.On("FindCategory", mock.Anything, ownerID, "food").Return(food, nil).Once()
	second.On("InsertTransaction", mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Type == domain.Expense && txn.Amount.Equal(dec("12.00"))
	})).Return(nil).Once()
	second.On("ApplyBalanceDeltas", mock.Anything, mock.Anything, ownerID, fixedNow).Return(nil).Once()
	second.On("Commit", mock.Anything).Return(nil).Once()
	second.On("Rollback", mock.Anything).Return(nil).Once()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.LedgerEvent) bool {
		return e.Type == domain.EventTransactionCreated
	})).Return(nil).Once()

	txn, err := svc.CreateTransaction(context.Background(), ownerID, expenseIn("a", "food", "12.00", fixedNow))
	require.NoError(t, err)
	assert.Equal(t, "a", txn.AccountID)

	txManager.AssertExpectations(t)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateTransaction_PersistenceErrorIsNotRetried(t *testing.T) {
	txManager := new(MockTxManager)
	svc := services.NewLedgerService(txManager, nil)

	boom := apperrors.Persistence("begin", errors.New("connection refused"))
	txManager.On("Begin", mock.Anything).Return(nil, boom).Once()

	_, err := svc.CreateTransaction(context.Background(), ownerID, expenseIn("a", "food", "1.00", fixedNow))
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	txManager.AssertNumberOfCalls(t, "Begin", 1)
}

func TestCreateTransaction_PublishFailureDoesNotFailMutation(t *testing.T) {
	txManager := new(MockTxManager)
	uow := new(MockUnitOfWork)
	publisher := new(MockPublisher)
	svc := services.NewLedgerService(txManager, nil, services.WithLedgerPublisher(publisher))
	salary := &domain.Category{CategoryID: "salary", OwnerID: ownerID, Type: domain.CategoryIncome}

	txManager.On("Begin", mock.Anything).Return(uow, nil).Once()
	uow.On("LockAccounts", mock.Anything, ownerID, []string{"a"}).
		Return(map[string]domain.Account{"a": activeAccount("a", "0")}, nil).Once()
	uow.On("FindCategory", mock.Anything, ownerID, "salary").Return(salary, nil).Once()
	uow.On("InsertTransaction", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("ApplyBalanceDeltas", mock.Anything, mock.Anything, ownerID, mock.Anything).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := svc.CreateTransaction(context.Background(), ownerID, incomeIn("a", "salary", "3.00", fixedNow))
	assert.NoError(t, err)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

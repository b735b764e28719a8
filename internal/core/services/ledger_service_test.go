package services_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	f        *ledgerFixture
	ctx      context.Context
	day      time.Time
	food     string
	salary   string
	checking string
	savings  string
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.f = newLedgerFixture()
	s.ctx = context.Background()
	s.day = fixedNow.AddDate(0, 0, -1)
	t := s.T()
	s.food = s.f.newCategory(t, "Food", domain.CategoryExpense)
	s.salary = s.f.newCategory(t, "Salary", domain.CategoryIncome)
	s.checking = s.f.account(t, "Checking", "1000.00")
	s.savings = s.f.account(t, "Savings", "500.00")
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (s *LedgerServiceTestSuite) TestCreateTransaction_AppliesSignedEffect() {
	_, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(s.checking, s.food, "150.00", s.day))
	s.Require().NoError(err)
	_, err = s.f.ledger.CreateTransaction(s.ctx, ownerID, incomeIn(s.checking, s.salary, "40.50", s.day))
	s.Require().NoError(err)

	s.True(s.f.balance(s.T(), s.checking).Equal(dec("890.50")))
	s.Equal([]domain.LedgerEventType{domain.EventTransactionCreated, domain.EventTransactionCreated}, s.f.publisher.types())
}

func (s *LedgerServiceTestSuite) TestCreateTransaction_CategoryTypeMismatch() {
	_, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(s.checking, s.salary, "10.00", s.day))
	s.ErrorIs(err, apperrors.ErrValidation)
	s.True(s.f.balance(s.T(), s.checking).Equal(dec("1000.00")))
	s.Empty(s.f.publisher.types())
}

func (s *LedgerServiceTestSuite) TestCreateTransaction_NotOwned() {
	_, err := s.f.ledger.CreateTransaction(s.ctx, "intruder", expenseIn(s.checking, s.food, "10.00", s.day))
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.f.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(s.checking, "no-such-category", "10.00", s.day))
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestCreateTransaction_InactiveAccount() {
	s.Require().NoError(s.f.accounts.DeactivateAccount(s.ctx, ownerID, s.savings))
	_, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(s.savings, s.food, "10.00", s.day))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestCreateTransaction_InvalidAmounts() {
	for _, amount := range []string{"0", "-5.00", "0.001", "10.555"} {
		_, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(s.checking, s.food, amount, s.day))
		s.ErrorIs(err, apperrors.ErrValidation, amount)
	}
	s.f.assertLedgerConsistent(s.T())
}

func (s *LedgerServiceTestSuite) TestTransfer_MovesBothLegs() {
	txn, err := s.f.ledger.Transfer(s.ctx, ownerID, transferIn(s.checking, s.savings, "300.00", s.day))
	s.Require().NoError(err)
	s.Equal(domain.Transfer, txn.Type)
	s.Nil(txn.CategoryID)

	s.True(s.f.balance(s.T(), s.checking).Equal(dec("700.00")))
	s.True(s.f.balance(s.T(), s.savings).Equal(dec("800.00")))

	events := s.f.publisher.events
	s.Require().Len(events, 1)
	s.Equal(domain.EventTransferCompleted, events[0].Type)
	s.True(events[0].Deltas[s.checking].Equal(dec("-300")))
	s.True(events[0].Deltas[s.savings].Equal(dec("300")))
}

func (s *LedgerServiceTestSuite) TestTransfer_InsufficientFundsLeavesNoTrace() {
	_, err := s.f.ledger.Transfer(s.ctx, ownerID, transferIn(s.checking, s.savings, "1000.01", s.day))
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.ErrorIs(err, apperrors.ErrValidation)

	s.True(s.f.balance(s.T(), s.checking).Equal(dec("1000.00")))
	s.True(s.f.balance(s.T(), s.savings).Equal(dec("500.00")))
	page, err := s.f.ledger.ListTransactions(s.ctx, ownerID, domain.TransactionFilter{})
	s.Require().NoError(err)
	s.Empty(page.Transactions)
}

func (s *LedgerServiceTestSuite) TestTransfer_SameAccountRejected() {
	_, err := s.f.ledger.Transfer(s.ctx, ownerID, transferIn(s.checking, s.checking, "1.00", s.day))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestUpdateTransaction_MatchesDeleteAndCreate() {
	txn, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(s.checking, s.food, "120.00", s.day))
	s.Require().NoError(err)

	income := domain.Income
	amount := dec("75.25")
	_, err = s.f.ledger.UpdateTransaction(s.ctx, ownerID, txn.TransactionID, domain.TransactionPatch{
		Type:       &income,
		Amount:     &amount,
		AccountID:  &s.savings,
		CategoryID: &s.salary,
	})
	s.Require().NoError(err)

	// The same end state reached through delete and create on a fresh ledger.
	other := newLedgerFixture()
	t := s.T()
	otherFood := other.newCategory(t, "Food", domain.CategoryExpense)
	otherSalary := other.newCategory(t, "Salary", domain.CategoryIncome)
	oChk := other.account(t, "Checking", "1000.00")
	oSav := other.account(t, "Savings", "500.00")
	created, err := other.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(oChk, otherFood, "120.00", s.day))
	s.Require().NoError(err)
	s.Require().NoError(other.ledger.DeleteTransaction(s.ctx, ownerID, created.TransactionID))
	_, err = other.ledger.CreateTransaction(s.ctx, ownerID, incomeIn(oSav, otherSalary, "75.25", s.day))
	s.Require().NoError(err)

	s.True(s.f.balance(t, s.checking).Equal(other.balance(t, oChk)))
	s.True(s.f.balance(t, s.savings).Equal(other.balance(t, oSav)))
	s.f.assertLedgerConsistent(t)

	last := s.f.publisher.events[len(s.f.publisher.events)-1]
	s.Equal(domain.EventTransactionUpdated, last.Type)
	s.True(last.Deltas[s.checking].Equal(dec("120")))
	s.True(last.Deltas[s.savings].Equal(dec("75.25")))
}

func (s *LedgerServiceTestSuite) TestUpdateTransaction_DescriptionOnlyKeepsBalance() {
	txn, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(s.checking, s.food, "20.00", s.day))
	s.Require().NoError(err)

	desc := "groceries"
	updated, err := s.f.ledger.UpdateTransaction(s.ctx, ownerID, txn.TransactionID, domain.TransactionPatch{Description: &desc})
	s.Require().NoError(err)
	s.Equal("groceries", updated.Description)
	s.Equal(txn.CreatedAt, updated.CreatedAt)
	s.True(s.f.balance(s.T(), s.checking).Equal(dec("980.00")))
}

func (s *LedgerServiceTestSuite) TestUpdateTransaction_FailureRollsBack() {
	txn, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(s.checking, s.food, "20.00", s.day))
	s.Require().NoError(err)

	_, err = s.f.ledger.UpdateTransaction(s.ctx, ownerID, txn.TransactionID, domain.TransactionPatch{CategoryID: &s.salary})
	s.ErrorIs(err, apperrors.ErrValidation)

	missing := "missing-account"
	_, err = s.f.ledger.UpdateTransaction(s.ctx, ownerID, txn.TransactionID, domain.TransactionPatch{AccountID: &missing})
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.f.ledger.UpdateTransaction(s.ctx, ownerID, "missing-transaction", domain.TransactionPatch{})
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.True(s.f.balance(s.T(), s.checking).Equal(dec("980.00")))
	s.f.assertLedgerConsistent(s.T())
}

func (s *LedgerServiceTestSuite) TestDeleteTransaction_RevertsTransfer() {
	txn, err := s.f.ledger.Transfer(s.ctx, ownerID, transferIn(s.checking, s.savings, "250.00", s.day))
	s.Require().NoError(err)
	s.Require().NoError(s.f.ledger.DeleteTransaction(s.ctx, ownerID, txn.TransactionID))

	s.True(s.f.balance(s.T(), s.checking).Equal(dec("1000.00")))
	s.True(s.f.balance(s.T(), s.savings).Equal(dec("500.00")))
	_, err = s.f.ledger.GetTransaction(s.ctx, ownerID, txn.TransactionID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestWorkedScenario() {
	t := s.T()
	a, b := s.checking, s.savings

	txn, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(a, s.food, "150.00", s.day))
	s.Require().NoError(err)
	s.True(s.f.balance(t, a).Equal(dec("850.00")))

	amount := dec("200.00")
	_, err = s.f.ledger.UpdateTransaction(s.ctx, ownerID, txn.TransactionID, domain.TransactionPatch{Amount: &amount})
	s.Require().NoError(err)
	s.True(s.f.balance(t, a).Equal(dec("800.00")))

	s.Require().NoError(s.f.ledger.DeleteTransaction(s.ctx, ownerID, txn.TransactionID))
	s.True(s.f.balance(t, a).Equal(dec("1000.00")))

	_, err = s.f.ledger.Transfer(s.ctx, ownerID, transferIn(a, b, "300.00", s.day))
	s.Require().NoError(err)
	s.True(s.f.balance(t, a).Equal(dec("700.00")))
	s.True(s.f.balance(t, b).Equal(dec("800.00")))

	_, err = s.f.ledger.Transfer(s.ctx, ownerID, transferIn(a, b, "800.01", s.day))
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.True(s.f.balance(t, a).Equal(dec("700.00")))
	s.True(s.f.balance(t, b).Equal(dec("800.00")))
}

func (s *LedgerServiceTestSuite) TestRandomSequencesPreserveBalances() {
	t := s.T()
	rng := rand.New(rand.NewSource(42))
	accounts := []string{s.checking, s.savings, s.f.account(t, "Wallet", "0")}
	var live []string

	pick := func() string { return accounts[rng.Intn(len(accounts))] }
	amount := func() string { return decimal.New(int64(rng.Intn(50000)+1), -2).StringFixed(2) }

	for i := 0; i < 300; i++ {
		switch op := rng.Intn(5); {
		case op == 0 || len(live) == 0:
			txn, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(pick(), s.food, amount(), s.day))
			s.Require().NoError(err)
			live = append(live, txn.TransactionID)
		case op == 1:
			txn, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, incomeIn(pick(), s.salary, amount(), s.day))
			s.Require().NoError(err)
			live = append(live, txn.TransactionID)
		case op == 2:
			from, to := pick(), pick()
			if from == to {
				continue
			}
			txn, err := s.f.ledger.Transfer(s.ctx, ownerID, transferIn(from, to, amount(), s.day))
			if err != nil {
				s.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
				continue
			}
			live = append(live, txn.TransactionID)
		case op == 3:
			id := live[rng.Intn(len(live))]
			amt := dec(amount())
			acc := pick()
			_, err := s.f.ledger.UpdateTransaction(s.ctx, ownerID, id, domain.TransactionPatch{Amount: &amt, AccountID: &acc})
			if err != nil {
				// Moving a transfer onto its own destination is rejected.
				s.Require().ErrorIs(err, apperrors.ErrValidation)
			}
		default:
			idx := rng.Intn(len(live))
			s.Require().NoError(s.f.ledger.DeleteTransaction(s.ctx, ownerID, live[idx]))
			live = append(live[:idx], live[idx+1:]...)
		}
		s.f.assertLedgerConsistent(t)
	}
}

func (s *LedgerServiceTestSuite) TestConcurrentPostingsDoNotLoseUpdates() {
	const workers = 40
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(s.checking, s.food, "5.00", s.day))
			assert.NoError(s.T(), err)
		}()
	}
	wg.Wait()

	s.True(s.f.balance(s.T(), s.checking).Equal(dec("800.00")))
	s.f.assertLedgerConsistent(s.T())
}

func (s *LedgerServiceTestSuite) TestCrossingTransfersDoNotDeadlock() {
	const rounds = 25
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.f.ledger.Transfer(s.ctx, ownerID, transferIn(s.checking, s.savings, "1.00", s.day))
			assert.NoError(s.T(), err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.f.ledger.Transfer(s.ctx, ownerID, transferIn(s.savings, s.checking, "2.00", s.day))
			assert.NoError(s.T(), err)
		}()
	}
	wg.Wait()

	s.True(s.f.balance(s.T(), s.checking).Equal(dec("1025.00")))
	s.True(s.f.balance(s.T(), s.savings).Equal(dec("475.00")))
	s.f.assertLedgerConsistent(s.T())
}

func (s *LedgerServiceTestSuite) TestListTransactions_FiltersAndPages() {
	for i := 0; i < 5; i++ {
		_, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, expenseIn(s.checking, s.food, "10.00", s.day.AddDate(0, 0, -i)))
		s.Require().NoError(err)
	}
	_, err := s.f.ledger.CreateTransaction(s.ctx, ownerID, incomeIn(s.savings, s.salary, "99.00", s.day))
	s.Require().NoError(err)

	expense := domain.Expense
	page, err := s.f.ledger.ListTransactions(s.ctx, ownerID, domain.TransactionFilter{Type: &expense, Page: 2, Limit: 2})
	s.Require().NoError(err)
	s.Len(page.Transactions, 2)
	s.Equal(5, page.Pagination.TotalCount)
	s.Equal(3, page.Pagination.TotalPages)
	s.True(page.Pagination.HasNextPage)
	s.True(page.Pagination.HasPreviousPage)

	lo, hi := dec("50"), dec("10")
	_, err = s.f.ledger.ListTransactions(s.ctx, ownerID, domain.TransactionFilter{MinAmount: &lo, MaxAmount: &hi})
	s.ErrorIs(err, apperrors.ErrValidation)
}

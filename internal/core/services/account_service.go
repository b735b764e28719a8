package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrencyCode is used for accounts created without a currency.
const DefaultCurrencyCode = "MXN"

type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txnReader   portsrepo.TransactionReader
	now         func() time.Time
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, txnReader portsrepo.TransactionReader, opts ...AccountServiceOption) portssvc.AccountSvcFacade {
	s := &accountService{
		accountRepo: accountRepo,
		txnReader:   txnReader,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validationf("account name is required")
	}
	if !req.AccountType.Valid() {
		return nil, apperrors.Validationf("unknown account type %q", req.AccountType)
	}
	if !req.Balance.Equal(req.Balance.Truncate(domain.MoneyScale)) {
		return nil, apperrors.Validationf("balance cannot have more than %d decimal places", domain.MoneyScale)
	}
	currency := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if currency == "" {
		currency = DefaultCurrencyCode
	}

	account := domain.Account{
		AccountID:      uuid.NewString(),
		OwnerID:        ownerID,
		Name:           name,
		AccountType:    req.AccountType,
		CurrencyCode:   currency,
		Balance:        req.Balance,
		OpeningBalance: req.Balance,
		Color:          req.Color,
		Description:    req.Description,
		IsActive:       true,
		AuditFields:    domain.NewAuditFields(ownerID, s.now()),
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogFailure(ctx, err, "Failed to save account", slog.String("name", name))
		return nil, err
	}
	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, ownerID, accountID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		return nil, err
	}
	return acc, nil
}

func (s *accountService) ListAccounts(ctx context.Context, ownerID string, activeOnly bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, ownerID, activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) GetAccountsSummary(ctx context.Context, ownerID string) (*domain.AccountsSummary, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, ownerID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for summary")
		return nil, err
	}
	summary := SummarizeAccounts(accounts)
	return &summary, nil
}

// SummarizeAccounts aggregates active accounts by type and by currency.
// Balances in different currencies are added without conversion.
func SummarizeAccounts(accounts []domain.Account) domain.AccountsSummary {
	summary := domain.AccountsSummary{
		TotalBalance: decimal.Zero,
		ByType:       []domain.AccountTypeTotal{},
		ByCurrency:   []domain.CurrencyTotal{},
	}
	byType := map[domain.AccountType]*domain.AccountTypeTotal{}
	byCurrency := map[string]*domain.CurrencyTotal{}

	for i := range accounts {
		acc := accounts[i]
		if !acc.IsActive {
			continue
		}
		summary.TotalAccounts++
		summary.TotalBalance = summary.TotalBalance.Add(acc.Balance)

		t, ok := byType[acc.AccountType]
		if !ok {
			t = &domain.AccountTypeTotal{AccountType: acc.AccountType, TotalBalance: decimal.Zero}
			byType[acc.AccountType] = t
		}
		t.Count++
		t.TotalBalance = t.TotalBalance.Add(acc.Balance)

		c, ok := byCurrency[acc.CurrencyCode]
		if !ok {
			c = &domain.CurrencyTotal{CurrencyCode: acc.CurrencyCode, Balance: decimal.Zero}
			byCurrency[acc.CurrencyCode] = c
		}
		c.Balance = c.Balance.Add(acc.Balance)

		if summary.RichestAccount == nil || acc.Balance.GreaterThan(summary.RichestAccount.Balance) {
			summary.RichestAccount = &acc
		}
		if summary.PoorestAccount == nil || acc.Balance.LessThan(summary.PoorestAccount.Balance) {
			summary.PoorestAccount = &acc
		}
	}

	for _, t := range byType {
		summary.ByType = append(summary.ByType, *t)
	}
	sort.Slice(summary.ByType, func(i, j int) bool { return summary.ByType[i].AccountType < summary.ByType[j].AccountType })
	for _, c := range byCurrency {
		summary.ByCurrency = append(summary.ByCurrency, *c)
	}
	sort.Slice(summary.ByCurrency, func(i, j int) bool { return summary.ByCurrency[i].CurrencyCode < summary.ByCurrency[j].CurrencyCode })
	return summary
}

func (s *accountService) DeactivateAccount(ctx context.Context, ownerID, accountID string) error {
	if err := s.accountRepo.DeactivateAccount(ctx, ownerID, accountID, ownerID, s.now()); err != nil {
		s.LogFailure(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

// DeleteAccount refuses while transactions reference the account; deactivation is the way to retire it.
func (s *accountService) DeleteAccount(ctx context.Context, ownerID, accountID string) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, ownerID, accountID); err != nil {
		s.LogFailure(ctx, err, "Account to delete not found", slog.String("account_id", accountID))
		return err
	}
	count, err := s.txnReader.CountTransactionsByAccount(ctx, ownerID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count account transactions", slog.String("account_id", accountID))
		return err
	}
	if count > 0 {
		return apperrors.Validationf("account %s has %d transactions; deactivate it instead", accountID, count)
	}
	// The store re-checks references, so a transaction posted meanwhile still blocks the delete.
	if err := s.accountRepo.DeleteAccount(ctx, ownerID, accountID); err != nil {
		s.LogFailure(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}

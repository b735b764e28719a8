package dto

import (
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open an account.
// Balance is the opening balance and may be negative (e.g. a credit card).
type CreateAccountRequest struct {
	Name         string             `json:"name" binding:"required,max=100"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=BANK_ACCOUNT SAVINGS_ACCOUNT CREDIT_CARD INVESTMENT CRYPTO CASH OTHER"`
	CurrencyCode string             `json:"currencyCode" binding:"omitempty,len=3,alpha"`
	Balance      decimal.Decimal    `json:"balance"`
	Color        string             `json:"color" binding:"omitempty,hexcolor"`
	Description  string             `json:"description" binding:"max=500"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string             `json:"accountID"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"accountType"`
	CurrencyCode   string             `json:"currencyCode"`
	Balance        decimal.Decimal    `json:"balance"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
	Color          string             `json:"color"`
	Description    string             `json:"description"`
	IsActive       bool               `json:"isActive"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy  string             `json:"lastUpdatedBy"`
}

// ListAccountsResponse defines the response for listing accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		CurrencyCode:   acc.CurrencyCode,
		Balance:        acc.Balance,
		OpeningBalance: acc.OpeningBalance,
		Color:          acc.DisplayColor(),
		Description:    acc.Description,
		IsActive:       acc.IsActive,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToListAccountsResponse converts a slice of domain accounts to the list response DTO.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	list := make([]AccountResponse, len(accounts))
	for i := range accounts {
		list[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: list}
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	ActiveOnly bool `form:"activeOnly"`
}

package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies a personal financial account.
type AccountType string

const (
	BankAccount    AccountType = "BANK_ACCOUNT"
	SavingsAccount AccountType = "SAVINGS_ACCOUNT"
	CreditCard     AccountType = "CREDIT_CARD"
	Investment     AccountType = "INVESTMENT"
	Crypto         AccountType = "CRYPTO"
	Cash           AccountType = "CASH"
	OtherAccount   AccountType = "OTHER"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case BankAccount, SavingsAccount, CreditCard, Investment, Crypto, Cash, OtherAccount:
		return true
	}
	return false
}

// DefaultAccountColor is used for accounts without a configured color.
const DefaultAccountColor = "#3b82f6"

// Account represents a financial account owned by a single user.
// Balance is a maintained running total: opening balance plus the signed
// effect of every transaction referencing the account.
type Account struct {
	AccountID      string          `json:"accountID"`
	OwnerID        string          `json:"ownerID"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	CurrencyCode   string          `json:"currencyCode"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Color          string          `json:"color"`
	Description    string          `json:"description"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// DisplayColor returns the configured color or the default one.
func (a Account) DisplayColor() string {
	if a.Color == "" {
		return DefaultAccountColor
	}
	return a.Color
}

package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultTransferDescription is used when a transfer request carries no description.
const DefaultTransferDescription = "Transfer"

// CreateTransactionRequest is the wire shape of a new ledger entry.
// It is turned into a tagged domain input before it reaches the ledger.
type CreateTransactionRequest struct {
	Type        domain.TransactionType `json:"type" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	Amount      decimal.Decimal        `json:"amount" binding:"money"`
	AccountID   string                 `json:"accountID" binding:"required"`
	ToAccountID string                 `json:"toAccountID" binding:"required_if=Type TRANSFER"`
	CategoryID  string                 `json:"categoryID" binding:"required_unless=Type TRANSFER"`
	Date        time.Time              `json:"date" binding:"required"`
	Description string                 `json:"description" binding:"required,max=200"`
	Notes       string                 `json:"notes" binding:"max=500"`
}

// ToInput converts the request into the matching tagged input.
func (r CreateTransactionRequest) ToInput() (domain.TransactionInput, error) {
	entry := domain.EntryFields{Amount: r.Amount, Date: r.Date, Description: r.Description, Notes: r.Notes}
	switch r.Type {
	case domain.Income:
		return domain.IncomeInput{AccountID: r.AccountID, CategoryID: r.CategoryID, EntryFields: entry}, nil
	case domain.Expense:
		return domain.ExpenseInput{AccountID: r.AccountID, CategoryID: r.CategoryID, EntryFields: entry}, nil
	case domain.Transfer:
		return domain.TransferInput{FromAccountID: r.AccountID, ToAccountID: r.ToAccountID, EntryFields: entry}, nil
	}
	return nil, apperrors.Validationf("unknown transaction type %q", r.Type)
}

// UpdateTransactionRequest is a partial update; omitted fields keep their value.
type UpdateTransactionRequest struct {
	Type        *domain.TransactionType `json:"type" binding:"omitempty,oneof=INCOME EXPENSE TRANSFER"`
	Amount      *decimal.Decimal        `json:"amount" binding:"omitempty,money"`
	AccountID   *string                 `json:"accountID" binding:"omitempty,min=1"`
	ToAccountID *string                 `json:"toAccountID"`
	CategoryID  *string                 `json:"categoryID"`
	Date        *time.Time              `json:"date"`
	Description *string                 `json:"description" binding:"omitempty,max=200"`
	Notes       *string                 `json:"notes" binding:"omitempty,max=500"`
}

func (r UpdateTransactionRequest) ToPatch() domain.TransactionPatch {
	return domain.TransactionPatch{
		Type:        r.Type,
		Amount:      r.Amount,
		AccountID:   r.AccountID,
		ToAccountID: r.ToAccountID,
		CategoryID:  r.CategoryID,
		Date:        r.Date,
		Description: r.Description,
		Notes:       r.Notes,
	}
}

// TransferRequest moves money between two of the caller's accounts.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required,nefield=FromAccountID"`
	Amount        decimal.Decimal `json:"amount" binding:"money"`
	Date          *time.Time      `json:"date"`
	Description   string          `json:"description" binding:"max=200"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// ToInput fills defaults (date now, a generic description) and returns the transfer input.
func (r TransferRequest) ToInput(now time.Time) domain.TransferInput {
	date := now
	if r.Date != nil {
		date = *r.Date
	}
	desc := r.Description
	if strings.TrimSpace(desc) == "" {
		desc = DefaultTransferDescription
	}
	return domain.TransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		EntryFields:   domain.EntryFields{Amount: r.Amount, Date: date, Description: desc, Notes: r.Notes},
	}
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Type       string `form:"type" binding:"omitempty,oneof=INCOME EXPENSE TRANSFER"`
	AccountID  string `form:"accountId"`
	CategoryID string `form:"categoryId"`
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
	MinAmount  string `form:"minAmount"`
	MaxAmount  string `form:"maxAmount"`
	Search     string `form:"search" binding:"max=200"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	Limit      int    `form:"limit,default=20" binding:"min=1,max=100"`
	SortBy     string `form:"sortBy,default=date" binding:"oneof=date amount description"`
	SortOrder  string `form:"sortOrder,default=desc" binding:"oneof=asc desc"`
}

// ToFilter parses the textual parameters. Date-only end dates cover the whole day.
func (p ListTransactionsParams) ToFilter(loc *time.Location) (domain.TransactionFilter, error) {
	f := domain.TransactionFilter{
		AccountID:  p.AccountID,
		CategoryID: p.CategoryID,
		Search:     strings.TrimSpace(p.Search),
		Page:       p.Page,
		Limit:      p.Limit,
		SortBy:     domain.TransactionSortField(p.SortBy),
		SortOrder:  domain.SortOrder(p.SortOrder),
	}
	if p.Type != "" {
		t := domain.TransactionType(p.Type)
		f.Type = &t
	}
	var err error
	if f.StartDate, err = ParseQueryDate(p.StartDate, loc, false); err != nil {
		return f, err
	}
	if f.EndDate, err = ParseQueryDate(p.EndDate, loc, true); err != nil {
		return f, err
	}
	if f.MinAmount, err = parseQueryAmount("minAmount", p.MinAmount); err != nil {
		return f, err
	}
	if f.MaxAmount, err = parseQueryAmount("maxAmount", p.MaxAmount); err != nil {
		return f, err
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, apperrors.Validationf("endDate must not be before startDate")
	}
	return f, nil
}

// ParseQueryDate accepts RFC3339 or YYYY-MM-DD. A date-only value is the start of
// that day, or its last instant when endOfDay is set.
func ParseQueryDate(raw string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, raw)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

func parseQueryAmount(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperrors.Validationf("invalid %s %q", name, raw)
	}
	return &d, nil
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	Type          domain.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	AccountID     string                 `json:"accountID"`
	ToAccountID   *string                `json:"toAccountID,omitempty"`
	CategoryID    *string                `json:"categoryID,omitempty"`
	Date          time.Time              `json:"date"`
	Description   string                 `json:"description"`
	Notes         string                 `json:"notes"`
	CreatedAt     time.Time              `json:"createdAt"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
}

// ListTransactionsResponse wraps one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   domain.PageInfo       `json:"pagination"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Type:          txn.Type,
		Amount:        txn.Amount,
		AccountID:     txn.AccountID,
		ToAccountID:   txn.ToAccountID,
		CategoryID:    txn.CategoryID,
		Date:          txn.Date,
		Description:   txn.Description,
		Notes:         txn.Notes,
		CreatedAt:     txn.CreatedAt,
		LastUpdatedAt: txn.LastUpdatedAt,
	}
}

func ToListTransactionsResponse(page *domain.TransactionPage) ListTransactionsResponse {
	res := ListTransactionsResponse{
		Transactions: make([]TransactionResponse, len(page.Transactions)),
		Pagination:   page.Pagination,
	}
	for i := range page.Transactions {
		res.Transactions[i] = ToTransactionResponse(&page.Transactions[i])
	}
	return res
}

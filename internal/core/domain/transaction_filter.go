package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionSortField is a column transactions may be ordered by.
type TransactionSortField string

const (
	SortByDate        TransactionSortField = "date"
	SortByAmount      TransactionSortField = "amount"
	SortByDescription TransactionSortField = "description"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TransactionFilter narrows a transaction listing. Zero values mean "no constraint".
type TransactionFilter struct {
	Type       *TransactionType
	AccountID  string // Matches either leg of a transfer
	CategoryID string
	StartDate  *time.Time
	EndDate    *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Search     string // Case-insensitive match on description or notes
	Page       int
	Limit      int
	SortBy     TransactionSortField
	SortOrder  SortOrder
}

// Matches reports whether t satisfies every constraint except paging and ordering.
func (f TransactionFilter) Matches(t Transaction, search func(haystack, needle string) bool) bool {
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.AccountID != "" && !t.References(f.AccountID) {
		return false
	}
	if f.CategoryID != "" && t.CategoryIDValue() != f.CategoryID {
		return false
	}
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.Search != "" && !search(t.Description, f.Search) && !search(t.Notes, f.Search) {
		return false
	}
	return true
}

// PageInfo describes the page of a listing.
type PageInfo struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalCount      int  `json:"totalCount"`
	Limit           int  `json:"limit"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Pagination   PageInfo      `json:"pagination"`
}

// ReportQuery selects a report and its window. Unset fields fall back to the current period.
type ReportQuery struct {
	Type       ReportType
	Window     *Window
	Year       int
	Month      int // 1-12
	CategoryID string
}

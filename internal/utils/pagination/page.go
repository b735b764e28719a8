package pagination

import "github.com/SscSPs/finance_ledger/internal/core/domain"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Normalize clamps page to at least 1 and limit to [1, MaxLimit], substituting DefaultLimit for zero.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset returns the number of rows to skip for a normalized page.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// NewPageInfo builds the page metadata returned with listings.
func NewPageInfo(page, limit, totalCount int) domain.PageInfo {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}
	return domain.PageInfo{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalCount:      totalCount,
		Limit:           limit,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// Window returns the half-open [start, end) slice bounds of a page over n items.
func Window(page, limit, n int) (int, int) {
	start := Offset(page, limit)
	if start > n {
		start = n
	}
	end := start + limit
	if end > n {
		end = n
	}
	return start, end
}

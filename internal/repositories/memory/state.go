package memory

import (
	"sort"
	"strings"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// state is the committed data set. It has no locking of its own; Store guards it.
type state struct {
	accounts     map[string]domain.Account
	categories   map[string]domain.Category
	transactions map[string]domain.Transaction
	budgets      map[string]domain.Budget
	goals        map[string]domain.SavingsGoal
}

func newState() *state {
	return &state{
		accounts:     map[string]domain.Account{},
		categories:   map[string]domain.Category{},
		transactions: map[string]domain.Transaction{},
		budgets:      map[string]domain.Budget{},
		goals:        map[string]domain.SavingsGoal{},
	}
}

func (st *state) clone() *state {
	return &state{
		accounts:     cloneMap(st.accounts),
		categories:   cloneMap(st.categories),
		transactions: cloneMap(st.transactions),
		budgets:      cloneMap(st.budgets),
		goals:        cloneMap(st.goals),
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (st *state) account(ownerID, id string) (*domain.Account, error) {
	a, ok := st.accounts[id]
	if !ok || a.OwnerID != ownerID {
		return nil, apperrors.NotFoundf("account %s", id)
	}
	return &a, nil
}

func (st *state) listAccounts(ownerID string, activeOnly bool) []domain.Account {
	out := []domain.Account{}
	for _, a := range st.accounts {
		if a.OwnerID == ownerID && (!activeOnly || a.IsActive) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out
}

func (st *state) category(ownerID, id string) (*domain.Category, error) {
	c, ok := st.categories[id]
	if !ok || c.OwnerID != ownerID {
		return nil, apperrors.NotFoundf("category %s", id)
	}
	return &c, nil
}

func (st *state) listCategories(ownerID string, typ *domain.CategoryType) []domain.Category {
	out := []domain.Category{}
	for _, c := range st.categories {
		if c.OwnerID == ownerID && (typ == nil || c.Type == *typ) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

func (st *state) transaction(ownerID, id string) (*domain.Transaction, error) {
	t, ok := st.transactions[id]
	if !ok || t.OwnerID != ownerID {
		return nil, apperrors.NotFoundf("transaction %s", id)
	}
	return &t, nil
}

func (st *state) ownedTransactions(ownerID string, keep func(domain.Transaction) bool) []domain.Transaction {
	out := []domain.Transaction{}
	for _, t := range st.transactions {
		if t.OwnerID == ownerID && keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func (st *state) listTransactions(ownerID string, f domain.TransactionFilter) ([]domain.Transaction, int) {
	matches := st.ownedTransactions(ownerID, func(t domain.Transaction) bool {
		return f.Matches(t, containsFold)
	})
	sort.SliceStable(matches, transactionLess(matches, f.SortBy, f.SortOrder))

	page, limit := pagination.Normalize(f.Page, f.Limit)
	start, end := pagination.Window(page, limit, len(matches))
	return matches[start:end], len(matches)
}

func transactionLess(txns []domain.Transaction, by domain.TransactionSortField, order domain.SortOrder) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := txns[i], txns[j]
		var cmp int
		switch by {
		case domain.SortByAmount:
			cmp = a.Amount.Cmp(b.Amount)
		case domain.SortByDescription:
			cmp = strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
		default:
			cmp = a.Date.Compare(b.Date)
		}
		if cmp == 0 {
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		}
		if cmp == 0 {
			cmp = strings.Compare(a.TransactionID, b.TransactionID)
		}
		if order == domain.SortAsc {
			return cmp < 0
		}
		return cmp > 0
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (st *state) transactionsInWindow(ownerID string, w *domain.Window) []domain.Transaction {
	out := st.ownedTransactions(ownerID, func(t domain.Transaction) bool {
		return w == nil || w.Contains(t.Date)
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TransactionID < out[j].TransactionID
	})
	return out
}

func (st *state) sumExpenses(ownerID, categoryID string, w domain.Window) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range st.transactions {
		if t.OwnerID == ownerID && t.Type == domain.Expense && t.CategoryIDValue() == categoryID && w.Contains(t.Date) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

func (st *state) countByAccount(ownerID, accountID string) int {
	n := 0
	for _, t := range st.transactions {
		if t.OwnerID == ownerID && t.References(accountID) {
			n++
		}
	}
	return n
}

func (st *state) categoryInUse(categoryID string) bool {
	for _, t := range st.transactions {
		if t.CategoryIDValue() == categoryID {
			return true
		}
	}
	for _, b := range st.budgets {
		if b.CategoryID == categoryID {
			return true
		}
	}
	return false
}

func (st *state) budget(ownerID, id string) (*domain.Budget, error) {
	b, ok := st.budgets[id]
	if !ok || b.OwnerID != ownerID {
		return nil, apperrors.NotFoundf("budget %s", id)
	}
	return &b, nil
}

func (st *state) listBudgets(ownerID string, isActive *bool) []domain.Budget {
	out := []domain.Budget{}
	for _, b := range st.budgets {
		if b.OwnerID == ownerID && (isActive == nil || b.IsActive == *isActive) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].BudgetID < out[j].BudgetID
	})
	return out
}

func (st *state) goal(ownerID, id string) (*domain.SavingsGoal, error) {
	g, ok := st.goals[id]
	if !ok || g.OwnerID != ownerID {
		return nil, apperrors.NotFoundf("savings goal %s", id)
	}
	return &g, nil
}

// listGoals orders open goals first, then by deadline (none last), then by creation.
func (st *state) listGoals(ownerID string, completed *bool) []domain.SavingsGoal {
	out := []domain.SavingsGoal{}
	for _, g := range st.goals {
		if g.OwnerID == ownerID && (completed == nil || g.IsCompleted == *completed) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsCompleted != b.IsCompleted {
			return !a.IsCompleted
		}
		switch {
		case a.Deadline != nil && b.Deadline != nil && !a.Deadline.Equal(*b.Deadline):
			return a.Deadline.Before(*b.Deadline)
		case a.Deadline != nil && b.Deadline == nil:
			return true
		case a.Deadline == nil && b.Deadline != nil:
			return false
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.GoalID < b.GoalID
	})
	return out
}

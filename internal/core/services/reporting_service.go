package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/utils/periods"
	"github.com/shopspring/decimal"
)

const (
	topCategoriesLimit = 5
	otherBucketName    = "Other"
	growthMonths       = 3
	evolutionMonths    = 12
)

var monthsPerYear = decimal.NewFromInt(12)

// reportingService implements the ReportingService interface.
// Every report is computed from a single snapshot, so its sub-totals always
// add up to its totals.
type reportingService struct {
	BaseService
	snapshots portsrepo.SnapshotProvider
	now       func() time.Time
	loc       *time.Location
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

func WithReportingClock(now func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.now = now
	}
}

// WithReportingLocation sets the calendar used for buckets and default windows.
func WithReportingLocation(loc *time.Location) ReportingServiceOption {
	return func(s *reportingService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewReportingService creates a new reporting service
func NewReportingService(snapshots portsrepo.SnapshotProvider, opts ...ReportingServiceOption) portssvc.ReportingService {
	s := &reportingService{
		snapshots: snapshots,
		now:       time.Now,
		loc:       time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) GetReport(ctx context.Context, ownerID string, q domain.ReportQuery) (domain.ReportData, error) {
	now := s.now().In(s.loc)
	switch q.Type {
	case domain.ReportWeekly:
		return s.WeeklyReport(ctx, ownerID, q.Window)
	case domain.ReportMonthly:
		year, month := q.Year, q.Month
		if year == 0 {
			year = now.Year()
		}
		if month == 0 {
			month = int(now.Month())
		}
		return s.MonthlyReport(ctx, ownerID, year, month)
	case domain.ReportAnnual:
		year := q.Year
		if year == 0 {
			year = now.Year()
		}
		return s.AnnualReport(ctx, ownerID, year)
	case domain.ReportNetWorth:
		return s.NetWorthReport(ctx, ownerID)
	case domain.ReportBreakdown:
		return s.CategoryBreakdown(ctx, ownerID, q.Window)
	case domain.ReportCategory:
		if q.CategoryID == "" || q.Window == nil {
			return nil, apperrors.Validationf("category report requires a category and a window")
		}
		return s.CategoryReport(ctx, ownerID, q.CategoryID, *q.Window)
	}
	return nil, apperrors.Validationf("unknown report type %q", q.Type)
}

// WeeklyReport defaults to the current Monday-Sunday week and compares against
// the window of equal length right before it.
func (s *reportingService) WeeklyReport(ctx context.Context, ownerID string, window *domain.Window) (*domain.WeeklyReport, error) {
	if err := validateWindow(window); err != nil {
		return nil, err
	}
	w := periods.CurrentWeek(s.now().In(s.loc))
	if window != nil {
		w = domain.Window{Start: window.Start.In(s.loc), End: window.End.In(s.loc)}
	}
	prev := periods.PreviousWindow(w)

	data, err := s.load(ctx, ownerID, &domain.Window{Start: prev.Start, End: w.End}, false)
	if err != nil {
		return nil, err
	}
	current := inWindow(data.txns, w)
	previous := inWindow(data.txns, prev)

	totals := flowTotals(current)
	report := &domain.WeeklyReport{
		Window:                 w,
		FlowTotals:             totals,
		TopCategories:          topN(categoryAmounts(current, data.categories), topCategoriesLimit),
		DailyData:              rollup(periods.Days(w), func(b domain.Window) string { return b.Start.Format(time.DateOnly) }, current),
		ComparisonWithPrevious: compare(totals, flowTotals(previous)),
	}
	s.LogDebug(ctx, "Weekly report generated", slog.Time("start", w.Start), slog.Int("transactions", totals.TransactionsCount))
	return report, nil
}

// MonthlyReport covers a calendar month (1-12) and compares against the previous calendar month.
func (s *reportingService) MonthlyReport(ctx context.Context, ownerID string, year, month int) (*domain.MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.Validationf("month must be between 1 and 12")
	}
	w := periods.MonthWindow(year, month, s.loc)
	prevStart := w.Start.AddDate(0, -1, 0)
	prev := periods.MonthWindow(prevStart.Year(), int(prevStart.Month()), s.loc)

	data, err := s.load(ctx, ownerID, &domain.Window{Start: prev.Start, End: w.End}, false)
	if err != nil {
		return nil, err
	}
	current := inWindow(data.txns, w)

	week := 0
	weekLabel := func(domain.Window) string {
		week++
		return fmt.Sprintf("Week %d", week)
	}
	totals := flowTotals(current)
	return &domain.MonthlyReport{
		Year:                   year,
		Month:                  month,
		Window:                 w,
		FlowTotals:             totals,
		TopCategories:          topN(categoryAmounts(current, data.categories), topCategoriesLimit),
		WeeklyData:             rollup(periods.MonthWeeks(year, month, s.loc), weekLabel, current),
		ComparisonWithPrevious: compare(totals, flowTotals(inWindow(data.txns, prev))),
	}, nil
}

func (s *reportingService) AnnualReport(ctx context.Context, ownerID string, year int) (*domain.AnnualReport, error) {
	w := periods.YearWindow(year, s.loc)
	data, err := s.load(ctx, ownerID, &w, true)
	if err != nil {
		return nil, err
	}

	months := periods.Months(year, s.loc)
	totals := flowTotals(data.txns)
	report := &domain.AnnualReport{
		Year:                   year,
		Window:                 w,
		FlowTotals:             totals,
		MonthlyData:            rollup(months, func(b domain.Window) string { return periods.MonthKey(b.Start) }, data.txns),
		NetWorthEvolution:      netWorthSeries(data.accounts, months),
		AverageMonthlyIncome:   totals.TotalIncome.Div(monthsPerYear).Round(2),
		AverageMonthlyExpenses: totals.TotalExpenses.Div(monthsPerYear).Round(2),
	}
	if cats := categoryAmounts(data.txns, data.categories); len(cats) > 0 {
		report.TopExpenseCategory = &cats[0]
	}
	return report, nil
}

// NetWorthReport uses current balances; evolution points sum the balances of
// accounts that already existed at each month end.
func (s *reportingService) NetWorthReport(ctx context.Context, ownerID string) (*domain.NetWorthReport, error) {
	now := s.now().In(s.loc)
	growthWindows := periods.TrailingMonths(now, 2*growthMonths)
	older := domain.Window{Start: growthWindows[0].Start, End: growthWindows[growthMonths-1].End}
	recent := domain.Window{Start: growthWindows[growthMonths].Start, End: growthWindows[len(growthWindows)-1].End}

	data, err := s.load(ctx, ownerID, &domain.Window{Start: older.Start, End: recent.End}, true)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	positive := decimal.Zero
	for _, acc := range data.accounts {
		total = total.Add(acc.Balance)
		if acc.Balance.IsPositive() {
			positive = positive.Add(acc.Balance)
		}
	}

	shares := []domain.AccountShare{}
	for _, acc := range data.accounts {
		if !acc.Balance.IsPositive() {
			continue
		}
		shares = append(shares, domain.AccountShare{
			AccountID:   acc.AccountID,
			Name:        acc.Name,
			AccountType: acc.AccountType,
			Color:       acc.DisplayColor(),
			Balance:     acc.Balance,
			Percentage:  percentOf(acc.Balance, positive),
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		if !shares[i].Balance.Equal(shares[j].Balance) {
			return shares[i].Balance.GreaterThan(shares[j].Balance)
		}
		return shares[i].AccountID < shares[j].AccountID
	})

	growth := make([]domain.AccountGrowth, 0, len(data.accounts))
	for _, acc := range data.accounts {
		r := netEffect(data.txns, acc.AccountID, recent)
		o := netEffect(data.txns, acc.AccountID, older)
		growth = append(growth, domain.AccountGrowth{
			AccountID: acc.AccountID,
			Name:      acc.Name,
			RecentNet: r,
			OlderNet:  o,
			Growth:    growthRate(r, o),
		})
	}

	return &domain.NetWorthReport{
		AsOf:           now,
		CurrentBalance: total,
		Accounts:       shares,
		Evolution:      netWorthSeries(data.accounts, periods.TrailingMonths(now, evolutionMonths)),
		AccountsGrowth: growth,
	}, nil
}

// CategoryBreakdown groups expenses by category; a nil window covers all time.
func (s *reportingService) CategoryBreakdown(ctx context.Context, ownerID string, window *domain.Window) (*domain.CategoryBreakdown, error) {
	if err := validateWindow(window); err != nil {
		return nil, err
	}
	data, err := s.load(ctx, ownerID, window, false)
	if err != nil {
		return nil, err
	}
	cats := categoryAmounts(data.txns, data.categories)
	total := decimal.Zero
	for _, c := range cats {
		total = total.Add(c.Amount)
	}
	return &domain.CategoryBreakdown{
		Window:     window,
		Total:      total,
		Categories: cats,
		Top:        collapseOther(cats, topCategoriesLimit),
	}, nil
}

func (s *reportingService) CategoryReport(ctx context.Context, ownerID, categoryID string, window domain.Window) (*domain.CategoryReport, error) {
	if err := validateWindow(&window); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to open ledger snapshot")
		return nil, err
	}
	defer closeSnapshot(ctx, &s.BaseService, snap)

	cat, err := snap.FindCategoryByID(ctx, ownerID, categoryID)
	if err != nil {
		s.LogFailure(ctx, err, "Report category not found", slog.String("category_id", categoryID))
		return nil, err
	}
	txns, err := snap.FindTransactionsInWindow(ctx, ownerID, &window)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for category report")
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	accounts, err := snap.ListAccounts(ctx, ownerID, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for category report")
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.AccountID] = a.Name
	}

	report := &domain.CategoryReport{
		Window:        window,
		CategoryID:    cat.CategoryID,
		CategoryName:  cat.Name,
		CategoryColor: cat.DisplayColor(),
		TotalAmount:   decimal.Zero,
		Transactions:  []domain.CategoryReportLine{},
	}
	monthly := map[string]decimal.Decimal{}
	for _, t := range txns {
		if t.CategoryIDValue() != categoryID {
			continue
		}
		report.TotalAmount = report.TotalAmount.Add(t.Amount)
		report.TransactionsCount++
		key := periods.MonthKey(t.Date.In(s.loc))
		monthly[key] = monthly[key].Add(t.Amount)
		report.Transactions = append(report.Transactions, domain.CategoryReportLine{
			TransactionID: t.TransactionID,
			Description:   t.Description,
			Amount:        t.Amount,
			Date:          t.Date,
			AccountName:   names[t.AccountID],
		})
	}
	if report.TransactionsCount > 0 {
		report.AverageTransaction = report.TotalAmount.Div(decimal.NewFromInt(int64(report.TransactionsCount))).Round(2)
	}
	sort.SliceStable(report.Transactions, func(i, j int) bool {
		a, b := report.Transactions[i], report.Transactions[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.TransactionID < b.TransactionID
	})

	start := window.Start.In(s.loc)
	for m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, s.loc); !m.After(window.End); m = m.AddDate(0, 1, 0) {
		key := periods.MonthKey(m)
		report.MonthlyData = append(report.MonthlyData, domain.MonthAmount{Month: key, Amount: monthly[key]})
	}
	return report, nil
}

// reportData is everything one report reads, fetched from the same snapshot.
type reportData struct {
	txns       []domain.Transaction
	categories map[string]domain.Category
	accounts   []domain.Account
}

func (s *reportingService) load(ctx context.Context, ownerID string, window *domain.Window, withAccounts bool) (*reportData, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to open ledger snapshot")
		return nil, err
	}
	defer closeSnapshot(ctx, &s.BaseService, snap)

	txns, err := snap.FindTransactionsInWindow(ctx, ownerID, window)
	if err != nil {
		s.LogError(ctx, err, "Failed to load report transactions")
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	cats, err := snap.ListCategories(ctx, ownerID, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to load report categories")
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	data := &reportData{txns: txns, categories: make(map[string]domain.Category, len(cats))}
	for _, c := range cats {
		data.categories[c.CategoryID] = c
	}
	if withAccounts {
		if data.accounts, err = snap.ListAccounts(ctx, ownerID, true); err != nil {
			s.LogError(ctx, err, "Failed to load report accounts")
			return nil, fmt.Errorf("failed to load accounts: %w", err)
		}
	}
	return data, nil
}

func inWindow(txns []domain.Transaction, w domain.Window) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range txns {
		if w.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// flowTotals counts transfers as transactions but not as income or expense.
func flowTotals(txns []domain.Transaction) domain.FlowTotals {
	totals := domain.FlowTotals{TotalIncome: decimal.Zero, TotalExpenses: decimal.Zero}
	for _, t := range txns {
		switch t.Type {
		case domain.Income:
			totals.TotalIncome = totals.TotalIncome.Add(t.Amount)
		case domain.Expense:
			totals.TotalExpenses = totals.TotalExpenses.Add(t.Amount)
		}
	}
	totals.Savings = totals.TotalIncome.Sub(totals.TotalExpenses)
	totals.TransactionsCount = len(txns)
	return totals
}

func rollup(buckets []domain.Window, label func(domain.Window) string, txns []domain.Transaction) []domain.FlowBucket {
	out := make([]domain.FlowBucket, len(buckets))
	for i, b := range buckets {
		totals := flowTotals(inWindow(txns, b))
		out[i] = domain.FlowBucket{
			Label:    label(b),
			Start:    b.Start,
			End:      b.End,
			Income:   totals.TotalIncome,
			Expenses: totals.TotalExpenses,
			Savings:  totals.Savings,
		}
	}
	return out
}

// categoryAmounts groups EXPENSE transactions by category, largest first.
// Expenses without a resolvable category fall under Uncategorized.
func categoryAmounts(txns []domain.Transaction, categories map[string]domain.Category) []domain.CategoryAmount {
	byID := map[string]*domain.CategoryAmount{}
	total := decimal.Zero
	for _, t := range txns {
		if t.Type != domain.Expense {
			continue
		}
		id := t.CategoryIDValue()
		cat, known := categories[id]
		if !known {
			id = ""
		}
		entry, ok := byID[id]
		if !ok {
			entry = &domain.CategoryAmount{Name: domain.UncategorizedName, Color: domain.DefaultCategoryColor, Amount: decimal.Zero}
			if known {
				entry.CategoryID = cat.CategoryID
				entry.Name = cat.Name
				entry.Color = cat.DisplayColor()
			}
			byID[id] = entry
		}
		entry.Amount = entry.Amount.Add(t.Amount)
		entry.TransactionsCount++
		total = total.Add(t.Amount)
	}

	out := make([]domain.CategoryAmount, 0, len(byID))
	for _, e := range byID {
		e.Percentage = percentOf(e.Amount, total)
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

func topN(cats []domain.CategoryAmount, n int) []domain.CategoryAmount {
	if len(cats) > n {
		return cats[:n]
	}
	return cats
}

// collapseOther keeps the first n entries and folds the rest into one Other bucket
// whose amount, percentage and count are the sums of the folded entries.
func collapseOther(cats []domain.CategoryAmount, n int) []domain.CategoryAmount {
	if len(cats) <= n {
		return cats
	}
	top := make([]domain.CategoryAmount, n, n+1)
	copy(top, cats[:n])
	other := domain.CategoryAmount{Name: otherBucketName, Color: domain.DefaultCategoryColor, Amount: decimal.Zero, Percentage: decimal.Zero}
	for _, c := range cats[n:] {
		other.Amount = other.Amount.Add(c.Amount)
		other.Percentage = other.Percentage.Add(c.Percentage)
		other.TransactionsCount += c.TransactionsCount
	}
	return append(top, other)
}

func netWorthSeries(accounts []domain.Account, months []domain.Window) []domain.BalancePoint {
	out := make([]domain.BalancePoint, len(months))
	for i, m := range months {
		sum := decimal.Zero
		for _, acc := range accounts {
			if acc.IsActive && !acc.CreatedAt.After(m.End) {
				sum = sum.Add(acc.Balance)
			}
		}
		out[i] = domain.BalancePoint{Label: periods.MonthKey(m.Start), AsOf: m.End, Balance: sum}
	}
	return out
}

func validateWindow(w *domain.Window) error {
	if w != nil && w.End.Before(w.Start) {
		return apperrors.Validationf("window end must not be before its start")
	}
	return nil
}

func netEffect(txns []domain.Transaction, accountID string, w domain.Window) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		if w.Contains(t.Date) && t.References(accountID) {
			sum = sum.Add(t.Effects()[accountID])
		}
	}
	return sum
}

func compare(current, previous domain.FlowTotals) domain.PeriodComparison {
	return domain.PeriodComparison{
		IncomeChange:   percentChange(current.TotalIncome, previous.TotalIncome),
		ExpensesChange: percentChange(current.TotalExpenses, previous.TotalExpenses),
		SavingsChange:  percentChange(current.Savings, previous.Savings),
	}
}

// percentChange is (current-previous)/previous*100; a zero previous yields 100 if current > 0, else 0.
func percentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

// growthRate divides by |older| so that shrinking losses read as growth.
func growthRate(recent, older decimal.Decimal) decimal.Decimal {
	if older.IsZero() {
		if recent.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return recent.Sub(older).Div(older.Abs()).Mul(hundred).Round(2)
}

func percentOf(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}

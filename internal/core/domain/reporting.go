package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportType selects a report shape.
type ReportType string

const (
	ReportWeekly    ReportType = "weekly"
	ReportMonthly   ReportType = "monthly"
	ReportAnnual    ReportType = "annual"
	ReportNetWorth  ReportType = "networth"
	ReportBreakdown ReportType = "breakdown"
	ReportCategory  ReportType = "category"
)

// ReportData is implemented by every report shape.
type ReportData interface {
	ReportType() ReportType
}

// Window is an inclusive [Start, End] date range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// FlowTotals are the headline figures of a window.
type FlowTotals struct {
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	Savings           decimal.Decimal `json:"savings"`
	TransactionsCount int             `json:"transactionsCount"`
}

// FlowBucket is one point of a rollup series.
type FlowBucket struct {
	Label    string          `json:"label"`
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
}

// PeriodComparison expresses change against the preceding window, in percent.
type PeriodComparison struct {
	IncomeChange   decimal.Decimal `json:"incomeChange"`
	ExpensesChange decimal.Decimal `json:"expensesChange"`
	SavingsChange  decimal.Decimal `json:"savingsChange"`
}

// CategoryAmount is a category's share of expenses in a window.
type CategoryAmount struct {
	CategoryID        string          `json:"categoryID,omitempty"`
	Name              string          `json:"name"`
	Color             string          `json:"color"`
	Amount            decimal.Decimal `json:"amount"`
	Percentage        decimal.Decimal `json:"percentage"`
	TransactionsCount int             `json:"transactionsCount"`
}

// BalancePoint is one point of a net-worth series.
type BalancePoint struct {
	Label   string          `json:"label"`
	AsOf    time.Time       `json:"asOf"`
	Balance decimal.Decimal `json:"balance"`
}

// AccountShare is an account's share of the total positive balance.
type AccountShare struct {
	AccountID   string          `json:"accountID"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Color       string          `json:"color"`
	Balance     decimal.Decimal `json:"balance"`
	Percentage  decimal.Decimal `json:"percentage"`
}

// AccountGrowth compares an account's net flow over the last three months with the three before.
type AccountGrowth struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	RecentNet decimal.Decimal `json:"recentNet"`
	OlderNet  decimal.Decimal `json:"olderNet"`
	Growth    decimal.Decimal `json:"growth"`
}

type WeeklyReport struct {
	Window Window `json:"window"`
	FlowTotals
	TopCategories          []CategoryAmount `json:"topCategories"`
	DailyData              []FlowBucket     `json:"dailyData"`
	ComparisonWithPrevious PeriodComparison `json:"comparisonWithPrevious"`
}

type MonthlyReport struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"` // 1-12
	Window Window `json:"window"`
	FlowTotals
	TopCategories          []CategoryAmount `json:"topCategories"`
	WeeklyData             []FlowBucket     `json:"weeklyData"`
	ComparisonWithPrevious PeriodComparison `json:"comparisonWithPrevious"`
}

type AnnualReport struct {
	Year   int    `json:"year"`
	Window Window `json:"window"`
	FlowTotals
	MonthlyData            []FlowBucket    `json:"monthlyData"`
	TopExpenseCategory     *CategoryAmount `json:"topExpenseCategory"`
	NetWorthEvolution      []BalancePoint  `json:"netWorthEvolution"`
	AverageMonthlyIncome   decimal.Decimal `json:"averageMonthlyIncome"`
	AverageMonthlyExpenses decimal.Decimal `json:"averageMonthlyExpenses"`
}

type NetWorthReport struct {
	AsOf           time.Time       `json:"asOf"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	Accounts       []AccountShare  `json:"accounts"`
	Evolution      []BalancePoint  `json:"evolution"`
	AccountsGrowth []AccountGrowth `json:"accountsGrowth"`
}

// CategoryBreakdown groups expenses by category. Top holds at most five
// entries plus a collapsed "Other" bucket for the rest.
type CategoryBreakdown struct {
	Window     *Window          `json:"window,omitempty"` // nil means all-time
	Total      decimal.Decimal  `json:"total"`
	Categories []CategoryAmount `json:"categories"`
	Top        []CategoryAmount `json:"top"`
}

// MonthAmount is one month of a category series.
type MonthAmount struct {
	Month  string          `json:"month"` // YYYY-MM
	Amount decimal.Decimal `json:"amount"`
}

// CategoryReportLine is one transaction within a category report.
type CategoryReportLine struct {
	TransactionID string          `json:"transactionID"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	AccountName   string          `json:"accountName"`
}

type CategoryReport struct {
	Window             Window               `json:"window"`
	CategoryID         string               `json:"categoryID"`
	CategoryName       string               `json:"categoryName"`
	CategoryColor      string               `json:"categoryColor"`
	TotalAmount        decimal.Decimal      `json:"totalAmount"`
	TransactionsCount  int                  `json:"transactionsCount"`
	AverageTransaction decimal.Decimal      `json:"averageTransaction"`
	MonthlyData        []MonthAmount        `json:"monthlyData"`
	Transactions       []CategoryReportLine `json:"transactions"`
}

func (WeeklyReport) ReportType() ReportType      { return ReportWeekly }
func (MonthlyReport) ReportType() ReportType     { return ReportMonthly }
func (AnnualReport) ReportType() ReportType      { return ReportAnnual }
func (NetWorthReport) ReportType() ReportType    { return ReportNetWorth }
func (CategoryBreakdown) ReportType() ReportType { return ReportBreakdown }
func (CategoryReport) ReportType() ReportType    { return ReportCategory }

// AccountTypeTotal aggregates active accounts of one type.
type AccountTypeTotal struct {
	AccountType  AccountType     `json:"accountType"`
	Count        int             `json:"count"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
}

// CurrencyTotal aggregates active account balances in one currency.
type CurrencyTotal struct {
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// AccountsSummary is the dashboard overview of active accounts.
type AccountsSummary struct {
	TotalAccounts  int                `json:"totalAccounts"`
	TotalBalance   decimal.Decimal    `json:"totalBalance"`
	ByType         []AccountTypeTotal `json:"byType"`
	ByCurrency     []CurrencyTotal    `json:"byCurrency"`
	RichestAccount *Account           `json:"richestAccount,omitempty"`
	PoorestAccount *Account           `json:"poorestAccount,omitempty"`
}

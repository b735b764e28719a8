package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

const (
	MaxDescriptionLength = 200
	MaxNotesLength       = 500
	// MoneyScale is the number of fractional digits an amount may carry.
	MoneyScale = 2
)

// MinAmount is the smallest positive amount accepted for a money movement.
var MinAmount = decimal.New(1, -MoneyScale)

// EntryFields are the fields shared by every transaction kind.
type EntryFields struct {
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Notes       string
}

// TransactionInput is the closed set of ledger inputs: IncomeInput, ExpenseInput and TransferInput.
type TransactionInput interface {
	Kind() TransactionType
	// Validate checks the input in isolation; ownership and category
	// compatibility are checked against the store by the ledger.
	Validate() error
	Entry() EntryFields
	fill(*Transaction)
}

// IncomeInput credits AccountID, categorised under an INCOME category.
type IncomeInput struct {
	AccountID  string
	CategoryID string
	EntryFields
}

// ExpenseInput debits AccountID, categorised under an EXPENSE category.
type ExpenseInput struct {
	AccountID  string
	CategoryID string
	EntryFields
}

// TransferInput moves Amount from FromAccountID to ToAccountID. It carries no category.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	EntryFields
}

func (IncomeInput) Kind() TransactionType   { return Income }
func (ExpenseInput) Kind() TransactionType  { return Expense }
func (TransferInput) Kind() TransactionType { return Transfer }

func (in IncomeInput) Entry() EntryFields   { return in.EntryFields }
func (in ExpenseInput) Entry() EntryFields  { return in.EntryFields }
func (in TransferInput) Entry() EntryFields { return in.EntryFields }

func (in IncomeInput) Validate() error {
	return validateCategorised(in.AccountID, in.CategoryID, in.EntryFields)
}

func (in ExpenseInput) Validate() error {
	return validateCategorised(in.AccountID, in.CategoryID, in.EntryFields)
}

func (in TransferInput) Validate() error {
	if in.FromAccountID == "" {
		return apperrors.Validationf("source account is required")
	}
	if in.ToAccountID == "" {
		return apperrors.Validationf("destination account is required for transfers")
	}
	if in.FromAccountID == in.ToAccountID {
		return apperrors.Validationf("source and destination accounts must differ")
	}
	return in.EntryFields.validate()
}

func (in IncomeInput) fill(t *Transaction) {
	t.AccountID = in.AccountID
	t.CategoryID = stringPtr(in.CategoryID)
	t.ToAccountID = nil
}

func (in ExpenseInput) fill(t *Transaction) {
	t.AccountID = in.AccountID
	t.CategoryID = stringPtr(in.CategoryID)
	t.ToAccountID = nil
}

func (in TransferInput) fill(t *Transaction) {
	t.AccountID = in.FromAccountID
	t.ToAccountID = stringPtr(in.ToAccountID)
	t.CategoryID = nil
}

func validateCategorised(accountID, categoryID string, e EntryFields) error {
	if accountID == "" {
		return apperrors.Validationf("account is required")
	}
	if categoryID == "" {
		return apperrors.Validationf("category is required for income and expense transactions")
	}
	return e.validate()
}

func (e EntryFields) validate() error {
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return apperrors.Validationf("date is required")
	}
	desc := strings.TrimSpace(e.Description)
	if desc == "" {
		return apperrors.Validationf("description is required")
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return apperrors.Validationf("description cannot exceed %d characters", MaxDescriptionLength)
	}
	if utf8.RuneCountInString(e.Notes) > MaxNotesLength {
		return apperrors.Validationf("notes cannot exceed %d characters", MaxNotesLength)
	}
	return nil
}

// ValidateAmount checks that amount is a positive money value with at most MoneyScale fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(MinAmount) {
		return apperrors.Validationf("amount must be at least %s", MinAmount.StringFixed(MoneyScale))
	}
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return apperrors.Validationf("amount cannot have more than %d decimal places", MoneyScale)
	}
	return nil
}

// NewTransaction materialises a validated input into a ledger entry.
func NewTransaction(id, ownerID string, in TransactionInput, audit AuditFields) Transaction {
	e := in.Entry()
	t := Transaction{
		TransactionID: id,
		OwnerID:       ownerID,
		Type:          in.Kind(),
		Amount:        e.Amount,
		Date:          e.Date,
		Description:   strings.TrimSpace(e.Description),
		Notes:         e.Notes,
		AuditFields:   audit,
	}
	in.fill(&t)
	return t
}

// TransactionPatch is a partial update. Nil fields keep the existing value.
type TransactionPatch struct {
	Type        *TransactionType
	Amount      *decimal.Decimal
	AccountID   *string
	ToAccountID *string
	CategoryID  *string
	Date        *time.Time
	Description *string
	Notes       *string
}

// Merge overlays the patch on existing and returns the resulting tagged input.
func (p TransactionPatch) Merge(existing Transaction) (TransactionInput, error) {
	kind := existing.Type
	if p.Type != nil {
		kind = *p.Type
	}
	if !kind.Valid() {
		return nil, apperrors.Validationf("unknown transaction type %q", kind)
	}

	e := EntryFields{
		Amount:      pick(p.Amount, existing.Amount),
		Date:        pick(p.Date, existing.Date),
		Description: pick(p.Description, existing.Description),
		Notes:       pick(p.Notes, existing.Notes),
	}
	accountID := pick(p.AccountID, existing.AccountID)

	switch kind {
	case Transfer:
		to := ""
		if existing.ToAccountID != nil {
			to = *existing.ToAccountID
		}
		return TransferInput{FromAccountID: accountID, ToAccountID: pick(p.ToAccountID, to), EntryFields: e}, nil
	case Income:
		return IncomeInput{AccountID: accountID, CategoryID: pick(p.CategoryID, existing.CategoryIDValue()), EntryFields: e}, nil
	case Expense:
		return ExpenseInput{AccountID: accountID, CategoryID: pick(p.CategoryID, existing.CategoryIDValue()), EntryFields: e}, nil
	}
	return nil, fmt.Errorf("%w: unsupported transaction type %q", apperrors.ErrValidation, kind)
}

func pick[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

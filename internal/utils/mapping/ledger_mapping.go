package mapping

import (
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/models"
)

func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:  d.CategoryID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Type:        string(d.Type),
		Color:       d.Color,
		Icon:        d.Icon,
		IsDefault:   d.IsDefault,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:  m.CategoryID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Type:        domain.CategoryType(m.Type),
		Color:       m.Color,
		Icon:        m.Icon,
		IsDefault:   m.IsDefault,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		OwnerID:       d.OwnerID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		AccountID:     d.AccountID,
		ToAccountID:   d.ToAccountID,
		CategoryID:    d.CategoryID,
		Date:          d.Date,
		Description:   d.Description,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		OwnerID:       m.OwnerID,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		AccountID:     m.AccountID,
		ToAccountID:   m.ToAccountID,
		CategoryID:    m.CategoryID,
		Date:          m.Date,
		Description:   m.Description,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:    d.BudgetID,
		OwnerID:     d.OwnerID,
		CategoryID:  d.CategoryID,
		Amount:      d.Amount,
		Period:      string(d.Period),
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:    m.BudgetID,
		OwnerID:     m.OwnerID,
		CategoryID:  m.CategoryID,
		Amount:      m.Amount,
		Period:      domain.BudgetPeriod(m.Period),
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelSavingsGoal(d domain.SavingsGoal) models.SavingsGoal {
	return models.SavingsGoal{
		GoalID:        d.GoalID,
		OwnerID:       d.OwnerID,
		Name:          d.Name,
		Description:   d.Description,
		TargetAmount:  d.TargetAmount,
		CurrentAmount: d.CurrentAmount,
		IsCompleted:   d.IsCompleted,
		Deadline:      d.Deadline,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainSavingsGoal(m models.SavingsGoal) domain.SavingsGoal {
	return domain.SavingsGoal{
		GoalID:        m.GoalID,
		OwnerID:       m.OwnerID,
		Name:          m.Name,
		Description:   m.Description,
		TargetAmount:  m.TargetAmount,
		CurrentAmount: m.CurrentAmount,
		IsCompleted:   m.IsCompleted,
		Deadline:      m.Deadline,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

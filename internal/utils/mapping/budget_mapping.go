package mapping

import (
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/models"
)

// ToModelBudget converts a domain Budget to a model Budget
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:    d.BudgetID,
		TenantID:    d.TenantID,
		Category:    d.Category,
		Budgeted:    d.Budgeted,
		Spent:       d.Spent,
		Trend:       string(d.Trend),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:    m.BudgetID,
		TenantID:    m.TenantID,
		Category:    m.Category,
		Budgeted:    m.Budgeted,
		Spent:       m.Spent,
		Trend:       domain.BudgetTrend(m.Trend),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelExpense converts a domain Expense to a model Expense
func ToModelExpense(d domain.BudgetExpense) models.Expense {
	return models.Expense{
		ExpenseID:   d.ExpenseID,
		TenantID:    d.TenantID,
		Category:    d.Category,
		Amount:      d.Amount,
		ExpenseDate: d.ExpenseDate,
		Description: d.Description,
		Status:      string(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense
func ToDomainExpense(m models.Expense) domain.BudgetExpense {
	return domain.BudgetExpense{
		ExpenseID:   m.ExpenseID,
		TenantID:    m.TenantID,
		Category:    m.Category,
		Amount:      m.Amount,
		ExpenseDate: m.ExpenseDate,
		Description: m.Description,
		Status:      domain.ExpenseStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

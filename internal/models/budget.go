package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a row of the budgets table.
type Budget struct {
	BudgetID string          `db:"budget_id"`
	TenantID string          `db:"tenant_id"`
	Category string          `db:"category"`
	Budgeted decimal.Decimal `db:"budgeted"`
	Spent    decimal.Decimal `db:"spent"`
	Trend    string          `db:"trend"`
	AuditFields
}

// Expense represents a row of the expenses table.
type Expense struct {
	ExpenseID   string          `db:"expense_id"`
	TenantID    string          `db:"tenant_id"`
	Category    string          `db:"category"`
	Amount      decimal.Decimal `db:"amount"`
	ExpenseDate time.Time       `db:"expense_date"`
	Description string          `db:"description"`
	Status      string          `db:"status"`
	AuditFields
}

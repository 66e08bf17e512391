package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetTrend is a user-maintained indicator of spending direction.
type BudgetTrend string

const (
	TrendUp     BudgetTrend = "UP"
	TrendDown   BudgetTrend = "DOWN"
	TrendStable BudgetTrend = "STABLE"
)

// IsValid reports whether t is a known trend.
func (t BudgetTrend) IsValid() bool {
	return t == TrendUp || t == TrendDown || t == TrendStable
}

// Budget is a budgeted amount per expense category. Spent is a cache of approved expenses.
type Budget struct {
	BudgetID string          `json:"budgetID"`
	TenantID string          `json:"tenantID"`
	Category string          `json:"category"`
	Budgeted decimal.Decimal `json:"budgeted"`
	Spent    decimal.Decimal `json:"spent"`
	Trend    BudgetTrend     `json:"trend"`
	AuditFields
}

// ExpenseStatus is the approval state of an expense.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "PENDING"
	ExpenseApproved ExpenseStatus = "APPROVED"
	ExpenseRejected ExpenseStatus = "REJECTED"
)

// IsValid reports whether s is a known expense status.
func (s ExpenseStatus) IsValid() bool {
	return s == ExpensePending || s == ExpenseApproved || s == ExpenseRejected
}

// BudgetExpense is a categorized spend that counts against a budget once approved.
type BudgetExpense struct {
	ExpenseID   string          `json:"expenseID"`
	TenantID    string          `json:"tenantID"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expenseDate"`
	Description string          `json:"description"`
	Status      ExpenseStatus   `json:"status"`
	AuditFields
}

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	Category string
	Status   *ExpenseStatus
	From     *time.Time
	To       *time.Time
}

const (
	VarianceUnderBudget = "under_budget"
	VarianceOverBudget  = "over_budget"

	UtilizationOnTrack    = "on_track"
	UtilizationAtRisk     = "at_risk"
	UtilizationOverBudget = "over_budget"
)

// BudgetVariance compares a budget with the approved spend of a period.
type BudgetVariance struct {
	BudgetID        string          `json:"budgetID"`
	Category        string          `json:"category"`
	Budgeted        decimal.Decimal `json:"budgeted"`
	Actual          decimal.Decimal `json:"actual"`
	Variance        decimal.Decimal `json:"variance"`
	VariancePercent decimal.Decimal `json:"variancePercent"`
	Status          string          `json:"status"`
}

// BudgetUtilization classifies how much of a budget has been spent.
type BudgetUtilization struct {
	BudgetID           string          `json:"budgetID"`
	Category           string          `json:"category"`
	Budgeted           decimal.Decimal `json:"budgeted"`
	Spent              decimal.Decimal `json:"spent"`
	UtilizationPercent decimal.Decimal `json:"utilizationPercent"`
	Status             string          `json:"status"`
}

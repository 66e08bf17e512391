package dto

import (
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the data needed to create a budget.
type CreateBudgetRequest struct {
	Category string          `json:"category" binding:"required,max=100"`
	Budgeted decimal.Decimal `json:"budgeted" binding:"gte=0"`
	Trend    string          `json:"trend" binding:"omitempty,oneof=UP DOWN STABLE"`
}

// UpdateBudgetRequest defines the fields of a budget that may change.
type UpdateBudgetRequest struct {
	Category *string          `json:"category" binding:"omitempty,max=100"`
	Budgeted *decimal.Decimal `json:"budgeted"`
	Trend    *string          `json:"trend" binding:"omitempty,oneof=UP DOWN STABLE"`
}

// BudgetResponse carries a budget and its derived figures, which are never stored.
type BudgetResponse struct {
	BudgetID           string             `json:"budgetID"`
	Category           string             `json:"category"`
	Budgeted           decimal.Decimal    `json:"budgeted"`
	Spent              decimal.Decimal    `json:"spent"`
	Trend              domain.BudgetTrend `json:"trend"`
	Variance           decimal.Decimal    `json:"variance"`
	UtilizationPercent decimal.Decimal    `json:"utilizationPercent"`
	ForecastedYear     decimal.Decimal    `json:"forecastedYear"`
	CreatedAt          time.Time          `json:"createdAt"`
	CreatedBy          string             `json:"createdBy"`
	LastUpdatedAt      time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy      string             `json:"lastUpdatedBy"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:           b.BudgetID,
		Category:           b.Category,
		Budgeted:           b.Budgeted,
		Spent:              b.Spent,
		Trend:              b.Trend,
		Variance:           b.Budgeted.Sub(b.Spent),
		UtilizationPercent: accounting.UtilizationPercent(b.Budgeted, b.Spent),
		ForecastedYear:     accounting.ForecastedYear(b.Budgeted),
		CreatedAt:          b.CreatedAt,
		CreatedBy:          b.CreatedBy,
		LastUpdatedAt:      b.LastUpdatedAt,
		LastUpdatedBy:      b.LastUpdatedBy,
	}
}

// ToBudgetResponses converts a slice of budgets.
func ToBudgetResponses(budgets []domain.Budget) []BudgetResponse {
	res := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		res[i] = ToBudgetResponse(&budgets[i])
	}
	return res
}

// VarianceParams is the closed period a variance report covers.
type VarianceParams struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

// BudgetVarianceResponse wraps a variance report.
type BudgetVarianceResponse struct {
	From     string                  `json:"from"`
	To       string                  `json:"to"`
	Budgets  []domain.BudgetVariance `json:"budgets"`
	Budgeted decimal.Decimal         `json:"totalBudgeted"`
	Actual   decimal.Decimal         `json:"totalActual"`
}

// BudgetUtilizationResponse wraps a utilization report.
type BudgetUtilizationResponse struct {
	Budgets []domain.BudgetUtilization `json:"budgets"`
}

// CreateExpenseRequest records an expense against a budget category.
type CreateExpenseRequest struct {
	Category    string          `json:"category" binding:"required,max=100"`
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
	ExpenseDate string          `json:"expenseDate" binding:"required,datetime=2006-01-02"`
	Description string          `json:"description" binding:"max=500"`
}

// UpdateExpenseStatusRequest moves an expense through approval.
type UpdateExpenseStatusRequest struct {
	Status domain.ExpenseStatus `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
}

// ListExpensesParams filters the expense feed.
type ListExpensesParams struct {
	Category string `form:"category"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID   string               `json:"expenseID"`
	Category    string               `json:"category"`
	Amount      decimal.Decimal      `json:"amount"`
	ExpenseDate string               `json:"expenseDate"`
	Description string               `json:"description"`
	Status      domain.ExpenseStatus `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
	CreatedBy   string               `json:"createdBy"`
}

// ToExpenseResponse converts a domain.BudgetExpense to ExpenseResponse DTO.
func ToExpenseResponse(e *domain.BudgetExpense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:   e.ExpenseID,
		Category:    e.Category,
		Amount:      e.Amount,
		ExpenseDate: FormatDate(e.ExpenseDate),
		Description: e.Description,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ToExpenseResponses converts a slice of expenses.
func ToExpenseResponses(expenses []domain.BudgetExpense) []ExpenseResponse {
	res := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		res[i] = ToExpenseResponse(&expenses[i])
	}
	return res
}

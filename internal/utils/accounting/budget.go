package accounting

import (
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	atRiskThreshold     = decimal.NewFromInt(80)
	overBudgetThreshold = decimal.NewFromInt(100)
	monthsPerYear       = decimal.NewFromInt(12)
)

// Variance compares a budget with the actual approved spend.
func Variance(b domain.Budget, actual decimal.Decimal) domain.BudgetVariance {
	variance := b.Budgeted.Sub(actual)
	percent := decimal.Zero
	if !b.Budgeted.IsZero() {
		percent = variance.Div(b.Budgeted).Mul(hundred).Round(2)
	}
	status := domain.VarianceUnderBudget
	if variance.IsNegative() {
		status = domain.VarianceOverBudget
	}
	return domain.BudgetVariance{
		BudgetID:        b.BudgetID,
		Category:        b.Category,
		Budgeted:        b.Budgeted,
		Actual:          actual,
		Variance:        variance,
		VariancePercent: percent,
		Status:          status,
	}
}

// UtilizationPercent is spent / budgeted x 100, or zero for an empty budget.
func UtilizationPercent(budgeted, spent decimal.Decimal) decimal.Decimal {
	if budgeted.IsZero() {
		return decimal.Zero
	}
	return spent.Div(budgeted).Mul(hundred).Round(2)
}

// Utilization classifies a budget as on_track (<80%), at_risk (80-100%) or over_budget (>=100%).
// The second result is false for budgets with nothing budgeted.
func Utilization(b domain.Budget) (domain.BudgetUtilization, bool) {
	if b.Budgeted.IsZero() {
		return domain.BudgetUtilization{}, false
	}
	percent := b.Spent.Div(b.Budgeted).Mul(hundred)
	status := domain.UtilizationOnTrack
	switch {
	case percent.GreaterThanOrEqual(overBudgetThreshold):
		status = domain.UtilizationOverBudget
	case percent.GreaterThanOrEqual(atRiskThreshold):
		status = domain.UtilizationAtRisk
	}
	return domain.BudgetUtilization{
		BudgetID:           b.BudgetID,
		Category:           b.Category,
		Budgeted:           b.Budgeted,
		Spent:              b.Spent,
		UtilizationPercent: percent.Round(2),
		Status:             status,
	}, true
}

// ForecastedYear projects a monthly budget over twelve months.
func ForecastedYear(budgeted decimal.Decimal) decimal.Decimal {
	return budgeted.Mul(monthsPerYear)
}

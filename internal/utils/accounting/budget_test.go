package accounting_test

import (
	"testing"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
)

func TestVariance(t *testing.T) {
	tests := []struct {
		name        string
		budgeted    string
		actual      string
		wantVar     string
		wantPercent string
		wantStatus  string
	}{
		{"under budget", "1000", "250", "750", "75", domain.VarianceUnderBudget},
		{"exactly on budget", "1000", "1000", "0", "0", domain.VarianceUnderBudget},
		{"over budget", "1000", "1200", "-200", "-20", domain.VarianceOverBudget},
		{"zero budget", "0", "50", "-50", "0", domain.VarianceOverBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := accounting.Variance(domain.Budget{Category: "Rent", Budgeted: d(tt.budgeted)}, d(tt.actual))
			assert.True(t, d(tt.wantVar).Equal(v.Variance), "variance %s", v.Variance)
			assert.True(t, d(tt.wantPercent).Equal(v.VariancePercent), "percent %s", v.VariancePercent)
			assert.Equal(t, tt.wantStatus, v.Status)
		})
	}
}

func TestUtilization(t *testing.T) {
	tests := []struct {
		spent  string
		status string
	}{
		{"0", domain.UtilizationOnTrack},
		{"79.99", domain.UtilizationOnTrack},
		{"80", domain.UtilizationAtRisk},
		{"99.99", domain.UtilizationAtRisk},
		{"100", domain.UtilizationOverBudget},
		{"150", domain.UtilizationOverBudget},
	}

	for _, tt := range tests {
		t.Run(tt.spent, func(t *testing.T) {
			u, ok := accounting.Utilization(domain.Budget{Budgeted: d("100"), Spent: d(tt.spent)})
			assert.True(t, ok)
			assert.Equal(t, tt.status, u.Status)
		})
	}

	_, ok := accounting.Utilization(domain.Budget{Budgeted: d("0"), Spent: d("10")})
	assert.False(t, ok, "zero budgets are skipped")
}

func TestForecastedYear(t *testing.T) {
	assert.True(t, d("1200").Equal(accounting.ForecastedYear(d("100"))))
	assert.True(t, d("0").Equal(accounting.UtilizationPercent(d("0"), d("10"))))
	assert.True(t, d("33.33").Equal(accounting.UtilizationPercent(d("300"), d("100"))))
}

package accounting_test

import (
	"testing"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(accountID, debit, credit string) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: d(debit), Credit: d(credit)}
}

func TestValidateLineAmounts(t *testing.T) {
	tests := []struct {
		name    string
		debit   string
		credit  string
		wantErr bool
	}{
		{"debit only", "100", "0", false},
		{"credit only", "0", "99.99", false},
		{"negative debit", "-1", "0", true},
		{"negative credit", "0", "-5", true},
		{"three decimals", "10.001", "0", true},
		{"both sides", "10", "10", true},
		{"both zero", "0", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidateLineAmounts(d(tt.debit), d(tt.credit))
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBalanced(t *testing.T) {
	t.Run("balanced entry", func(t *testing.T) {
		err := accounting.ValidateBalanced([]domain.JournalLine{
			line("cash", "100", "0"),
			line("revenue", "0", "100"),
		})
		assert.NoError(t, err)
	})

	t.Run("one-sided lines still balance when sums match", func(t *testing.T) {
		err := accounting.ValidateBalanced([]domain.JournalLine{
			line("cash", "60.50", "0"),
			line("bank", "39.50", "0"),
			line("revenue", "0", "100.00"),
		})
		assert.NoError(t, err)
	})

	t.Run("debit 100 credit 90 is unbalanced", func(t *testing.T) {
		err := accounting.ValidateBalanced([]domain.JournalLine{
			line("cash", "100", "0"),
			line("revenue", "0", "90"),
		})
		assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
	})

	t.Run("single line is a validation error", func(t *testing.T) {
		err := accounting.ValidateBalanced([]domain.JournalLine{line("cash", "100", "0")})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.NotErrorIs(t, err, apperrors.ErrUnbalancedEntry)
	})

	t.Run("exact decimal comparison", func(t *testing.T) {
		lines := make([]domain.JournalLine, 0, 11)
		for i := 0; i < 10; i++ {
			lines = append(lines, line("cash", "0.10", "0"))
		}
		lines = append(lines, line("revenue", "0", "1.00"))
		assert.NoError(t, accounting.ValidateBalanced(lines))
	})
}

func TestBalanceChanges(t *testing.T) {
	accounts := map[string]domain.Account{
		"cash":    {AccountID: "cash", NormalBalance: domain.DebitNormal},
		"revenue": {AccountID: "revenue", NormalBalance: domain.CreditNormal},
	}

	t.Run("posting applies the normal-balance sign", func(t *testing.T) {
		changes, err := accounting.BalanceChanges([]domain.JournalLine{
			line("cash", "100", "0"),
			line("revenue", "0", "100"),
		}, accounts)
		require.NoError(t, err)
		assert.True(t, d("100").Equal(changes["cash"]))
		assert.True(t, d("100").Equal(changes["revenue"]))
	})

	t.Run("mirrored lines undo the original", func(t *testing.T) {
		original := []domain.JournalLine{
			line("cash", "100", "0"),
			line("revenue", "0", "100"),
		}
		ids := 0
		mirrored := accounting.MirrorLines(original, "rev-1", func() string {
			ids++
			return "line-" + string(rune('0'+ids))
		})

		require.Len(t, mirrored, 2)
		assert.Equal(t, "rev-1", mirrored[0].EntryID)
		assert.True(t, d("100").Equal(mirrored[0].Credit))
		assert.True(t, mirrored[0].Debit.IsZero())
		assert.Equal(t, 2, mirrored[1].LineNo)

		forward, err := accounting.BalanceChanges(original, accounts)
		require.NoError(t, err)
		backward, err := accounting.BalanceChanges(mirrored, accounts)
		require.NoError(t, err)
		for id, delta := range forward {
			assert.True(t, delta.Add(backward[id]).IsZero(), "account %s did not return to zero", id)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := accounting.BalanceChanges([]domain.JournalLine{line("ghost", "1", "0")}, accounts)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestSortedKeys(t *testing.T) {
	keys := accounting.SortedKeys(map[string]decimal.Decimal{"c": decimal.Zero, "a": decimal.Zero, "b": decimal.Zero})
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestStatementBalance(t *testing.T) {
	assert.True(t, d("400").Equal(accounting.StatementBalance(domain.Asset, d("500"), d("100"))))
	assert.True(t, d("-400").Equal(accounting.StatementBalance(domain.Liability, d("500"), d("100"))))
	assert.True(t, d("250").Equal(accounting.StatementBalance(domain.Revenue, d("0"), d("250"))))
	assert.True(t, d("75").Equal(accounting.StatementBalance(domain.Expense, d("75"), d("0"))))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, accounting.WithinTolerance(d("100.00"), d("100.00")))
	assert.True(t, accounting.WithinTolerance(d("100.005"), d("100.00")))
	assert.False(t, accounting.WithinTolerance(d("100.01"), d("100.00")))
}

func TestRunningLedger(t *testing.T) {
	lines := []domain.LedgerLine{
		{Debit: d("100"), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: d("30")},
		{Debit: decimal.Zero, Credit: d("120")},
	}

	closing := accounting.RunningLedger(lines)

	assert.True(t, d("100").Equal(lines[0].RunningBalance))
	assert.True(t, d("70").Equal(lines[1].RunningBalance))
	assert.True(t, d("-50").Equal(lines[2].RunningBalance))
	assert.True(t, d("-50").Equal(closing))
}

package accounting_test

import (
	"testing"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 18, 45, 0, 0, time.UTC)

	assert.Equal(t, 0, accounting.DaysBetween(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), asOf))
	assert.Equal(t, 45, accounting.DaysBetween(asOf.AddDate(0, 0, -45), asOf))
	assert.Equal(t, 366, accounting.DaysBetween(time.Date(2023, 6, 30, 23, 0, 0, 0, time.UTC), asOf))
}

func TestBucketIndex(t *testing.T) {
	tests := []struct {
		days int
		want int
	}{
		{0, 0}, {30, 0}, {31, 1}, {60, 1}, {61, 2}, {90, 2}, {91, 3}, {120, 3}, {121, 4}, {999, 4}, {-3, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, accounting.BucketIndex(tt.days), "days=%d", tt.days)
	}
}

func TestBuildAgingReport_ReceivableIn31To60(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	lines := []domain.AgingLine{
		{EntryID: "e1", Reference: "INV-1", AccountID: "ar", EntryDate: asOf.AddDate(0, 0, -45), Debit: d("250"), Credit: d("0")},
	}

	report := accounting.BuildAgingReport(domain.AgingReceivable, asOf, lines)

	require.Len(t, report.Buckets, 5)
	for i, b := range report.Buckets {
		if b.Label == "31-60" {
			require.Len(t, b.Items, 1, "bucket %d", i)
			assert.Equal(t, 45, b.Items[0].DaysOld)
			assert.True(t, d("250").Equal(b.Total))
			continue
		}
		assert.Empty(t, b.Items, "bucket %s", b.Label)
		assert.True(t, b.Total.IsZero(), "bucket %s", b.Label)
	}
	assert.True(t, d("250").Equal(report.GrandTotal))
}

func TestBuildAgingReport_Completeness(t *testing.T) {
	asOf := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	lines := []domain.AgingLine{
		{EntryID: "a", EntryDate: asOf.AddDate(0, 0, -5), Debit: d("0"), Credit: d("10")},
		{EntryID: "b", EntryDate: asOf.AddDate(0, 0, -70), Debit: d("0"), Credit: d("20.50")},
		{EntryID: "c", EntryDate: asOf.AddDate(0, 0, -100), Debit: d("0"), Credit: d("30")},
		{EntryID: "d", EntryDate: asOf.AddDate(0, 0, -400), Debit: d("0"), Credit: d("40")},
		{EntryID: "paid", EntryDate: asOf.AddDate(0, 0, -10), Debit: d("15"), Credit: d("0")},
	}

	report := accounting.BuildAgingReport(domain.AgingPayable, asOf, lines)

	seen := map[string]int{}
	sum := d("0")
	for _, b := range report.Buckets {
		for _, item := range b.Items {
			seen[item.EntryID]++
		}
		sum = sum.Add(b.Total)
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1, "d": 1}, seen)
	assert.True(t, sum.Equal(report.GrandTotal))
	assert.True(t, d("100.50").Equal(report.GrandTotal))
	assert.Equal(t, "120+", report.Buckets[4].Label)
	assert.Equal(t, -1, report.Buckets[4].MaxDays)
}

func TestOpenAmount(t *testing.T) {
	assert.True(t, d("40").Equal(accounting.OpenAmount(domain.AgingReceivable, d("100"), d("60"))))
	assert.True(t, d("-40").Equal(accounting.OpenAmount(domain.AgingPayable, d("100"), d("60"))))
}

package accounting

import (
	"sort"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

type bucketBounds struct {
	label   string
	minDays int
	maxDays int
}

// agingBuckets are contiguous and cover every non-negative age exactly once.
var agingBuckets = []bucketBounds{
	{"0-30", 0, 30},
	{"31-60", 31, 60},
	{"61-90", 61, 90},
	{"91-120", 91, 120},
	{"120+", 121, -1},
}

const hoursPerDay = 24

// DaysBetween returns the whole calendar days from `from` to `to`, ignoring time of day.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / hoursPerDay)
}

// BucketIndex returns the index of the aging bucket that holds an item daysOld days old.
func BucketIndex(daysOld int) int {
	if daysOld < 0 {
		daysOld = 0
	}
	for i, b := range agingBuckets {
		if b.maxDays < 0 || daysOld <= b.maxDays {
			return i
		}
	}
	return len(agingBuckets) - 1
}

// OpenAmount is the outstanding amount of a line for an aging kind; zero or negative means nothing is open.
func OpenAmount(kind domain.AgingKind, debit, credit decimal.Decimal) decimal.Decimal {
	if kind == domain.AgingPayable {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// BuildAgingReport places every line with a positive open amount into exactly one bucket.
// The grand total is the sum of bucket totals.
func BuildAgingReport(kind domain.AgingKind, asOf time.Time, lines []domain.AgingLine) domain.AgingReport {
	report := domain.AgingReport{
		Kind:       kind,
		AsOf:       asOf,
		Buckets:    make([]domain.AgingBucket, len(agingBuckets)),
		GrandTotal: decimal.Zero,
	}
	for i, b := range agingBuckets {
		report.Buckets[i] = domain.AgingBucket{
			Label:   b.label,
			MinDays: b.minDays,
			MaxDays: b.maxDays,
			Items:   []domain.AgingItem{},
			Total:   decimal.Zero,
		}
	}

	sorted := make([]domain.AgingLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EntryDate.Before(sorted[j].EntryDate)
	})

	for _, l := range sorted {
		amount := OpenAmount(kind, l.Debit, l.Credit)
		if !amount.IsPositive() {
			continue
		}
		days := DaysBetween(l.EntryDate, asOf)
		idx := BucketIndex(days)
		report.Buckets[idx].Items = append(report.Buckets[idx].Items, domain.AgingItem{
			EntryID:     l.EntryID,
			Reference:   l.Reference,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			EntryDate:   l.EntryDate,
			DaysOld:     days,
			Amount:      amount,
		})
		report.Buckets[idx].Total = report.Buckets[idx].Total.Add(amount)
	}

	for _, b := range report.Buckets {
		report.GrandTotal = report.GrandTotal.Add(b.Total)
	}
	return report
}

package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MinEntryLines is the minimum number of lines a journal entry must carry.
const MinEntryLines = 2

// BalanceTolerance is the tolerance used by report-level balanced flags.
var BalanceTolerance = decimal.NewFromFloat(0.01)

var hundred = decimal.NewFromInt(100)

// HasAtMostTwoDecimals reports whether d has no more than two fractional digits.
func HasAtMostTwoDecimals(d decimal.Decimal) bool {
	return HasAtMostDecimals(d, 2)
}

// HasAtMostDecimals reports whether d has no more than places significant fractional
// digits. Trailing zeros do not count.
func HasAtMostDecimals(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// ValidateLineAmounts checks a single line's debit and credit.
// Amounts must be non-negative with at most two decimals, and only one side may be non-zero.
func ValidateLineAmounts(debit, credit decimal.Decimal) error {
	if debit.IsNegative() || credit.IsNegative() {
		return fmt.Errorf("%w: debit and credit must not be negative", apperrors.ErrValidation)
	}
	if !HasAtMostTwoDecimals(debit) || !HasAtMostTwoDecimals(credit) {
		return fmt.Errorf("%w: amounts must have at most two decimal places", apperrors.ErrValidation)
	}
	if !debit.IsZero() && !credit.IsZero() {
		return fmt.Errorf("%w: a line cannot carry both a debit and a credit", apperrors.ErrValidation)
	}
	if debit.IsZero() && credit.IsZero() {
		return fmt.Errorf("%w: a line must carry a debit or a credit", apperrors.ErrValidation)
	}
	return nil
}

// SumLines returns the debit and credit totals of lines.
func SumLines(lines []domain.JournalLine) (decimal.Decimal, decimal.Decimal) {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}

// ValidateBalanced checks the double-entry invariant: at least two lines and
// debit and credit sums equal at two-decimal precision.
func ValidateBalanced(lines []domain.JournalLine) error {
	if len(lines) < MinEntryLines {
		return fmt.Errorf("%w: journal entry must have at least %d lines", apperrors.ErrValidation, MinEntryLines)
	}
	debits, credits := SumLines(lines)
	if !debits.Round(2).Equal(credits.Round(2)) {
		return fmt.Errorf("%w: debits %s do not equal credits %s",
			apperrors.ErrUnbalancedEntry, debits.StringFixed(2), credits.StringFixed(2))
	}
	return nil
}

// BalanceChanges computes the per-account delta of posting lines.
// Every referenced account must be present in accounts.
func BalanceChanges(lines []domain.JournalLine, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(accounts))
	for _, l := range lines {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return nil, apperrors.NewNotFoundError("account " + l.AccountID + " not found")
		}
		changes[l.AccountID] = changes[l.AccountID].Add(acc.NormalBalance.Delta(l.Debit, l.Credit))
	}
	return changes, nil
}

// MirrorLines returns lines with debit and credit swapped, renumbered and attached to entryID.
// newID supplies the line ids.
func MirrorLines(lines []domain.JournalLine, entryID string, newID func() string) []domain.JournalLine {
	mirrored := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		mirrored[i] = domain.JournalLine{
			LineID:      newID(),
			EntryID:     entryID,
			LineNo:      i + 1,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Memo:        l.Memo,
		}
	}
	return mirrored
}

// SortedKeys returns the keys of m in ascending order. Locking accounts in this
// order keeps concurrent postings from deadlocking.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StatementBalance applies the account type's sign to a raw debit-minus-credit figure.
func StatementBalance(accountType domain.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	return debit.Sub(credit).Mul(accountType.ReportSign())
}

// WithinTolerance reports whether |a - b| < BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(BalanceTolerance)
}

// RunningLedger fills RunningBalance on date-ordered lines with a raw
// debit-minus-credit running total and returns the closing figure.
func RunningLedger(lines []domain.LedgerLine) decimal.Decimal {
	running := decimal.Zero
	for i := range lines {
		running = running.Add(lines[i].Debit).Sub(lines[i].Credit)
		lines[i].RunningBalance = running
	}
	return running
}

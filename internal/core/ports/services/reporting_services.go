package services

import (
	"context"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
)

// ReportingService defines operations for generating financial reports.
// Every report is computed from posted journal lines, never from cached balances.
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, tenantID string, asOf time.Time) (*domain.TrialBalanceReport, error)

	// ProfitAndLoss generates a profit and loss report for a specific period
	ProfitAndLoss(ctx context.Context, tenantID string, from, to time.Time) (*domain.PAndLReport, error)

	// BalanceSheet generates a balance sheet report as of a specific date
	BalanceSheet(ctx context.Context, tenantID string, asOf time.Time) (*domain.BalanceSheetReport, error)

	// AccountBalance returns an account's statement balance as of a date, or over [from, to] when from is set.
	AccountBalance(ctx context.Context, tenantID string, accountID string, from *time.Time, to time.Time) (*domain.AccountBalanceReport, error)

	// Aging buckets open receivables or payables by age.
	Aging(ctx context.Context, tenantID string, kind domain.AgingKind, asOf time.Time, group string) (*domain.AgingReport, error)
}

package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
)

// ActivityQuery selects the posted activity a report needs.
type ActivityQuery struct {
	TenantID  string
	AccountID string
	Types     []domain.AccountType
	// From is inclusive; nil means from the beginning of the ledger.
	From *time.Time
	// To is inclusive.
	To time.Time
}

// ReportingRepository defines operations for retrieving financial report data
type ReportingRepository interface {
	// GetAccountActivity returns raw debit and credit sums of the tenant's posted lines for
	// every visible account matching the query, including accounts with no activity.
	GetAccountActivity(ctx context.Context, q ActivityQuery) ([]domain.AccountActivity, error)

	// GetOpenItemLines returns lines of posted, non-reversal entries on accounts of the given
	// type dated on or before asOf. A non-empty group narrows the accounts.
	GetOpenItemLines(ctx context.Context, tenantID string, accountType domain.AccountType, asOf time.Time, group string) ([]domain.AgingLine, error)
}

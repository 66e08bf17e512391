package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode resolves a code for a tenant: the tenant's own account first, then a shared one.
	FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts lists the tenant's accounts together with the shared ones.
	// An empty tenantID lists only shared accounts.
	ListAccounts(ctx context.Context, tenantID string, filter domain.AccountFilter) ([]domain.Account, error)
}

// LedgerReader defines read access to the posted lines of an account
type LedgerReader interface {
	// ListPostedLinesByAccount returns the tenant's posted lines for an account in
	// ascending entry date order, optionally restricted to [from, to].
	ListPostedLinesByAccount(ctx context.Context, tenantID, accountID string, from, to *time.Time) ([]domain.LedgerLine, error)

	// SumPostedActivity returns raw debit and credit totals per account over every
	// posted line, regardless of the tenant that posted it.
	SumPostedActivity(ctx context.Context, accountIDs []string) (map[string]domain.AccountActivity, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and its audit record.
	SaveAccount(ctx context.Context, account domain.Account, audit domain.AuditRecord) error

	// UpdateAccount updates an existing account's mutable details.
	UpdateAccount(ctx context.Context, account domain.Account, audit domain.AuditRecord) error

	// ResetAccountBalances locks the accounts, recomputes each balance from posted
	// lines and rewrites the ones that drifted, all in one transaction.
	ResetAccountBalances(ctx context.Context, accountIDs []string, userID string, now time.Time, audit domain.AuditRecord) ([]domain.BalanceDrift, error)
}

// AccountTransactionSupport defines operations that support account transactions
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them for update within a transaction.
	// Rows are locked in ascending id order.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx adds balance deltas to multiple accounts within a given transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	LedgerReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}

package services

import (
	"context"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account visible to the tenant.
	GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)

	// GetAccountByCode resolves a code to the tenant's own account, falling back to a shared one.
	GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)

	// GetAccountsByIDs retrieves several accounts, all of which must be visible to the tenant.
	GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts lists the tenant's accounts and the shared ones.
	ListAccounts(ctx context.Context, tenantID string, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account. An empty tenantID creates a shared account.
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
}

// AccountLedgerSvc defines the statement and balance-maintenance operations
type AccountLedgerSvc interface {
	// GetLedger returns the account's posted lines in date order with a raw debit-minus-credit running total.
	GetLedger(ctx context.Context, tenantID string, accountID string, from, to *time.Time) (*domain.AccountLedger, error)

	// ReconcileBalances compares every visible account's cached balance with its posted
	// line history and, when apply is set, rewrites the drifted balances the tenant owns.
	ReconcileBalances(ctx context.Context, tenantID string, apply bool, userID string) (*dto.ReconcileResponse, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountLedgerSvc
}

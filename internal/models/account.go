package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// NormalBalance is stored as DEBIT or CREDIT.
type NormalBalance string

// Account represents a row of the accounts table.
type Account struct {
	AccountID       string          `db:"account_id"`
	TenantID        *string         `db:"tenant_id"` // NULL for shared accounts
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	NormalBalance   NormalBalance   `db:"normal_balance"`
	Group           string          `db:"account_group"`
	ParentAccountID *string         `db:"parent_account_id"`
	Description     string          `db:"description"`
	IsActive        bool            `db:"is_active"`
	Balance         decimal.Decimal `db:"balance"`
	AuditFields
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AllAccountTypes lists account types in statement order.
var AllAccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// DefaultNormalBalance is the side on which an account of this type naturally increases.
func (t AccountType) DefaultNormalBalance() NormalBalance {
	switch t {
	case Liability, Equity, Revenue:
		return CreditNormal
	default:
		return DebitNormal
	}
}

// ReportSign is the multiplier applied to a raw debit-minus-credit figure in financial statements.
func (t AccountType) ReportSign() decimal.Decimal {
	return t.DefaultNormalBalance().Sign()
}

// NormalBalance is the side (debit or credit) that increases an account's balance.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

var (
	plusOne  = decimal.NewFromInt(1)
	minusOne = decimal.NewFromInt(-1)
)

// IsValid reports whether n is DEBIT or CREDIT.
func (n NormalBalance) IsValid() bool {
	return n == DebitNormal || n == CreditNormal
}

// Sign returns +1 for debit-normal and -1 for credit-normal.
func (n NormalBalance) Sign() decimal.Decimal {
	if n == CreditNormal {
		return minusOne
	}
	return plusOne
}

// Delta is the change a line with the given debit and credit makes to an account with this normal balance.
func (n NormalBalance) Delta(debit, credit decimal.Decimal) decimal.Decimal {
	return debit.Sub(credit).Mul(n.Sign())
}

// Account represents a financial account in the chart of accounts.
// A nil TenantID marks a shared system account visible to every tenant.
type Account struct {
	AccountID       string          `json:"accountID"`
	TenantID        *string         `json:"tenantID,omitempty"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	NormalBalance   NormalBalance   `json:"normalBalance"`
	Group           string          `json:"group"`
	ParentAccountID *string         `json:"parentAccountID,omitempty"`
	Description     string          `json:"description"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"`
	AuditFields
}

// IsShared reports whether the account is a system account without a tenant.
func (a Account) IsShared() bool {
	return a.TenantID == nil
}

// VisibleTo reports whether tenantID may read the account.
func (a Account) VisibleTo(tenantID string) bool {
	return a.TenantID == nil || *a.TenantID == tenantID
}

// OwnedBy reports whether tenantID may modify the account.
func (a Account) OwnedBy(tenantID string) bool {
	if a.TenantID == nil {
		return tenantID == ""
	}
	return *a.TenantID == tenantID
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	Type   *AccountType
	Active *bool
	Search string
}

// LedgerLine is a posted journal line as shown on an account statement.
type LedgerLine struct {
	LineID         string          `json:"lineID"`
	EntryID        string          `json:"entryID"`
	Reference      string          `json:"reference"`
	EntryDate      time.Time       `json:"entryDate"`
	Description    string          `json:"description"`
	Memo           string          `json:"memo"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	CreatedAt      time.Time       `json:"-"`
}

// AccountLedger is an account statement over an optional date range.
type AccountLedger struct {
	Account        Account         `json:"account"`
	From           *time.Time      `json:"from,omitempty"`
	To             *time.Time      `json:"to,omitempty"`
	Lines          []LedgerLine    `json:"lines"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// BalanceDrift compares an account's cached balance with the one recomputed from posted lines.
type BalanceDrift struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Cached    decimal.Decimal `json:"cached"`
	Computed  decimal.Decimal `json:"computed"`
	Drift     decimal.Decimal `json:"drift"`
	Applied   bool            `json:"applied"`
}

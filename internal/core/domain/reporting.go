package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountActivity is the raw debit and credit total of one account's posted lines.
type AccountActivity struct {
	AccountID   string
	Code        string
	Name        string
	AccountType AccountType
	Group       string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Net returns debit minus credit.
func (a AccountActivity) Net() decimal.Decimal {
	return a.Debit.Sub(a.Credit)
}

// AccountAmount represents an account with its statement balance.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// BalanceSheetReport represents a balance sheet as of a date.
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	Balanced         bool            `json:"balanced"`
}

// PAndLReport represents a profit and loss statement over a closed date range.
type PAndLReport struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Revenue      []AccountAmount `json:"revenue"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetIncome    decimal.Decimal `json:"netIncome"`
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport represents a trial balance as of a date.
type TrialBalanceReport struct {
	AsOf         time.Time         `json:"asOf"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	Balanced     bool              `json:"balanced"`
}

// AccountBalanceReport is the statement balance of one account, as of To or over [From, To].
type AccountBalanceReport struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	From        *time.Time      `json:"from,omitempty"`
	To          time.Time       `json:"to"`
	Balance     decimal.Decimal `json:"balance"`
}

// AgingKind selects receivables or payables.
type AgingKind string

const (
	AgingReceivable AgingKind = "AR"
	AgingPayable    AgingKind = "AP"
)

// IsValid reports whether k is AR or AP.
func (k AgingKind) IsValid() bool {
	return k == AgingReceivable || k == AgingPayable
}

// AccountType returns the account type an aging report of this kind reads.
func (k AgingKind) AccountType() AccountType {
	if k == AgingPayable {
		return Liability
	}
	return Asset
}

// AgingLine is a posted line considered for aging.
type AgingLine struct {
	LineID      string
	EntryID     string
	Reference   string
	EntryDate   time.Time
	AccountID   string
	AccountCode string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// AgingItem is an open amount placed in exactly one bucket.
type AgingItem struct {
	EntryID     string          `json:"entryID"`
	Reference   string          `json:"reference"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	EntryDate   time.Time       `json:"entryDate"`
	DaysOld     int             `json:"daysOld"`
	Amount      decimal.Decimal `json:"amount"`
}

// AgingBucket groups items whose age falls in [MinDays, MaxDays]. MaxDays < 0 means unbounded.
type AgingBucket struct {
	Label   string          `json:"label"`
	MinDays int             `json:"minDays"`
	MaxDays int             `json:"maxDays"`
	Items   []AgingItem     `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

// AgingReport is an AR or AP aging as of a date.
type AgingReport struct {
	Kind       AgingKind       `json:"kind"`
	AsOf       time.Time       `json:"asOf"`
	Buckets    []AgingBucket   `json:"buckets"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

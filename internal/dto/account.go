package dto

import (
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string                `json:"code" binding:"required,max=32"`
	Name            string                `json:"name" binding:"required,max=255"`
	AccountType     domain.AccountType    `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance   *domain.NormalBalance `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"` // defaults from the account type
	Group           string                `json:"group" binding:"max=100"`
	ParentAccountID *string               `json:"parentAccountID"`
	Description     string                `json:"description"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Code, type and normal balance are fixed at creation.
type UpdateAccountRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=255"`
	Group           *string `json:"group" binding:"omitempty,max=100"`
	Description     *string `json:"description"`
	IsActive        *bool   `json:"isActive"`
	ParentAccountID *string `json:"parentAccountID"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Type   string `form:"type" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Active *bool  `form:"active"`
	Search string `form:"search"`
}

// ToFilter converts the query parameters into a repository filter.
func (p ListAccountsParams) ToFilter() domain.AccountFilter {
	filter := domain.AccountFilter{Active: p.Active, Search: p.Search}
	if p.Type != "" {
		t := domain.AccountType(p.Type)
		filter.Type = &t
	}
	return filter
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string               `json:"accountID"`
	Code            string               `json:"code"`
	Name            string               `json:"name"`
	AccountType     domain.AccountType   `json:"accountType"`
	NormalBalance   domain.NormalBalance `json:"normalBalance"`
	Group           string               `json:"group"`
	ParentAccountID string               `json:"parentAccountID,omitempty"`
	Description     string               `json:"description"`
	IsActive        bool                 `json:"isActive"`
	Shared          bool                 `json:"shared"`
	Balance         decimal.Decimal      `json:"balance"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
	LastUpdatedAt   time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy   string               `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	res := AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		NormalBalance: acc.NormalBalance,
		Group:         acc.Group,
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		Shared:        acc.IsShared(),
		Balance:       acc.Balance,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
	if acc.ParentAccountID != nil {
		res.ParentAccountID = *acc.ParentAccountID
	}
	return res
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// LedgerParams defines the optional date range of an account ledger.
type LedgerParams struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// LedgerLineResponse is one posted line of an account statement.
type LedgerLineResponse struct {
	EntryID        string          `json:"entryID"`
	Reference      string          `json:"reference"`
	EntryDate      string          `json:"entryDate"`
	Description    string          `json:"description"`
	Memo           string          `json:"memo"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountLedgerResponse is an account statement over a date range.
type AccountLedgerResponse struct {
	Account        AccountResponse      `json:"account"`
	From           string               `json:"from,omitempty"`
	To             string               `json:"to,omitempty"`
	Lines          []LedgerLineResponse `json:"lines"`
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
}

// ToAccountLedgerResponse converts a domain.AccountLedger to its DTO.
func ToAccountLedgerResponse(l *domain.AccountLedger) AccountLedgerResponse {
	res := AccountLedgerResponse{
		Account:        ToAccountResponse(&l.Account),
		From:           formatOptionalDate(l.From),
		To:             formatOptionalDate(l.To),
		Lines:          make([]LedgerLineResponse, len(l.Lines)),
		ClosingBalance: l.ClosingBalance,
	}
	for i, line := range l.Lines {
		res.Lines[i] = LedgerLineResponse{
			EntryID:        line.EntryID,
			Reference:      line.Reference,
			EntryDate:      FormatDate(line.EntryDate),
			Description:    line.Description,
			Memo:           line.Memo,
			Debit:          line.Debit,
			Credit:         line.Credit,
			RunningBalance: line.RunningBalance,
		}
	}
	return res
}

// ReconcileParams controls whether drifted balances are rewritten.
type ReconcileParams struct {
	Apply bool `form:"apply"`
}

// ReconcileResponse lists the accounts whose cached balance drifted from the ledger.
type ReconcileResponse struct {
	Checked int                   `json:"checked"`
	Drifts  []domain.BalanceDrift `json:"drifts"`
}

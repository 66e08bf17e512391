package dto

import (
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AsOfParams selects a report date; empty means today.
type AsOfParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// PeriodParams selects a closed reporting period.
type PeriodParams struct {
	FromDate string `form:"fromDate" binding:"required,datetime=2006-01-02"`
	ToDate   string `form:"toDate" binding:"required,datetime=2006-01-02"`
}

// AccountBalanceParams selects either a point-in-time balance (asOf) or a period balance (fromDate and toDate).
type AccountBalanceParams struct {
	AsOf     string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
	FromDate string `form:"fromDate" binding:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"toDate" binding:"omitempty,datetime=2006-01-02"`
}

// AgingParams selects an AR or AP aging report.
type AgingParams struct {
	Type  string `form:"type" binding:"required,oneof=AR AP"`
	AsOf  string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
	Group string `form:"group"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

func toAccountAmountResponses(amounts []domain.AccountAmount) []AccountAmountResponse {
	res := make([]AccountAmountResponse, len(amounts))
	for i, a := range amounts {
		res[i] = AccountAmountResponse{AccountID: a.AccountID, Code: a.Code, Name: a.Name, Amount: a.Amount}
	}
	return res
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		Balanced         bool            `json:"balanced"`
	} `json:"summary"`
}

// ToBalanceSheetResponse converts a domain balance sheet report to a DTO response
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	res := BalanceSheetResponse{
		AsOf:        FormatDate(report.AsOf),
		Assets:      toAccountAmountResponses(report.Assets),
		Liabilities: toAccountAmountResponses(report.Liabilities),
		Equity:      toAccountAmountResponses(report.Equity),
	}
	res.Summary.TotalAssets = report.TotalAssets
	res.Summary.TotalLiabilities = report.TotalLiabilities
	res.Summary.TotalEquity = report.TotalEquity
	res.Summary.Balanced = report.Balanced
	return res
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	FromDate string                  `json:"fromDate"`
	ToDate   string                  `json:"toDate"`
	Revenue  []AccountAmountResponse `json:"revenue"`
	Expenses []AccountAmountResponse `json:"expenses"`
	Summary  struct {
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetIncome     decimal.Decimal `json:"netIncome"`
	} `json:"summary"`
}

// ToProfitAndLossResponse converts a domain P&L report to a DTO response
func ToProfitAndLossResponse(report *domain.PAndLReport) ProfitAndLossResponse {
	res := ProfitAndLossResponse{
		FromDate: FormatDate(report.From),
		ToDate:   FormatDate(report.To),
		Revenue:  toAccountAmountResponses(report.Revenue),
		Expenses: toAccountAmountResponses(report.Expenses),
	}
	res.Summary.TotalRevenue = report.TotalRevenue
	res.Summary.TotalExpenses = report.TotalExpense
	res.Summary.NetIncome = report.NetIncome
	return res
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit    decimal.Decimal `json:"debit"`
		Credit   decimal.Decimal `json:"credit"`
		Balanced bool            `json:"balanced"`
	} `json:"totals"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	res := TrialBalanceResponse{
		AsOf: FormatDate(report.AsOf),
		Rows: make([]TrialBalanceRowResponse, len(report.Rows)),
	}
	for i, row := range report.Rows {
		res.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			Code:        row.Code,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	res.Totals.Debit = report.TotalDebits
	res.Totals.Credit = report.TotalCredits
	res.Totals.Balanced = report.Balanced
	return res
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID   string             `json:"accountID"`
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"accountType"`
	FromDate    string             `json:"fromDate,omitempty"`
	ToDate      string             `json:"toDate"`
	Balance     decimal.Decimal    `json:"balance"`
}

// ToAccountBalanceResponse converts a domain account balance report.
func ToAccountBalanceResponse(report *domain.AccountBalanceReport) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:   report.AccountID,
		Code:        report.Code,
		Name:        report.Name,
		AccountType: report.AccountType,
		FromDate:    formatOptionalDate(report.From),
		ToDate:      FormatDate(report.To),
		Balance:     report.Balance,
	}
}

// AgingItemResponse is one open item in an aging bucket.
type AgingItemResponse struct {
	EntryID     string          `json:"entryID"`
	Reference   string          `json:"reference"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	EntryDate   string          `json:"entryDate"`
	DaysOld     int             `json:"daysOld"`
	Amount      decimal.Decimal `json:"amount"`
}

// AgingBucketResponse is one age band of an aging report.
type AgingBucketResponse struct {
	Label string              `json:"label"`
	Items []AgingItemResponse `json:"items"`
	Total decimal.Decimal     `json:"total"`
}

// AgingResponse represents an AR or AP aging report.
type AgingResponse struct {
	Type       domain.AgingKind      `json:"type"`
	AsOf       string                `json:"asOf"`
	Buckets    []AgingBucketResponse `json:"buckets"`
	GrandTotal decimal.Decimal       `json:"grandTotal"`
}

// ToAgingResponse converts a domain aging report to a DTO response.
func ToAgingResponse(report *domain.AgingReport) AgingResponse {
	res := AgingResponse{
		Type:       report.Kind,
		AsOf:       FormatDate(report.AsOf),
		Buckets:    make([]AgingBucketResponse, len(report.Buckets)),
		GrandTotal: report.GrandTotal,
	}
	for i, b := range report.Buckets {
		items := make([]AgingItemResponse, len(b.Items))
		for j, item := range b.Items {
			items[j] = AgingItemResponse{
				EntryID:     item.EntryID,
				Reference:   item.Reference,
				AccountCode: item.AccountCode,
				AccountName: item.AccountName,
				EntryDate:   FormatDate(item.EntryDate),
				DaysOld:     item.DaysOld,
				Amount:      item.Amount,
			}
		}
		res.Buckets[i] = AgingBucketResponse{Label: b.Label, Items: items, Total: b.Total}
	}
	return res
}

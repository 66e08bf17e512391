package services

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// CurrentEarningsName labels the balance sheet equity line carrying revenue minus expense to date.
const CurrentEarningsName = "Current earnings"

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, accountRepo portsrepo.AccountReader, options ...ServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		accountRepo:   accountRepo,
	}
	svc.apply(options)
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) activity(ctx context.Context, q portsrepo.ActivityQuery) ([]domain.AccountActivity, error) {
	rows, err := s.reportingRepo.GetAccountActivity(ctx, q)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve account activity",
			slog.String("tenant_id", q.TenantID),
			slog.String("to", q.To.Format(time.DateOnly)))
		return nil, err
	}
	return rows, nil
}

// TrialBalance splits each account's debit-minus-credit net into a debit column when
// positive and a credit column when negative. Accounts with no net are left out.
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	rows, err := s.activity(ctx, portsrepo.ActivityQuery{TenantID: tenantID, To: asOf})
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalanceReport{
		AsOf:         asOf,
		Rows:         []domain.TrialBalanceRow{},
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}
	for _, a := range rows {
		net := a.Net()
		if net.IsZero() {
			continue
		}
		row := domain.TrialBalanceRow{
			AccountID:   a.AccountID,
			Code:        a.Code,
			AccountName: a.Name,
			AccountType: a.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if net.IsPositive() {
			row.Debit = net
			report.TotalDebits = report.TotalDebits.Add(net)
		} else {
			row.Credit = net.Abs()
			report.TotalCredits = report.TotalCredits.Add(row.Credit)
		}
		report.Rows = append(report.Rows, row)
	}
	report.Balanced = accounting.WithinTolerance(report.TotalDebits, report.TotalCredits)

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.Int("row_count", len(report.Rows)),
		slog.Bool("balanced", report.Balanced))
	return report, nil
}

// ProfitAndLoss generates a profit and loss report for a specific period
func (s *reportingService) ProfitAndLoss(ctx context.Context, tenantID string, from, to time.Time) (*domain.PAndLReport, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, apperrors.NewValidationError("fromDate must not be after toDate", nil)
	}
	rows, err := s.activity(ctx, portsrepo.ActivityQuery{
		TenantID: tenantID,
		Types:    []domain.AccountType{domain.Revenue, domain.Expense},
		From:     &from,
		To:       to,
	})
	if err != nil {
		return nil, err
	}

	report := &domain.PAndLReport{
		From:         from,
		To:           to,
		Revenue:      []domain.AccountAmount{},
		Expenses:     []domain.AccountAmount{},
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, a := range rows {
		amount := statementAmount(a)
		switch a.AccountType {
		case domain.Revenue:
			report.Revenue = append(report.Revenue, amount)
			report.TotalRevenue = report.TotalRevenue.Add(amount.Amount)
		case domain.Expense:
			report.Expenses = append(report.Expenses, amount)
			report.TotalExpense = report.TotalExpense.Add(amount.Amount)
		}
	}
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpense)

	s.LogInfo(ctx, "Profit and loss report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.String("from", from.Format(time.DateOnly)),
		slog.String("to", to.Format(time.DateOnly)),
		slog.Int("revenue_accounts", len(report.Revenue)),
		slog.Int("expense_accounts", len(report.Expenses)))
	return report, nil
}

// BalanceSheet groups statement balances as of asOf. Revenue and expense accounts are
// never closed, so their net to date is shown as a current earnings line under equity.
func (s *reportingService) BalanceSheet(ctx context.Context, tenantID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	rows, err := s.activity(ctx, portsrepo.ActivityQuery{TenantID: tenantID, To: asOf})
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		AsOf:             asOf,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	earnings := decimal.Zero
	for _, a := range rows {
		amount := statementAmount(a)
		switch a.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(amount.Amount)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(amount.Amount)
		case domain.Equity:
			report.Equity = append(report.Equity, amount)
			report.TotalEquity = report.TotalEquity.Add(amount.Amount)
		case domain.Revenue:
			earnings = earnings.Add(amount.Amount)
		case domain.Expense:
			earnings = earnings.Sub(amount.Amount)
		}
	}
	if !earnings.IsZero() {
		report.Equity = append(report.Equity, domain.AccountAmount{Name: CurrentEarningsName, Amount: earnings})
		report.TotalEquity = report.TotalEquity.Add(earnings)
	}
	report.Balanced = accounting.WithinTolerance(report.TotalAssets, report.TotalLiabilities.Add(report.TotalEquity))

	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.Int("asset_accounts", len(report.Assets)),
		slog.Int("liability_accounts", len(report.Liabilities)),
		slog.Int("equity_accounts", len(report.Equity)),
		slog.Bool("balanced", report.Balanced))
	return report, nil
}

// AccountBalance returns a single account's statement balance as of to, or over [from, to].
func (s *reportingService) AccountBalance(ctx context.Context, tenantID string, accountID string, from *time.Time, to time.Time) (*domain.AccountBalanceReport, error) {
	if from != nil && from.After(to) {
		return nil, apperrors.NewValidationError("fromDate must not be after toDate", nil)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find account for balance", slog.String("account_id", accountID))
		return nil, err
	}
	if !account.VisibleTo(tenantID) {
		return nil, authorizeTenant(tenantID, *account.TenantID, domain.TargetAccount, accountID)
	}

	rows, err := s.activity(ctx, portsrepo.ActivityQuery{TenantID: tenantID, AccountID: accountID, From: from, To: to})
	if err != nil {
		return nil, err
	}
	balance := decimal.Zero
	for _, a := range rows {
		balance = balance.Add(accounting.StatementBalance(a.AccountType, a.Debit, a.Credit))
	}

	return &domain.AccountBalanceReport{
		AccountID:   account.AccountID,
		Code:        account.Code,
		Name:        account.Name,
		AccountType: account.AccountType,
		From:        from,
		To:          to,
		Balance:     balance,
	}, nil
}

// Aging buckets the open receivables or payables as of asOf.
func (s *reportingService) Aging(ctx context.Context, tenantID string, kind domain.AgingKind, asOf time.Time, group string) (*domain.AgingReport, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, apperrors.NewAppError(http.StatusBadRequest, "aging type must be AR or AP", apperrors.ErrValidation)
	}
	lines, err := s.reportingRepo.GetOpenItemLines(ctx, tenantID, kind.AccountType(), asOf, group)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve open items",
			slog.String("tenant_id", tenantID),
			slog.String("kind", string(kind)))
		return nil, err
	}
	report := accounting.BuildAgingReport(kind, asOf, lines)

	s.LogInfo(ctx, "Aging report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.String("kind", string(kind)),
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.String("grand_total", report.GrandTotal.StringFixed(2)))
	return &report, nil
}

func statementAmount(a domain.AccountActivity) domain.AccountAmount {
	return domain.AccountAmount{
		AccountID: a.AccountID,
		Code:      a.Code,
		Name:      a.Name,
		Amount:    accounting.StatementBalance(a.AccountType, a.Debit, a.Credit),
	}
}

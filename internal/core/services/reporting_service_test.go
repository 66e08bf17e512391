package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	reportingRepo *MockReportingRepository
	accountRepo   *MockAccountRepository
	service       portssvc.ReportingService
	tenantID      string
	asOf          time.Time
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.reportingRepo = new(MockReportingRepository)
	s.accountRepo = new(MockAccountRepository)
	s.service = services.NewReportingService(s.reportingRepo, s.accountRepo, services.WithClock(fixedClock))
	s.tenantID = "tenant-1"
	s.asOf = time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func activity(id, code string, t domain.AccountType, debit, credit string) domain.AccountActivity {
	return domain.AccountActivity{AccountID: id, Code: code, Name: code, AccountType: t, Debit: dec(debit), Credit: dec(credit)}
}

func (s *ReportingServiceTestSuite) TestTrialBalance_CashAndLoan() {
	ctx := context.Background()
	s.reportingRepo.On("GetAccountActivity", ctx, portsrepo.ActivityQuery{TenantID: s.tenantID, To: s.asOf}).Return([]domain.AccountActivity{
		activity("cash", "1000", domain.Asset, "500", "0"),
		activity("loan", "2100", domain.Liability, "0", "500"),
		activity("idle", "3000", domain.Equity, "0", "0"),
	}, nil).Once()

	report, err := s.service.TrialBalance(ctx, s.tenantID, s.asOf)

	s.Require().NoError(err)
	s.Require().Len(report.Rows, 2, "accounts with no net are dropped")
	s.True(report.Rows[0].Debit.Equal(dec("500")))
	s.True(report.Rows[0].Credit.IsZero())
	s.True(report.Rows[1].Credit.Equal(dec("500")))
	s.True(report.TotalDebits.Equal(dec("500")))
	s.True(report.TotalCredits.Equal(dec("500")))
	s.True(report.Balanced)
}

func (s *ReportingServiceTestSuite) TestProfitAndLoss() {
	ctx := context.Background()
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s.reportingRepo.On("GetAccountActivity", ctx, mock.MatchedBy(func(q portsrepo.ActivityQuery) bool {
		return q.From != nil && q.From.Equal(from) && q.To.Equal(s.asOf) && len(q.Types) == 2
	})).Return([]domain.AccountActivity{
		activity("sales", "4000", domain.Revenue, "10", "310"),
		activity("rent", "5000", domain.Expense, "120", "0"),
	}, nil).Once()

	report, err := s.service.ProfitAndLoss(ctx, s.tenantID, from, s.asOf)

	s.Require().NoError(err)
	s.True(report.TotalRevenue.Equal(dec("300")))
	s.True(report.TotalExpense.Equal(dec("120")))
	s.True(report.NetIncome.Equal(dec("180")))
}

func (s *ReportingServiceTestSuite) TestProfitAndLoss_InvertedPeriod() {
	_, err := s.service.ProfitAndLoss(context.Background(), s.tenantID, s.asOf, s.asOf.AddDate(0, 0, -1))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReportingServiceTestSuite) TestBalanceSheet_BalancesWithCurrentEarnings() {
	ctx := context.Background()
	s.reportingRepo.On("GetAccountActivity", ctx, portsrepo.ActivityQuery{TenantID: s.tenantID, To: s.asOf}).Return([]domain.AccountActivity{
		activity("cash", "1000", domain.Asset, "1300", "120"),
		activity("loan", "2100", domain.Liability, "0", "500"),
		activity("capital", "3000", domain.Equity, "0", "500"),
		activity("sales", "4000", domain.Revenue, "0", "300"),
		activity("rent", "5000", domain.Expense, "120", "0"),
	}, nil).Once()

	report, err := s.service.BalanceSheet(ctx, s.tenantID, s.asOf)

	s.Require().NoError(err)
	s.True(report.TotalAssets.Equal(dec("1180")))
	s.True(report.TotalLiabilities.Equal(dec("500")))
	s.True(report.TotalEquity.Equal(dec("680")))
	s.Require().Len(report.Equity, 2)
	s.Equal(services.CurrentEarningsName, report.Equity[1].Name)
	s.True(report.Equity[1].Amount.Equal(dec("180")))
	s.True(report.Balanced)
}

func (s *ReportingServiceTestSuite) TestAccountBalance_Period() {
	ctx := context.Background()
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	loan := &domain.Account{AccountID: "loan", TenantID: &s.tenantID, Code: "2100", Name: "Loan", AccountType: domain.Liability}
	s.accountRepo.On("FindAccountByID", ctx, "loan").Return(loan, nil).Once()
	s.reportingRepo.On("GetAccountActivity", ctx, portsrepo.ActivityQuery{TenantID: s.tenantID, AccountID: "loan", From: &from, To: s.asOf}).
		Return([]domain.AccountActivity{activity("loan", "2100", domain.Liability, "100", "600")}, nil).Once()

	report, err := s.service.AccountBalance(ctx, s.tenantID, "loan", &from, s.asOf)

	s.Require().NoError(err)
	s.True(report.Balance.Equal(dec("500")))
	s.Equal(&from, report.From)
}

func (s *ReportingServiceTestSuite) TestAccountBalance_OtherTenant() {
	ctx := context.Background()
	other := "tenant-2"
	s.accountRepo.On("FindAccountByID", ctx, "acc").Return(&domain.Account{AccountID: "acc", TenantID: &other}, nil).Once()

	_, err := s.service.AccountBalance(ctx, s.tenantID, "acc", nil, s.asOf)

	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *ReportingServiceTestSuite) TestAging_ReceivableIn31To60Bucket() {
	ctx := context.Background()
	lines := []domain.AgingLine{{
		LineID: "l1", EntryID: "e1", Reference: "INV-2025-001",
		EntryDate: s.asOf.AddDate(0, 0, -45),
		AccountID: "ar", AccountCode: "1200", AccountName: "Accounts Receivable",
		Debit: dec("130"), Credit: decimal.Zero,
	}}
	s.reportingRepo.On("GetOpenItemLines", ctx, s.tenantID, domain.Asset, s.asOf, "").Return(lines, nil).Once()

	report, err := s.service.Aging(ctx, s.tenantID, domain.AgingReceivable, s.asOf, "")

	s.Require().NoError(err)
	s.Require().Len(report.Buckets, 5)
	for i, b := range report.Buckets {
		if i == 1 {
			s.Require().Len(b.Items, 1)
			s.Equal(45, b.Items[0].DaysOld)
			s.True(b.Total.Equal(dec("130")))
			continue
		}
		s.Empty(b.Items, "bucket %s", b.Label)
		s.True(b.Total.IsZero())
	}
	s.True(report.GrandTotal.Equal(dec("130")))
}

func (s *ReportingServiceTestSuite) TestAging_InvalidKind() {
	_, err := s.service.Aging(context.Background(), s.tenantID, "XX", s.asOf, "")
	s.ErrorIs(err, apperrors.ErrValidation)
}

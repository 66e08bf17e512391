package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingHandlerTestSuite struct {
	handlerSuite
}

func TestReportingHandler(t *testing.T) {
	suite.Run(t, new(ReportingHandlerTestSuite))
}

func (suite *ReportingHandlerTestSuite) TestTrialBalance_AsOf() {
	asOf := date("2025-03-31")
	report := &domain.TrialBalanceReport{
		AsOf: asOf,
		Rows: []domain.TrialBalanceRow{
			{AccountID: "cash", Code: "1000", AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(500), Credit: decimal.Zero},
			{AccountID: "loan", Code: "2100", AccountName: "Loan", AccountType: domain.Liability, Debit: decimal.Zero, Credit: decimal.NewFromInt(500)},
		},
		TotalDebits:  decimal.NewFromInt(500),
		TotalCredits: decimal.NewFromInt(500),
		Balanced:     true,
	}
	suite.reporting.On("TrialBalance", mock.Anything, testTenantID,
		mock.MatchedBy(func(t time.Time) bool { return t.Equal(asOf) })).Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance?asOf=2025-03-31", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.TrialBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res.Rows, 2)
	suite.True(res.Totals.Balanced)
	suite.Equal("2025-03-31", res.AsOf)
}

func (suite *ReportingHandlerTestSuite) TestBalanceSheet_DefaultsToToday() {
	suite.reporting.On("BalanceSheet", mock.Anything, testTenantID,
		mock.MatchedBy(func(t time.Time) bool {
			now := time.Now().UTC()
			return t.Location() == time.UTC && t.Hour() == 0 && t.Year() == now.Year() && t.YearDay() == now.YearDay()
		}),
	).Return(&domain.BalanceSheetReport{Balanced: true}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/balance-sheet", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	suite.reporting.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestProfitAndLoss_RequiresPeriod() {
	w := suite.do(http.MethodGet, "/api/v1/reports/profit-and-loss?fromDate=2025-01-01", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.reporting.AssertNotCalled(suite.T(), "ProfitAndLoss", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingHandlerTestSuite) TestProfitAndLoss_InvertedPeriod() {
	suite.reporting.On("ProfitAndLoss", mock.Anything, testTenantID, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError("fromDate must not be after toDate", nil)).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/profit-and-loss?fromDate=2025-02-01&toDate=2025-01-01", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(string(apperrors.KindValidation), suite.decodeError(w).Error)
}

func (suite *ReportingHandlerTestSuite) TestAccountBalance_Period() {
	from := date("2025-01-01")
	to := date("2025-01-31")
	suite.reporting.On("AccountBalance", mock.Anything, testTenantID, "loan",
		mock.MatchedBy(func(t *time.Time) bool { return t != nil && t.Equal(from) }),
		mock.MatchedBy(func(t time.Time) bool { return t.Equal(to) }),
	).Return(&domain.AccountBalanceReport{AccountID: "loan", AccountType: domain.Liability, From: &from, To: to, Balance: decimal.NewFromInt(500)}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/accounts/loan/balance?fromDate=2025-01-01&toDate=2025-01-31", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("2025-01-01", res.FromDate)
	suite.True(decimal.NewFromInt(500).Equal(res.Balance))
}

func (suite *ReportingHandlerTestSuite) TestAccountBalance_PointInTime() {
	asOf := date("2025-06-30")
	suite.reporting.On("AccountBalance", mock.Anything, testTenantID, "cash",
		(*time.Time)(nil),
		mock.MatchedBy(func(t time.Time) bool { return t.Equal(asOf) }),
	).Return(&domain.AccountBalanceReport{AccountID: "cash", To: asOf, Balance: decimal.NewFromInt(80)}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/accounts/cash/balance?asOf=2025-06-30", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *ReportingHandlerTestSuite) TestAccountBalance_MixedForms() {
	w := suite.do(http.MethodGet, "/api/v1/reports/accounts/cash/balance?asOf=2025-06-30&fromDate=2025-01-01", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.reporting.AssertNotCalled(suite.T(), "AccountBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingHandlerTestSuite) TestAging_Receivables() {
	asOf := date("2025-03-31")
	suite.reporting.On("Aging", mock.Anything, testTenantID, domain.AgingReceivable,
		mock.MatchedBy(func(t time.Time) bool { return t.Equal(asOf) }), "trade").
		Return(&domain.AgingReport{
			Kind: domain.AgingReceivable,
			AsOf: asOf,
			Buckets: []domain.AgingBucket{
				{Label: "0-30", Total: decimal.Zero},
				{Label: "31-60", Total: decimal.NewFromInt(130)},
			},
			GrandTotal: decimal.NewFromInt(130),
		}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/aging?type=AR&asOf=2025-03-31&group=trade", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.AgingResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res.Buckets, 2)
	suite.True(decimal.NewFromInt(130).Equal(res.GrandTotal))
}

func (suite *ReportingHandlerTestSuite) TestAging_UnknownType() {
	w := suite.do(http.MethodGet, "/api/v1/reports/aging?type=XX", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/SscSPs/shop_finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/profit-and-loss", h.getProfitAndLoss)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/aging", h.getAging)
		reportingGroup.GET("/accounts/:accountID/balance", h.getAccountBalance)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, asOf, ok := h.bindAsOf(c)
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), tenantID, asOf)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance")
		return
	}

	if !report.Balanced {
		logger.Warn("Trial balance does not balance",
			slog.String("total_debits", report.TotalDebits.String()),
			slog.String("total_credits", report.TotalCredits.String()))
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Generates a profit and loss report for a closed period
// @Tags reports
// @Produce json
// @Param fromDate query string true "Start date (YYYY-MM-DD)"
// @Param toDate query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	tenantID, _, ok := identity(c)
	if !ok {
		return
	}

	from, err := dto.ParseDate("fromDate", params.FromDate)
	if err != nil {
		respondError(c, err, "Invalid report period")
		return
	}
	to, err := dto.ParseDate("toDate", params.ToDate)
	if err != nil {
		respondError(c, err, "Invalid report period")
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), tenantID, from, to)
	if err != nil {
		respondError(c, err, "Failed to generate profit and loss report")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Generates a balance sheet as of a specific date. Undistributed profit appears as a current earnings equity line.
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, asOf, ok := h.bindAsOf(c)
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), tenantID, asOf)
	if err != nil {
		respondError(c, err, "Failed to generate balance sheet")
		return
	}

	if !report.Balanced {
		logger.Warn("Balance sheet does not balance",
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("total_liabilities", report.TotalLiabilities.String()),
			slog.String("total_equity", report.TotalEquity.String()))
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getAging godoc
// @Summary Generate an aging report
// @Description Buckets open receivables (AR) or payables (AP) by days outstanding
// @Tags reports
// @Produce json
// @Param type query string true "Report kind" Enums(AR, AP)
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Param group query string false "Only accounts in this group"
// @Success 200 {object} dto.AgingResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/aging [get]
func (h *reportingHandler) getAging(c *gin.Context) {
	var params dto.AgingParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	tenantID, _, ok := identity(c)
	if !ok {
		return
	}

	asOf, err := dateOrToday("asOf", params.AsOf)
	if err != nil {
		respondError(c, err, "Invalid report date")
		return
	}

	report, err := h.reportingService.Aging(c.Request.Context(), tenantID, domain.AgingKind(params.Type), asOf, params.Group)
	if err != nil {
		respondError(c, err, "Failed to generate aging report")
		return
	}

	c.JSON(http.StatusOK, dto.ToAgingResponse(report))
}

// getAccountBalance godoc
// @Summary Get an account's balance
// @Description Returns the statement balance as of a date, or the net movement over a period when fromDate is given
// @Tags reports
// @Produce json
// @Param accountID path string true "Account ID"
// @Param asOf query string false "Balance date (YYYY-MM-DD)" default(current date)
// @Param fromDate query string false "Period start (YYYY-MM-DD)"
// @Param toDate query string false "Period end (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Account belongs to another tenant"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute balance"
// @Security BearerAuth
// @Router /reports/accounts/{accountID}/balance [get]
func (h *reportingHandler) getAccountBalance(c *gin.Context) {
	accountID := c.Param("accountID")

	var params dto.AccountBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	tenantID, _, ok := identity(c)
	if !ok {
		return
	}

	from, to, err := balanceWindow(params)
	if err != nil {
		respondError(c, err, "Invalid balance window")
		return
	}

	report, err := h.reportingService.AccountBalance(c.Request.Context(), tenantID, accountID, from, to)
	if err != nil {
		respondError(c, err, "Failed to compute account balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(report))
}

func (h *reportingHandler) bindAsOf(c *gin.Context) (string, time.Time, bool) {
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return "", time.Time{}, false
	}

	tenantID, _, ok := identity(c)
	if !ok {
		return "", time.Time{}, false
	}

	asOf, err := dateOrToday("asOf", params.AsOf)
	if err != nil {
		respondError(c, err, "Invalid report date")
		return "", time.Time{}, false
	}
	return tenantID, asOf, true
}

// balanceWindow resolves the point-in-time or period form of an account balance query.
func balanceWindow(params dto.AccountBalanceParams) (*time.Time, time.Time, error) {
	if params.AsOf != "" && (params.FromDate != "" || params.ToDate != "") {
		return nil, time.Time{}, fmt.Errorf("%w: asOf cannot be combined with fromDate or toDate", apperrors.ErrValidation)
	}
	if params.FromDate == "" {
		if params.ToDate != "" {
			return nil, time.Time{}, fmt.Errorf("%w: toDate requires fromDate", apperrors.ErrValidation)
		}
		asOf, err := dateOrToday("asOf", params.AsOf)
		return nil, asOf, err
	}

	from, err := dto.ParseDate("fromDate", params.FromDate)
	if err != nil {
		return nil, time.Time{}, err
	}
	to, err := dateOrToday("toDate", params.ToDate)
	if err != nil {
		return nil, time.Time{}, err
	}
	return &from, to, nil
}

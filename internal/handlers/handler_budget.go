package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/SscSPs/shop_finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// budgetHandler handles HTTP requests related to budgets and expenses.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{
		budgetService: bs,
	}
}

// registerBudgetRoutes registers the budget and expense routes.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/variance", h.getVariance)
		budgets.GET("/utilization", h.getUtilization)
		budgets.PATCH("/:budgetID", h.updateBudget)
		budgets.DELETE("/:budgetID", h.deleteBudget)
	}

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.PATCH("/:expenseID/status", h.setExpenseStatus)
	}
}

// createBudget godoc
// @Summary Create a budget
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to create budget"
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	tenantID, userID, ok := identity(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create budget")
		return
	}

	logger.Info("Budget created successfully", slog.String("budget_id", budget.BudgetID), slog.String("category", budget.Category))
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce  json
// @Success 200 {array} dto.BudgetResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list budgets"
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	tenantID, _, ok := identity(c)
	if !ok {
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err, "Failed to list budgets")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetResponses(budgets))
}

// updateBudget godoc
// @Summary Update a budget
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Param   budget body dto.UpdateBudgetRequest true "Fields to update"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Budget belongs to another tenant"
// @Failure 404 {object} dto.ErrorResponse "Budget not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to update budget"
// @Security BearerAuth
// @Router /budgets/{budgetID} [patch]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	budgetID := c.Param("budgetID")

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	tenantID, userID, ok := identity(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), tenantID, budgetID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to update budget")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// deleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Param   budgetID path string true "Budget ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Budget belongs to another tenant"
// @Failure 404 {object} dto.ErrorResponse "Budget not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to delete budget"
// @Security BearerAuth
// @Router /budgets/{budgetID} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	budgetID := c.Param("budgetID")

	tenantID, userID, ok := identity(c)
	if !ok {
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), tenantID, budgetID, userID); err != nil {
		respondError(c, err, "Failed to delete budget")
		return
	}

	c.Status(http.StatusNoContent)
}

// getVariance godoc
// @Summary Budget variance
// @Description Compares each budget with the approved expenses of its category dated within the period
// @Tags budgets
// @Produce  json
// @Param   from query string true "Period start (YYYY-MM-DD)"
// @Param   to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.BudgetVarianceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid period"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute variance"
// @Security BearerAuth
// @Router /budgets/variance [get]
func (h *budgetHandler) getVariance(c *gin.Context) {
	var params dto.VarianceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	tenantID, _, ok := identity(c)
	if !ok {
		return
	}

	from, err := dto.ParseDate("from", params.From)
	if err != nil {
		respondError(c, err, "Invalid variance period")
		return
	}
	to, err := dto.ParseDate("to", params.To)
	if err != nil {
		respondError(c, err, "Invalid variance period")
		return
	}

	res, err := h.budgetService.Variance(c.Request.Context(), tenantID, from, to)
	if err != nil {
		respondError(c, err, "Failed to compute budget variance")
		return
	}

	c.JSON(http.StatusOK, res)
}

// getUtilization godoc
// @Summary Budget utilization
// @Description Classifies each budget by the share already spent
// @Tags budgets
// @Produce  json
// @Success 200 {object} dto.BudgetUtilizationResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute utilization"
// @Security BearerAuth
// @Router /budgets/utilization [get]
func (h *budgetHandler) getUtilization(c *gin.Context) {
	tenantID, _, ok := identity(c)
	if !ok {
		return
	}

	rows, err := h.budgetService.Utilization(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err, "Failed to compute budget utilization")
		return
	}

	c.JSON(http.StatusOK, dto.BudgetUtilizationResponse{Budgets: rows})
}

// createExpense godoc
// @Summary Record an expense
// @Description Records a pending expense against a budget category
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to record expense"
// @Security BearerAuth
// @Router /expenses [post]
func (h *budgetHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	tenantID, userID, ok := identity(c)
	if !ok {
		return
	}

	expense, err := h.budgetService.CreateExpense(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to record expense")
		return
	}

	logger.Info("Expense recorded", slog.String("expense_id", expense.ExpenseID), slog.String("category", expense.Category))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List expenses
// @Tags expenses
// @Produce  json
// @Param   category query string false "Budget category"
// @Param   status query string false "Expense status" Enums(PENDING, APPROVED, REJECTED)
// @Param   from query string false "First expense date (YYYY-MM-DD)"
// @Param   to query string false "Last expense date (YYYY-MM-DD)"
// @Success 200 {array} dto.ExpenseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list expenses"
// @Security BearerAuth
// @Router /expenses [get]
func (h *budgetHandler) listExpenses(c *gin.Context) {
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	tenantID, _, ok := identity(c)
	if !ok {
		return
	}

	expenses, err := h.budgetService.ListExpenses(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, err, "Failed to list expenses")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponses(expenses))
}

// setExpenseStatus godoc
// @Summary Approve or reject an expense
// @Description Only approved expenses count toward budget variance
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expenseID path string true "Expense ID"
// @Param   status body dto.UpdateExpenseStatusRequest true "New status"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Expense belongs to another tenant"
// @Failure 404 {object} dto.ErrorResponse "Expense not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to update expense"
// @Security BearerAuth
// @Router /expenses/{expenseID}/status [patch]
func (h *budgetHandler) setExpenseStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")

	var req dto.UpdateExpenseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	tenantID, userID, ok := identity(c)
	if !ok {
		return
	}

	expense, err := h.budgetService.SetExpenseStatus(c.Request.Context(), tenantID, expenseID, req.Status, userID)
	if err != nil {
		respondError(c, err, "Failed to update expense status")
		return
	}

	logger.Info("Expense status updated", slog.String("expense_id", expenseID), slog.String("status", string(expense.Status)))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

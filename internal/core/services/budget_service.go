package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// budgetService maintains budgets and the expense feed and computes variance.
type budgetService struct {
	BaseService
	budgetRepo portsrepo.BudgetRepositoryFacade
}

// NewBudgetService creates a new budget service.
func NewBudgetService(repo portsrepo.BudgetRepositoryFacade, options ...ServiceOption) portssvc.BudgetSvcFacade {
	svc := &budgetService{budgetRepo: repo}
	svc.apply(options)
	return svc
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) CreateBudget(ctx context.Context, tenantID string, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, apperrors.NewValidationError("category is required", nil)
	}
	if req.Budgeted.IsNegative() {
		return nil, apperrors.NewValidationError("budgeted amount must not be negative", nil)
	}
	trend := domain.TrendStable
	if req.Trend != "" {
		trend = domain.BudgetTrend(req.Trend)
		if !trend.IsValid() {
			return nil, apperrors.NewValidationError("invalid trend "+req.Trend, nil)
		}
	}

	budget := domain.Budget{
		BudgetID:    uuid.NewString(),
		TenantID:    tenantID,
		Category:    category,
		Budgeted:    req.Budgeted,
		Spent:       decimal.Zero,
		Trend:       trend,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
	audit := s.newAuditRecord(tenantID, userID, domain.ActionCreate, domain.TargetBudget, budget.BudgetID, map[string]any{
		"category": category,
		"budgeted": budget.Budgeted.StringFixed(2),
	})
	saved, err := s.budgetRepo.SaveBudget(ctx, budget, audit)
	if err != nil {
		s.LogError(ctx, err, "Failed to save budget", slog.String("category", category))
		return nil, err
	}
	s.publish(audit)

	s.LogInfo(ctx, "Budget created",
		slog.String("budget_id", saved.BudgetID),
		slog.String("category", category),
		slog.String("spent", saved.Spent.StringFixed(2)))
	return saved, nil
}

func (s *budgetService) ListBudgets(ctx context.Context, tenantID string) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.ListBudgets(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if budgets == nil {
		return []domain.Budget{}, nil
	}
	return budgets, nil
}

func (s *budgetService) getBudget(ctx context.Context, tenantID, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	if err := authorizeTenant(tenantID, budget.TenantID, domain.TargetBudget, budgetID); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, tenantID string, budgetID string, req dto.UpdateBudgetRequest, userID string) (*domain.Budget, error) {
	budget, err := s.getBudget(ctx, tenantID, budgetID)
	if err != nil {
		return nil, err
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, apperrors.NewValidationError("category cannot be empty", nil)
		}
		budget.Category = category
	}
	if req.Budgeted != nil {
		if req.Budgeted.IsNegative() {
			return nil, apperrors.NewValidationError("budgeted amount must not be negative", nil)
		}
		budget.Budgeted = *req.Budgeted
	}
	if req.Trend != nil {
		trend := domain.BudgetTrend(*req.Trend)
		if !trend.IsValid() {
			return nil, apperrors.NewValidationError("invalid trend "+*req.Trend, nil)
		}
		budget.Trend = trend
	}
	budget.Touch(userID, s.now())

	audit := s.newAuditRecord(tenantID, userID, domain.ActionUpdate, domain.TargetBudget, budgetID, map[string]any{
		"category": budget.Category,
		"budgeted": budget.Budgeted.StringFixed(2),
	})
	updated, err := s.budgetRepo.UpdateBudget(ctx, *budget, audit)
	if err != nil {
		s.LogError(ctx, err, "Failed to update budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	s.publish(audit)
	return updated, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, tenantID string, budgetID string, userID string) error {
	budget, err := s.getBudget(ctx, tenantID, budgetID)
	if err != nil {
		return err
	}
	audit := s.newAuditRecord(tenantID, userID, domain.ActionDelete, domain.TargetBudget, budgetID, map[string]any{"category": budget.Category})
	if err := s.budgetRepo.DeleteBudget(ctx, budgetID, audit); err != nil {
		s.LogError(ctx, err, "Failed to delete budget", slog.String("budget_id", budgetID))
		return err
	}
	s.publish(audit)
	return nil
}

// Variance compares each budget with the approved expenses of its category dated within [from, to].
func (s *budgetService) Variance(ctx context.Context, tenantID string, from, to time.Time) (*dto.BudgetVarianceResponse, error) {
	if from.After(to) {
		return nil, apperrors.NewValidationError("from must not be after to", nil)
	}
	budgets, err := s.ListBudgets(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	actuals, err := s.budgetRepo.SumApprovedExpensesByCategory(ctx, tenantID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum approved expenses", slog.String("tenant_id", tenantID))
		return nil, err
	}

	res := &dto.BudgetVarianceResponse{
		From:     dto.FormatDate(from),
		To:       dto.FormatDate(to),
		Budgets:  make([]domain.BudgetVariance, len(budgets)),
		Budgeted: decimal.Zero,
		Actual:   decimal.Zero,
	}
	for i, b := range budgets {
		actual := actuals[b.Category]
		res.Budgets[i] = accounting.Variance(b, actual)
		res.Budgeted = res.Budgeted.Add(b.Budgeted)
		res.Actual = res.Actual.Add(actual)
	}

	s.LogInfo(ctx, "Budget variance computed",
		slog.String("from", res.From),
		slog.String("to", res.To),
		slog.Int("budgets", len(budgets)))
	return res, nil
}

// Utilization classifies every budget with a non-zero budgeted amount.
func (s *budgetService) Utilization(ctx context.Context, tenantID string) ([]domain.BudgetUtilization, error) {
	budgets, err := s.ListBudgets(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	res := make([]domain.BudgetUtilization, 0, len(budgets))
	for _, b := range budgets {
		if u, ok := accounting.Utilization(b); ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func (s *budgetService) CreateExpense(ctx context.Context, tenantID string, req dto.CreateExpenseRequest, userID string) (*domain.BudgetExpense, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, apperrors.NewValidationError("category is required", nil)
	}
	if !req.Amount.IsPositive() || !accounting.HasAtMostTwoDecimals(req.Amount) {
		return nil, apperrors.NewValidationError("amount must be positive with at most two decimal places", nil)
	}
	expenseDate, err := dto.ParseDate("expenseDate", req.ExpenseDate)
	if err != nil {
		return nil, err
	}

	expense := domain.BudgetExpense{
		ExpenseID:   uuid.NewString(),
		TenantID:    tenantID,
		Category:    category,
		Amount:      req.Amount,
		ExpenseDate: expenseDate,
		Description: req.Description,
		Status:      domain.ExpensePending,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
	audit := s.newAuditRecord(tenantID, userID, domain.ActionCreate, domain.TargetExpense, expense.ExpenseID, map[string]any{
		"category": category,
		"amount":   expense.Amount.StringFixed(2),
	})
	if err := s.budgetRepo.SaveExpense(ctx, expense, audit); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("category", category))
		return nil, err
	}
	s.publish(audit)
	return &expense, nil
}

func (s *budgetService) ListExpenses(ctx context.Context, tenantID string, params dto.ListExpensesParams) ([]domain.BudgetExpense, error) {
	filter := domain.ExpenseFilter{Category: params.Category}
	if params.Status != "" {
		status := domain.ExpenseStatus(params.Status)
		filter.Status = &status
	}
	var err error
	if filter.From, err = dto.ParseOptionalDate("from", params.From); err != nil {
		return nil, err
	}
	if filter.To, err = dto.ParseOptionalDate("to", params.To); err != nil {
		return nil, err
	}
	expenses, err := s.budgetRepo.ListExpenses(ctx, tenantID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if expenses == nil {
		return []domain.BudgetExpense{}, nil
	}
	return expenses, nil
}

// SetExpenseStatus moves an expense through approval; the budget's spent figure follows
// every transition into or out of APPROVED.
func (s *budgetService) SetExpenseStatus(ctx context.Context, tenantID string, expenseID string, status domain.ExpenseStatus, userID string) (*domain.BudgetExpense, error) {
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("invalid expense status "+string(status), nil)
	}
	expense, err := s.budgetRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find expense", slog.String("expense_id", expenseID))
		return nil, err
	}
	if err := authorizeTenant(tenantID, expense.TenantID, domain.TargetExpense, expenseID); err != nil {
		return nil, err
	}
	if expense.Status == status {
		return expense, nil
	}

	audit := s.newAuditRecord(tenantID, userID, domain.ActionUpdate, domain.TargetExpense, expenseID, map[string]any{
		"from_status": string(expense.Status),
		"to_status":   string(status),
	})
	updated, err := s.budgetRepo.SetExpenseStatus(ctx, expenseID, status, userID, s.now(), audit)
	if err != nil {
		s.LogError(ctx, err, "Failed to update expense status", slog.String("expense_id", expenseID))
		return nil, err
	}
	s.publish(audit)

	s.LogInfo(ctx, "Expense status changed",
		slog.String("expense_id", expenseID),
		slog.String("status", string(status)))
	return updated, nil
}

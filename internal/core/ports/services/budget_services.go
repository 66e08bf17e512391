package services

import (
	"context"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
)

// BudgetManagerSvc defines budget maintenance
type BudgetManagerSvc interface {
	CreateBudget(ctx context.Context, tenantID string, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, tenantID string) ([]domain.Budget, error)
	UpdateBudget(ctx context.Context, tenantID string, budgetID string, req dto.UpdateBudgetRequest, userID string) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, tenantID string, budgetID string, userID string) error
}

// BudgetAnalyzerSvc defines the variance engine
type BudgetAnalyzerSvc interface {
	// Variance compares every budget with approved expenses dated within [from, to].
	Variance(ctx context.Context, tenantID string, from, to time.Time) (*dto.BudgetVarianceResponse, error)

	// Utilization classifies budgets by the share of the budget already spent.
	Utilization(ctx context.Context, tenantID string) ([]domain.BudgetUtilization, error)
}

// ExpenseSvc defines the expense feed behind budgets
type ExpenseSvc interface {
	CreateExpense(ctx context.Context, tenantID string, req dto.CreateExpenseRequest, userID string) (*domain.BudgetExpense, error)
	ListExpenses(ctx context.Context, tenantID string, params dto.ListExpensesParams) ([]domain.BudgetExpense, error)
	SetExpenseStatus(ctx context.Context, tenantID string, expenseID string, status domain.ExpenseStatus, userID string) (*domain.BudgetExpense, error)
}

// BudgetSvcFacade combines all budget-related service interfaces
type BudgetSvcFacade interface {
	BudgetManagerSvc
	BudgetAnalyzerSvc
	ExpenseSvc
}

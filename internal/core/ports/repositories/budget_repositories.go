package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetReader defines read operations for budgets
type BudgetReader interface {
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, tenantID string) ([]domain.Budget, error)

	// SumApprovedExpensesByCategory totals approved expenses per category dated within [from, to].
	SumApprovedExpensesByCategory(ctx context.Context, tenantID string, from, to time.Time) (map[string]decimal.Decimal, error)
}

// BudgetWriter defines write operations for budgets
type BudgetWriter interface {
	// SaveBudget and UpdateBudget return the stored row. Spent is derived from the
	// category's approved expenses on insert and whenever the category changes.
	SaveBudget(ctx context.Context, budget domain.Budget, audit domain.AuditRecord) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, budget domain.Budget, audit domain.AuditRecord) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, budgetID string, audit domain.AuditRecord) error
}

// ExpenseRepository defines persistence for the expense feed
type ExpenseRepository interface {
	SaveExpense(ctx context.Context, expense domain.BudgetExpense, audit domain.AuditRecord) error
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.BudgetExpense, error)
	ListExpenses(ctx context.Context, tenantID string, filter domain.ExpenseFilter) ([]domain.BudgetExpense, error)

	// SetExpenseStatus changes an expense's status and moves its amount into or out of the
	// matching budget's spent figure in the same transaction.
	SetExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, userID string, now time.Time, audit domain.AuditRecord) (*domain.BudgetExpense, error)
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
	ExpenseRepository
}

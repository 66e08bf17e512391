package pgsql

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/shop_finance_ledger/internal/models"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const budgetColumns = `budget_id, tenant_id, category, budgeted, spent, trend, created_at, created_by, last_updated_at, last_updated_by`

const expenseColumns = `expense_id, tenant_id, category, amount, expense_date, description, status,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budgets and the expense feed.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func scanBudget(row rowScanner) (domain.Budget, error) {
	var m models.Budget
	if err := row.Scan(&m.BudgetID, &m.TenantID, &m.Category, &m.Budgeted, &m.Spent, &m.Trend,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
		return domain.Budget{}, err
	}
	return mapping.ToDomainBudget(m), nil
}

func scanExpense(row rowScanner) (domain.BudgetExpense, error) {
	var m models.Expense
	if err := row.Scan(&m.ExpenseID, &m.TenantID, &m.Category, &m.Amount, &m.ExpenseDate, &m.Description, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
		return domain.BudgetExpense{}, err
	}
	return mapping.ToDomainExpense(m), nil
}

// FindBudgetByID retrieves a budget by its ID.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	b, err := scanBudget(r.Pool.QueryRow(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE budget_id = $1;`, budgetID))
	if err != nil {
		return nil, mapPgError(err, "budget "+budgetID+" not found")
	}
	return &b, nil
}

// ListBudgets lists a tenant's budgets ordered by category.
func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, tenantID string) ([]domain.Budget, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE tenant_id = $1 ORDER BY category;`, tenantID)
	if err != nil {
		return nil, mapPgError(err, "failed to list budgets for tenant "+tenantID)
	}
	defer rows.Close()
	budgets := []domain.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan budget")
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating budgets")
	}
	return budgets, nil
}

// SumApprovedExpensesByCategory totals approved expenses per category within [from, to].
func (r *PgxBudgetRepository) SumApprovedExpensesByCategory(ctx context.Context, tenantID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT category, SUM(amount)
		FROM expenses
		WHERE tenant_id = $1 AND status = 'APPROVED' AND expense_date >= $2 AND expense_date <= $3
		GROUP BY category;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, mapPgError(err, "failed to sum approved expenses")
	}
	defer rows.Close()
	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category string
		var total decimal.Decimal
		if err := rows.Scan(&category, &total); err != nil {
			return nil, mapPgError(err, "failed to scan expense total")
		}
		totals[category] = total
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating expense totals")
	}
	return totals, nil
}

// approvedSpentSQL totals the approved expenses of the budget's tenant and category.
const approvedSpentSQL = `(SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE tenant_id = $2 AND category = $3 AND status = 'APPROVED')`

// SaveBudget inserts a new budget. Spent starts at the total of the category's
// already approved expenses.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget, audit domain.AuditRecord) (*domain.Budget, error) {
	m := mapping.ToModelBudget(budget)
	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, ` + approvedSpentSQL + `, $5, $6, $7, $8, $9)
		RETURNING ` + budgetColumns + `;
	`
	var saved domain.Budget
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		saved, err = scanBudget(tx.QueryRow(ctx, query, m.BudgetID, m.TenantID, m.Category, m.Budgeted, m.Trend,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy))
		if err != nil {
			return mapPgError(err, "budget for category "+m.Category+" already exists")
		}
		return insertAuditRecord(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateBudget updates a budget's category, amount and trend. A category change
// recomputes spent from the new category's approved expenses; otherwise spent is left alone.
func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget, audit domain.AuditRecord) (*domain.Budget, error) {
	m := mapping.ToModelBudget(budget)
	query := `
		UPDATE budgets
		SET category = $3, budgeted = $4, trend = $5, last_updated_at = $6, last_updated_by = $7,
			spent = CASE WHEN category = $3 THEN spent ELSE ` + approvedSpentSQL + ` END
		WHERE budget_id = $1 AND tenant_id = $2
		RETURNING ` + budgetColumns + `;
	`
	var updated domain.Budget
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		updated, err = scanBudget(tx.QueryRow(ctx, query, m.BudgetID, m.TenantID, m.Category, m.Budgeted, m.Trend, m.LastUpdatedAt, m.LastUpdatedBy))
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("budget " + m.BudgetID + " not found for update")
		}
		if err != nil {
			return mapPgError(err, "budget for category "+m.Category+" already exists")
		}
		return insertAuditRecord(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBudget removes a budget.
func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string, audit domain.AuditRecord) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1;`, budgetID)
		if err != nil {
			return mapPgError(err, "failed to delete budget "+budgetID)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("budget " + budgetID + " not found")
		}
		return insertAuditRecord(ctx, tx, audit)
	})
}

// SaveExpense inserts a new expense.
func (r *PgxBudgetRepository) SaveExpense(ctx context.Context, expense domain.BudgetExpense, audit domain.AuditRecord) error {
	m := mapping.ToModelExpense(expense)
	query := `INSERT INTO expenses (` + expenseColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, m.ExpenseID, m.TenantID, m.Category, m.Amount, m.ExpenseDate, m.Description, m.Status,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
			return mapPgError(err, "failed to save expense")
		}
		if m.Status == string(domain.ExpenseApproved) {
			if err := adjustSpent(ctx, tx, m.TenantID, m.Category, m.Amount, m.CreatedBy, m.CreatedAt); err != nil {
				return err
			}
		}
		return insertAuditRecord(ctx, tx, audit)
	})
}

// FindExpenseByID retrieves an expense by its ID.
func (r *PgxBudgetRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.BudgetExpense, error) {
	e, err := scanExpense(r.Pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE expense_id = $1;`, expenseID))
	if err != nil {
		return nil, mapPgError(err, "expense "+expenseID+" not found")
	}
	return &e, nil
}

// ListExpenses lists a tenant's expenses, newest first.
func (r *PgxBudgetRepository) ListExpenses(ctx context.Context, tenantID string, filter domain.ExpenseFilter) ([]domain.BudgetExpense, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + expenseColumns + ` FROM expenses WHERE tenant_id = $1`)
	args := []any{tenantID}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.Category != "" {
		sb.WriteString(` AND category = ` + next(filter.Category))
	}
	if filter.Status != nil {
		sb.WriteString(` AND status = ` + next(string(*filter.Status)))
	}
	if filter.From != nil {
		sb.WriteString(` AND expense_date >= ` + next(*filter.From))
	}
	if filter.To != nil {
		sb.WriteString(` AND expense_date <= ` + next(*filter.To))
	}
	sb.WriteString(` ORDER BY expense_date DESC, created_at DESC;`)

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, mapPgError(err, "failed to list expenses for tenant "+tenantID)
	}
	defer rows.Close()
	expenses := []domain.BudgetExpense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan expense")
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating expenses")
	}
	return expenses, nil
}

// SetExpenseStatus moves an expense between statuses, keeping the matching budget's spent figure in step.
func (r *PgxBudgetRepository) SetExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, userID string, now time.Time, audit domain.AuditRecord) (*domain.BudgetExpense, error) {
	var updated domain.BudgetExpense
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		current, err := scanExpense(tx.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE expense_id = $1 FOR UPDATE;`, expenseID))
		if err != nil {
			return mapPgError(err, "expense "+expenseID+" not found")
		}
		updated = current
		if current.Status == status {
			return nil
		}

		if _, err := tx.Exec(ctx, `UPDATE expenses SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE expense_id = $1;`,
			expenseID, string(status), now, userID); err != nil {
			return mapPgError(err, "failed to update status of expense "+expenseID)
		}
		switch {
		case status == domain.ExpenseApproved:
			err = adjustSpent(ctx, tx, current.TenantID, current.Category, current.Amount, userID, now)
		case current.Status == domain.ExpenseApproved:
			err = adjustSpent(ctx, tx, current.TenantID, current.Category, current.Amount.Neg(), userID, now)
		}
		if err != nil {
			return err
		}

		updated.Status = status
		updated.Touch(userID, now)
		return insertAuditRecord(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// adjustSpent adds delta to the spent figure of the tenant's budget for category, if one exists.
func adjustSpent(ctx context.Context, tx pgx.Tx, tenantID, category string, delta decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE budgets
		SET spent = spent + $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND category = $2;
	`
	if _, err := tx.Exec(ctx, query, tenantID, category, delta, now, userID); err != nil {
		return mapPgError(err, "failed to adjust spent for budget category "+category)
	}
	return nil
}

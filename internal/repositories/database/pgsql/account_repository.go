package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/shop_finance_ledger/internal/models"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/accounting"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// postedStatuses are the entry states whose lines have hit the ledger.
const postedStatuses = `('POSTED', 'VOID')`

const accountColumns = `account_id, tenant_id, code, name, account_type, normal_balance, account_group,
		parent_account_id, description, is_active, balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

func scanAccount(row rowScanner) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.TenantID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.NormalBalance,
		&m.Group,
		&m.ParentAccountID,
		&m.Description,
		&m.IsActive,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func collectAccounts(rows pgx.Rows) (map[string]domain.Account, error) {
	defer rows.Close()
	accounts := make(map[string]domain.Account)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan account row")
		}
		accounts[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating account rows")
	}
	return accounts, nil
}

// SaveAccount inserts a new account and its audit record.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account, audit domain.AuditRecord) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			m.AccountID,
			m.TenantID,
			m.Code,
			m.Name,
			m.AccountType,
			m.NormalBalance,
			m.Group,
			m.ParentAccountID,
			m.Description,
			m.IsActive,
			m.Balance,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return mapPgError(err, "account code "+m.Code+" already exists")
		}
		return insertAuditRecord(ctx, tx, audit)
	})
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapPgError(err, "account "+accountID+" not found")
	}
	return &acc, nil
}

// FindAccountByCode prefers the tenant's own account over a shared one with the same code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE code = $2 AND (tenant_id = $1 OR tenant_id IS NULL)
		ORDER BY tenant_id NULLS LAST
		LIMIT 1;
	`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, tenantID, code))
	if err != nil {
		return nil, mapPgError(err, "account with code "+code+" not found")
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
// Missing ids are simply absent from the map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to query accounts by IDs")
	}
	return collectAccounts(rows)
}

// ListAccounts lists the tenant's accounts and the shared ones, ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string, filter domain.AccountFilter) ([]domain.Account, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + accountColumns + ` FROM accounts WHERE (tenant_id = $1 OR tenant_id IS NULL)`)
	args := []any{tenantID}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		sb.WriteString(` AND account_type = $` + strconv.Itoa(len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		sb.WriteString(` AND is_active = $` + strconv.Itoa(len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		sb.WriteString(` AND (name ILIKE $` + n + ` OR code ILIKE $` + n + `)`)
	}
	sb.WriteString(` ORDER BY code, tenant_id NULLS LAST;`)

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, mapPgError(err, "failed to list accounts")
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan account row")
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating account rows")
	}
	return accounts, nil
}

// UpdateAccount updates an existing account's mutable details.
// Type, normal balance, code and balance never change here.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account, audit domain.AuditRecord) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, account_group = $3, description = $4, is_active = $5, parent_account_id = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE account_id = $1;
	`
	return r.inTx(ctx, func(tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, query,
			m.AccountID,
			m.Name,
			m.Group,
			m.Description,
			m.IsActive,
			m.ParentAccountID,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return mapPgError(err, "failed to update account "+m.AccountID)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("account " + m.AccountID + " not found for update")
		}
		return insertAuditRecord(ctx, tx, audit)
	})
}

// ListPostedLinesByAccount returns posted lines in ledger order. An empty tenantID reads every tenant.
func (r *PgxAccountRepository) ListPostedLinesByAccount(ctx context.Context, tenantID, accountID string, from, to *time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT l.line_id, e.entry_id, e.reference, e.entry_date, e.description, l.memo, l.debit, l.credit, e.created_at
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
		  AND ($2 = '' OR e.tenant_id = $2)
		  AND e.status IN ` + postedStatuses + `
		  AND ($3::date IS NULL OR e.entry_date >= $3::date)
		  AND ($4::date IS NULL OR e.entry_date <= $4::date)
		ORDER BY e.entry_date, e.created_at, e.entry_id, l.line_no;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, tenantID, from, to)
	if err != nil {
		return nil, mapPgError(err, "failed to query ledger lines for account "+accountID)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var l domain.LedgerLine
		if err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.Reference,
			&l.EntryDate,
			&l.Description,
			&l.Memo,
			&l.Debit,
			&l.Credit,
			&l.CreatedAt,
		); err != nil {
			return nil, mapPgError(err, "failed to scan ledger line")
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating ledger lines")
	}
	return lines, nil
}

// SumPostedActivity returns raw posted totals per account across all tenants.
func (r *PgxAccountRepository) SumPostedActivity(ctx context.Context, accountIDs []string) (map[string]domain.AccountActivity, error) {
	return sumPostedActivity(ctx, r.Pool, accountIDs)
}

func sumPostedActivity(ctx context.Context, q querier, accountIDs []string) (map[string]domain.AccountActivity, error) {
	activity := make(map[string]domain.AccountActivity, len(accountIDs))
	if len(accountIDs) == 0 {
		return activity, nil
	}
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type, a.account_group,
		       COALESCE(SUM(p.debit), 0) AS total_debit,
		       COALESCE(SUM(p.credit), 0) AS total_credit
		FROM accounts a
		LEFT JOIN (
			SELECT l.account_id, l.debit, l.credit
			FROM journal_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE e.status IN ` + postedStatuses + `
		) p ON p.account_id = a.account_id
		WHERE a.account_id = ANY($1)
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.account_group;
	`
	rows, err := q.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to sum posted activity")
	}
	defer rows.Close()
	for rows.Next() {
		var a domain.AccountActivity
		if err := rows.Scan(&a.AccountID, &a.Code, &a.Name, &a.AccountType, &a.Group, &a.Debit, &a.Credit); err != nil {
			return nil, mapPgError(err, "failed to scan account activity")
		}
		activity[a.AccountID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating account activity")
	}
	return activity, nil
}

// ResetAccountBalances recomputes cached balances from posted lines under row locks
// and rewrites the ones that drifted.
func (r *PgxAccountRepository) ResetAccountBalances(ctx context.Context, accountIDs []string, userID string, now time.Time, audit domain.AuditRecord) ([]domain.BalanceDrift, error) {
	var drifts []domain.BalanceDrift
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		locked, err := r.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
		if err != nil {
			return err
		}
		activity, err := sumPostedActivity(ctx, tx, accountIDs)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, id := range accounting.SortedKeys(locked) {
			acc := locked[id]
			act := activity[id]
			computed := acc.NormalBalance.Delta(act.Debit, act.Credit)
			if computed.Equal(acc.Balance) {
				continue
			}
			drifts = append(drifts, domain.BalanceDrift{
				AccountID: id,
				Code:      acc.Code,
				Name:      acc.Name,
				Cached:    acc.Balance,
				Computed:  computed,
				Drift:     acc.Balance.Sub(computed),
				Applied:   true,
			})
			batch.Queue(`UPDATE accounts SET balance = $2, last_updated_at = $3, last_updated_by = $4 WHERE account_id = $1;`,
				id, computed, now, userID)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapPgError(err, "failed to rewrite account balances")
		}

		rec := audit
		rec.Metadata = make(map[string]any, len(audit.Metadata)+1)
		for k, v := range audit.Metadata {
			rec.Metadata[k] = v
		}
		rec.Metadata["drifted"] = len(drifts)
		return insertAuditRecord(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}
	return drifts, nil
}

// FindAccountsByIDsForUpdate locks account rows in ascending id order.
// Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to query accounts by IDs for update")
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock accounts %v", apperrors.ErrNotFound, missing)
	}
	return accounts, nil
}

// UpdateAccountBalancesInTx adds deltas to account balances within a transaction.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(balanceChanges))
	for _, accountID := range accounting.SortedKeys(balanceChanges) {
		delta := balanceChanges[accountID]
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, accountID, delta, now, userID)
		accountIDs = append(accountIDs, accountID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for _, accountID := range accountIDs {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = mapPgError(err, "failed to update balance for account "+accountID)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = apperrors.NewAppError(http.StatusInternalServerError, "failed to close balance update batch", err)
	}
	return batchErr
}

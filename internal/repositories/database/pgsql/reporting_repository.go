package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetAccountActivity sums the tenant's posted lines per visible account, zero rows included.
func (r *reportingRepository) GetAccountActivity(ctx context.Context, q portsrepo.ActivityQuery) ([]domain.AccountActivity, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			a.account_group,
			COALESCE(SUM(p.debit), 0) AS total_debit,
			COALESCE(SUM(p.credit), 0) AS total_credit
		FROM accounts a
		LEFT JOIN (
			SELECT l.account_id, l.debit, l.credit
			FROM journal_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE e.tenant_id = $1
				AND e.status IN ` + postedStatuses + `
				AND e.entry_date <= $2::date
				AND ($3::date IS NULL OR e.entry_date >= $3::date)
		) p ON p.account_id = a.account_id
		WHERE (a.tenant_id = $1 OR a.tenant_id IS NULL)
			AND (cardinality($4::text[]) = 0 OR a.account_type = ANY($4::text[]))
			AND ($5 = '' OR a.account_id = $5)
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.account_group
		ORDER BY a.code, a.account_id;
	`
	types := make([]string, len(q.Types))
	for i, t := range q.Types {
		types[i] = string(t)
	}

	rows, err := r.Pool.Query(ctx, query, q.TenantID, q.To, q.From, types, q.AccountID)
	if err != nil {
		return nil, mapPgError(err, "error querying account activity")
	}
	defer rows.Close()

	result := []domain.AccountActivity{}
	for rows.Next() {
		var a domain.AccountActivity
		if err := rows.Scan(&a.AccountID, &a.Code, &a.Name, &a.AccountType, &a.Group, &a.Debit, &a.Credit); err != nil {
			return nil, mapPgError(err, "error scanning account activity row")
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating account activity rows")
	}
	return result, nil
}

// GetOpenItemLines returns lines of posted, non-reversal entries for aging.
// Voided entries and their reversals are both excluded.
func (r *reportingRepository) GetOpenItemLines(ctx context.Context, tenantID string, accountType domain.AccountType, asOf time.Time, group string) ([]domain.AgingLine, error) {
	query := `
		SELECT l.line_id, e.entry_id, e.reference, e.entry_date, a.account_id, a.code, a.name, l.debit, l.credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.tenant_id = $1
			AND e.status = 'POSTED'
			AND e.reversal_of_id IS NULL
			AND a.account_type = $2
			AND e.entry_date <= $3::date
			AND ($4 = '' OR a.account_group = $4)
		ORDER BY e.entry_date, e.created_at, l.line_no;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, string(accountType), asOf, group)
	if err != nil {
		return nil, mapPgError(err, "error querying open item lines")
	}
	defer rows.Close()

	lines := []domain.AgingLine{}
	for rows.Next() {
		var l domain.AgingLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.Reference, &l.EntryDate, &l.AccountID, &l.AccountCode, &l.AccountName, &l.Debit, &l.Credit); err != nil {
			return nil, mapPgError(err, "error scanning open item line")
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating open item lines")
	}
	return lines, nil
}

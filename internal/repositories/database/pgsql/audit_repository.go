package pgsql

import (
	"context"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/shop_finance_ledger/internal/models"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// SaveAuditRecordInTx writes an audit record inside the caller's transaction.
func (r *PgxAuditRepository) SaveAuditRecordInTx(ctx context.Context, tx pgx.Tx, record domain.AuditRecord) error {
	return insertAuditRecord(ctx, tx, record)
}

// ListAuditRecords returns a tenant's newest audit records.
func (r *PgxAuditRepository) ListAuditRecords(ctx context.Context, tenantID string, filter domain.AuditFilter) ([]domain.AuditRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT audit_id, tenant_id, actor_id, action, target_type, target_id, metadata, created_at
		FROM audit_log
		WHERE tenant_id = $1
			AND ($2 = '' OR target_type = $2)
			AND ($3 = '' OR target_id = $3)
		ORDER BY created_at DESC, audit_id DESC
		LIMIT $4;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, filter.TargetType, filter.TargetID, limit)
	if err != nil {
		return nil, mapPgError(err, "failed to query audit records")
	}
	defer rows.Close()

	records := []domain.AuditRecord{}
	for rows.Next() {
		var m models.AuditRecord
		if err := rows.Scan(&m.AuditID, &m.TenantID, &m.ActorID, &m.Action, &m.TargetType, &m.TargetID, &m.Metadata, &m.CreatedAt); err != nil {
			return nil, mapPgError(err, "failed to scan audit record")
		}
		rec, err := mapping.ToDomainAuditRecord(m)
		if err != nil {
			return nil, mapPgError(err, "failed to decode audit record")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating audit records")
	}
	return records, nil
}

package repositories

import (
	"context"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AuditRepository stores the audit trail written alongside every mutation
type AuditRepository interface {
	// SaveAuditRecordInTx writes an audit record inside the mutation's transaction.
	SaveAuditRecordInTx(ctx context.Context, tx pgx.Tx, record domain.AuditRecord) error

	// ListAuditRecords returns the newest records for a tenant.
	ListAuditRecords(ctx context.Context, tenantID string, filter domain.AuditFilter) ([]domain.AuditRecord, error)
}

package services

import (
	"context"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
)

// AuditSvc exposes the audit trail written by the ledger services
type AuditSvc interface {
	ListAuditRecords(ctx context.Context, tenantID string, params dto.ListAuditParams) ([]domain.AuditRecord, error)
}

package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
)

type auditService struct {
	BaseService
	auditRepo portsrepo.AuditRepository
}

// NewAuditService creates a read-only view over the audit trail.
func NewAuditService(repo portsrepo.AuditRepository, options ...ServiceOption) portssvc.AuditSvc {
	svc := &auditService{auditRepo: repo}
	svc.apply(options)
	return svc
}

var _ portssvc.AuditSvc = (*auditService)(nil)

func (s *auditService) ListAuditRecords(ctx context.Context, tenantID string, params dto.ListAuditParams) ([]domain.AuditRecord, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	records, err := s.auditRepo.ListAuditRecords(ctx, tenantID, params.ToFilter())
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit records", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if records == nil {
		return []domain.AuditRecord{}, nil
	}
	return records, nil
}

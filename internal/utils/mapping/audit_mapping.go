package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/models"
)

// ToModelAuditRecord converts a domain AuditRecord to a model AuditRecord, encoding its metadata.
func ToModelAuditRecord(d domain.AuditRecord) (models.AuditRecord, error) {
	metadata := []byte("{}")
	if len(d.Metadata) > 0 {
		encoded, err := json.Marshal(d.Metadata)
		if err != nil {
			return models.AuditRecord{}, fmt.Errorf("failed to encode audit metadata: %w", err)
		}
		metadata = encoded
	}
	return models.AuditRecord{
		AuditID:    d.AuditID,
		TenantID:   d.TenantID,
		ActorID:    d.ActorID,
		Action:     string(d.Action),
		TargetType: d.TargetType,
		TargetID:   d.TargetID,
		Metadata:   metadata,
		CreatedAt:  d.CreatedAt,
	}, nil
}

// ToDomainAuditRecord converts a model AuditRecord to a domain AuditRecord.
func ToDomainAuditRecord(m models.AuditRecord) (domain.AuditRecord, error) {
	rec := domain.AuditRecord{
		AuditID:    m.AuditID,
		TenantID:   m.TenantID,
		ActorID:    m.ActorID,
		Action:     domain.AuditAction(m.Action),
		TargetType: m.TargetType,
		TargetID:   m.TargetID,
		CreatedAt:  m.CreatedAt,
	}
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &rec.Metadata); err != nil {
			return domain.AuditRecord{}, fmt.Errorf("failed to decode audit metadata: %w", err)
		}
	}
	return rec, nil
}

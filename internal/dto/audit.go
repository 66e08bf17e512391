package dto

import (
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
)

// ListAuditParams filters the audit trail.
type ListAuditParams struct {
	TargetType string `form:"targetType" binding:"omitempty,oneof=account journal_entry invoice budget expense"`
	TargetID   string `form:"targetID"`
	Limit      int    `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
}

// ToFilter converts the query parameters into a repository filter.
func (p ListAuditParams) ToFilter() domain.AuditFilter {
	return domain.AuditFilter{TargetType: p.TargetType, TargetID: p.TargetID, Limit: p.Limit}
}

// ListAuditResponse wraps audit records.
type ListAuditResponse struct {
	Records []domain.AuditRecord `json:"records"`
}

package domain

import "time"

// AuditAction names a mutation recorded in the audit log.
type AuditAction string

const (
	ActionCreate    AuditAction = "create"
	ActionUpdate    AuditAction = "update"
	ActionDelete    AuditAction = "delete"
	ActionPost      AuditAction = "post"
	ActionReverse   AuditAction = "reverse"
	ActionReconcile AuditAction = "reconcile"
)

// Audit target types.
const (
	TargetAccount      = "account"
	TargetJournalEntry = "journal_entry"
	TargetInvoice      = "invoice"
	TargetBudget       = "budget"
	TargetExpense      = "expense"
)

// AuditRecord is written in the same transaction as the mutation it describes.
type AuditRecord struct {
	AuditID    string         `json:"auditID"`
	TenantID   *string        `json:"tenantID,omitempty"`
	ActorID    string         `json:"actorID"`
	Action     AuditAction    `json:"action"`
	TargetType string         `json:"targetType"`
	TargetID   string         `json:"targetID"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// AuditFilter narrows audit log listings.
type AuditFilter struct {
	TargetType string
	TargetID   string
	Limit      int
}

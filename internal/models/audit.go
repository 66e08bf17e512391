package models

import "time"

// AuditRecord represents a row of the audit_log table. Metadata is stored as JSONB.
type AuditRecord struct {
	AuditID    string    `db:"audit_id"`
	TenantID   *string   `db:"tenant_id"`
	ActorID    string    `db:"actor_id"`
	Action     string    `db:"action"`
	TargetType string    `db:"target_type"`
	TargetID   string    `db:"target_id"`
	Metadata   []byte    `db:"metadata"`
	CreatedAt  time.Time `db:"created_at"`
}

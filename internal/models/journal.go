package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

// JournalEntry represents a row of the journal_entries table.
type JournalEntry struct {
	EntryID      string        `db:"entry_id"`
	TenantID     string        `db:"tenant_id"`
	Reference    string        `db:"reference"`
	EntryDate    time.Time     `db:"entry_date"`
	Description  string        `db:"description"`
	Status       JournalStatus `db:"status"`
	PostedBy     *string       `db:"posted_by"`
	PostedAt     *time.Time    `db:"posted_at"`
	ReversalOfID *string       `db:"reversal_of_id"`
	ReversedByID *string       `db:"reversed_by_id"`
	VoidReason   string        `db:"void_reason"`
	SourceType   string        `db:"source_type"`
	SourceID     *string       `db:"source_id"`
	AuditFields
}

// JournalLine represents a row of the journal_lines table.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	LineNo      int             `db:"line_no"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"account_code"`
	AccountName string          `db:"account_name"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Memo        string          `db:"memo"`
}

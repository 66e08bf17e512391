package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
	Void   JournalStatus = "VOID"
)

// ReversalSuffix is appended to the original reference to form a reversal's reference.
const ReversalSuffix = "-REV"

// SourceInvoice marks entries synthesized from an invoice.
const SourceInvoice = "INVOICE"

// JournalEntry is a dated, referenced set of journal lines.
// Lines are mutable only while the entry is a draft.
type JournalEntry struct {
	EntryID      string        `json:"entryID"`
	TenantID     string        `json:"tenantID"`
	Reference    string        `json:"reference"`
	EntryDate    time.Time     `json:"entryDate"`
	Description  string        `json:"description"`
	Status       JournalStatus `json:"status"`
	PostedBy     *string       `json:"postedBy,omitempty"`
	PostedAt     *time.Time    `json:"postedAt,omitempty"`
	ReversalOfID *string       `json:"reversalOfID,omitempty"`
	ReversedByID *string       `json:"reversedByID,omitempty"`
	VoidReason   string        `json:"voidReason,omitempty"`
	SourceType   string        `json:"sourceType,omitempty"`
	SourceID     *string       `json:"sourceID,omitempty"`
	Lines        []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is a single debit or credit against one account.
// AccountCode and AccountName are captured when the line is written.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo"`
}

// IsReversal reports whether the entry was created by reversing another entry.
func (e JournalEntry) IsReversal() bool {
	return e.ReversalOfID != nil
}

// AccountIDs returns the distinct account ids referenced by the entry's lines, in line order.
func (e JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// JournalFilter narrows journal entry listings.
type JournalFilter struct {
	Status    *JournalStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	NextToken *string
}

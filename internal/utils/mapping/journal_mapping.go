package mapping

import (
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:      d.EntryID,
		TenantID:     d.TenantID,
		Reference:    d.Reference,
		EntryDate:    d.EntryDate,
		Description:  d.Description,
		Status:       models.JournalStatus(d.Status),
		PostedBy:     d.PostedBy,
		PostedAt:     d.PostedAt,
		ReversalOfID: d.ReversalOfID,
		ReversedByID: d.ReversedByID,
		VoidReason:   d.VoidReason,
		SourceType:   d.SourceType,
		SourceID:     d.SourceID,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry without lines
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:      m.EntryID,
		TenantID:     m.TenantID,
		Reference:    m.Reference,
		EntryDate:    m.EntryDate,
		Description:  m.Description,
		Status:       domain.JournalStatus(m.Status),
		PostedBy:     m.PostedBy,
		PostedAt:     m.PostedAt,
		ReversalOfID: m.ReversalOfID,
		ReversedByID: m.ReversedByID,
		VoidReason:   m.VoidReason,
		SourceType:   m.SourceType,
		SourceID:     m.SourceID,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		LineNo:      d.LineNo,
		AccountID:   d.AccountID,
		AccountCode: d.AccountCode,
		AccountName: d.AccountName,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Memo:        d.Memo,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		LineNo:      m.LineNo,
		AccountID:   m.AccountID,
		AccountCode: m.AccountCode,
		AccountName: m.AccountName,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Memo:        m.Memo,
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to a slice of domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}

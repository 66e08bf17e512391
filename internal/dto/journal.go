package dto

import (
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a journal entry. The omitted side defaults to zero.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit" binding:"gte=0"`
	Credit    decimal.Decimal `json:"credit" binding:"gte=0"`
	Memo      string          `json:"memo" binding:"max=500"`
}

// CreateJournalEntryRequest defines the data needed to draft a journal entry.
type CreateJournalEntryRequest struct {
	Reference   string               `json:"reference" binding:"required,max=60"`
	EntryDate   string               `json:"entryDate" binding:"required,datetime=2006-01-02"`
	Description string               `json:"description" binding:"max=1000"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalEntryRequest edits a draft entry. When Lines is present it replaces every line.
type UpdateJournalEntryRequest struct {
	Reference   *string              `json:"reference" binding:"omitempty,max=60"`
	EntryDate   *string              `json:"entryDate" binding:"omitempty,datetime=2006-01-02"`
	Description *string              `json:"description" binding:"omitempty,max=1000"`
	Lines       []JournalLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// ReverseJournalEntryRequest carries the reason recorded on the voided entry.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Status    string  `form:"status" binding:"omitempty,oneof=DRAFT POSTED VOID"`
	From      string  `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string  `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID       string                `json:"entryID"`
	Reference     string                `json:"reference"`
	EntryDate     string                `json:"entryDate"`
	Description   string                `json:"description"`
	Status        domain.JournalStatus  `json:"status"`
	PostedBy      *string               `json:"postedBy,omitempty"`
	PostedAt      *time.Time            `json:"postedAt,omitempty"`
	ReversalOfID  *string               `json:"reversalOfID,omitempty"`
	ReversedByID  *string               `json:"reversedByID,omitempty"`
	VoidReason    string                `json:"voidReason,omitempty"`
	SourceType    string                `json:"sourceType,omitempty"`
	SourceID      *string               `json:"sourceID,omitempty"`
	TotalDebit    decimal.Decimal       `json:"totalDebit"`
	TotalCredit   decimal.Decimal       `json:"totalCredit"`
	Lines         []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy string                `json:"lastUpdatedBy"`
}

// ListJournalEntriesResponse wraps a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	res := JournalEntryResponse{
		EntryID:       e.EntryID,
		Reference:     e.Reference,
		EntryDate:     FormatDate(e.EntryDate),
		Description:   e.Description,
		Status:        e.Status,
		PostedBy:      e.PostedBy,
		PostedAt:      e.PostedAt,
		ReversalOfID:  e.ReversalOfID,
		ReversedByID:  e.ReversedByID,
		VoidReason:    e.VoidReason,
		SourceType:    e.SourceType,
		SourceID:      e.SourceID,
		TotalDebit:    decimal.Zero,
		TotalCredit:   decimal.Zero,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
		LastUpdatedAt: e.LastUpdatedAt,
		LastUpdatedBy: e.LastUpdatedBy,
	}
	if len(e.Lines) > 0 {
		res.Lines = make([]JournalLineResponse, len(e.Lines))
	}
	for i, l := range e.Lines {
		res.Lines[i] = JournalLineResponse{
			LineID:      l.LineID,
			LineNo:      l.LineNo,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Memo:        l.Memo,
		}
		res.TotalDebit = res.TotalDebit.Add(l.Debit)
		res.TotalCredit = res.TotalCredit.Add(l.Credit)
	}
	return res
}

// ToJournalEntryResponses converts a slice of entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}

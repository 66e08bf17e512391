package services

import (
	"context"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntryByID retrieves a journal entry and its lines.
	GetEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of journal entries.
	ListEntries(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines draft editing operations
type JournalWriterSvc interface {
	// CreateEntry drafts a new entry. No balance changes until it is posted.
	CreateEntry(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// UpdateEntry edits a draft entry, replacing all lines when lines are supplied.
	UpdateEntry(ctx context.Context, tenantID string, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// DeleteEntry removes a draft entry.
	DeleteEntry(ctx context.Context, tenantID string, entryID string, userID string) error

	// ResolveLines validates line amounts and resolves every account for a tenant,
	// denormalizing account code and name onto the lines.
	ResolveLines(ctx context.Context, tenantID string, lines []domain.JournalLine) (map[string]domain.Account, error)
}

// JournalPosterSvc defines the ledger-affecting transitions
type JournalPosterSvc interface {
	// PostEntry posts a balanced draft entry and applies its balance changes.
	PostEntry(ctx context.Context, tenantID string, entryID string, userID string) (*domain.JournalEntry, error)

	// ReverseEntry posts a mirror entry and voids the original. It returns the reversal.
	ReverseEntry(ctx context.Context, tenantID string, entryID string, reason string, userID string) (*domain.JournalEntry, error)

	// PreparePosting checks that a draft is postable and computes its balance changes.
	PreparePosting(ctx context.Context, entry *domain.JournalEntry) (map[string]decimal.Decimal, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalPosterSvc
}

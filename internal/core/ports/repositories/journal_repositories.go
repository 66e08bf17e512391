package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves a journal entry and its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByReference retrieves an entry by its tenant-scoped reference.
	FindEntryByReference(ctx context.Context, tenantID, reference string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entry headers for a tenant, newest first.
	// It returns the entries and a token for the next page.
	ListEntries(ctx context.Context, tenantID string, filter domain.JournalFilter) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveEntry persists a draft entry with its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, audit domain.AuditRecord) error

	// ReplaceEntry rewrites a draft entry's header and replaces all of its lines.
	// It fails with ErrInvalidState if the entry is no longer a draft.
	ReplaceEntry(ctx context.Context, entry domain.JournalEntry, audit domain.AuditRecord) error

	// DeleteEntry removes a draft entry and its lines.
	DeleteEntry(ctx context.Context, entryID string, audit domain.AuditRecord) error

	// PostEntry marks a draft entry posted and applies the balance changes in one transaction.
	// It fails with ErrInvalidState if the stored entry is no longer the draft that was loaded.
	PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, postedBy string, postedAt time.Time, audit domain.AuditRecord) error

	// ReverseEntry inserts the posted reversal, applies its balance changes and voids
	// the original in one transaction.
	ReverseEntry(ctx context.Context, originalID string, reversal domain.JournalEntry, balanceChanges map[string]decimal.Decimal, reason string, audit domain.AuditRecord) error
}

// JournalTransactionSupport defines journal operations that join a caller's transaction
type JournalTransactionSupport interface {
	// LockEntryForUpdate loads an entry header with its row locked.
	LockEntryForUpdate(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error)

	// CreateEntryInTx inserts an entry and its lines.
	CreateEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// PostEntryInTx locks the entry, checks it is still the loaded draft, flips it to posted
	// and applies the balance changes.
	PostEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, postedBy string, postedAt time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalTransactionSupport
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}

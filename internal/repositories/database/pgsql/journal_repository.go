package pgsql

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/shop_finance_ledger/internal/models"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/accounting"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/mapping"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, tenant_id, reference, entry_date, description, status, posted_by, posted_at,
		reversal_of_id, reversed_by_id, void_reason, source_type, source_id,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

func scanEntry(row rowScanner) (domain.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.Reference,
		&m.EntryDate,
		&m.Description,
		&m.Status,
		&m.PostedBy,
		&m.PostedAt,
		&m.ReversalOfID,
		&m.ReversedByID,
		&m.VoidReason,
		&m.SourceType,
		&m.SourceID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	return mapping.ToDomainJournalEntry(m), nil
}

// loadLines fetches the lines of the given entries keyed by entry id, in line order.
func loadLines(ctx context.Context, q querier, entryIDs []string) (map[string][]domain.JournalLine, error) {
	linesByEntry := make(map[string][]domain.JournalLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return linesByEntry, nil
	}
	query := `
		SELECT line_id, entry_id, line_no, account_id, account_code, account_name, debit, credit, memo
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_no;
	`
	rows, err := q.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to query journal lines")
	}
	defer rows.Close()
	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.LineNo, &m.AccountID, &m.AccountCode, &m.AccountName, &m.Debit, &m.Credit, &m.Memo); err != nil {
			return nil, mapPgError(err, "failed to scan journal line")
		}
		linesByEntry[m.EntryID] = append(linesByEntry[m.EntryID], mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating journal lines")
	}
	return linesByEntry, nil
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, where string, notFound string, args ...any) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ` + where + `;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError(err, notFound)
	}
	lines, err := loadLines(ctx, r.Pool, []string{entry.EntryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entry.EntryID]
	return &entry, nil
}

// FindEntryByID retrieves a journal entry and its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "entry_id = $1", "journal entry "+entryID+" not found", entryID)
}

// FindEntryByReference retrieves an entry by its tenant-scoped reference.
func (r *PgxJournalRepository) FindEntryByReference(ctx context.Context, tenantID, reference string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "tenant_id = $1 AND reference = $2", "journal entry "+reference+" not found", tenantID, reference)
}

// ListEntries returns a page ordered by (entry_date, created_at, entry_id) descending.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, tenantID string, filter domain.JournalFilter) ([]domain.JournalEntry, *string, error) {
	limit := pagination.ClampLimit(filter.Limit, 20, 100)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1`)
	args := []any{tenantID}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		sb.WriteString(` AND status = ` + next(string(*filter.Status)))
	}
	if filter.From != nil {
		sb.WriteString(` AND entry_date >= ` + next(*filter.From))
	}
	if filter.To != nil {
		sb.WriteString(` AND entry_date <= ` + next(*filter.To))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken", err)
		}
		sb.WriteString(` AND (entry_date, created_at, entry_id) < (` + next(cursor.Date) + `, ` + next(cursor.CreatedAt) + `, ` + next(cursor.ID) + `)`)
	}
	// One extra row tells whether another page exists.
	sb.WriteString(` ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT ` + next(limit+1) + `;`)

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to query journal entries for tenant "+tenantID)
	}
	entries := make([]domain.JournalEntry, 0, limit+1)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, nil, mapPgError(err, "failed to scan journal entry")
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, mapPgError(err, "error iterating journal entries")
	}

	var nextToken *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.EntryID})
		nextToken = &token
		entries = entries[:limit]
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
	}
	lines, err := loadLines(ctx, r.Pool, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].EntryID]
	}
	return entries, nextToken, nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.TenantID,
		m.Reference,
		m.EntryDate,
		m.Description,
		m.Status,
		m.PostedBy,
		m.PostedAt,
		m.ReversalOfID,
		m.ReversedByID,
		m.VoidReason,
		m.SourceType,
		m.SourceID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "journal entry reference "+m.Reference+" already exists")
	}
	return insertLines(ctx, tx, entry.Lines)
}

func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO journal_lines (line_id, entry_id, line_no, account_id, account_code, account_name, debit, credit, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, l := range lines {
		m := mapping.ToModelJournalLine(l)
		batch.Queue(query, m.LineID, m.EntryID, m.LineNo, m.AccountID, m.AccountCode, m.AccountName, m.Debit, m.Credit, m.Memo)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "failed to insert journal lines")
	}
	return nil
}

// lockDraft locks an entry and fails with ErrInvalidState unless it is a draft.
func (r *PgxJournalRepository) lockDraft(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error) {
	locked, err := r.LockEntryForUpdate(ctx, tx, entryID)
	if err != nil {
		return nil, err
	}
	if locked.Status != domain.Draft {
		return nil, apperrors.NewAppError(http.StatusUnprocessableEntity, "journal entry "+entryID+" is "+string(locked.Status), apperrors.ErrInvalidState)
	}
	return locked, nil
}

// SaveEntry persists a draft entry with its lines.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, audit domain.AuditRecord) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertEntry(ctx, tx, entry); err != nil {
			return err
		}
		return insertAuditRecord(ctx, tx, audit)
	})
}

// ReplaceEntry rewrites a draft's header and swaps all of its lines.
func (r *PgxJournalRepository) ReplaceEntry(ctx context.Context, entry domain.JournalEntry, audit domain.AuditRecord) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := r.lockDraft(ctx, tx, entry.EntryID); err != nil {
			return err
		}
		query := `
			UPDATE journal_entries
			SET reference = $2, entry_date = $3, description = $4, last_updated_at = $5, last_updated_by = $6
			WHERE entry_id = $1;
		`
		if _, err := tx.Exec(ctx, query, entry.EntryID, entry.Reference, entry.EntryDate, entry.Description, entry.LastUpdatedAt, entry.LastUpdatedBy); err != nil {
			return mapPgError(err, "journal entry reference "+entry.Reference+" already exists")
		}
		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
			return mapPgError(err, "failed to delete lines of journal entry "+entry.EntryID)
		}
		if err := insertLines(ctx, tx, entry.Lines); err != nil {
			return err
		}
		return insertAuditRecord(ctx, tx, audit)
	})
}

// DeleteEntry removes a draft entry. Draft invoices linked to it lose the link.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string, audit domain.AuditRecord) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := r.lockDraft(ctx, tx, entryID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE invoices SET journal_entry_id = NULL WHERE journal_entry_id = $1 AND status = 'DRAFT';`, entryID); err != nil {
			return mapPgError(err, "failed to unlink invoices from journal entry "+entryID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID); err != nil {
			return mapPgError(err, "failed to delete journal entry "+entryID)
		}
		return insertAuditRecord(ctx, tx, audit)
	})
}

// PostEntry posts a draft and applies its balance changes in one transaction.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, postedBy string, postedAt time.Time, audit domain.AuditRecord) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := r.PostEntryInTx(ctx, tx, entry, balanceChanges, postedBy, postedAt); err != nil {
			return err
		}
		return insertAuditRecord(ctx, tx, audit)
	})
}

// PostEntryInTx fails with ErrInvalidState when the stored entry changed since it was loaded.
func (r *PgxJournalRepository) PostEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, postedBy string, postedAt time.Time) error {
	locked, err := r.lockDraft(ctx, tx, entry.EntryID)
	if err != nil {
		return err
	}
	// Stored timestamps carry microsecond precision.
	if !locked.LastUpdatedAt.Truncate(time.Microsecond).Equal(entry.LastUpdatedAt.Truncate(time.Microsecond)) {
		return apperrors.NewAppError(http.StatusUnprocessableEntity, "journal entry "+entry.EntryID+" was modified concurrently", apperrors.ErrInvalidState)
	}
	return r.markPosted(ctx, tx, entry.EntryID, balanceChanges, postedBy, postedAt)
}

// markPosted locks the touched accounts, applies the deltas and flips the entry to POSTED.
func (r *PgxJournalRepository) markPosted(ctx context.Context, tx pgx.Tx, entryID string, balanceChanges map[string]decimal.Decimal, postedBy string, postedAt time.Time) error {
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accounting.SortedKeys(balanceChanges)); err != nil {
		return err
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, postedBy, postedAt); err != nil {
		return err
	}
	query := `
		UPDATE journal_entries
		SET status = 'POSTED', posted_by = $2, posted_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE entry_id = $1;
	`
	if _, err := tx.Exec(ctx, query, entryID, postedBy, postedAt); err != nil {
		return mapPgError(err, "failed to mark journal entry "+entryID+" posted")
	}
	return nil
}

// ReverseEntry inserts the posted reversal, applies its balance changes and voids the original.
func (r *PgxJournalRepository) ReverseEntry(ctx context.Context, originalID string, reversal domain.JournalEntry, balanceChanges map[string]decimal.Decimal, reason string, audit domain.AuditRecord) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		original, err := r.LockEntryForUpdate(ctx, tx, originalID)
		if err != nil {
			return err
		}
		if original.Status != domain.Posted || original.ReversedByID != nil || original.IsReversal() {
			return apperrors.NewAppError(http.StatusUnprocessableEntity, "journal entry "+originalID+" cannot be reversed", apperrors.ErrInvalidState)
		}

		if err := r.CreateEntryInTx(ctx, tx, reversal); err != nil {
			return err
		}
		if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accounting.SortedKeys(balanceChanges)); err != nil {
			return err
		}
		if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, reversal.CreatedBy, reversal.CreatedAt); err != nil {
			return err
		}

		query := `
			UPDATE journal_entries
			SET status = 'VOID', reversed_by_id = $2, void_reason = $3, last_updated_at = $4, last_updated_by = $5
			WHERE entry_id = $1;
		`
		if _, err := tx.Exec(ctx, query, originalID, reversal.EntryID, reason, reversal.CreatedAt, reversal.CreatedBy); err != nil {
			return mapPgError(err, "failed to void journal entry "+originalID)
		}
		return insertAuditRecord(ctx, tx, audit)
	})
}

// LockEntryForUpdate loads an entry header with its row locked.
func (r *PgxJournalRepository) LockEntryForUpdate(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`
	entry, err := scanEntry(tx.QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, mapPgError(err, "journal entry "+entryID+" not found")
	}
	return &entry, nil
}

// CreateEntryInTx inserts an entry and its lines.
func (r *PgxJournalRepository) CreateEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	return insertEntry(ctx, tx, entry)
}

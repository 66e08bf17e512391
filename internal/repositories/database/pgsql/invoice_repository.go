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
	"github.com/SscSPs/shop_finance_ledger/internal/utils/mapping"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const invoiceColumns = `invoice_id, tenant_id, reference, customer_name, customer_email, customer_address,
		invoice_date, due_date, total, tax_amount, status, receivable_account_id, journal_entry_id,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	BaseRepository
	journalRepo portsrepo.JournalTransactionSupport
}

// newPgxInvoiceRepository creates a new repository for invoices and their items.
func newPgxInvoiceRepository(pool *pgxpool.Pool, journalRepo portsrepo.JournalTransactionSupport) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
		journalRepo:    journalRepo,
	}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row rowScanner) (domain.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.TenantID,
		&m.Reference,
		&m.CustomerName,
		&m.CustomerEmail,
		&m.CustomerAddress,
		&m.InvoiceDate,
		&m.DueDate,
		&m.Total,
		&m.TaxAmount,
		&m.Status,
		&m.ReceivableAccountID,
		&m.JournalEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Invoice{}, err
	}
	return mapping.ToDomainInvoice(m), nil
}

// FindInvoiceByID retrieves an invoice with its items.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	inv, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		return nil, mapPgError(err, "invoice "+invoiceID+" not found")
	}

	itemQuery := `
		SELECT item_id, invoice_id, line_no, description, quantity, unit_price, tax_rate, net_amount, tax_amount, amount, account_id
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY line_no;
	`
	rows, err := r.Pool.Query(ctx, itemQuery, invoiceID)
	if err != nil {
		return nil, mapPgError(err, "failed to query items of invoice "+invoiceID)
	}
	defer rows.Close()
	inv.Items = []domain.InvoiceItem{}
	for rows.Next() {
		var m models.InvoiceItem
		if err := rows.Scan(&m.ItemID, &m.InvoiceID, &m.LineNo, &m.Description, &m.Quantity, &m.UnitPrice, &m.TaxRate, &m.NetAmount, &m.TaxAmount, &m.Amount, &m.AccountID); err != nil {
			return nil, mapPgError(err, "failed to scan invoice item")
		}
		inv.Items = append(inv.Items, mapping.ToDomainInvoiceItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating invoice items")
	}
	return &inv, nil
}

// ListInvoices returns a page of invoice headers ordered by (invoice_date, created_at, invoice_id) descending.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, tenantID string, filter domain.InvoiceFilter) ([]domain.Invoice, *string, error) {
	limit := pagination.ClampLimit(filter.Limit, 20, 100)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1`)
	args := []any{tenantID}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		sb.WriteString(` AND status = ` + next(string(*filter.Status)))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken", err)
		}
		sb.WriteString(` AND (invoice_date, created_at, invoice_id) < (` + next(cursor.Date) + `, ` + next(cursor.CreatedAt) + `, ` + next(cursor.ID) + `)`)
	}
	sb.WriteString(` ORDER BY invoice_date DESC, created_at DESC, invoice_id DESC LIMIT ` + next(limit+1) + `;`)

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to query invoices for tenant "+tenantID)
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0, limit+1)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, mapPgError(err, "failed to scan invoice")
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapPgError(err, "error iterating invoices")
	}

	var nextToken *string
	if len(invoices) > limit {
		last := invoices[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.InvoiceDate, CreatedAt: last.CreatedAt, ID: last.InvoiceID})
		nextToken = &token
		invoices = invoices[:limit]
	}
	return invoices, nextToken, nil
}

func insertInvoiceItems(ctx context.Context, tx pgx.Tx, items []domain.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (item_id, invoice_id, line_no, description, quantity, unit_price, tax_rate, net_amount, tax_amount, amount, account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		m := mapping.ToModelInvoiceItem(item)
		batch.Queue(query, m.ItemID, m.InvoiceID, m.LineNo, m.Description, m.Quantity, m.UnitPrice, m.TaxRate, m.NetAmount, m.TaxAmount, m.Amount, m.AccountID)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "failed to insert invoice items")
	}
	return nil
}

// lockInvoice locks an invoice row and returns its status and version.
func lockInvoice(ctx context.Context, tx pgx.Tx, invoiceID string) (domain.InvoiceStatus, time.Time, error) {
	var status string
	var lastUpdatedAt time.Time
	err := tx.QueryRow(ctx, `SELECT status, last_updated_at FROM invoices WHERE invoice_id = $1 FOR UPDATE;`, invoiceID).Scan(&status, &lastUpdatedAt)
	if err != nil {
		return "", time.Time{}, mapPgError(err, "invoice "+invoiceID+" not found")
	}
	return domain.InvoiceStatus(status), lastUpdatedAt, nil
}

func lockDraftInvoice(ctx context.Context, tx pgx.Tx, invoiceID string) error {
	status, _, err := lockInvoice(ctx, tx, invoiceID)
	if err != nil {
		return err
	}
	if status != domain.InvoiceDraft {
		return apperrors.NewAppError(http.StatusUnprocessableEntity, "invoice "+invoiceID+" is "+string(status), apperrors.ErrInvalidState)
	}
	return nil
}

// SaveInvoice persists a draft invoice with its items.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, audit domain.AuditRecord) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			m.InvoiceID,
			m.TenantID,
			m.Reference,
			m.CustomerName,
			m.CustomerEmail,
			m.CustomerAddress,
			m.InvoiceDate,
			m.DueDate,
			m.Total,
			m.TaxAmount,
			m.Status,
			m.ReceivableAccountID,
			m.JournalEntryID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return mapPgError(err, "invoice reference "+m.Reference+" already exists")
		}
		if err := insertInvoiceItems(ctx, tx, invoice.Items); err != nil {
			return err
		}
		return insertAuditRecord(ctx, tx, audit)
	})
}

// ReplaceInvoice rewrites a draft invoice and all of its items.
func (r *PgxInvoiceRepository) ReplaceInvoice(ctx context.Context, invoice domain.Invoice, audit domain.AuditRecord) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		UPDATE invoices
		SET reference = $2, customer_name = $3, customer_email = $4, customer_address = $5, invoice_date = $6,
		    due_date = $7, total = $8, tax_amount = $9, receivable_account_id = $10, journal_entry_id = $11,
		    last_updated_at = $12, last_updated_by = $13
		WHERE invoice_id = $1;
	`
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockDraftInvoice(ctx, tx, m.InvoiceID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, query,
			m.InvoiceID,
			m.Reference,
			m.CustomerName,
			m.CustomerEmail,
			m.CustomerAddress,
			m.InvoiceDate,
			m.DueDate,
			m.Total,
			m.TaxAmount,
			m.ReceivableAccountID,
			m.JournalEntryID,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return mapPgError(err, "invoice reference "+m.Reference+" already exists")
		}
		if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, m.InvoiceID); err != nil {
			return mapPgError(err, "failed to delete items of invoice "+m.InvoiceID)
		}
		if err := insertInvoiceItems(ctx, tx, invoice.Items); err != nil {
			return err
		}
		return insertAuditRecord(ctx, tx, audit)
	})
}

// DeleteInvoice removes a draft invoice and its items.
func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string, audit domain.AuditRecord) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockDraftInvoice(ctx, tx, invoiceID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1;`, invoiceID); err != nil {
			return mapPgError(err, "failed to delete invoice "+invoiceID)
		}
		return insertAuditRecord(ctx, tx, audit)
	})
}

// PostInvoice posts the invoice's entry, links it and flips the invoice to POSTED in one transaction.
func (r *PgxInvoiceRepository) PostInvoice(ctx context.Context, invoice domain.Invoice, entry domain.JournalEntry, createEntry bool, balanceChanges map[string]decimal.Decimal, postedBy string, postedAt time.Time, audits []domain.AuditRecord) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		status, lastUpdatedAt, err := lockInvoice(ctx, tx, invoice.InvoiceID)
		if err != nil {
			return err
		}
		if status == domain.InvoicePosted {
			return apperrors.NewAppError(http.StatusUnprocessableEntity, "invoice "+invoice.InvoiceID, apperrors.ErrAlreadyPosted)
		}
		if !lastUpdatedAt.Truncate(time.Microsecond).Equal(invoice.LastUpdatedAt.Truncate(time.Microsecond)) {
			return apperrors.NewAppError(http.StatusUnprocessableEntity, "invoice "+invoice.InvoiceID+" was modified concurrently", apperrors.ErrInvalidState)
		}

		if createEntry {
			if err := r.journalRepo.CreateEntryInTx(ctx, tx, entry); err != nil {
				return err
			}
		}
		if err := r.journalRepo.PostEntryInTx(ctx, tx, entry, balanceChanges, postedBy, postedAt); err != nil {
			return err
		}

		query := `
			UPDATE invoices
			SET status = 'POSTED', journal_entry_id = $2, receivable_account_id = COALESCE(receivable_account_id, $3),
			    last_updated_at = $4, last_updated_by = $5
			WHERE invoice_id = $1;
		`
		if _, err := tx.Exec(ctx, query, invoice.InvoiceID, entry.EntryID, invoice.ReceivableAccountID, postedAt, postedBy); err != nil {
			return mapPgError(err, "failed to mark invoice "+invoice.InvoiceID+" posted")
		}
		for _, audit := range audits {
			if err := insertAuditRecord(ctx, tx, audit); err != nil {
				return err
			}
		}
		return nil
	})
}

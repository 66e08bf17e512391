package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceReader defines read operations for invoices
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its items.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a page of invoice headers for a tenant, newest first.
	ListInvoices(ctx context.Context, tenantID string, filter domain.InvoiceFilter) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoices
type InvoiceWriter interface {
	// SaveInvoice persists a draft invoice with its items.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, audit domain.AuditRecord) error

	// ReplaceInvoice rewrites a draft invoice and replaces all of its items.
	ReplaceInvoice(ctx context.Context, invoice domain.Invoice, audit domain.AuditRecord) error

	// DeleteInvoice removes a draft invoice and its items.
	DeleteInvoice(ctx context.Context, invoiceID string, audit domain.AuditRecord) error

	// PostInvoice posts the invoice's journal entry and links it to the invoice in one
	// transaction. When createEntry is set the entry is inserted first; otherwise it is the
	// already linked draft. It fails with ErrAlreadyPosted if the invoice is posted.
	PostInvoice(ctx context.Context, invoice domain.Invoice, entry domain.JournalEntry, createEntry bool, balanceChanges map[string]decimal.Decimal, postedBy string, postedAt time.Time, audits []domain.AuditRecord) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

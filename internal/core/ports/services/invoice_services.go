package services

import (
	"context"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	GetInvoiceByID(ctx context.Context, tenantID string, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, tenantID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// RenderInvoicePDF renders the invoice as a PDF document.
	RenderInvoicePDF(ctx context.Context, tenantID string, invoiceID string) ([]byte, error)
}

// InvoiceWriterSvc defines write operations for invoices
type InvoiceWriterSvc interface {
	// CreateInvoice stores a draft invoice with server-computed totals.
	CreateInvoice(ctx context.Context, tenantID string, req dto.InvoiceRequest, userID string) (*domain.Invoice, error)

	// UpdateInvoice replaces a draft invoice's header and items and recomputes its totals.
	UpdateInvoice(ctx context.Context, tenantID string, invoiceID string, req dto.InvoiceRequest, userID string) (*domain.Invoice, error)

	// DeleteInvoice removes a draft invoice.
	DeleteInvoice(ctx context.Context, tenantID string, invoiceID string, userID string) error

	// PostInvoice posts the invoice to the ledger, synthesizing a journal entry when none is linked.
	PostInvoice(ctx context.Context, tenantID string, invoiceID string, userID string) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}

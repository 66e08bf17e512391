package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates the state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "DRAFT"
	InvoicePosted InvoiceStatus = "POSTED"
)

// Invoice is a customer invoice whose totals are always derived from its items.
type Invoice struct {
	InvoiceID           string          `json:"invoiceID"`
	TenantID            string          `json:"tenantID"`
	Reference           string          `json:"reference"`
	CustomerName        string          `json:"customerName"`
	CustomerEmail       string          `json:"customerEmail"`
	CustomerAddress     string          `json:"customerAddress"`
	InvoiceDate         time.Time       `json:"invoiceDate"`
	DueDate             *time.Time      `json:"dueDate,omitempty"`
	Total               decimal.Decimal `json:"total"`
	TaxAmount           decimal.Decimal `json:"taxAmount"`
	Status              InvoiceStatus   `json:"status"`
	ReceivableAccountID *string         `json:"receivableAccountID,omitempty"`
	JournalEntryID      *string         `json:"journalEntryID,omitempty"`
	Items               []InvoiceItem   `json:"items"`
	AuditFields
}

// InvoiceItem is one billed line of an invoice, credited to AccountID when posted.
type InvoiceItem struct {
	ItemID      string          `json:"itemID"`
	InvoiceID   string          `json:"invoiceID"`
	LineNo      int             `json:"lineNo"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	NetAmount   decimal.Decimal `json:"netAmount"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	Amount      decimal.Decimal `json:"amount"`
	AccountID   string          `json:"accountID"`
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Status    *InvoiceStatus
	Limit     int
	NextToken *string
}

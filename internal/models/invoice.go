package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates the state of an invoice.
type InvoiceStatus string

// Invoice represents a row of the invoices table.
type Invoice struct {
	InvoiceID           string          `db:"invoice_id"`
	TenantID            string          `db:"tenant_id"`
	Reference           string          `db:"reference"`
	CustomerName        string          `db:"customer_name"`
	CustomerEmail       string          `db:"customer_email"`
	CustomerAddress     string          `db:"customer_address"`
	InvoiceDate         time.Time       `db:"invoice_date"`
	DueDate             *time.Time      `db:"due_date"`
	Total               decimal.Decimal `db:"total"`
	TaxAmount           decimal.Decimal `db:"tax_amount"`
	Status              InvoiceStatus   `db:"status"`
	ReceivableAccountID *string         `db:"receivable_account_id"`
	JournalEntryID      *string         `db:"journal_entry_id"`
	AuditFields
}

// InvoiceItem represents a row of the invoice_items table.
type InvoiceItem struct {
	ItemID      string          `db:"item_id"`
	InvoiceID   string          `db:"invoice_id"`
	LineNo      int             `db:"line_no"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	TaxRate     decimal.Decimal `db:"tax_rate"`
	NetAmount   decimal.Decimal `db:"net_amount"`
	TaxAmount   decimal.Decimal `db:"tax_amount"`
	Amount      decimal.Decimal `db:"amount"`
	AccountID   string          `db:"account_id"`
}

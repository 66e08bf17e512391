package dto

import (
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest is one billed line. Amounts are always computed server-side.
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"gte=0"`
	TaxRate     decimal.Decimal `json:"taxRate" binding:"gte=0,lte=100"`
	AccountID   string          `json:"accountID" binding:"required"`
}

// InvoiceRequest creates an invoice or replaces a draft one in full.
// Totals sent by the client are ignored.
type InvoiceRequest struct {
	Reference           string               `json:"reference" binding:"required,max=60"`
	CustomerName        string               `json:"customerName" binding:"required,max=255"`
	CustomerEmail       string               `json:"customerEmail" binding:"omitempty,email"`
	CustomerAddress     string               `json:"customerAddress"`
	InvoiceDate         string               `json:"invoiceDate" binding:"required,datetime=2006-01-02"`
	DueDate             string               `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	ReceivableAccountID *string              `json:"receivableAccountID"`
	JournalEntryID      *string              `json:"journalEntryID"`
	Items               []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Status    string  `form:"status" binding:"omitempty,oneof=DRAFT POSTED"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// InvoiceItemResponse defines the data returned for an invoice item.
type InvoiceItemResponse struct {
	ItemID      string          `json:"itemID"`
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

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID           string                `json:"invoiceID"`
	Reference           string                `json:"reference"`
	CustomerName        string                `json:"customerName"`
	CustomerEmail       string                `json:"customerEmail,omitempty"`
	CustomerAddress     string                `json:"customerAddress,omitempty"`
	InvoiceDate         string                `json:"invoiceDate"`
	DueDate             string                `json:"dueDate,omitempty"`
	Total               decimal.Decimal       `json:"total"`
	TaxAmount           decimal.Decimal       `json:"taxAmount"`
	Status              domain.InvoiceStatus  `json:"status"`
	ReceivableAccountID *string               `json:"receivableAccountID,omitempty"`
	JournalEntryID      *string               `json:"journalEntryID,omitempty"`
	Items               []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
	CreatedBy           string                `json:"createdBy"`
	LastUpdatedAt       time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy       string                `json:"lastUpdatedBy"`
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	res := InvoiceResponse{
		InvoiceID:           inv.InvoiceID,
		Reference:           inv.Reference,
		CustomerName:        inv.CustomerName,
		CustomerEmail:       inv.CustomerEmail,
		CustomerAddress:     inv.CustomerAddress,
		InvoiceDate:         FormatDate(inv.InvoiceDate),
		DueDate:             formatOptionalDate(inv.DueDate),
		Total:               inv.Total,
		TaxAmount:           inv.TaxAmount,
		Status:              inv.Status,
		ReceivableAccountID: inv.ReceivableAccountID,
		JournalEntryID:      inv.JournalEntryID,
		CreatedAt:           inv.CreatedAt,
		CreatedBy:           inv.CreatedBy,
		LastUpdatedAt:       inv.LastUpdatedAt,
		LastUpdatedBy:       inv.LastUpdatedBy,
	}
	if len(inv.Items) > 0 {
		res.Items = make([]InvoiceItemResponse, len(inv.Items))
	}
	for i, item := range inv.Items {
		res.Items[i] = InvoiceItemResponse{
			ItemID:      item.ItemID,
			LineNo:      item.LineNo,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
			NetAmount:   item.NetAmount,
			TaxAmount:   item.TaxAmount,
			Amount:      item.Amount,
			AccountID:   item.AccountID,
		}
	}
	return res
}

// ToInvoiceResponses converts a slice of invoices.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		res[i] = ToInvoiceResponse(&invoices[i])
	}
	return res
}

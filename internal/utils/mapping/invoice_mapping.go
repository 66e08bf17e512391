package mapping

import (
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/models"
)

// ToModelInvoice converts a domain Invoice header to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:           d.InvoiceID,
		TenantID:            d.TenantID,
		Reference:           d.Reference,
		CustomerName:        d.CustomerName,
		CustomerEmail:       d.CustomerEmail,
		CustomerAddress:     d.CustomerAddress,
		InvoiceDate:         d.InvoiceDate,
		DueDate:             d.DueDate,
		Total:               d.Total,
		TaxAmount:           d.TaxAmount,
		Status:              models.InvoiceStatus(d.Status),
		ReceivableAccountID: d.ReceivableAccountID,
		JournalEntryID:      d.JournalEntryID,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice without items
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:           m.InvoiceID,
		TenantID:            m.TenantID,
		Reference:           m.Reference,
		CustomerName:        m.CustomerName,
		CustomerEmail:       m.CustomerEmail,
		CustomerAddress:     m.CustomerAddress,
		InvoiceDate:         m.InvoiceDate,
		DueDate:             m.DueDate,
		Total:               m.Total,
		TaxAmount:           m.TaxAmount,
		Status:              domain.InvoiceStatus(m.Status),
		ReceivableAccountID: m.ReceivableAccountID,
		JournalEntryID:      m.JournalEntryID,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceItem converts a domain InvoiceItem to a model InvoiceItem
func ToModelInvoiceItem(d domain.InvoiceItem) models.InvoiceItem {
	return models.InvoiceItem{
		ItemID:      d.ItemID,
		InvoiceID:   d.InvoiceID,
		LineNo:      d.LineNo,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		TaxRate:     d.TaxRate,
		NetAmount:   d.NetAmount,
		TaxAmount:   d.TaxAmount,
		Amount:      d.Amount,
		AccountID:   d.AccountID,
	}
}

// ToDomainInvoiceItem converts a model InvoiceItem to a domain InvoiceItem
func ToDomainInvoiceItem(m models.InvoiceItem) domain.InvoiceItem {
	return domain.InvoiceItem{
		ItemID:      m.ItemID,
		InvoiceID:   m.InvoiceID,
		LineNo:      m.LineNo,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TaxRate:     m.TaxRate,
		NetAmount:   m.NetAmount,
		TaxAmount:   m.TaxAmount,
		Amount:      m.Amount,
		AccountID:   m.AccountID,
	}
}

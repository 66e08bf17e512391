// Package invoicepdf renders invoices as A4 PDF documents.
package invoicepdf

import (
	"bytes"
	"fmt"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/jung-kurt/gofpdf"
)

const dateLayout = "2006-01-02"

var itemColumns = []struct {
	title string
	width float64
	align string
}{
	{"Description", 80, "L"},
	{"Qty", 20, "R"},
	{"Unit price", 30, "R"},
	{"Tax %", 20, "R"},
	{"Amount", 40, "R"},
}

// Render returns the invoice as a PDF document.
func Render(inv domain.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.Reference, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Invoice "+inv.Reference)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	header := [][2]string{
		{"Status", string(inv.Status)},
		{"Invoice date", inv.InvoiceDate.Format(dateLayout)},
	}
	if inv.DueDate != nil {
		header = append(header, [2]string{"Due date", inv.DueDate.Format(dateLayout)})
	}
	header = append(header, [2]string{"Bill to", inv.CustomerName})
	if inv.CustomerEmail != "" {
		header = append(header, [2]string{"Email", inv.CustomerEmail})
	}
	for _, h := range header {
		pdf.CellFormat(35, 7, h[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, h[1], "", 1, "L", false, 0, "")
	}
	if inv.CustomerAddress != "" {
		pdf.CellFormat(35, 7, "Address:", "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 7, inv.CustomerAddress, "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range itemColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		cells := []string{
			item.Description,
			item.Quantity.String(),
			item.UnitPrice.StringFixed(2),
			item.TaxRate.String(),
			item.Amount.StringFixed(2),
		}
		for i, col := range itemColumns {
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "", 11)
	subtotal := inv.Total.Sub(inv.TaxAmount)
	totals := [][2]string{
		{"Subtotal", subtotal.StringFixed(2)},
		{"Tax", inv.TaxAmount.StringFixed(2)},
		{"Total", inv.Total.StringFixed(2)},
	}
	for i, t := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Arial", "B", 12)
		}
		pdf.CellFormat(150, 8, t[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, t[1], "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.Reference, err)
	}
	return buf.Bytes(), nil
}

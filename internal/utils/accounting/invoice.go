package accounting

import (
	"fmt"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	maxTaxRate = decimal.NewFromInt(100)
	// maxItemValue is the first value that no longer fits NUMERIC(18,4).
	maxItemValue = decimal.New(1, 14)
)

const (
	itemValueDecimals = 4
	taxRateDecimals   = 2
)

// ValidateInvoiceItem checks quantity > 0, unit price >= 0 and 0 <= tax rate <= 100.
// Quantity and unit price carry at most four decimals and tax rate at most two, the
// precision they are stored with.
func ValidateInvoiceItem(quantity, unitPrice, taxRate decimal.Decimal) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be greater than zero", apperrors.ErrValidation)
	}
	if unitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price must not be negative", apperrors.ErrValidation)
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(maxTaxRate) {
		return fmt.Errorf("%w: tax rate must be between 0 and 100", apperrors.ErrValidation)
	}
	if !HasAtMostDecimals(quantity, itemValueDecimals) || !HasAtMostDecimals(unitPrice, itemValueDecimals) {
		return fmt.Errorf("%w: quantity and unit price must have at most %d decimal places", apperrors.ErrValidation, itemValueDecimals)
	}
	if !HasAtMostDecimals(taxRate, taxRateDecimals) {
		return fmt.Errorf("%w: tax rate must have at most %d decimal places", apperrors.ErrValidation, taxRateDecimals)
	}
	if quantity.GreaterThanOrEqual(maxItemValue) || unitPrice.GreaterThanOrEqual(maxItemValue) {
		return fmt.Errorf("%w: quantity and unit price must be below %s", apperrors.ErrValidation, maxItemValue.String())
	}
	return nil
}

// InvoiceItemAmounts returns the net, tax and gross amounts of an item, each rounded to cents.
// gross = net + tax, so it always equals quantity x unit price x (1 + rate/100) at cent precision.
func InvoiceItemAmounts(quantity, unitPrice, taxRate decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	net := quantity.Mul(unitPrice).Round(2)
	tax := quantity.Mul(unitPrice).Mul(taxRate).Div(hundred).Round(2)
	return net, tax, net.Add(tax)
}

// ApplyInvoiceTotals recomputes every item's amounts and the invoice's total and tax amount.
// Client-supplied totals are never trusted.
func ApplyInvoiceTotals(inv *domain.Invoice) {
	total := decimal.Zero
	taxTotal := decimal.Zero
	for i := range inv.Items {
		item := &inv.Items[i]
		item.NetAmount, item.TaxAmount, item.Amount = InvoiceItemAmounts(item.Quantity, item.UnitPrice, item.TaxRate)
		total = total.Add(item.Amount)
		taxTotal = taxTotal.Add(item.TaxAmount)
	}
	inv.Total = total
	inv.TaxAmount = taxTotal
}

// InvoiceEntryLines builds the balanced lines that post an invoice: the receivable is
// debited with the total, each item's account is credited with its net amount, and the
// tax account is credited with the tax. When taxAccount is nil items are credited gross.
func InvoiceEntryLines(inv domain.Invoice, receivable domain.Account, taxAccount *domain.Account, accounts map[string]domain.Account) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, 0, len(inv.Items)+2)
	lines = append(lines, domain.JournalLine{
		AccountID:   receivable.AccountID,
		AccountCode: receivable.Code,
		AccountName: receivable.Name,
		Debit:       inv.Total,
		Credit:      decimal.Zero,
		Memo:        "Invoice " + inv.Reference,
	})

	creditTaxSeparately := taxAccount != nil && inv.TaxAmount.IsPositive()
	for _, item := range inv.Items {
		acc, ok := accounts[item.AccountID]
		if !ok {
			return nil, apperrors.NewNotFoundError("account " + item.AccountID + " not found")
		}
		amount := item.Amount
		if creditTaxSeparately {
			amount = item.NetAmount
		}
		if amount.IsZero() {
			continue
		}
		lines = append(lines, domain.JournalLine{
			AccountID:   acc.AccountID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			Debit:       decimal.Zero,
			Credit:      amount,
			Memo:        item.Description,
		})
	}

	if creditTaxSeparately {
		lines = append(lines, domain.JournalLine{
			AccountID:   taxAccount.AccountID,
			AccountCode: taxAccount.Code,
			AccountName: taxAccount.Name,
			Debit:       decimal.Zero,
			Credit:      inv.TaxAmount,
			Memo:        "Tax on invoice " + inv.Reference,
		})
	}

	for i := range lines {
		lines[i].LineNo = i + 1
	}
	return lines, nil
}

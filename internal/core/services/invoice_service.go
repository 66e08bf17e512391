package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/accounting"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/invoicepdf"
	"github.com/google/uuid"
)

// InvoiceEntryPrefix is prepended to an invoice reference to form the reference of its journal entry.
const InvoiceEntryPrefix = "INV-"

// InvoiceAccountCodes are the chart-of-accounts codes an invoice posts to when it
// names no receivable account of its own.
type InvoiceAccountCodes struct {
	Receivable string
	Tax        string
}

// invoiceService bridges invoices to the journal engine.
type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	journalRepo portsrepo.JournalReader
	accountRepo portsrepo.AccountReader
	poster      portssvc.JournalPosterSvc
	codes       InvoiceAccountCodes
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, journalRepo portsrepo.JournalReader, accountRepo portsrepo.AccountReader, poster portssvc.JournalPosterSvc, codes InvoiceAccountCodes, options ...ServiceOption) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{
		invoiceRepo: invoiceRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		poster:      poster,
		codes:       codes,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// buildInvoice validates a request and fills inv from it, recomputing every amount.
func (s *invoiceService) buildInvoice(ctx context.Context, tenantID string, inv *domain.Invoice, req dto.InvoiceRequest) error {
	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		return apperrors.NewValidationError("reference is required", nil)
	}
	if len(req.Items) == 0 {
		return apperrors.NewValidationError("an invoice needs at least one item", nil)
	}
	invoiceDate, err := dto.ParseDate("invoiceDate", req.InvoiceDate)
	if err != nil {
		return err
	}
	dueDate, err := dto.ParseOptionalDate("dueDate", req.DueDate)
	if err != nil {
		return err
	}
	if dueDate != nil && dueDate.Before(invoiceDate) {
		return apperrors.NewValidationError("dueDate must not be before invoiceDate", nil)
	}

	accountIDs := make([]string, 0, len(req.Items)+1)
	items := make([]domain.InvoiceItem, len(req.Items))
	for i, it := range req.Items {
		if err := accounting.ValidateInvoiceItem(it.Quantity, it.UnitPrice, it.TaxRate); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
		items[i] = domain.InvoiceItem{
			ItemID:      uuid.NewString(),
			InvoiceID:   inv.InvoiceID,
			LineNo:      i + 1,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			AccountID:   it.AccountID,
		}
		accountIDs = append(accountIDs, it.AccountID)
	}
	var receivableID *string
	if req.ReceivableAccountID != nil && *req.ReceivableAccountID != "" {
		receivableID = req.ReceivableAccountID
		accountIDs = append(accountIDs, *receivableID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return err
	}
	for _, id := range accountIDs {
		if acc, ok := accounts[id]; !ok || !acc.VisibleTo(tenantID) {
			return apperrors.NewValidationError("account "+id+" does not exist", nil)
		}
	}

	var entryID *string
	if req.JournalEntryID != nil && *req.JournalEntryID != "" {
		entry, err := s.journalRepo.FindEntryByID(ctx, *req.JournalEntryID)
		if err != nil {
			return err
		}
		if err := authorizeTenant(tenantID, entry.TenantID, domain.TargetJournalEntry, entry.EntryID); err != nil {
			return err
		}
		if entry.Status != domain.Draft {
			return invalidState("only a draft journal entry can be linked to an invoice")
		}
		entryID = &entry.EntryID
	}

	inv.Reference = reference
	inv.CustomerName = strings.TrimSpace(req.CustomerName)
	inv.CustomerEmail = req.CustomerEmail
	inv.CustomerAddress = req.CustomerAddress
	inv.InvoiceDate = invoiceDate
	inv.DueDate = dueDate
	inv.ReceivableAccountID = receivableID
	inv.JournalEntryID = entryID
	inv.Items = items
	accounting.ApplyInvoiceTotals(inv)
	return nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, tenantID string, req dto.InvoiceRequest, userID string) (*domain.Invoice, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	inv := domain.Invoice{
		InvoiceID:   uuid.NewString(),
		TenantID:    tenantID,
		Status:      domain.InvoiceDraft,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
	if err := s.buildInvoice(ctx, tenantID, &inv, req); err != nil {
		s.LogError(ctx, err, "Invoice rejected", slog.String("reference", req.Reference))
		return nil, err
	}

	audit := s.newAuditRecord(tenantID, userID, domain.ActionCreate, domain.TargetInvoice, inv.InvoiceID, map[string]any{
		"reference": inv.Reference,
		"total":     inv.Total.StringFixed(2),
	})
	if err := s.invoiceRepo.SaveInvoice(ctx, inv, audit); err != nil {
		s.LogError(ctx, err, "Failed to save invoice", slog.String("reference", inv.Reference))
		return nil, err
	}
	s.publish(audit)

	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", inv.InvoiceID),
		slog.String("total", inv.Total.StringFixed(2)))
	return &inv, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, tenantID string, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	if err := authorizeTenant(tenantID, inv.TenantID, domain.TargetInvoice, invoiceID); err != nil {
		s.LogError(ctx, err, "Invoice belongs to another tenant", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, tenantID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	filter := domain.InvoiceFilter{Limit: params.Limit, NextToken: params.NextToken}
	if params.Status != "" {
		status := domain.InvoiceStatus(params.Status)
		filter.Status = &status
	}
	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, tenantID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return &dto.ListInvoicesResponse{
		Invoices:  dto.ToInvoiceResponses(invoices),
		NextToken: nextToken,
	}, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, tenantID string, invoiceID string, req dto.InvoiceRequest, userID string) (*domain.Invoice, error) {
	inv, err := s.GetInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvoiceDraft {
		err := invalidState("invoice " + invoiceID + " is posted and can no longer be edited")
		s.LogError(ctx, err, "Rejected edit of posted invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	if err := s.buildInvoice(ctx, tenantID, inv, req); err != nil {
		s.LogError(ctx, err, "Invoice rejected", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	inv.Touch(userID, s.now())

	audit := s.newAuditRecord(tenantID, userID, domain.ActionUpdate, domain.TargetInvoice, invoiceID, map[string]any{
		"items": len(inv.Items),
		"total": inv.Total.StringFixed(2),
	})
	if err := s.invoiceRepo.ReplaceInvoice(ctx, *inv, audit); err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	s.publish(audit)

	s.LogInfo(ctx, "Invoice updated", slog.String("invoice_id", invoiceID))
	return inv, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, tenantID string, invoiceID string, userID string) error {
	inv, err := s.GetInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status != domain.InvoiceDraft {
		err := invalidState("invoice " + invoiceID + " is posted and cannot be deleted")
		s.LogError(ctx, err, "Rejected delete of posted invoice", slog.String("invoice_id", invoiceID))
		return err
	}

	audit := s.newAuditRecord(tenantID, userID, domain.ActionDelete, domain.TargetInvoice, invoiceID, map[string]any{"reference": inv.Reference})
	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID, audit); err != nil {
		s.LogError(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		return err
	}
	s.publish(audit)

	s.LogInfo(ctx, "Invoice deleted", slog.String("invoice_id", invoiceID))
	return nil
}

// receivableAccount returns the invoice's own receivable account or the configured default.
func (s *invoiceService) receivableAccount(ctx context.Context, tenantID string, inv *domain.Invoice) (*domain.Account, error) {
	if inv.ReceivableAccountID != nil {
		acc, err := s.accountRepo.FindAccountByID(ctx, *inv.ReceivableAccountID)
		if err != nil {
			return nil, err
		}
		if !acc.VisibleTo(tenantID) {
			return nil, apperrors.NewValidationError("receivable account "+acc.AccountID+" does not exist", nil)
		}
		return acc, nil
	}
	if s.codes.Receivable == "" {
		return nil, apperrors.NewValidationError("no receivable account is configured", nil)
	}
	acc, err := s.accountRepo.FindAccountByCode(ctx, tenantID, s.codes.Receivable)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewValidationError("receivable account "+s.codes.Receivable+" does not exist", nil)
	}
	return acc, err
}

// taxAccount returns the configured tax account, or nil when none resolves.
func (s *invoiceService) taxAccount(ctx context.Context, tenantID string) (*domain.Account, error) {
	if s.codes.Tax == "" {
		return nil, nil
	}
	acc, err := s.accountRepo.FindAccountByCode(ctx, tenantID, s.codes.Tax)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.LogDebug(ctx, "Tax account not found, crediting items gross", slog.String("code", s.codes.Tax))
		return nil, nil
	}
	return acc, err
}

// synthesizeEntry builds the draft entry that posts inv: receivable debited with the
// total, item accounts credited with their net amounts and the tax account with the tax.
func (s *invoiceService) synthesizeEntry(ctx context.Context, tenantID string, inv *domain.Invoice, userID string, now time.Time) (*domain.JournalEntry, error) {
	receivable, err := s.receivableAccount(ctx, tenantID, inv)
	if err != nil {
		return nil, err
	}
	var tax *domain.Account
	if inv.TaxAmount.IsPositive() {
		if tax, err = s.taxAccount(ctx, tenantID); err != nil {
			return nil, err
		}
	}

	itemAccountIDs := make([]string, len(inv.Items))
	for i, item := range inv.Items {
		itemAccountIDs[i] = item.AccountID
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, itemAccountIDs)
	if err != nil {
		return nil, err
	}
	lines, err := accounting.InvoiceEntryLines(*inv, *receivable, tax, accounts)
	if err != nil {
		return nil, err
	}

	entryID := uuid.NewString()
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].EntryID = entryID
	}
	inv.ReceivableAccountID = &receivable.AccountID
	return &domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    tenantID,
		Reference:   InvoiceEntryPrefix + inv.Reference,
		EntryDate:   inv.InvoiceDate,
		Description: "Invoice " + inv.Reference + " - " + inv.CustomerName,
		Status:      domain.Draft,
		SourceType:  domain.SourceInvoice,
		SourceID:    &inv.InvoiceID,
		Lines:       lines,
		AuditFields: domain.NewAuditFields(userID, now),
	}, nil
}

func (s *invoiceService) PostInvoice(ctx context.Context, tenantID string, invoiceID string, userID string) (*domain.Invoice, error) {
	inv, err := s.GetInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoicePosted {
		err := apperrors.NewAppError(http.StatusUnprocessableEntity, "invoice "+invoiceID, apperrors.ErrAlreadyPosted)
		s.LogError(ctx, err, "Invoice already posted", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	if !inv.Total.IsPositive() {
		return nil, apperrors.NewValidationError("an invoice with a zero total cannot be posted", nil)
	}

	now := s.now()
	var entry *domain.JournalEntry
	createEntry := inv.JournalEntryID == nil
	if createEntry {
		if entry, err = s.synthesizeEntry(ctx, tenantID, inv, userID, now); err != nil {
			s.LogError(ctx, err, "Failed to build invoice journal entry", slog.String("invoice_id", invoiceID))
			return nil, err
		}
	} else {
		if entry, err = s.journalRepo.FindEntryByID(ctx, *inv.JournalEntryID); err != nil {
			s.LogError(ctx, err, "Failed to load linked journal entry", slog.String("invoice_id", invoiceID))
			return nil, err
		}
		if err := authorizeTenant(tenantID, entry.TenantID, domain.TargetJournalEntry, entry.EntryID); err != nil {
			return nil, err
		}
	}

	changes, err := s.poster.PreparePosting(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Invoice journal entry cannot be posted",
			slog.String("invoice_id", invoiceID),
			slog.String("entry_id", entry.EntryID))
		return nil, err
	}

	audits := make([]domain.AuditRecord, 0, 3)
	if createEntry {
		audits = append(audits, s.newAuditRecord(tenantID, userID, domain.ActionCreate, domain.TargetJournalEntry, entry.EntryID, map[string]any{
			"reference":  entry.Reference,
			"invoice_id": invoiceID,
		}))
	}
	audits = append(audits,
		s.newAuditRecord(tenantID, userID, domain.ActionPost, domain.TargetJournalEntry, entry.EntryID, map[string]any{
			"reference": entry.Reference,
			"amount":    inv.Total.StringFixed(2),
		}),
		s.newAuditRecord(tenantID, userID, domain.ActionPost, domain.TargetInvoice, invoiceID, map[string]any{
			"entry_id": entry.EntryID,
			"total":    inv.Total.StringFixed(2),
		}),
	)
	if err := s.invoiceRepo.PostInvoice(ctx, *inv, *entry, createEntry, changes, userID, now, audits); err != nil {
		s.LogError(ctx, err, "Failed to post invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	s.publish(audits...)

	inv.Status = domain.InvoicePosted
	inv.JournalEntryID = &entry.EntryID
	inv.Touch(userID, now)

	s.LogInfo(ctx, "Invoice posted",
		slog.String("invoice_id", invoiceID),
		slog.String("entry_id", entry.EntryID))
	return inv, nil
}

func (s *invoiceService) RenderInvoicePDF(ctx context.Context, tenantID string, invoiceID string) ([]byte, error) {
	inv, err := s.GetInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	out, err := invoicepdf.Render(*inv)
	if err != nil {
		s.LogError(ctx, err, "Failed to render invoice PDF", slog.String("invoice_id", invoiceID))
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to render invoice", err)
	}
	return out, nil
}

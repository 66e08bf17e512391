package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// journalService drafts, posts and reverses journal entries.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, options ...ServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
	svc.apply(options)
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines turns request lines into numbered journal lines of entryID.
func buildLines(entryID string, reqLines []dto.JournalLineRequest) ([]domain.JournalLine, error) {
	if len(reqLines) < accounting.MinEntryLines {
		return nil, apperrors.NewValidationError(fmt.Sprintf("journal entry must have at least %d lines", accounting.MinEntryLines), nil)
	}
	lines := make([]domain.JournalLine, len(reqLines))
	for i, l := range reqLines {
		lines[i] = domain.JournalLine{
			LineID:    uuid.NewString(),
			EntryID:   entryID,
			LineNo:    i + 1,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return lines, nil
}

// ResolveLines validates every line and resolves its account for the tenant. Accounts must
// exist, be visible to the tenant and be active. Code and name are copied onto the lines.
func (s *journalService) ResolveLines(ctx context.Context, tenantID string, lines []domain.JournalLine) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for i, l := range lines {
		if err := accounting.ValidateLineAmounts(l.Debit, l.Credit); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if _, ok := seen[l.AccountID]; !ok {
			seen[l.AccountID] = struct{}{}
			ids = append(ids, l.AccountID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		acc, ok := accounts[lines[i].AccountID]
		if !ok || !acc.VisibleTo(tenantID) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("line %d: account %s does not exist", i+1, lines[i].AccountID), nil)
		}
		if !acc.IsActive {
			return nil, apperrors.NewValidationError(fmt.Sprintf("line %d: account %s is inactive", i+1, acc.Code), nil)
		}
		lines[i].AccountCode = acc.Code
		lines[i].AccountName = acc.Name
	}
	return accounts, nil
}

func (s *journalService) CreateEntry(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		return nil, apperrors.NewValidationError("reference is required", nil)
	}
	entryDate, err := dto.ParseDate("entryDate", req.EntryDate)
	if err != nil {
		return nil, err
	}

	entryID := uuid.NewString()
	lines, err := buildLines(entryID, req.Lines)
	if err != nil {
		return nil, err
	}
	if _, err := s.ResolveLines(ctx, tenantID, lines); err != nil {
		s.LogError(ctx, err, "Journal entry lines rejected", slog.String("reference", reference))
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    tenantID,
		Reference:   reference,
		EntryDate:   entryDate,
		Description: req.Description,
		Status:      domain.Draft,
		Lines:       lines,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}

	audit := s.newAuditRecord(tenantID, userID, domain.ActionCreate, domain.TargetJournalEntry, entryID, map[string]any{
		"reference": reference,
		"lines":     len(lines),
	})
	if err := s.journalRepo.SaveEntry(ctx, entry, audit); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("reference", reference))
		return nil, err
	}
	s.publish(audit)

	s.LogInfo(ctx, "Journal entry drafted",
		slog.String("entry_id", entryID),
		slog.String("reference", reference))
	return &entry, nil
}

func (s *journalService) GetEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	if err := authorizeTenant(tenantID, entry.TenantID, domain.TargetJournalEntry, entryID); err != nil {
		s.LogError(ctx, err, "Journal entry belongs to another tenant", slog.String("entry_id", entryID))
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	filter := domain.JournalFilter{Limit: params.Limit, NextToken: params.NextToken}
	if params.Status != "" {
		status := domain.JournalStatus(params.Status)
		filter.Status = &status
	}
	var err error
	if filter.From, err = dto.ParseOptionalDate("from", params.From); err != nil {
		return nil, err
	}
	if filter.To, err = dto.ParseOptionalDate("to", params.To); err != nil {
		return nil, err
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, tenantID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return &dto.ListJournalEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

func (s *journalService) UpdateEntry(ctx context.Context, tenantID string, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	entry, err := s.GetEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		err := invalidState(fmt.Sprintf("journal entry %s is %s and can no longer be edited", entryID, entry.Status))
		s.LogError(ctx, err, "Rejected edit of non-draft entry", slog.String("entry_id", entryID))
		return nil, err
	}

	changed := []string{}
	if req.Reference != nil {
		reference := strings.TrimSpace(*req.Reference)
		if reference == "" {
			return nil, apperrors.NewValidationError("reference cannot be empty", nil)
		}
		entry.Reference = reference
		changed = append(changed, "reference")
	}
	if req.EntryDate != nil {
		if entry.EntryDate, err = dto.ParseDate("entryDate", *req.EntryDate); err != nil {
			return nil, err
		}
		changed = append(changed, "entry_date")
	}
	if req.Description != nil {
		entry.Description = *req.Description
		changed = append(changed, "description")
	}
	if req.Lines != nil {
		lines, err := buildLines(entryID, req.Lines)
		if err != nil {
			return nil, err
		}
		if _, err := s.ResolveLines(ctx, tenantID, lines); err != nil {
			s.LogError(ctx, err, "Journal entry lines rejected", slog.String("entry_id", entryID))
			return nil, err
		}
		entry.Lines = lines
		changed = append(changed, "lines")
	}

	entry.Touch(userID, s.now())
	audit := s.newAuditRecord(tenantID, userID, domain.ActionUpdate, domain.TargetJournalEntry, entryID, map[string]any{"fields": changed})
	if err := s.journalRepo.ReplaceEntry(ctx, *entry, audit); err != nil {
		s.LogError(ctx, err, "Failed to update journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	s.publish(audit)

	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", entryID))
	return entry, nil
}

func (s *journalService) DeleteEntry(ctx context.Context, tenantID string, entryID string, userID string) error {
	entry, err := s.GetEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return err
	}
	if entry.Status != domain.Draft {
		err := invalidState(fmt.Sprintf("journal entry %s is %s and cannot be deleted", entryID, entry.Status))
		s.LogError(ctx, err, "Rejected delete of non-draft entry", slog.String("entry_id", entryID))
		return err
	}

	audit := s.newAuditRecord(tenantID, userID, domain.ActionDelete, domain.TargetJournalEntry, entryID, map[string]any{"reference": entry.Reference})
	if err := s.journalRepo.DeleteEntry(ctx, entryID, audit); err != nil {
		s.LogError(ctx, err, "Failed to delete journal entry", slog.String("entry_id", entryID))
		return err
	}
	s.publish(audit)

	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID))
	return nil
}

// PreparePosting checks a draft is balanced and computes the balance change of every
// account it touches. Deactivated accounts are still postable.
func (s *journalService) PreparePosting(ctx context.Context, entry *domain.JournalEntry) (map[string]decimal.Decimal, error) {
	if entry.Status != domain.Draft {
		return nil, invalidState(fmt.Sprintf("journal entry %s is %s and cannot be posted", entry.EntryID, entry.Status))
	}
	if err := accounting.ValidateBalanced(entry.Lines); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, entry.AccountIDs())
	if err != nil {
		return nil, err
	}
	return accounting.BalanceChanges(entry.Lines, accounts)
}

func (s *journalService) PostEntry(ctx context.Context, tenantID string, entryID string, userID string) (*domain.JournalEntry, error) {
	entry, err := s.GetEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	changes, err := s.PreparePosting(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Journal entry cannot be posted", slog.String("entry_id", entryID))
		return nil, err
	}

	now := s.now()
	debits, _ := accounting.SumLines(entry.Lines)
	audit := s.newAuditRecord(tenantID, userID, domain.ActionPost, domain.TargetJournalEntry, entryID, map[string]any{
		"reference": entry.Reference,
		"amount":    debits.StringFixed(2),
	})
	if err := s.journalRepo.PostEntry(ctx, *entry, changes, userID, now, audit); err != nil {
		s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	s.publish(audit)

	entry.Status = domain.Posted
	entry.PostedBy = &userID
	entry.PostedAt = &now
	entry.Touch(userID, now)

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entryID),
		slog.Int("accounts", len(changes)))
	return entry, nil
}

func (s *journalService) ReverseEntry(ctx context.Context, tenantID string, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("a reversal reason is required", nil)
	}
	original, err := s.GetEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	switch {
	case original.Status != domain.Posted:
		err = invalidState(fmt.Sprintf("journal entry %s is %s and cannot be reversed", entryID, original.Status))
	case original.IsReversal():
		err = invalidState(fmt.Sprintf("journal entry %s is itself a reversal", entryID))
	case original.ReversedByID != nil:
		err = invalidState(fmt.Sprintf("journal entry %s has already been reversed", entryID))
	}
	if err != nil {
		s.LogError(ctx, err, "Journal entry cannot be reversed", slog.String("entry_id", entryID))
		return nil, err
	}

	// A reversal must hit the same accounts; one deleted since posting aborts the reversal.
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, original.AccountIDs())
	if err != nil {
		return nil, err
	}
	for _, id := range original.AccountIDs() {
		if _, ok := accounts[id]; !ok {
			err := apperrors.NewNotFoundError("account " + id + " no longer exists")
			s.LogError(ctx, err, "Cannot reverse entry with a deleted account", slog.String("entry_id", entryID))
			return nil, err
		}
	}

	now := s.now()
	reversalID := uuid.NewString()
	reversal := domain.JournalEntry{
		EntryID:      reversalID,
		TenantID:     tenantID,
		Reference:    original.Reference + domain.ReversalSuffix,
		EntryDate:    original.EntryDate,
		Description:  "Reversal of " + original.Reference + ": " + reason,
		Status:       domain.Posted,
		PostedBy:     &userID,
		PostedAt:     &now,
		ReversalOfID: &original.EntryID,
		Lines:        accounting.MirrorLines(original.Lines, reversalID, uuid.NewString),
		AuditFields:  domain.NewAuditFields(userID, now),
	}
	changes, err := accounting.BalanceChanges(reversal.Lines, accounts)
	if err != nil {
		return nil, err
	}

	audit := s.newAuditRecord(tenantID, userID, domain.ActionReverse, domain.TargetJournalEntry, entryID, map[string]any{
		"reversal_id": reversalID,
		"reason":      reason,
	})
	if err := s.journalRepo.ReverseEntry(ctx, entryID, reversal, changes, reason, audit); err != nil {
		s.LogError(ctx, err, "Failed to reverse journal entry",
			slog.String("entry_id", entryID),
			slog.String("reversal_reference", reversal.Reference))
		return nil, err
	}
	s.publish(audit)

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_id", reversalID))
	return &reversal, nil
}

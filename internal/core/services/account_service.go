package services

import (
	"context"
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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	svc.apply(options)
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, apperrors.NewValidationError("account code is required", nil)
	}
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid account type %q", req.AccountType), nil)
	}
	normal := req.AccountType.DefaultNormalBalance()
	if req.NormalBalance != nil {
		if !req.NormalBalance.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid normal balance %q", *req.NormalBalance), nil)
		}
		normal = *req.NormalBalance
	}

	var parentID *string
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		if _, err := s.GetAccountByID(ctx, tenantID, *req.ParentAccountID); err != nil {
			s.LogError(ctx, err, "Invalid parent account", slog.String("parent_id", *req.ParentAccountID))
			return nil, err
		}
		parentID = req.ParentAccountID
	}

	now := s.now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        domain.StringPtr(tenantID),
		Code:            code,
		Name:            strings.TrimSpace(req.Name),
		AccountType:     req.AccountType,
		NormalBalance:   normal,
		Group:           req.Group,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		Balance:         decimal.Zero,
		AuditFields:     domain.NewAuditFields(userID, now),
	}

	audit := s.newAuditRecord(tenantID, userID, domain.ActionCreate, domain.TargetAccount, account.AccountID, map[string]any{
		"code":           account.Code,
		"account_type":   string(account.AccountType),
		"normal_balance": string(account.NormalBalance),
	})
	if err := s.accountRepo.SaveAccount(ctx, account, audit); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("code", account.Code),
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	s.publish(audit)

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		return nil, err
	}
	if !account.VisibleTo(tenantID) {
		return nil, authorizeTenant(tenantID, *account.TenantID, domain.TargetAccount, accountID)
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve account code", slog.String("code", code))
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts", slog.Int("count", len(accountIDs)))
		return nil, err
	}
	for _, id := range accountIDs {
		acc, ok := accounts[id]
		if !ok {
			return nil, apperrors.NewNotFoundError("account " + id + " not found")
		}
		if !acc.VisibleTo(tenantID) {
			return nil, authorizeTenant(tenantID, *acc.TenantID, domain.TargetAccount, id)
		}
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, params.ToFilter())
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	s.LogDebug(ctx, "Accounts listed", slog.Int("count", len(accounts)))
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.OwnedBy(tenantID) {
		err := apperrors.NewAppError(http.StatusForbidden, "shared accounts cannot be modified", apperrors.ErrForbidden)
		s.LogError(ctx, err, "Rejected update of shared account", slog.String("account_id", accountID))
		return nil, err
	}

	changed := []string{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("account name cannot be empty", nil)
		}
		account.Name = name
		changed = append(changed, "name")
	}
	if req.Group != nil {
		account.Group = *req.Group
		changed = append(changed, "group")
	}
	if req.Description != nil {
		account.Description = *req.Description
		changed = append(changed, "description")
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		changed = append(changed, "is_active")
	}
	if req.ParentAccountID != nil {
		switch parentID := *req.ParentAccountID; {
		case parentID == "":
			account.ParentAccountID = nil
		case parentID == accountID:
			return nil, apperrors.NewValidationError("an account cannot be its own parent", nil)
		default:
			if _, err := s.GetAccountByID(ctx, tenantID, parentID); err != nil {
				return nil, err
			}
			account.ParentAccountID = &parentID
		}
		changed = append(changed, "parent_account_id")
	}
	if len(changed) == 0 {
		return account, nil
	}

	account.Touch(userID, s.now())
	audit := s.newAuditRecord(tenantID, userID, domain.ActionUpdate, domain.TargetAccount, accountID, map[string]any{"fields": changed})
	if err := s.accountRepo.UpdateAccount(ctx, *account, audit); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	s.publish(audit)

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) GetLedger(ctx context.Context, tenantID string, accountID string, from, to *time.Time) (*domain.AccountLedger, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, apperrors.NewValidationError("from must not be after to", nil)
	}
	account, err := s.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	lines, err := s.accountRepo.ListPostedLinesByAccount(ctx, tenantID, accountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger lines", slog.String("account_id", accountID))
		return nil, err
	}
	if lines == nil {
		lines = []domain.LedgerLine{}
	}

	return &domain.AccountLedger{
		Account:        *account,
		From:           from,
		To:             to,
		Lines:          lines,
		ClosingBalance: accounting.RunningLedger(lines),
	}, nil
}

func (s *accountService) ReconcileBalances(ctx context.Context, tenantID string, apply bool, userID string) (*dto.ReconcileResponse, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, domain.AccountFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for reconciliation", slog.String("tenant_id", tenantID))
		return nil, err
	}
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.AccountID
	}

	activity, err := s.accountRepo.SumPostedActivity(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum posted activity", slog.String("tenant_id", tenantID))
		return nil, err
	}

	drifts := []domain.BalanceDrift{}
	var writable []string
	for _, a := range accounts {
		act := activity[a.AccountID]
		computed := a.NormalBalance.Delta(act.Debit, act.Credit)
		if computed.Equal(a.Balance) {
			continue
		}
		drifts = append(drifts, domain.BalanceDrift{
			AccountID: a.AccountID,
			Code:      a.Code,
			Name:      a.Name,
			Cached:    a.Balance,
			Computed:  computed,
			Drift:     a.Balance.Sub(computed),
		})
		if a.OwnedBy(tenantID) {
			writable = append(writable, a.AccountID)
		}
	}

	if apply && len(writable) > 0 {
		audit := s.newAuditRecord(tenantID, userID, domain.ActionReconcile, domain.TargetAccount, tenantID, nil)
		applied, err := s.accountRepo.ResetAccountBalances(ctx, writable, userID, s.now(), audit)
		if err != nil {
			s.LogError(ctx, err, "Failed to reset account balances", slog.Int("count", len(writable)))
			return nil, err
		}
		// Balances are recomputed under lock, so the applied figures supersede the ones read above.
		byID := make(map[string]domain.BalanceDrift, len(applied))
		for _, d := range applied {
			byID[d.AccountID] = d
		}
		for i, d := range drifts {
			if a, ok := byID[d.AccountID]; ok {
				drifts[i] = a
			}
		}
		if len(applied) > 0 {
			s.publish(audit)
		}
	}

	s.LogInfo(ctx, "Balances reconciled",
		slog.Int("checked", len(accounts)),
		slog.Int("drifted", len(drifts)),
		slog.Bool("apply", apply))
	return &dto.ReconcileResponse{Checked: len(accounts), Drifts: drifts}, nil
}

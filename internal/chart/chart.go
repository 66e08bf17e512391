// Package chart loads chart-of-accounts definitions from YAML and seeds them into the ledger.
package chart

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"gopkg.in/yaml.v3"
)

//go:embed default_chart.yaml
var defaultChart []byte

// AccountSeed is one account in a chart file. Parent refers to another seed's code.
type AccountSeed struct {
	Code          string `yaml:"code"`
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	NormalBalance string `yaml:"normal_balance"`
	Group         string `yaml:"group"`
	Parent        string `yaml:"parent"`
	Description   string `yaml:"description"`
}

// Chart is an ordered list of account seeds.
type Chart struct {
	Accounts []AccountSeed `yaml:"accounts"`
}

// Default returns the built-in retail chart.
func Default() (*Chart, error) {
	return Parse(defaultChart)
}

// Load reads and validates a chart file.
func Load(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML chart.
func Parse(data []byte) (*Chart, error) {
	var c Chart
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse chart YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks codes are unique, types and normal balances are known and
// every parent appears before its children.
func (c *Chart) Validate() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("%w: chart has no accounts", apperrors.ErrValidation)
	}
	seen := make(map[string]bool, len(c.Accounts))
	for i, a := range c.Accounts {
		if a.Code == "" || a.Name == "" {
			return fmt.Errorf("%w: account #%d needs a code and a name", apperrors.ErrValidation, i+1)
		}
		if seen[a.Code] {
			return fmt.Errorf("%w: duplicate account code %s", apperrors.ErrValidation, a.Code)
		}
		if !domain.AccountType(a.Type).IsValid() {
			return fmt.Errorf("%w: account %s has invalid type %q", apperrors.ErrValidation, a.Code, a.Type)
		}
		if a.NormalBalance != "" && !domain.NormalBalance(a.NormalBalance).IsValid() {
			return fmt.Errorf("%w: account %s has invalid normal balance %q", apperrors.ErrValidation, a.Code, a.NormalBalance)
		}
		if a.Parent != "" && !seen[a.Parent] {
			return fmt.Errorf("%w: parent %s of account %s must be listed before it", apperrors.ErrValidation, a.Parent, a.Code)
		}
		seen[a.Code] = true
	}
	return nil
}

// AccountSeeder is the slice of the account service seeding needs.
type AccountSeeder interface {
	GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
}

// SeedResult counts what a seed run did.
type SeedResult struct {
	Created []string
	Skipped []string
}

// Seed creates every account of the chart that the tenant cannot already resolve by code.
// An empty tenantID seeds shared accounts. Seeding is idempotent.
func (c *Chart) Seed(ctx context.Context, svc AccountSeeder, tenantID, userID string) (SeedResult, error) {
	var res SeedResult
	ids := make(map[string]string, len(c.Accounts))

	for _, a := range c.Accounts {
		existing, err := svc.GetAccountByCode(ctx, tenantID, a.Code)
		if err == nil {
			ids[a.Code] = existing.AccountID
			res.Skipped = append(res.Skipped, a.Code)
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return res, fmt.Errorf("failed to look up account %s: %w", a.Code, err)
		}

		req := dto.CreateAccountRequest{
			Code:        a.Code,
			Name:        a.Name,
			AccountType: domain.AccountType(a.Type),
			Group:       a.Group,
			Description: a.Description,
		}
		if a.NormalBalance != "" {
			nb := domain.NormalBalance(a.NormalBalance)
			req.NormalBalance = &nb
		}
		if a.Parent != "" {
			parentID := ids[a.Parent]
			req.ParentAccountID = &parentID
		}

		created, err := svc.CreateAccount(ctx, tenantID, req, userID)
		if err != nil {
			return res, fmt.Errorf("failed to create account %s: %w", a.Code, err)
		}
		ids[a.Code] = created.AccountID
		res.Created = append(res.Created, a.Code)
	}
	return res, nil
}

package chart

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChartIsValid(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	codes := map[string]AccountSeed{}
	for _, a := range c.Accounts {
		codes[a.Code] = a
	}
	assert.Equal(t, "ASSET", codes["1200"].Type, "receivable account used by invoice posting")
	assert.Equal(t, "LIABILITY", codes["2200"].Type, "tax account used by invoice posting")
	assert.Equal(t, "CREDIT", codes["1510"].NormalBalance)
}

func TestParseRejectsBadCharts(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "accounts: []"},
		{"bad type", "accounts:\n  - {code: '1', name: Cash, type: MONEY}"},
		{"bad normal balance", "accounts:\n  - {code: '1', name: Cash, type: ASSET, normal_balance: LEFT}"},
		{"duplicate code", "accounts:\n  - {code: '1', name: Cash, type: ASSET}\n  - {code: '1', name: Bank, type: ASSET}"},
		{"parent after child", "accounts:\n  - {code: '2', name: Sub, type: ASSET, parent: '1'}\n  - {code: '1', name: Top, type: ASSET}"},
		{"missing name", "accounts:\n  - {code: '1', type: ASSET}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("accounts: [unclosed"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrValidation)
}

type fakeSeeder struct {
	existing map[string]domain.Account
	created  []dto.CreateAccountRequest
	failOn   string
}

func (f *fakeSeeder) GetAccountByCode(_ context.Context, _ string, code string) (*domain.Account, error) {
	if acc, ok := f.existing[code]; ok {
		return &acc, nil
	}
	return nil, apperrors.NewNotFoundError("account " + code)
}

func (f *fakeSeeder) CreateAccount(_ context.Context, _ string, req dto.CreateAccountRequest, _ string) (*domain.Account, error) {
	if req.Code == f.failOn {
		return nil, apperrors.ErrDuplicateCode
	}
	f.created = append(f.created, req)
	acc := domain.Account{AccountID: "id-" + req.Code, Code: req.Code}
	f.existing[req.Code] = acc
	return &acc, nil
}

func TestSeedSkipsExistingAndLinksParents(t *testing.T) {
	c, err := Parse([]byte(`
accounts:
  - {code: "1500", name: Equipment, type: ASSET}
  - {code: "1510", name: Depreciation, type: ASSET, normal_balance: CREDIT, parent: "1500"}
  - {code: "4000", name: Sales, type: REVENUE}
`))
	require.NoError(t, err)

	seeder := &fakeSeeder{existing: map[string]domain.Account{"1500": {AccountID: "equipment", Code: "1500"}}}
	res, err := c.Seed(context.Background(), seeder, "shop-1", "admin")
	require.NoError(t, err)

	assert.Equal(t, []string{"1500"}, res.Skipped)
	assert.Equal(t, []string{"1510", "4000"}, res.Created)
	require.Len(t, seeder.created, 2)
	require.NotNil(t, seeder.created[0].ParentAccountID)
	assert.Equal(t, "equipment", *seeder.created[0].ParentAccountID)
	require.NotNil(t, seeder.created[0].NormalBalance)
	assert.Equal(t, domain.CreditNormal, *seeder.created[0].NormalBalance)
	assert.Nil(t, seeder.created[1].NormalBalance)

	again, err := c.Seed(context.Background(), seeder, "shop-1", "admin")
	require.NoError(t, err)
	assert.Empty(t, again.Created)
	assert.Len(t, again.Skipped, 3)
}

func TestSeedStopsOnCreateFailure(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	seeder := &fakeSeeder{existing: map[string]domain.Account{}, failOn: "1100"}
	res, err := c.Seed(context.Background(), seeder, "", "admin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateCode))
	assert.Equal(t, []string{"1000"}, res.Created)
}

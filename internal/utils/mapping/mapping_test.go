package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecordMetadataRoundTrip(t *testing.T) {
	tenant := "tenant-1"
	rec := domain.AuditRecord{
		AuditID:    "a1",
		TenantID:   &tenant,
		ActorID:    "user-1",
		Action:     domain.ActionPost,
		TargetType: domain.TargetJournalEntry,
		TargetID:   "e1",
		Metadata:   map[string]any{"reference": "JE-1"},
		CreatedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	model, err := ToModelAuditRecord(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"reference":"JE-1"}`, string(model.Metadata))

	back, err := ToDomainAuditRecord(model)
	require.NoError(t, err)
	assert.Equal(t, rec, back)
}

func TestAuditRecordEmptyMetadata(t *testing.T) {
	model, err := ToModelAuditRecord(domain.AuditRecord{AuditID: "a1"})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(model.Metadata))
}

func TestAccountMappingKeepsSharedScope(t *testing.T) {
	acc := domain.Account{AccountID: "acc-1", Code: "1000", AccountType: domain.Asset, NormalBalance: domain.DebitNormal}
	back := ToDomainAccount(ToModelAccount(acc))
	assert.True(t, back.IsShared())
	assert.Equal(t, acc, back)
}

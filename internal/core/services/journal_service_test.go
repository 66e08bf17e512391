package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/core/services"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type JournalServiceTestSuite struct {
	suite.Suite
	journalRepo *MockJournalRepository
	accountRepo *MockAccountRepository
	publisher   *recordingPublisher
	service     portssvc.JournalSvcFacade

	tenantID string
	userID   string
	cash     domain.Account
	revenue  domain.Account
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.journalRepo = new(MockJournalRepository)
	s.accountRepo = new(MockAccountRepository)
	s.publisher = &recordingPublisher{}
	s.service = services.NewJournalService(s.journalRepo, s.accountRepo,
		services.WithAuditPublisher(s.publisher),
		services.WithClock(fixedClock))

	s.tenantID = "tenant-1"
	s.userID = "user-1"
	s.cash = domain.Account{
		AccountID: "acc-cash", TenantID: &s.tenantID, Code: "1000", Name: "Cash",
		AccountType: domain.Asset, NormalBalance: domain.DebitNormal, IsActive: true,
	}
	s.revenue = domain.Account{
		AccountID: "acc-rev", Code: "4000", Name: "Sales",
		AccountType: domain.Revenue, NormalBalance: domain.CreditNormal, IsActive: true,
	}
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func (s *JournalServiceTestSuite) accounts() map[string]domain.Account {
	return map[string]domain.Account{s.cash.AccountID: s.cash, s.revenue.AccountID: s.revenue}
}

func (s *JournalServiceTestSuite) draft(debit, credit string) *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:   "entry-1",
		TenantID:  s.tenantID,
		Reference: "JE-001",
		EntryDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:    domain.Draft,
		Lines: []domain.JournalLine{
			{LineID: "l1", EntryID: "entry-1", LineNo: 1, AccountID: s.cash.AccountID, Debit: dec(debit), Credit: decimal.Zero},
			{LineID: "l2", EntryID: "entry-1", LineNo: 2, AccountID: s.revenue.AccountID, Debit: decimal.Zero, Credit: dec(credit)},
		},
		AuditFields: domain.NewAuditFields(s.userID, fixedNow.Add(-time.Hour)),
	}
}

func (s *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Reference: " JE-001 ",
		EntryDate: "2025-03-01",
		Lines: []dto.JournalLineRequest{
			{AccountID: s.cash.AccountID, Debit: dec("100")},
			{AccountID: s.revenue.AccountID, Credit: dec("100")},
		},
	}
	s.accountRepo.On("FindAccountsByIDs", ctx, []string{s.cash.AccountID, s.revenue.AccountID}).Return(s.accounts(), nil).Once()
	s.journalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	entry, err := s.service.CreateEntry(ctx, s.tenantID, req, s.userID)

	s.Require().NoError(err)
	s.Equal("JE-001", entry.Reference)
	s.Equal(domain.Draft, entry.Status)
	s.Require().Len(entry.Lines, 2)
	s.Equal("1000", entry.Lines[0].AccountCode)
	s.Equal("Sales", entry.Lines[1].AccountName)
	s.Equal(fixedNow, entry.CreatedAt)
	s.Require().Len(s.publisher.records, 1)
	s.Equal(domain.ActionCreate, s.publisher.records[0].Action)
	s.journalRepo.AssertExpectations(s.T())
	s.accountRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestCreateEntry_RejectsLineWithBothSides() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Reference: "JE-002",
		EntryDate: "2025-03-01",
		Lines: []dto.JournalLineRequest{
			{AccountID: s.cash.AccountID, Debit: dec("100"), Credit: dec("5")},
			{AccountID: s.revenue.AccountID, Credit: dec("95")},
		},
	}

	entry, err := s.service.CreateEntry(ctx, s.tenantID, req, s.userID)

	s.Nil(entry)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.journalRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateEntry_RejectsOtherTenantsAccount() {
	ctx := context.Background()
	other := "tenant-2"
	foreign := s.cash
	foreign.TenantID = &other
	req := dto.CreateJournalEntryRequest{
		Reference: "JE-003",
		EntryDate: "2025-03-01",
		Lines: []dto.JournalLineRequest{
			{AccountID: s.cash.AccountID, Debit: dec("10")},
			{AccountID: s.revenue.AccountID, Credit: dec("10")},
		},
	}
	s.accountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Account{foreign.AccountID: foreign, s.revenue.AccountID: s.revenue}, nil).Once()

	_, err := s.service.CreateEntry(ctx, s.tenantID, req, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.journalRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestPostEntry_AppliesSignedChanges() {
	ctx := context.Background()
	entry := s.draft("100", "100")
	s.journalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	s.accountRepo.On("FindAccountsByIDs", ctx, []string{s.cash.AccountID, s.revenue.AccountID}).Return(s.accounts(), nil).Once()

	var changes map[string]decimal.Decimal
	s.journalRepo.On("PostEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, s.userID, fixedNow, mock.AnythingOfType("domain.AuditRecord")).
		Run(func(args mock.Arguments) {
			changes = args.Get(2).(map[string]decimal.Decimal)
		}).Return(nil).Once()

	posted, err := s.service.PostEntry(ctx, s.tenantID, entry.EntryID, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.Posted, posted.Status)
	s.Equal(s.userID, *posted.PostedBy)
	s.True(changes[s.cash.AccountID].Equal(dec("100")), "cash increases on debit")
	s.True(changes[s.revenue.AccountID].Equal(dec("100")), "revenue is credit-normal and increases on credit")
	s.Require().Len(s.publisher.records, 1)
	s.Equal(domain.ActionPost, s.publisher.records[0].Action)
	s.journalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestPostEntry_Unbalanced() {
	ctx := context.Background()
	entry := s.draft("100", "90")
	s.journalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	posted, err := s.service.PostEntry(ctx, s.tenantID, entry.EntryID, s.userID)

	s.Nil(posted)
	s.ErrorIs(err, apperrors.ErrUnbalancedEntry)
	s.journalRepo.AssertNotCalled(s.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.Empty(s.publisher.records)
}

func (s *JournalServiceTestSuite) TestPostEntry_NotDraft() {
	ctx := context.Background()
	entry := s.draft("100", "100")
	entry.Status = domain.Posted
	s.journalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := s.service.PostEntry(ctx, s.tenantID, entry.EntryID, s.userID)

	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *JournalServiceTestSuite) TestPostEntry_OtherTenant() {
	ctx := context.Background()
	entry := s.draft("100", "100")
	entry.TenantID = "tenant-2"
	s.journalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := s.service.PostEntry(ctx, s.tenantID, entry.EntryID, s.userID)

	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *JournalServiceTestSuite) TestReverseEntry_MirrorsAndRestores() {
	ctx := context.Background()
	original := s.draft("100", "100")
	postedAt := fixedNow.Add(-time.Minute)
	original.Status = domain.Posted
	original.PostedBy = &s.userID
	original.PostedAt = &postedAt
	s.journalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	s.accountRepo.On("FindAccountsByIDs", ctx, []string{s.cash.AccountID, s.revenue.AccountID}).Return(s.accounts(), nil).Once()

	var changes map[string]decimal.Decimal
	s.journalRepo.On("ReverseEntry", ctx, original.EntryID, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, "error", mock.AnythingOfType("domain.AuditRecord")).
		Run(func(args mock.Arguments) {
			changes = args.Get(3).(map[string]decimal.Decimal)
		}).Return(nil).Once()

	reversal, err := s.service.ReverseEntry(ctx, s.tenantID, original.EntryID, "error", s.userID)

	s.Require().NoError(err)
	s.Equal("JE-001"+domain.ReversalSuffix, reversal.Reference)
	s.Equal(domain.Posted, reversal.Status)
	s.Equal(original.EntryDate, reversal.EntryDate)
	s.Equal(original.EntryID, *reversal.ReversalOfID)
	s.Require().Len(reversal.Lines, 2)
	s.Equal(s.cash.AccountID, reversal.Lines[0].AccountID)
	s.True(reversal.Lines[0].Credit.Equal(dec("100")))
	s.True(reversal.Lines[1].Debit.Equal(dec("100")))
	s.True(changes[s.cash.AccountID].Equal(dec("-100")))
	s.True(changes[s.revenue.AccountID].Equal(dec("-100")))
	s.Require().Len(s.publisher.records, 1)
	s.Equal(domain.ActionReverse, s.publisher.records[0].Action)
	s.journalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestReverseEntry_Guards() {
	ctx := context.Background()
	reversalOf := "entry-0"
	reversedBy := "entry-9"

	testCases := []struct {
		name   string
		mutate func(e *domain.JournalEntry)
	}{
		{"draft", func(e *domain.JournalEntry) {}},
		{"void", func(e *domain.JournalEntry) { e.Status = domain.Void }},
		{"reversal", func(e *domain.JournalEntry) { e.Status = domain.Posted; e.ReversalOfID = &reversalOf }},
		{"already reversed", func(e *domain.JournalEntry) { e.Status = domain.Posted; e.ReversedByID = &reversedBy }},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			entry := s.draft("100", "100")
			tc.mutate(entry)
			s.journalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

			_, err := s.service.ReverseEntry(ctx, s.tenantID, entry.EntryID, "error", s.userID)

			s.ErrorIs(err, apperrors.ErrInvalidState)
			s.journalRepo.AssertNotCalled(s.T(), "ReverseEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func (s *JournalServiceTestSuite) TestReverseEntry_RequiresReason() {
	_, err := s.service.ReverseEntry(context.Background(), s.tenantID, "entry-1", "  ", s.userID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestReverseEntry_DeletedAccount() {
	ctx := context.Background()
	entry := s.draft("100", "100")
	entry.Status = domain.Posted
	s.journalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	s.accountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Account{s.cash.AccountID: s.cash}, nil).Once()

	_, err := s.service.ReverseEntry(ctx, s.tenantID, entry.EntryID, "error", s.userID)

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.journalRepo.AssertNotCalled(s.T(), "ReverseEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestUpdateEntry_ReplacesLines() {
	ctx := context.Background()
	entry := s.draft("100", "100")
	s.journalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	s.accountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(s.accounts(), nil).Once()
	s.journalRepo.On("ReplaceEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	desc := "corrected"
	updated, err := s.service.UpdateEntry(ctx, s.tenantID, entry.EntryID, dto.UpdateJournalEntryRequest{
		Description: &desc,
		Lines: []dto.JournalLineRequest{
			{AccountID: s.cash.AccountID, Debit: dec("90")},
			{AccountID: s.revenue.AccountID, Credit: dec("90")},
		},
	}, s.userID)

	s.Require().NoError(err)
	s.Equal("corrected", updated.Description)
	s.True(updated.Lines[0].Debit.Equal(dec("90")))
	s.Equal(fixedNow, updated.LastUpdatedAt)
	s.journalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestUpdateAndDelete_RejectPostedEntry() {
	ctx := context.Background()
	entry := s.draft("100", "100")
	entry.Status = domain.Posted
	s.journalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Twice()

	desc := "late edit"
	_, err := s.service.UpdateEntry(ctx, s.tenantID, entry.EntryID, dto.UpdateJournalEntryRequest{Description: &desc}, s.userID)
	s.ErrorIs(err, apperrors.ErrInvalidState)

	err = s.service.DeleteEntry(ctx, s.tenantID, entry.EntryID, s.userID)
	s.ErrorIs(err, apperrors.ErrInvalidState)

	s.journalRepo.AssertNotCalled(s.T(), "ReplaceEntry", mock.Anything, mock.Anything, mock.Anything)
	s.journalRepo.AssertNotCalled(s.T(), "DeleteEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestListEntries_ParsesFilter() {
	ctx := context.Background()
	next := "token-2"
	s.journalRepo.On("ListEntries", ctx, s.tenantID, mock.MatchedBy(func(f domain.JournalFilter) bool {
		return f.Status != nil && *f.Status == domain.Posted && f.From != nil && f.To == nil && f.Limit == 10
	})).Return([]domain.JournalEntry{*s.draft("1", "1")}, next, nil).Once()

	res, err := s.service.ListEntries(ctx, s.tenantID, dto.ListJournalEntriesParams{Status: "POSTED", From: "2025-01-01", Limit: 10})

	s.Require().NoError(err)
	s.Len(res.Entries, 1)
	s.Equal(next, *res.NextToken)
}

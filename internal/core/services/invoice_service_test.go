package services_test

import (
	"bytes"
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

type InvoiceServiceTestSuite struct {
	suite.Suite
	invoiceRepo *MockInvoiceRepository
	journalRepo *MockJournalRepository
	accountRepo *MockAccountRepository
	publisher   *recordingPublisher
	service     portssvc.InvoiceSvcFacade

	tenantID      string
	userID        string
	receivable    domain.Account
	tax           domain.Account
	sales         domain.Account
	serviceIncome domain.Account
}

func (s *InvoiceServiceTestSuite) SetupTest() {
	s.invoiceRepo = new(MockInvoiceRepository)
	s.journalRepo = new(MockJournalRepository)
	s.accountRepo = new(MockAccountRepository)
	s.publisher = &recordingPublisher{}
	options := []services.ServiceOption{services.WithAuditPublisher(s.publisher), services.WithClock(fixedClock)}
	poster := services.NewJournalService(s.journalRepo, s.accountRepo, options...)
	s.service = services.NewInvoiceService(s.invoiceRepo, s.journalRepo, s.accountRepo, poster,
		services.InvoiceAccountCodes{Receivable: "1200", Tax: "2200"}, options...)

	s.tenantID = "tenant-1"
	s.userID = "user-1"
	s.receivable = domain.Account{AccountID: "acc-ar", Code: "1200", Name: "Accounts Receivable", AccountType: domain.Asset, NormalBalance: domain.DebitNormal, IsActive: true}
	s.tax = domain.Account{AccountID: "acc-tax", Code: "2200", Name: "Sales Tax Payable", AccountType: domain.Liability, NormalBalance: domain.CreditNormal, IsActive: true}
	s.sales = domain.Account{AccountID: "acc-sales", TenantID: &s.tenantID, Code: "4000", Name: "Sales", AccountType: domain.Revenue, NormalBalance: domain.CreditNormal, IsActive: true}
	s.serviceIncome = domain.Account{AccountID: "acc-svc", TenantID: &s.tenantID, Code: "4100", Name: "Service Income", AccountType: domain.Revenue, NormalBalance: domain.CreditNormal, IsActive: true}
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func (s *InvoiceServiceTestSuite) allAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		s.receivable.AccountID:    s.receivable,
		s.tax.AccountID:           s.tax,
		s.sales.AccountID:         s.sales,
		s.serviceIncome.AccountID: s.serviceIncome,
	}
}

func (s *InvoiceServiceTestSuite) request() dto.InvoiceRequest {
	return dto.InvoiceRequest{
		Reference:    "2025-001",
		CustomerName: "Acme Ltd",
		InvoiceDate:  "2025-03-01",
		DueDate:      "2025-03-31",
		Items: []dto.InvoiceItemRequest{
			{Description: "Widgets", Quantity: dec("2"), UnitPrice: dec("50"), TaxRate: dec("10"), AccountID: s.sales.AccountID},
			{Description: "Setup", Quantity: dec("1"), UnitPrice: dec("20"), TaxRate: decimal.Zero, AccountID: s.serviceIncome.AccountID},
		},
	}
}

func (s *InvoiceServiceTestSuite) draftInvoice() *domain.Invoice {
	inv := &domain.Invoice{
		InvoiceID:    "inv-1",
		TenantID:     s.tenantID,
		Reference:    "2025-001",
		CustomerName: "Acme Ltd",
		InvoiceDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:       domain.InvoiceDraft,
		Total:        dec("130"),
		TaxAmount:    dec("10"),
		Items: []domain.InvoiceItem{
			{ItemID: "i1", InvoiceID: "inv-1", LineNo: 1, Description: "Widgets", Quantity: dec("2"), UnitPrice: dec("50"), TaxRate: dec("10"),
				NetAmount: dec("100"), TaxAmount: dec("10"), Amount: dec("110"), AccountID: s.sales.AccountID},
			{ItemID: "i2", InvoiceID: "inv-1", LineNo: 2, Description: "Setup", Quantity: dec("1"), UnitPrice: dec("20"), TaxRate: decimal.Zero,
				NetAmount: dec("20"), TaxAmount: decimal.Zero, Amount: dec("20"), AccountID: s.serviceIncome.AccountID},
		},
		AuditFields: domain.NewAuditFields(s.userID, fixedNow.Add(-time.Hour)),
	}
	return inv
}

func (s *InvoiceServiceTestSuite) TestCreateInvoice_ComputesTotals() {
	ctx := context.Background()
	s.accountRepo.On("FindAccountsByIDs", ctx, []string{s.sales.AccountID, s.serviceIncome.AccountID}).Return(s.allAccounts(), nil).Once()
	s.invoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	inv, err := s.service.CreateInvoice(ctx, s.tenantID, s.request(), s.userID)

	s.Require().NoError(err)
	s.True(inv.Total.Equal(dec("130")), "total = 2x50x1.1 + 1x20, got %s", inv.Total)
	s.True(inv.TaxAmount.Equal(dec("10")))
	s.True(inv.Items[0].Amount.Equal(dec("110")))
	s.Equal(domain.InvoiceDraft, inv.Status)
	s.NotNil(inv.DueDate)
	s.Require().Len(s.publisher.records, 1)
	s.invoiceRepo.AssertExpectations(s.T())
}

func (s *InvoiceServiceTestSuite) TestCreateInvoice_DueBeforeInvoiceDate() {
	req := s.request()
	req.DueDate = "2025-02-01"

	_, err := s.service.CreateInvoice(context.Background(), s.tenantID, req, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.invoiceRepo.AssertNotCalled(s.T(), "SaveInvoice", mock.Anything, mock.Anything, mock.Anything)
}

func (s *InvoiceServiceTestSuite) TestCreateInvoice_LinkedEntryMustBeDraft() {
	ctx := context.Background()
	entryID := "entry-1"
	req := s.request()
	req.JournalEntryID = &entryID
	s.accountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(s.allAccounts(), nil).Once()
	s.journalRepo.On("FindEntryByID", ctx, entryID).Return(&domain.JournalEntry{EntryID: entryID, TenantID: s.tenantID, Status: domain.Posted}, nil).Once()

	_, err := s.service.CreateInvoice(ctx, s.tenantID, req, s.userID)

	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *InvoiceServiceTestSuite) TestPostInvoice_SynthesizesBalancedEntry() {
	ctx := context.Background()
	inv := s.draftInvoice()
	s.invoiceRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	s.accountRepo.On("FindAccountByCode", ctx, s.tenantID, "1200").Return(&s.receivable, nil).Once()
	s.accountRepo.On("FindAccountByCode", ctx, s.tenantID, "2200").Return(&s.tax, nil).Once()
	s.accountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(s.allAccounts(), nil).Twice()

	var entry domain.JournalEntry
	var changes map[string]decimal.Decimal
	var audits []domain.AuditRecord
	s.invoiceRepo.On("PostInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("domain.JournalEntry"), true, mock.Anything, s.userID, fixedNow, mock.Anything).
		Run(func(args mock.Arguments) {
			entry = args.Get(2).(domain.JournalEntry)
			changes = args.Get(4).(map[string]decimal.Decimal)
			audits = args.Get(7).([]domain.AuditRecord)
		}).Return(nil).Once()

	posted, err := s.service.PostInvoice(ctx, s.tenantID, inv.InvoiceID, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.InvoicePosted, posted.Status)
	s.Equal(entry.EntryID, *posted.JournalEntryID)
	s.Equal(s.receivable.AccountID, *posted.ReceivableAccountID)

	s.Equal(services.InvoiceEntryPrefix+"2025-001", entry.Reference)
	s.Equal(domain.SourceInvoice, entry.SourceType)
	s.Equal(inv.InvoiceDate, entry.EntryDate)
	s.Require().Len(entry.Lines, 4)
	debits, credits := decimal.Zero, decimal.Zero
	for _, l := range entry.Lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	s.True(debits.Equal(dec("130")))
	s.True(credits.Equal(dec("130")))

	s.True(changes[s.receivable.AccountID].Equal(dec("130")))
	s.True(changes[s.sales.AccountID].Equal(dec("100")))
	s.True(changes[s.serviceIncome.AccountID].Equal(dec("20")))
	s.True(changes[s.tax.AccountID].Equal(dec("10")))

	s.Require().Len(audits, 3)
	s.Equal(domain.TargetInvoice, audits[2].TargetType)
	s.Len(s.publisher.records, 3)
	s.invoiceRepo.AssertExpectations(s.T())
}

func (s *InvoiceServiceTestSuite) TestPostInvoice_AlreadyPosted() {
	ctx := context.Background()
	inv := s.draftInvoice()
	inv.Status = domain.InvoicePosted
	s.invoiceRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()

	_, err := s.service.PostInvoice(ctx, s.tenantID, inv.InvoiceID, s.userID)

	s.ErrorIs(err, apperrors.ErrAlreadyPosted)
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.invoiceRepo.AssertNotCalled(s.T(), "PostInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *InvoiceServiceTestSuite) TestPostInvoice_LinkedUnbalancedEntry() {
	ctx := context.Background()
	inv := s.draftInvoice()
	entryID := "entry-1"
	inv.JournalEntryID = &entryID
	linked := &domain.JournalEntry{
		EntryID:  entryID,
		TenantID: s.tenantID,
		Status:   domain.Draft,
		Lines: []domain.JournalLine{
			{AccountID: s.receivable.AccountID, Debit: dec("130"), Credit: decimal.Zero},
			{AccountID: s.sales.AccountID, Debit: decimal.Zero, Credit: dec("120")},
		},
	}
	s.invoiceRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	s.journalRepo.On("FindEntryByID", ctx, entryID).Return(linked, nil).Once()

	_, err := s.service.PostInvoice(ctx, s.tenantID, inv.InvoiceID, s.userID)

	s.ErrorIs(err, apperrors.ErrUnbalancedEntry)
	s.Empty(s.publisher.records)
}

func (s *InvoiceServiceTestSuite) TestPostInvoice_MissingReceivableAccount() {
	ctx := context.Background()
	inv := s.draftInvoice()
	s.invoiceRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()
	s.accountRepo.On("FindAccountByCode", ctx, s.tenantID, "1200").Return(nil, apperrors.NewNotFoundError("account not found")).Once()

	_, err := s.service.PostInvoice(ctx, s.tenantID, inv.InvoiceID, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *InvoiceServiceTestSuite) TestUpdateAndDelete_RejectPostedInvoice() {
	ctx := context.Background()
	inv := s.draftInvoice()
	inv.Status = domain.InvoicePosted
	s.invoiceRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Twice()

	_, err := s.service.UpdateInvoice(ctx, s.tenantID, inv.InvoiceID, s.request(), s.userID)
	s.ErrorIs(err, apperrors.ErrInvalidState)

	err = s.service.DeleteInvoice(ctx, s.tenantID, inv.InvoiceID, s.userID)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *InvoiceServiceTestSuite) TestRenderInvoicePDF() {
	ctx := context.Background()
	inv := s.draftInvoice()
	s.invoiceRepo.On("FindInvoiceByID", ctx, inv.InvoiceID).Return(inv, nil).Once()

	out, err := s.service.RenderInvoicePDF(ctx, s.tenantID, inv.InvoiceID)

	s.Require().NoError(err)
	s.True(bytes.HasPrefix(out, []byte("%PDF-")))
}

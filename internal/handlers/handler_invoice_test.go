package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InvoiceHandlerTestSuite struct {
	handlerSuite
}

func TestInvoiceHandler(t *testing.T) {
	suite.Run(t, new(InvoiceHandlerTestSuite))
}

const invoiceBody = `{"reference":"INV-7","customerName":"Acme","invoiceDate":"2025-03-01","items":[` +
	`{"description":"Widgets","quantity":"2","unitPrice":"50","taxRate":"10","accountID":"sales"},` +
	`{"description":"Setup","quantity":"1","unitPrice":"20","taxRate":"0","accountID":"services"}]}`

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_Success() {
	invoice := &domain.Invoice{
		InvoiceID:   uuid.NewString(),
		TenantID:    testTenantID,
		Reference:   "INV-7",
		InvoiceDate: date("2025-03-01"),
		Total:       decimal.NewFromInt(130),
		TaxAmount:   decimal.NewFromInt(10),
		Status:      domain.InvoiceDraft,
	}
	suite.invoices.On("CreateInvoice", mock.Anything, testTenantID,
		mock.MatchedBy(func(req dto.InvoiceRequest) bool {
			return len(req.Items) == 2 && req.Items[0].TaxRate.Equal(decimal.NewFromInt(10))
		}), testUserID).Return(invoice, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices", invoiceBody)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.True(decimal.NewFromInt(130).Equal(res.Total))
	suite.Equal("2025-03-01", res.InvoiceDate)
}

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_TaxRateOutOfRange() {
	body := `{"reference":"INV-7","customerName":"Acme","invoiceDate":"2025-03-01","items":[` +
		`{"description":"Widgets","quantity":"1","unitPrice":"50","taxRate":"150","accountID":"sales"}]}`

	w := suite.do(http.MethodPost, "/api/v1/invoices", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.invoices.AssertNotCalled(suite.T(), "CreateInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_ZeroQuantity() {
	body := `{"reference":"INV-7","customerName":"Acme","invoiceDate":"2025-03-01","items":[` +
		`{"description":"Widgets","quantity":"0","unitPrice":"50","taxRate":"0","accountID":"sales"}]}`

	w := suite.do(http.MethodPost, "/api/v1/invoices", body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestPostInvoice_AlreadyPosted() {
	invoiceID := uuid.NewString()
	suite.invoices.On("PostInvoice", mock.Anything, testTenantID, invoiceID, testUserID).
		Return(nil, apperrors.ErrAlreadyPosted).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/"+invoiceID+"/post", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal(string(apperrors.KindAlreadyPosted), suite.decodeError(w).Error)
}

func (suite *InvoiceHandlerTestSuite) TestPostInvoice_Success() {
	invoiceID := uuid.NewString()
	entryID := uuid.NewString()
	suite.invoices.On("PostInvoice", mock.Anything, testTenantID, invoiceID, testUserID).
		Return(&domain.Invoice{InvoiceID: invoiceID, Status: domain.InvoicePosted, JournalEntryID: &entryID}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/"+invoiceID+"/post", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(domain.InvoicePosted, res.Status)
	suite.Require().NotNil(res.JournalEntryID)
	suite.Equal(entryID, *res.JournalEntryID)
}

func (suite *InvoiceHandlerTestSuite) TestDownloadPDF() {
	invoiceID := uuid.NewString()
	suite.invoices.On("RenderInvoicePDF", mock.Anything, testTenantID, invoiceID).Return([]byte("%PDF-1.3 test"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/invoices/"+invoiceID+"/pdf", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/pdf", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), invoiceID)
	suite.Equal("%PDF-1.3 test", w.Body.String())
}

func (suite *InvoiceHandlerTestSuite) TestDeleteInvoice_Posted() {
	invoiceID := uuid.NewString()
	suite.invoices.On("DeleteInvoice", mock.Anything, testTenantID, invoiceID, testUserID).
		Return(apperrors.ErrInvalidState).Once()

	w := suite.do(http.MethodDelete, "/api/v1/invoices/"+invoiceID, nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

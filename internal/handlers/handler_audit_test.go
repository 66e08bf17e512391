package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuditHandlerTestSuite struct {
	handlerSuite
}

func TestAuditHandler(t *testing.T) {
	suite.Run(t, new(AuditHandlerTestSuite))
}

func (suite *AuditHandlerTestSuite) TestListAuditRecords() {
	params := dto.ListAuditParams{TargetType: domain.TargetJournalEntry, TargetID: "e1", Limit: 10}
	suite.audit.On("ListAuditRecords", mock.Anything, testTenantID, params).Return([]domain.AuditRecord{
		{AuditID: "a1", ActorID: testUserID, Action: domain.ActionPost, TargetType: domain.TargetJournalEntry, TargetID: "e1"},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/audit-log?targetType=journal_entry&targetID=e1&limit=10", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.ListAuditResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Require().Len(res.Records, 1)
	suite.Equal(domain.ActionPost, res.Records[0].Action)
}

func (suite *AuditHandlerTestSuite) TestListAuditRecords_UnknownTarget() {
	w := suite.do(http.MethodGet, "/api/v1/audit-log?targetType=user", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AuditHandlerTestSuite) TestHealth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := suite.recorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

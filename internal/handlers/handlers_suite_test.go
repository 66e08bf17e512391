package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/dto"
	"github.com/SscSPs/shop_finance_ledger/internal/handlers"
	"github.com/SscSPs/shop_finance_ledger/internal/middleware"
	"github.com/SscSPs/shop_finance_ledger/internal/platform/cache"
	"github.com/SscSPs/shop_finance_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

const (
	testTenantID = "shop-owner-1"
	testUserID   = "cashier-7"
)

// handlerSuite wires the real router and auth middleware to mocked services.
type handlerSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string

	accounts  *MockAccountService
	journal   *MockJournalService
	invoices  *MockInvoiceService
	budgets   *MockBudgetService
	reporting *MockReportingService
	audit     *MockAuditService
	store     *cache.InMemoryIdempotencyStore
}

func (s *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.jwtSecret = "test-secret-key-that-is-long-enough"
	s.router = gin.New()

	s.accounts = new(MockAccountService)
	s.journal = new(MockJournalService)
	s.invoices = new(MockInvoiceService)
	s.budgets = new(MockBudgetService)
	s.reporting = new(MockReportingService)
	s.audit = new(MockAuditService)
	s.store = cache.NewInMemoryIdempotencyStore()

	cfg := &config.Config{JWTSecret: s.jwtSecret, IsProduction: true, IdempotencyTTL: time.Hour}
	services := &portssvc.ServiceContainer{
		Account:   s.accounts,
		Journal:   s.journal,
		Invoice:   s.invoices,
		Budget:    s.budgets,
		Reporting: s.reporting,
		Audit:     s.audit,
	}
	handlers.RegisterRoutes(s.router, cfg, services, s.store)
}

func (s *handlerSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

// generateTestToken creates a JWT for the given actor and shop owner.
func (s *handlerSuite) generateTestToken(userID, tenantID string) string {
	claims := middleware.Claims{
		ShopOwnerID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "ledger-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

// do sends an authenticated request. body is JSON-encoded unless it is nil.
func (s *handlerSuite) do(method, url string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			s.Require().NoError(err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+s.generateTestToken(testUserID, testTenantID))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *handlerSuite) decodeError(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var res dto.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func date(value string) time.Time {
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func (s *handlerSuite) recorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

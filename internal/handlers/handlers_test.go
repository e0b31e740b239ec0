package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/ALANAK777/erp_finance_system/internal/handlers"
	"github.com/ALANAK777/erp_finance_system/internal/middleware"
	"github.com/ALANAK777/erp_finance_system/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "erp-test"
	testAPIKey = "svc-key-123"
)

type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	userID    string
	accounts  *MockAccountService
	journal   *MockJournalService
	invoices  *MockInvoiceService
	payments  *MockPaymentService
	projects  *MockProjectService
	cashFlows *MockCashFlowService
	reporting *MockReportingService
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.userID = uuid.NewString()

	suite.accounts = new(MockAccountService)
	suite.journal = new(MockJournalService)
	suite.invoices = new(MockInvoiceService)
	suite.payments = new(MockPaymentService)
	suite.projects = new(MockProjectService)
	suite.cashFlows = new(MockCashFlowService)
	suite.reporting = new(MockReportingService)

	keyHash, err := bcrypt.GenerateFromPassword([]byte(testAPIKey), bcrypt.MinCost)
	suite.Require().NoError(err)

	cfg := &config.Config{
		JWTSecret:         testSecret,
		JWTIssuer:         testIssuer,
		ServiceAPIKeyHash: string(keyHash),
		IsProduction:      true,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Account:   suite.accounts,
		Journal:   suite.journal,
		Invoice:   suite.invoices,
		Payment:   suite.payments,
		Project:   suite.projects,
		CashFlow:  suite.cashFlows,
		Reporting: suite.reporting,
	}, nil)
}

// generateTestToken creates a signed JWT for the suite user.
func (suite *HandlerTestSuite) generateTestToken() string {
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   suite.userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decodeError(w *httptest.ResponseRecorder) handlers.ErrorResponse {
	var res handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func (suite *HandlerTestSuite) TestHealth_NoAuth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestMissingToken_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.accounts.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestAPIKey_ActsAsServiceUser() {
	suite.journal.On("SubmitEntry", mock.Anything, "entry-1", middleware.ServiceActorID).
		Return(&domain.JournalEntry{EntryID: "entry-1", Status: domain.JournalPending}, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/journal-entries/entry-1/submit", nil)
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.journal.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1150", Name: "Retention Receivable", AccountType: domain.Asset}
	suite.accounts.On("CreateAccount", mock.Anything, req, suite.userID).
		Return(&domain.Account{AccountID: uuid.NewString(), Code: "1150", Name: req.Name, AccountType: domain.Asset, IsActive: true}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("1150", res.Code)
	suite.True(res.Balance.IsZero())
	suite.accounts.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateAccount_InvalidCode() {
	req := dto.CreateAccountRequest{Code: "11 50", Name: "Bad", AccountType: domain.Asset}

	w := suite.do(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accounts.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}
	suite.accounts.On("CreateAccount", mock.Anything, req, suite.userID).
		Return(nil, fmt.Errorf("%w: account code 1000", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.False(suite.decodeError(w).Retryable)
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	suite.accounts.On("GetAccountByID", mock.Anything, "missing").
		Return(nil, fmt.Errorf("%w: account missing", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteAccount_HasDependents() {
	suite.accounts.On("DeleteAccount", mock.Anything, "acc-1", suite.userID).
		Return(fmt.Errorf("%w: account has journal lines", apperrors.ErrHasDependents)).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounts/acc-1", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteAccount_NoContent() {
	suite.accounts.On("DeleteAccount", mock.Anything, "acc-1", suite.userID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounts/acc-1", nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestListAccounts_TypeFilter() {
	suite.accounts.On("ListAccounts", mock.Anything, mock.MatchedBy(func(f domain.AccountFilter) bool {
		return f.AccountType != nil && *f.AccountType == domain.Revenue
	})).Return([]domain.Account{{AccountID: "a", Code: "4100", AccountType: domain.Revenue}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts?type=REVENUE", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res.Accounts, 1)
}

func (suite *HandlerTestSuite) TestListPostings_PassesLimit() {
	accountID := uuid.NewString()
	next := "token"
	suite.journal.On("ListPostingsByAccount", mock.Anything, accountID, mock.MatchedBy(func(p dto.ListPostingsParams) bool {
		return p.Limit == 5
	})).Return(&dto.ListPostingsResponse{Postings: []domain.LedgerPosting{}, NextToken: &next}, nil).Once()

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/postings?limit=5", accountID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListPostingsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Require().NotNil(res.NextToken)
	suite.Equal(next, *res.NextToken)
}

func (suite *HandlerTestSuite) TestCreateEntry_Unbalanced() {
	req := dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Site materials",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: uuid.NewString(), Debit: decimal.NewFromInt(100)},
			{AccountID: uuid.NewString(), Credit: decimal.NewFromInt(90)},
		},
	}
	suite.journal.On("CreateEntry", mock.Anything, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: debits 100 do not equal credits 90", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decodeError(w).Error, "debits 100")
}

func (suite *HandlerTestSuite) TestCreateEntry_SingleLineRejectedByBinding() {
	req := dto.CreateJournalEntryRequest{
		EntryDate:   time.Now(),
		Description: "One-sided",
		Lines:       []dto.CreateJournalLineRequest{{AccountID: uuid.NewString(), Debit: decimal.NewFromInt(1)}},
	}

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.journal.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateEntry_NegativeAmountRejectedByBinding() {
	req := dto.CreateJournalEntryRequest{
		EntryDate:   time.Now(),
		Description: "Negative",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: uuid.NewString(), Debit: decimal.NewFromInt(-5)},
			{AccountID: uuid.NewString(), Credit: decimal.NewFromInt(-5)},
		},
	}

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestApproveEntry_ConcurrencyIsRetryable() {
	suite.journal.On("ApproveEntry", mock.Anything, "entry-1", suite.userID).
		Return(nil, apperrors.ErrConcurrency).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/entry-1/approve", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.True(suite.decodeError(w).Retryable)
}

func (suite *HandlerTestSuite) TestApproveEntry_AlreadyApproved() {
	suite.journal.On("ApproveEntry", mock.Anything, "entry-1", suite.userID).
		Return(nil, fmt.Errorf("%w: entry is APPROVED", apperrors.ErrInvalidTransition)).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/entry-1/approve", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.False(suite.decodeError(w).Retryable)
}

func (suite *HandlerTestSuite) TestRejectEntry_RequiresReason() {
	w := suite.do(http.MethodPost, "/api/v1/journal-entries/entry-1/reject", map[string]string{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.journal.AssertNotCalled(suite.T(), "RejectEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestRejectEntry_Success() {
	reason := "wrong account"
	suite.journal.On("RejectEntry", mock.Anything, "entry-1", reason, suite.userID).
		Return(&domain.JournalEntry{EntryID: "entry-1", Status: domain.JournalRejected, RejectionReason: &reason}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/entry-1/reject", dto.RejectJournalEntryRequest{Reason: reason})

	suite.Equal(http.StatusOK, w.Code)
	var res dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(domain.JournalRejected, res.Status)
}

func (suite *HandlerTestSuite) TestCreateInvoice_MissingPostingAccount() {
	req := dto.CreateInvoiceRequest{
		InvoiceType: domain.Receivable,
		IssueDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Items: []dto.CreateInvoiceItemRequest{
			{Description: "Foundation works", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5000)},
		},
	}
	suite.invoices.On("CreateInvoice", mock.Anything, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: account 1100", apperrors.ErrMissingConfiguration)).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices", req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestCreateInvoice_DueBeforeIssue() {
	req := dto.CreateInvoiceRequest{
		InvoiceType: domain.Receivable,
		IssueDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Items: []dto.CreateInvoiceItemRequest{
			{Description: "Framing", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	w := suite.do(http.MethodPost, "/api/v1/invoices", req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRecordPayment_Overpayment() {
	req := dto.CreatePaymentRequest{
		Amount:      decimal.NewFromInt(999999),
		PaymentDate: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		Method:      domain.PaymentBankTransfer,
	}
	suite.payments.On("RecordPayment", mock.Anything, "inv-1", mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: payment exceeds outstanding amount", apperrors.ErrInvalidTransition)).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/payments", req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestCreateEntry_ExcessPrecisionRejectedByBinding() {
	req := dto.CreateJournalEntryRequest{
		EntryDate:   time.Now(),
		Description: "Dust",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: uuid.NewString(), Debit: decimal.RequireFromString("10.00005")},
			{AccountID: uuid.NewString(), Credit: decimal.RequireFromString("10.00005")},
		},
	}

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.journal.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestRecordPayment_ExcessPrecisionRejectedByBinding() {
	req := dto.CreatePaymentRequest{
		Amount:      decimal.RequireFromString("12.34567"),
		PaymentDate: time.Now(),
		Method:      domain.PaymentCash,
	}

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/payments", req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.payments.AssertNotCalled(suite.T(), "RecordPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestRecordPayment_ZeroAmountRejectedByBinding() {
	req := dto.CreatePaymentRequest{PaymentDate: time.Now(), Method: domain.PaymentCash}

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/payments", req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCancelInvoice_EmptyBody() {
	inv := &domain.Invoice{InvoiceID: "inv-1", Status: domain.InvoiceCancelled}
	suite.invoices.On("CancelInvoice", mock.Anything, "inv-1", dto.CancelInvoiceRequest{}, suite.userID).
		Return(&dto.InvoiceResult{Invoice: dto.ToInvoiceResponse(inv)}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/cancel", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.invoices.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestUpdateProject_CompletionPostsRevenue() {
	status := domain.ProjectCompleted
	entry := dto.ToJournalEntryResponse(&domain.JournalEntry{EntryID: "je-1", Status: domain.JournalApproved})
	suite.projects.On("UpdateProject", mock.Anything, "proj-1", mock.MatchedBy(func(r dto.UpdateProjectRequest) bool {
		return r.Status != nil && *r.Status == status
	}), suite.userID).Return(&dto.ProjectResult{
		Project:      domain.Project{ProjectID: "proj-1", Status: status},
		JournalEntry: &entry,
	}, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/projects/proj-1", dto.UpdateProjectRequest{Status: &status})

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ProjectResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Require().NotNil(res.JournalEntry)
	suite.Equal("je-1", res.JournalEntry.EntryID)
}

func (suite *HandlerTestSuite) TestBalanceSheet_AsOfParsed() {
	suite.reporting.On("GetBalanceSheet", mock.Anything, mock.MatchedBy(func(asOf *time.Time) bool {
		return asOf != nil && asOf.Format("2006-01-02") == "2024-06-30"
	})).Return(&domain.BalanceSheetReport{IsBalanced: true}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/balance-sheet?asOf=2024-06-30", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.reporting.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestBalanceSheet_CurrentWhenNoDate() {
	suite.reporting.On("GetBalanceSheet", mock.Anything, (*time.Time)(nil)).
		Return(&domain.BalanceSheetReport{IsBalanced: true}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/balance-sheet", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestProfitLoss_BadDate() {
	w := suite.do(http.MethodGet, "/api/v1/reports/profit-loss?start=03/01/2024", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.reporting.AssertNotCalled(suite.T(), "GetProfitLoss", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestReconciliation_InternalErrorHidesCause() {
	suite.reporting.On("ReconcileBalances", mock.Anything).
		Return(nil, fmt.Errorf("pq: connection reset")).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/reconciliation", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(suite.decodeError(w).Error, "connection reset")
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

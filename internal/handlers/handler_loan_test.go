package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finmentor/loan_management_app/internal/apperrors"
	"github.com/finmentor/loan_management_app/internal/core/domain"
	portssvc "github.com/finmentor/loan_management_app/internal/core/ports/services"
	"github.com/finmentor/loan_management_app/internal/dto"
	"github.com/finmentor/loan_management_app/internal/handlers"
	"github.com/finmentor/loan_management_app/internal/utils"
	"github.com/finmentor/loan_management_app/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LoanService ---
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, creatorUserID string) (*domain.Loan, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) GetLoanByID(ctx context.Context, loanID string, requestingUserID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) ListLoans(ctx context.Context, userID string, params dto.ListLoansParams) (*dto.ListLoansResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLoansResponse), args.Error(1)
}

func (m *MockLoanService) UpdateLoanTerms(ctx context.Context, loanID string, req dto.UpdateLoanTermsRequest, requestingUserID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) RecordPayment(ctx context.Context, loanID string, req dto.RecordPaymentRequest, requestingUserID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) GetSchedule(ctx context.Context, loanID string, requestingUserID string) ([]domain.Installment, error) {
	args := m.Called(ctx, loanID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockLoanService) ListPayments(ctx context.Context, loanID string, requestingUserID string) ([]domain.PaymentRecord, error) {
	args := m.Called(ctx, loanID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentRecord), args.Error(1)
}

func (m *MockLoanService) RefreshStatus(ctx context.Context, loanID string, asOf *time.Time, requestingUserID string) (domain.LoanStatus, error) {
	args := m.Called(ctx, loanID, asOf, requestingUserID)
	return args.Get(0).(domain.LoanStatus), args.Error(1)
}

func (m *MockLoanService) CloseLoanEarly(ctx context.Context, loanID string, requestingUserID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LoanSvcFacade = (*MockLoanService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Test Suite ---
type LoanHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockLoanService *MockLoanService
	mockUserService *MockUserService
	jwtSecret       string
	userID          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *LoanHandlerTestSuite) generateTestToken(userID string) string {
	token, err := utils.GenerateJWT(userID, suite.jwtSecret, time.Hour, "loan-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *LoanHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.mockLoanService = new(MockLoanService)
	suite.mockUserService = new(MockUserService)

	cfg := &config.Config{
		JWTSecret:         suite.jwtSecret,
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "loan-test",
		IsProduction:      true, // skip swagger route setup
	}
	services := &portssvc.ServiceContainer{
		Loan: suite.mockLoanService,
		User: suite.mockUserService,
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

// authedRequest builds a request with a valid bearer token for the suite user.
func (suite *LoanHandlerTestSuite) authedRequest(method, url string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// sampleLoan builds a fully derived loan owned by the suite user.
func (suite *LoanHandlerTestSuite) sampleLoan() *domain.Loan {
	loan := &domain.Loan{
		LoanID:           uuid.NewString(),
		UserID:           suite.userID,
		PrincipalAmount:  decimal.NewFromInt(100000),
		InterestRate:     decimal.NewFromInt(12),
		TenureMonths:     12,
		StartDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PaymentFrequency: domain.FrequencyMonthly,
		Status:           domain.LoanActive,
	}
	suite.Require().NoError(loan.RecomputeDerivedTerms())
	return loan
}

// --- Test Cases ---

func (suite *LoanHandlerTestSuite) TestCreateLoan_Success() {
	loan := suite.sampleLoan()
	reqBody := dto.CreateLoanRequest{
		PrincipalAmount: loan.PrincipalAmount,
		InterestRate:    loan.InterestRate,
		TenureMonths:    loan.TenureMonths,
		StartDate:       loan.StartDate,
	}

	suite.mockLoanService.On("CreateLoan",
		mock.Anything,
		mock.MatchedBy(func(r dto.CreateLoanRequest) bool {
			return r.TenureMonths == reqBody.TenureMonths && r.PrincipalAmount.Equal(reqBody.PrincipalAmount)
		}),
		suite.userID,
	).Return(loan, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/loans", reqBody))

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.LoanResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(loan.LoanID, resp.LoanID)
	suite.True(resp.EMIAmount.Equal(loan.EMIAmount))
	suite.Len(resp.EMISchedule, 12)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestCreateLoan_InvalidTerms() {
	reqBody := dto.CreateLoanRequest{
		PrincipalAmount: decimal.NewFromInt(-100),
		TenureMonths:    12,
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	suite.mockLoanService.On("CreateLoan", mock.Anything, mock.AnythingOfType("dto.CreateLoanRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, domain.ErrInvalidLoanTerms)).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/loans", reqBody))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestCreateLoan_MissingToken() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewBufferString("{}"))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "CreateLoan")
}

func (suite *LoanHandlerTestSuite) TestGetLoan_NotFound() {
	loanID := uuid.NewString()

	suite.mockLoanService.On("GetLoanByID", mock.Anything, loanID, suite.userID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, "/api/v1/loans/"+loanID, nil))

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestRecordPayment_DuplicateConflict() {
	loanID := uuid.NewString()
	reqBody := dto.RecordPaymentRequest{
		EMINumber:   1,
		Amount:      decimal.NewFromInt(8885),
		PaymentDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	suite.mockLoanService.On("RecordPayment", mock.Anything, loanID, mock.AnythingOfType("dto.RecordPaymentRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: emiNumber 1", domain.ErrDuplicatePayment)).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, fmt.Sprintf("/api/v1/loans/%s/payments", loanID), reqBody))

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestUpdateLoanTerms_Locked() {
	loanID := uuid.NewString()
	tenure := 24
	reqBody := dto.UpdateLoanTermsRequest{TenureMonths: &tenure}

	suite.mockLoanService.On("UpdateLoanTerms", mock.Anything, loanID, mock.AnythingOfType("dto.UpdateLoanTermsRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: terms locked", apperrors.ErrConflict)).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPut, fmt.Sprintf("/api/v1/loans/%s/terms", loanID), reqBody))

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestRefreshStatus_Success() {
	loanID := uuid.NewString()

	suite.mockLoanService.On("RefreshStatus", mock.Anything, loanID, (*time.Time)(nil), suite.userID).
		Return(domain.LoanDefaulted, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, fmt.Sprintf("/api/v1/loans/%s/refresh-status", loanID), nil))

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.RefreshStatusResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.LoanDefaulted), resp.Status)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestGetSchedule_Success() {
	loan := suite.sampleLoan()

	suite.mockLoanService.On("GetSchedule", mock.Anything, loan.LoanID, suite.userID).
		Return(loan.Schedule, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, fmt.Sprintf("/api/v1/loans/%s/schedule", loan.LoanID), nil))

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ScheduleResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.EMISchedule, 12)
	suite.Equal(1, resp.EMISchedule[0].EMINumber)
	suite.mockLoanService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestLoanHandler(t *testing.T) {
	suite.Run(t, new(LoanHandlerTestSuite))
}

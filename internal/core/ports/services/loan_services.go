package services

import (
	"context"
	"time"

	"github.com/finmentor/loan_management_app/internal/core/domain"
	"github.com/finmentor/loan_management_app/internal/dto"
)

// LoanSvcFacade is the service boundary for the loan amortization engine.
type LoanSvcFacade interface {
	// CreateLoan validates terms, derives the EMI fields and schedule, and persists the loan.
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, creatorUserID string) (*domain.Loan, error)

	// GetLoanByID returns the loan with schedule and payments; status is re-derived on read.
	GetLoanByID(ctx context.Context, loanID string, requestingUserID string) (*domain.Loan, error)

	// ListLoans returns a paginated list of the user's loans.
	ListLoans(ctx context.Context, userID string, params dto.ListLoansParams) (*dto.ListLoansResponse, error)

	// UpdateLoanTerms modifies principal/rate/tenure/startDate and regenerates
	// everything derived. Rejected once any payment exists.
	UpdateLoanTerms(ctx context.Context, loanID string, req dto.UpdateLoanTermsRequest, requestingUserID string) (*domain.Loan, error)

	// RecordPayment applies a payment against one installment.
	RecordPayment(ctx context.Context, loanID string, req dto.RecordPaymentRequest, requestingUserID string) (*domain.Loan, error)

	// GetSchedule returns the loan's EMI schedule.
	GetSchedule(ctx context.Context, loanID string, requestingUserID string) ([]domain.Installment, error)

	// ListPayments returns the loan's payment log.
	ListPayments(ctx context.Context, loanID string, requestingUserID string) ([]domain.PaymentRecord, error)

	// RefreshStatus re-derives the loan status as of the given date (now if nil),
	// marking past-due installments overdue, and persists the result.
	RefreshStatus(ctx context.Context, loanID string, asOf *time.Time, requestingUserID string) (domain.LoanStatus, error)

	// CloseLoanEarly marks the loan prepaid. Terminal.
	CloseLoanEarly(ctx context.Context, loanID string, requestingUserID string) (*domain.Loan, error)
}

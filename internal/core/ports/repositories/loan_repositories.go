package repositories

import (
	"context"
	"time"

	"github.com/finmentor/loan_management_app/internal/core/domain"
)

// LoanReader defines read operations for loan data.
type LoanReader interface {
	// FindLoanByID retrieves a loan with its full schedule and payment log.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoansByUser retrieves a paginated list of loans (headers only, no
	// schedule) for a user using token-based pagination. It returns the
	// loans, a token for the next page, and an error.
	ListLoansByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Loan, *string, error)

	// FindInstallmentsByLoanID retrieves the full EMI schedule, ordered by emi_number.
	FindInstallmentsByLoanID(ctx context.Context, loanID string) ([]domain.Installment, error)

	// FindPaymentsByLoanID retrieves the payment log, oldest first.
	FindPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.PaymentRecord, error)
}

// LoanWriter defines write operations for loan data.
type LoanWriter interface {
	// SaveLoan persists a new loan together with its generated schedule in one transaction.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// ReplaceLoanAndSchedule updates the loan row and replaces its schedule
	// wholesale, locking the loan row. It fails with apperrors.ErrConflict
	// if any payment has already been recorded.
	ReplaceLoanAndSchedule(ctx context.Context, loan domain.Loan) error

	// SavePayment appends a payment, updates the target installment and the
	// loan's running fields atomically. The loan row is locked for the
	// duration so concurrent payments cannot lose updates; it fails with
	// apperrors.ErrDuplicate if the installment was paid concurrently.
	SavePayment(ctx context.Context, loan domain.Loan, payment domain.PaymentRecord, installment domain.Installment) error

	// UpdateLoanStatus persists a refreshed status and any installments that
	// were flipped to overdue by the sweep.
	UpdateLoanStatus(ctx context.Context, loan domain.Loan, overdue []domain.Installment, updatedBy string, updatedAt time.Time) error
}

// LoanRepositoryFacade combines all loan-related repository interfaces.
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finmentor/loan_management_app/internal/apperrors"
	"github.com/finmentor/loan_management_app/internal/core/domain"
	portsrepo "github.com/finmentor/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/finmentor/loan_management_app/internal/core/ports/services"
	"github.com/finmentor/loan_management_app/internal/dto"
	"github.com/finmentor/loan_management_app/internal/middleware"
)

var (
	// ErrTermsLockedByPayments guards term modification once the payment log
	// is non-empty: regenerating the schedule would orphan recorded payments.
	ErrTermsLockedByPayments = errors.New("loan terms cannot be modified after payments are recorded")

	// ErrLoanClosed rejects operations against a loan in a terminal state.
	ErrLoanClosed = errors.New("loan is already closed")
)

// loanService provides loan lifecycle operations on top of the pure
// amortization engine in the domain package.
type loanService struct {
	loanRepo portsrepo.LoanRepositoryFacade
}

// NewLoanService creates a new LoanService.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade) portssvc.LoanSvcFacade {
	return &loanService{loanRepo: loanRepo}
}

// Ensure loanService implements the portssvc.LoanSvcFacade interface
var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// CreateLoan validates the submitted terms, derives every computed field and
// the full EMI schedule, and persists the loan.
// Implements portssvc.LoanSvcFacade
func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, creatorUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	frequency := domain.FrequencyMonthly
	if req.PaymentFrequency != nil {
		frequency = *req.PaymentFrequency
	}

	loan := domain.Loan{
		LoanID:           uuid.NewString(),
		UserID:           creatorUserID,
		PrincipalAmount:  req.PrincipalAmount,
		InterestRate:     req.InterestRate,
		TenureMonths:     req.TenureMonths,
		StartDate:        req.StartDate,
		PaymentFrequency: frequency,
		Status:           domain.LoanActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// Derived fields must be valid before the record is considered
	// well-formed, so the recompute runs ahead of persistence.
	if err := loan.RecomputeDerivedTerms(); err != nil {
		logger.Warn("Rejected loan terms", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		logger.Error("Failed to save loan", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	logger.Info("Loan created successfully",
		slog.String("loan_id", loan.LoanID),
		slog.String("emi_amount", loan.EMIAmount.String()),
		slog.Int("tenure_months", loan.TenureMonths),
	)
	return &loan, nil
}

// getOwnedLoan fetches a loan and verifies it belongs to the requesting user.
// Loans owned by other users are reported as not found to obscure existence.
func (s *loanService) getOwnedLoan(ctx context.Context, loanID, requestingUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find loan by ID", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		}
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}

	if loan.UserID != requestingUserID {
		logger.Warn("Loan belongs to a different user", slog.String("loan_id", loanID), slog.String("owner_id", loan.UserID))
		return nil, apperrors.ErrNotFound
	}
	return loan, nil
}

// GetLoanByID returns the loan with schedule and payments. The status field
// is re-derived from the schedule and current date, never trusted as stored.
// Implements portssvc.LoanSvcFacade
func (s *loanService) GetLoanByID(ctx context.Context, loanID string, requestingUserID string) (*domain.Loan, error) {
	loan, err := s.getOwnedLoan(ctx, loanID, requestingUserID)
	if err != nil {
		return nil, err
	}

	loan.Status = loan.DeriveStatus(time.Now().UTC())
	return loan, nil
}

// ListLoans retrieves a paginated list of the user's loans (headers only).
// Implements portssvc.LoanSvcFacade
func (s *loanService) ListLoans(ctx context.Context, userID string, params dto.ListLoansParams) (*dto.ListLoansResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20 // Default limit
	}

	loans, nextToken, err := s.loanRepo.ListLoansByUser(ctx, userID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list loans from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve loans: %w", err)
	}

	// Listed loans are headers without schedule rows, so derivation would be
	// blind to overdue installments here. The stored status was derived from
	// the full schedule at write time and stands as-is.
	loanResponses := make([]dto.LoanResponse, len(loans))
	for i := range loans {
		loanResponses[i] = dto.ToLoanResponse(&loans[i])
	}

	logger.Info("Loans listed successfully", slog.Int("count", len(loans)))
	return &dto.ListLoansResponse{Loans: loanResponses, NextToken: nextToken}, nil
}

// UpdateLoanTerms modifies the loan terms and re-derives everything computed,
// discarding the prior schedule. Rejected once any payment exists.
// Implements portssvc.LoanSvcFacade
func (s *loanService) UpdateLoanTerms(ctx context.Context, loanID string, req dto.UpdateLoanTermsRequest, requestingUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.getOwnedLoan(ctx, loanID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if len(loan.Payments) > 0 {
		logger.Warn("Attempt to modify terms on a loan with recorded payments", slog.String("loan_id", loanID), slog.Int("payment_count", len(loan.Payments)))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrTermsLockedByPayments)
	}
	if loan.Status == domain.LoanPrepaid {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrLoanClosed)
	}

	updated := false
	if req.PrincipalAmount != nil {
		loan.PrincipalAmount = *req.PrincipalAmount
		updated = true
	}
	if req.InterestRate != nil {
		loan.InterestRate = *req.InterestRate
		updated = true
	}
	if req.TenureMonths != nil {
		loan.TenureMonths = *req.TenureMonths
		updated = true
	}
	if req.StartDate != nil {
		loan.StartDate = *req.StartDate
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for loan terms update", slog.String("loan_id", loanID))
		return loan, nil
	}

	if err := loan.RecomputeDerivedTerms(); err != nil {
		logger.Warn("Rejected modified loan terms", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	loan.Status = domain.LoanActive

	now := time.Now().UTC()
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = requestingUserID

	if err := s.loanRepo.ReplaceLoanAndSchedule(ctx, *loan); err != nil {
		logger.Error("Failed to save modified loan terms", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		return nil, fmt.Errorf("failed to save loan terms update: %w", err)
	}

	logger.Info("Loan terms updated successfully", slog.String("loan_id", loanID), slog.String("emi_amount", loan.EMIAmount.String()))
	return loan, nil
}

// RecordPayment applies a payment against one installment, appends it to the
// payment log and persists the updated running state atomically.
// Implements portssvc.LoanSvcFacade
func (s *loanService) RecordPayment(ctx context.Context, loanID string, req dto.RecordPaymentRequest, requestingUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.getOwnedLoan(ctx, loanID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if loan.Status == domain.LoanPrepaid {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrLoanClosed)
	}

	lateFee := decimal.Zero
	if req.LateFee != nil {
		lateFee = *req.LateFee
	}

	now := time.Now().UTC()
	payment := domain.PaymentRecord{
		PaymentID:     uuid.NewString(),
		LoanID:        loan.LoanID,
		EMINumber:     req.EMINumber,
		PaymentDate:   req.PaymentDate,
		Amount:        req.Amount,
		LateFee:       lateFee,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	installment, err := loan.ApplyPayment(payment)
	if err != nil {
		logger.Warn("Payment rejected", slog.String("error", err.Error()), slog.String("loan_id", loanID), slog.Int("emi_number", req.EMINumber))
		return nil, err
	}

	loan.Status = loan.DeriveStatus(now)
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = requestingUserID

	// ApplyPayment filled in the scheduled principal/interest portions.
	recorded := loan.Payments[len(loan.Payments)-1]
	if err := s.loanRepo.SavePayment(ctx, *loan, recorded, *installment); err != nil {
		logger.Error("Failed to save payment", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	logger.Info("Payment recorded successfully",
		slog.String("loan_id", loanID),
		slog.Int("emi_number", req.EMINumber),
		slog.String("amount", req.Amount.String()),
		slog.String("remaining_balance", loan.RemainingBalance.String()),
	)
	return loan, nil
}

// GetSchedule returns the loan's EMI schedule.
// Implements portssvc.LoanSvcFacade
func (s *loanService) GetSchedule(ctx context.Context, loanID string, requestingUserID string) ([]domain.Installment, error) {
	loan, err := s.getOwnedLoan(ctx, loanID, requestingUserID)
	if err != nil {
		return nil, err
	}
	return loan.Schedule, nil
}

// ListPayments returns the loan's payment log, oldest first.
// Implements portssvc.LoanSvcFacade
func (s *loanService) ListPayments(ctx context.Context, loanID string, requestingUserID string) ([]domain.PaymentRecord, error) {
	loan, err := s.getOwnedLoan(ctx, loanID, requestingUserID)
	if err != nil {
		return nil, err
	}
	return loan.Payments, nil
}

// RefreshStatus re-derives the loan status as of the given date, marking
// past-due installments overdue, and persists the result. Idempotent for a
// fixed asOf date.
// Implements portssvc.LoanSvcFacade
func (s *loanService) RefreshStatus(ctx context.Context, loanID string, asOf *time.Time, requestingUserID string) (domain.LoanStatus, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.getOwnedLoan(ctx, loanID, requestingUserID)
	if err != nil {
		return "", err
	}

	evalDate := time.Now().UTC()
	if asOf != nil {
		evalDate = *asOf
	}

	status := loan.RefreshStatus(evalDate)

	overdue := make([]domain.Installment, 0)
	for i := range loan.Schedule {
		if loan.Schedule[i].Status == domain.InstallmentOverdue {
			overdue = append(overdue, loan.Schedule[i])
		}
	}

	now := time.Now().UTC()
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = requestingUserID
	if err := s.loanRepo.UpdateLoanStatus(ctx, *loan, overdue, requestingUserID, now); err != nil {
		logger.Error("Failed to persist refreshed status", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		return "", fmt.Errorf("failed to persist refreshed status: %w", err)
	}

	logger.Info("Loan status refreshed", slog.String("loan_id", loanID), slog.String("status", string(status)), slog.Int("overdue_installments", len(overdue)))
	return status, nil
}

// CloseLoanEarly marks the loan prepaid. This is the explicit out-of-band
// close action; derivation never reaches PREPAID on its own.
// Implements portssvc.LoanSvcFacade
func (s *loanService) CloseLoanEarly(ctx context.Context, loanID string, requestingUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.getOwnedLoan(ctx, loanID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if loan.Status == domain.LoanPrepaid || loan.Status == domain.LoanCompleted {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrLoanClosed)
	}

	loan.MarkPrepaid()

	now := time.Now().UTC()
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = requestingUserID
	if err := s.loanRepo.UpdateLoanStatus(ctx, *loan, nil, requestingUserID, now); err != nil {
		logger.Error("Failed to close loan", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		return nil, fmt.Errorf("failed to close loan: %w", err)
	}

	logger.Info("Loan closed early", slog.String("loan_id", loanID))
	return loan, nil
}

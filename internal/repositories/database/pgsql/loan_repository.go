package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finmentor/loan_management_app/internal/apperrors"
	"github.com/finmentor/loan_management_app/internal/core/domain"
	portsrepo "github.com/finmentor/loan_management_app/internal/core/ports/repositories"
	"github.com/finmentor/loan_management_app/internal/models"
	"github.com/finmentor/loan_management_app/internal/utils/mapping"
	"github.com/finmentor/loan_management_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for loan, installment and payment data.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLoanRepository implements portsrepo.LoanRepositoryFacade
var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

const loanColumns = `
	loan_id, user_id, principal_amount, interest_rate, tenure_months, start_date,
	payment_frequency, emi_amount, total_amount, total_interest, end_date,
	remaining_balance, next_emi_date, next_emi_amount, total_paid, principal_paid,
	interest_paid, status, created_at, created_by, last_updated_at, last_updated_by`

func scanLoanRow(row pgx.Row) (*models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.UserID,
		&m.PrincipalAmount,
		&m.InterestRate,
		&m.TenureMonths,
		&m.StartDate,
		&m.PaymentFrequency,
		&m.EMIAmount,
		&m.TotalAmount,
		&m.TotalInterest,
		&m.EndDate,
		&m.RemainingBalance,
		&m.NextEMIDate,
		&m.NextEMIAmount,
		&m.TotalPaid,
		&m.PrincipalPaid,
		&m.InterestPaid,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveLoan persists a new loan together with its generated schedule in one transaction.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	modelLoan := mapping.ToModelLoan(loan)
	loanQuery := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err = tx.Exec(ctx, loanQuery,
		modelLoan.LoanID,
		modelLoan.UserID,
		modelLoan.PrincipalAmount,
		modelLoan.InterestRate,
		modelLoan.TenureMonths,
		modelLoan.StartDate,
		modelLoan.PaymentFrequency,
		modelLoan.EMIAmount,
		modelLoan.TotalAmount,
		modelLoan.TotalInterest,
		modelLoan.EndDate,
		modelLoan.RemainingBalance,
		modelLoan.NextEMIDate,
		modelLoan.NextEMIAmount,
		modelLoan.TotalPaid,
		modelLoan.PrincipalPaid,
		modelLoan.InterestPaid,
		modelLoan.Status,
		modelLoan.CreatedAt,
		modelLoan.CreatedBy,
		modelLoan.LastUpdatedAt,
		modelLoan.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert loan "+modelLoan.LoanID, err)
	}

	if err := insertInstallments(ctx, tx, loan.Schedule); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// insertInstallments bulk-inserts a schedule using a pgx batch.
func insertInstallments(ctx context.Context, tx pgx.Tx, schedule []domain.Installment) error {
	installmentQuery := `
		INSERT INTO loan_installments (
			loan_id, emi_number, due_date, principal_amount, interest_amount,
			emi_amount, remaining_balance, status, paid_date, paid_amount, late_fee
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for i := range schedule {
		m := mapping.ToModelInstallment(schedule[i])
		batch.Queue(installmentQuery,
			m.LoanID,
			m.EMINumber,
			m.DueDate,
			m.PrincipalAmount,
			m.InterestAmount,
			m.EMIAmount,
			m.RemainingBalance,
			m.Status,
			m.PaidDate,
			m.PaidAmount,
			m.LateFee,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range schedule {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert installment", err)
		}
	}
	return nil
}

// FindLoanByID retrieves a loan with its full schedule and payment log.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`

	modelLoan, err := scanLoanRow(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan by ID %s: %w", loanID, err)
	}

	loan := mapping.ToDomainLoan(*modelLoan)

	loan.Schedule, err = r.FindInstallmentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	loan.Payments, err = r.FindPaymentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListLoansByUser retrieves a keyset-paginated page of loan headers for a user,
// newest first. The returned token points at the next page, nil on the last one.
func (r *PgxLoanRepository) ListLoansByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Loan, *string, error) {
	args := []interface{}{userID}
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1`

	if nextToken != nil && *nextToken != "" {
		createdAt, loanID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, loan_id) < ($2, $3)`
		args = append(args, createdAt, loanID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, loan_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list loans for user %s: %w", userID, err)
	}
	defer rows.Close()

	loans := make([]domain.Loan, 0, limit)
	var lastCreatedAt time.Time
	var lastLoanID string
	for rows.Next() {
		modelLoan, err := scanLoanRow(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		if len(loans) == limit {
			// One extra row fetched: there is a next page.
			token := pagination.EncodeToken(lastCreatedAt, lastLoanID)
			return loans, &token, nil
		}
		loans = append(loans, mapping.ToDomainLoan(*modelLoan))
		lastCreatedAt = modelLoan.CreatedAt
		lastLoanID = modelLoan.LoanID
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate loan rows: %w", err)
	}
	return loans, nil, nil
}

// FindInstallmentsByLoanID retrieves the full EMI schedule, ordered by emi_number.
func (r *PgxLoanRepository) FindInstallmentsByLoanID(ctx context.Context, loanID string) ([]domain.Installment, error) {
	query := `
		SELECT loan_id, emi_number, due_date, principal_amount, interest_amount,
		       emi_amount, remaining_balance, status, paid_date, paid_amount, late_fee
		FROM loan_installments
		WHERE loan_id = $1
		ORDER BY emi_number ASC;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	installments := make([]models.Installment, 0)
	for rows.Next() {
		var m models.Installment
		err := rows.Scan(
			&m.LoanID,
			&m.EMINumber,
			&m.DueDate,
			&m.PrincipalAmount,
			&m.InterestAmount,
			&m.EMIAmount,
			&m.RemainingBalance,
			&m.Status,
			&m.PaidDate,
			&m.PaidAmount,
			&m.LateFee,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment row: %w", err)
		}
		installments = append(installments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installment rows: %w", err)
	}
	return mapping.ToDomainInstallmentSlice(installments), nil
}

// FindPaymentsByLoanID retrieves the payment log, oldest first.
func (r *PgxLoanRepository) FindPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.PaymentRecord, error) {
	query := `
		SELECT payment_id, loan_id, emi_number, payment_date, amount, principal_paid,
		       interest_paid, late_fee, payment_method, notes,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM loan_payments
		WHERE loan_id = $1
		ORDER BY created_at ASC, payment_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	payments := make([]models.PaymentRecord, 0)
	for rows.Next() {
		var m models.PaymentRecord
		err := rows.Scan(
			&m.PaymentID,
			&m.LoanID,
			&m.EMINumber,
			&m.PaymentDate,
			&m.Amount,
			&m.PrincipalPaid,
			&m.InterestPaid,
			&m.LateFee,
			&m.PaymentMethod,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment rows: %w", err)
	}
	return mapping.ToDomainPaymentRecordSlice(payments), nil
}

// ReplaceLoanAndSchedule updates the loan row and replaces its schedule
// wholesale. The loan row is locked first; the operation fails with
// apperrors.ErrConflict if any payment has been recorded.
func (r *PgxLoanRepository) ReplaceLoanAndSchedule(ctx context.Context, loan domain.Loan) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockLoanRow(ctx, tx, loan.LoanID); err != nil {
		return err
	}

	var paymentCount int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM loan_payments WHERE loan_id = $1;`, loan.LoanID).Scan(&paymentCount); err != nil {
		return apperrors.NewAppError(500, "failed to count payments for loan "+loan.LoanID, err)
	}
	if paymentCount > 0 {
		return fmt.Errorf("%w: loan %s has %d recorded payments", apperrors.ErrConflict, loan.LoanID, paymentCount)
	}

	modelLoan := mapping.ToModelLoan(loan)
	updateQuery := `
		UPDATE loans SET
			principal_amount = $2, interest_rate = $3, tenure_months = $4, start_date = $5,
			payment_frequency = $6, emi_amount = $7, total_amount = $8, total_interest = $9,
			end_date = $10, remaining_balance = $11, next_emi_date = $12, next_emi_amount = $13,
			total_paid = $14, principal_paid = $15, interest_paid = $16, status = $17,
			last_updated_at = $18, last_updated_by = $19
		WHERE loan_id = $1;
	`
	_, err = tx.Exec(ctx, updateQuery,
		modelLoan.LoanID,
		modelLoan.PrincipalAmount,
		modelLoan.InterestRate,
		modelLoan.TenureMonths,
		modelLoan.StartDate,
		modelLoan.PaymentFrequency,
		modelLoan.EMIAmount,
		modelLoan.TotalAmount,
		modelLoan.TotalInterest,
		modelLoan.EndDate,
		modelLoan.RemainingBalance,
		modelLoan.NextEMIDate,
		modelLoan.NextEMIAmount,
		modelLoan.TotalPaid,
		modelLoan.PrincipalPaid,
		modelLoan.InterestPaid,
		modelLoan.Status,
		modelLoan.LastUpdatedAt,
		modelLoan.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update loan "+modelLoan.LoanID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM loan_installments WHERE loan_id = $1;`, loan.LoanID); err != nil {
		return apperrors.NewAppError(500, "failed to clear schedule for loan "+loan.LoanID, err)
	}
	if err := insertInstallments(ctx, tx, loan.Schedule); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SavePayment appends a payment and updates the installment and loan rows
// atomically. The loan row lock serializes concurrent payments; the
// installment status is re-checked under the lock so a concurrent payment
// against the same installment fails with apperrors.ErrDuplicate.
func (r *PgxLoanRepository) SavePayment(ctx context.Context, loan domain.Loan, payment domain.PaymentRecord, installment domain.Installment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockLoanRow(ctx, tx, loan.LoanID); err != nil {
		return err
	}

	var currentStatus models.InstallmentStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM loan_installments WHERE loan_id = $1 AND emi_number = $2 FOR UPDATE;`,
		loan.LoanID, payment.EMINumber,
	).Scan(&currentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock installment", err)
	}
	if currentStatus == models.InstallmentPaid {
		return fmt.Errorf("%w: installment %d already paid", apperrors.ErrDuplicate, payment.EMINumber)
	}

	modelPayment := mapping.ToModelPaymentRecord(payment)
	paymentQuery := `
		INSERT INTO loan_payments (
			payment_id, loan_id, emi_number, payment_date, amount, principal_paid,
			interest_paid, late_fee, payment_method, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, paymentQuery,
		modelPayment.PaymentID,
		modelPayment.LoanID,
		modelPayment.EMINumber,
		modelPayment.PaymentDate,
		modelPayment.Amount,
		modelPayment.PrincipalPaid,
		modelPayment.InterestPaid,
		modelPayment.LateFee,
		modelPayment.PaymentMethod,
		modelPayment.Notes,
		modelPayment.CreatedAt,
		modelPayment.CreatedBy,
		modelPayment.LastUpdatedAt,
		modelPayment.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert payment "+modelPayment.PaymentID, err)
	}

	modelInstallment := mapping.ToModelInstallment(installment)
	installmentQuery := `
		UPDATE loan_installments SET
			status = $3, paid_date = $4, paid_amount = $5, late_fee = $6
		WHERE loan_id = $1 AND emi_number = $2;
	`
	_, err = tx.Exec(ctx, installmentQuery,
		modelInstallment.LoanID,
		modelInstallment.EMINumber,
		modelInstallment.Status,
		modelInstallment.PaidDate,
		modelInstallment.PaidAmount,
		modelInstallment.LateFee,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update installment", err)
	}

	modelLoan := mapping.ToModelLoan(loan)
	loanQuery := `
		UPDATE loans SET
			remaining_balance = $2, next_emi_date = $3, next_emi_amount = $4,
			total_paid = $5, principal_paid = $6, interest_paid = $7, status = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE loan_id = $1;
	`
	_, err = tx.Exec(ctx, loanQuery,
		modelLoan.LoanID,
		modelLoan.RemainingBalance,
		modelLoan.NextEMIDate,
		modelLoan.NextEMIAmount,
		modelLoan.TotalPaid,
		modelLoan.PrincipalPaid,
		modelLoan.InterestPaid,
		modelLoan.Status,
		modelLoan.LastUpdatedAt,
		modelLoan.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update loan running state "+modelLoan.LoanID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateLoanStatus persists a refreshed status plus any installments flipped
// to overdue by the sweep.
func (r *PgxLoanRepository) UpdateLoanStatus(ctx context.Context, loan domain.Loan, overdue []domain.Installment, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockLoanRow(ctx, tx, loan.LoanID); err != nil {
		return err
	}

	modelLoan := mapping.ToModelLoan(loan)
	loanQuery := `
		UPDATE loans SET
			status = $2, remaining_balance = $3, next_emi_date = $4, next_emi_amount = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE loan_id = $1;
	`
	_, err = tx.Exec(ctx, loanQuery,
		modelLoan.LoanID,
		modelLoan.Status,
		modelLoan.RemainingBalance,
		modelLoan.NextEMIDate,
		modelLoan.NextEMIAmount,
		updatedAt,
		updatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update loan status "+modelLoan.LoanID, err)
	}

	for i := range overdue {
		_, err = tx.Exec(ctx,
			`UPDATE loan_installments SET status = $3 WHERE loan_id = $1 AND emi_number = $2;`,
			overdue[i].LoanID, overdue[i].EMINumber, models.InstallmentOverdue,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark installment overdue", err)
		}
	}

	return r.Commit(ctx, tx)
}

// lockLoanRow takes a row-level lock on the loan, serializing concurrent
// writers against the same aggregate.
func lockLoanRow(ctx context.Context, tx pgx.Tx, loanID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT loan_id FROM loans WHERE loan_id = $1 FOR UPDATE;`, loanID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock loan row "+loanID, err)
	}
	return nil
}

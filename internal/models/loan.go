package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus mirrors domain.LoanStatus at the persistence layer.
type LoanStatus string

const (
	LoanActive    LoanStatus = "ACTIVE"
	LoanCompleted LoanStatus = "COMPLETED"
	LoanDefaulted LoanStatus = "DEFAULTED"
	LoanPrepaid   LoanStatus = "PREPAID"
)

// InstallmentStatus mirrors domain.InstallmentStatus at the persistence layer.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
	InstallmentOverdue InstallmentStatus = "OVERDUE"
)

// Loan is the loans table row.
type Loan struct {
	LoanID           string          `db:"loan_id"`
	UserID           string          `db:"user_id"`
	PrincipalAmount  decimal.Decimal `db:"principal_amount"`
	InterestRate     decimal.Decimal `db:"interest_rate"`
	TenureMonths     int             `db:"tenure_months"`
	StartDate        time.Time       `db:"start_date"`
	PaymentFrequency string          `db:"payment_frequency"`
	EMIAmount        decimal.Decimal `db:"emi_amount"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	TotalInterest    decimal.Decimal `db:"total_interest"`
	EndDate          time.Time       `db:"end_date"`
	RemainingBalance decimal.Decimal `db:"remaining_balance"`
	NextEMIDate      *time.Time      `db:"next_emi_date"`
	NextEMIAmount    decimal.Decimal `db:"next_emi_amount"`
	TotalPaid        decimal.Decimal `db:"total_paid"`
	PrincipalPaid    decimal.Decimal `db:"principal_paid"`
	InterestPaid     decimal.Decimal `db:"interest_paid"`
	Status           LoanStatus      `db:"status"`
	AuditFields
}

// Installment is the loan_installments table row, keyed by (loan_id, emi_number).
type Installment struct {
	LoanID           string            `db:"loan_id"`
	EMINumber        int               `db:"emi_number"`
	DueDate          time.Time         `db:"due_date"`
	PrincipalAmount  decimal.Decimal   `db:"principal_amount"`
	InterestAmount   decimal.Decimal   `db:"interest_amount"`
	EMIAmount        decimal.Decimal   `db:"emi_amount"`
	RemainingBalance decimal.Decimal   `db:"remaining_balance"`
	Status           InstallmentStatus `db:"status"`
	PaidDate         *time.Time        `db:"paid_date"`
	PaidAmount       decimal.Decimal   `db:"paid_amount"`
	LateFee          decimal.Decimal   `db:"late_fee"`
}

// PaymentRecord is the loan_payments table row. Append-only.
type PaymentRecord struct {
	PaymentID     string          `db:"payment_id"`
	LoanID        string          `db:"loan_id"`
	EMINumber     int             `db:"emi_number"`
	PaymentDate   time.Time       `db:"payment_date"`
	Amount        decimal.Decimal `db:"amount"`
	PrincipalPaid decimal.Decimal `db:"principal_paid"`
	InterestPaid  decimal.Decimal `db:"interest_paid"`
	LateFee       decimal.Decimal `db:"late_fee"`
	PaymentMethod string          `db:"payment_method"`
	Notes         string          `db:"notes"`
	AuditFields
}

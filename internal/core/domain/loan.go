package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus indicates the overall state of a loan.
type LoanStatus string

const (
	LoanActive    LoanStatus = "ACTIVE"
	LoanCompleted LoanStatus = "COMPLETED"
	LoanDefaulted LoanStatus = "DEFAULTED"
	LoanPrepaid   LoanStatus = "PREPAID"
)

// InstallmentStatus indicates the state of a single scheduled installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
	InstallmentOverdue InstallmentStatus = "OVERDUE"
)

// PaymentFrequency is carried as loan metadata. Schedule math is always
// monthly; other frequencies are passed through untouched.
type PaymentFrequency string

const (
	FrequencyMonthly   PaymentFrequency = "MONTHLY"
	FrequencyQuarterly PaymentFrequency = "QUARTERLY"
	FrequencyYearly    PaymentFrequency = "YEARLY"
)

// Loan is the aggregate root: user-supplied terms plus derived amortization
// fields, the full EMI schedule and the append-only payment log.
type Loan struct {
	LoanID string `json:"loanID"` // Primary Key (e.g., UUID)
	UserID string `json:"userID"` // FK -> users.user_id, owning user

	// Terms. Only mutable through UpdateLoanTerms, which re-derives everything below.
	PrincipalAmount  decimal.Decimal  `json:"principalAmount"`
	InterestRate     decimal.Decimal  `json:"interestRate"` // annual percentage, 0-100
	TenureMonths     int              `json:"tenureMonths"`
	StartDate        time.Time        `json:"startDate"`
	PaymentFrequency PaymentFrequency `json:"paymentFrequency"`

	// Derived terms, recomputed whenever principal, rate or tenure change.
	EMIAmount        decimal.Decimal `json:"emiAmount"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	TotalInterest    decimal.Decimal `json:"totalInterest"`
	EndDate          time.Time       `json:"endDate"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	NextEMIDate      *time.Time      `json:"nextEmiDate,omitempty"` // nil once every installment is paid
	NextEMIAmount    decimal.Decimal `json:"nextEmiAmount"`

	// Running totals accumulated from the payment log.
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	PrincipalPaid decimal.Decimal `json:"principalPaid"`
	InterestPaid  decimal.Decimal `json:"interestPaid"`

	Status   LoanStatus      `json:"status"`
	Schedule []Installment   `json:"emiSchedule,omitempty"`
	Payments []PaymentRecord `json:"payments,omitempty"`
	AuditFields
}

// Installment is one row of the amortization schedule, indexed by EMINumber (1-based).
type Installment struct {
	LoanID           string            `json:"loanID"`
	EMINumber        int               `json:"emiNumber"`
	DueDate          time.Time         `json:"dueDate"`
	PrincipalAmount  decimal.Decimal   `json:"principalAmount"`
	InterestAmount   decimal.Decimal   `json:"interestAmount"`
	EMIAmount        decimal.Decimal   `json:"emiAmount"`
	RemainingBalance decimal.Decimal   `json:"remainingBalance"` // balance after this installment
	Status           InstallmentStatus `json:"status"`
	PaidDate         *time.Time        `json:"paidDate,omitempty"`
	PaidAmount       decimal.Decimal   `json:"paidAmount"`
	LateFee          decimal.Decimal   `json:"lateFee"`
}

// PaymentRecord is one entry in the append-only payment log.
type PaymentRecord struct {
	PaymentID     string          `json:"paymentID"` // Primary Key (e.g., UUID)
	LoanID        string          `json:"loanID"`
	EMINumber     int             `json:"emiNumber"` // the installment this payment satisfies
	PaymentDate   time.Time       `json:"paymentDate"`
	Amount        decimal.Decimal `json:"amount"`
	PrincipalPaid decimal.Decimal `json:"principalPaid"` // scheduled principal portion
	InterestPaid  decimal.Decimal `json:"interestPaid"`  // scheduled interest portion
	LateFee       decimal.Decimal `json:"lateFee"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes"`
	AuditFields
}

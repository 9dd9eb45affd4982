package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Engine errors. Services wrap these with the generic apperrors sentinels
// where a transport-level classification is needed.
var (
	ErrInvalidLoanTerms    = errors.New("invalid loan terms")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrDuplicatePayment    = errors.New("installment already paid")
)

// Tenure bounds enforced on every recompute.
const (
	MinTenureMonths = 1
	MaxTenureMonths = 600
)

var (
	one          = decimal.NewFromInt(1)
	maxRate      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// Monetary values are whole currency units. Each stored amount is rounded
// half away from zero to zero decimal places.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// monthlyRate converts an annual percentage rate to a monthly decimal rate.
func monthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(maxRate).Div(monthsInYear)
}

// ValidateLoanTerms checks the user-supplied terms against the engine's bounds.
func ValidateLoanTerms(principal, annualRatePercent decimal.Decimal, tenureMonths int) error {
	if principal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: principal must be positive, got %s", ErrInvalidLoanTerms, principal)
	}
	if annualRatePercent.IsNegative() {
		return fmt.Errorf("%w: interest rate must not be negative, got %s", ErrInvalidLoanTerms, annualRatePercent)
	}
	if annualRatePercent.GreaterThan(maxRate) {
		return fmt.Errorf("%w: interest rate must not exceed 100, got %s", ErrInvalidLoanTerms, annualRatePercent)
	}
	if tenureMonths < MinTenureMonths || tenureMonths > MaxTenureMonths {
		return fmt.Errorf("%w: tenure must be between %d and %d months, got %d", ErrInvalidLoanTerms, MinTenureMonths, MaxTenureMonths, tenureMonths)
	}
	return nil
}

// CalculateEMI returns the fixed monthly installment for the given terms,
// rounded to a whole currency unit.
//
// The zero-rate case is a straight-line split of the principal. Otherwise the
// standard annuity formula applies:
//
//	emi = P * r * (1+r)^n / ((1+r)^n - 1)
func CalculateEMI(principal, annualRatePercent decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if err := ValidateLoanTerms(principal, annualRatePercent, tenureMonths); err != nil {
		return decimal.Zero, err
	}

	months := decimal.NewFromInt(int64(tenureMonths))
	r := monthlyRate(annualRatePercent)
	if r.IsZero() {
		return roundMoney(principal.Div(months)), nil
	}

	compounded := one.Add(r).Pow(months)
	emi := principal.Mul(r).Mul(compounded).Div(compounded.Sub(one))
	return roundMoney(emi), nil
}

// GenerateSchedule produces exactly tenureMonths installments for the given
// terms and precomputed EMI. The loop is inherently sequential: each period's
// interest is charged on the previous period's closing balance.
//
// Because every period rounds independently there is no terminal true-up; the
// final remaining balance may carry a small residual, clamped at zero.
func GenerateSchedule(loanID string, principal, annualRatePercent decimal.Decimal, tenureMonths int, startDate time.Time, emiAmount decimal.Decimal) []Installment {
	r := monthlyRate(annualRatePercent)
	balance := principal

	schedule := make([]Installment, 0, tenureMonths)
	for i := 1; i <= tenureMonths; i++ {
		interest := roundMoney(balance.Mul(r))
		principalPart := emiAmount.Sub(interest)
		balance = balance.Sub(principalPart)
		if balance.IsNegative() {
			balance = decimal.Zero
		}

		schedule = append(schedule, Installment{
			LoanID:           loanID,
			EMINumber:        i,
			DueDate:          startDate.AddDate(0, i, 0),
			PrincipalAmount:  roundMoney(principalPart),
			InterestAmount:   interest,
			EMIAmount:        emiAmount,
			RemainingBalance: roundMoney(balance),
			Status:           InstallmentPending,
			PaidAmount:       decimal.Zero,
			LateFee:          decimal.Zero,
		})
	}
	return schedule
}

// RecomputeDerivedTerms re-derives every computed field from the current
// terms and regenerates the schedule from scratch. It runs on creation and on
// any term modification, before the record is considered well-formed.
// Callers must not invoke it once payments exist.
func (l *Loan) RecomputeDerivedTerms() error {
	emi, err := CalculateEMI(l.PrincipalAmount, l.InterestRate, l.TenureMonths)
	if err != nil {
		return err
	}

	l.EMIAmount = emi
	l.TotalAmount = emi.Mul(decimal.NewFromInt(int64(l.TenureMonths)))
	l.TotalInterest = l.TotalAmount.Sub(l.PrincipalAmount)
	l.EndDate = l.StartDate.AddDate(0, l.TenureMonths, 0)
	l.RemainingBalance = l.PrincipalAmount

	firstDue := l.StartDate.AddDate(0, 1, 0)
	l.NextEMIDate = &firstDue
	l.NextEMIAmount = emi

	l.TotalPaid = decimal.Zero
	l.PrincipalPaid = decimal.Zero
	l.InterestPaid = decimal.Zero

	l.Schedule = GenerateSchedule(l.LoanID, l.PrincipalAmount, l.InterestRate, l.TenureMonths, l.StartDate, emi)
	return nil
}

// ApplyPayment records a payment against a specific installment. The payment
// is treated as an acknowledgment of the precomputed schedule: the loan's
// remaining balance snaps to the installment's scheduled closing balance and
// the principal/interest running totals accrue the scheduled portions, so a
// partial or extra amount never perturbs the amortization curve.
//
// The filled-in payment record is appended to the loan's log and the updated
// installment is returned.
func (l *Loan) ApplyPayment(payment PaymentRecord) (*Installment, error) {
	if payment.EMINumber < 1 || payment.EMINumber > len(l.Schedule) {
		return nil, fmt.Errorf("%w: emiNumber %d outside 1..%d", ErrInstallmentNotFound, payment.EMINumber, len(l.Schedule))
	}

	inst := &l.Schedule[payment.EMINumber-1]
	if inst.Status == InstallmentPaid {
		return nil, fmt.Errorf("%w: emiNumber %d", ErrDuplicatePayment, payment.EMINumber)
	}

	paidDate := payment.PaymentDate
	inst.Status = InstallmentPaid
	inst.PaidDate = &paidDate
	inst.PaidAmount = payment.Amount
	inst.LateFee = payment.LateFee

	payment.LoanID = l.LoanID
	payment.PrincipalPaid = inst.PrincipalAmount
	payment.InterestPaid = inst.InterestAmount

	l.TotalPaid = l.TotalPaid.Add(payment.Amount)
	l.PrincipalPaid = l.PrincipalPaid.Add(inst.PrincipalAmount)
	l.InterestPaid = l.InterestPaid.Add(inst.InterestAmount)
	l.RemainingBalance = inst.RemainingBalance
	l.Payments = append(l.Payments, payment)

	l.advanceNextEMI()
	return inst, nil
}

// advanceNextEMI points NextEMIDate/NextEMIAmount at the earliest unpaid
// installment, clearing them once the schedule is fully paid.
func (l *Loan) advanceNextEMI() {
	for i := range l.Schedule {
		if l.Schedule[i].Status != InstallmentPaid {
			due := l.Schedule[i].DueDate
			l.NextEMIDate = &due
			l.NextEMIAmount = l.Schedule[i].EMIAmount
			return
		}
	}
	l.NextEMIDate = nil
	l.NextEMIAmount = decimal.Zero
}

// DeriveStatus computes the loan status as a pure function of the remaining
// balance, the schedule and the given date. Prepaid is terminal and is never
// reclassified.
func (l *Loan) DeriveStatus(asOf time.Time) LoanStatus {
	if l.Status == LoanPrepaid {
		return LoanPrepaid
	}
	if l.RemainingBalance.LessThanOrEqual(decimal.Zero) {
		return LoanCompleted
	}
	for i := range l.Schedule {
		inst := &l.Schedule[i]
		if inst.Status != InstallmentPaid && inst.DueDate.Before(asOf) {
			return LoanDefaulted
		}
	}
	return LoanActive
}

// RefreshStatus marks past-due pending installments as overdue and re-derives
// the loan status. It is idempotent for a fixed asOf date.
func (l *Loan) RefreshStatus(asOf time.Time) LoanStatus {
	for i := range l.Schedule {
		inst := &l.Schedule[i]
		if inst.Status == InstallmentPending && inst.DueDate.Before(asOf) {
			inst.Status = InstallmentOverdue
		}
	}
	l.Status = l.DeriveStatus(asOf)
	return l.Status
}

// MarkPrepaid closes the loan early. This is the explicit out-of-band action;
// status derivation never produces PREPAID on its own.
func (l *Loan) MarkPrepaid() {
	l.Status = LoanPrepaid
	l.RemainingBalance = decimal.Zero
	l.NextEMIDate = nil
	l.NextEMIAmount = decimal.Zero
}

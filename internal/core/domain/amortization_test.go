package domain_test

import (
	"testing"
	"time"

	"github.com/finmentor/loan_management_app/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(value int64) decimal.Decimal {
	return decimal.NewFromInt(value)
}

func newTestLoan(t *testing.T, principal, rate int64, tenure int, start time.Time) *domain.Loan {
	t.Helper()
	loan := &domain.Loan{
		LoanID:           uuid.NewString(),
		UserID:           uuid.NewString(),
		PrincipalAmount:  d(principal),
		InterestRate:     d(rate),
		TenureMonths:     tenure,
		StartDate:        start,
		PaymentFrequency: domain.FrequencyMonthly,
		Status:           domain.LoanActive,
	}
	require.NoError(t, loan.RecomputeDerivedTerms())
	return loan
}

func paymentFor(loan *domain.Loan, emiNumber int, paidOn time.Time) domain.PaymentRecord {
	return domain.PaymentRecord{
		PaymentID:   uuid.NewString(),
		LoanID:      loan.LoanID,
		EMINumber:   emiNumber,
		PaymentDate: paidOn,
		Amount:      loan.EMIAmount,
		LateFee:     decimal.Zero,
	}
}

func TestCalculateEMI(t *testing.T) {
	tests := []struct {
		name      string
		principal int64
		rate      int64
		tenure    int
		expected  int64
	}{
		{"standard annuity", 100000, 12, 12, 8885},
		{"zero rate straight line", 10000, 0, 10, 1000},
		{"two year loan", 500000, 10, 24, 23072},
		{"single installment", 1200, 0, 1, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emi, err := domain.CalculateEMI(d(tt.principal), d(tt.rate), tt.tenure)
			require.NoError(t, err)
			assert.True(t, emi.Equal(d(tt.expected)), "expected %d, got %s", tt.expected, emi)
		})
	}
}

func TestCalculateEMI_InvalidTerms(t *testing.T) {
	tests := []struct {
		name      string
		principal int64
		rate      int64
		tenure    int
	}{
		{"zero principal", 0, 12, 12},
		{"negative principal", -5000, 12, 12},
		{"negative rate", 10000, -1, 12},
		{"rate above hundred", 10000, 101, 12},
		{"zero tenure", 10000, 12, 0},
		{"tenure above bound", 10000, 12, 601},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.CalculateEMI(d(tt.principal), d(tt.rate), tt.tenure)
			assert.ErrorIs(t, err, domain.ErrInvalidLoanTerms)
		})
	}
}

func TestGenerateSchedule_Shape(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 100000, 12, 12, start)

	require.Len(t, loan.Schedule, 12)

	for i, inst := range loan.Schedule {
		assert.Equal(t, i+1, inst.EMINumber)
		assert.Equal(t, start.AddDate(0, i+1, 0), inst.DueDate)
		assert.Equal(t, domain.InstallmentPending, inst.Status)
		assert.True(t, inst.EMIAmount.Equal(loan.EMIAmount))
	}

	// First period interest is charged on the full principal: 100000 * 1% = 1000.
	first := loan.Schedule[0]
	assert.True(t, first.InterestAmount.Equal(d(1000)), "got %s", first.InterestAmount)
	assert.True(t, first.PrincipalAmount.Equal(d(7885)), "got %s", first.PrincipalAmount)
	assert.True(t, first.RemainingBalance.Equal(d(92115)), "got %s", first.RemainingBalance)
}

func TestGenerateSchedule_BalanceStrictlyDecreasing(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 500000, 10, 24, start)

	prev := loan.PrincipalAmount
	for _, inst := range loan.Schedule {
		assert.True(t, inst.RemainingBalance.LessThan(prev),
			"balance must decrease: %s not < %s at emi %d", inst.RemainingBalance, prev, inst.EMINumber)
		prev = inst.RemainingBalance
	}
}

func TestGenerateSchedule_ResidualWithinTolerance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 500000, 10, 24, start)

	// Per-period rounding leaves a small residual on the final installment,
	// bounded by one unit per period.
	final := loan.Schedule[len(loan.Schedule)-1].RemainingBalance
	assert.True(t, final.GreaterThanOrEqual(decimal.Zero), "got %s", final)
	assert.True(t, final.LessThanOrEqual(d(24)), "residual too large: %s", final)
}

func TestGenerateSchedule_ZeroRate(t *testing.T) {
	start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 10000, 0, 10, start)

	require.Len(t, loan.Schedule, 10)
	for _, inst := range loan.Schedule {
		assert.True(t, inst.InterestAmount.IsZero())
		assert.True(t, inst.PrincipalAmount.Equal(d(1000)))
	}
	assert.True(t, loan.Schedule[9].RemainingBalance.IsZero())
}

func TestRecomputeDerivedTerms(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 500000, 10, 24, start)

	assert.True(t, loan.EMIAmount.Equal(d(23072)))
	assert.True(t, loan.TotalAmount.Equal(d(23072*24)))
	assert.True(t, loan.TotalInterest.Equal(d(23072*24-500000)))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), loan.EndDate)
	assert.True(t, loan.RemainingBalance.Equal(d(500000)))

	require.NotNil(t, loan.NextEMIDate)
	assert.Equal(t, start.AddDate(0, 1, 0), *loan.NextEMIDate)
	assert.True(t, loan.NextEMIAmount.Equal(loan.EMIAmount))

	assert.True(t, loan.TotalPaid.IsZero())
	assert.True(t, loan.PrincipalPaid.IsZero())
	assert.True(t, loan.InterestPaid.IsZero())
}

func TestRecomputeDerivedTerms_ResetsAfterTermChange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 100000, 12, 12, start)
	originalEMI := loan.EMIAmount

	loan.TenureMonths = 24
	require.NoError(t, loan.RecomputeDerivedTerms())

	assert.Len(t, loan.Schedule, 24)
	assert.True(t, loan.EMIAmount.LessThan(originalEMI), "longer tenure lowers the EMI")
	assert.Equal(t, start.AddDate(0, 24, 0), loan.EndDate)
}

func TestApplyPayment_Success(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 100000, 12, 12, start)
	paidOn := start.AddDate(0, 1, 0)

	inst, err := loan.ApplyPayment(paymentFor(loan, 1, paidOn))
	require.NoError(t, err)

	assert.Equal(t, domain.InstallmentPaid, inst.Status)
	require.NotNil(t, inst.PaidDate)
	assert.Equal(t, paidOn, *inst.PaidDate)
	assert.True(t, inst.PaidAmount.Equal(loan.EMIAmount))

	// Balance snaps to the installment's scheduled closing balance.
	assert.True(t, loan.RemainingBalance.Equal(inst.RemainingBalance))
	assert.True(t, loan.TotalPaid.Equal(loan.EMIAmount))
	assert.True(t, loan.PrincipalPaid.Equal(inst.PrincipalAmount))
	assert.True(t, loan.InterestPaid.Equal(inst.InterestAmount))

	require.Len(t, loan.Payments, 1)
	recorded := loan.Payments[0]
	assert.True(t, recorded.PrincipalPaid.Equal(inst.PrincipalAmount))
	assert.True(t, recorded.InterestPaid.Equal(inst.InterestAmount))

	// Next EMI advances to installment 2.
	require.NotNil(t, loan.NextEMIDate)
	assert.Equal(t, loan.Schedule[1].DueDate, *loan.NextEMIDate)
}

func TestApplyPayment_Duplicate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 100000, 12, 12, start)
	paidOn := start.AddDate(0, 1, 0)

	_, err := loan.ApplyPayment(paymentFor(loan, 3, paidOn))
	require.NoError(t, err)

	_, err = loan.ApplyPayment(paymentFor(loan, 3, paidOn))
	assert.ErrorIs(t, err, domain.ErrDuplicatePayment)
	assert.Len(t, loan.Payments, 1)
}

func TestApplyPayment_InstallmentOutOfRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 100000, 12, 12, start)
	paidOn := start.AddDate(0, 1, 0)

	_, err := loan.ApplyPayment(paymentFor(loan, 0, paidOn))
	assert.ErrorIs(t, err, domain.ErrInstallmentNotFound)

	_, err = loan.ApplyPayment(paymentFor(loan, 13, paidOn))
	assert.ErrorIs(t, err, domain.ErrInstallmentNotFound)
}

func TestApplyPayment_PartialAmountKeepsScheduledPortions(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 100000, 12, 12, start)
	paidOn := start.AddDate(0, 1, 0)

	payment := paymentFor(loan, 1, paidOn)
	payment.Amount = d(5000) // less than the EMI

	inst, err := loan.ApplyPayment(payment)
	require.NoError(t, err)

	// The schedule is acknowledged, not re-amortized: the scheduled portions
	// accrue regardless of the actual amount.
	assert.True(t, loan.TotalPaid.Equal(d(5000)))
	assert.True(t, loan.PrincipalPaid.Equal(inst.PrincipalAmount))
	assert.True(t, loan.RemainingBalance.Equal(inst.RemainingBalance))
}

func TestApplyPayment_FullScheduleCompletesLoan(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 10000, 0, 10, start)

	for i := 1; i <= 10; i++ {
		_, err := loan.ApplyPayment(paymentFor(loan, i, start.AddDate(0, i, 0)))
		require.NoError(t, err)
	}

	assert.True(t, loan.RemainingBalance.IsZero())
	assert.Nil(t, loan.NextEMIDate)
	assert.True(t, loan.NextEMIAmount.IsZero())
	assert.Equal(t, domain.LoanCompleted, loan.DeriveStatus(start.AddDate(0, 11, 0)))
}

func TestDeriveStatus(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("active before first due date", func(t *testing.T) {
		loan := newTestLoan(t, 100000, 12, 12, start)
		assert.Equal(t, domain.LoanActive, loan.DeriveStatus(start.AddDate(0, 0, 15)))
	})

	t.Run("defaulted once an unpaid installment is past due", func(t *testing.T) {
		loan := newTestLoan(t, 100000, 12, 12, start)
		assert.Equal(t, domain.LoanDefaulted, loan.DeriveStatus(start.AddDate(0, 1, 1)))
	})

	t.Run("not defaulted exactly on the due date", func(t *testing.T) {
		loan := newTestLoan(t, 100000, 12, 12, start)
		assert.Equal(t, domain.LoanActive, loan.DeriveStatus(start.AddDate(0, 1, 0)))
	})

	t.Run("completed overrides overdue installments", func(t *testing.T) {
		loan := newTestLoan(t, 10000, 0, 10, start)
		for i := 1; i <= 10; i++ {
			_, err := loan.ApplyPayment(paymentFor(loan, i, start.AddDate(0, i, 0)))
			require.NoError(t, err)
		}
		// Way past every due date, but the balance is cleared.
		assert.Equal(t, domain.LoanCompleted, loan.DeriveStatus(start.AddDate(2, 0, 0)))
	})

	t.Run("prepaid is terminal", func(t *testing.T) {
		loan := newTestLoan(t, 100000, 12, 12, start)
		loan.MarkPrepaid()
		assert.Equal(t, domain.LoanPrepaid, loan.DeriveStatus(start.AddDate(0, 6, 0)))
	})
}

func TestRefreshStatus(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 100000, 12, 12, start)

	asOf := start.AddDate(0, 3, 1) // three installments past due
	status := loan.RefreshStatus(asOf)

	assert.Equal(t, domain.LoanDefaulted, status)
	assert.Equal(t, domain.InstallmentOverdue, loan.Schedule[0].Status)
	assert.Equal(t, domain.InstallmentOverdue, loan.Schedule[1].Status)
	assert.Equal(t, domain.InstallmentOverdue, loan.Schedule[2].Status)
	assert.Equal(t, domain.InstallmentPending, loan.Schedule[3].Status)
}

func TestRefreshStatus_Idempotent(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 100000, 12, 12, start)
	asOf := start.AddDate(0, 2, 5)

	first := loan.RefreshStatus(asOf)
	second := loan.RefreshStatus(asOf)

	assert.Equal(t, first, second)
	assert.Equal(t, domain.LoanDefaulted, second)
}

func TestRefreshStatus_OverdueStillTriggersDefault(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 100000, 12, 12, start)

	asOf := start.AddDate(0, 1, 10)
	loan.RefreshStatus(asOf)
	require.Equal(t, domain.InstallmentOverdue, loan.Schedule[0].Status)

	// A later refresh keeps classifying already-overdue installments as a
	// default trigger.
	assert.Equal(t, domain.LoanDefaulted, loan.RefreshStatus(asOf.AddDate(0, 0, 1)))
}

func TestMarkPrepaid(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 100000, 12, 12, start)

	loan.MarkPrepaid()

	assert.Equal(t, domain.LoanPrepaid, loan.Status)
	assert.True(t, loan.RemainingBalance.IsZero())
	assert.Nil(t, loan.NextEMIDate)
	assert.True(t, loan.NextEMIAmount.IsZero())
}

func TestLoanLifecycle_EndToEnd(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 500000, 10, 24, start)

	require.True(t, loan.EMIAmount.Equal(d(23072)))
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), loan.EndDate)

	// Pay the first six installments on time.
	for i := 1; i <= 6; i++ {
		_, err := loan.ApplyPayment(paymentFor(loan, i, start.AddDate(0, i, 0)))
		require.NoError(t, err)
	}

	assert.Equal(t, domain.LoanActive, loan.DeriveStatus(start.AddDate(0, 6, 15)))
	assert.True(t, loan.RemainingBalance.Equal(loan.Schedule[5].RemainingBalance))
	assert.True(t, loan.TotalPaid.Equal(d(23072*6)))

	// Skip month seven; the loan defaults once it is past due.
	assert.Equal(t, domain.LoanDefaulted, loan.RefreshStatus(start.AddDate(0, 7, 1)))
	assert.Equal(t, domain.InstallmentOverdue, loan.Schedule[6].Status)

	// Catching up on the overdue installment restores the loan.
	_, err := loan.ApplyPayment(paymentFor(loan, 7, start.AddDate(0, 7, 3)))
	require.NoError(t, err)
	assert.Equal(t, domain.LoanActive, loan.RefreshStatus(start.AddDate(0, 7, 4)))
}

package dto

import (
	"time"

	"github.com/finmentor/loan_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest carries the user-supplied loan terms.
type CreateLoanRequest struct {
	PrincipalAmount  decimal.Decimal          `json:"principalAmount" binding:"required"`
	InterestRate     decimal.Decimal          `json:"interestRate"` // annual percentage, 0-100
	TenureMonths     int                      `json:"tenureMonths" binding:"required,min=1,max=600"`
	StartDate        time.Time                `json:"startDate" binding:"required"`
	PaymentFrequency *domain.PaymentFrequency `json:"paymentFrequency,omitempty" binding:"omitempty,oneof=MONTHLY QUARTERLY YEARLY"`
}

// UpdateLoanTermsRequest modifies loan terms. Nil fields are left unchanged.
type UpdateLoanTermsRequest struct {
	PrincipalAmount *decimal.Decimal `json:"principalAmount,omitempty"`
	InterestRate    *decimal.Decimal `json:"interestRate,omitempty"`
	TenureMonths    *int             `json:"tenureMonths,omitempty" binding:"omitempty,min=1,max=600"`
	StartDate       *time.Time       `json:"startDate,omitempty"`
}

// RecordPaymentRequest applies a payment against one installment.
type RecordPaymentRequest struct {
	EMINumber     int              `json:"emiNumber" binding:"required,min=1"`
	Amount        decimal.Decimal  `json:"amount" binding:"required"`
	PaymentDate   time.Time        `json:"paymentDate" binding:"required"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	LateFee       *decimal.Decimal `json:"lateFee,omitempty"`
}

// RefreshStatusRequest optionally pins the evaluation date.
type RefreshStatusRequest struct {
	AsOfDate *time.Time `json:"asOfDate,omitempty"`
}

// ListLoansParams holds query parameters for listing loans.
type ListLoansParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// InstallmentResponse is one row of the amortization schedule.
type InstallmentResponse struct {
	EMINumber        int             `json:"emiNumber"`
	DueDate          time.Time       `json:"dueDate"`
	PrincipalAmount  decimal.Decimal `json:"principalAmount"`
	InterestAmount   decimal.Decimal `json:"interestAmount"`
	EMIAmount        decimal.Decimal `json:"emiAmount"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	Status           string          `json:"status"`
	PaidDate         *time.Time      `json:"paidDate,omitempty"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	LateFee          decimal.Decimal `json:"lateFee"`
}

// PaymentResponse is one entry of the payment log.
type PaymentResponse struct {
	PaymentID     string          `json:"paymentID"`
	EMINumber     int             `json:"emiNumber"`
	PaymentDate   time.Time       `json:"paymentDate"`
	Amount        decimal.Decimal `json:"amount"`
	PrincipalPaid decimal.Decimal `json:"principalPaid"`
	InterestPaid  decimal.Decimal `json:"interestPaid"`
	LateFee       decimal.Decimal `json:"lateFee"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// LoanResponse is the full loan view returned by create/get/update.
type LoanResponse struct {
	LoanID           string                `json:"loanID"`
	PrincipalAmount  decimal.Decimal       `json:"principalAmount"`
	InterestRate     decimal.Decimal       `json:"interestRate"`
	TenureMonths     int                   `json:"tenureMonths"`
	StartDate        time.Time             `json:"startDate"`
	PaymentFrequency string                `json:"paymentFrequency"`
	EMIAmount        decimal.Decimal       `json:"emiAmount"`
	TotalAmount      decimal.Decimal       `json:"totalAmount"`
	TotalInterest    decimal.Decimal       `json:"totalInterest"`
	EndDate          time.Time             `json:"endDate"`
	RemainingBalance decimal.Decimal       `json:"remainingBalance"`
	NextEMIDate      *time.Time            `json:"nextEmiDate,omitempty"`
	NextEMIAmount    decimal.Decimal       `json:"nextEmiAmount"`
	TotalPaid        decimal.Decimal       `json:"totalPaid"`
	PrincipalPaid    decimal.Decimal       `json:"principalPaid"`
	InterestPaid     decimal.Decimal       `json:"interestPaid"`
	Status           string                `json:"status"`
	EMISchedule      []InstallmentResponse `json:"emiSchedule,omitempty"`
	Payments         []PaymentResponse     `json:"payments,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// ListLoansResponse is a paginated page of loan headers.
type ListLoansResponse struct {
	Loans     []LoanResponse `json:"loans"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ScheduleResponse wraps the EMI schedule for the read-schedule endpoint.
type ScheduleResponse struct {
	LoanID      string                `json:"loanID"`
	EMISchedule []InstallmentResponse `json:"emiSchedule"`
}

// ListPaymentsResponse wraps the payment log.
type ListPaymentsResponse struct {
	LoanID   string            `json:"loanID"`
	Payments []PaymentResponse `json:"payments"`
}

// RefreshStatusResponse reports the re-derived status.
type RefreshStatusResponse struct {
	LoanID string `json:"loanID"`
	Status string `json:"status"`
}

// ToInstallmentResponse converts a domain.Installment to its DTO.
func ToInstallmentResponse(inst *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		EMINumber:        inst.EMINumber,
		DueDate:          inst.DueDate,
		PrincipalAmount:  inst.PrincipalAmount,
		InterestAmount:   inst.InterestAmount,
		EMIAmount:        inst.EMIAmount,
		RemainingBalance: inst.RemainingBalance,
		Status:           string(inst.Status),
		PaidDate:         inst.PaidDate,
		PaidAmount:       inst.PaidAmount,
		LateFee:          inst.LateFee,
	}
}

// ToInstallmentResponses converts a schedule slice.
func ToInstallmentResponses(insts []domain.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(insts))
	for i := range insts {
		responses[i] = ToInstallmentResponse(&insts[i])
	}
	return responses
}

// ToPaymentResponse converts a domain.PaymentRecord to its DTO.
func ToPaymentResponse(p *domain.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		EMINumber:     p.EMINumber,
		PaymentDate:   p.PaymentDate,
		Amount:        p.Amount,
		PrincipalPaid: p.PrincipalPaid,
		InterestPaid:  p.InterestPaid,
		LateFee:       p.LateFee,
		PaymentMethod: p.PaymentMethod,
		Notes:         p.Notes,
	}
}

// ToPaymentResponses converts a payment log slice.
func ToPaymentResponses(payments []domain.PaymentRecord) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}

// ToLoanResponse converts a domain.Loan to its full DTO.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	resp := LoanResponse{
		LoanID:           l.LoanID,
		PrincipalAmount:  l.PrincipalAmount,
		InterestRate:     l.InterestRate,
		TenureMonths:     l.TenureMonths,
		StartDate:        l.StartDate,
		PaymentFrequency: string(l.PaymentFrequency),
		EMIAmount:        l.EMIAmount,
		TotalAmount:      l.TotalAmount,
		TotalInterest:    l.TotalInterest,
		EndDate:          l.EndDate,
		RemainingBalance: l.RemainingBalance,
		NextEMIDate:      l.NextEMIDate,
		NextEMIAmount:    l.NextEMIAmount,
		TotalPaid:        l.TotalPaid,
		PrincipalPaid:    l.PrincipalPaid,
		InterestPaid:     l.InterestPaid,
		Status:           string(l.Status),
		CreatedAt:        l.CreatedAt,
	}
	if len(l.Schedule) > 0 {
		resp.EMISchedule = ToInstallmentResponses(l.Schedule)
	}
	if len(l.Payments) > 0 {
		resp.Payments = ToPaymentResponses(l.Payments)
	}
	return resp
}

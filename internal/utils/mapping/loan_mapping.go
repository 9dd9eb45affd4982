package mapping

import (
	"github.com/finmentor/loan_management_app/internal/core/domain"
	"github.com/finmentor/loan_management_app/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan.
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:           d.LoanID,
		UserID:           d.UserID,
		PrincipalAmount:  d.PrincipalAmount,
		InterestRate:     d.InterestRate,
		TenureMonths:     d.TenureMonths,
		StartDate:        d.StartDate,
		PaymentFrequency: string(d.PaymentFrequency),
		EMIAmount:        d.EMIAmount,
		TotalAmount:      d.TotalAmount,
		TotalInterest:    d.TotalInterest,
		EndDate:          d.EndDate,
		RemainingBalance: d.RemainingBalance,
		NextEMIDate:      d.NextEMIDate,
		NextEMIAmount:    d.NextEMIAmount,
		TotalPaid:        d.TotalPaid,
		PrincipalPaid:    d.PrincipalPaid,
		InterestPaid:     d.InterestPaid,
		Status:           models.LoanStatus(d.Status),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a model Loan to a domain Loan (schedule and payments
// are loaded separately).
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:           m.LoanID,
		UserID:           m.UserID,
		PrincipalAmount:  m.PrincipalAmount,
		InterestRate:     m.InterestRate,
		TenureMonths:     m.TenureMonths,
		StartDate:        m.StartDate,
		PaymentFrequency: domain.PaymentFrequency(m.PaymentFrequency),
		EMIAmount:        m.EMIAmount,
		TotalAmount:      m.TotalAmount,
		TotalInterest:    m.TotalInterest,
		EndDate:          m.EndDate,
		RemainingBalance: m.RemainingBalance,
		NextEMIDate:      m.NextEMIDate,
		NextEMIAmount:    m.NextEMIAmount,
		TotalPaid:        m.TotalPaid,
		PrincipalPaid:    m.PrincipalPaid,
		InterestPaid:     m.InterestPaid,
		Status:           domain.LoanStatus(m.Status),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInstallment converts a domain Installment to a model Installment.
func ToModelInstallment(d domain.Installment) models.Installment {
	return models.Installment{
		LoanID:           d.LoanID,
		EMINumber:        d.EMINumber,
		DueDate:          d.DueDate,
		PrincipalAmount:  d.PrincipalAmount,
		InterestAmount:   d.InterestAmount,
		EMIAmount:        d.EMIAmount,
		RemainingBalance: d.RemainingBalance,
		Status:           models.InstallmentStatus(d.Status),
		PaidDate:         d.PaidDate,
		PaidAmount:       d.PaidAmount,
		LateFee:          d.LateFee,
	}
}

// ToDomainInstallment converts a model Installment to a domain Installment.
func ToDomainInstallment(m models.Installment) domain.Installment {
	return domain.Installment{
		LoanID:           m.LoanID,
		EMINumber:        m.EMINumber,
		DueDate:          m.DueDate,
		PrincipalAmount:  m.PrincipalAmount,
		InterestAmount:   m.InterestAmount,
		EMIAmount:        m.EMIAmount,
		RemainingBalance: m.RemainingBalance,
		Status:           domain.InstallmentStatus(m.Status),
		PaidDate:         m.PaidDate,
		PaidAmount:       m.PaidAmount,
		LateFee:          m.LateFee,
	}
}

// ToDomainInstallmentSlice converts a slice of model Installments.
func ToDomainInstallmentSlice(ms []models.Installment) []domain.Installment {
	ds := make([]domain.Installment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInstallment(m)
	}
	return ds
}

// ToModelPaymentRecord converts a domain PaymentRecord to a model PaymentRecord.
func ToModelPaymentRecord(d domain.PaymentRecord) models.PaymentRecord {
	return models.PaymentRecord{
		PaymentID:     d.PaymentID,
		LoanID:        d.LoanID,
		EMINumber:     d.EMINumber,
		PaymentDate:   d.PaymentDate,
		Amount:        d.Amount,
		PrincipalPaid: d.PrincipalPaid,
		InterestPaid:  d.InterestPaid,
		LateFee:       d.LateFee,
		PaymentMethod: d.PaymentMethod,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentRecord converts a model PaymentRecord to a domain PaymentRecord.
func ToDomainPaymentRecord(m models.PaymentRecord) domain.PaymentRecord {
	return domain.PaymentRecord{
		PaymentID:     m.PaymentID,
		LoanID:        m.LoanID,
		EMINumber:     m.EMINumber,
		PaymentDate:   m.PaymentDate,
		Amount:        m.Amount,
		PrincipalPaid: m.PrincipalPaid,
		InterestPaid:  m.InterestPaid,
		LateFee:       m.LateFee,
		PaymentMethod: m.PaymentMethod,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentRecordSlice converts a slice of model PaymentRecords.
func ToDomainPaymentRecordSlice(ms []models.PaymentRecord) []domain.PaymentRecord {
	ds := make([]domain.PaymentRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPaymentRecord(m)
	}
	return ds
}

package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrLoanNotFound           = errors.New("loan not found")
	ErrLoanNameEmpty          = errors.New("loan name is required")
	ErrLoanNameTooLong        = errors.New("loan name must be 200 characters or less")
	ErrLoanAmountInvalid      = errors.New("loan amount must be positive")
	ErrLoanRateInvalid        = errors.New("loan interest rate must not be negative")
	ErrLoanTermInvalid        = errors.New("loan term must be at least 1 installment")
	ErrLoanAlreadyPaid        = errors.New("loan is already fully paid")
	ErrLoanPaymentsOutOfRange = errors.New("installments paid cannot exceed installments total")
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusPaid      LoanStatus = "paid"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

// Loan is a fixed-rate, fixed-term amortized debt. Only a payment counter is
// stored; per-installment principal/interest splits are re-derived from the
// origination terms on every read.
type Loan struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"userId"`
	Name              string          `json:"name"`
	Lender            *string         `json:"lender,omitempty"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	InterestRate      decimal.Decimal `json:"interestRate"` // annual, percent
	InstallmentsTotal int32           `json:"installmentsTotal"`
	InstallmentsPaid  int32           `json:"installmentsPaid"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	StartDate         time.Time       `json:"startDate"`
	Status            LoanStatus      `json:"status"`
	IsShared          bool            `json:"isShared"`
	SharedBudgetID    *uuid.UUID      `json:"sharedBudgetId,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func (l *Loan) Validate() error {
	if l.Name == "" {
		return ErrLoanNameEmpty
	}
	if len(l.Name) > MaxNameLength {
		return ErrLoanNameTooLong
	}
	if l.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrLoanAmountInvalid
	}
	if l.InterestRate.IsNegative() {
		return ErrLoanRateInvalid
	}
	if l.InstallmentsTotal < 1 {
		return ErrLoanTermInvalid
	}
	if l.InstallmentsPaid < 0 || l.InstallmentsPaid > l.InstallmentsTotal {
		return ErrLoanPaymentsOutOfRange
	}
	return nil
}

// IsActive returns true while the loan has unpaid installments.
func (l *Loan) IsActive() bool {
	return l.InstallmentsPaid < l.InstallmentsTotal
}

// ResolveStatus re-derives the status from the payment counter. The paid
// state always follows the counter; defaulted is kept only while payments
// remain outstanding.
func (l *Loan) ResolveStatus() {
	if l.InstallmentsPaid >= l.InstallmentsTotal {
		l.Status = LoanStatusPaid
		return
	}
	if l.Status != LoanStatusDefaulted {
		l.Status = LoanStatusActive
	}
}

type LoanRepository interface {
	Create(loan *Loan) (*Loan, error)
	GetByID(userID, id uuid.UUID) (*Loan, error)
	GetAllByUser(userID uuid.UUID) ([]*Loan, error)
	GetActiveByUser(userID uuid.UUID) ([]*Loan, error)
	GetSharedByBudget(budgetID uuid.UUID) ([]*Loan, error)
	Update(loan *Loan) (*Loan, error)
	Delete(userID, id uuid.UUID) error
}

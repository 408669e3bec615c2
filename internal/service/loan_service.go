package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/calc"
	"github.com/presupuesta/presupuesta-backend/internal/domain"
	ws "github.com/presupuesta/presupuesta-backend/internal/websocket"
)

// LoanService handles loan business logic
type LoanService struct {
	loanRepo  domain.LoanRepository
	publisher ws.EventPublisher
}

// NewLoanService creates a new LoanService
func NewLoanService(loanRepo domain.LoanRepository, publisher ws.EventPublisher) *LoanService {
	return &LoanService{
		loanRepo:  loanRepo,
		publisher: publisher,
	}
}

// CreateLoanInput contains input for creating a loan
type CreateLoanInput struct {
	Name              string
	Lender            *string
	TotalAmount       decimal.Decimal
	InterestRate      decimal.Decimal // annual, percent
	InstallmentsTotal int32
	StartDate         time.Time
	IsShared          bool
	SharedBudgetID    *uuid.UUID
}

// CreateLoan creates a loan with its derived installment amount
func (s *LoanService) CreateLoan(userID uuid.UUID, input CreateLoanInput) (*domain.Loan, error) {
	loan := &domain.Loan{
		UserID:            userID,
		Name:              strings.TrimSpace(input.Name),
		Lender:            input.Lender,
		TotalAmount:       input.TotalAmount,
		InterestRate:      input.InterestRate,
		InstallmentsTotal: input.InstallmentsTotal,
		InstallmentsPaid:  0,
		StartDate:         input.StartDate,
		Status:            domain.LoanStatusActive,
		IsShared:          input.IsShared,
		SharedBudgetID:    input.SharedBudgetID,
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	installment, err := calc.Installment(loan.TotalAmount, loan.InterestRate, int(loan.InstallmentsTotal))
	if err != nil {
		return nil, err
	}
	loan.InstallmentAmount = installment

	return s.loanRepo.Create(loan)
}

// GetLoans retrieves all loans for a user
func (s *LoanService) GetLoans(userID uuid.UUID) ([]*domain.Loan, error) {
	return s.loanRepo.GetAllByUser(userID)
}

// GetActiveLoans retrieves loans with pending installments
func (s *LoanService) GetActiveLoans(userID uuid.UUID) ([]*domain.Loan, error) {
	return s.loanRepo.GetActiveByUser(userID)
}

// GetLoanByID retrieves a loan scoped to the user
func (s *LoanService) GetLoanByID(userID, id uuid.UUID) (*domain.Loan, error) {
	return s.loanRepo.GetByID(userID, id)
}

// RegisterPayment advances the loan's payment counter by one installment
// and re-derives its status
func (s *LoanService) RegisterPayment(userID, id uuid.UUID) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	if !loan.IsActive() {
		return nil, domain.ErrLoanAlreadyPaid
	}

	loan.InstallmentsPaid++
	loan.ResolveStatus()

	updated, err := s.loanRepo.Update(loan)
	if err != nil {
		return nil, err
	}

	if updated.IsShared && updated.SharedBudgetID != nil {
		s.publisher.Publish(*updated.SharedBudgetID, ws.LoanPaymentRegistered(updated))
	}

	return updated, nil
}

// MarkDefaulted flags an unpaid loan as defaulted
func (s *LoanService) MarkDefaulted(userID, id uuid.UUID) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	if !loan.IsActive() {
		return nil, domain.ErrLoanAlreadyPaid
	}

	loan.Status = domain.LoanStatusDefaulted
	return s.loanRepo.Update(loan)
}

// UpdateLoanInput contains input for updating a loan's terms
type UpdateLoanInput struct {
	Name              string
	Lender            *string
	TotalAmount       decimal.Decimal
	InterestRate      decimal.Decimal // annual, percent
	InstallmentsTotal int32
	StartDate         time.Time
	IsShared          bool
	SharedBudgetID    *uuid.UUID
}

// UpdateLoan replaces a loan's terms. Editing the origination terms
// recomputes the installment amount; the payment counter is never reset, and
// the status is re-derived from it.
func (s *LoanService) UpdateLoan(userID, id uuid.UUID, input UpdateLoanInput) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	loan.Name = strings.TrimSpace(input.Name)
	loan.Lender = input.Lender
	loan.TotalAmount = input.TotalAmount
	loan.InterestRate = input.InterestRate
	loan.InstallmentsTotal = input.InstallmentsTotal
	loan.StartDate = input.StartDate
	loan.IsShared = input.IsShared
	loan.SharedBudgetID = input.SharedBudgetID

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	installment, err := calc.Installment(loan.TotalAmount, loan.InterestRate, int(loan.InstallmentsTotal))
	if err != nil {
		return nil, err
	}
	loan.InstallmentAmount = installment
	loan.ResolveStatus()

	return s.loanRepo.Update(loan)
}

// DeleteLoan removes a loan scoped to the user
func (s *LoanService) DeleteLoan(userID, id uuid.UUID) error {
	if _, err := s.loanRepo.GetByID(userID, id); err != nil {
		return err
	}
	return s.loanRepo.Delete(userID, id)
}

// LoanPreview shows the payment terms derived from origination inputs
type LoanPreview struct {
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	FirstPrincipal    decimal.Decimal `json:"firstPrincipal"`
	FirstInterest     decimal.Decimal `json:"firstInterest"`
	TotalPayment      decimal.Decimal `json:"totalPayment"`
	TotalInterest     decimal.Decimal `json:"totalInterest"`
}

// PreviewLoan derives the installment and the first principal/interest split
// without persisting anything
func (s *LoanService) PreviewLoan(totalAmount, interestRate decimal.Decimal, installmentsTotal int32) (LoanPreview, error) {
	installment, err := calc.Installment(totalAmount, interestRate, int(installmentsTotal))
	if err != nil {
		return LoanPreview{}, err
	}

	breakdown, err := calc.BreakdownAt(totalAmount, interestRate, int(installmentsTotal), installment, 0)
	if err != nil {
		return LoanPreview{}, err
	}

	totalPayment := installment.Mul(decimal.NewFromInt(int64(installmentsTotal)))
	return LoanPreview{
		InstallmentAmount: installment,
		FirstPrincipal:    breakdown.Principal,
		FirstInterest:     breakdown.Interest,
		TotalPayment:      totalPayment,
		TotalInterest:     totalPayment.Sub(totalAmount),
	}, nil
}

// InstallmentDetail is one row of an amortization schedule
type InstallmentDetail struct {
	Number    int32           `json:"number"`
	Amount    decimal.Decimal `json:"amount"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Paid      bool            `json:"paid"`
}

// Schedule derives the full amortization schedule of a loan
func (s *LoanService) Schedule(userID, id uuid.UUID) ([]InstallmentDetail, error) {
	loan, err := s.loanRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	schedule := make([]InstallmentDetail, 0, loan.InstallmentsTotal)
	for i := int32(0); i < loan.InstallmentsTotal; i++ {
		breakdown, err := calc.BreakdownAt(loan.TotalAmount, loan.InterestRate, int(loan.InstallmentsTotal), loan.InstallmentAmount, int(i))
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, InstallmentDetail{
			Number:    i + 1,
			Amount:    loan.InstallmentAmount,
			Principal: breakdown.Principal,
			Interest:  breakdown.Interest,
			Paid:      i < loan.InstallmentsPaid,
		})
	}
	return schedule, nil
}

package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/calc"
	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// IncomeService handles income business logic
type IncomeService struct {
	incomeRepo domain.IncomeRepository
}

// NewIncomeService creates a new IncomeService
func NewIncomeService(incomeRepo domain.IncomeRepository) *IncomeService {
	return &IncomeService{incomeRepo: incomeRepo}
}

// CreateIncomeInput contains input for creating an income record
type CreateIncomeInput struct {
	Description  string
	GrossAmount  decimal.Decimal
	IncomeType   domain.IncomeType
	ReceivedDate time.Time
}

// CreateIncome creates an income record with its derived net amount
func (s *IncomeService) CreateIncome(userID uuid.UUID, input CreateIncomeInput) (*domain.IncomeRecord, error) {
	if input.GrossAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrAmountInvalid
	}

	net, err := calc.NetIncome(input.GrossAmount, input.IncomeType)
	if err != nil {
		return nil, err
	}

	income := &domain.IncomeRecord{
		UserID:       userID,
		Description:  strings.TrimSpace(input.Description),
		GrossAmount:  input.GrossAmount,
		IncomeType:   input.IncomeType,
		NetAmount:    net,
		ReceivedDate: input.ReceivedDate,
	}

	return s.incomeRepo.Create(income)
}

// UpdateIncomeInput contains input for updating an income record
type UpdateIncomeInput struct {
	Description  string
	GrossAmount  decimal.Decimal
	IncomeType   domain.IncomeType
	ReceivedDate time.Time
}

// UpdateIncome updates an income record, recomputing the net amount
func (s *IncomeService) UpdateIncome(userID, id uuid.UUID, input UpdateIncomeInput) (*domain.IncomeRecord, error) {
	income, err := s.incomeRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	if input.GrossAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrAmountInvalid
	}

	net, err := calc.NetIncome(input.GrossAmount, input.IncomeType)
	if err != nil {
		return nil, err
	}

	income.Description = strings.TrimSpace(input.Description)
	income.GrossAmount = input.GrossAmount
	income.IncomeType = input.IncomeType
	income.NetAmount = net
	income.ReceivedDate = input.ReceivedDate

	return s.incomeRepo.Update(income)
}

// GetIncomes retrieves all income records for a user
func (s *IncomeService) GetIncomes(userID uuid.UUID) ([]*domain.IncomeRecord, error) {
	return s.incomeRepo.GetAllByUser(userID)
}

// GetIncomeByID retrieves one income record scoped to the user
func (s *IncomeService) GetIncomeByID(userID, id uuid.UUID) (*domain.IncomeRecord, error) {
	return s.incomeRepo.GetByID(userID, id)
}

// DeleteIncome removes an income record scoped to the user
func (s *IncomeService) DeleteIncome(userID, id uuid.UUID) error {
	return s.incomeRepo.Delete(userID, id)
}

// PreviewDeductions returns the deduction breakdown for a gross amount
// without persisting anything
func (s *IncomeService) PreviewDeductions(grossAmount decimal.Decimal, incomeType domain.IncomeType) (domain.DeductionBreakdown, error) {
	return calc.DeductionBreakdown(grossAmount, incomeType)
}

// TotalNetIncome sums the user's net income across all records
func (s *IncomeService) TotalNetIncome(userID uuid.UUID) (decimal.Decimal, error) {
	return s.incomeRepo.TotalNetByUser(userID)
}

package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	ws "github.com/presupuesta/presupuesta-backend/internal/websocket"
)

// ExpenseService handles manual expense business logic
type ExpenseService struct {
	expenseRepo domain.ExpenseRepository
	prefService *PreferenceService
	publisher   ws.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, prefService *PreferenceService, publisher ws.EventPublisher) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		prefService: prefService,
		publisher:   publisher,
	}
}

// CreateExpenseInput contains input for creating an expense
type CreateExpenseInput struct {
	Category       string
	Description    *string
	Amount         decimal.Decimal
	ExpenseDate    time.Time
	IsShared       bool
	SharedBudgetID *uuid.UUID
}

// CreateExpense creates an expense
func (s *ExpenseService) CreateExpense(userID uuid.UUID, input CreateExpenseInput) (*domain.Expense, error) {
	expense := &domain.Expense{
		UserID:         userID,
		Category:       strings.TrimSpace(input.Category),
		Description:    input.Description,
		Amount:         input.Amount,
		ExpenseDate:    input.ExpenseDate,
		IsShared:       input.IsShared,
		SharedBudgetID: input.SharedBudgetID,
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	created, err := s.expenseRepo.Create(expense)
	if err != nil {
		return nil, err
	}

	if created.IsShared && created.SharedBudgetID != nil {
		s.publisher.Publish(*created.SharedBudgetID, ws.ExpenseCreated(created))
	}

	return created, nil
}

// GetExpenses retrieves all expenses for a user
func (s *ExpenseService) GetExpenses(userID uuid.UUID) ([]*domain.Expense, error) {
	return s.expenseRepo.GetAllByUser(userID)
}

// GetCycleExpenses retrieves the user's expenses falling inside the current
// budget cycle
func (s *ExpenseService) GetCycleExpenses(userID uuid.UUID, referenceDate time.Time) ([]*domain.Expense, domain.BudgetCycle, error) {
	cycle, err := s.prefService.CurrentCycle(userID, referenceDate)
	if err != nil {
		return nil, domain.BudgetCycle{}, err
	}

	expenses, err := s.expenseRepo.GetByUserInRange(userID, cycle.StartDate, cycle.EndDate)
	if err != nil {
		return nil, domain.BudgetCycle{}, err
	}
	return expenses, cycle, nil
}

// UpdateExpenseInput contains input for updating an expense
type UpdateExpenseInput struct {
	Category       string
	Description    *string
	Amount         decimal.Decimal
	ExpenseDate    time.Time
	IsShared       bool
	SharedBudgetID *uuid.UUID
}

// UpdateExpense updates an expense
func (s *ExpenseService) UpdateExpense(userID, id uuid.UUID, input UpdateExpenseInput) (*domain.Expense, error) {
	expense, err := s.expenseRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	expense.Category = strings.TrimSpace(input.Category)
	expense.Description = input.Description
	expense.Amount = input.Amount
	expense.ExpenseDate = input.ExpenseDate
	expense.IsShared = input.IsShared
	expense.SharedBudgetID = input.SharedBudgetID

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.expenseRepo.Update(expense)
	if err != nil {
		return nil, err
	}

	if updated.IsShared && updated.SharedBudgetID != nil {
		s.publisher.Publish(*updated.SharedBudgetID, ws.ExpenseUpdated(updated))
	}

	return updated, nil
}

// MarkPaid records that an expense was paid by a user
func (s *ExpenseService) MarkPaid(userID, id uuid.UUID, paidBy uuid.UUID) (*domain.Expense, error) {
	expense, err := s.expenseRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	expense.IsPaid = true
	expense.PaidBy = &paidBy

	updated, err := s.expenseRepo.Update(expense)
	if err != nil {
		return nil, err
	}

	if updated.IsShared && updated.SharedBudgetID != nil {
		s.publisher.Publish(*updated.SharedBudgetID, ws.ExpensePaid(updated))
		// Member contributions changed; prompt clients to refresh the split
		s.publisher.Publish(*updated.SharedBudgetID, ws.SummaryUpdated(updated.SharedBudgetID))
	}

	return updated, nil
}

// DeleteExpense removes an expense scoped to the user
func (s *ExpenseService) DeleteExpense(userID, id uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.expenseRepo.Delete(userID, id); err != nil {
		return err
	}

	if expense.IsShared && expense.SharedBudgetID != nil {
		s.publisher.Publish(*expense.SharedBudgetID, ws.ExpenseDeleted(expense))
	}

	return nil
}

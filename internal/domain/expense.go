package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrExpenseNotFound         = errors.New("expense not found")
	ErrExpenseCategoryRequired = errors.New("expense category is required")
)

// ExpenseOrigin tells where an expense in a shared budget came from.
type ExpenseOrigin string

const (
	ExpenseOriginManual    ExpenseOrigin = "manual"
	ExpenseOriginDebt      ExpenseOrigin = "debt"
	ExpenseOriginRecurring ExpenseOrigin = "recurring"
)

// Expense is a manually recorded expense.
type Expense struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"userId"`
	Category       string          `json:"category"`
	Description    *string         `json:"description,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	ExpenseDate    time.Time       `json:"expenseDate"`
	IsPaid         bool            `json:"isPaid"`
	PaidBy         *uuid.UUID      `json:"paidBy,omitempty"`
	IsShared       bool            `json:"isShared"`
	SharedBudgetID *uuid.UUID      `json:"sharedBudgetId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (e *Expense) Validate() error {
	if e.Category == "" {
		return ErrExpenseCategoryRequired
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrAmountInvalid
	}
	return nil
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(userID, id uuid.UUID) (*Expense, error)
	GetAllByUser(userID uuid.UUID) ([]*Expense, error)
	GetByUserInRange(userID uuid.UUID, from, to time.Time) ([]*Expense, error)
	GetSharedByBudget(budgetID uuid.UUID) ([]*Expense, error)
	Update(expense *Expense) (*Expense, error)
	Delete(userID, id uuid.UUID) error
}

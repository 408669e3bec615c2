package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	"github.com/presupuesta/presupuesta-backend/internal/middleware"
	"github.com/presupuesta/presupuesta-backend/internal/service"
)

// ExpenseHandler handles manual expense HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseRequest represents the create/update expense request body
type ExpenseRequest struct {
	Category       string  `json:"category"`
	Description    *string `json:"description,omitempty"`
	Amount         string  `json:"amount"`
	ExpenseDate    string  `json:"expenseDate"`
	IsShared       bool    `json:"isShared"`
	SharedBudgetID *string `json:"sharedBudgetId,omitempty"`
}

// CycleExpensesResponse pairs the cycle window with the expenses inside it
type CycleExpensesResponse struct {
	Cycle    domain.BudgetCycle `json:"cycle"`
	Expenses []*domain.Expense  `json:"expenses"`
}

func (h *ExpenseHandler) parseRequest(c echo.Context, req ExpenseRequest) (service.CreateExpenseInput, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return service.CreateExpenseInput{}, NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	expenseDate, err := time.Parse("2006-01-02", req.ExpenseDate)
	if err != nil {
		return service.CreateExpenseInput{}, NewValidationError(c, "Invalid expense date", []ValidationError{
			{Field: "expenseDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	sharedBudgetID, parseErr := parseSharedBudgetID(c, req.SharedBudgetID)
	if parseErr != nil {
		return service.CreateExpenseInput{}, parseErr
	}

	return service.CreateExpenseInput{
		Category:       req.Category,
		Description:    req.Description,
		Amount:         amount,
		ExpenseDate:    expenseDate,
		IsShared:       req.IsShared,
		SharedBudgetID: sharedBudgetID,
	}, nil
}

func expenseValidationResponse(c echo.Context, err error) (error, bool) {
	switch {
	case errors.Is(err, domain.ErrExpenseCategoryRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		}), true
	case errors.Is(err, domain.ErrAmountInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		}), true
	}
	return nil, false
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, parseErr := h.parseRequest(c, req)
	if parseErr != nil {
		return parseErr
	}

	expense, err := h.expenseService.CreateExpense(userID, input)
	if err != nil {
		if resp, ok := expenseValidationResponse(c, err); ok {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense")
	}

	log.Info().Str("user_id", userID.String()).Str("expense_id", expense.ID.String()).Str("category", expense.Category).Msg("Expense created")

	return c.JSON(http.StatusCreated, expense)
}

// GetExpenses handles GET /api/v1/expenses
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	expenses, err := h.expenseService.GetExpenses(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get expenses")
		return NewInternalError(c, "Failed to get expenses")
	}

	return c.JSON(http.StatusOK, expenses)
}

// GetCycleExpenses handles GET /api/v1/expenses/cycle
// Returns the expenses whose dates fall inside the current budget cycle
func (h *ExpenseHandler) GetCycleExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	expenses, cycle, err := h.expenseService.GetCycleExpenses(userID, time.Now())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get cycle expenses")
		return NewInternalError(c, "Failed to get cycle expenses")
	}

	if expenses == nil {
		expenses = []*domain.Expense{}
	}

	return c.JSON(http.StatusOK, CycleExpensesResponse{
		Cycle:    cycle,
		Expenses: expenses,
	})
}

// UpdateExpense handles PUT /api/v1/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, parseErr := h.parseRequest(c, req)
	if parseErr != nil {
		return parseErr
	}

	expense, err := h.expenseService.UpdateExpense(userID, id, service.UpdateExpenseInput{
		Category:       input.Category,
		Description:    input.Description,
		Amount:         input.Amount,
		ExpenseDate:    input.ExpenseDate,
		IsShared:       input.IsShared,
		SharedBudgetID: input.SharedBudgetID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if resp, ok := expenseValidationResponse(c, err); ok {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Failed to update expense")
		return NewInternalError(c, "Failed to update expense")
	}

	return c.JSON(http.StatusOK, expense)
}

// MarkPaid handles PATCH /api/v1/expenses/:id/paid
func (h *ExpenseHandler) MarkPaid(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.MarkPaid(userID, id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Failed to mark expense paid")
		return NewInternalError(c, "Failed to mark expense paid")
	}

	log.Info().Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Expense marked paid")

	return c.JSON(http.StatusOK, expense)
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.DeleteExpense(userID, id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("expense_id", id.String()).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	return c.NoContent(http.StatusNoContent)
}

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

// IncomeHandler handles income-related HTTP requests
type IncomeHandler struct {
	incomeService *service.IncomeService
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(incomeService *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// IncomeRequest represents the create/update income request body
type IncomeRequest struct {
	Description  string `json:"description"`
	GrossAmount  string `json:"grossAmount"`
	IncomeType   string `json:"incomeType"`
	ReceivedDate string `json:"receivedDate"`
}

// PreviewDeductionsRequest represents the deduction preview request body
type PreviewDeductionsRequest struct {
	GrossAmount string `json:"grossAmount"`
	IncomeType  string `json:"incomeType"`
}

func parseIncomeType(raw string) (domain.IncomeType, bool) {
	switch domain.IncomeType(raw) {
	case domain.IncomeTypeLaborContract, domain.IncomeTypeServiceContract, domain.IncomeTypeExempt:
		return domain.IncomeType(raw), true
	}
	return "", false
}

func (h *IncomeHandler) parseRequest(c echo.Context, req IncomeRequest) (service.CreateIncomeInput, error) {
	gross, err := decimal.NewFromString(req.GrossAmount)
	if err != nil {
		return service.CreateIncomeInput{}, NewValidationError(c, "Invalid gross amount", []ValidationError{
			{Field: "grossAmount", Message: "Must be a valid decimal number"},
		})
	}

	incomeType, ok := parseIncomeType(req.IncomeType)
	if !ok {
		return service.CreateIncomeInput{}, NewValidationError(c, "Invalid income type", []ValidationError{
			{Field: "incomeType", Message: "Must be 'labor_contract', 'service_contract', or 'exempt'"},
		})
	}

	receivedDate, err := time.Parse("2006-01-02", req.ReceivedDate)
	if err != nil {
		return service.CreateIncomeInput{}, NewValidationError(c, "Invalid received date", []ValidationError{
			{Field: "receivedDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	return service.CreateIncomeInput{
		Description:  req.Description,
		GrossAmount:  gross,
		IncomeType:   incomeType,
		ReceivedDate: receivedDate,
	}, nil
}

// CreateIncome handles POST /api/v1/incomes
func (h *IncomeHandler) CreateIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req IncomeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, parseErr := h.parseRequest(c, req)
	if parseErr != nil {
		return parseErr
	}

	income, err := h.incomeService.CreateIncome(userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "grossAmount", Message: "Amount must be positive"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create income")
		return NewInternalError(c, "Failed to create income")
	}

	log.Info().Str("user_id", userID.String()).Str("income_id", income.ID.String()).Msg("Income created")

	return c.JSON(http.StatusCreated, income)
}

// GetIncomes handles GET /api/v1/incomes
func (h *IncomeHandler) GetIncomes(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	incomes, err := h.incomeService.GetIncomes(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get incomes")
		return NewInternalError(c, "Failed to get incomes")
	}

	return c.JSON(http.StatusOK, incomes)
}

// GetIncome handles GET /api/v1/incomes/:id
func (h *IncomeHandler) GetIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	income, err := h.incomeService.GetIncomeByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrIncomeNotFound) {
			return NewNotFoundError(c, "Income not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("income_id", id.String()).Msg("Failed to get income")
		return NewInternalError(c, "Failed to get income")
	}

	return c.JSON(http.StatusOK, income)
}

// UpdateIncome handles PUT /api/v1/incomes/:id
func (h *IncomeHandler) UpdateIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	var req IncomeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, parseErr := h.parseRequest(c, req)
	if parseErr != nil {
		return parseErr
	}

	income, err := h.incomeService.UpdateIncome(userID, id, service.UpdateIncomeInput{
		Description:  input.Description,
		GrossAmount:  input.GrossAmount,
		IncomeType:   input.IncomeType,
		ReceivedDate: input.ReceivedDate,
	})
	if err != nil {
		if errors.Is(err, domain.ErrIncomeNotFound) {
			return NewNotFoundError(c, "Income not found")
		}
		if errors.Is(err, domain.ErrAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "grossAmount", Message: "Amount must be positive"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("income_id", id.String()).Msg("Failed to update income")
		return NewInternalError(c, "Failed to update income")
	}

	return c.JSON(http.StatusOK, income)
}

// DeleteIncome handles DELETE /api/v1/incomes/:id
func (h *IncomeHandler) DeleteIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	if err := h.incomeService.DeleteIncome(userID, id); err != nil {
		if errors.Is(err, domain.ErrIncomeNotFound) {
			return NewNotFoundError(c, "Income not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("income_id", id.String()).Msg("Failed to delete income")
		return NewInternalError(c, "Failed to delete income")
	}

	return c.NoContent(http.StatusNoContent)
}

// PreviewDeductions handles POST /api/v1/incomes/preview
// Returns the deduction breakdown for a gross amount without persisting it
func (h *IncomeHandler) PreviewDeductions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req PreviewDeductionsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	gross, err := decimal.NewFromString(req.GrossAmount)
	if err != nil {
		return NewValidationError(c, "Invalid gross amount", []ValidationError{
			{Field: "grossAmount", Message: "Must be a valid decimal number"},
		})
	}

	incomeType, ok := parseIncomeType(req.IncomeType)
	if !ok {
		return NewValidationError(c, "Invalid income type", []ValidationError{
			{Field: "incomeType", Message: "Must be 'labor_contract', 'service_contract', or 'exempt'"},
		})
	}

	breakdown, err := h.incomeService.PreviewDeductions(gross, incomeType)
	if err != nil {
		if errors.Is(err, domain.ErrGrossAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "grossAmount", Message: "Amount must not be negative"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to preview deductions")
		return NewInternalError(c, "Failed to preview deductions")
	}

	return c.JSON(http.StatusOK, breakdown)
}

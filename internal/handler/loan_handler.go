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

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents the create loan request body
type CreateLoanRequest struct {
	Name              string  `json:"name"`
	Lender            *string `json:"lender,omitempty"`
	TotalAmount       string  `json:"totalAmount"`
	InterestRate      string  `json:"interestRate"`
	InstallmentsTotal int32   `json:"installmentsTotal"`
	StartDate         string  `json:"startDate"`
	IsShared          bool    `json:"isShared"`
	SharedBudgetID    *string `json:"sharedBudgetId,omitempty"`
}

// UpdateLoanRequest represents the update loan request body. Edits to the
// origination terms recompute the installment amount; the payment counter
// is preserved.
type UpdateLoanRequest struct {
	Name              string  `json:"name"`
	Lender            *string `json:"lender,omitempty"`
	TotalAmount       string  `json:"totalAmount"`
	InterestRate      string  `json:"interestRate"`
	InstallmentsTotal int32   `json:"installmentsTotal"`
	StartDate         string  `json:"startDate"`
	IsShared          bool    `json:"isShared"`
	SharedBudgetID    *string `json:"sharedBudgetId,omitempty"`
}

func parseSharedBudgetID(c echo.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, NewValidationError(c, "Invalid shared budget ID", []ValidationError{
			{Field: "sharedBudgetId", Message: "Must be a valid UUID"},
		})
	}
	return &id, nil
}

func loanValidationResponse(c echo.Context, err error) (error, bool) {
	switch {
	case errors.Is(err, domain.ErrLoanNameEmpty):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		}), true
	case errors.Is(err, domain.ErrLoanNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 200 characters or less"},
		}), true
	case errors.Is(err, domain.ErrLoanAmountInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "totalAmount", Message: "Amount must be positive"},
		}), true
	case errors.Is(err, domain.ErrLoanRateInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "interestRate", Message: "Interest rate must not be negative"},
		}), true
	case errors.Is(err, domain.ErrLoanTermInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "installmentsTotal", Message: "Term must be at least 1 installment"},
		}), true
	}
	return nil, false
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid total amount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	interestRate := decimal.Zero
	if req.InterestRate != "" {
		interestRate, err = decimal.NewFromString(req.InterestRate)
		if err != nil {
			return NewValidationError(c, "Invalid interest rate", []ValidationError{
				{Field: "interestRate", Message: "Must be a valid decimal number"},
			})
		}
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return NewValidationError(c, "Invalid start date", []ValidationError{
			{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	sharedBudgetID, parseErr := parseSharedBudgetID(c, req.SharedBudgetID)
	if parseErr != nil {
		return parseErr
	}

	loan, err := h.loanService.CreateLoan(userID, service.CreateLoanInput{
		Name:              req.Name,
		Lender:            req.Lender,
		TotalAmount:       totalAmount,
		InterestRate:      interestRate,
		InstallmentsTotal: req.InstallmentsTotal,
		StartDate:         startDate,
		IsShared:          req.IsShared,
		SharedBudgetID:    sharedBudgetID,
	})
	if err != nil {
		if resp, ok := loanValidationResponse(c, err); ok {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create loan")
		return NewInternalError(c, "Failed to create loan")
	}

	log.Info().Str("user_id", userID.String()).Str("loan_id", loan.ID.String()).Str("name", loan.Name).Msg("Loan created")

	return c.JSON(http.StatusCreated, loan)
}

// PreviewLoanRequest represents the loan preview request body
type PreviewLoanRequest struct {
	TotalAmount       string `json:"totalAmount"`
	InterestRate      string `json:"interestRate"`
	InstallmentsTotal int32  `json:"installmentsTotal"`
}

// PreviewLoan handles POST /api/v1/loans/preview
// Derives the payment terms from origination inputs without creating a loan
func (h *LoanHandler) PreviewLoan(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req PreviewLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid total amount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	interestRate := decimal.Zero
	if req.InterestRate != "" {
		interestRate, err = decimal.NewFromString(req.InterestRate)
		if err != nil {
			return NewValidationError(c, "Invalid interest rate", []ValidationError{
				{Field: "interestRate", Message: "Must be a valid decimal number"},
			})
		}
	}

	preview, err := h.loanService.PreviewLoan(totalAmount, interestRate, req.InstallmentsTotal)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAmountInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "totalAmount", Message: "Amount must be positive"},
			})
		case errors.Is(err, domain.ErrInterestRateInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "interestRate", Message: "Interest rate must not be negative"},
			})
		case errors.Is(err, domain.ErrInstallmentsInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "installmentsTotal", Message: "Must be at least 1"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to preview loan")
		return NewInternalError(c, "Failed to preview loan")
	}

	return c.JSON(http.StatusOK, preview)
}

// GetLoans handles GET /api/v1/loans
func (h *LoanHandler) GetLoans(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var (
		loans []*domain.Loan
		err   error
	)

	switch c.QueryParam("status") {
	case "active":
		loans, err = h.loanService.GetActiveLoans(userID)
	case "all", "":
		loans, err = h.loanService.GetLoans(userID)
	default:
		return NewValidationError(c, "Invalid status parameter", []ValidationError{
			{Field: "status", Message: "Must be 'all' or 'active'"},
		})
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get loans")
		return NewInternalError(c, "Failed to get loans")
	}

	return c.JSON(http.StatusOK, loans)
}

// GetLoan handles GET /api/v1/loans/:id
func (h *LoanHandler) GetLoan(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	loan, err := h.loanService.GetLoanByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("loan_id", id.String()).Msg("Failed to get loan")
		return NewInternalError(c, "Failed to get loan")
	}

	return c.JSON(http.StatusOK, loan)
}

// GetSchedule handles GET /api/v1/loans/:id/schedule
// Returns the full amortization schedule derived from the origination terms
func (h *LoanHandler) GetSchedule(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	schedule, err := h.loanService.Schedule(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("loan_id", id.String()).Msg("Failed to derive schedule")
		return NewInternalError(c, "Failed to derive schedule")
	}

	return c.JSON(http.StatusOK, schedule)
}

// RegisterPayment handles POST /api/v1/loans/:id/payments
func (h *LoanHandler) RegisterPayment(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	loan, err := h.loanService.RegisterPayment(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		if errors.Is(err, domain.ErrLoanAlreadyPaid) {
			return NewConflictError(c, "Loan is already fully paid")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("loan_id", id.String()).Msg("Failed to register payment")
		return NewInternalError(c, "Failed to register payment")
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("loan_id", loan.ID.String()).
		Int32("installments_paid", loan.InstallmentsPaid).
		Msg("Loan payment registered")

	return c.JSON(http.StatusOK, loan)
}

// MarkDefaulted handles POST /api/v1/loans/:id/default
func (h *LoanHandler) MarkDefaulted(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	loan, err := h.loanService.MarkDefaulted(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		if errors.Is(err, domain.ErrLoanAlreadyPaid) {
			return NewConflictError(c, "Loan is already fully paid")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("loan_id", id.String()).Msg("Failed to mark loan defaulted")
		return NewInternalError(c, "Failed to mark loan defaulted")
	}

	return c.JSON(http.StatusOK, loan)
}

// UpdateLoan handles PUT /api/v1/loans/:id
func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	var req UpdateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid total amount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	interestRate := decimal.Zero
	if req.InterestRate != "" {
		interestRate, err = decimal.NewFromString(req.InterestRate)
		if err != nil {
			return NewValidationError(c, "Invalid interest rate", []ValidationError{
				{Field: "interestRate", Message: "Must be a valid decimal number"},
			})
		}
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return NewValidationError(c, "Invalid start date", []ValidationError{
			{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	sharedBudgetID, parseErr := parseSharedBudgetID(c, req.SharedBudgetID)
	if parseErr != nil {
		return parseErr
	}

	loan, err := h.loanService.UpdateLoan(userID, id, service.UpdateLoanInput{
		Name:              req.Name,
		Lender:            req.Lender,
		TotalAmount:       totalAmount,
		InterestRate:      interestRate,
		InstallmentsTotal: req.InstallmentsTotal,
		StartDate:         startDate,
		IsShared:          req.IsShared,
		SharedBudgetID:    sharedBudgetID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		if errors.Is(err, domain.ErrLoanPaymentsOutOfRange) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "installmentsTotal", Message: "Term cannot be lower than the installments already paid"},
			})
		}
		if resp, ok := loanValidationResponse(c, err); ok {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("loan_id", id.String()).Msg("Failed to update loan")
		return NewInternalError(c, "Failed to update loan")
	}

	return c.JSON(http.StatusOK, loan)
}

// DeleteLoan handles DELETE /api/v1/loans/:id
func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	if err := h.loanService.DeleteLoan(userID, id); err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("loan_id", id.String()).Msg("Failed to delete loan")
		return NewInternalError(c, "Failed to delete loan")
	}

	log.Info().Str("user_id", userID.String()).Str("loan_id", id.String()).Msg("Loan deleted")
	return c.NoContent(http.StatusNoContent)
}

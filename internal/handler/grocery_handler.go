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

// GroceryHandler handles grocery envelope HTTP requests
type GroceryHandler struct {
	groceryService *service.GroceryService
}

// NewGroceryHandler creates a new GroceryHandler
func NewGroceryHandler(groceryService *service.GroceryService) *GroceryHandler {
	return &GroceryHandler{groceryService: groceryService}
}

// SetGroceryBudgetRequest represents the set grocery budget request body
type SetGroceryBudgetRequest struct {
	Amount string `json:"amount"`
}

// GroceryPurchaseRequest represents the record grocery purchase request body
type GroceryPurchaseRequest struct {
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	PurchaseDate string `json:"purchaseDate"`
}

// SetBudget handles PUT /api/v1/groceries/budget
// Creates or replaces the envelope for the current cycle
func (h *GroceryHandler) SetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req SetGroceryBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.groceryService.SetBudget(userID, amount, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to set grocery budget")
		return NewInternalError(c, "Failed to set grocery budget")
	}

	log.Info().Str("user_id", userID.String()).Str("budget_id", budget.ID.String()).Msg("Grocery budget set")

	return c.JSON(http.StatusOK, budget)
}

// AddPurchase handles POST /api/v1/groceries/purchases
func (h *GroceryHandler) AddPurchase(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req GroceryPurchaseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	purchaseDate := time.Now()
	if req.PurchaseDate != "" {
		purchaseDate, err = time.Parse("2006-01-02", req.PurchaseDate)
		if err != nil {
			return NewValidationError(c, "Invalid purchase date", []ValidationError{
				{Field: "purchaseDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
	}

	purchase, err := h.groceryService.AddPurchase(userID, service.AddPurchaseInput{
		Description:  req.Description,
		Amount:       amount,
		PurchaseDate: purchaseDate,
	}, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrGroceryBudgetNotFound) {
			return NewValidationError(c, "No grocery budget set for the current cycle", nil)
		}
		if errors.Is(err, domain.ErrAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to add grocery purchase")
		return NewInternalError(c, "Failed to add grocery purchase")
	}

	return c.JSON(http.StatusCreated, purchase)
}

// DeletePurchase handles DELETE /api/v1/groceries/purchases/:id
func (h *GroceryHandler) DeletePurchase(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid purchase ID", nil)
	}

	if err := h.groceryService.DeletePurchase(userID, id); err != nil {
		if errors.Is(err, domain.ErrGroceryPurchaseNotFound) {
			return NewNotFoundError(c, "Grocery purchase not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("purchase_id", id.String()).Msg("Failed to delete grocery purchase")
		return NewInternalError(c, "Failed to delete grocery purchase")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetSummary handles GET /api/v1/groceries/summary
// Returns the envelope state with spend totals and the alert level
func (h *GroceryHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	summary, err := h.groceryService.GetSummary(userID, time.Now())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get grocery summary")
		return NewInternalError(c, "Failed to get grocery summary")
	}

	return c.JSON(http.StatusOK, summary)
}

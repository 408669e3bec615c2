package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/presupuesta/presupuesta-backend/internal/middleware"
	"github.com/presupuesta/presupuesta-backend/internal/service"
)

// DebtHandler handles the derived debt expense HTTP requests
type DebtHandler struct {
	debtService *service.DebtService
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService *service.DebtService) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

// GetDebtSummary handles GET /api/v1/debt-expenses
// Returns the obligations falling due in the current budget cycle, sorted by
// due date. Nothing here is persisted; the view is derived on every call.
func (h *DebtHandler) GetDebtSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	referenceDate := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return NewValidationError(c, "Invalid date parameter", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		referenceDate = parsed
	}

	summary, err := h.debtService.GetDebtSummary(userID, referenceDate)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to derive debt summary")
		return NewInternalError(c, "Failed to derive debt summary")
	}

	return c.JSON(http.StatusOK, summary)
}

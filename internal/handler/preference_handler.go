package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	"github.com/presupuesta/presupuesta-backend/internal/middleware"
	"github.com/presupuesta/presupuesta-backend/internal/service"
)

// PreferenceHandler handles user preference HTTP requests
type PreferenceHandler struct {
	prefService *service.PreferenceService
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(prefService *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefService: prefService}
}

// UpdatePreferencesRequest represents the update preferences request body
type UpdatePreferencesRequest struct {
	CycleStartDay int    `json:"cycleStartDay"`
	Currency      string `json:"currency"`
}

// GetPreferences handles GET /api/v1/preferences
func (h *PreferenceHandler) GetPreferences(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	prefs, err := h.prefService.GetPreferences(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get preferences")
		return NewInternalError(c, "Failed to get preferences")
	}

	return c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /api/v1/preferences
func (h *PreferenceHandler) UpdatePreferences(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	prefs, err := h.prefService.UpdatePreferences(userID, service.UpdatePreferencesInput{
		CycleStartDay: req.CycleStartDay,
		Currency:      req.Currency,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCycleStartDayInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "cycleStartDay", Message: "Must be between 1 and 28"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update preferences")
		return NewInternalError(c, "Failed to update preferences")
	}

	log.Info().Str("user_id", userID.String()).Int("cycle_start_day", prefs.CycleStartDay).Msg("Preferences updated")

	return c.JSON(http.StatusOK, prefs)
}

// GetCurrentCycle handles GET /api/v1/preferences/cycle
func (h *PreferenceHandler) GetCurrentCycle(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cycle, err := h.prefService.CurrentCycle(userID, time.Now())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to resolve current cycle")
		return NewInternalError(c, "Failed to resolve current cycle")
	}

	return c.JSON(http.StatusOK, cycle)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/presupuesta/presupuesta-backend/internal/middleware"
)

// UserHandler handles user identity HTTP requests
type UserHandler struct{}

// NewUserHandler creates a new UserHandler
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me handles GET /api/v1/me
// Returns the user resolved from the bearer token
func (h *UserHandler) Me(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	return c.JSON(http.StatusOK, user)
}

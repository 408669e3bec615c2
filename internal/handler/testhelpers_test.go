package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	"github.com/presupuesta/presupuesta-backend/internal/middleware"
)

// setupAuthContext injects a resolved user into the echo context the way the
// auth middleware does after token validation.
func setupAuthContext(c echo.Context, user *domain.User) {
	ctx := context.WithValue(c.Request().Context(), middleware.Auth0IDKey, user.Auth0ID)
	ctx = context.WithValue(ctx, middleware.UserIDKey, user.ID)
	ctx = context.WithValue(ctx, middleware.UserKey, user)
	c.SetRequest(c.Request().WithContext(ctx))
}

func testUser() *domain.User {
	return &domain.User{
		ID:      uuid.New(),
		Auth0ID: "auth0|test",
		Email:   "test@example.com",
	}
}

package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// Auth0IDKey is the context key for the Auth0 user ID (subject)
	Auth0IDKey contextKey = "auth0_id"
	// UserIDKey is the context key for the resolved user ID
	UserIDKey contextKey = "user_id"
	// UserKey is the context key for the resolved user
	UserKey contextKey = "user"
)

// UserProvider resolves the local user record for an Auth0 subject,
// creating it on first login.
type UserProvider interface {
	CreateOrGetByAuth0ID(auth0ID, email string, fullName *string) (*domain.User, error)
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator    *validator.Validator
	userProvider UserProvider
}

// NewAuthMiddleware creates a new AuthMiddleware with Auth0 configuration
func NewAuthMiddleware(domainName, audience string, userProvider UserProvider) (*AuthMiddleware, error) {
	issuerURL, err := url.Parse("https://" + domainName + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &AuthMiddleware{
		validator:    jwtValidator,
		userProvider: userProvider,
	}, nil
}

// Authenticate returns an Echo middleware that validates JWT tokens and
// resolves the local user record.
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			// Check Bearer prefix
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			user, validatedClaims, err := m.resolveToken(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
			ctx = context.WithValue(ctx, Auth0IDKey, user.Auth0ID)
			ctx = context.WithValue(ctx, UserIDKey, user.ID)
			ctx = context.WithValue(ctx, UserKey, user)

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// ResolveToken validates a raw bearer token and resolves the local user.
// The websocket endpoint uses this for tokens passed as a query parameter,
// where no Authorization header is available.
func (m *AuthMiddleware) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	user, _, err := m.resolveToken(ctx, token)
	return user, err
}

func (m *AuthMiddleware) resolveToken(ctx context.Context, token string) (*domain.User, *validator.ValidatedClaims, error) {
	claims, err := m.validator.ValidateToken(ctx, token)
	if err != nil {
		log.Debug().Err(err).Msg("Token validation failed")
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
	}

	auth0ID := validatedClaims.RegisteredClaims.Subject

	var email string
	var fullName *string
	if custom, ok := validatedClaims.CustomClaims.(*CustomClaims); ok {
		email = custom.Email
		if custom.Name != "" {
			fullName = &custom.Name
		}
	}

	user, err := m.userProvider.CreateOrGetByAuth0ID(auth0ID, email, fullName)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("User resolution failed")
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "user resolution failed")
	}

	return user, validatedClaims, nil
}

// GetAuth0ID extracts the Auth0 user ID from the context
func GetAuth0ID(c echo.Context) string {
	if id, ok := c.Request().Context().Value(Auth0IDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetUserID extracts the resolved user ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetUser extracts the resolved user from the context
func GetUser(c echo.Context) *domain.User {
	if user, ok := c.Request().Context().Value(UserKey).(*domain.User); ok {
		return user
	}
	return nil
}

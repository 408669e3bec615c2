package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/presupuesta/presupuesta-backend/internal/config"
	"github.com/presupuesta/presupuesta-backend/internal/handler"
	"github.com/presupuesta/presupuesta-backend/internal/middleware"
	"github.com/presupuesta/presupuesta-backend/internal/repository/postgres"
	"github.com/presupuesta/presupuesta-backend/internal/service"
	"github.com/presupuesta/presupuesta-backend/internal/websocket"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Run schema migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Migrations applied")

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	prefRepo := postgres.NewPreferenceRepository(pool)
	incomeRepo := postgres.NewIncomeRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	cardRepo := postgres.NewCreditCardRepository(pool)
	purchaseRepo := postgres.NewCardPurchaseRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	groceryRepo := postgres.NewGroceryRepository(pool)
	budgetRepo := postgres.NewSharedBudgetRepository(pool)

	// WebSocket hub for shared budget events
	hub := websocket.NewHub()

	// Initialize services
	prefService := service.NewPreferenceService(prefRepo)
	incomeService := service.NewIncomeService(incomeRepo)
	loanService := service.NewLoanService(loanRepo, hub)
	cardService := service.NewCardService(cardRepo, purchaseRepo, hub)
	debtService := service.NewDebtService(loanRepo, cardRepo, purchaseRepo, prefService)
	expenseService := service.NewExpenseService(expenseRepo, prefService, hub)
	groceryService := service.NewGroceryService(groceryRepo, prefService)
	budgetService := service.NewSharedBudgetService(budgetRepo, userRepo, incomeRepo, expenseRepo, loanRepo, cardRepo, purchaseRepo, prefService, hub)

	// Initialize auth middleware and rate limiter
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, userRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Initialize handlers
	userHandler := handler.NewUserHandler()
	preferenceHandler := handler.NewPreferenceHandler(prefService)
	incomeHandler := handler.NewIncomeHandler(incomeService)
	loanHandler := handler.NewLoanHandler(loanService)
	cardHandler := handler.NewCardHandler(cardService)
	debtHandler := handler.NewDebtHandler(debtService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	groceryHandler := handler.NewGroceryHandler(groceryService)
	sharedBudgetHandler := handler.NewSharedBudgetHandler(budgetService)
	wsHandler := handler.NewWebSocketHandler(hub, authMiddleware, budgetRepo, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, userHandler, preferenceHandler, incomeHandler, loanHandler, cardHandler, debtHandler, expenseHandler, groceryHandler, sharedBudgetHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}

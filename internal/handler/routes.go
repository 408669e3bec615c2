package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/presupuesta/presupuesta-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	userHandler *UserHandler,
	preferenceHandler *PreferenceHandler,
	incomeHandler *IncomeHandler,
	loanHandler *LoanHandler,
	cardHandler *CardHandler,
	debtHandler *DebtHandler,
	expenseHandler *ExpenseHandler,
	groceryHandler *GroceryHandler,
	sharedBudgetHandler *SharedBudgetHandler,
	wsHandler *WebSocketHandler,
) {
	// WebSocket endpoint authenticates via query-parameter token
	e.GET("/ws", wsHandler.HandleWS)

	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	api.GET("/me", userHandler.Me)

	// Preference routes
	preferences := api.Group("/preferences")
	preferences.GET("", preferenceHandler.GetPreferences)
	preferences.PUT("", preferenceHandler.UpdatePreferences)
	preferences.GET("/cycle", preferenceHandler.GetCurrentCycle)

	// Income routes
	incomes := api.Group("/incomes")
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.GetIncomes)
	incomes.POST("/preview", incomeHandler.PreviewDeductions)
	incomes.GET("/:id", incomeHandler.GetIncome)
	incomes.PUT("/:id", incomeHandler.UpdateIncome)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)

	// Loan routes
	loans := api.Group("/loans")
	loans.POST("", loanHandler.CreateLoan)
	loans.GET("", loanHandler.GetLoans)
	loans.POST("/preview", loanHandler.PreviewLoan)
	loans.GET("/:id", loanHandler.GetLoan)
	loans.PUT("/:id", loanHandler.UpdateLoan)
	loans.DELETE("/:id", loanHandler.DeleteLoan)
	loans.GET("/:id/schedule", loanHandler.GetSchedule)
	loans.POST("/:id/payments", loanHandler.RegisterPayment)
	loans.POST("/:id/default", loanHandler.MarkDefaulted)

	// Credit card routes
	cards := api.Group("/cards")
	cards.POST("", cardHandler.CreateCard)
	cards.GET("", cardHandler.GetCards)
	cards.GET("/:id", cardHandler.GetCard)
	cards.PUT("/:id", cardHandler.UpdateCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)
	cards.POST("/:id/purchases", cardHandler.CreatePurchase)
	cards.POST("/:id/purchases/:purchaseId/payments", cardHandler.PayPurchaseInstallment)
	cards.DELETE("/:id/purchases/:purchaseId", cardHandler.DeletePurchase)

	// Derived debt expense routes
	api.GET("/debt-expenses", debtHandler.GetDebtSummary)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/cycle", expenseHandler.GetCycleExpenses)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.PATCH("/:id/paid", expenseHandler.MarkPaid)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Grocery envelope routes
	groceries := api.Group("/groceries")
	groceries.PUT("/budget", groceryHandler.SetBudget)
	groceries.GET("/summary", groceryHandler.GetSummary)
	groceries.POST("/purchases", groceryHandler.AddPurchase)
	groceries.DELETE("/purchases/:id", groceryHandler.DeletePurchase)

	// Shared budget routes
	budgets := api.Group("/shared-budgets")
	budgets.POST("", sharedBudgetHandler.CreateBudget)
	budgets.GET("/mine", sharedBudgetHandler.GetMyBudget)
	budgets.GET("/invitations", sharedBudgetHandler.GetPendingInvitations)
	budgets.POST("/invitations/:id/respond", sharedBudgetHandler.RespondInvitation)
	budgets.POST("/:id/members", sharedBudgetHandler.InviteMember)
	budgets.DELETE("/:id/members/:memberId", sharedBudgetHandler.RemoveMember)
	budgets.GET("/:id/summary", sharedBudgetHandler.GetSummary)
}

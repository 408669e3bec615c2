package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// Alert thresholds as a percentage of the grocery envelope
var (
	groceryWarningThreshold = 70.0
	groceryDangerThreshold  = 90.0
	groceryExceededLimit    = 100.0
)

// GroceryService handles the per-cycle grocery envelope
type GroceryService struct {
	groceryRepo domain.GroceryRepository
	prefService *PreferenceService
}

// NewGroceryService creates a new GroceryService
func NewGroceryService(groceryRepo domain.GroceryRepository, prefService *PreferenceService) *GroceryService {
	return &GroceryService{
		groceryRepo: groceryRepo,
		prefService: prefService,
	}
}

// SetBudget creates or replaces the grocery budget for the user's current cycle
func (s *GroceryService) SetBudget(userID uuid.UUID, amount decimal.Decimal, referenceDate time.Time) (*domain.GroceryBudget, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrAmountInvalid
	}

	cycle, err := s.prefService.CurrentCycle(userID, referenceDate)
	if err != nil {
		return nil, err
	}

	return s.groceryRepo.UpsertBudget(&domain.GroceryBudget{
		UserID:         userID,
		BudgetAmount:   amount,
		CycleStartDate: cycle.StartDate,
		CycleEndDate:   cycle.EndDate,
	})
}

// AddPurchaseInput contains input for recording a grocery purchase
type AddPurchaseInput struct {
	Description  string
	Amount       decimal.Decimal
	PurchaseDate time.Time
}

// AddPurchase records a grocery purchase against the current cycle's envelope
func (s *GroceryService) AddPurchase(userID uuid.UUID, input AddPurchaseInput, referenceDate time.Time) (*domain.GroceryPurchase, error) {
	cycle, err := s.prefService.CurrentCycle(userID, referenceDate)
	if err != nil {
		return nil, err
	}

	budget, err := s.groceryRepo.GetBudgetForCycle(userID, cycle.StartDate, cycle.EndDate)
	if err != nil {
		return nil, err
	}

	purchase := &domain.GroceryPurchase{
		UserID:          userID,
		GroceryBudgetID: budget.ID,
		Description:     strings.TrimSpace(input.Description),
		Amount:          input.Amount,
		PurchaseDate:    input.PurchaseDate,
	}

	if err := purchase.Validate(); err != nil {
		return nil, err
	}

	return s.groceryRepo.CreatePurchase(purchase)
}

// DeletePurchase removes a grocery purchase scoped to the user
func (s *GroceryService) DeletePurchase(userID, id uuid.UUID) error {
	return s.groceryRepo.DeletePurchase(userID, id)
}

// GetSummary derives the state of the current cycle's grocery envelope
func (s *GroceryService) GetSummary(userID uuid.UUID, referenceDate time.Time) (*domain.GrocerySummary, error) {
	cycle, err := s.prefService.CurrentCycle(userID, referenceDate)
	if err != nil {
		return nil, err
	}

	summary := &domain.GrocerySummary{
		TotalSpent: decimal.Zero,
		Remaining:  decimal.Zero,
		AlertLevel: domain.GroceryAlertSafe,
	}

	budget, err := s.groceryRepo.GetBudgetForCycle(userID, cycle.StartDate, cycle.EndDate)
	if err != nil {
		if errors.Is(err, domain.ErrGroceryBudgetNotFound) {
			// No envelope set for this cycle yet
			return summary, nil
		}
		return nil, err
	}
	summary.Budget = budget

	purchases, err := s.groceryRepo.GetPurchasesInRange(userID, cycle.StartDate, cycle.EndDate)
	if err != nil {
		return nil, err
	}
	summary.Purchases = purchases

	for _, p := range purchases {
		summary.TotalSpent = summary.TotalSpent.Add(p.Amount)
	}
	summary.Remaining = budget.BudgetAmount.Sub(summary.TotalSpent)

	if budget.BudgetAmount.IsPositive() {
		pct, _ := summary.TotalSpent.Div(budget.BudgetAmount).Mul(decimal.NewFromInt(100)).Float64()
		summary.PercentageUsed = pct
	}
	summary.AlertLevel = alertLevel(summary.PercentageUsed)

	return summary, nil
}

func alertLevel(percentageUsed float64) domain.GroceryAlertLevel {
	switch {
	case percentageUsed >= groceryExceededLimit:
		return domain.GroceryAlertExceeded
	case percentageUsed >= groceryDangerThreshold:
		return domain.GroceryAlertDanger
	case percentageUsed >= groceryWarningThreshold:
		return domain.GroceryAlertWarning
	default:
		return domain.GroceryAlertSafe
	}
}

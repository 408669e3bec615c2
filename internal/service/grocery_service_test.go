package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	"github.com/presupuesta/presupuesta-backend/internal/testutil"
)

func newGroceryService() *GroceryService {
	prefService := NewPreferenceService(testutil.NewMockPreferenceRepository())
	return NewGroceryService(testutil.NewMockGroceryRepository(), prefService)
}

var groceryRef = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func TestGrocerySummary_NoBudgetSet(t *testing.T) {
	service := newGroceryService()

	summary, err := service.GetSummary(uuid.New(), groceryRef)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Budget != nil {
		t.Error("Expected nil budget")
	}
	if summary.AlertLevel != domain.GroceryAlertSafe {
		t.Errorf("Expected safe, got %s", summary.AlertLevel)
	}
}

func TestGrocerySummary_AlertThresholds(t *testing.T) {
	tests := []struct {
		name  string
		spent int64
		want  domain.GroceryAlertLevel
	}{
		{"under warning", 300_000, domain.GroceryAlertSafe},
		{"at warning", 350_000, domain.GroceryAlertWarning},
		{"at danger", 450_000, domain.GroceryAlertDanger},
		{"at limit", 500_000, domain.GroceryAlertExceeded},
		{"over limit", 520_000, domain.GroceryAlertExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newGroceryService()
			userID := uuid.New()

			// Envelope of 500,000 → warning at 70% (350,000), danger at 90%
			if _, err := service.SetBudget(userID, decimal.NewFromInt(500_000), groceryRef); err != nil {
				t.Fatalf("SetBudget: %v", err)
			}

			if _, err := service.AddPurchase(userID, AddPurchaseInput{
				Description:  "Mercado",
				Amount:       decimal.NewFromInt(tt.spent),
				PurchaseDate: groceryRef,
			}, groceryRef); err != nil {
				t.Fatalf("AddPurchase: %v", err)
			}

			summary, err := service.GetSummary(userID, groceryRef)
			if err != nil {
				t.Fatalf("GetSummary: %v", err)
			}
			if summary.AlertLevel != tt.want {
				t.Errorf("AlertLevel = %s, want %s (%.1f%%)", summary.AlertLevel, tt.want, summary.PercentageUsed)
			}
		})
	}
}

func TestGrocerySummary_TotalsAndRemaining(t *testing.T) {
	service := newGroceryService()
	userID := uuid.New()

	if _, err := service.SetBudget(userID, decimal.NewFromInt(400_000), groceryRef); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}

	amounts := []int64{120_000, 80_000}
	for _, a := range amounts {
		if _, err := service.AddPurchase(userID, AddPurchaseInput{
			Description:  "Mercado",
			Amount:       decimal.NewFromInt(a),
			PurchaseDate: groceryRef,
		}, groceryRef); err != nil {
			t.Fatalf("AddPurchase: %v", err)
		}
	}

	summary, err := service.GetSummary(userID, groceryRef)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if want := decimal.NewFromInt(200_000); !summary.TotalSpent.Equal(want) {
		t.Errorf("TotalSpent = %s, want %s", summary.TotalSpent, want)
	}
	if want := decimal.NewFromInt(200_000); !summary.Remaining.Equal(want) {
		t.Errorf("Remaining = %s, want %s", summary.Remaining, want)
	}
	if summary.PercentageUsed != 50.0 {
		t.Errorf("PercentageUsed = %f, want 50", summary.PercentageUsed)
	}
	if len(summary.Purchases) != 2 {
		t.Errorf("Expected 2 purchases, got %d", len(summary.Purchases))
	}
}

func TestAddPurchase_RequiresBudget(t *testing.T) {
	service := newGroceryService()

	_, err := service.AddPurchase(uuid.New(), AddPurchaseInput{
		Description:  "Mercado",
		Amount:       decimal.NewFromInt(50_000),
		PurchaseDate: groceryRef,
	}, groceryRef)
	if err != domain.ErrGroceryBudgetNotFound {
		t.Errorf("Expected ErrGroceryBudgetNotFound, got %v", err)
	}
}

func TestSetBudget_ReplacesForSameCycle(t *testing.T) {
	service := newGroceryService()
	userID := uuid.New()

	first, err := service.SetBudget(userID, decimal.NewFromInt(300_000), groceryRef)
	if err != nil {
		t.Fatalf("SetBudget: %v", err)
	}
	second, err := service.SetBudget(userID, decimal.NewFromInt(450_000), groceryRef)
	if err != nil {
		t.Fatalf("SetBudget: %v", err)
	}

	if first.ID != second.ID {
		t.Error("Expected the same envelope to be updated, not a new one")
	}
	if want := decimal.NewFromInt(450_000); !second.BudgetAmount.Equal(want) {
		t.Errorf("BudgetAmount = %s, want %s", second.BudgetAmount, want)
	}
}

func TestSetBudget_RejectsNonPositive(t *testing.T) {
	service := newGroceryService()

	if _, err := service.SetBudget(uuid.New(), decimal.Zero, groceryRef); err != domain.ErrAmountInvalid {
		t.Errorf("Expected ErrAmountInvalid, got %v", err)
	}
}

package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrGroceryBudgetNotFound   = errors.New("grocery budget not found")
	ErrGroceryPurchaseNotFound = errors.New("grocery purchase not found")
)

// GroceryAlertLevel signals how much of the grocery envelope has been used.
type GroceryAlertLevel string

const (
	GroceryAlertSafe     GroceryAlertLevel = "safe"
	GroceryAlertWarning  GroceryAlertLevel = "warning"
	GroceryAlertDanger   GroceryAlertLevel = "danger"
	GroceryAlertExceeded GroceryAlertLevel = "exceeded"
)

// GroceryBudget is the grocery envelope for one budget cycle, keyed by the
// cycle window so each cycle gets its own amount.
type GroceryBudget struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"userId"`
	BudgetAmount   decimal.Decimal `json:"budgetAmount"`
	CycleStartDate time.Time       `json:"cycleStartDate"`
	CycleEndDate   time.Time       `json:"cycleEndDate"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// GroceryPurchase is one grocery spend inside a cycle.
type GroceryPurchase struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	GroceryBudgetID uuid.UUID       `json:"groceryBudgetId"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	PurchaseDate    time.Time       `json:"purchaseDate"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (p *GroceryPurchase) Validate() error {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrAmountInvalid
	}
	return nil
}

// GrocerySummary is the derived state of the current cycle's envelope.
type GrocerySummary struct {
	Budget         *GroceryBudget     `json:"budget"`
	Purchases      []*GroceryPurchase `json:"purchases"`
	TotalSpent     decimal.Decimal    `json:"totalSpent"`
	Remaining      decimal.Decimal    `json:"remaining"`
	PercentageUsed float64            `json:"percentageUsed"`
	AlertLevel     GroceryAlertLevel  `json:"alertLevel"`
}

type GroceryRepository interface {
	GetBudgetForCycle(userID uuid.UUID, cycleStart, cycleEnd time.Time) (*GroceryBudget, error)
	UpsertBudget(budget *GroceryBudget) (*GroceryBudget, error)
	CreatePurchase(purchase *GroceryPurchase) (*GroceryPurchase, error)
	GetPurchasesInRange(userID uuid.UUID, from, to time.Time) ([]*GroceryPurchase, error)
	DeletePurchase(userID, id uuid.UUID) error
}

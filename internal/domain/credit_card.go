package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCardNotFound         = errors.New("credit card not found")
	ErrCardNameEmpty        = errors.New("credit card name is required")
	ErrCardNameTooLong      = errors.New("credit card name must be 200 characters or less")
	ErrCardDayInvalid       = errors.New("card cut-off and payment due days must be between 1 and 31")
	ErrCardLimitInvalid     = errors.New("credit limit must not be negative")
	ErrPurchaseNotFound     = errors.New("card purchase not found")
	ErrPurchaseSettled      = errors.New("card purchase is already fully paid")
	ErrPurchaseCardMismatch = errors.New("purchase does not belong to this card")
)

// CreditCard is a revolving card. Interest is applied notionally to the
// card's aggregate remaining balance, never per purchase.
type CreditCard struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"userId"`
	Name           string          `json:"name"`
	Bank           string          `json:"bank"`
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	CutOffDay      int             `json:"cutOffDay"`
	PaymentDueDay  int             `json:"paymentDueDay"`
	InterestRate   decimal.Decimal `json:"interestRate"` // annual, percent
	IsShared       bool            `json:"isShared"`
	SharedBudgetID *uuid.UUID      `json:"sharedBudgetId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (c *CreditCard) Validate() error {
	if c.Name == "" {
		return ErrCardNameEmpty
	}
	if len(c.Name) > MaxNameLength {
		return ErrCardNameTooLong
	}
	if c.CutOffDay < 1 || c.CutOffDay > 31 || c.PaymentDueDay < 1 || c.PaymentDueDay > 31 {
		return ErrCardDayInvalid
	}
	if c.CreditLimit.IsNegative() {
		return ErrCardLimitInvalid
	}
	if c.InterestRate.IsNegative() {
		return ErrInterestRateInvalid
	}
	return nil
}

// CardPurchase is one installment purchase on a credit card. Purchases do not
// amortize with interest: the installment amount is a straight division of
// the total.
type CardPurchase struct {
	ID                uuid.UUID       `json:"id"`
	CreditCardID      uuid.UUID       `json:"creditCardId"`
	Description       string          `json:"description"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	InstallmentsTotal int32           `json:"installmentsTotal"`
	InstallmentsPaid  int32           `json:"installmentsPaid"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	PurchaseDate      time.Time       `json:"purchaseDate"`
	CreatedAt         time.Time       `json:"createdAt"`
}

func (p *CardPurchase) Validate() error {
	if p.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrAmountInvalid
	}
	if p.InstallmentsTotal < 1 {
		return ErrInstallmentsInvalid
	}
	if p.InstallmentsPaid < 0 || p.InstallmentsPaid > p.InstallmentsTotal {
		return ErrLoanPaymentsOutOfRange
	}
	return nil
}

// IsActive returns true while the purchase has unpaid installments.
func (p *CardPurchase) IsActive() bool {
	return p.InstallmentsPaid < p.InstallmentsTotal
}

// RemainingBalance is the sum of the installments not yet paid.
func (p *CardPurchase) RemainingBalance() decimal.Decimal {
	remaining := int64(p.InstallmentsTotal - p.InstallmentsPaid)
	return p.InstallmentAmount.Mul(decimal.NewFromInt(remaining))
}

// CardWithPurchases pairs a card with its purchases for aggregation.
type CardWithPurchases struct {
	Card      CreditCard
	Purchases []CardPurchase
}

// ActivePurchases returns the purchases that still have pending installments.
func (c *CardWithPurchases) ActivePurchases() []CardPurchase {
	active := make([]CardPurchase, 0, len(c.Purchases))
	for _, p := range c.Purchases {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// MonthlyPayment sums the installment amounts of the active purchases.
func (c *CardWithPurchases) MonthlyPayment() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.ActivePurchases() {
		total = total.Add(p.InstallmentAmount)
	}
	return total
}

// RemainingBalance sums the unpaid balances of the active purchases.
func (c *CardWithPurchases) RemainingBalance() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.ActivePurchases() {
		total = total.Add(p.RemainingBalance())
	}
	return total
}

type CreditCardRepository interface {
	Create(card *CreditCard) (*CreditCard, error)
	GetByID(userID, id uuid.UUID) (*CreditCard, error)
	GetAllByUser(userID uuid.UUID) ([]*CreditCard, error)
	GetSharedByBudget(budgetID uuid.UUID) ([]*CreditCard, error)
	Update(card *CreditCard) (*CreditCard, error)
	Delete(userID, id uuid.UUID) error
}

type CardPurchaseRepository interface {
	Create(purchase *CardPurchase) (*CardPurchase, error)
	GetByID(id uuid.UUID) (*CardPurchase, error)
	GetByCard(cardID uuid.UUID) ([]*CardPurchase, error)
	Update(purchase *CardPurchase) (*CardPurchase, error)
	Delete(id uuid.UUID) error
}

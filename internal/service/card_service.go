package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	ws "github.com/presupuesta/presupuesta-backend/internal/websocket"
)

// CardService handles credit card and card purchase business logic
type CardService struct {
	cardRepo     domain.CreditCardRepository
	purchaseRepo domain.CardPurchaseRepository
	publisher    ws.EventPublisher
}

// NewCardService creates a new CardService
func NewCardService(cardRepo domain.CreditCardRepository, purchaseRepo domain.CardPurchaseRepository, publisher ws.EventPublisher) *CardService {
	return &CardService{
		cardRepo:     cardRepo,
		purchaseRepo: purchaseRepo,
		publisher:    publisher,
	}
}

// CreateCardInput contains input for creating a credit card
type CreateCardInput struct {
	Name           string
	Bank           string
	CreditLimit    decimal.Decimal
	CutOffDay      int
	PaymentDueDay  int
	InterestRate   decimal.Decimal // annual, percent
	IsShared       bool
	SharedBudgetID *uuid.UUID
}

// CreateCard creates a credit card
func (s *CardService) CreateCard(userID uuid.UUID, input CreateCardInput) (*domain.CreditCard, error) {
	card := &domain.CreditCard{
		UserID:         userID,
		Name:           strings.TrimSpace(input.Name),
		Bank:           strings.TrimSpace(input.Bank),
		CreditLimit:    input.CreditLimit,
		CutOffDay:      input.CutOffDay,
		PaymentDueDay:  input.PaymentDueDay,
		InterestRate:   input.InterestRate,
		IsShared:       input.IsShared,
		SharedBudgetID: input.SharedBudgetID,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return s.cardRepo.Create(card)
}

// GetCards retrieves all cards for a user
func (s *CardService) GetCards(userID uuid.UUID) ([]*domain.CreditCard, error) {
	return s.cardRepo.GetAllByUser(userID)
}

// GetCardByID retrieves a card scoped to the user
func (s *CardService) GetCardByID(userID, id uuid.UUID) (*domain.CreditCard, error) {
	return s.cardRepo.GetByID(userID, id)
}

// GetCardWithPurchases retrieves a card together with its purchases
func (s *CardService) GetCardWithPurchases(userID, id uuid.UUID) (*domain.CardWithPurchases, error) {
	card, err := s.cardRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	purchases, err := s.purchaseRepo.GetByCard(card.ID)
	if err != nil {
		return nil, err
	}

	out := &domain.CardWithPurchases{Card: *card}
	for _, p := range purchases {
		out.Purchases = append(out.Purchases, *p)
	}
	return out, nil
}

// UpdateCardInput contains input for updating a credit card
type UpdateCardInput struct {
	Name           string
	Bank           string
	CreditLimit    decimal.Decimal
	CutOffDay      int
	PaymentDueDay  int
	InterestRate   decimal.Decimal
	IsShared       bool
	SharedBudgetID *uuid.UUID
}

// UpdateCard updates a credit card
func (s *CardService) UpdateCard(userID, id uuid.UUID, input UpdateCardInput) (*domain.CreditCard, error) {
	card, err := s.cardRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	card.Name = strings.TrimSpace(input.Name)
	card.Bank = strings.TrimSpace(input.Bank)
	card.CreditLimit = input.CreditLimit
	card.CutOffDay = input.CutOffDay
	card.PaymentDueDay = input.PaymentDueDay
	card.InterestRate = input.InterestRate
	card.IsShared = input.IsShared
	card.SharedBudgetID = input.SharedBudgetID

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return s.cardRepo.Update(card)
}

// DeleteCard removes a card scoped to the user
func (s *CardService) DeleteCard(userID, id uuid.UUID) error {
	if _, err := s.cardRepo.GetByID(userID, id); err != nil {
		return err
	}
	return s.cardRepo.Delete(userID, id)
}

// CreatePurchaseInput contains input for recording a card purchase
type CreatePurchaseInput struct {
	Description       string
	TotalAmount       decimal.Decimal
	InstallmentsTotal int32
	PurchaseDate      time.Time
}

// CreatePurchase records an installment purchase on a card. The installment
// amount is a straight division of the total; card interest is applied to
// the aggregate balance, never per purchase.
func (s *CardService) CreatePurchase(userID, cardID uuid.UUID, input CreatePurchaseInput) (*domain.CardPurchase, error) {
	card, err := s.cardRepo.GetByID(userID, cardID)
	if err != nil {
		return nil, err
	}

	purchase := &domain.CardPurchase{
		CreditCardID:      card.ID,
		Description:       strings.TrimSpace(input.Description),
		TotalAmount:       input.TotalAmount,
		InstallmentsTotal: input.InstallmentsTotal,
		InstallmentsPaid:  0,
		PurchaseDate:      input.PurchaseDate,
	}

	if err := purchase.Validate(); err != nil {
		return nil, err
	}

	months := decimal.NewFromInt(int64(purchase.InstallmentsTotal))
	purchase.InstallmentAmount = purchase.TotalAmount.Div(months).Round(2)

	return s.purchaseRepo.Create(purchase)
}

// PayPurchaseInstallment advances a purchase's payment counter by one
func (s *CardService) PayPurchaseInstallment(userID, cardID, purchaseID uuid.UUID) (*domain.CardPurchase, error) {
	card, err := s.cardRepo.GetByID(userID, cardID)
	if err != nil {
		return nil, err
	}

	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.CreditCardID != card.ID {
		return nil, domain.ErrPurchaseCardMismatch
	}
	if !purchase.IsActive() {
		return nil, domain.ErrPurchaseSettled
	}

	purchase.InstallmentsPaid++

	updated, err := s.purchaseRepo.Update(purchase)
	if err != nil {
		return nil, err
	}

	if card.IsShared && card.SharedBudgetID != nil {
		s.publisher.Publish(*card.SharedBudgetID, ws.CardPurchasePaid(updated))
	}

	return updated, nil
}

// DeletePurchase removes a purchase after verifying card ownership
func (s *CardService) DeletePurchase(userID, cardID, purchaseID uuid.UUID) error {
	card, err := s.cardRepo.GetByID(userID, cardID)
	if err != nil {
		return err
	}

	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return err
	}
	if purchase.CreditCardID != card.ID {
		return domain.ErrPurchaseCardMismatch
	}

	return s.purchaseRepo.Delete(purchaseID)
}

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	"github.com/presupuesta/presupuesta-backend/internal/middleware"
	"github.com/presupuesta/presupuesta-backend/internal/service"
)

// CardHandler handles credit card and card purchase HTTP requests
type CardHandler struct {
	cardService *service.CardService
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService *service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// CardRequest represents the create/update credit card request body
type CardRequest struct {
	Name           string  `json:"name"`
	Bank           string  `json:"bank"`
	CreditLimit    string  `json:"creditLimit"`
	CutOffDay      int     `json:"cutOffDay"`
	PaymentDueDay  int     `json:"paymentDueDay"`
	InterestRate   string  `json:"interestRate"`
	IsShared       bool    `json:"isShared"`
	SharedBudgetID *string `json:"sharedBudgetId,omitempty"`
}

// PurchaseRequest represents the create card purchase request body
type PurchaseRequest struct {
	Description       string `json:"description"`
	TotalAmount       string `json:"totalAmount"`
	InstallmentsTotal int32  `json:"installmentsTotal"`
	PurchaseDate      string `json:"purchaseDate"`
}

func (h *CardHandler) parseCardRequest(c echo.Context, req CardRequest) (service.CreateCardInput, error) {
	creditLimit := decimal.Zero
	if req.CreditLimit != "" {
		var err error
		creditLimit, err = decimal.NewFromString(req.CreditLimit)
		if err != nil {
			return service.CreateCardInput{}, NewValidationError(c, "Invalid credit limit", []ValidationError{
				{Field: "creditLimit", Message: "Must be a valid decimal number"},
			})
		}
	}

	interestRate := decimal.Zero
	if req.InterestRate != "" {
		var err error
		interestRate, err = decimal.NewFromString(req.InterestRate)
		if err != nil {
			return service.CreateCardInput{}, NewValidationError(c, "Invalid interest rate", []ValidationError{
				{Field: "interestRate", Message: "Must be a valid decimal number"},
			})
		}
	}

	sharedBudgetID, parseErr := parseSharedBudgetID(c, req.SharedBudgetID)
	if parseErr != nil {
		return service.CreateCardInput{}, parseErr
	}

	return service.CreateCardInput{
		Name:           req.Name,
		Bank:           req.Bank,
		CreditLimit:    creditLimit,
		CutOffDay:      req.CutOffDay,
		PaymentDueDay:  req.PaymentDueDay,
		InterestRate:   interestRate,
		IsShared:       req.IsShared,
		SharedBudgetID: sharedBudgetID,
	}, nil
}

func cardValidationResponse(c echo.Context, err error) (error, bool) {
	switch {
	case errors.Is(err, domain.ErrCardNameEmpty):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		}), true
	case errors.Is(err, domain.ErrCardNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 200 characters or less"},
		}), true
	case errors.Is(err, domain.ErrCardDayInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "cutOffDay", Message: "Cut-off and payment due days must be between 1 and 31"},
		}), true
	case errors.Is(err, domain.ErrCardLimitInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "creditLimit", Message: "Credit limit must not be negative"},
		}), true
	case errors.Is(err, domain.ErrInterestRateInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "interestRate", Message: "Interest rate must not be negative"},
		}), true
	}
	return nil, false
}

// CreateCard handles POST /api/v1/cards
func (h *CardHandler) CreateCard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, parseErr := h.parseCardRequest(c, req)
	if parseErr != nil {
		return parseErr
	}

	card, err := h.cardService.CreateCard(userID, input)
	if err != nil {
		if resp, ok := cardValidationResponse(c, err); ok {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create card")
		return NewInternalError(c, "Failed to create card")
	}

	log.Info().Str("user_id", userID.String()).Str("card_id", card.ID.String()).Str("name", card.Name).Msg("Card created")

	return c.JSON(http.StatusCreated, card)
}

// GetCards handles GET /api/v1/cards
func (h *CardHandler) GetCards(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cards, err := h.cardService.GetCards(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get cards")
		return NewInternalError(c, "Failed to get cards")
	}

	return c.JSON(http.StatusOK, cards)
}

// CardSummaryResponse carries the card's aggregate payment figures
type CardSummaryResponse struct {
	MonthlyPayment   decimal.Decimal `json:"monthlyPayment"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	ActivePurchases  int             `json:"activePurchases"`
}

// CardWithPurchasesResponse pairs a card with its purchases
type CardWithPurchasesResponse struct {
	Card      domain.CreditCard     `json:"card"`
	Purchases []domain.CardPurchase `json:"purchases"`
	Summary   CardSummaryResponse   `json:"summary"`
}

// GetCard handles GET /api/v1/cards/:id
// Returns the card together with its purchases
func (h *CardHandler) GetCard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	cwp, err := h.cardService.GetCardWithPurchases(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return NewNotFoundError(c, "Card not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("card_id", id.String()).Msg("Failed to get card")
		return NewInternalError(c, "Failed to get card")
	}

	purchases := cwp.Purchases
	if purchases == nil {
		purchases = []domain.CardPurchase{}
	}

	return c.JSON(http.StatusOK, CardWithPurchasesResponse{
		Card:      cwp.Card,
		Purchases: purchases,
		Summary: CardSummaryResponse{
			MonthlyPayment:   cwp.MonthlyPayment(),
			RemainingBalance: cwp.RemainingBalance(),
			ActivePurchases:  len(cwp.ActivePurchases()),
		},
	})
}

// UpdateCard handles PUT /api/v1/cards/:id
func (h *CardHandler) UpdateCard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, parseErr := h.parseCardRequest(c, req)
	if parseErr != nil {
		return parseErr
	}

	card, err := h.cardService.UpdateCard(userID, id, service.UpdateCardInput{
		Name:           input.Name,
		Bank:           input.Bank,
		CreditLimit:    input.CreditLimit,
		CutOffDay:      input.CutOffDay,
		PaymentDueDay:  input.PaymentDueDay,
		InterestRate:   input.InterestRate,
		IsShared:       input.IsShared,
		SharedBudgetID: input.SharedBudgetID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return NewNotFoundError(c, "Card not found")
		}
		if resp, ok := cardValidationResponse(c, err); ok {
			return resp
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("card_id", id.String()).Msg("Failed to update card")
		return NewInternalError(c, "Failed to update card")
	}

	return c.JSON(http.StatusOK, card)
}

// DeleteCard handles DELETE /api/v1/cards/:id
func (h *CardHandler) DeleteCard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	if err := h.cardService.DeleteCard(userID, id); err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return NewNotFoundError(c, "Card not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("card_id", id.String()).Msg("Failed to delete card")
		return NewInternalError(c, "Failed to delete card")
	}

	log.Info().Str("user_id", userID.String()).Str("card_id", id.String()).Msg("Card deleted")
	return c.NoContent(http.StatusNoContent)
}

// CreatePurchase handles POST /api/v1/cards/:id/purchases
func (h *CardHandler) CreatePurchase(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	var req PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid total amount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return NewValidationError(c, "Invalid purchase date", []ValidationError{
			{Field: "purchaseDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	purchase, err := h.cardService.CreatePurchase(userID, cardID, service.CreatePurchaseInput{
		Description:       req.Description,
		TotalAmount:       totalAmount,
		InstallmentsTotal: req.InstallmentsTotal,
		PurchaseDate:      purchaseDate,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return NewNotFoundError(c, "Card not found")
		}
		if errors.Is(err, domain.ErrAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "totalAmount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrInstallmentsInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "installmentsTotal", Message: "Must be at least 1"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("card_id", cardID.String()).Msg("Failed to create purchase")
		return NewInternalError(c, "Failed to create purchase")
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("card_id", cardID.String()).
		Str("purchase_id", purchase.ID.String()).
		Msg("Card purchase created")

	return c.JSON(http.StatusCreated, purchase)
}

// PayPurchaseInstallment handles POST /api/v1/cards/:id/purchases/:purchaseId/payments
func (h *CardHandler) PayPurchaseInstallment(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	purchaseID, err := uuid.Parse(c.Param("purchaseId"))
	if err != nil {
		return NewValidationError(c, "Invalid purchase ID", nil)
	}

	purchase, err := h.cardService.PayPurchaseInstallment(userID, cardID, purchaseID)
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return NewNotFoundError(c, "Card not found")
		}
		if errors.Is(err, domain.ErrPurchaseNotFound) || errors.Is(err, domain.ErrPurchaseCardMismatch) {
			return NewNotFoundError(c, "Purchase not found")
		}
		if errors.Is(err, domain.ErrPurchaseSettled) {
			return NewConflictError(c, "Purchase is already fully paid")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("purchase_id", purchaseID.String()).Msg("Failed to pay installment")
		return NewInternalError(c, "Failed to pay installment")
	}

	return c.JSON(http.StatusOK, purchase)
}

// DeletePurchase handles DELETE /api/v1/cards/:id/purchases/:purchaseId
func (h *CardHandler) DeletePurchase(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid card ID", nil)
	}

	purchaseID, err := uuid.Parse(c.Param("purchaseId"))
	if err != nil {
		return NewValidationError(c, "Invalid purchase ID", nil)
	}

	if err := h.cardService.DeletePurchase(userID, cardID, purchaseID); err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return NewNotFoundError(c, "Card not found")
		}
		if errors.Is(err, domain.ErrPurchaseNotFound) || errors.Is(err, domain.ErrPurchaseCardMismatch) {
			return NewNotFoundError(c, "Purchase not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("purchase_id", purchaseID.String()).Msg("Failed to delete purchase")
		return NewInternalError(c, "Failed to delete purchase")
	}

	return c.NoContent(http.StatusNoContent)
}

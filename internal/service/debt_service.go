package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/presupuesta/presupuesta-backend/internal/calc"
	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// DebtService aggregates loans and card balances into cycle-scoped
// debt obligations
type DebtService struct {
	loanRepo     domain.LoanRepository
	cardRepo     domain.CreditCardRepository
	purchaseRepo domain.CardPurchaseRepository
	prefService  *PreferenceService
}

// NewDebtService creates a new DebtService
func NewDebtService(loanRepo domain.LoanRepository, cardRepo domain.CreditCardRepository, purchaseRepo domain.CardPurchaseRepository, prefService *PreferenceService) *DebtService {
	return &DebtService{
		loanRepo:     loanRepo,
		cardRepo:     cardRepo,
		purchaseRepo: purchaseRepo,
		prefService:  prefService,
	}
}

// DebtSummary is the cycle-scoped debt view returned to the client
type DebtSummary struct {
	Cycle    domain.BudgetCycle   `json:"cycle"`
	Expenses []domain.DebtExpense `json:"expenses"`
	Totals   domain.DebtTotals    `json:"totals"`
}

// GetDebtSummary derives the user's debt obligations falling due in the
// current budget cycle
func (s *DebtService) GetDebtSummary(userID uuid.UUID, referenceDate time.Time) (*DebtSummary, error) {
	cycle, err := s.prefService.CurrentCycle(userID, referenceDate)
	if err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}

	cards, err := s.cardsWithPurchases(userID)
	if err != nil {
		return nil, err
	}

	loanValues := make([]domain.Loan, 0, len(loans))
	for _, l := range loans {
		loanValues = append(loanValues, *l)
	}

	expenses := calc.AggregateDebtExpenses(loanValues, cards, cycle, referenceDate)

	return &DebtSummary{
		Cycle:    cycle,
		Expenses: expenses,
		Totals:   calc.DebtTotals(expenses),
	}, nil
}

func (s *DebtService) cardsWithPurchases(userID uuid.UUID) ([]domain.CardWithPurchases, error) {
	cards, err := s.cardRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CardWithPurchases, 0, len(cards))
	for _, card := range cards {
		purchases, err := s.purchaseRepo.GetByCard(card.ID)
		if err != nil {
			return nil, err
		}
		cwp := domain.CardWithPurchases{Card: *card}
		for _, p := range purchases {
			cwp.Purchases = append(cwp.Purchases, *p)
		}
		out = append(out, cwp)
	}
	return out, nil
}

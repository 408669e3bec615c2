package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	"github.com/presupuesta/presupuesta-backend/internal/testutil"
)

func newDebtFixture() (*DebtService, *testutil.MockLoanRepository, *testutil.MockCreditCardRepository, *testutil.MockCardPurchaseRepository, *testutil.MockPreferenceRepository) {
	loanRepo := testutil.NewMockLoanRepository()
	cardRepo := testutil.NewMockCreditCardRepository()
	purchaseRepo := testutil.NewMockCardPurchaseRepository()
	prefRepo := testutil.NewMockPreferenceRepository()
	prefService := NewPreferenceService(prefRepo)

	return NewDebtService(loanRepo, cardRepo, purchaseRepo, prefService), loanRepo, cardRepo, purchaseRepo, prefRepo
}

func TestGetDebtSummary_LoanInCycle(t *testing.T) {
	service, loanRepo, _, _, _ := newDebtFixture()
	userID := uuid.New()

	// Default cycle start day 1: June cycle is Jun 1 – Jun 30.
	// Loan started Feb 10 with 3 paid → installment 4 due Jun 10.
	loanRepo.Create(&domain.Loan{
		UserID:            userID,
		Name:              "Carro",
		TotalAmount:       decimal.NewFromInt(1_000_000),
		InterestRate:      decimal.Zero,
		InstallmentsTotal: 10,
		InstallmentsPaid:  3,
		InstallmentAmount: decimal.NewFromInt(100_000),
		StartDate:         time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Status:            domain.LoanStatusActive,
	})

	summary, err := service.GetDebtSummary(userID, time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(summary.Expenses) != 1 {
		t.Fatalf("Expected 1 debt expense, got %d", len(summary.Expenses))
	}

	exp := summary.Expenses[0]
	if exp.Origin != domain.DebtOriginLoan {
		t.Errorf("Expected loan origin, got %s", exp.Origin)
	}
	if exp.InstallmentNumber != 4 {
		t.Errorf("Expected installment 4, got %d", exp.InstallmentNumber)
	}
	if exp.DueDate == nil || !exp.DueDate.Equal(time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected due Jun 10, got %v", exp.DueDate)
	}
	if want := decimal.NewFromInt(100_000); !summary.Totals.Total.Equal(want) {
		t.Errorf("Expected total %s, got %s", want, summary.Totals.Total)
	}
}

func TestGetDebtSummary_RespectsCycleStartDay(t *testing.T) {
	service, loanRepo, _, _, prefRepo := newDebtFixture()
	userID := uuid.New()

	// Cycle start day 15: on Jun 5 the cycle is May 15 – Jun 14.
	prefRepo.Upsert(&domain.UserPreferences{UserID: userID, CycleStartDay: 15, Currency: "COP"})

	// Next installment due Jun 20 → outside the running cycle
	loanRepo.Create(&domain.Loan{
		UserID:            userID,
		Name:              "Moto",
		TotalAmount:       decimal.NewFromInt(500_000),
		InterestRate:      decimal.Zero,
		InstallmentsTotal: 5,
		InstallmentsPaid:  0,
		InstallmentAmount: decimal.NewFromInt(100_000),
		StartDate:         time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
		Status:            domain.LoanStatusActive,
	})

	summary, err := service.GetDebtSummary(userID, time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(summary.Expenses) != 0 {
		t.Errorf("Expected no debt expenses outside cycle, got %d", len(summary.Expenses))
	}
}

func TestGetDebtSummary_CardAggregation(t *testing.T) {
	service, _, cardRepo, purchaseRepo, _ := newDebtFixture()
	userID := uuid.New()

	card, _ := cardRepo.Create(&domain.CreditCard{
		UserID:        userID,
		Name:          "Visa",
		Bank:          "Bancolombia",
		CreditLimit:   decimal.NewFromInt(5_000_000),
		CutOffDay:     15,
		PaymentDueDay: 20,
		InterestRate:  decimal.NewFromInt(24),
	})

	// 600,000 over 6, 2 paid → 100,000 monthly, 400,000 remaining
	purchaseRepo.Create(&domain.CardPurchase{
		CreditCardID:      card.ID,
		Description:       "Televisor",
		TotalAmount:       decimal.NewFromInt(600_000),
		InstallmentsTotal: 6,
		InstallmentsPaid:  2,
		InstallmentAmount: decimal.NewFromInt(100_000),
		PurchaseDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	// Settled purchase must not contribute
	purchaseRepo.Create(&domain.CardPurchase{
		CreditCardID:      card.ID,
		Description:       "Zapatos",
		TotalAmount:       decimal.NewFromInt(150_000),
		InstallmentsTotal: 3,
		InstallmentsPaid:  3,
		InstallmentAmount: decimal.NewFromInt(50_000),
		PurchaseDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	summary, err := service.GetDebtSummary(userID, time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(summary.Expenses) != 1 {
		t.Fatalf("Expected 1 aggregated card expense, got %d", len(summary.Expenses))
	}

	exp := summary.Expenses[0]
	if exp.Origin != domain.DebtOriginCreditCard {
		t.Errorf("Expected credit_card origin, got %s", exp.Origin)
	}
	if exp.SourceName != "Visa (Bancolombia)" {
		t.Errorf("Expected source name with bank, got %s", exp.SourceName)
	}
	// Principal 100,000; interest = 400,000 * 2% monthly = 8,000
	if want := decimal.NewFromInt(100_000); !exp.PrincipalAmount.Equal(want) {
		t.Errorf("Expected principal %s, got %s", want, exp.PrincipalAmount)
	}
	if want := decimal.NewFromInt(8_000); !exp.InterestAmount.Equal(want) {
		t.Errorf("Expected interest %s, got %s", want, exp.InterestAmount)
	}
	if exp.InstallmentNumber != domain.AggregatedInstallment {
		t.Errorf("Expected aggregated installment sentinel, got %d", exp.InstallmentNumber)
	}
}

func TestGetDebtSummary_MixedSortedByDueDate(t *testing.T) {
	service, loanRepo, cardRepo, purchaseRepo, _ := newDebtFixture()
	userID := uuid.New()

	// Loan due Jun 25
	loanRepo.Create(&domain.Loan{
		UserID:            userID,
		Name:              "Carro",
		TotalAmount:       decimal.NewFromInt(1_000_000),
		InterestRate:      decimal.Zero,
		InstallmentsTotal: 10,
		InstallmentsPaid:  0,
		InstallmentAmount: decimal.NewFromInt(100_000),
		StartDate:         time.Date(2026, 5, 25, 0, 0, 0, 0, time.UTC),
		Status:            domain.LoanStatusActive,
	})

	// Card due Jun 10
	card, _ := cardRepo.Create(&domain.CreditCard{
		UserID:        userID,
		Name:          "Visa",
		Bank:          "Davivienda",
		CreditLimit:   decimal.NewFromInt(2_000_000),
		CutOffDay:     1,
		PaymentDueDay: 10,
		InterestRate:  decimal.Zero,
	})
	purchaseRepo.Create(&domain.CardPurchase{
		CreditCardID:      card.ID,
		Description:       "Mercado",
		TotalAmount:       decimal.NewFromInt(300_000),
		InstallmentsTotal: 3,
		InstallmentsPaid:  0,
		InstallmentAmount: decimal.NewFromInt(100_000),
		PurchaseDate:      time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	summary, err := service.GetDebtSummary(userID, time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(summary.Expenses) != 2 {
		t.Fatalf("Expected 2 debt expenses, got %d", len(summary.Expenses))
	}

	// Card (Jun 10) sorts before loan (Jun 25)
	if summary.Expenses[0].Origin != domain.DebtOriginCreditCard {
		t.Errorf("Expected card first, got %s", summary.Expenses[0].Origin)
	}
	if summary.Expenses[1].Origin != domain.DebtOriginLoan {
		t.Errorf("Expected loan second, got %s", summary.Expenses[1].Origin)
	}

	// Totals split per origin
	if want := decimal.NewFromInt(100_000); !summary.Totals.Loans.Equal(want) {
		t.Errorf("Expected loan subtotal %s, got %s", want, summary.Totals.Loans)
	}
	if want := decimal.NewFromInt(100_000); !summary.Totals.Cards.Equal(want) {
		t.Errorf("Expected card subtotal %s, got %s", want, summary.Totals.Cards)
	}
}

func TestGetDebtSummary_Empty(t *testing.T) {
	service, _, _, _, _ := newDebtFixture()

	summary, err := service.GetDebtSummary(uuid.New(), time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(summary.Expenses) != 0 {
		t.Errorf("Expected no expenses, got %d", len(summary.Expenses))
	}
	if !summary.Totals.Total.IsZero() {
		t.Errorf("Expected zero total, got %s", summary.Totals.Total)
	}
}

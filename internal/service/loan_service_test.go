package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	"github.com/presupuesta/presupuesta-backend/internal/testutil"
)

func TestCreateLoan_Success(t *testing.T) {
	loanRepo := testutil.NewMockLoanRepository()
	service := NewLoanService(loanRepo, testutil.NewMockEventPublisher())

	userID := uuid.New()
	input := CreateLoanInput{
		Name:              "Carro",
		TotalAmount:       decimal.NewFromInt(1_200_000),
		InterestRate:      decimal.Zero,
		InstallmentsTotal: 12,
		StartDate:         time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	loan, err := service.CreateLoan(userID, input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Zero rate: straight division
	if want := decimal.NewFromInt(100_000); !loan.InstallmentAmount.Equal(want) {
		t.Errorf("Expected installment %s, got %s", want, loan.InstallmentAmount)
	}
	if loan.Status != domain.LoanStatusActive {
		t.Errorf("Expected status active, got %s", loan.Status)
	}
	if loan.InstallmentsPaid != 0 {
		t.Errorf("Expected 0 paid installments, got %d", loan.InstallmentsPaid)
	}
}

func TestCreateLoan_AnnuityInstallment(t *testing.T) {
	loanRepo := testutil.NewMockLoanRepository()
	service := NewLoanService(loanRepo, testutil.NewMockEventPublisher())

	loan, err := service.CreateLoan(uuid.New(), CreateLoanInput{
		Name:              "Moto",
		TotalAmount:       decimal.NewFromInt(10_000_000),
		InterestRate:      decimal.NewFromInt(24),
		InstallmentsTotal: 12,
		StartDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 24% annual → 2% monthly over 12 installments
	want := decimal.NewFromInt(945_596)
	if loan.InstallmentAmount.Sub(want).Abs().GreaterThan(decimal.NewFromInt(1)) {
		t.Errorf("Expected installment near %s, got %s", want, loan.InstallmentAmount)
	}
}

func TestCreateLoan_ValidationErrors(t *testing.T) {
	service := NewLoanService(testutil.NewMockLoanRepository(), testutil.NewMockEventPublisher())
	userID := uuid.New()

	tests := []struct {
		name    string
		input   CreateLoanInput
		wantErr error
	}{
		{
			name:    "empty name",
			input:   CreateLoanInput{TotalAmount: decimal.NewFromInt(100), InstallmentsTotal: 3},
			wantErr: domain.ErrLoanNameEmpty,
		},
		{
			name:    "zero amount",
			input:   CreateLoanInput{Name: "X", InstallmentsTotal: 3},
			wantErr: domain.ErrLoanAmountInvalid,
		},
		{
			name:    "zero term",
			input:   CreateLoanInput{Name: "X", TotalAmount: decimal.NewFromInt(100)},
			wantErr: domain.ErrLoanTermInvalid,
		},
		{
			name: "negative rate",
			input: CreateLoanInput{
				Name: "X", TotalAmount: decimal.NewFromInt(100),
				InterestRate: decimal.NewFromInt(-5), InstallmentsTotal: 3,
			},
			wantErr: domain.ErrLoanRateInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.CreateLoan(userID, tt.input); err != tt.wantErr {
				t.Errorf("CreateLoan() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterPayment_AdvancesCounterAndStatus(t *testing.T) {
	loanRepo := testutil.NewMockLoanRepository()
	service := NewLoanService(loanRepo, testutil.NewMockEventPublisher())

	userID := uuid.New()
	loan, err := service.CreateLoan(userID, CreateLoanInput{
		Name:              "Nevera",
		TotalAmount:       decimal.NewFromInt(300_000),
		InterestRate:      decimal.Zero,
		InstallmentsTotal: 2,
		StartDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}

	updated, err := service.RegisterPayment(userID, loan.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.InstallmentsPaid != 1 {
		t.Errorf("Expected 1 paid, got %d", updated.InstallmentsPaid)
	}
	if updated.Status != domain.LoanStatusActive {
		t.Errorf("Expected active, got %s", updated.Status)
	}

	updated, err = service.RegisterPayment(userID, loan.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Status != domain.LoanStatusPaid {
		t.Errorf("Expected paid after final installment, got %s", updated.Status)
	}

	// Paying beyond the term is rejected
	if _, err := service.RegisterPayment(userID, loan.ID); err != domain.ErrLoanAlreadyPaid {
		t.Errorf("Expected ErrLoanAlreadyPaid, got %v", err)
	}
}

func TestRegisterPayment_PublishesForSharedLoan(t *testing.T) {
	loanRepo := testutil.NewMockLoanRepository()
	publisher := testutil.NewMockEventPublisher()
	service := NewLoanService(loanRepo, publisher)

	userID := uuid.New()
	budgetID := uuid.New()
	loan, err := service.CreateLoan(userID, CreateLoanInput{
		Name:              "Viaje",
		TotalAmount:       decimal.NewFromInt(500_000),
		InterestRate:      decimal.Zero,
		InstallmentsTotal: 5,
		StartDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsShared:          true,
		SharedBudgetID:    &budgetID,
	})
	if err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}

	if _, err := service.RegisterPayment(userID, loan.ID); err != nil {
		t.Fatalf("RegisterPayment: %v", err)
	}

	events := publisher.Published()
	if len(events) != 1 {
		t.Fatalf("Expected 1 published event, got %d", len(events))
	}
	if events[0].BudgetID != budgetID {
		t.Errorf("Expected event on budget %s, got %s", budgetID, events[0].BudgetID)
	}
	if events[0].Event.Type != "loan_payment.paid" {
		t.Errorf("Expected loan_payment.paid, got %s", events[0].Event.Type)
	}
}

func TestMarkDefaulted(t *testing.T) {
	loanRepo := testutil.NewMockLoanRepository()
	service := NewLoanService(loanRepo, testutil.NewMockEventPublisher())

	userID := uuid.New()
	loan, err := service.CreateLoan(userID, CreateLoanInput{
		Name:              "Estufa",
		TotalAmount:       decimal.NewFromInt(200_000),
		InterestRate:      decimal.Zero,
		InstallmentsTotal: 4,
		StartDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}

	updated, err := service.MarkDefaulted(userID, loan.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Status != domain.LoanStatusDefaulted {
		t.Errorf("Expected defaulted, got %s", updated.Status)
	}

	// A later payment keeps defaulted until fully paid
	updated, err = service.RegisterPayment(userID, loan.ID)
	if err != nil {
		t.Fatalf("RegisterPayment: %v", err)
	}
	if updated.Status != domain.LoanStatusDefaulted {
		t.Errorf("Expected defaulted preserved, got %s", updated.Status)
	}
}

func TestSchedule_DerivesFullAmortization(t *testing.T) {
	loanRepo := testutil.NewMockLoanRepository()
	service := NewLoanService(loanRepo, testutil.NewMockEventPublisher())

	userID := uuid.New()
	loan, err := service.CreateLoan(userID, CreateLoanInput{
		Name:              "Lavadora",
		TotalAmount:       decimal.NewFromInt(1_000_000),
		InterestRate:      decimal.NewFromInt(24),
		InstallmentsTotal: 10,
		StartDate:         time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}

	if _, err := service.RegisterPayment(userID, loan.ID); err != nil {
		t.Fatalf("RegisterPayment: %v", err)
	}

	schedule, err := service.Schedule(userID, loan.ID)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(schedule) != 10 {
		t.Fatalf("Expected 10 rows, got %d", len(schedule))
	}

	// First installment interest = 1,000,000 * 2% = 20,000
	if want := decimal.NewFromInt(20_000); !schedule[0].Interest.Equal(want) {
		t.Errorf("Expected first interest %s, got %s", want, schedule[0].Interest)
	}
	if !schedule[0].Paid {
		t.Error("Expected first installment marked paid")
	}
	if schedule[1].Paid {
		t.Error("Expected second installment unpaid")
	}

	// Principal share grows over the schedule
	if !schedule[9].Principal.GreaterThan(schedule[0].Principal) {
		t.Error("Expected principal share to grow")
	}
}

func TestUpdateLoan_RecomputesInstallmentKeepsCounter(t *testing.T) {
	loanRepo := testutil.NewMockLoanRepository()
	service := NewLoanService(loanRepo, testutil.NewMockEventPublisher())

	userID := uuid.New()
	loan, err := service.CreateLoan(userID, CreateLoanInput{
		Name:              "Carro",
		TotalAmount:       decimal.NewFromInt(1_200_000),
		InterestRate:      decimal.Zero,
		InstallmentsTotal: 12,
		StartDate:         time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}

	if _, err := service.RegisterPayment(userID, loan.ID); err != nil {
		t.Fatalf("RegisterPayment: %v", err)
	}

	updated, err := service.UpdateLoan(userID, loan.ID, UpdateLoanInput{
		Name:              "Carro",
		TotalAmount:       decimal.NewFromInt(2_400_000),
		InterestRate:      decimal.Zero,
		InstallmentsTotal: 24,
		StartDate:         time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("UpdateLoan: %v", err)
	}

	// New terms: 2,400,000 / 24 at zero rate
	if want := decimal.NewFromInt(100_000); !updated.InstallmentAmount.Equal(want) {
		t.Errorf("Expected installment %s, got %s", want, updated.InstallmentAmount)
	}
	if updated.InstallmentsPaid != 1 {
		t.Errorf("Expected payment counter preserved at 1, got %d", updated.InstallmentsPaid)
	}
	if updated.Status != domain.LoanStatusActive {
		t.Errorf("Expected active, got %s", updated.Status)
	}
}

func TestUpdateLoan_TermBelowPaidRejected(t *testing.T) {
	loanRepo := testutil.NewMockLoanRepository()
	service := NewLoanService(loanRepo, testutil.NewMockEventPublisher())

	userID := uuid.New()
	loan, err := service.CreateLoan(userID, CreateLoanInput{
		Name:              "Moto",
		TotalAmount:       decimal.NewFromInt(600_000),
		InterestRate:      decimal.Zero,
		InstallmentsTotal: 6,
		StartDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := service.RegisterPayment(userID, loan.ID); err != nil {
			t.Fatalf("RegisterPayment: %v", err)
		}
	}

	if _, err := service.UpdateLoan(userID, loan.ID, UpdateLoanInput{
		Name:              "Moto",
		TotalAmount:       decimal.NewFromInt(600_000),
		InterestRate:      decimal.Zero,
		InstallmentsTotal: 2,
		StartDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}); err != domain.ErrLoanPaymentsOutOfRange {
		t.Errorf("Expected ErrLoanPaymentsOutOfRange, got %v", err)
	}
}

func TestPreviewLoan(t *testing.T) {
	service := NewLoanService(testutil.NewMockLoanRepository(), testutil.NewMockEventPublisher())

	preview, err := service.PreviewLoan(decimal.NewFromInt(1_000_000), decimal.NewFromInt(24), 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// First installment interest = 1,000,000 * 2% = 20,000
	if want := decimal.NewFromInt(20_000); !preview.FirstInterest.Equal(want) {
		t.Errorf("Expected first interest %s, got %s", want, preview.FirstInterest)
	}
	if !preview.FirstPrincipal.Add(preview.FirstInterest).Equal(preview.InstallmentAmount) {
		t.Error("Expected first split to sum to the installment")
	}
	if !preview.TotalInterest.GreaterThan(decimal.Zero) {
		t.Errorf("Expected positive total interest, got %s", preview.TotalInterest)
	}
	if !preview.TotalPayment.Equal(preview.InstallmentAmount.Mul(decimal.NewFromInt(10))) {
		t.Error("Expected total payment = installment x term")
	}
}

func TestPreviewLoan_InvalidInputs(t *testing.T) {
	service := NewLoanService(testutil.NewMockLoanRepository(), testutil.NewMockEventPublisher())

	if _, err := service.PreviewLoan(decimal.Zero, decimal.NewFromInt(10), 12); err != domain.ErrAmountInvalid {
		t.Errorf("Expected ErrAmountInvalid, got %v", err)
	}
	if _, err := service.PreviewLoan(decimal.NewFromInt(100), decimal.NewFromInt(10), 0); err != domain.ErrInstallmentsInvalid {
		t.Errorf("Expected ErrInstallmentsInvalid, got %v", err)
	}
}

func TestDeleteLoan_NotFound(t *testing.T) {
	service := NewLoanService(testutil.NewMockLoanRepository(), testutil.NewMockEventPublisher())

	if err := service.DeleteLoan(uuid.New(), uuid.New()); err != domain.ErrLoanNotFound {
		t.Errorf("Expected ErrLoanNotFound, got %v", err)
	}
}

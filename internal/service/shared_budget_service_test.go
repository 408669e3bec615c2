package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	"github.com/presupuesta/presupuesta-backend/internal/testutil"
)

type sharedBudgetFixture struct {
	service      *SharedBudgetService
	budgetRepo   *testutil.MockSharedBudgetRepository
	userRepo     *testutil.MockUserRepository
	incomeRepo   *testutil.MockIncomeRepository
	expenseRepo  *testutil.MockExpenseRepository
	loanRepo     *testutil.MockLoanRepository
	cardRepo     *testutil.MockCreditCardRepository
	purchaseRepo *testutil.MockCardPurchaseRepository
	publisher    *testutil.MockEventPublisher
}

func newSharedBudgetFixture() *sharedBudgetFixture {
	f := &sharedBudgetFixture{
		budgetRepo:   testutil.NewMockSharedBudgetRepository(),
		userRepo:     testutil.NewMockUserRepository(),
		incomeRepo:   testutil.NewMockIncomeRepository(),
		expenseRepo:  testutil.NewMockExpenseRepository(),
		loanRepo:     testutil.NewMockLoanRepository(),
		cardRepo:     testutil.NewMockCreditCardRepository(),
		purchaseRepo: testutil.NewMockCardPurchaseRepository(),
		publisher:    testutil.NewMockEventPublisher(),
	}
	prefService := NewPreferenceService(testutil.NewMockPreferenceRepository())
	f.service = NewSharedBudgetService(f.budgetRepo, f.userRepo, f.incomeRepo, f.expenseRepo, f.loanRepo, f.cardRepo, f.purchaseRepo, prefService, f.publisher)
	return f
}

func (f *sharedBudgetFixture) addUser(email string, netIncome int64) *domain.User {
	user := &domain.User{ID: uuid.New(), Auth0ID: "auth0|" + email, Email: email}
	f.userRepo.AddUser(user)
	if netIncome > 0 {
		f.incomeRepo.Create(&domain.IncomeRecord{
			UserID:      user.ID,
			Description: "Salario",
			GrossAmount: decimal.NewFromInt(netIncome),
			IncomeType:  domain.IncomeTypeExempt,
			NetAmount:   decimal.NewFromInt(netIncome),
		})
	}
	return user
}

func TestCreateBudget_OwnerMembership(t *testing.T) {
	f := newSharedBudgetFixture()
	owner := f.addUser("ana@example.com", 0)

	budget, err := f.service.CreateBudget(owner.ID, CreateBudgetInput{Name: "Hogar"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	members, err := f.budgetRepo.GetMembers(budget.ID)
	if err != nil {
		t.Fatalf("GetMembers: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("Expected 1 member, got %d", len(members))
	}
	if members[0].Role != domain.MemberRoleOwner {
		t.Errorf("Expected owner role, got %s", members[0].Role)
	}
	if members[0].InvitationStatus != domain.InvitationAccepted {
		t.Errorf("Expected accepted, got %s", members[0].InvitationStatus)
	}
}

func TestCreateBudget_RequiresName(t *testing.T) {
	f := newSharedBudgetFixture()

	if _, err := f.service.CreateBudget(uuid.New(), CreateBudgetInput{Name: "  "}); err != domain.ErrBudgetNameRequired {
		t.Errorf("Expected ErrBudgetNameRequired, got %v", err)
	}
}

func TestInviteMember_OnlyOwner(t *testing.T) {
	f := newSharedBudgetFixture()
	owner := f.addUser("ana@example.com", 0)
	member := f.addUser("luis@example.com", 0)

	budget, err := f.service.CreateBudget(owner.ID, CreateBudgetInput{Name: "Hogar"})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}

	inv, err := f.service.InviteMember(owner.ID, budget.ID, "Luis@Example.com ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if inv.InvitedEmail == nil || *inv.InvitedEmail != "luis@example.com" {
		t.Errorf("Expected normalized email, got %v", inv.InvitedEmail)
	}
	if inv.InvitationStatus != domain.InvitationPending {
		t.Errorf("Expected pending, got %s", inv.InvitationStatus)
	}

	// Duplicate invitation rejected
	if _, err := f.service.InviteMember(owner.ID, budget.ID, "luis@example.com"); err != domain.ErrMemberAlreadyInvited {
		t.Errorf("Expected ErrMemberAlreadyInvited, got %v", err)
	}

	// Non-member cannot invite
	if _, err := f.service.InviteMember(member.ID, budget.ID, "otro@example.com"); err != domain.ErrMemberNotFound {
		t.Errorf("Expected ErrMemberNotFound, got %v", err)
	}
}

func TestRespondInvitation_AcceptPublishes(t *testing.T) {
	f := newSharedBudgetFixture()
	owner := f.addUser("ana@example.com", 0)
	invitee := f.addUser("luis@example.com", 0)

	budget, err := f.service.CreateBudget(owner.ID, CreateBudgetInput{Name: "Hogar"})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}

	inv, err := f.service.InviteMember(owner.ID, budget.ID, invitee.Email)
	if err != nil {
		t.Fatalf("InviteMember: %v", err)
	}

	pending, err := f.service.PendingInvitations(invitee.ID)
	if err != nil {
		t.Fatalf("PendingInvitations: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("Expected 1 pending invitation, got %d", len(pending))
	}

	accepted, err := f.service.RespondInvitation(invitee.ID, inv.ID, true)
	if err != nil {
		t.Fatalf("RespondInvitation: %v", err)
	}
	if accepted.InvitationStatus != domain.InvitationAccepted {
		t.Errorf("Expected accepted, got %s", accepted.InvitationStatus)
	}
	if accepted.UserID == nil || *accepted.UserID != invitee.ID {
		t.Errorf("Expected invitation bound to user %s", invitee.ID)
	}

	events := f.publisher.Published()
	if len(events) != 1 || events[0].Event.Type != "member.joined" {
		t.Fatalf("Expected member.joined event, got %v", events)
	}
}

func TestRespondInvitation_Reject(t *testing.T) {
	f := newSharedBudgetFixture()
	owner := f.addUser("ana@example.com", 0)
	invitee := f.addUser("luis@example.com", 0)

	budget, _ := f.service.CreateBudget(owner.ID, CreateBudgetInput{Name: "Hogar"})
	inv, _ := f.service.InviteMember(owner.ID, budget.ID, invitee.Email)

	rejected, err := f.service.RespondInvitation(invitee.ID, inv.ID, false)
	if err != nil {
		t.Fatalf("RespondInvitation: %v", err)
	}
	if rejected.InvitationStatus != domain.InvitationRejected {
		t.Errorf("Expected rejected, got %s", rejected.InvitationStatus)
	}
	if len(f.publisher.Published()) != 0 {
		t.Error("Expected no events on rejection")
	}
}

func TestGetSummary_ProportionalAllocation(t *testing.T) {
	f := newSharedBudgetFixture()
	ana := f.addUser("ana@example.com", 3_000_000)
	luis := f.addUser("luis@example.com", 2_000_000)

	budget, err := f.service.CreateBudget(ana.ID, CreateBudgetInput{Name: "Hogar"})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	inv, err := f.service.InviteMember(ana.ID, budget.ID, luis.Email)
	if err != nil {
		t.Fatalf("InviteMember: %v", err)
	}
	if _, err := f.service.RespondInvitation(luis.ID, inv.ID, true); err != nil {
		t.Fatalf("RespondInvitation: %v", err)
	}

	// 1,000,000 of shared expenses, Ana paid 700,000
	f.expenseRepo.Create(&domain.Expense{
		UserID: ana.ID, Category: "Arriendo",
		Amount: decimal.NewFromInt(700_000), IsPaid: true, PaidBy: &ana.ID,
		IsShared: true, SharedBudgetID: &budget.ID,
		ExpenseDate: time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
	})
	f.expenseRepo.Create(&domain.Expense{
		UserID: luis.ID, Category: "Servicios",
		Amount: decimal.NewFromInt(300_000), IsPaid: true, PaidBy: &luis.ID,
		IsShared: true, SharedBudgetID: &budget.ID,
		ExpenseDate: time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC),
	})

	summary, err := f.service.GetSummary(ana.ID, budget.ID, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if want := decimal.NewFromInt(5_000_000); !summary.TotalIncome.Equal(want) {
		t.Errorf("TotalIncome = %s, want %s", summary.TotalIncome, want)
	}
	if want := decimal.NewFromInt(1_000_000); !summary.TotalExpenses.Equal(want) {
		t.Errorf("TotalExpenses = %s, want %s", summary.TotalExpenses, want)
	}
	if want := decimal.NewFromInt(4_000_000); !summary.Balance.Equal(want) {
		t.Errorf("Balance = %s, want %s", summary.Balance, want)
	}

	if len(summary.MemberSummaries) != 2 {
		t.Fatalf("Expected 2 member summaries, got %d", len(summary.MemberSummaries))
	}

	byUser := map[uuid.UUID]domain.MemberSummary{}
	for _, ms := range summary.MemberSummaries {
		byUser[ms.UserID] = ms
	}

	// Ana: 60% → expected 600,000, paid 700,000 → +100,000
	anaSummary := byUser[ana.ID]
	if want := decimal.NewFromInt(60); !anaSummary.IncomePercentage.Equal(want) {
		t.Errorf("Ana percentage = %s, want %s", anaSummary.IncomePercentage, want)
	}
	if want := decimal.NewFromInt(600_000); !anaSummary.ExpectedContribution.Equal(want) {
		t.Errorf("Ana expected = %s, want %s", anaSummary.ExpectedContribution, want)
	}
	if want := decimal.NewFromInt(100_000); !anaSummary.Difference.Equal(want) {
		t.Errorf("Ana difference = %s, want %s", anaSummary.Difference, want)
	}

	// Luis: 40% → expected 400,000, paid 300,000 → -100,000
	luisSummary := byUser[luis.ID]
	if want := decimal.NewFromInt(-100_000); !luisSummary.Difference.Equal(want) {
		t.Errorf("Luis difference = %s, want %s", luisSummary.Difference, want)
	}
}

func TestGetSummary_IncludesSharedDebt(t *testing.T) {
	f := newSharedBudgetFixture()
	ana := f.addUser("ana@example.com", 3_000_000)
	luis := f.addUser("luis@example.com", 2_000_000)

	budget, err := f.service.CreateBudget(ana.ID, CreateBudgetInput{Name: "Hogar"})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	inv, err := f.service.InviteMember(ana.ID, budget.ID, luis.Email)
	if err != nil {
		t.Fatalf("InviteMember: %v", err)
	}
	if _, err := f.service.RespondInvitation(luis.ID, inv.ID, true); err != nil {
		t.Fatalf("RespondInvitation: %v", err)
	}

	f.expenseRepo.Create(&domain.Expense{
		UserID: ana.ID, Category: "Arriendo",
		Amount: decimal.NewFromInt(400_000), IsPaid: true, PaidBy: &ana.ID,
		IsShared: true, SharedBudgetID: &budget.ID,
		ExpenseDate: time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
	})

	// Luis's shared loan contributes its installment
	f.loanRepo.Create(&domain.Loan{
		UserID: luis.ID, Name: "Carro",
		TotalAmount: decimal.NewFromInt(1_200_000), InterestRate: decimal.Zero,
		InstallmentsTotal: 12, InstallmentsPaid: 0,
		InstallmentAmount: decimal.NewFromInt(100_000),
		StartDate:         time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:            domain.LoanStatusActive,
		IsShared:          true, SharedBudgetID: &budget.ID,
	})
	// A settled shared loan contributes nothing
	f.loanRepo.Create(&domain.Loan{
		UserID: luis.ID, Name: "Viejo",
		TotalAmount: decimal.NewFromInt(600_000), InterestRate: decimal.Zero,
		InstallmentsTotal: 6, InstallmentsPaid: 6,
		InstallmentAmount: decimal.NewFromInt(100_000),
		StartDate:         time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:            domain.LoanStatusPaid,
		IsShared:          true, SharedBudgetID: &budget.ID,
	})

	// Ana's shared card: one active purchase, one settled
	card, err := f.cardRepo.Create(&domain.CreditCard{
		UserID: ana.ID, Name: "Visa", Bank: "Bancolombia",
		CutOffDay: 15, PaymentDueDay: 28,
		IsShared: true, SharedBudgetID: &budget.ID,
	})
	if err != nil {
		t.Fatalf("Create card: %v", err)
	}
	f.purchaseRepo.Create(&domain.CardPurchase{
		CreditCardID: card.ID, Description: "Televisor",
		TotalAmount: decimal.NewFromInt(300_000), InstallmentsTotal: 6,
		InstallmentsPaid: 2, InstallmentAmount: decimal.NewFromInt(50_000),
		PurchaseDate: time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
	})
	f.purchaseRepo.Create(&domain.CardPurchase{
		CreditCardID: card.ID, Description: "Mercado",
		TotalAmount: decimal.NewFromInt(90_000), InstallmentsTotal: 3,
		InstallmentsPaid: 3, InstallmentAmount: decimal.NewFromInt(30_000),
		PurchaseDate: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
	})

	summary, err := f.service.GetSummary(ana.ID, budget.ID, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	// 400,000 manual + 100,000 loan installment + 50,000 purchase installment
	if want := decimal.NewFromInt(550_000); !summary.TotalExpenses.Equal(want) {
		t.Errorf("TotalExpenses = %s, want %s", summary.TotalExpenses, want)
	}

	byUser := map[uuid.UUID]domain.MemberSummary{}
	for _, ms := range summary.MemberSummaries {
		byUser[ms.UserID] = ms
	}

	// Ana: 60% of 550,000 = 330,000 expected; debt entries are pending, so
	// only the manual expense counts toward her actual contribution
	anaSummary := byUser[ana.ID]
	if want := decimal.NewFromInt(330_000); !anaSummary.ExpectedContribution.Equal(want) {
		t.Errorf("Ana expected = %s, want %s", anaSummary.ExpectedContribution, want)
	}
	if want := decimal.NewFromInt(400_000); !anaSummary.ActualContribution.Equal(want) {
		t.Errorf("Ana actual = %s, want %s", anaSummary.ActualContribution, want)
	}

	luisSummary := byUser[luis.ID]
	if want := decimal.NewFromInt(220_000); !luisSummary.ExpectedContribution.Equal(want) {
		t.Errorf("Luis expected = %s, want %s", luisSummary.ExpectedContribution, want)
	}
	if !luisSummary.ActualContribution.IsZero() {
		t.Errorf("Luis actual = %s, want 0", luisSummary.ActualContribution)
	}
}

func TestGetSummary_CycleWindow(t *testing.T) {
	f := newSharedBudgetFixture()
	ana := f.addUser("ana@example.com", 1_000_000)

	budget, err := f.service.CreateBudget(ana.ID, CreateBudgetInput{Name: "Hogar"})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}

	// Default cycle start day 1: June cycle is Jun 1 – Jun 30
	f.expenseRepo.Create(&domain.Expense{
		UserID: ana.ID, Category: "Servicios",
		Amount: decimal.NewFromInt(200_000), IsPaid: true, PaidBy: &ana.ID,
		IsShared: true, SharedBudgetID: &budget.ID,
		ExpenseDate: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	f.expenseRepo.Create(&domain.Expense{
		UserID: ana.ID, Category: "Servicios",
		Amount: decimal.NewFromInt(150_000), IsPaid: true, PaidBy: &ana.ID,
		IsShared: true, SharedBudgetID: &budget.ID,
		ExpenseDate: time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
	})

	summary, err := f.service.GetSummary(ana.ID, budget.ID, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if summary.Cycle.TotalDays != 30 {
		t.Errorf("Expected 30-day June cycle, got %d", summary.Cycle.TotalDays)
	}
	// Only the June expense falls inside the window
	if want := decimal.NewFromInt(200_000); !summary.TotalExpenses.Equal(want) {
		t.Errorf("TotalExpenses = %s, want %s", summary.TotalExpenses, want)
	}
}

func TestGetSummary_RequiresMembership(t *testing.T) {
	f := newSharedBudgetFixture()
	owner := f.addUser("ana@example.com", 0)

	budget, _ := f.service.CreateBudget(owner.ID, CreateBudgetInput{Name: "Hogar"})

	outsider := f.addUser("extra@example.com", 0)
	if _, err := f.service.GetSummary(outsider.ID, budget.ID, time.Now()); err != domain.ErrNotBudgetMember {
		t.Errorf("Expected ErrNotBudgetMember, got %v", err)
	}
}

func TestRemoveMember_Permissions(t *testing.T) {
	f := newSharedBudgetFixture()
	owner := f.addUser("ana@example.com", 0)
	invitee := f.addUser("luis@example.com", 0)

	budget, _ := f.service.CreateBudget(owner.ID, CreateBudgetInput{Name: "Hogar"})
	inv, _ := f.service.InviteMember(owner.ID, budget.ID, invitee.Email)
	accepted, _ := f.service.RespondInvitation(invitee.ID, inv.ID, true)

	ownerRow, err := f.budgetRepo.GetMemberByUser(budget.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetMemberByUser: %v", err)
	}

	// Member cannot remove the owner
	if err := f.service.RemoveMember(invitee.ID, budget.ID, ownerRow.ID); err != domain.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}

	// Member can remove themselves
	if err := f.service.RemoveMember(invitee.ID, budget.ID, accepted.ID); err != nil {
		t.Errorf("Expected self-removal to succeed, got %v", err)
	}
}

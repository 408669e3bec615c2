package calc

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

func TestMemberSummaries_ProportionalSplit(t *testing.T) {
	// Net incomes 3,000,000 and 2,000,000 over 1,000,000 of expenses:
	// 60/40 split, expected contributions 600,000/400,000.
	alice := uuid.New()
	bob := uuid.New()
	members := []domain.ShareMember{
		{UserID: alice, Name: "Alice", NetIncome: decimal.NewFromInt(3_000_000)},
		{UserID: bob, Name: "Bob", NetIncome: decimal.NewFromInt(2_000_000)},
	}
	expenses := []domain.SharedExpense{
		{Amount: decimal.NewFromInt(700_000), PaidBy: &alice, IsPaid: true},
		{Amount: decimal.NewFromInt(300_000), PaidBy: &bob, IsPaid: true},
	}

	summaries := MemberSummaries(members, expenses)
	if len(summaries) != 2 {
		t.Fatalf("len(summaries) = %d, want 2", len(summaries))
	}

	if want := decimal.NewFromInt(60); !summaries[0].IncomePercentage.Equal(want) {
		t.Errorf("alice percentage = %s, want %s", summaries[0].IncomePercentage, want)
	}
	if want := decimal.NewFromInt(600_000); !summaries[0].ExpectedContribution.Equal(want) {
		t.Errorf("alice expected = %s, want %s", summaries[0].ExpectedContribution, want)
	}
	if want := decimal.NewFromInt(40); !summaries[1].IncomePercentage.Equal(want) {
		t.Errorf("bob percentage = %s, want %s", summaries[1].IncomePercentage, want)
	}
	if want := decimal.NewFromInt(400_000); !summaries[1].ExpectedContribution.Equal(want) {
		t.Errorf("bob expected = %s, want %s", summaries[1].ExpectedContribution, want)
	}

	// Alice paid 700,000 against 600,000 expected → +100,000
	if want := decimal.NewFromInt(100_000); !summaries[0].Difference.Equal(want) {
		t.Errorf("alice difference = %s, want %s", summaries[0].Difference, want)
	}
	if want := decimal.NewFromInt(-100_000); !summaries[1].Difference.Equal(want) {
		t.Errorf("bob difference = %s, want %s", summaries[1].Difference, want)
	}
}

func TestMemberSummaries_SingleMemberCarriesEverything(t *testing.T) {
	solo := uuid.New()
	members := []domain.ShareMember{
		{UserID: solo, Name: "Solo", NetIncome: decimal.NewFromInt(1_500_000)},
	}
	expenses := []domain.SharedExpense{
		{Amount: decimal.NewFromInt(250_000), IsPaid: false},
		{Amount: decimal.NewFromInt(150_000), IsPaid: false},
	}

	summaries := MemberSummaries(members, expenses)
	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d, want 1", len(summaries))
	}
	if want := decimal.NewFromInt(100); !summaries[0].IncomePercentage.Equal(want) {
		t.Errorf("percentage = %s, want 100", summaries[0].IncomePercentage)
	}
	if want := decimal.NewFromInt(400_000); !summaries[0].ExpectedContribution.Equal(want) {
		t.Errorf("expected = %s, want %s", summaries[0].ExpectedContribution, want)
	}
}

func TestMemberSummaries_ZeroTotalIncome(t *testing.T) {
	// Degenerate configuration: no income at all. Percentages and
	// expectations are zero, actual contributions still count.
	payer := uuid.New()
	other := uuid.New()
	members := []domain.ShareMember{
		{UserID: payer, NetIncome: decimal.Zero},
		{UserID: other, NetIncome: decimal.Zero},
	}
	expenses := []domain.SharedExpense{
		{Amount: decimal.NewFromInt(80_000), PaidBy: &payer, IsPaid: true},
	}

	summaries := MemberSummaries(members, expenses)
	for _, s := range summaries {
		if !s.IncomePercentage.IsZero() {
			t.Errorf("percentage = %s, want 0", s.IncomePercentage)
		}
		if !s.ExpectedContribution.IsZero() {
			t.Errorf("expected = %s, want 0", s.ExpectedContribution)
		}
	}
	if want := decimal.NewFromInt(80_000); !summaries[0].ActualContribution.Equal(want) {
		t.Errorf("payer actual = %s, want %s", summaries[0].ActualContribution, want)
	}
	if !summaries[0].Difference.IsPositive() {
		t.Errorf("payer difference = %s, want positive", summaries[0].Difference)
	}
}

func TestMemberSummaries_UnpaidExpensesNotAttributed(t *testing.T) {
	member := uuid.New()
	members := []domain.ShareMember{
		{UserID: member, NetIncome: decimal.NewFromInt(1_000_000)},
	}
	expenses := []domain.SharedExpense{
		{Amount: decimal.NewFromInt(50_000), PaidBy: &member, IsPaid: false},
		{Amount: decimal.NewFromInt(30_000), PaidBy: nil, IsPaid: true},
	}

	summaries := MemberSummaries(members, expenses)
	if !summaries[0].ActualContribution.IsZero() {
		t.Errorf("actual = %s, want 0", summaries[0].ActualContribution)
	}
}

func TestMemberSummaries_NoMembers(t *testing.T) {
	summaries := MemberSummaries(nil, []domain.SharedExpense{{Amount: decimal.NewFromInt(10)}})
	if len(summaries) != 0 {
		t.Errorf("len(summaries) = %d, want 0", len(summaries))
	}
}

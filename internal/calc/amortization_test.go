package calc

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

func TestInstallment_ZeroRate(t *testing.T) {
	// 1,200,000 over 12 months at 0% = 100,000 exactly
	got, err := Installment(decimal.NewFromInt(1_200_000), decimal.Zero, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.NewFromInt(100_000); !got.Equal(want) {
		t.Errorf("installment = %s, want %s", got, want)
	}
}

func TestInstallment_AnnuityRegression(t *testing.T) {
	// 10,000,000 at 24% over 12 months: monthly rate 0.02,
	// (1.02)^12 ≈ 1.2682418 → payment ≈ 945,596
	got, err := Installment(decimal.NewFromInt(10_000_000), decimal.NewFromInt(24), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := decimal.NewFromInt(945_596)
	if got.Sub(want).Abs().GreaterThan(decimal.NewFromInt(1)) {
		t.Errorf("installment = %s, want %s ±1", got, want)
	}
}

func TestInstallment_InvalidInputs(t *testing.T) {
	tests := []struct {
		name    string
		total   decimal.Decimal
		rate    decimal.Decimal
		months  int
		wantErr error
	}{
		{"zero total", decimal.Zero, decimal.Zero, 12, domain.ErrAmountInvalid},
		{"negative total", decimal.NewFromInt(-100), decimal.Zero, 12, domain.ErrAmountInvalid},
		{"negative rate", decimal.NewFromInt(100), decimal.NewFromInt(-1), 12, domain.ErrInterestRateInvalid},
		{"zero months", decimal.NewFromInt(100), decimal.Zero, 0, domain.ErrInstallmentsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Installment(tt.total, tt.rate, tt.months); err != tt.wantErr {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBreakdownAt_ZeroRate(t *testing.T) {
	installment := decimal.NewFromInt(100_000)
	for index := 0; index < 10; index++ {
		b, err := BreakdownAt(decimal.NewFromInt(1_000_000), decimal.Zero, 10, installment, index)
		if err != nil {
			t.Fatalf("index %d: unexpected error: %v", index, err)
		}
		if !b.Principal.Equal(installment) {
			t.Errorf("index %d: principal = %s, want %s", index, b.Principal, installment)
		}
		if !b.Interest.IsZero() {
			t.Errorf("index %d: interest = %s, want 0", index, b.Interest)
		}
	}
}

func TestBreakdownAt_FirstInstallmentInterest(t *testing.T) {
	// First installment interest is the full balance times the monthly rate:
	// 10,000,000 * 0.02 = 200,000
	total := decimal.NewFromInt(10_000_000)
	rate := decimal.NewFromInt(24)
	installment, _ := Installment(total, rate, 12)

	b, err := BreakdownAt(total, rate, 12, installment, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.NewFromInt(200_000); !b.Interest.Equal(want) {
		t.Errorf("interest = %s, want %s", b.Interest, want)
	}
	if !b.Principal.Add(b.Interest).Equal(installment) {
		t.Errorf("principal %s + interest %s != installment %s", b.Principal, b.Interest, installment)
	}
}

func TestBreakdownAt_PrincipalGrowsInterestShrinks(t *testing.T) {
	total := decimal.NewFromInt(5_000_000)
	rate := decimal.NewFromInt(18)
	months := 24
	installment, _ := Installment(total, rate, months)

	prev, _ := BreakdownAt(total, rate, months, installment, 0)
	for index := 1; index < months; index++ {
		cur, err := BreakdownAt(total, rate, months, installment, index)
		if err != nil {
			t.Fatalf("index %d: unexpected error: %v", index, err)
		}
		if cur.Interest.GreaterThan(prev.Interest) {
			t.Errorf("index %d: interest grew from %s to %s", index, prev.Interest, cur.Interest)
		}
		if cur.Principal.LessThan(prev.Principal) {
			t.Errorf("index %d: principal shrank from %s to %s", index, prev.Principal, cur.Principal)
		}
		prev = cur
	}
}

func TestBreakdownAt_ScheduleRetiresBalance(t *testing.T) {
	// Summing principal across all installments reconstructs the total
	// within a small epsilon (rounding of the fixed payment).
	cases := []struct {
		total  int64
		rate   int64
		months int
	}{
		{1_000_000, 12, 12},
		{10_000_000, 24, 12},
		{5_000_000, 36, 36},
	}

	epsilon := decimal.NewFromInt(50)
	for _, tc := range cases {
		total := decimal.NewFromInt(tc.total)
		rate := decimal.NewFromInt(tc.rate)
		installment, err := Installment(total, rate, tc.months)
		if err != nil {
			t.Fatalf("Installment: %v", err)
		}

		sum := decimal.Zero
		for i := 0; i < tc.months; i++ {
			b, err := BreakdownAt(total, rate, tc.months, installment, i)
			if err != nil {
				t.Fatalf("BreakdownAt(%d): %v", i, err)
			}
			sum = sum.Add(b.Principal)
		}

		if sum.Sub(total).Abs().GreaterThan(epsilon) {
			t.Errorf("total %s rate %s months %d: principal sum %s, want %s ±%s",
				total, rate, tc.months, sum, total, epsilon)
		}
	}
}

func TestBreakdownAt_ClampsNearPayoff(t *testing.T) {
	// A slightly oversized installment drives the balance negative before
	// the last index; outputs must still be non-negative.
	total := decimal.NewFromInt(1_000_000)
	rate := decimal.NewFromInt(12)
	months := 12
	installment, _ := Installment(total, rate, months)
	oversized := installment.Add(decimal.NewFromInt(10_000))

	b, err := BreakdownAt(total, rate, months, oversized, months-1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Principal.IsNegative() || b.Interest.IsNegative() {
		t.Errorf("breakdown has negative component: %+v", b)
	}
}

func TestBreakdownAt_NegativeIndexRejected(t *testing.T) {
	_, err := BreakdownAt(decimal.NewFromInt(1000), decimal.NewFromInt(10), 10, decimal.NewFromInt(105), -1)
	if err != domain.ErrInstallmentIndex {
		t.Errorf("error = %v, want ErrInstallmentIndex", err)
	}
}

func TestBreakdownAt_Deterministic(t *testing.T) {
	total := decimal.NewFromInt(2_000_000)
	rate := decimal.NewFromFloat(19.5)
	installment, _ := Installment(total, rate, 18)

	a, _ := BreakdownAt(total, rate, 18, installment, 7)
	b, _ := BreakdownAt(total, rate, 18, installment, 7)
	if !a.Principal.Equal(b.Principal) || !a.Interest.Equal(b.Interest) {
		t.Errorf("same inputs produced different breakdowns: %+v vs %+v", a, b)
	}
}

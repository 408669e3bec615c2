package calc

import (
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

var (
	hundred        = decimal.NewFromInt(100)
	twelve         = decimal.NewFromInt(12)
	one            = decimal.NewFromInt(1)
	currencyPlaces = int32(2)
)

// Breakdown is the principal/interest split of a single installment.
// Principal + Interest equals the installment amount up to rounding.
type Breakdown struct {
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
}

// Installment computes the fixed payment for a fixed-rate loan over the given
// number of months. With a zero rate it is a straight division; otherwise the
// standard annuity formula
//
//	payment = total * r * (1+r)^n / ((1+r)^n - 1)
//
// with r the monthly rate. Rounded to currency precision.
func Installment(total, annualRatePercent decimal.Decimal, months int) (decimal.Decimal, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.ErrAmountInvalid
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, domain.ErrInterestRateInvalid
	}
	if months < 1 {
		return decimal.Zero, domain.ErrInstallmentsInvalid
	}

	n := decimal.NewFromInt(int64(months))
	if annualRatePercent.IsZero() {
		return total.Div(n).Round(currencyPlaces), nil
	}

	r := monthlyRate(annualRatePercent)
	compound := one.Add(r).Pow(n)
	payment := total.Mul(r).Mul(compound).Div(compound.Sub(one))
	return payment.Round(currencyPlaces), nil
}

// BreakdownAt reconstructs the principal/interest split of the installment at
// index (0-based) by replaying the diminishing-balance schedule from
// origination. Only a payment counter is persisted, so the split must be
// derivable from the origination terms alone.
func BreakdownAt(total, annualRatePercent decimal.Decimal, months int, installmentAmount decimal.Decimal, index int) (Breakdown, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return Breakdown{}, domain.ErrAmountInvalid
	}
	if annualRatePercent.IsNegative() {
		return Breakdown{}, domain.ErrInterestRateInvalid
	}
	if months < 1 {
		return Breakdown{}, domain.ErrInstallmentsInvalid
	}
	if index < 0 {
		return Breakdown{}, domain.ErrInstallmentIndex
	}

	if annualRatePercent.IsZero() {
		return Breakdown{Principal: installmentAmount, Interest: decimal.Zero}, nil
	}

	r := monthlyRate(annualRatePercent)
	balance := total
	for i := 0; i < index; i++ {
		interest := balance.Mul(r)
		principal := installmentAmount.Sub(interest)
		balance = balance.Sub(principal)
	}

	interest := balance.Mul(r)
	principal := installmentAmount.Sub(interest)

	// Rounding drift near full payoff can push either side slightly
	// negative; clamp derived outputs only, never inputs.
	return Breakdown{
		Principal: clampNonNegative(principal),
		Interest:  clampNonNegative(interest),
	}, nil
}

func monthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(hundred).Div(twelve)
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

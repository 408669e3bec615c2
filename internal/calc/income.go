package calc

import (
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// Deduction rates. Labor contracts contribute on full gross; service
// contracts contribute on a 40% base with the contractor paying the full
// health and pension rates.
var (
	laborHealthRate    = decimal.NewFromFloat(0.04)
	laborPensionRate   = decimal.NewFromFloat(0.04)
	serviceBaseRate    = decimal.NewFromFloat(0.40)
	serviceHealthRate  = decimal.NewFromFloat(0.125)
	servicePensionRate = decimal.NewFromFloat(0.16)
)

// NetIncome computes the net amount for a gross income under the given income
// type. Deductions are always derived through DeductionBreakdown so that the
// net shown next to a breakdown view matches it to the cent.
func NetIncome(grossAmount decimal.Decimal, incomeType domain.IncomeType) (decimal.Decimal, error) {
	breakdown, err := DeductionBreakdown(grossAmount, incomeType)
	if err != nil {
		return decimal.Zero, err
	}
	return breakdown.NetAmount, nil
}

// DeductionBreakdown exposes the health and pension components of the
// deduction. An unrecognized income type falls through to the exempt branch:
// the record keeps its gross value rather than failing the whole computation.
func DeductionBreakdown(grossAmount decimal.Decimal, incomeType domain.IncomeType) (domain.DeductionBreakdown, error) {
	if grossAmount.IsNegative() {
		return domain.DeductionBreakdown{}, domain.ErrGrossAmountInvalid
	}

	var health, pension decimal.Decimal
	switch incomeType {
	case domain.IncomeTypeLaborContract:
		health = grossAmount.Mul(laborHealthRate)
		pension = grossAmount.Mul(laborPensionRate)
	case domain.IncomeTypeServiceContract:
		// Contribution base first: the ~11.4%-of-gross shortcut rounds
		// differently than the per-component view.
		base := grossAmount.Mul(serviceBaseRate)
		health = base.Mul(serviceHealthRate)
		pension = base.Mul(servicePensionRate)
	case domain.IncomeTypeExempt:
		health, pension = decimal.Zero, decimal.Zero
	default:
		// Unknown types are treated as exempt.
		health, pension = decimal.Zero, decimal.Zero
	}

	total := health.Add(pension)
	return domain.DeductionBreakdown{
		Health:    health,
		Pension:   pension,
		Total:     total,
		NetAmount: grossAmount.Sub(total),
	}, nil
}

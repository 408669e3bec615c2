package calc

import (
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// MemberSummaries computes each member's income-weighted expected
// contribution against the shared expenses, next to what they actually paid.
//
// A combined net income of zero is a valid degenerate configuration, not an
// error: every percentage and expectation is zero while actual contributions
// are still attributed, so a member who paid anything shows a positive
// difference.
func MemberSummaries(members []domain.ShareMember, expenses []domain.SharedExpense) []domain.MemberSummary {
	totalIncome := decimal.Zero
	for _, m := range members {
		totalIncome = totalIncome.Add(m.NetIncome)
	}
	totalExpenses := decimal.Zero
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}

	summaries := make([]domain.MemberSummary, 0, len(members))
	for _, m := range members {
		percentage := decimal.Zero
		expected := decimal.Zero
		if totalIncome.IsPositive() {
			percentage = m.NetIncome.Div(totalIncome).Mul(hundred)
			expected = totalExpenses.Mul(percentage).Div(hundred)
		}

		actual := decimal.Zero
		for _, e := range expenses {
			if e.IsPaid && e.PaidBy != nil && *e.PaidBy == m.UserID {
				actual = actual.Add(e.Amount)
			}
		}

		summaries = append(summaries, domain.MemberSummary{
			UserID:               m.UserID,
			Name:                 m.Name,
			NetIncome:            m.NetIncome,
			IncomePercentage:     percentage,
			ExpectedContribution: expected,
			ActualContribution:   actual,
			Difference:           actual.Sub(expected),
		})
	}
	return summaries
}

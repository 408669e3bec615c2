package calc

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	"github.com/presupuesta/presupuesta-backend/internal/util"
)

// AggregateDebtExpenses combines active loans and credit cards into the
// normalized list of obligations due within the cycle.
//
// Each active loan contributes its next unpaid installment, due one calendar
// month per installment number after the start date, with the
// principal/interest split replayed from origination terms. Each card with
// active purchases contributes a single aggregated obligation: the sum of the
// purchase installments plus one month of notional interest on the card's
// aggregate remaining balance (the card-level model, purchases themselves are
// interest free).
//
// The result is sorted by due date ascending; expenses without a due date
// sort last; ties keep input order.
func AggregateDebtExpenses(loans []domain.Loan, cards []domain.CardWithPurchases, cycle domain.BudgetCycle, referenceDate time.Time) []domain.DebtExpense {
	expenses := make([]domain.DebtExpense, 0, len(loans)+len(cards))

	for _, loan := range loans {
		if expense, ok := loanExpense(loan, cycle); ok {
			expenses = append(expenses, expense)
		}
	}

	for _, card := range cards {
		if expense, ok := cardExpense(card, cycle, referenceDate); ok {
			expenses = append(expenses, expense)
		}
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		a, b := expenses[i].DueDate, expenses[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	return expenses
}

func loanExpense(loan domain.Loan, cycle domain.BudgetCycle) (domain.DebtExpense, bool) {
	if !loan.IsActive() {
		return domain.DebtExpense{}, false
	}

	next := loan.InstallmentsPaid + 1
	dueDate := util.AddMonthsClamped(util.DateOnly(loan.StartDate), int(next))
	if !DateInCycle(dueDate, cycle) {
		return domain.DebtExpense{}, false
	}

	breakdown, err := BreakdownAt(loan.TotalAmount, loan.InterestRate, int(loan.InstallmentsTotal), loan.InstallmentAmount, int(loan.InstallmentsPaid))
	if err != nil {
		return domain.DebtExpense{}, false
	}

	return domain.DebtExpense{
		Origin:            domain.DebtOriginLoan,
		SourceID:          loan.ID,
		SourceName:        loan.Name,
		TotalAmount:       loan.InstallmentAmount,
		PrincipalAmount:   breakdown.Principal,
		InterestAmount:    breakdown.Interest,
		DueDate:           &dueDate,
		InstallmentNumber: next,
		InstallmentsTotal: loan.InstallmentsTotal,
		IsShared:          loan.IsShared,
		SharedBudgetID:    loan.SharedBudgetID,
	}, true
}

func cardExpense(card domain.CardWithPurchases, cycle domain.BudgetCycle, referenceDate time.Time) (domain.DebtExpense, bool) {
	if len(card.ActivePurchases()) == 0 {
		return domain.DebtExpense{}, false
	}

	monthlyPayment := card.MonthlyPayment()
	remainingBalance := card.RemainingBalance()
	if monthlyPayment.LessThanOrEqual(decimal.Zero) {
		return domain.DebtExpense{}, false
	}

	dueDate := nextDueDate(card.Card.PaymentDueDay, referenceDate)
	if !DateInCycle(dueDate, cycle) {
		return domain.DebtExpense{}, false
	}

	monthlyInterest := remainingBalance.Mul(monthlyRate(card.Card.InterestRate))

	return domain.DebtExpense{
		Origin:            domain.DebtOriginCreditCard,
		SourceID:          card.Card.ID,
		SourceName:        card.Card.Name + " (" + card.Card.Bank + ")",
		TotalAmount:       monthlyPayment.Add(monthlyInterest),
		PrincipalAmount:   monthlyPayment,
		InterestAmount:    monthlyInterest,
		DueDate:           &dueDate,
		InstallmentNumber: domain.AggregatedInstallment,
		InstallmentsTotal: 0,
		IsShared:          card.Card.IsShared,
		SharedBudgetID:    card.Card.SharedBudgetID,
	}, true
}

// nextDueDate finds the next occurrence of the card's payment due day on or
// after the reference date; a due day already passed this month rolls over to
// the next month.
func nextDueDate(paymentDueDay int, referenceDate time.Time) time.Time {
	ref := util.DateOnly(referenceDate)
	if ref.Day() >= paymentDueDay {
		return util.ClampedDate(ref.Year(), ref.Month()+1, paymentDueDay)
	}
	return util.ClampedDate(ref.Year(), ref.Month(), paymentDueDay)
}

// DebtTotals sums the aggregated expenses, with per-origin subtotals.
func DebtTotals(expenses []domain.DebtExpense) domain.DebtTotals {
	totals := domain.DebtTotals{
		Total:     decimal.Zero,
		Principal: decimal.Zero,
		Interest:  decimal.Zero,
		Loans:     decimal.Zero,
		Cards:     decimal.Zero,
	}
	for _, e := range expenses {
		totals.Total = totals.Total.Add(e.TotalAmount)
		totals.Principal = totals.Principal.Add(e.PrincipalAmount)
		totals.Interest = totals.Interest.Add(e.InterestAmount)
		switch e.Origin {
		case domain.DebtOriginLoan:
			totals.Loans = totals.Loans.Add(e.TotalAmount)
		case domain.DebtOriginCreditCard:
			totals.Cards = totals.Cards.Add(e.TotalAmount)
		}
	}
	return totals
}

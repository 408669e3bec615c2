package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtOrigin distinguishes the instrument behind a debt expense.
type DebtOrigin string

const (
	DebtOriginLoan       DebtOrigin = "loan"
	DebtOriginCreditCard DebtOrigin = "credit_card"
)

// AggregatedInstallment marks a DebtExpense that sums several purchase
// installments into one card obligation rather than a single installment.
const AggregatedInstallment = 0

// DebtExpense is one upcoming obligation derived for the current cycle. It is
// never persisted: loans project their next unpaid installment, cards project
// one aggregated monthly obligation.
type DebtExpense struct {
	Origin            DebtOrigin      `json:"origin"`
	SourceID          uuid.UUID       `json:"sourceId"`
	SourceName        string          `json:"sourceName"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	PrincipalAmount   decimal.Decimal `json:"principalAmount"`
	InterestAmount    decimal.Decimal `json:"interestAmount"`
	DueDate           *time.Time      `json:"dueDate"`
	InstallmentNumber int32           `json:"installmentNumber"`
	InstallmentsTotal int32           `json:"installmentsTotal"`
	IsShared          bool            `json:"isShared"`
	SharedBudgetID    *uuid.UUID      `json:"sharedBudgetId,omitempty"`
}

// DebtTotals sums a list of debt expenses.
type DebtTotals struct {
	Total     decimal.Decimal `json:"total"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Loans     decimal.Decimal `json:"loans"`
	Cards     decimal.Decimal `json:"cards"`
}

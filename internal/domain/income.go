package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrIncomeNotFound = errors.New("income record not found")
)

// IncomeType classifies how an income is taxed for social security.
type IncomeType string

const (
	// IncomeTypeLaborContract deducts 4% health + 4% pension on full gross.
	IncomeTypeLaborContract IncomeType = "labor_contract"
	// IncomeTypeServiceContract deducts health (12.5%) and pension (16%)
	// over a contribution base of 40% of gross.
	IncomeTypeServiceContract IncomeType = "service_contract"
	// IncomeTypeExempt has no deductions (dividends, rent, etc).
	IncomeTypeExempt IncomeType = "exempt"
)

// IncomeRecord is one income entry. NetAmount is derived and recomputed
// whenever GrossAmount or IncomeType changes.
type IncomeRecord struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	Description  string          `json:"description"`
	GrossAmount  decimal.Decimal `json:"grossAmount"`
	IncomeType   IncomeType      `json:"incomeType"`
	NetAmount    decimal.Decimal `json:"netAmount"`
	ReceivedDate time.Time       `json:"receivedDate"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (i *IncomeRecord) Validate() error {
	if i.GrossAmount.LessThanOrEqual(decimal.Zero) {
		return ErrAmountInvalid
	}
	return nil
}

// DeductionBreakdown exposes the individual deduction components for display.
// Total = Health + Pension; NetAmount = gross - Total.
type DeductionBreakdown struct {
	Health    decimal.Decimal `json:"health"`
	Pension   decimal.Decimal `json:"pension"`
	Total     decimal.Decimal `json:"total"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

type IncomeRepository interface {
	Create(income *IncomeRecord) (*IncomeRecord, error)
	GetByID(userID, id uuid.UUID) (*IncomeRecord, error)
	GetAllByUser(userID uuid.UUID) ([]*IncomeRecord, error)
	TotalNetByUser(userID uuid.UUID) (decimal.Decimal, error)
	Update(income *IncomeRecord) (*IncomeRecord, error)
	Delete(userID, id uuid.UUID) error
}

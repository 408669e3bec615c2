package domain

import "errors"

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalError = errors.New("internal error")
	ErrUserNotFound  = errors.New("user not found")

	ErrPreferencesNotFound = errors.New("user preferences not found")

	// Calculation input errors
	ErrCycleStartDayInvalid = errors.New("cycle start day must be between 1 and 28")
	ErrGrossAmountInvalid   = errors.New("gross amount must not be negative")
	ErrInterestRateInvalid  = errors.New("interest rate must not be negative")
	ErrAmountInvalid        = errors.New("amount must be positive")
	ErrInstallmentsInvalid  = errors.New("number of installments must be at least 1")
	ErrInstallmentIndex     = errors.New("installment index must not be negative")
)

// Validation constants
const (
	MaxNameLength = 200
)

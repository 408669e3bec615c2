package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/presupuesta/presupuesta-backend/internal/calc"
	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// PreferenceService handles user preference business logic
type PreferenceService struct {
	prefRepo domain.PreferenceRepository
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(prefRepo domain.PreferenceRepository) *PreferenceService {
	return &PreferenceService{prefRepo: prefRepo}
}

// GetPreferences retrieves the user's preferences, falling back to defaults
func (s *PreferenceService) GetPreferences(userID uuid.UUID) (*domain.UserPreferences, error) {
	prefs, err := s.prefRepo.Get(userID)
	if err != nil {
		if errors.Is(err, domain.ErrPreferencesNotFound) {
			return domain.DefaultPreferences(userID), nil
		}
		return nil, err
	}
	return prefs, nil
}

// UpdatePreferencesInput contains input for updating preferences
type UpdatePreferencesInput struct {
	CycleStartDay int
	Currency      string
}

// UpdatePreferences validates and stores the user's preferences
func (s *PreferenceService) UpdatePreferences(userID uuid.UUID, input UpdatePreferencesInput) (*domain.UserPreferences, error) {
	if !domain.ValidCycleStartDay(input.CycleStartDay) {
		return nil, domain.ErrCycleStartDayInvalid
	}

	currency := input.Currency
	if currency == "" {
		currency = domain.DefaultPreferences(userID).Currency
	}

	return s.prefRepo.Upsert(&domain.UserPreferences{
		UserID:        userID,
		CycleStartDay: input.CycleStartDay,
		Currency:      currency,
	})
}

// CurrentCycle resolves the user's budget cycle for a reference date
func (s *PreferenceService) CurrentCycle(userID uuid.UUID, referenceDate time.Time) (domain.BudgetCycle, error) {
	prefs, err := s.GetPreferences(userID)
	if err != nil {
		return domain.BudgetCycle{}, err
	}
	return calc.CurrentCycle(prefs.CycleStartDay, referenceDate)
}

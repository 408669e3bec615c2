package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// PreferenceRepository implements domain.PreferenceRepository using PostgreSQL
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// Get retrieves the preferences of a user
func (r *PreferenceRepository) Get(userID uuid.UUID) (*domain.UserPreferences, error) {
	var p domain.UserPreferences
	err := r.pool.QueryRow(context.Background(), `
		SELECT user_id, cycle_start_day, currency, updated_at
		FROM user_preferences WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.CycleStartDay, &p.Currency, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrPreferencesNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Upsert creates or replaces the preferences of a user
func (r *PreferenceRepository) Upsert(prefs *domain.UserPreferences) (*domain.UserPreferences, error) {
	var p domain.UserPreferences
	err := r.pool.QueryRow(context.Background(), `
		INSERT INTO user_preferences (user_id, cycle_start_day, currency)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET cycle_start_day = EXCLUDED.cycle_start_day,
			currency = EXCLUDED.currency,
			updated_at = now()
		RETURNING user_id, cycle_start_day, currency, updated_at`,
		prefs.UserID, prefs.CycleStartDay, prefs.Currency).
		Scan(&p.UserID, &p.CycleStartDay, &p.Currency, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account, resolved from the Auth0 subject claim.
type User struct {
	ID        uuid.UUID `json:"id"`
	Auth0ID   string    `json:"-"`
	Email     string    `json:"email"`
	FullName  *string   `json:"fullName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserPreferences holds per-user settings. The cycle start day anchors every
// cycle-scoped query for the user.
type UserPreferences struct {
	UserID        uuid.UUID `json:"userId"`
	CycleStartDay int       `json:"cycleStartDay"`
	Currency      string    `json:"currency"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DefaultPreferences returns the preferences a new user starts with.
func DefaultPreferences(userID uuid.UUID) *UserPreferences {
	return &UserPreferences{
		UserID:        userID,
		CycleStartDay: 1,
		Currency:      "COP",
	}
}

type UserRepository interface {
	CreateOrGetByAuth0ID(auth0ID, email string, fullName *string) (*User, error)
	GetByID(id uuid.UUID) (*User, error)
	GetByAuth0ID(auth0ID string) (*User, error)
	GetByEmail(email string) (*User, error)
}

type PreferenceRepository interface {
	Get(userID uuid.UUID) (*UserPreferences, error)
	Upsert(prefs *UserPreferences) (*UserPreferences, error)
}

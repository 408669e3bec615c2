package domain

import "time"

// Cycle start day bounds. Days 29-31 are rejected because the cycle end would
// be undefined in shorter months.
const (
	MinCycleStartDay = 1
	MaxCycleStartDay = 28
)

// BudgetCycle is the active budgeting period derived from a user's cycle
// start day. It is a value object: recomputed from a reference date on every
// query, never stored as authoritative state.
type BudgetCycle struct {
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	TotalDays          int       `json:"totalDays"`
	DaysElapsed        int       `json:"daysElapsed"`
	DaysRemaining      int       `json:"daysRemaining"`
	ProgressPercentage float64   `json:"progressPercentage"`
}

// ValidCycleStartDay reports whether day can anchor a cycle.
func ValidCycleStartDay(day int) bool {
	return day >= MinCycleStartDay && day <= MaxCycleStartDay
}

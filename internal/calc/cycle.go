// Package calc is the financial calculation engine. Every function here is
// pure and deterministic: money is decimal, the reference date is always an
// explicit argument and no function reads the ambient clock or performs I/O.
package calc

import (
	"time"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	"github.com/presupuesta/presupuesta-backend/internal/util"
)

// CurrentCycle derives the budget cycle containing referenceDate for a cycle
// anchored at cycleStartDay (1-28).
//
// If the reference day-of-month is on or after the start day, the cycle
// started this month; otherwise it started the previous month. The cycle ends
// the day before the next cycle starts. For cycleStartDay 1 that end lands on
// "day 0" of the following month, which time.Date normalizes to the last day
// of the start month, giving a full calendar-month cycle.
func CurrentCycle(cycleStartDay int, referenceDate time.Time) (domain.BudgetCycle, error) {
	if !domain.ValidCycleStartDay(cycleStartDay) {
		return domain.BudgetCycle{}, domain.ErrCycleStartDayInvalid
	}

	ref := util.DateOnly(referenceDate)
	year, month := ref.Year(), ref.Month()

	var start, end time.Time
	if ref.Day() >= cycleStartDay {
		start = time.Date(year, month, cycleStartDay, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, month+1, cycleStartDay-1, 0, 0, 0, 0, time.UTC)
	} else {
		start = time.Date(year, month-1, cycleStartDay, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, month, cycleStartDay-1, 0, 0, 0, 0, time.UTC)
	}

	totalDays := inclusiveDays(start, end)
	daysElapsed := inclusiveDays(start, ref)
	daysRemaining := totalDays - daysElapsed
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	progress := 100 * float64(daysElapsed) / float64(totalDays)
	if progress > 100 {
		progress = 100
	}

	return domain.BudgetCycle{
		StartDate:          start,
		EndDate:            end,
		TotalDays:          totalDays,
		DaysElapsed:        daysElapsed,
		DaysRemaining:      daysRemaining,
		ProgressPercentage: progress,
	}, nil
}

// DateInCycle reports whether date falls inside the cycle, inclusive on both
// ends. Time-of-day is ignored.
func DateInCycle(date time.Time, cycle domain.BudgetCycle) bool {
	d := util.DateOnly(date)
	return !d.Before(util.DateOnly(cycle.StartDate)) && !d.After(util.DateOnly(cycle.EndDate))
}

// inclusiveDays counts days from a through b, both included.
func inclusiveDays(a, b time.Time) int {
	return int(b.Sub(a).Hours()/24) + 1
}

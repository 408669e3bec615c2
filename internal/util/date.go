package util

import "time"

// DateOnly strips the time-of-day and normalizes to UTC midnight.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDate builds a date for targetDay in the given month, clamping to the
// month's last day when the month is shorter (e.g. day 31 in February).
func ClampedDate(year int, month time.Month, targetDay int) time.Time {
	lastDay := LastDayOfMonth(year, month)
	if targetDay > lastDay {
		targetDay = lastDay
	}
	return time.Date(year, month, targetDay, 0, 0, 0, 0, time.UTC)
}

// AddMonthsClamped moves a date forward by n calendar months, preserving the
// day of month where possible and clamping to the month end otherwise.
// time.AddDate is avoided because it normalizes Jan 31 + 1 month to Mar 2/3.
func AddMonthsClamped(t time.Time, n int) time.Time {
	total := int(t.Month()) - 1 + n
	year := t.Year() + total/12
	month := time.Month(total%12 + 1)
	if total < 0 {
		// Go's integer division truncates toward zero
		year = t.Year() + (total-11)/12
		month = time.Month((total%12+12)%12 + 1)
	}
	return ClampedDate(year, month, t.Day())
}

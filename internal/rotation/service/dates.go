package service

import "time"

// Rotation thresholds in days. Upper bounds are inclusive.
const (
	criticalThresholdDays  = 7
	warningThresholdDays   = 15
	alertHorizonDays       = 30
	slowMoverThresholdDays = 60
)

// calendarDaysBetween returns the number of whole calendar days from one date
// to another. Time-of-day is discarded on both sides so clock skew around
// midnight cannot shift the result by a day.
func calendarDaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// stalenessDays returns the days elapsed since the lot's last recorded
// movement. A lot without one counts as moved today (zero staleness).
func stalenessDays(today time.Time, lastMovement *time.Time) int {
	if lastMovement == nil {
		return 0
	}
	return calendarDaysBetween(*lastMovement, today)
}

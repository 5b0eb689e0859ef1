package domain

import "time"

// Period is a half-open calendar-month interval [Start, End): day 1 00:00
// of the month through day 1 00:00 of the next month, in UTC. All monthly
// bucketing goes through it. Periods are derived values, never persisted.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod returns the Period for the given year and month. Out-of-range
// months roll over the calendar (month 13 becomes January of year+1),
// matching time.Date normalization.
func NewPeriod(year, month int) Period {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Period{
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}
}

// PeriodOf returns the Period containing the given instant.
func PeriodOf(t time.Time) Period {
	t = t.UTC()
	return NewPeriod(t.Year(), int(t.Month()))
}

// Contains reports whether t falls inside the period. The start is
// inclusive, the end exclusive.
func (p Period) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(p.Start) && t.Before(p.End)
}

// AddMonths returns the period shifted by n calendar months. Negative n
// shifts backwards.
func (p Period) AddMonths(n int) Period {
	return NewPeriod(p.Start.Year(), int(p.Start.Month())+n)
}

// Year returns the period's calendar year.
func (p Period) Year() int {
	return p.Start.Year()
}

// Month returns the period's calendar month (1-12).
func (p Period) Month() int {
	return int(p.Start.Month())
}

// Label returns a short human-readable month label, e.g. "Jan 2025".
func (p Period) Label() string {
	return p.Start.Format("Jan 2006")
}

package domain

import "time"

// DaysPerWeek is fixed: a week always runs Monday through Sunday (ISO).
const DaysPerWeek = 7

// Week is a Monday-anchored calendar week.
type Week struct {
	start time.Time // Monday, midnight UTC
}

// WeekOf returns the week containing the given date. Any time-of-day
// component is ignored.
func WeekOf(t time.Time) Week {
	d := DateOnly(t)
	// time.Weekday has Sunday == 0; shift so Monday == 0.
	offset := (int(d.Weekday()) + 6) % DaysPerWeek
	return Week{start: d.AddDate(0, 0, -offset)}
}

// ParseWeekStart parses a wire-format date and returns its week.
func ParseWeekStart(s string) (Week, error) {
	d, err := ParseDate(s)
	if err != nil {
		return Week{}, err
	}
	return WeekOf(d), nil
}

// Start returns the Monday of the week.
func (w Week) Start() time.Time { return w.start }

// End returns the Sunday of the week.
func (w Week) End() time.Time { return w.start.AddDate(0, 0, DaysPerWeek-1) }

// Day returns the date of the i-th day, with Monday at index 0.
func (w Week) Day(i int) time.Time { return w.start.AddDate(0, 0, i) }

// Contains reports whether the calendar day of t falls inside the week.
func (w Week) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(w.start) && !d.After(w.End())
}

// DayIndex returns the index (Monday=0 .. Sunday=6) of t within the week,
// or -1 if t is outside it.
func (w Week) DayIndex(t time.Time) int {
	if !w.Contains(t) {
		return -1
	}
	return int(DateOnly(t).Sub(w.start).Hours() / 24)
}

// Key is the canonical identifier for the week, its Monday in wire format.
// Used to key the row-order preference side channel.
func (w Week) Key() string { return FormatDate(w.start) }

package domain

import (
	"time"
)

// HoursStep is the smallest bookable increment. The legacy API accepted
// arbitrary floats while the UI stepped in whole hours; a fixed quarter-hour
// step keeps totals exact in float64 and matches billing practice.
const HoursStep = 0.25

// TimeEntry is one user's hours on one project for one calendar day.
// At most one entry exists per (user, project, day); a day with zero hours
// is represented by the absence of a row, never a zero-valued row.
type TimeEntry struct {
	ID          string
	UserID      string
	ProjectID   string
	Date        time.Time // calendar day, midnight UTC, no time-of-day semantics
	Hours       float64
	Description string

	// SubmissionTime records when the batch submit that produced or last
	// touched this entry happened. Nil for entries created individually.
	SubmissionTime *time.Time

	// Joined display fields, populated on reads only.
	UserName    string
	ProjectName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidHours reports whether h is bookable: in (0, 24] and on the
// quarter-hour step.
func ValidHours(h float64) bool {
	if h <= 0 || h > 24 {
		return false
	}
	steps := h / HoursStep
	return steps == float64(int64(steps))
}

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar day. It accepts the plain date form and, for
// compatibility with the old frontend which sent full timestamps, RFC 3339;
// any time-of-day component is discarded.
func ParseDate(s string) (time.Time, error) {
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar day in wire format.
func FormatDate(t time.Time) string { return t.UTC().Format(DateLayout) }

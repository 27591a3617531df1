package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Grid validation errors. Validation rejects the whole submission and
// reports the first violation found; nothing is written on failure.
var (
	ErrMissingProject   = errors.New("row has no project")
	ErrDuplicateProject = errors.New("duplicate project row")
	ErrEmptyRow         = errors.New("row has no hours logged")
	ErrInvalidHours     = errors.New("hours must be between 0 and 24 in quarter-hour steps")
)

// Cell is one project-day slot in the weekly grid. EntryID is the id of the
// persisted entry backing the cell, empty when no row exists for that day.
type Cell struct {
	EntryID string
	Hours   float64
}

// Row is one project's seven day cells.
type Row struct {
	ProjectID   string
	ProjectName string
	Cells       [DaysPerWeek]Cell
}

// Total is the row's hours summed across the week.
func (r Row) Total() float64 {
	var sum float64
	for _, c := range r.Cells {
		sum += c.Hours
	}
	return sum
}

// Empty reports whether every cell of the row is zero.
func (r Row) Empty() bool { return r.Total() == 0 }

// Grid is one user's hours for one week, arranged project x day.
type Grid struct {
	UserID string
	Week   Week
	Rows   []Row
}

// BuildGrid groups a week's entries by project into rows. Entries outside
// the week are ignored. Rows come out ordered by project name then id, a
// stable default the display-order preference may override.
func BuildGrid(userID string, week Week, entries []TimeEntry) Grid {
	byProject := make(map[string]*Row)
	for _, e := range entries {
		day := week.DayIndex(e.Date)
		if day < 0 {
			continue
		}
		row, ok := byProject[e.ProjectID]
		if !ok {
			row = &Row{ProjectID: e.ProjectID, ProjectName: e.ProjectName}
			byProject[e.ProjectID] = row
		}
		row.Cells[day] = Cell{EntryID: e.ID, Hours: e.Hours}
	}

	rows := make([]Row, 0, len(byProject))
	for _, row := range byProject {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProjectName != rows[j].ProjectName {
			return rows[i].ProjectName < rows[j].ProjectName
		}
		return rows[i].ProjectID < rows[j].ProjectID
	})

	return Grid{UserID: userID, Week: week, Rows: rows}
}

// Validate checks the whole grid before submission. The first violation is
// returned with the offending row identified; a non-nil error means no part
// of the submission may be applied.
func (g Grid) Validate() error {
	seen := make(map[string]bool, len(g.Rows))
	for i, row := range g.Rows {
		if row.ProjectID == "" {
			return fmt.Errorf("row %d: %w", i+1, ErrMissingProject)
		}
		if seen[row.ProjectID] {
			return fmt.Errorf("row %d: %w", i+1, ErrDuplicateProject)
		}
		seen[row.ProjectID] = true

		for _, c := range row.Cells {
			if c.Hours == 0 {
				continue
			}
			if !ValidHours(c.Hours) {
				return fmt.Errorf("row %d: %w", i+1, ErrInvalidHours)
			}
		}
		if row.Empty() {
			return fmt.Errorf("row %d: %w", i+1, ErrEmptyRow)
		}
	}
	return nil
}

// Plan is the set of writes that reconcile the stored week with the grid.
type Plan struct {
	// Upserts are the non-zero cells: insert, or overwrite hours on the
	// existing (user, project, date) row.
	Upserts []TimeEntry
	// DeleteIDs are entries whose cell was cleared to zero.
	DeleteIDs []string
}

// Diff computes the reconciliation plan for the grid. Cells with hours > 0
// become upserts; zeroed cells that still carry a stored entry id become
// deletes. The plan leaves entries of projects not present in the grid
// untouched — removing a whole project row is a separate bulk delete.
func (g Grid) Diff(submittedAt time.Time) Plan {
	var plan Plan
	for _, row := range g.Rows {
		for day, cell := range row.Cells {
			switch {
			case cell.Hours > 0:
				plan.Upserts = append(plan.Upserts, TimeEntry{
					UserID:         g.UserID,
					ProjectID:      row.ProjectID,
					Date:           g.Week.Day(day),
					Hours:          cell.Hours,
					SubmissionTime: &submittedAt,
				})
			case cell.EntryID != "":
				plan.DeleteIDs = append(plan.DeleteIDs, cell.EntryID)
			}
		}
	}
	return plan
}

// DayTotals sums hours per weekday across all rows.
func (g Grid) DayTotals() [DaysPerWeek]float64 {
	var totals [DaysPerWeek]float64
	for _, row := range g.Rows {
		for day, c := range row.Cells {
			totals[day] += c.Hours
		}
	}
	return totals
}

// Total is the week grand total.
func (g Grid) Total() float64 {
	var sum float64
	for _, t := range g.DayTotals() {
		sum += t
	}
	return sum
}

// RequiredHours is the expected hours per weekday, Monday first.
type RequiredHours [DaysPerWeek]float64

// DefaultRequiredHours is the standard 8-hour Monday-to-Friday week.
var DefaultRequiredHours = RequiredHours{8, 8, 8, 8, 8, 0, 0}

// DayStatus compares a logged total with a requirement.
type DayStatus string

const (
	DayUnder DayStatus = "under"
	DayMet   DayStatus = "met"
	DayOver  DayStatus = "over"
)

// DayStatuses flags each weekday of the grid against the requirement table.
func (g Grid) DayStatuses(required RequiredHours) [DaysPerWeek]DayStatus {
	var statuses [DaysPerWeek]DayStatus
	for day, total := range g.DayTotals() {
		switch {
		case total < required[day]:
			statuses[day] = DayUnder
		case total > required[day]:
			statuses[day] = DayOver
		default:
			statuses[day] = DayMet
		}
	}
	return statuses
}

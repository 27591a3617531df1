package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
	"github.com/clockleaf/timesheet/pkg/idx"
	"github.com/clockleaf/timesheet/pkg/slogx"
)

// ErrUnknownProject rejects a grid row naming a project id that does not
// exist.
var ErrUnknownProject = errors.New("unknown project")

// TimesheetService owns the weekly grid: loading a week as project rows,
// validating and reconciling a submission, and the row-order preference.
type TimesheetService struct {
	Store store.Store

	// Now is swapped out in tests.
	Now func() time.Time
}

func (s *TimesheetService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// WeekView is a loaded grid plus its derived aggregates. The aggregates are
// pure functions of the rows, recomputed on every load, never stored.
type WeekView struct {
	Grid        domain.Grid
	DayTotals   [domain.DaysPerWeek]float64
	Total       float64
	DayStatuses [domain.DaysPerWeek]domain.DayStatus
}

// LoadWeek fetches the grid for the week containing date. Rows default to
// project-name order; a stored row-order preference reorders them, with
// projects unknown to the preference appended in default order.
func (s *TimesheetService) LoadWeek(ctx context.Context, userID string, date time.Time) (WeekView, error) {
	week := domain.WeekOf(date)

	start, end := week.Start(), week.End()
	entries, err := s.Store.TimeEntries().ListTimeEntries(ctx, store.TimeEntryFilter{
		UserID: userID,
		Start:  &start,
		End:    &end,
	})
	if err != nil {
		return WeekView{}, err
	}

	grid := domain.BuildGrid(userID, week, entries)

	order, err := s.Store.GridPrefs().GetRowOrder(ctx, userID, week.Key())
	switch {
	case err == nil:
		grid.Rows = reorderRows(grid.Rows, order)
	case !errors.Is(err, store.ErrNotFound):
		return WeekView{}, err
	}

	return WeekView{
		Grid:        grid,
		DayTotals:   grid.DayTotals(),
		Total:       grid.Total(),
		DayStatuses: grid.DayStatuses(domain.DefaultRequiredHours),
	}, nil
}

// SubmitWeek validates the submitted grid and reconciles the stored week in
// one transaction: non-zero cells are upserted, zeroed cells with a stored
// entry id deleted. On a validation error nothing is written; on a database
// error the whole batch rolls back.
func (s *TimesheetService) SubmitWeek(ctx context.Context, userID string, week domain.Week, rows []domain.Row) (WeekView, error) {
	log := slogx.FromContext(ctx)

	grid := domain.Grid{UserID: userID, Week: week, Rows: rows}
	if err := grid.Validate(); err != nil {
		return WeekView{}, err
	}
	for i, row := range rows {
		if _, err := s.Store.Projects().GetProjectByID(ctx, row.ProjectID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return WeekView{}, fmt.Errorf("row %d: %w", i+1, ErrUnknownProject)
			}
			return WeekView{}, err
		}
	}

	plan := grid.Diff(s.now())
	for i := range plan.Upserts {
		plan.Upserts[i].ID = idx.New().String()
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, e := range plan.Upserts {
			if err := tx.TimeEntries().UpsertTimeEntry(ctx, e); err != nil {
				return err
			}
		}
		// Missing ids are fine: a row deleted by another tab counts as done.
		// The delete is scoped to this user and week, so a submitted entry
		// id can never reach anyone else's rows.
		return tx.TimeEntries().DeleteUserEntriesByIDs(ctx, userID, week.Start(), week.End(), plan.DeleteIDs)
	})
	if err != nil {
		log.Error("week submission failed",
			slog.String("user_id", userID),
			slog.String("week", week.Key()),
			slog.Any("error", err),
		)
		return WeekView{}, err
	}

	log.Info("week submitted",
		slog.String("user_id", userID),
		slog.String("week", week.Key()),
		slog.Int("upserts", len(plan.Upserts)),
		slog.Int("deletes", len(plan.DeleteIDs)),
	)
	return s.LoadWeek(ctx, userID, week.Start())
}

// DeleteProjectWeek removes a whole project row: every entry of (user,
// project) within the week. Zero rows removed is success, the row was
// already gone.
func (s *TimesheetService) DeleteProjectWeek(ctx context.Context, userID, projectID string, week domain.Week) (int64, error) {
	log := slogx.FromContext(ctx)

	n, err := s.Store.TimeEntries().DeleteUserProjectRange(ctx, userID, projectID, week.Start(), week.End())
	if err != nil {
		log.Error("project week delete failed",
			slog.String("user_id", userID),
			slog.String("project_id", projectID),
			slog.Any("error", err),
		)
		return 0, err
	}
	return n, nil
}

// RowOrder returns the stored display order for a week, or nil when none is
// saved yet.
func (s *TimesheetService) RowOrder(ctx context.Context, userID string, week domain.Week) ([]string, error) {
	order, err := s.Store.GridPrefs().GetRowOrder(ctx, userID, week.Key())
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return order, err
}

// SaveRowOrder stores the display order. It is a presentation preference
// only; reconciliation never consults it.
func (s *TimesheetService) SaveRowOrder(ctx context.Context, userID string, week domain.Week, projectIDs []string) error {
	return s.Store.GridPrefs().PutRowOrder(ctx, userID, week.Key(), projectIDs)
}

// reorderRows applies a preferred project-id order. A project id repeated in
// the preference counts once; rows not named by the preference keep their
// default order at the end.
func reorderRows(rows []domain.Row, order []string) []domain.Row {
	seen := make(map[string]bool, len(order))

	ordered := make([]domain.Row, 0, len(rows))
	for _, id := range order {
		if seen[id] {
			continue
		}
		seen[id] = true
		for _, row := range rows {
			if row.ProjectID == id {
				ordered = append(ordered, row)
			}
		}
	}
	for _, row := range rows {
		if !seen[row.ProjectID] {
			ordered = append(ordered, row)
		}
	}
	return ordered
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/internal/timesheet/store/drivers/sqlite"

	"github.com/stretchr/testify/require"
)

func newTimesheetService(st *sqlite.Store) *service.TimesheetService {
	return &service.TimesheetService{
		Store: st,
		Now:   func() time.Time { return time.Date(2025, 6, 13, 17, 0, 0, 0, time.UTC) },
	}
}

func rowWithHours(projectID string, hours ...float64) domain.Row {
	r := domain.Row{ProjectID: projectID}
	for i, h := range hours {
		r.Cells[i].Hours = h
	}
	return r
}

func TestSubmitWeek(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	svc := newTimesheetService(st)

	user := seedActiveUser(t, st, "Alice", "alice@example.com")
	project := seedProject(t, st, "Website")
	week := domain.WeekOf(date(2025, 6, 12))

	view, err := svc.SubmitWeek(ctx, user.ID, week, []domain.Row{
		rowWithHours(project.ID, 8, 6),
	})
	require.NoError(t, err)
	require.Len(t, view.Grid.Rows, 1)
	require.Equal(t, 8.0, view.Grid.Rows[0].Cells[0].Hours)
	require.Equal(t, 14.0, view.Total)
	require.Equal(t, domain.DayMet, view.DayStatuses[0])
	require.Equal(t, domain.DayUnder, view.DayStatuses[1])

	mondayEntry := view.Grid.Rows[0].Cells[0].EntryID
	require.NotEmpty(t, mondayEntry)

	t.Run("resubmitting overwrites in place", func(t *testing.T) {
		view, err := svc.SubmitWeek(ctx, user.ID, week, []domain.Row{
			rowWithHours(project.ID, 4, 6),
		})
		require.NoError(t, err)
		require.Equal(t, 4.0, view.Grid.Rows[0].Cells[0].Hours)
		// The stored entry keeps its identity across resubmits.
		require.Equal(t, mondayEntry, view.Grid.Rows[0].Cells[0].EntryID)
	})

	t.Run("zeroing a cell deletes its entry", func(t *testing.T) {
		row := rowWithHours(project.ID, 0, 6)
		row.Cells[0].EntryID = mondayEntry

		view, err := svc.SubmitWeek(ctx, user.ID, week, []domain.Row{row})
		require.NoError(t, err)
		require.Empty(t, view.Grid.Rows[0].Cells[0].EntryID)
		require.Equal(t, 6.0, view.Total)
	})

	t.Run("validation failure writes nothing", func(t *testing.T) {
		before, err := svc.LoadWeek(ctx, user.ID, week.Start())
		require.NoError(t, err)

		_, err = svc.SubmitWeek(ctx, user.ID, week, []domain.Row{
			rowWithHours(project.ID, 25),
		})
		require.ErrorIs(t, err, domain.ErrInvalidHours)

		after, err := svc.LoadWeek(ctx, user.ID, week.Start())
		require.NoError(t, err)
		require.Equal(t, before.Grid, after.Grid)
	})

	t.Run("other weeks stay untouched", func(t *testing.T) {
		nextWeek := domain.WeekOf(date(2025, 6, 16))
		view, err := svc.LoadWeek(ctx, user.ID, nextWeek.Start())
		require.NoError(t, err)
		require.Empty(t, view.Grid.Rows)
	})

	t.Run("unknown project is rejected before writing", func(t *testing.T) {
		before, err := svc.LoadWeek(ctx, user.ID, week.Start())
		require.NoError(t, err)

		_, err = svc.SubmitWeek(ctx, user.ID, week, []domain.Row{
			rowWithHours(project.ID, 2),
			rowWithHours("no-such-project", 3),
		})
		require.ErrorIs(t, err, service.ErrUnknownProject)
		require.ErrorContains(t, err, "row 2")

		after, err := svc.LoadWeek(ctx, user.ID, week.Start())
		require.NoError(t, err)
		require.Equal(t, before.Grid, after.Grid)
	})

	t.Run("zeroed cells cannot delete another user's rows", func(t *testing.T) {
		victim := seedActiveUser(t, st, "Bob", "bob@example.com")
		victimView, err := svc.SubmitWeek(ctx, victim.ID, week, []domain.Row{
			rowWithHours(project.ID, 8),
		})
		require.NoError(t, err)
		victimEntry := victimView.Grid.Rows[0].Cells[0].EntryID
		require.NotEmpty(t, victimEntry)

		// A zeroed cell carrying someone else's entry id must not reach it.
		row := rowWithHours(project.ID, 1)
		row.Cells[1].EntryID = victimEntry

		_, err = svc.SubmitWeek(ctx, user.ID, week, []domain.Row{row})
		require.NoError(t, err)

		after, err := svc.LoadWeek(ctx, victim.ID, week.Start())
		require.NoError(t, err)
		require.Equal(t, 8.0, after.Total)
		require.Equal(t, victimEntry, after.Grid.Rows[0].Cells[0].EntryID)
	})
}

func TestLoadWeekRowOrder(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	svc := newTimesheetService(st)

	user := seedActiveUser(t, st, "Alice", "alice@example.com")
	alpha := seedProject(t, st, "Alpha")
	beta := seedProject(t, st, "Beta")
	week := domain.WeekOf(date(2025, 6, 9))

	_, err := svc.SubmitWeek(ctx, user.ID, week, []domain.Row{
		rowWithHours(alpha.ID, 8),
		rowWithHours(beta.ID, 4),
	})
	require.NoError(t, err)

	t.Run("defaults to project name order", func(t *testing.T) {
		order, err := svc.RowOrder(ctx, user.ID, week)
		require.NoError(t, err)
		require.Nil(t, order)

		view, err := svc.LoadWeek(ctx, user.ID, week.Start())
		require.NoError(t, err)
		require.Equal(t, alpha.ID, view.Grid.Rows[0].ProjectID)
	})

	t.Run("saved preference reorders", func(t *testing.T) {
		require.NoError(t, svc.SaveRowOrder(ctx, user.ID, week, []string{beta.ID, alpha.ID}))

		view, err := svc.LoadWeek(ctx, user.ID, week.Start())
		require.NoError(t, err)
		require.Equal(t, beta.ID, view.Grid.Rows[0].ProjectID)
		require.Equal(t, alpha.ID, view.Grid.Rows[1].ProjectID)
	})

	t.Run("unknown projects in the preference are skipped", func(t *testing.T) {
		gamma := seedProject(t, st, "Gamma")
		require.NoError(t, svc.SaveRowOrder(ctx, user.ID, week, []string{"gone", beta.ID}))

		_, err := svc.SubmitWeek(ctx, user.ID, week, []domain.Row{
			rowWithHours(alpha.ID, 8),
			rowWithHours(beta.ID, 4),
			rowWithHours(gamma.ID, 2),
		})
		require.NoError(t, err)

		view, err := svc.LoadWeek(ctx, user.ID, week.Start())
		require.NoError(t, err)
		// Beta first per the preference, the rest in default order.
		require.Equal(t, beta.ID, view.Grid.Rows[0].ProjectID)
		require.Equal(t, alpha.ID, view.Grid.Rows[1].ProjectID)
		require.Equal(t, gamma.ID, view.Grid.Rows[2].ProjectID)
	})

	t.Run("repeated ids in the preference apply once", func(t *testing.T) {
		require.NoError(t, svc.SaveRowOrder(ctx, user.ID, week, []string{beta.ID, beta.ID, alpha.ID}))

		view, err := svc.LoadWeek(ctx, user.ID, week.Start())
		require.NoError(t, err)
		require.Len(t, view.Grid.Rows, 3)
		require.Equal(t, beta.ID, view.Grid.Rows[0].ProjectID)
		require.Equal(t, alpha.ID, view.Grid.Rows[1].ProjectID)
	})
}

func TestDeleteProjectWeek(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	svc := newTimesheetService(st)

	user := seedActiveUser(t, st, "Alice", "alice@example.com")
	website := seedProject(t, st, "Website")
	backend := seedProject(t, st, "Backend")
	week := domain.WeekOf(date(2025, 6, 9))

	_, err := svc.SubmitWeek(ctx, user.ID, week, []domain.Row{
		rowWithHours(website.ID, 8, 8),
		rowWithHours(backend.ID, 4),
	})
	require.NoError(t, err)

	n, err := svc.DeleteProjectWeek(ctx, user.ID, website.ID, week)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	view, err := svc.LoadWeek(ctx, user.ID, week.Start())
	require.NoError(t, err)
	require.Len(t, view.Grid.Rows, 1)
	require.Equal(t, backend.ID, view.Grid.Rows[0].ProjectID)

	// Deleting an absent row is success with zero removed.
	n, err = svc.DeleteProjectWeek(ctx, user.ID, website.ID, week)
	require.NoError(t, err)
	require.Zero(t, n)
}

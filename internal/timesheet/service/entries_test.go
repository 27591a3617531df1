package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/internal/timesheet/store"

	"github.com/stretchr/testify/require"
)

func TestCreateEntry(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	svc := &service.EntryService{Store: st}

	user := seedActiveUser(t, st, "Alice", "alice@example.com")
	project := seedProject(t, st, "Website")

	t.Run("rejects bad hours", func(t *testing.T) {
		_, err := svc.CreateEntry(ctx, service.CreateEntryParams{
			UserID: user.ID, ProjectID: project.ID, Date: date(2025, 6, 9), Hours: 8.1,
		})
		require.ErrorIs(t, err, service.ErrInvalidHours)
	})

	t.Run("occupied day is a conflict", func(t *testing.T) {
		_, err := svc.CreateEntry(ctx, service.CreateEntryParams{
			UserID: user.ID, ProjectID: project.ID, Date: date(2025, 6, 9), Hours: 8,
		})
		require.NoError(t, err)

		_, err = svc.CreateEntry(ctx, service.CreateEntryParams{
			UserID: user.ID, ProjectID: project.ID, Date: date(2025, 6, 9), Hours: 4,
		})
		require.ErrorIs(t, err, service.ErrDuplicateEntry)
	})

	t.Run("time of day is dropped", func(t *testing.T) {
		entry, err := svc.CreateEntry(ctx, service.CreateEntryParams{
			UserID:    user.ID,
			ProjectID: project.ID,
			Date:      time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC),
			Hours:     2,
		})
		require.NoError(t, err)
		require.Equal(t, date(2025, 6, 10), entry.Date)
	})
}

func TestBatchUpsert(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	fixed := time.Date(2025, 6, 13, 17, 0, 0, 0, time.UTC)
	svc := &service.EntryService{Store: st, Now: func() time.Time { return fixed }}

	user := seedActiveUser(t, st, "Alice", "alice@example.com")
	project := seedProject(t, st, "Website")

	count := func(t *testing.T) int {
		t.Helper()
		entries, err := svc.ListEntries(ctx, store.TimeEntryFilter{UserID: user.ID})
		require.NoError(t, err)
		return len(entries)
	}

	items := []service.BatchItem{
		{UserID: user.ID, ProjectID: project.ID, Date: date(2025, 6, 9), Hours: 8},
		{UserID: user.ID, ProjectID: project.ID, Date: date(2025, 6, 10), Hours: 6},
	}

	t.Run("applies inserts", func(t *testing.T) {
		require.NoError(t, svc.BatchUpsert(ctx, items))
		require.Equal(t, 2, count(t))
	})

	t.Run("rerunning the same batch is idempotent", func(t *testing.T) {
		require.NoError(t, svc.BatchUpsert(ctx, items))
		require.Equal(t, 2, count(t))
	})

	t.Run("zero hours removes the keyed row", func(t *testing.T) {
		require.NoError(t, svc.BatchUpsert(ctx, []service.BatchItem{
			{UserID: user.ID, ProjectID: project.ID, Date: date(2025, 6, 9), Hours: 0},
		}))
		require.Equal(t, 1, count(t))

		// Deleting the same key again is still fine.
		require.NoError(t, svc.BatchUpsert(ctx, []service.BatchItem{
			{UserID: user.ID, ProjectID: project.ID, Date: date(2025, 6, 9), Hours: 0},
		}))
		require.Equal(t, 1, count(t))
	})

	t.Run("one bad item fails the whole batch up front", func(t *testing.T) {
		err := svc.BatchUpsert(ctx, []service.BatchItem{
			{UserID: user.ID, ProjectID: project.ID, Date: date(2025, 6, 11), Hours: 4},
			{UserID: user.ID, ProjectID: project.ID, Date: date(2025, 6, 12), Hours: -1},
		})
		require.ErrorIs(t, err, service.ErrInvalidHours)
		require.Equal(t, 1, count(t))
	})
}

func TestBulkDeleteWeek(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	svc := &service.EntryService{Store: st}

	user := seedActiveUser(t, st, "Alice", "alice@example.com")
	project := seedProject(t, st, "Website")

	require.NoError(t, svc.BatchUpsert(ctx, []service.BatchItem{
		{UserID: user.ID, ProjectID: project.ID, Date: date(2025, 6, 9), Hours: 8},
		{UserID: user.ID, ProjectID: project.ID, Date: date(2025, 6, 13), Hours: 8},
		{UserID: user.ID, ProjectID: project.ID, Date: date(2025, 6, 16), Hours: 8},
	}))

	// Any date within the week selects it.
	n, err := svc.BulkDeleteWeek(ctx, user.ID, project.ID, date(2025, 6, 11))
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	entries, err := svc.ListEntries(ctx, store.TimeEntryFilter{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, date(2025, 6, 16), entries[0].Date)

	_, err = svc.BulkDeleteWeek(ctx, "", project.ID, date(2025, 6, 11))
	require.ErrorIs(t, err, service.ErrInvalidEntry)
}

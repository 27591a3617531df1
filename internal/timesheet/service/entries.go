package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
	"github.com/clockleaf/timesheet/pkg/idx"
	"github.com/clockleaf/timesheet/pkg/slogx"
)

var (
	ErrInvalidEntry   = errors.New("user, project, date and hours are required")
	ErrInvalidHours   = errors.New("hours must be between 0 and 24 in quarter-hour steps")
	ErrDuplicateEntry = errors.New("an entry for this user, project and day already exists")
	ErrEntryNotFound  = errors.New("time entry not found")
)

type EntryService struct {
	Store store.Store

	// Now is swapped out in tests.
	Now func() time.Time
}

func (s *EntryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CreateEntryParams struct {
	UserID      string
	ProjectID   string
	Date        time.Time
	Hours       float64
	Description string
}

// CreateEntry is the single-insert path: a second entry for an occupied
// (user, project, day) key is a conflict, unlike the reconciling batch path.
func (s *EntryService) CreateEntry(ctx context.Context, p CreateEntryParams) (domain.TimeEntry, error) {
	log := slogx.FromContext(ctx)

	if p.UserID == "" || p.ProjectID == "" || p.Date.IsZero() {
		return domain.TimeEntry{}, ErrInvalidEntry
	}
	if !domain.ValidHours(p.Hours) {
		return domain.TimeEntry{}, ErrInvalidHours
	}

	entry := domain.TimeEntry{
		ID:          idx.New().String(),
		UserID:      p.UserID,
		ProjectID:   p.ProjectID,
		Date:        domain.DateOnly(p.Date),
		Hours:       p.Hours,
		Description: p.Description,
	}
	if err := s.Store.TimeEntries().CreateTimeEntry(ctx, entry); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.TimeEntry{}, ErrDuplicateEntry
		}
		log.Error("failed to create time entry", slog.Any("error", err))
		return domain.TimeEntry{}, err
	}
	return entry, nil
}

func (s *EntryService) GetEntry(ctx context.Context, id string) (domain.TimeEntry, error) {
	entry, err := s.Store.TimeEntries().GetTimeEntryByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.TimeEntry{}, ErrEntryNotFound
	}
	return entry, err
}

func (s *EntryService) ListEntries(ctx context.Context, f store.TimeEntryFilter) ([]domain.TimeEntry, error) {
	return s.Store.TimeEntries().ListTimeEntries(ctx, f)
}

type UpdateEntryParams struct {
	ProjectID   *string
	Date        *time.Time
	Hours       *float64
	Description *string
}

func (s *EntryService) UpdateEntry(ctx context.Context, id string, p UpdateEntryParams) (domain.TimeEntry, error) {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return domain.TimeEntry{}, err
	}

	applyString(&entry.ProjectID, p.ProjectID)
	applyString(&entry.Description, p.Description)
	if p.Date != nil {
		entry.Date = domain.DateOnly(*p.Date)
	}
	if p.Hours != nil {
		entry.Hours = *p.Hours
	}

	if !domain.ValidHours(entry.Hours) {
		return domain.TimeEntry{}, ErrInvalidHours
	}

	if err := s.Store.TimeEntries().UpdateTimeEntry(ctx, entry); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.TimeEntry{}, ErrDuplicateEntry
		case errors.Is(err, store.ErrNotFound):
			return domain.TimeEntry{}, ErrEntryNotFound
		}
		return domain.TimeEntry{}, err
	}
	return entry, nil
}

func (s *EntryService) DeleteEntry(ctx context.Context, id string) error {
	err := s.Store.TimeEntries().DeleteTimeEntry(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrEntryNotFound
	}
	return err
}

// BatchItem is one cell of a batch submission. Zero hours means "remove the
// row for this key if it exists".
type BatchItem struct {
	UserID    string
	ProjectID string
	Date      time.Time
	Hours     float64
}

// BatchUpsert applies a set of upserts and keyed deletes in one transaction.
// Re-running the same batch is idempotent: existing rows are overwritten in
// place, absent rows inserted, zero-hour keys deleted whether or not a row
// exists.
func (s *EntryService) BatchUpsert(ctx context.Context, items []BatchItem) error {
	log := slogx.FromContext(ctx)

	for _, it := range items {
		if it.UserID == "" || it.ProjectID == "" || it.Date.IsZero() {
			return ErrInvalidEntry
		}
		if it.Hours != 0 && !domain.ValidHours(it.Hours) {
			return ErrInvalidHours
		}
	}

	submittedAt := s.now()
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, it := range items {
			day := domain.DateOnly(it.Date)
			if it.Hours == 0 {
				_, err := tx.TimeEntries().DeleteUserProjectRange(ctx, it.UserID, it.ProjectID, day, day)
				if err != nil {
					return err
				}
				continue
			}
			entry := domain.TimeEntry{
				ID:             idx.New().String(),
				UserID:         it.UserID,
				ProjectID:      it.ProjectID,
				Date:           day,
				Hours:          it.Hours,
				SubmissionTime: &submittedAt,
			}
			if err := tx.TimeEntries().UpsertTimeEntry(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("batch upsert failed", slog.Int("items", len(items)), slog.Any("error", err))
		return err
	}

	log.Info("batch upsert applied", slog.Int("items", len(items)))
	return nil
}

// BulkDeleteWeek removes one user's entries for one project across the week
// containing weekDate. Returns how many rows went away; zero is not an error.
func (s *EntryService) BulkDeleteWeek(ctx context.Context, userID, projectID string, weekDate time.Time) (int64, error) {
	if userID == "" || projectID == "" {
		return 0, ErrInvalidEntry
	}
	week := domain.WeekOf(weekDate)
	return s.Store.TimeEntries().DeleteUserProjectRange(ctx, userID, projectID, week.Start(), week.End())
}

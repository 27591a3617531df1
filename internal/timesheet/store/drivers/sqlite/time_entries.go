package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
)

type timeEntriesRepo struct {
	q dbtx
}

const entryColumns = `e.id, e.user_id, e.project_id, e.entry_date, e.hours,
	e.description, e.submission_time,
	TRIM(u.name || ' ' || u.surname), p.name,
	e.created_at, e.updated_at`

const entryJoin = ` FROM time_entries e
	JOIN users u ON u.id = e.user_id
	JOIN projects p ON p.id = e.project_id`

func (r *timeEntriesRepo) CreateTimeEntry(ctx context.Context, e domain.TimeEntry) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO time_entries (id, user_id, project_id, entry_date, hours, description, submission_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.ProjectID, domain.FormatDate(e.Date), e.Hours,
		e.Description, mapOptionalTime(e.SubmissionTime),
	)
	return mapConstraint(err)
}

// UpsertTimeEntry is the write half of the weekly reconciliation: re-submitting
// a day overwrites hours in place, so the existing row keeps its id and any
// description attached through the single-entry API.
func (r *timeEntriesRepo) UpsertTimeEntry(ctx context.Context, e domain.TimeEntry) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO time_entries (id, user_id, project_id, entry_date, hours, description, submission_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, project_id, entry_date) DO UPDATE SET
			hours = excluded.hours,
			submission_time = excluded.submission_time,
			updated_at = CURRENT_TIMESTAMP`,
		e.ID, e.UserID, e.ProjectID, domain.FormatDate(e.Date), e.Hours,
		e.Description, mapOptionalTime(e.SubmissionTime),
	)
	return err
}

func (r *timeEntriesRepo) GetTimeEntryByID(ctx context.Context, id string) (domain.TimeEntry, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+entryColumns+entryJoin+` WHERE e.id = ?`, id)
	return scanTimeEntry(row)
}

func (r *timeEntriesRepo) ListTimeEntries(ctx context.Context, f store.TimeEntryFilter) ([]domain.TimeEntry, error) {
	query := `SELECT ` + entryColumns + entryJoin
	var (
		conds []string
		args  []any
	)
	if f.UserID != "" {
		conds = append(conds, `e.user_id = ?`)
		args = append(args, f.UserID)
	}
	if f.ProjectID != "" {
		conds = append(conds, `e.project_id = ?`)
		args = append(args, f.ProjectID)
	}
	if f.Start != nil {
		conds = append(conds, `e.entry_date >= ?`)
		args = append(args, domain.FormatDate(*f.Start))
	}
	if f.End != nil {
		conds = append(conds, `e.entry_date <= ?`)
		args = append(args, domain.FormatDate(*f.End))
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY e.entry_date DESC, p.name`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *timeEntriesRepo) UpdateTimeEntry(ctx context.Context, e domain.TimeEntry) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE time_entries SET project_id = ?, entry_date = ?, hours = ?,
			description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		e.ProjectID, domain.FormatDate(e.Date), e.Hours, e.Description, e.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *timeEntriesRepo) DeleteTimeEntry(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *timeEntriesRepo) DeleteUserEntriesByIDs(ctx context.Context, userID string, start, end time.Time, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	args := []any{userID, domain.FormatDate(start), domain.FormatDate(end)}
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM time_entries
		WHERE user_id = ? AND entry_date >= ? AND entry_date <= ?
			AND id IN (`+placeholders+`)`, args...)
	return err
}

func (r *timeEntriesRepo) DeleteUserProjectRange(ctx context.Context, userID, projectID string, start, end time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM time_entries
		WHERE user_id = ? AND project_id = ? AND entry_date >= ? AND entry_date <= ?`,
		userID, projectID, domain.FormatDate(start), domain.FormatDate(end),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanTimeEntry(row rowScanner) (domain.TimeEntry, error) {
	var (
		e          domain.TimeEntry
		date       string
		submission sql.NullTime
	)
	err := row.Scan(
		&e.ID, &e.UserID, &e.ProjectID, &date, &e.Hours,
		&e.Description, &submission,
		&e.UserName, &e.ProjectName,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.TimeEntry{}, mapNotFound(err)
	}

	e.Date, err = domain.ParseDate(date)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	e.SubmissionTime = mapNullTimePtr(submission)
	return e, nil
}

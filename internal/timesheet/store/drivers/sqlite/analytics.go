package sqlite

import (
	"context"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
)

type analyticsRepo struct {
	q dbtx
}

// rangeClause renders the optional date bounds shared by every aggregate.
// Both ends are inclusive calendar days.
func rangeClause(r domain.DateRange) (string, []any) {
	var (
		clause string
		args   []any
	)
	if r.Start != nil {
		clause += ` AND e.entry_date >= ?`
		args = append(args, domain.FormatDate(*r.Start))
	}
	if r.End != nil {
		clause += ` AND e.entry_date <= ?`
		args = append(args, domain.FormatDate(*r.End))
	}
	return clause, args
}

func (r *analyticsRepo) TimeByProject(ctx context.Context, dr domain.DateRange) ([]domain.ProjectTime, error) {
	clause, args := rangeClause(dr)
	rows, err := r.q.QueryContext(ctx, `
		SELECT p.id, p.name, COALESCE(c.name, ''), COALESCE(c.type, 'unassigned'),
			SUM(e.hours)
		FROM time_entries e
		JOIN projects p ON p.id = e.project_id
		LEFT JOIN clients c ON c.id = p.client_id
		WHERE 1 = 1`+clause+`
		GROUP BY p.id, p.name, c.name, c.type
		ORDER BY SUM(e.hours) DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProjectTime
	for rows.Next() {
		var pt domain.ProjectTime
		if err := rows.Scan(&pt.ProjectID, &pt.ProjectName, &pt.ClientName, &pt.ClientType, &pt.TotalHours); err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

func (r *analyticsRepo) TimeByProjectTotal(ctx context.Context, dr domain.DateRange) ([]domain.ProjectTotal, error) {
	clause, args := rangeClause(dr)
	rows, err := r.q.QueryContext(ctx, `
		SELECT p.id, p.name, SUM(e.hours)
		FROM time_entries e
		JOIN projects p ON p.id = e.project_id
		WHERE 1 = 1`+clause+`
		GROUP BY p.id, p.name
		ORDER BY SUM(e.hours) DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProjectTotal
	for rows.Next() {
		var pt domain.ProjectTotal
		if err := rows.Scan(&pt.ProjectID, &pt.ProjectName, &pt.TotalHours); err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

func (r *analyticsRepo) TimeByUser(ctx context.Context, dr domain.DateRange) ([]domain.UserProjectTime, error) {
	clause, args := rangeClause(dr)
	rows, err := r.q.QueryContext(ctx, `
		SELECT u.id, TRIM(u.name || ' ' || u.surname), p.name,
			COALESCE(c.type, 'unassigned'), SUM(e.hours)
		FROM time_entries e
		JOIN users u ON u.id = e.user_id
		JOIN projects p ON p.id = e.project_id
		LEFT JOIN clients c ON c.id = p.client_id
		WHERE 1 = 1`+clause+`
		GROUP BY u.id, u.name, u.surname, p.id, p.name, c.type
		ORDER BY u.name, u.surname, SUM(e.hours) DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserProjectTime
	for rows.Next() {
		var ut domain.UserProjectTime
		if err := rows.Scan(&ut.UserID, &ut.UserName, &ut.ProjectName, &ut.ClientType, &ut.TotalHours); err != nil {
			return nil, err
		}
		out = append(out, ut)
	}
	return out, rows.Err()
}

func (r *analyticsRepo) TimeByUserTotal(ctx context.Context, dr domain.DateRange) ([]domain.UserTime, error) {
	clause, args := rangeClause(dr)
	rows, err := r.q.QueryContext(ctx, `
		SELECT u.id, TRIM(u.name || ' ' || u.surname), SUM(e.hours)
		FROM time_entries e
		JOIN users u ON u.id = e.user_id
		WHERE 1 = 1`+clause+`
		GROUP BY u.id, u.name, u.surname
		ORDER BY SUM(e.hours) DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserTime
	for rows.Next() {
		var ut domain.UserTime
		if err := rows.Scan(&ut.UserID, &ut.UserName, &ut.TotalHours); err != nil {
			return nil, err
		}
		out = append(out, ut)
	}
	return out, rows.Err()
}

func (r *analyticsRepo) TimeByClientType(ctx context.Context, dr domain.DateRange) ([]domain.ClientTypeTime, error) {
	clause, args := rangeClause(dr)
	rows, err := r.q.QueryContext(ctx, `
		SELECT COALESCE(c.type, 'unassigned'), SUM(e.hours)
		FROM time_entries e
		JOIN projects p ON p.id = e.project_id
		LEFT JOIN clients c ON c.id = p.client_id
		WHERE 1 = 1`+clause+`
		GROUP BY c.type
		ORDER BY SUM(e.hours) DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ClientTypeTime
	for rows.Next() {
		var ct domain.ClientTypeTime
		if err := rows.Scan(&ct.ClientType, &ct.TotalHours); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

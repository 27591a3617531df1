package sqlite

import (
	"context"
	"database/sql"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
)

type projectsRepo struct {
	q dbtx
}

const projectColumns = `p.id, p.name, p.code, p.description, p.client_id, p.active,
	c.name, p.created_at, p.updated_at`

const projectJoin = ` FROM projects p LEFT JOIN clients c ON c.id = p.client_id`

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO projects (id, name, name_norm, code, description, client_id, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, domain.NormalizeName(p.Name), mapStringNull(p.Code),
		p.Description, mapStringNull(p.ClientID), boolInt(p.Active),
	)
	return mapConstraint(err)
}

func (r *projectsRepo) GetProjectByID(ctx context.Context, id string) (domain.Project, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+projectColumns+projectJoin+` WHERE p.id = ?`, id)
	return scanProject(row)
}

func (r *projectsRepo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+projectColumns+projectJoin+` ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectsRepo) UpdateProject(ctx context.Context, p domain.Project) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE projects SET name = ?, name_norm = ?, code = ?, description = ?,
			client_id = ?, active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Name, domain.NormalizeName(p.Name), mapStringNull(p.Code),
		p.Description, mapStringNull(p.ClientID), boolInt(p.Active), p.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *projectsRepo) DeleteProject(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *projectsRepo) FindProjectByNormalizedName(ctx context.Context, norm string) (domain.Project, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+projectColumns+projectJoin+` WHERE p.name_norm = ?`, norm)
	return scanProject(row)
}

func (r *projectsRepo) FindProjectByCode(ctx context.Context, code string) (domain.Project, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+projectColumns+projectJoin+` WHERE p.code = ?`, code)
	return scanProject(row)
}

func scanProject(row rowScanner) (domain.Project, error) {
	var (
		p          domain.Project
		code       sql.NullString
		clientID   sql.NullString
		clientName sql.NullString
		active     int
	)
	err := row.Scan(
		&p.ID, &p.Name, &code, &p.Description, &clientID, &active,
		&clientName, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}

	p.Code = mapNullString(code)
	p.ClientID = mapNullString(clientID)
	p.ClientName = mapNullString(clientName)
	p.Active = active != 0
	return p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

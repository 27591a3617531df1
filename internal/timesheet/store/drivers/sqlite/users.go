package sqlite

import (
	"context"
	"database/sql"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, name, surname, email, role, status,
	phone, department, job_title, avatar_url, language, timezone,
	created_at, updated_at`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, name, surname, email, role, status,
			phone, department, job_title, avatar_url, language, timezone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Surname, u.Email, string(u.Role), string(u.Status),
		mapStringNull(u.Phone), mapStringNull(u.Department), mapStringNull(u.JobTitle),
		mapStringNull(u.AvatarURL), mapStringNull(u.Language), mapStringNull(u.Timezone),
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) ListUsers(ctx context.Context, includeDeleted bool) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	if !includeDeleted {
		query += ` WHERE status != 'deleted'`
	}
	query += ` ORDER BY name, surname, email`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET name = ?, surname = ?, email = ?, role = ?,
			phone = ?, department = ?, job_title = ?, avatar_url = ?,
			language = ?, timezone = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		u.Name, u.Surname, u.Email, string(u.Role),
		mapStringNull(u.Phone), mapStringNull(u.Department), mapStringNull(u.JobTitle),
		mapStringNull(u.AvatarURL), mapStringNull(u.Language), mapStringNull(u.Timezone),
		u.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *usersRepo) SetUserStatus(ctx context.Context, id string, status domain.Status) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) ActivateInvitedUser(ctx context.Context, id, name, surname string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET name = ?, surname = ?, status = 'active',
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'invited'`,
		name, surname, id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) HardDeleteUser(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u          domain.User
		role       string
		status     string
		phone      sql.NullString
		department sql.NullString
		jobTitle   sql.NullString
		avatarURL  sql.NullString
		language   sql.NullString
		timezone   sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Surname, &u.Email, &role, &status,
		&phone, &department, &jobTitle, &avatarURL, &language, &timezone,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Role = domain.Role(role)
	u.Status = domain.Status(status)
	u.Phone = mapNullString(phone)
	u.Department = mapNullString(department)
	u.JobTitle = mapNullString(jobTitle)
	u.AvatarURL = mapNullString(avatarURL)
	u.Language = mapNullString(language)
	u.Timezone = mapNullString(timezone)
	return u, nil
}

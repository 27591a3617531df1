package sqlite

import (
	"context"
	"database/sql"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
)

type clientsRepo struct {
	q dbtx
}

const clientColumns = `id, name, type, itn, created_at, updated_at`

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO clients (id, name, name_norm, type, itn) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, domain.NormalizeName(c.Name), string(c.Type), mapStringNull(c.ITN),
	)
	return mapConstraint(err)
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	return scanClient(row)
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *clientsRepo) UpdateClient(ctx context.Context, c domain.Client) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE clients SET name = ?, name_norm = ?, type = ?, itn = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		c.Name, domain.NormalizeName(c.Name), string(c.Type), mapStringNull(c.ITN), c.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *clientsRepo) DeleteClient(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// FindClientByNormalizedName looks up the stored name_norm column, which is
// kept in sync with domain.NormalizeName on every write.
func (r *clientsRepo) FindClientByNormalizedName(ctx context.Context, norm string) (domain.Client, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE name_norm = ?`, norm)
	return scanClient(row)
}

func (r *clientsRepo) FindClientByITN(ctx context.Context, itn string) (domain.Client, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE itn = ?`, itn)
	return scanClient(row)
}

func scanClient(row rowScanner) (domain.Client, error) {
	var (
		c   domain.Client
		typ string
		itn sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &typ, &itn, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	c.Type = domain.ClientType(typ)
	c.ITN = mapNullString(itn)
	return c, nil
}

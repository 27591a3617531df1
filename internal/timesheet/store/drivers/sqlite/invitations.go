package sqlite

import (
	"context"
	"database/sql"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
)

type invitationsRepo struct {
	q dbtx
}

const invitationColumns = `id, email, token_hash, invited_by, accepted, created_at, updated_at`

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO invitations (id, email, token_hash, invited_by)
		VALUES (?, ?, ?, ?)`,
		inv.ID, inv.Email, inv.TokenHash, mapStringNull(inv.InvitedBy),
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetPendingInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE token_hash = ? AND accepted = 0`, hash)
	return scanInvitation(row)
}

func (r *invitationsRepo) ListInvitations(ctx context.Context) ([]domain.Invitation, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

func (r *invitationsRepo) MarkInvitationAccepted(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations SET accepted = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND accepted = 0`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *invitationsRepo) DeletePendingInvitationsByEmail(ctx context.Context, email string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM invitations WHERE email = ? AND accepted = 0`, email)
	return err
}

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var (
		inv       domain.Invitation
		invitedBy sql.NullString
		accepted  int
	)
	err := row.Scan(
		&inv.ID, &inv.Email, &inv.TokenHash, &invitedBy, &accepted,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	inv.InvitedBy = mapNullString(invitedBy)
	inv.Accepted = accepted != 0
	return inv, nil
}

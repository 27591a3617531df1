package sqlite

import (
	"context"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
)

type magicLinksRepo struct {
	q dbtx
}

func (r *magicLinksRepo) CreateMagicLink(ctx context.Context, l domain.MagicLink) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO magic_links (id, user_id, token_hash, expires_at)
		VALUES (?, ?, ?, ?)`,
		l.ID, l.UserID, l.TokenHash, l.ExpiresAt,
	)
	return mapConstraint(err)
}

func (r *magicLinksRepo) GetMagicLinkByTokenHash(ctx context.Context, hash string) (domain.MagicLink, error) {
	var (
		l    domain.MagicLink
		used int
	)
	row := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, used, created_at
		FROM magic_links WHERE token_hash = ?`, hash)
	err := row.Scan(&l.ID, &l.UserID, &l.TokenHash, &l.ExpiresAt, &used, &l.CreatedAt)
	if err != nil {
		return domain.MagicLink{}, mapNotFound(err)
	}
	l.Used = used != 0
	return l, nil
}

// ConsumeMagicLink flips used in a single guarded UPDATE so two concurrent
// sign-ins with the same token cannot both succeed.
func (r *magicLinksRepo) ConsumeMagicLink(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE magic_links SET used = 1 WHERE id = ? AND used = 0`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *magicLinksRepo) DeleteStaleMagicLinks(ctx context.Context, cutoff time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM magic_links WHERE used = 1 OR expires_at < ?`, cutoff)
	return err
}

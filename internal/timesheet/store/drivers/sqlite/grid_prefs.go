package sqlite

import (
	"context"
	"encoding/json"
)

type gridPrefsRepo struct {
	q dbtx
}

func (r *gridPrefsRepo) GetRowOrder(ctx context.Context, userID, weekKey string) ([]string, error) {
	var raw string
	row := r.q.QueryRowContext(ctx, `
		SELECT row_order FROM grid_prefs WHERE user_id = ? AND week_start = ?`,
		userID, weekKey)
	if err := row.Scan(&raw); err != nil {
		return nil, mapNotFound(err)
	}

	var order []string
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *gridPrefsRepo) PutRowOrder(ctx context.Context, userID, weekKey string, projectIDs []string) error {
	raw, err := json.Marshal(projectIDs)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO grid_prefs (user_id, week_start, row_order)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, week_start) DO UPDATE SET
			row_order = excluded.row_order,
			updated_at = CURRENT_TIMESTAMP`,
		userID, weekKey, string(raw),
	)
	return err
}

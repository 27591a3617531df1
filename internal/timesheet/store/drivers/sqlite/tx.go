package sqlite

import (
	"context"
	"database/sql"

	"github.com/clockleaf/timesheet/internal/timesheet/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // caller commits/rollbacks; outer DB stays open

// Ping is a no-op for transactions; the connection already exists.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users             { return &usersRepo{q: t.tx} }
func (t *txStore) Clients() store.Clients         { return &clientsRepo{q: t.tx} }
func (t *txStore) Projects() store.Projects       { return &projectsRepo{q: t.tx} }
func (t *txStore) TimeEntries() store.TimeEntries { return &timeEntriesRepo{q: t.tx} }
func (t *txStore) Invitations() store.Invitations { return &invitationsRepo{q: t.tx} }
func (t *txStore) MagicLinks() store.MagicLinks   { return &magicLinksRepo{q: t.tx} }
func (t *txStore) GridPrefs() store.GridPrefs     { return &gridPrefsRepo{q: t.tx} }
func (t *txStore) Analytics() store.Analytics     { return &analyticsRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before transactions start

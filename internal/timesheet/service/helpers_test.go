package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/store/drivers/sqlite"
	"github.com/clockleaf/timesheet/pkg/idx"
	"github.com/clockleaf/timesheet/pkg/jwtx"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func newTestSigner() *jwtx.Signer {
	return jwtx.NewSigner("test-secret", "timesheet-test", time.Hour)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedActiveUser(t *testing.T, st *sqlite.Store, name, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:      idx.New().String(),
		Name:    name,
		Surname: "Tester",
		Email:   email,
		Role:    domain.RoleUser,
		Status:  domain.StatusActive,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func seedProject(t *testing.T, st *sqlite.Store, name string) domain.Project {
	t.Helper()

	p := domain.Project{ID: idx.New().String(), Name: name, Active: true}
	require.NoError(t, st.Projects().CreateProject(context.Background(), p))
	return p
}

// captureMailer records the links that would have been emailed.
type captureMailer struct {
	magicLinks  []string
	invitations []string
}

func (m *captureMailer) SendMagicLink(_ context.Context, _, url string) error {
	m.magicLinks = append(m.magicLinks, url)
	return nil
}

func (m *captureMailer) SendInvitation(_ context.Context, _, url string) error {
	m.invitations = append(m.invitations, url)
	return nil
}

package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/internal/timesheet/store/drivers/sqlite"

	"github.com/stretchr/testify/require"
)

const inviteBaseURL = "http://timesheet.test"

func newInvitationService(st *sqlite.Store, mailer *captureMailer) *service.InvitationService {
	return &service.InvitationService{
		Store:   st,
		Signer:  newTestSigner(),
		Mailer:  mailer,
		BaseURL: inviteBaseURL,
	}
}

func inviteToken(t *testing.T, mailer *captureMailer) string {
	t.Helper()
	require.NotEmpty(t, mailer.invitations)
	url := mailer.invitations[len(mailer.invitations)-1]
	return strings.TrimPrefix(url, inviteBaseURL+"/invitations/accept/")
}

func TestSendInvitation(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	mailer := &captureMailer{}
	svc := newInvitationService(st, mailer)

	admin := seedActiveUser(t, st, "Admin", "admin@example.com")

	t.Run("creates a placeholder user", func(t *testing.T) {
		inv, err := svc.SendInvitation(ctx, "New.Person@Example.com", admin.ID)
		require.NoError(t, err)
		require.Equal(t, "new.person@example.com", inv.Email)
		require.Len(t, mailer.invitations, 1)

		user, err := st.Users().GetUserByEmail(ctx, "new.person@example.com")
		require.NoError(t, err)
		require.Equal(t, domain.StatusInvited, user.Status)
	})

	t.Run("resend supersedes the pending invitation", func(t *testing.T) {
		firstToken := inviteToken(t, mailer)

		_, err := svc.SendInvitation(ctx, "new.person@example.com", admin.ID)
		require.NoError(t, err)
		require.Len(t, mailer.invitations, 2)

		_, err = svc.Preview(ctx, firstToken)
		require.ErrorIs(t, err, service.ErrInviteInvalid)

		inv, err := svc.Preview(ctx, inviteToken(t, mailer))
		require.NoError(t, err)
		require.Equal(t, "new.person@example.com", inv.Email)
	})

	t.Run("active accounts cannot be invited", func(t *testing.T) {
		_, err := svc.SendInvitation(ctx, admin.Email, admin.ID)
		require.ErrorIs(t, err, service.ErrAlreadyRegistered)
	})

	t.Run("rejects malformed addresses", func(t *testing.T) {
		_, err := svc.SendInvitation(ctx, "not-an-email", admin.ID)
		require.ErrorIs(t, err, service.ErrInvalidEmail)
	})
}

func TestAcceptInvitation(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	mailer := &captureMailer{}
	svc := newInvitationService(st, mailer)

	admin := seedActiveUser(t, st, "Admin", "admin@example.com")

	_, err := svc.SendInvitation(ctx, "carol@example.com", admin.ID)
	require.NoError(t, err)
	token := inviteToken(t, mailer)

	t.Run("name and surname are required", func(t *testing.T) {
		_, _, err := svc.Accept(ctx, token, "Carol", "")
		require.ErrorIs(t, err, service.ErrNameRequired)
	})

	t.Run("activates the account and signs in", func(t *testing.T) {
		jwt, user, err := svc.Accept(ctx, token, "Carol", "Jones")
		require.NoError(t, err)
		require.Equal(t, "Carol", user.Name)
		require.Equal(t, domain.StatusActive, user.Status)

		claims, err := svc.Signer.Verify(jwt)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.UserID())

		stored, err := st.Users().GetUserByEmail(ctx, "carol@example.com")
		require.NoError(t, err)
		require.Equal(t, domain.StatusActive, stored.Status)
		require.Equal(t, "Jones", stored.Surname)
	})

	t.Run("spent token is invalid", func(t *testing.T) {
		_, _, err := svc.Accept(ctx, token, "Carol", "Jones")
		require.ErrorIs(t, err, service.ErrInviteInvalid)
	})

	t.Run("unknown token is invalid", func(t *testing.T) {
		_, _, err := svc.Accept(ctx, "never-issued", "Carol", "Jones")
		require.ErrorIs(t, err, service.ErrInviteInvalid)
	})
}

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
	"github.com/clockleaf/timesheet/pkg/cryptox"
	"github.com/clockleaf/timesheet/pkg/idx"
	"github.com/clockleaf/timesheet/pkg/jwtx"
	"github.com/clockleaf/timesheet/pkg/slogx"
)

var (
	ErrAlreadyRegistered = errors.New("this email already has an account")
	ErrInviteInvalid     = errors.New("this invitation is not valid")
	ErrInviteAccepted    = errors.New("this invitation has already been accepted")
	ErrNameRequired      = errors.New("name and surname are required")
)

// InvitationService onboards new users. Sending an invitation creates a
// placeholder user row immediately so the address shows up in listings;
// accepting fills in the name and activates the account.
type InvitationService struct {
	Store  store.Store
	Signer *jwtx.Signer
	Mailer Mailer

	BaseURL string
}

// SendInvitation invites email, creating the placeholder user if needed.
// Re-inviting a placeholder supersedes any pending invitation with a fresh
// token. Inviting an active account is a conflict.
func (s *InvitationService) SendInvitation(ctx context.Context, email, invitedBy string) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if !validEmail(email) {
		return domain.Invitation{}, ErrInvalidEmail
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil && !user.Invited():
		return domain.Invitation{}, ErrAlreadyRegistered
	case err != nil && !errors.Is(err, store.ErrNotFound):
		log.Error("failed to look up user", slog.Any("error", err))
		return domain.Invitation{}, err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Invitation{}, err
	}

	invitation := domain.Invitation{
		ID:        idx.New().String(),
		Email:     email,
		TokenHash: cryptox.FingerprintToken(token),
		InvitedBy: invitedBy,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if user.ID == "" {
			placeholder := domain.User{
				ID:     idx.New().String(),
				Email:  email,
				Role:   domain.RoleUser,
				Status: domain.StatusInvited,
			}
			if err := tx.Users().CreateUser(ctx, placeholder); err != nil {
				return err
			}
		}
		if err := tx.Invitations().DeletePendingInvitationsByEmail(ctx, email); err != nil {
			return err
		}
		return tx.Invitations().CreateInvitation(ctx, invitation)
	})
	if err != nil {
		log.Error("failed to store invitation", slog.Any("error", err))
		return domain.Invitation{}, err
	}

	url := s.BaseURL + "/invitations/accept/" + token
	if err := s.Mailer.SendInvitation(ctx, email, url); err != nil {
		log.Error("failed to send invitation", slog.Any("error", err))
		return domain.Invitation{}, err
	}

	log.Info("invitation sent", slog.String("invitation_id", invitation.ID))
	return invitation, nil
}

// ListInvitations returns all invitations, newest first.
func (s *InvitationService) ListInvitations(ctx context.Context) ([]domain.Invitation, error) {
	return s.Store.Invitations().ListInvitations(ctx)
}

// Preview resolves a raw token to the invited email without consuming it.
// The acceptance page uses it to prefill the form.
func (s *InvitationService) Preview(ctx context.Context, token string) (domain.Invitation, error) {
	inv, err := s.Store.Invitations().GetPendingInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Invitation{}, ErrInviteInvalid
	}
	return inv, err
}

// Accept consumes the invitation: the placeholder user gets its name and
// flips to active, the invitation is marked accepted, and a JWT is minted so
// the new user lands signed in.
func (s *InvitationService) Accept(ctx context.Context, token, name, surname string) (string, domain.User, error) {
	log := slogx.FromContext(ctx)

	if name == "" || surname == "" {
		return "", domain.User{}, ErrNameRequired
	}

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		inv, err := tx.Invitations().GetPendingInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteInvalid
			}
			return err
		}

		user, err = tx.Users().GetUserByEmail(ctx, inv.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteInvalid
			}
			return err
		}

		if err := tx.Users().ActivateInvitedUser(ctx, user.ID, name, surname); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Account is already active; the token was effectively spent.
				return ErrInviteAccepted
			}
			return err
		}
		if err := tx.Invitations().MarkInvitationAccepted(ctx, inv.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteAccepted
			}
			return err
		}

		user.Name = name
		user.Surname = surname
		user.Status = domain.StatusActive
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInviteInvalid) || errors.Is(err, ErrInviteAccepted) {
			return "", domain.User{}, err
		}
		log.Error("failed to accept invitation", slog.Any("error", err))
		return "", domain.User{}, err
	}

	jwt, err := s.Signer.Mint(user.ID, user.Email, string(user.Role))
	if err != nil {
		log.Error("failed to mint token", slog.Any("error", err))
		return "", domain.User{}, err
	}

	log.Info("invitation accepted", slog.String("user_id", user.ID))
	return jwt, user, nil
}

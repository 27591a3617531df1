package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
	"github.com/clockleaf/timesheet/pkg/idx"
	"github.com/clockleaf/timesheet/pkg/jwtx"
	"github.com/clockleaf/timesheet/pkg/slogx"
)

var ErrSetupComplete = errors.New("setup has already been completed")

// SetupService handles the first run: while the users table is empty anyone
// may create the first admin; afterwards the endpoint is closed for good.
type SetupService struct {
	Store  store.Store
	Signer *jwtx.Signer
}

// Required reports whether no users exist yet.
func (s *SetupService) Required(ctx context.Context) (bool, error) {
	return s.Store.Users().IsEmpty(ctx)
}

// CreateFirstAdmin creates the initial admin account and signs it in. The
// emptiness check runs inside the transaction so two racing setups cannot
// both succeed.
func (s *SetupService) CreateFirstAdmin(ctx context.Context, name, surname, email string) (string, domain.User, error) {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if name == "" || surname == "" || !validEmail(email) {
		return "", domain.User{}, ErrInvalidUser
	}

	user := domain.User{
		ID:      idx.New().String(),
		Name:    name,
		Surname: surname,
		Email:   email,
		Role:    domain.RoleAdmin,
		Status:  domain.StatusActive,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrSetupComplete
		}
		return tx.Users().CreateUser(ctx, user)
	})
	if err != nil {
		if errors.Is(err, ErrSetupComplete) {
			return "", domain.User{}, err
		}
		log.Error("failed to create first admin", slog.Any("error", err))
		return "", domain.User{}, err
	}

	jwt, err := s.Signer.Mint(user.ID, user.Email, string(user.Role))
	if err != nil {
		log.Error("failed to mint token", slog.Any("error", err))
		return "", domain.User{}, err
	}

	log.Info("first admin created", slog.String("user_id", user.ID))
	return jwt, user, nil
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
	"github.com/clockleaf/timesheet/pkg/idx"
	"github.com/clockleaf/timesheet/pkg/slogx"
)

var (
	ErrInvalidUser  = errors.New("name, surname and a valid email are required")
	ErrInvalidRole  = errors.New("role must be admin or user")
	ErrEmailTaken   = errors.New("a user with this email already exists")
	ErrUserNotFound = errors.New("user not found")
)

type UserService struct {
	Store store.Store
}

// CreateUserParams carries the admin-form fields. Profile fields are optional.
type CreateUserParams struct {
	Name       string
	Surname    string
	Email      string
	Role       domain.Role
	Phone      string
	Department string
	JobTitle   string
	AvatarURL  string
	Language   string
	Timezone   string
}

func (s *UserService) CreateUser(ctx context.Context, p CreateUserParams) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email := NormalizeEmail(p.Email)
	if p.Name == "" || p.Surname == "" || !validEmail(email) {
		return domain.User{}, ErrInvalidUser
	}
	if p.Role == "" {
		p.Role = domain.RoleUser
	}
	if !p.Role.Valid() {
		return domain.User{}, ErrInvalidRole
	}

	user := domain.User{
		ID:         idx.New().String(),
		Name:       p.Name,
		Surname:    p.Surname,
		Email:      email,
		Role:       p.Role,
		Status:     domain.StatusActive,
		Phone:      p.Phone,
		Department: p.Department,
		JobTitle:   p.JobTitle,
		AvatarURL:  p.AvatarURL,
		Language:   p.Language,
		Timezone:   p.Timezone,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("user created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) ListUsers(ctx context.Context, includeDeleted bool) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx, includeDeleted)
}

// UpdateUserParams are the mutable fields of a user. Nil pointers leave the
// current value in place so PATCH semantics hold.
type UpdateUserParams struct {
	Name       *string
	Surname    *string
	Email      *string
	Role       *domain.Role
	Phone      *string
	Department *string
	JobTitle   *string
	AvatarURL  *string
	Language   *string
	Timezone   *string
}

func (s *UserService) UpdateUser(ctx context.Context, id string, p UpdateUserParams) (domain.User, error) {
	log := slogx.FromContext(ctx)

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	applyString(&user.Name, p.Name)
	applyString(&user.Surname, p.Surname)
	applyString(&user.Phone, p.Phone)
	applyString(&user.Department, p.Department)
	applyString(&user.JobTitle, p.JobTitle)
	applyString(&user.AvatarURL, p.AvatarURL)
	applyString(&user.Language, p.Language)
	applyString(&user.Timezone, p.Timezone)
	if p.Email != nil {
		user.Email = NormalizeEmail(*p.Email)
	}
	if p.Role != nil {
		user.Role = *p.Role
	}

	if user.Name == "" || user.Surname == "" || !validEmail(user.Email) {
		return domain.User{}, ErrInvalidUser
	}
	if !user.Role.Valid() {
		return domain.User{}, ErrInvalidRole
	}

	if err := s.Store.Users().UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.User{}, ErrEmailTaken
		case errors.Is(err, store.ErrNotFound):
			return domain.User{}, ErrUserNotFound
		}
		log.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return domain.User{}, err
	}
	return user, nil
}

// DeleteUser soft-deletes by default so historical time entries keep their
// reference. With hard set the row is removed and entries cascade.
func (s *UserService) DeleteUser(ctx context.Context, id string, hard bool) error {
	log := slogx.FromContext(ctx)

	var err error
	if hard {
		err = s.Store.Users().HardDeleteUser(ctx, id)
	} else {
		err = s.Store.Users().SetUserStatus(ctx, id, domain.StatusDeleted)
	}
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		log.Error("failed to delete user", slog.String("user_id", id), slog.Any("error", err))
		return err
	}

	log.Info("user deleted", slog.String("user_id", id), slog.Bool("hard", hard))
	return nil
}

// NormalizeEmail lowercases and trims an address for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail is deliberately loose: one @ with something on both sides. The
// real check is the magic link landing in the inbox.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
	"github.com/clockleaf/timesheet/pkg/cryptox"
	"github.com/clockleaf/timesheet/pkg/idx"
	"github.com/clockleaf/timesheet/pkg/jwtx"
	"github.com/clockleaf/timesheet/pkg/slogx"
	"github.com/clockleaf/timesheet/pkg/ttlstore"
)

var (
	ErrInvalidEmail = errors.New("a valid email is required")
	ErrLinkInvalid  = errors.New("this sign-in link is not valid")
	ErrLinkUsed     = errors.New("this sign-in link has already been used")
	ErrLinkExpired  = errors.New("this sign-in link has expired")
)

// MagicLinkInterval is the per-email issuance limit.
const MagicLinkInterval = 60 * time.Second

// RateLimitError reports how long until another link may be requested.
type RateLimitError struct {
	Remaining time.Duration
}

func (e *RateLimitError) Error() string {
	secs := int(e.Remaining.Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("please wait %d seconds before requesting another link", secs)
}

// AuthService issues and consumes magic links and mints the JWTs everything
// else authenticates with.
type AuthService struct {
	Store   store.Store
	Signer  *jwtx.Signer
	Limiter ttlstore.Store
	Mailer  Mailer

	// BaseURL prefixes the links put into emails.
	BaseURL string

	// Now is swapped out in tests.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RequestMagicLink issues a sign-in link for email. The response does not
// reveal whether an account exists; for unknown, deleted or not-yet-accepted
// addresses nothing is issued but the caller still gets success. The per-email
// limit applies before the lookup so probing is throttled too.
func (s *AuthService) RequestMagicLink(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if !validEmail(email) {
		return ErrInvalidEmail
	}

	ok, remaining := s.Limiter.Acquire("magic-link:"+email, MagicLinkInterval)
	if !ok {
		return &RateLimitError{Remaining: remaining}
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("magic link requested for unknown email")
			return nil
		}
		log.Error("failed to look up user", slog.Any("error", err))
		return err
	}
	if user.Deleted() || user.Invited() {
		log.Info("magic link requested for inactive account",
			slog.String("user_id", user.ID),
			slog.String("status", string(user.Status)),
		)
		return nil
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	link := domain.MagicLink{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: s.now().Add(domain.MagicLinkTTL),
	}
	if err := s.Store.MagicLinks().CreateMagicLink(ctx, link); err != nil {
		log.Error("failed to store magic link", slog.Any("error", err))
		return err
	}

	url := s.BaseURL + "/auth/magic-link/" + token
	if err := s.Mailer.SendMagicLink(ctx, email, url); err != nil {
		log.Error("failed to send magic link", slog.Any("error", err))
		return err
	}

	log.Info("magic link issued", slog.String("user_id", user.ID))
	return nil
}

// ConsumeMagicLink redeems a raw token for a bearer JWT. Expiry is checked
// before the used flag flips, and the flip is guarded so two concurrent
// redemptions cannot both succeed.
func (s *AuthService) ConsumeMagicLink(ctx context.Context, token string) (string, domain.User, error) {
	log := slogx.FromContext(ctx)

	link, err := s.Store.MagicLinks().GetMagicLinkByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.User{}, ErrLinkInvalid
		}
		log.Error("failed to look up magic link", slog.Any("error", err))
		return "", domain.User{}, err
	}

	if link.Used {
		return "", domain.User{}, ErrLinkUsed
	}
	if link.Expired(s.now()) {
		return "", domain.User{}, ErrLinkExpired
	}

	if err := s.Store.MagicLinks().ConsumeMagicLink(ctx, link.ID); err != nil {
		// Lost the race to another redemption.
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.User{}, ErrLinkUsed
		}
		log.Error("failed to consume magic link", slog.Any("error", err))
		return "", domain.User{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, link.UserID)
	if err != nil {
		log.Error("failed to load user for magic link", slog.Any("error", err))
		return "", domain.User{}, err
	}
	if user.Deleted() {
		return "", domain.User{}, ErrLinkInvalid
	}

	jwt, err := s.Signer.Mint(user.ID, user.Email, string(user.Role))
	if err != nil {
		log.Error("failed to mint token", slog.Any("error", err))
		return "", domain.User{}, err
	}

	log.Info("magic link consumed", slog.String("user_id", user.ID))
	return jwt, user, nil
}

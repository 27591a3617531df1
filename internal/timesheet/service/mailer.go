package service

import (
	"context"
	"log/slog"
)

// Mailer delivers the tokenized links the auth flows produce. Transport is a
// deployment concern; the service only needs "send this URL to this address".
type Mailer interface {
	SendMagicLink(ctx context.Context, email, url string) error
	SendInvitation(ctx context.Context, email, url string) error
}

// LogMailer writes the links to the log instead of sending mail. It is the
// default for development and tests; an SMTP-backed Mailer slots in without
// touching the services.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendMagicLink(ctx context.Context, email, url string) error {
	m.Logger.Info("magic link issued",
		slog.String("email", email),
		slog.String("url", url),
	)
	return nil
}

func (m *LogMailer) SendInvitation(ctx context.Context, email, url string) error {
	m.Logger.Info("invitation issued",
		slog.String("email", email),
		slog.String("url", url),
	)
	return nil
}

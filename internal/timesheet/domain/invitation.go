package domain

import "time"

// Invitation is a single-use onboarding token. Sending one for an email with
// no account creates a placeholder User (StatusInvited) so the address shows
// up in user listings immediately; accepting fills in the person's name and
// activates the account.
type Invitation struct {
	ID        string
	Email     string
	TokenHash string // SHA-256 fingerprint of the raw token
	InvitedBy string // user id of the inviter, empty for system resends
	Accepted  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MagicLink is a single-use, time-limited sign-in token.
// State machine: issued -> (consumed | expired).
type MagicLink struct {
	ID        string
	UserID    string
	TokenHash string // SHA-256 fingerprint of the raw token
	ExpiresAt time.Time
	Used      bool

	CreatedAt time.Time
}

// MagicLinkTTL is how long a link stays valid after issuance.
const MagicLinkTTL = 15 * time.Minute

func (l MagicLink) Expired(now time.Time) bool { return now.After(l.ExpiresAt) }

package domain

import (
	"strings"
	"time"
)

// ClientType distinguishes billable external work from internal work.
type ClientType string

const (
	ClientInternal ClientType = "internal"
	ClientExternal ClientType = "external"
)

func (t ClientType) Valid() bool { return t == ClientInternal || t == ClientExternal }

type Client struct {
	ID   string
	Name string
	Type ClientType
	ITN  string // tax id, optional; unique when present

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeName collapses inner whitespace and lowercases, so that
// "Acme Corp" and " acme  corp " are treated as the same name. Used for the
// application-level duplicate checks on client and project names.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

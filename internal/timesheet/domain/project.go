package domain

import "time"

type Project struct {
	ID          string
	Name        string
	Code        string // optional; unique when present
	Description string
	ClientID    string // optional FK, empty when unassigned
	Active      bool

	// ClientName is populated on reads that join the owning client.
	// It is never written back.
	ClientName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

package domain

import "time"

// Role determines what a user may administer.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// Status is the user lifecycle state. A user created through the invitation
// flow starts as Invited (placeholder row with only an email); removing a
// user soft-deletes it so historical time entries keep their reference.
type Status string

const (
	StatusActive  Status = "active"
	StatusInvited Status = "invited"
	StatusDeleted Status = "deleted"
)

type User struct {
	ID      string
	Name    string
	Surname string
	Email   string
	Role    Role
	Status  Status

	// Optional profile fields, empty when unset.
	Phone      string
	Department string
	JobTitle   string
	AvatarURL  string
	Language   string
	Timezone   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) Deleted() bool { return u.Status == StatusDeleted }
func (u User) Invited() bool { return u.Status == StatusInvited }

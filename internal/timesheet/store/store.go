package store

import (
	"context"
	"errors"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Users() Users
	Clients() Clients
	Projects() Projects
	TimeEntries() TimeEntries
	Invitations() Invitations
	MagicLinks() MagicLinks
	GridPrefs() GridPrefs
	Analytics() Analytics

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step writes that must be atomic
	// (e.g., the weekly batch reconciliation).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID).
	// A duplicate email maps to ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by normalized (lowercased) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns users ordered by name. Soft-deleted users are
	// excluded unless includeDeleted is set.
	ListUsers(ctx context.Context, includeDeleted bool) ([]domain.User, error)

	// UpdateUser overwrites the mutable columns and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	// SetUserStatus moves a user through its lifecycle (soft delete, restore).
	SetUserStatus(ctx context.Context, id string, status domain.Status) error

	// ActivateInvitedUser fills in name/surname and flips an invited
	// placeholder to active in one statement.
	ActivateInvitedUser(ctx context.Context, id, name, surname string) error

	// HardDeleteUser physically removes the row; time entries cascade.
	HardDeleteUser(ctx context.Context, id string) error

	// IsEmpty reports whether no users exist (first-run setup check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Clients interface {
	CreateClient(ctx context.Context, c domain.Client) error
	GetClientByID(ctx context.Context, id string) (domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	UpdateClient(ctx context.Context, c domain.Client) error
	DeleteClient(ctx context.Context, id string) error

	// FindClientByNormalizedName resolves the case/whitespace-insensitive
	// duplicate check. The caller passes an already-normalized name.
	FindClientByNormalizedName(ctx context.Context, norm string) (domain.Client, error)

	// FindClientByITN resolves the tax-id uniqueness check.
	FindClientByITN(ctx context.Context, itn string) (domain.Client, error)
}

type Projects interface {
	CreateProject(ctx context.Context, p domain.Project) error
	GetProjectByID(ctx context.Context, id string) (domain.Project, error)

	// ListProjects returns all projects joined with their client name,
	// ordered by project name.
	ListProjects(ctx context.Context) ([]domain.Project, error)

	UpdateProject(ctx context.Context, p domain.Project) error
	DeleteProject(ctx context.Context, id string) error

	FindProjectByNormalizedName(ctx context.Context, norm string) (domain.Project, error)
	FindProjectByCode(ctx context.Context, code string) (domain.Project, error)
}

// TimeEntryFilter bounds a time-entry listing. Zero fields are ignored.
type TimeEntryFilter struct {
	UserID    string
	ProjectID string
	Start     *time.Time // inclusive calendar day
	End       *time.Time // inclusive calendar day
}

type TimeEntries interface {
	// CreateTimeEntry inserts a new entry. A second entry for the same
	// (user, project, date) key maps to ErrAlreadyExists.
	CreateTimeEntry(ctx context.Context, e domain.TimeEntry) error

	// UpsertTimeEntry inserts, or on (user, project, date) conflict
	// overwrites hours and submission_time of the existing row. The
	// existing row keeps its id and description.
	UpsertTimeEntry(ctx context.Context, e domain.TimeEntry) error

	GetTimeEntryByID(ctx context.Context, id string) (domain.TimeEntry, error)

	// ListTimeEntries returns entries joined with user and project names,
	// newest date first.
	ListTimeEntries(ctx context.Context, f TimeEntryFilter) ([]domain.TimeEntry, error)

	// UpdateTimeEntry overwrites date, hours, description and project.
	UpdateTimeEntry(ctx context.Context, e domain.TimeEntry) error

	// DeleteTimeEntry removes one entry; ErrNotFound if it does not exist.
	DeleteTimeEntry(ctx context.Context, id string) error

	// DeleteUserEntriesByIDs removes a set of entries, constrained to one
	// user's rows within a date range; ids outside that scope are ignored.
	// Missing ids are not an error: during reconciliation an already-gone
	// row counts as done.
	DeleteUserEntriesByIDs(ctx context.Context, userID string, start, end time.Time, ids []string) error

	// DeleteUserProjectRange bulk-deletes one user's entries for one
	// project across a date range (single-row-delete of a week's project).
	// Returns the number of rows removed.
	DeleteUserProjectRange(ctx context.Context, userID, projectID string, start, end time.Time) (int64, error)
}

type Invitations interface {
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetPendingInvitationByTokenHash returns a not-yet-accepted invitation.
	GetPendingInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	ListInvitations(ctx context.Context) ([]domain.Invitation, error)

	// MarkInvitationAccepted flips accepted=1, guarding against double
	// acceptance; ErrNotFound when already accepted or missing.
	MarkInvitationAccepted(ctx context.Context, id string) error

	// DeletePendingInvitationsByEmail drops superseded invitations when one
	// is re-sent for the same address.
	DeletePendingInvitationsByEmail(ctx context.Context, email string) error
}

type MagicLinks interface {
	CreateMagicLink(ctx context.Context, l domain.MagicLink) error

	// GetMagicLinkByTokenHash returns the link regardless of state; the
	// service distinguishes used from expired for its error messages.
	GetMagicLinkByTokenHash(ctx context.Context, hash string) (domain.MagicLink, error)

	// ConsumeMagicLink atomically flips used=1. ErrNotFound when the link
	// is missing or was already used (lost the race).
	ConsumeMagicLink(ctx context.Context, id string) error

	// DeleteStaleMagicLinks removes used links and links expired before
	// the cutoff (housekeeping).
	DeleteStaleMagicLinks(ctx context.Context, cutoff time.Time) error
}

type GridPrefs interface {
	// GetRowOrder returns the stored project-id display order for a
	// (user, week) pair, or ErrNotFound.
	GetRowOrder(ctx context.Context, userID, weekKey string) ([]string, error)

	// PutRowOrder stores or replaces the display order.
	PutRowOrder(ctx context.Context, userID, weekKey string, projectIDs []string) error
}

type Analytics interface {
	TimeByProject(ctx context.Context, r domain.DateRange) ([]domain.ProjectTime, error)
	TimeByProjectTotal(ctx context.Context, r domain.DateRange) ([]domain.ProjectTotal, error)
	TimeByUser(ctx context.Context, r domain.DateRange) ([]domain.UserProjectTime, error)
	TimeByUserTotal(ctx context.Context, r domain.DateRange) ([]domain.UserTime, error)
	TimeByClientType(ctx context.Context, r domain.DateRange) ([]domain.ClientTypeTime, error)
}

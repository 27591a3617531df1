// Package timesdk defines the wire types of the timesheet HTTP API and a
// small client for them. The server handlers marshal these same types, so
// the two sides cannot drift apart.
package timesdk

import "time"

// ErrorResponse is the error wire shape. The Error string is shown to the
// user verbatim.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ============================================================================
// Users
// ============================================================================

type UserInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Status  string `json:"status"`

	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	JobTitle   string `json:"job_title,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	Language   string `json:"language,omitempty"`
	Timezone   string `json:"timezone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateUserRequest struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Email      string `json:"email"`
	Role       string `json:"role,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	JobTitle   string `json:"job_title,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	Language   string `json:"language,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
}

// UpdateUserRequest follows PATCH semantics: absent fields keep their value.
type UpdateUserRequest struct {
	Name       *string `json:"name,omitempty"`
	Surname    *string `json:"surname,omitempty"`
	Email      *string `json:"email,omitempty"`
	Role       *string `json:"role,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Department *string `json:"department,omitempty"`
	JobTitle   *string `json:"job_title,omitempty"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	Language   *string `json:"language,omitempty"`
	Timezone   *string `json:"timezone,omitempty"`
}

type ListUsersResponse struct {
	Users []UserInfo `json:"users"`
}

// ============================================================================
// Clients & projects
// ============================================================================

type ClientInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	ITN  string `json:"itn,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateClientRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	ITN  string `json:"itn,omitempty"`
}

type UpdateClientRequest struct {
	Name *string `json:"name,omitempty"`
	Type *string `json:"type,omitempty"`
	ITN  *string `json:"itn,omitempty"`
}

type ListClientsResponse struct {
	Clients []ClientInfo `json:"clients"`
}

type ProjectInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
	ClientName  string `json:"client_name,omitempty"`
	Active      bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
	ClientID    *string `json:"client_id,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type ListProjectsResponse struct {
	Projects []ProjectInfo `json:"projects"`
}

// ============================================================================
// Time entries
// ============================================================================

type TimeEntryInfo struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	ProjectID      string     `json:"project_id"`
	Date           string     `json:"date"` // YYYY-MM-DD
	Hours          float64    `json:"hours"`
	Description    string     `json:"description,omitempty"`
	SubmissionTime *time.Time `json:"submission_time,omitempty"`

	UserName    string `json:"user_name,omitempty"`
	ProjectName string `json:"project_name,omitempty"`
}

type CreateTimeEntryRequest struct {
	UserID      string  `json:"user_id"`
	ProjectID   string  `json:"project_id"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description,omitempty"`
}

type UpdateTimeEntryRequest struct {
	ProjectID   *string  `json:"project_id,omitempty"`
	Date        *string  `json:"date,omitempty"`
	Hours       *float64 `json:"hours,omitempty"`
	Description *string  `json:"description,omitempty"`
}

type ListTimeEntriesResponse struct {
	Entries []TimeEntryInfo `json:"entries"`
}

// BatchEntry is one cell of a batch upsert. Zero hours removes the row for
// the (user, project, date) key if one exists.
type BatchEntry struct {
	UserID    string  `json:"user_id"`
	ProjectID string  `json:"project_id"`
	Date      string  `json:"date"`
	Hours     float64 `json:"hours"`
}

type BulkDeleteRequest struct {
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id"`
	WeekStart string `json:"week_start"`
}

type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// ============================================================================
// Weekly timesheet
// ============================================================================

// TimesheetCell carries the persisted entry id (empty for a day without a
// row) so the grid can issue targeted deletes when a cell is zeroed.
type TimesheetCell struct {
	EntryID string  `json:"entry_id,omitempty"`
	Hours   float64 `json:"hours"`
}

type TimesheetRow struct {
	ProjectID   string           `json:"project_id"`
	ProjectName string           `json:"project_name,omitempty"`
	Cells       [7]TimesheetCell `json:"cells"` // Monday first
}

type TimesheetResponse struct {
	UserID      string         `json:"user_id"`
	WeekStart   string         `json:"week_start"`
	WeekEnd     string         `json:"week_end"`
	Rows        []TimesheetRow `json:"rows"`
	DayTotals   [7]float64     `json:"day_totals"`
	Total       float64        `json:"total"`
	DayStatuses [7]string      `json:"day_statuses"` // under | met | over
}

type SubmitTimesheetRequest struct {
	UserID    string         `json:"user_id,omitempty"` // defaults to the caller
	WeekStart string         `json:"week_start"`
	Rows      []TimesheetRow `json:"rows"`
}

type RowOrderRequest struct {
	WeekStart  string   `json:"week_start"`
	ProjectIDs []string `json:"project_ids"`
}

type RowOrderResponse struct {
	ProjectIDs []string `json:"project_ids"`
}

// ============================================================================
// Analytics
// ============================================================================

type ProjectTimeRow struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	ClientName  string  `json:"client_name"`
	ClientType  string  `json:"client_type"`
	TotalHours  float64 `json:"total_hours"`
}

type ProjectTotalRow struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	TotalHours  float64 `json:"total_hours"`
}

type UserProjectTimeRow struct {
	UserID      string  `json:"user_id"`
	UserName    string  `json:"user_name"`
	ProjectName string  `json:"project_name"`
	ClientType  string  `json:"client_type"`
	TotalHours  float64 `json:"total_hours"`
}

type UserTimeRow struct {
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name"`
	TotalHours float64 `json:"total_hours"`
}

type ClientTypeTimeRow struct {
	ClientType string  `json:"client_type"`
	TotalHours float64 `json:"total_hours"`
}

// ============================================================================
// Auth, invitations, setup
// ============================================================================

type MagicLinkRequest struct {
	Email string `json:"email"`
}

// MessageResponse is a generic acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthResponse is returned whenever a flow ends in a signed-in user.
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type InvitationRequest struct {
	Email string `json:"email"`
}

type InvitationInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"created_at"`
}

type ListInvitationsResponse struct {
	Invitations []InvitationInfo `json:"invitations"`
}

type InvitationPreviewResponse struct {
	Email string `json:"email"`
}

type AcceptInvitationRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

type SetupStatusResponse struct {
	Required bool `json:"required"`
}

type SetupRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

// ============================================================================
// Health
// ============================================================================

type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

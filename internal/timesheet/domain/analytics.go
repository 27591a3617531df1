package domain

import "time"

// DateRange bounds an analytics query, both ends inclusive at calendar-day
// granularity. A nil end means unbounded ("all time" when both are nil).
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ProjectTime is total hours for a project with its owning client.
type ProjectTime struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	ClientName  string  `json:"client_name"`
	ClientType  string  `json:"client_type"`
	TotalHours  float64 `json:"total_hours"`
}

// UserProjectTime is total hours for a user broken down by project.
type UserProjectTime struct {
	UserID      string  `json:"user_id"`
	UserName    string  `json:"user_name"`
	ProjectName string  `json:"project_name"`
	ClientType  string  `json:"client_type"`
	TotalHours  float64 `json:"total_hours"`
}

// UserTime is total hours per user without the project breakdown.
type UserTime struct {
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name"`
	TotalHours float64 `json:"total_hours"`
}

// ProjectTotal is total hours per project without the client join.
type ProjectTotal struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	TotalHours  float64 `json:"total_hours"`
}

// ClientTypeTime is total hours per client type. Projects with no client
// report as "unassigned".
type ClientTypeTime struct {
	ClientType string  `json:"client_type"`
	TotalHours float64 `json:"total_hours"`
}

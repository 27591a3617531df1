package http

import (
	"encoding/json"
	"net/http"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/pkg/httpx"
	"github.com/clockleaf/timesheet/pkg/timesdk"
)

// decodeJSON parses the request body into v. On failure it writes a 400 and
// returns false; the handler should just return.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Request body is not valid JSON")
		return false
	}
	return true
}

func toUserInfo(u domain.User) timesdk.UserInfo {
	return timesdk.UserInfo{
		ID:         u.ID,
		Name:       u.Name,
		Surname:    u.Surname,
		Email:      u.Email,
		Role:       string(u.Role),
		Status:     string(u.Status),
		Phone:      u.Phone,
		Department: u.Department,
		JobTitle:   u.JobTitle,
		AvatarURL:  u.AvatarURL,
		Language:   u.Language,
		Timezone:   u.Timezone,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toClientInfo(c domain.Client) timesdk.ClientInfo {
	return timesdk.ClientInfo{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		ITN:       c.ITN,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toProjectInfo(p domain.Project) timesdk.ProjectInfo {
	return timesdk.ProjectInfo{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		ClientID:    p.ClientID,
		ClientName:  p.ClientName,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toTimeEntryInfo(e domain.TimeEntry) timesdk.TimeEntryInfo {
	return timesdk.TimeEntryInfo{
		ID:             e.ID,
		UserID:         e.UserID,
		ProjectID:      e.ProjectID,
		Date:           domain.FormatDate(e.Date),
		Hours:          e.Hours,
		Description:    e.Description,
		SubmissionTime: e.SubmissionTime,
		UserName:       e.UserName,
		ProjectName:    e.ProjectName,
	}
}

func toInvitationInfo(inv domain.Invitation) timesdk.InvitationInfo {
	return timesdk.InvitationInfo{
		ID:        inv.ID,
		Email:     inv.Email,
		Accepted:  inv.Accepted,
		CreatedAt: inv.CreatedAt,
	}
}

package http

import (
	"errors"
	"net/http"

	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/pkg/httpx"
	"github.com/clockleaf/timesheet/pkg/slogx"
	"github.com/clockleaf/timesheet/pkg/timesdk"
)

type SetupHandler struct {
	SetupService *service.SetupService
}

// HandleStatus reports whether first-run setup is still open.
func (h *SetupHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	required, err := h.SetupService.Required(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to check setup status", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to check setup status")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, timesdk.SetupStatusResponse{Required: required})
}

// HandleCreate creates the first admin while the users table is empty.
func (h *SetupHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req timesdk.SetupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.SetupService.CreateFirstAdmin(ctx, req.Name, req.Surname, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUser):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSetupComplete):
			httpx.WriteError(w, http.StatusConflict, err.Error())
		default:
			log.Error("failed to run setup", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to complete setup")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, timesdk.AuthResponse{
		Token: token,
		User:  toUserInfo(user),
	})
}

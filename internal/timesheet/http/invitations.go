package http

import (
	"errors"
	"net/http"

	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/pkg/httpx"
	"github.com/clockleaf/timesheet/pkg/slogx"
	"github.com/clockleaf/timesheet/pkg/timesdk"
)

type InvitationsHandler struct {
	InvitationService *service.InvitationService
}

func (h *InvitationsHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req timesdk.InvitationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	inv, err := h.InvitationService.SendInvitation(ctx, req.Email, httpx.UserIDFromContext(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAlreadyRegistered):
			httpx.WriteError(w, http.StatusConflict, err.Error())
		default:
			log.Error("failed to send invitation", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to send invitation")
		}
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toInvitationInfo(inv))
}

func (h *InvitationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	invs, err := h.InvitationService.ListInvitations(ctx)
	if err != nil {
		log.Error("failed to list invitations", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to list invitations")
		return
	}

	resp := timesdk.ListInvitationsResponse{Invitations: make([]timesdk.InvitationInfo, len(invs))}
	for i, inv := range invs {
		resp.Invitations[i] = toInvitationInfo(inv)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandlePreview resolves a token to its email so the acceptance form can be
// prefilled. Does not consume the invitation.
func (h *InvitationsHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	inv, err := h.InvitationService.Preview(ctx, r.PathValue("token"))
	if err != nil {
		if errors.Is(err, service.ErrInviteInvalid) {
			httpx.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		slogx.FromContext(ctx).Error("failed to preview invitation", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load invitation")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, timesdk.InvitationPreviewResponse{Email: inv.Email})
}

// HandleAccept activates the invited account and signs it in.
func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req timesdk.AcceptInvitationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.InvitationService.Accept(ctx, r.PathValue("token"), req.Name, req.Surname)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInviteInvalid):
			httpx.WriteError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInviteAccepted):
			httpx.WriteError(w, http.StatusConflict, err.Error())
		default:
			log.Error("failed to accept invitation", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to accept invitation")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, timesdk.AuthResponse{
		Token: token,
		User:  toUserInfo(user),
	})
}

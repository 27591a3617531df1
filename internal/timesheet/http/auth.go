package http

import (
	"errors"
	"net/http"

	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/pkg/httpx"
	"github.com/clockleaf/timesheet/pkg/slogx"
	"github.com/clockleaf/timesheet/pkg/timesdk"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRequestMagicLink issues a sign-in link. The response is the same
// whether or not the email has an account.
func (h *AuthHandler) HandleRequestMagicLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req timesdk.MagicLinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.AuthService.RequestMagicLink(ctx, req.Email)
	if err != nil {
		var rle *service.RateLimitError
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &rle):
			httpx.WriteError(w, http.StatusTooManyRequests, rle.Error())
		default:
			log.Error("failed to issue magic link", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to send sign-in link")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, timesdk.MessageResponse{
		Message: "If this email has an account, a sign-in link is on its way",
	})
}

// HandleConsumeMagicLink redeems the raw token from the URL for a JWT.
func (h *AuthHandler) HandleConsumeMagicLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token, user, err := h.AuthService.ConsumeMagicLink(ctx, r.PathValue("token"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkInvalid),
			errors.Is(err, service.ErrLinkUsed),
			errors.Is(err, service.ErrLinkExpired):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error("failed to consume magic link", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to sign in")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, timesdk.AuthResponse{
		Token: token,
		User:  toUserInfo(user),
	})
}

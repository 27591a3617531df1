package http

import (
	"errors"
	"net/http"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/pkg/httpx"
	"github.com/clockleaf/timesheet/pkg/slogx"
	"github.com/clockleaf/timesheet/pkg/timesdk"
)

type UsersHandler struct {
	UserService *service.UserService
}

func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	includeDeleted := r.URL.Query().Get("include_deleted") == "true"
	users, err := h.UserService.ListUsers(ctx, includeDeleted)
	if err != nil {
		log.Error("failed to list users", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	resp := timesdk.ListUsersResponse{Users: make([]timesdk.UserInfo, len(users))}
	for i, u := range users {
		resp.Users[i] = toUserInfo(u)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req timesdk.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.UserService.CreateUser(ctx, service.CreateUserParams{
		Name:       req.Name,
		Surname:    req.Surname,
		Email:      req.Email,
		Role:       domain.Role(req.Role),
		Phone:      req.Phone,
		Department: req.Department,
		JobTitle:   req.JobTitle,
		AvatarURL:  req.AvatarURL,
		Language:   req.Language,
		Timezone:   req.Timezone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUser), errors.Is(err, service.ErrInvalidRole):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, err.Error())
		default:
			log.Error("failed to create user", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserInfo(user))
}

func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.UserService.GetUser(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserInfo(user))
}

func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req timesdk.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var role *domain.Role
	if req.Role != nil {
		v := domain.Role(*req.Role)
		role = &v
	}

	user, err := h.UserService.UpdateUser(ctx, r.PathValue("id"), service.UpdateUserParams{
		Name:       req.Name,
		Surname:    req.Surname,
		Email:      req.Email,
		Role:       role,
		Phone:      req.Phone,
		Department: req.Department,
		JobTitle:   req.JobTitle,
		AvatarURL:  req.AvatarURL,
		Language:   req.Language,
		Timezone:   req.Timezone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUser), errors.Is(err, service.ErrInvalidRole):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, err.Error())
		default:
			log.Error("failed to update user", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserInfo(user))
}

// HandleDelete soft-deletes; ?hard=true removes the row and cascades the
// user's time entries.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	hard := r.URL.Query().Get("hard") == "true"
	err := h.UserService.DeleteUser(ctx, r.PathValue("id"), hard)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Error("failed to delete user", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/pkg/httpx"
	"github.com/clockleaf/timesheet/pkg/slogx"
	"github.com/clockleaf/timesheet/pkg/timesdk"
)

type ProjectsHandler struct {
	ProjectService *service.ProjectService
}

func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	projects, err := h.ProjectService.ListProjects(ctx)
	if err != nil {
		log.Error("failed to list projects", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to list projects")
		return
	}

	resp := timesdk.ListProjectsResponse{Projects: make([]timesdk.ProjectInfo, len(projects))}
	for i, p := range projects {
		resp.Projects[i] = toProjectInfo(p)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req timesdk.CreateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.ProjectService.CreateProject(ctx, service.CreateProjectParams{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		ClientID:    req.ClientID,
	})
	if err != nil {
		writeProjectError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProjectInfo(project))
}

func (h *ProjectsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req timesdk.UpdateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.ProjectService.UpdateProject(ctx, r.PathValue("id"), service.UpdateProjectParams{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		ClientID:    req.ClientID,
		Active:      req.Active,
	})
	if err != nil {
		writeProjectError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProjectInfo(project))
}

func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.ProjectService.DeleteProject(ctx, r.PathValue("id")); err != nil {
		writeProjectError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeProjectError(w http.ResponseWriter, ctx context.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidProject):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDuplicateProjectName), errors.Is(err, service.ErrDuplicateProjectCode):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrProjectNotFound), errors.Is(err, service.ErrClientNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	default:
		slogx.FromContext(ctx).Error("project operation failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to process project")
	}
}

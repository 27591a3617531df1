package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
	"github.com/clockleaf/timesheet/pkg/httpx"
	"github.com/clockleaf/timesheet/pkg/slogx"
	"github.com/clockleaf/timesheet/pkg/timesdk"
)

type TimeEntriesHandler struct {
	EntryService *service.EntryService
}

// HandleList filters by user_id, project_id, start_date and end_date query
// params. Non-admins only ever see their own entries.
func (h *TimeEntriesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := resolveUserScope(w, r, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}

	filter := store.TimeEntryFilter{
		UserID:    userID,
		ProjectID: r.URL.Query().Get("project_id"),
	}
	var err error
	if filter.Start, err = parseDateParam(r, "start_date"); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	if filter.End, err = parseDateParam(r, "end_date"); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	entries, err := h.EntryService.ListEntries(ctx, filter)
	if err != nil {
		log.Error("failed to list time entries", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to list time entries")
		return
	}

	resp := timesdk.ListTimeEntriesResponse{Entries: make([]timesdk.TimeEntryInfo, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = toTimeEntryInfo(e)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *TimeEntriesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req timesdk.CreateTimeEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, ok := resolveUserScope(w, r, req.UserID)
	if !ok {
		return
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	entry, err := h.EntryService.CreateEntry(ctx, service.CreateEntryParams{
		UserID:      userID,
		ProjectID:   req.ProjectID,
		Date:        date,
		Hours:       req.Hours,
		Description: req.Description,
	})
	if err != nil {
		writeEntryError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTimeEntryInfo(entry))
}

func (h *TimeEntriesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entry, err := h.EntryService.GetEntry(ctx, r.PathValue("id"))
	if err != nil {
		writeEntryError(w, ctx, err)
		return
	}
	if _, ok := resolveUserScope(w, r, entry.UserID); !ok {
		return
	}

	var req timesdk.UpdateTimeEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var date *time.Time
	if req.Date != nil {
		d, err := domain.ParseDate(*req.Date)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = &d
	}

	entry, err = h.EntryService.UpdateEntry(ctx, r.PathValue("id"), service.UpdateEntryParams{
		ProjectID:   req.ProjectID,
		Date:        date,
		Hours:       req.Hours,
		Description: req.Description,
	})
	if err != nil {
		writeEntryError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTimeEntryInfo(entry))
}

func (h *TimeEntriesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entry, err := h.EntryService.GetEntry(ctx, r.PathValue("id"))
	if err != nil {
		writeEntryError(w, ctx, err)
		return
	}
	if _, ok := resolveUserScope(w, r, entry.UserID); !ok {
		return
	}

	if err := h.EntryService.DeleteEntry(ctx, entry.ID); err != nil {
		writeEntryError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBatch applies an array of {user_id, project_id, date, hours} cells in
// one transaction. Zero hours removes the row for the key.
func (h *TimeEntriesHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req []timesdk.BatchEntry
	if !decodeJSON(w, r, &req) {
		return
	}

	items := make([]service.BatchItem, len(req))
	for i, it := range req {
		userID, ok := resolveUserScope(w, r, it.UserID)
		if !ok {
			return
		}
		date, err := domain.ParseDate(it.Date)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		items[i] = service.BatchItem{
			UserID:    userID,
			ProjectID: it.ProjectID,
			Date:      date,
			Hours:     it.Hours,
		}
	}

	if err := h.EntryService.BatchUpsert(ctx, items); err != nil {
		writeEntryError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, timesdk.MessageResponse{Message: "Batch applied"})
}

// HandleBulkDelete removes one user's entries for one project across the
// week containing week_start.
func (h *TimeEntriesHandler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req timesdk.BulkDeleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, ok := resolveUserScope(w, r, req.UserID)
	if !ok {
		return
	}
	weekDate, err := domain.ParseDate(req.WeekStart)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "week_start must be YYYY-MM-DD")
		return
	}

	n, err := h.EntryService.BulkDeleteWeek(ctx, userID, req.ProjectID, weekDate)
	if err != nil {
		writeEntryError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, timesdk.BulkDeleteResponse{Deleted: n})
}

func writeEntryError(w http.ResponseWriter, ctx context.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEntry), errors.Is(err, service.ErrInvalidHours):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDuplicateEntry):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEntryNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	default:
		slogx.FromContext(ctx).Error("time entry operation failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to process time entry")
	}
}

// resolveUserScope settles whose data a request touches. An empty requested
// id means the caller; admins may act on anyone, everyone else only on
// themselves (403 otherwise, and ok=false means the response is written).
func resolveUserScope(w http.ResponseWriter, r *http.Request, requested string) (string, bool) {
	callerID := httpx.UserIDFromContext(r.Context())
	if requested == "" || requested == callerID {
		return callerID, true
	}
	if httpx.RoleFromContext(r.Context()) == string(domain.RoleAdmin) {
		return requested, true
	}
	httpx.WriteError(w, http.StatusForbidden, "You may only access your own time entries")
	return "", false
}

func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/pkg/httpx"
	"github.com/clockleaf/timesheet/pkg/slogx"
	"github.com/clockleaf/timesheet/pkg/timesdk"
)

type TimesheetHandler struct {
	TimesheetService *service.TimesheetService
}

// HandleGet loads the weekly grid for the week containing ?date= (default
// today), with day totals and under/met/over flags.
func (h *TimesheetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := resolveUserScope(w, r, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}

	date := domain.DateOnly(time.Now())
	if raw := r.URL.Query().Get("date"); raw != "" {
		var err error
		date, err = domain.ParseDate(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}

	view, err := h.TimesheetService.LoadWeek(ctx, userID, date)
	if err != nil {
		log.Error("failed to load week", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load timesheet")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTimesheetResponse(view))
}

// HandleSubmit validates and reconciles a submitted grid. Validation errors
// come back as 400 with the offending row named; nothing is written then.
func (h *TimesheetHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req timesdk.SubmitTimesheetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, ok := resolveUserScope(w, r, req.UserID)
	if !ok {
		return
	}
	week, err := domain.ParseWeekStart(req.WeekStart)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "week_start must be YYYY-MM-DD")
		return
	}

	rows := make([]domain.Row, len(req.Rows))
	for i, row := range req.Rows {
		rows[i] = domain.Row{ProjectID: row.ProjectID, ProjectName: row.ProjectName}
		for d, cell := range row.Cells {
			rows[i].Cells[d] = domain.Cell{EntryID: cell.EntryID, Hours: cell.Hours}
		}
	}

	view, err := h.TimesheetService.SubmitWeek(ctx, userID, week, rows)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingProject),
			errors.Is(err, domain.ErrDuplicateProject),
			errors.Is(err, domain.ErrEmptyRow),
			errors.Is(err, domain.ErrInvalidHours),
			errors.Is(err, service.ErrUnknownProject):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error("failed to submit week", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to submit timesheet")
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTimesheetResponse(view))
}

// HandleDeleteProjectWeek removes a whole project row for a week. A row that
// was already gone still reports success.
func (h *TimesheetHandler) HandleDeleteProjectWeek(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req timesdk.BulkDeleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, ok := resolveUserScope(w, r, req.UserID)
	if !ok {
		return
	}
	week, err := domain.ParseWeekStart(req.WeekStart)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "week_start must be YYYY-MM-DD")
		return
	}

	n, err := h.TimesheetService.DeleteProjectWeek(ctx, userID, req.ProjectID, week)
	if err != nil {
		log.Error("failed to delete project week", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to delete project row")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, timesdk.BulkDeleteResponse{Deleted: n})
}

// HandleGetPrefs returns the stored row order for ?week_start=.
func (h *TimesheetHandler) HandleGetPrefs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := resolveUserScope(w, r, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}
	week, err := domain.ParseWeekStart(r.URL.Query().Get("week_start"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "week_start must be YYYY-MM-DD")
		return
	}

	order, err := h.TimesheetService.RowOrder(ctx, userID, week)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load row order", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load preferences")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, timesdk.RowOrderResponse{ProjectIDs: order})
}

// HandlePutPrefs stores the row order. Display preference only; hours are
// never affected.
func (h *TimesheetHandler) HandlePutPrefs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req timesdk.RowOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, ok := resolveUserScope(w, r, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}
	week, err := domain.ParseWeekStart(req.WeekStart)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "week_start must be YYYY-MM-DD")
		return
	}

	if err := h.TimesheetService.SaveRowOrder(ctx, userID, week, req.ProjectIDs); err != nil {
		slogx.FromContext(ctx).Error("failed to save row order", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, timesdk.RowOrderResponse{ProjectIDs: req.ProjectIDs})
}

func toTimesheetResponse(view service.WeekView) timesdk.TimesheetResponse {
	resp := timesdk.TimesheetResponse{
		UserID:    view.Grid.UserID,
		WeekStart: domain.FormatDate(view.Grid.Week.Start()),
		WeekEnd:   domain.FormatDate(view.Grid.Week.End()),
		Rows:      make([]timesdk.TimesheetRow, len(view.Grid.Rows)),
		DayTotals: view.DayTotals,
		Total:     view.Total,
	}
	for i, row := range view.Grid.Rows {
		out := timesdk.TimesheetRow{ProjectID: row.ProjectID, ProjectName: row.ProjectName}
		for d, cell := range row.Cells {
			out.Cells[d] = timesdk.TimesheetCell{EntryID: cell.EntryID, Hours: cell.Hours}
		}
		resp.Rows[i] = out
	}
	for i, s := range view.DayStatuses {
		resp.DayStatuses[i] = string(s)
	}
	return resp
}

package http

import (
	"net/http"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/pkg/httpx"
	"github.com/clockleaf/timesheet/pkg/slogx"
)

type AnalyticsHandler struct {
	AnalyticsService *service.AnalyticsService
}

// dateRange reads the optional inclusive startDate/endDate query params.
func dateRange(w http.ResponseWriter, r *http.Request) (domain.DateRange, bool) {
	var dr domain.DateRange
	var err error
	if dr.Start, err = parseDateParam(r, "startDate"); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return dr, false
	}
	if dr.End, err = parseDateParam(r, "endDate"); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
		return dr, false
	}
	return dr, true
}

func writeAggregate[T any](w http.ResponseWriter, r *http.Request, rows []T, err error) {
	if err != nil {
		slogx.FromContext(r.Context()).Error("analytics query failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to compute analytics")
		return
	}
	if rows == nil {
		rows = []T{}
	}
	httpx.WriteJSON(w, http.StatusOK, rows)
}

func (h *AnalyticsHandler) HandleTimeByProject(w http.ResponseWriter, r *http.Request) {
	dr, ok := dateRange(w, r)
	if !ok {
		return
	}
	rows, err := h.AnalyticsService.TimeByProject(r.Context(), dr)
	writeAggregate(w, r, rows, err)
}

func (h *AnalyticsHandler) HandleTimeByProjectTotal(w http.ResponseWriter, r *http.Request) {
	dr, ok := dateRange(w, r)
	if !ok {
		return
	}
	rows, err := h.AnalyticsService.TimeByProjectTotal(r.Context(), dr)
	writeAggregate(w, r, rows, err)
}

func (h *AnalyticsHandler) HandleTimeByUser(w http.ResponseWriter, r *http.Request) {
	dr, ok := dateRange(w, r)
	if !ok {
		return
	}
	rows, err := h.AnalyticsService.TimeByUser(r.Context(), dr)
	writeAggregate(w, r, rows, err)
}

func (h *AnalyticsHandler) HandleTimeByUserTotal(w http.ResponseWriter, r *http.Request) {
	dr, ok := dateRange(w, r)
	if !ok {
		return
	}
	rows, err := h.AnalyticsService.TimeByUserTotal(r.Context(), dr)
	writeAggregate(w, r, rows, err)
}

func (h *AnalyticsHandler) HandleTimeByClientType(w http.ResponseWriter, r *http.Request) {
	dr, ok := dateRange(w, r)
	if !ok {
		return
	}
	rows, err := h.AnalyticsService.TimeByClientType(r.Context(), dr)
	writeAggregate(w, r, rows, err)
}

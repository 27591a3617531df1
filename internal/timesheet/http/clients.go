package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/pkg/httpx"
	"github.com/clockleaf/timesheet/pkg/slogx"
	"github.com/clockleaf/timesheet/pkg/timesdk"
)

type ClientsHandler struct {
	ClientService *service.ClientService
}

func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	clients, err := h.ClientService.ListClients(ctx)
	if err != nil {
		log.Error("failed to list clients", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to list clients")
		return
	}

	resp := timesdk.ListClientsResponse{Clients: make([]timesdk.ClientInfo, len(clients))}
	for i, c := range clients {
		resp.Clients[i] = toClientInfo(c)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req timesdk.CreateClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	client, err := h.ClientService.CreateClient(ctx, req.Name, domain.ClientType(req.Type), req.ITN)
	if err != nil {
		writeClientError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toClientInfo(client))
}

func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req timesdk.UpdateClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var typ *domain.ClientType
	if req.Type != nil {
		v := domain.ClientType(*req.Type)
		typ = &v
	}

	client, err := h.ClientService.UpdateClient(ctx, r.PathValue("id"), service.UpdateClientParams{
		Name: req.Name,
		Type: typ,
		ITN:  req.ITN,
	})
	if err != nil {
		writeClientError(w, ctx, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toClientInfo(client))
}

func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.ClientService.DeleteClient(ctx, r.PathValue("id")); err != nil {
		writeClientError(w, ctx, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeClientError maps client-service errors to the wire taxonomy: 400 for
// validation, 409 for the normalized-name and tax-id conflicts, 404, 500.
func writeClientError(w http.ResponseWriter, ctx context.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidClient):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDuplicateClient), errors.Is(err, service.ErrDuplicateITN):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrClientNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	default:
		slogx.FromContext(ctx).Error("client operation failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to process client")
	}
}

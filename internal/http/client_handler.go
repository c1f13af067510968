package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/agenda/internal/application"
	"github.com/example/agenda/internal/document"
)

type clientService interface {
	SaveClient(ctx context.Context, principal application.Principal, input application.ClientInput) (document.Client, error)
	DeleteClient(ctx context.Context, principal application.Principal, id string) error
	ListClients() []document.Client
}

type ClientHandler struct {
	service   clientService
	responder responder
	logger    *slog.Logger
}

func NewClientHandler(service clientService, logger *slog.Logger) *ClientHandler {
	base := defaultLogger(logger)
	return &ClientHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ClientHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ClientHandler", operation, attrs...)
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	clients := h.service.ListClients()
	out := make([]clientDTO, 0, len(clients))
	for _, c := range clients {
		out = append(out, clientDTO(c))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listClientsResponse{Clients: out})
}

func (h *ClientHandler) Save(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req clientDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Save", "principal_id", principal.UserID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode client request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Save", "principal_id", principal.UserID, "client_id", req.ID)

	client, err := h.service.SaveClient(r.Context(), principal, application.ClientInput(req))
	if err != nil {
		logger.WarnContext(r.Context(), "client save failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("client_id", client.ID).InfoContext(r.Context(), "client saved")
	h.responder.writeJSON(r.Context(), w, upsertStatus(req.ID, client.ID), clientResponse{Client: clientDTO(client)})
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "client_id", id)
	if err := h.service.DeleteClient(r.Context(), principal, id); err != nil {
		logger.WarnContext(r.Context(), "client delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "client deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type clientDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

type clientResponse struct {
	Client clientDTO `json:"client"`
}

type listClientsResponse struct {
	Clients []clientDTO `json:"clients"`
}

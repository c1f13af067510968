package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/example/agenda/internal/application"
	"github.com/example/agenda/internal/document"
)

// BackupFilename is the download name of exported backups.
const BackupFilename = "backup_agenda.json"

const maxBackupBytes = 32 << 20

type settingsService interface {
	Config(principal application.Principal) (document.Config, error)
	SaveConfig(ctx context.Context, principal application.Principal, cfg document.Config) (document.Config, error)
	Export(ctx context.Context, principal application.Principal) ([]byte, error)
	Import(ctx context.Context, principal application.Principal, data []byte) error
	Reset(ctx context.Context, principal application.Principal) error
}

// SettingsHandler serves the administrator configuration screen: workday
// configuration, backups and reset.
type SettingsHandler struct {
	service   settingsService
	responder responder
	logger    *slog.Logger
}

func NewSettingsHandler(service settingsService, logger *slog.Logger) *SettingsHandler {
	base := defaultLogger(logger)
	return &SettingsHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SettingsHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SettingsHandler", operation, attrs...)
}

func (h *SettingsHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	cfg, err := h.service.Config(principal)
	if err != nil {
		h.log(r.Context(), "GetConfig", "principal_id", principal.UserID).WarnContext(r.Context(), "config read failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, configDTO(cfg))
}

func (h *SettingsHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req configDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SaveConfig", "principal_id", principal.UserID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode config request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SaveConfig", "principal_id", principal.UserID)
	saved, err := h.service.SaveConfig(r.Context(), principal, document.Config(req))
	if err != nil {
		logger.WarnContext(r.Context(), "config save failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "config saved")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, configDTO(saved))
}

// Backup downloads the whole document in the backup file format.
func (h *SettingsHandler) Backup(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Backup", "principal_id", principal.UserID)
	data, err := h.service.Export(r.Context(), principal)
	if err != nil {
		logger.WarnContext(r.Context(), "backup export failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+BackupFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.ErrorContext(r.Context(), "failed to write backup", "error", err)
	}
}

// Restore replaces the whole document with the uploaded backup.
func (h *SettingsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Restore", "principal_id", principal.UserID)

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		logger.WarnContext(r.Context(), "failed to read backup body", "error", err, "error_kind", "bad_request")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.Import(r.Context(), principal, data); err != nil {
		logger.WarnContext(r.Context(), "backup import failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("bytes", len(data)).InfoContext(r.Context(), "backup restored")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Reset clears all data and starts over with the default administrator.
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Reset", "principal_id", principal.UserID)
	if err := h.service.Reset(r.Context(), principal); err != nil {
		logger.WarnContext(r.Context(), "reset failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "agenda reset")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type configDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Step  int    `json:"step"`
}


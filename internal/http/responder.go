package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/agenda/internal/application"
	"github.com/example/agenda/internal/document"
	"github.com/example/agenda/internal/logging"
)

var errBadRequestBody = errors.New("Requisição inválida.")

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var (
		vErr *application.ValidationError
		pErr *application.PersistenceError
	)
	switch {
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Message: localizedStatusMessage(http.StatusUnprocessableEntity),
			Errors:  localizeValidationErrors(vErr),
		})
	case errors.Is(err, application.ErrSlotConflict):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "SLOT_CONFLICT",
			Message:   "Já existe agendamento para este horário.",
		})
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "E-mail ou senha inválidos.",
		})
	case errors.Is(err, application.ErrUnauthenticated):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_REQUIRED",
			Message:   localizedStatusMessage(http.StatusUnauthorized),
		})
	case errors.Is(err, application.ErrSelfDeletion):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_SELF_DELETION",
			Message:   "Você não pode excluir a si mesmo.",
		})
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   localizedStatusMessage(http.StatusForbidden),
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: localizedStatusMessage(http.StatusNotFound)})
	case errors.As(err, &pErr) && pErr.Op == "import" && errors.Is(err, document.ErrMalformed):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Message: "Arquivo inválido."})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err, "error_kind", application.ErrorKind(err))
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: localizedStatusMessage(http.StatusInternalServerError)})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Requisição inválida."
	case http.StatusUnauthorized:
		return "Faça login para continuar."
	case http.StatusForbidden:
		return "Você não tem permissão para esta ação."
	case http.StatusNotFound:
		return "Registro não encontrado."
	case http.StatusConflict:
		return "A operação conflita com o estado atual."
	case http.StatusUnprocessableEntity:
		return "Verifique os campos informados."
	case http.StatusTooManyRequests:
		return "Muitas tentativas. Aguarde um instante."
	default:
		return "Erro interno. Tente novamente."
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "date must be YYYY-MM-DD":
		return "Data inválida (use AAAA-MM-DD)."
	case "time must be HH:MM":
		return "Horário inválido (use HH:MM)."
	case "duration must be 30 or 60 minutes":
		return "A duração deve ser de 30 ou 60 minutos."
	case "responsible user does not exist":
		return "Usuário responsável não encontrado."
	case "client does not exist":
		return "Cliente não encontrado."
	case "a registered client or a walk-in name is required":
		return "Informe um cliente cadastrado OU um nome livre."
	case "name is required":
		return "O nome é obrigatório."
	case "email is required":
		return "O e-mail é obrigatório."
	case "email must be valid":
		return "E-mail inválido."
	case "email is already in use":
		return "Este e-mail já está em uso."
	case "role must be admin or atendente":
		return "O perfil deve ser admin ou atendente."
	case "kind must be entrada or saida":
		return "O tipo deve ser entrada ou saída."
	case "amount must not be negative":
		return "O valor não pode ser negativo."
	case "start must be HH:MM":
		return "Início inválido (use HH:MM)."
	case "end must be HH:MM":
		return "Fim inválido (use HH:MM)."
	case "end must not be before start":
		return "O fim deve ser igual ou posterior ao início."
	case "step must be a positive number of minutes":
		return "O intervalo deve ser um número positivo de minutos."
	default:
		return message
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

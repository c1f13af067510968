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

type financeService interface {
	SaveFinanceEntry(ctx context.Context, principal application.Principal, input application.FinanceInput) (document.FinanceEntry, error)
	DeleteFinanceEntry(ctx context.Context, principal application.Principal, id string) error
	FinanceView() application.FinanceView
}

type FinanceHandler struct {
	service   financeService
	responder responder
	logger    *slog.Logger
}

func NewFinanceHandler(service financeService, logger *slog.Logger) *FinanceHandler {
	base := defaultLogger(logger)
	return &FinanceHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *FinanceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "FinanceHandler", operation, attrs...)
}

// List returns the entries by date with the income, expense and balance totals.
func (h *FinanceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	view := h.service.FinanceView()
	resp := financeResponse{
		Entries: make([]financeEntryDTO, 0, len(view.Entries)),
		Income:  fromCents(view.Income),
		Expense: fromCents(view.Expense),
		Balance: fromCents(view.Balance),
	}
	for _, entry := range view.Entries {
		resp.Entries = append(resp.Entries, toFinanceEntryDTO(entry))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *FinanceHandler) Save(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req financeEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Save", "principal_id", principal.UserID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode finance request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Save", "principal_id", principal.UserID, "entry_id", req.ID, "kind", req.Kind)

	entry, err := h.service.SaveFinanceEntry(r.Context(), principal, req.toInput())
	if err != nil {
		logger.WarnContext(r.Context(), "finance entry save failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("entry_id", entry.ID).InfoContext(r.Context(), "finance entry saved")
	h.responder.writeJSON(r.Context(), w, upsertStatus(req.ID, entry.ID), financeEntryResponse{Entry: toFinanceEntryDTO(entry)})
}

func (h *FinanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "entry_id", id)
	if err := h.service.DeleteFinanceEntry(r.Context(), principal, id); err != nil {
		logger.WarnContext(r.Context(), "finance entry delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "finance entry deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// financeEntryDTO carries amounts as decimal currency, as the backup format does.
type financeEntryDTO struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Kind        string  `json:"kind"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	BookingID   string  `json:"booking_id,omitempty"`
}

func (d financeEntryDTO) toInput() application.FinanceInput {
	return application.FinanceInput{
		ID:          strings.TrimSpace(d.ID),
		Date:        strings.TrimSpace(d.Date),
		Kind:        document.FinanceKind(strings.TrimSpace(d.Kind)),
		Amount:      document.ToCents(d.Amount),
		Description: d.Description,
		BookingID:   strings.TrimSpace(d.BookingID),
	}
}

func toFinanceEntryDTO(entry document.FinanceEntry) financeEntryDTO {
	return financeEntryDTO{
		ID:          entry.ID,
		Date:        entry.Date,
		Kind:        string(entry.Kind),
		Amount:      fromCents(entry.Amount),
		Description: entry.Description,
		BookingID:   entry.BookingID,
	}
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

type financeEntryResponse struct {
	Entry financeEntryDTO `json:"entry"`
}

type financeResponse struct {
	Entries []financeEntryDTO `json:"entries"`
	Income  float64           `json:"income"`
	Expense float64           `json:"expense"`
	Balance float64           `json:"balance"`
}

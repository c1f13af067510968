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

type agendaService interface {
	DayView(date string) (application.DayView, error)
	MonthView(date string) (application.MonthView, error)
	BookingsOn(date string) ([]document.Booking, error)
	BookingCounts() map[string]int
	SaveBooking(ctx context.Context, principal application.Principal, draft application.BookingDraft) (document.Booking, error)
	DeleteBooking(ctx context.Context, principal application.Principal, id string) error
}

// AgendaHandler serves the day and month views and booking maintenance.
type AgendaHandler struct {
	service   agendaService
	responder responder
	logger    *slog.Logger
}

func NewAgendaHandler(service agendaService, logger *slog.Logger) *AgendaHandler {
	base := defaultLogger(logger)
	return &AgendaHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AgendaHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AgendaHandler", operation, attrs...)
}

// View returns the day table and month grid around ?date=, today by default.
func (h *AgendaHandler) View(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	logger := h.log(r.Context(), "View", "date", date)

	day, err := h.service.DayView(date)
	if err != nil {
		logger.WarnContext(r.Context(), "day view failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	month, err := h.service.MonthView(day.Date)
	if err != nil {
		logger.WarnContext(r.Context(), "month view failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, agendaResponse{
		Day:   toDayDTO(day),
		Month: toMonthDTO(month),
	})
}

// ListBookings returns the bookings of ?date= ordered by time, or the number
// of bookings per date when no date is given.
func (h *AgendaHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingCountsResponse{Counts: h.service.BookingCounts()})
		return
	}

	bookings, err := h.service.BookingsOn(date)
	if err != nil {
		h.log(r.Context(), "ListBookings", "date", date).WarnContext(r.Context(), "booking list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBookingsResponse{Bookings: toBookingDTOs(bookings)})
}

func (h *AgendaHandler) SaveBooking(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SaveBooking", "principal_id", principal.UserID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SaveBooking", "principal_id", principal.UserID, "booking_id", req.ID, "date", req.Date, "time", req.Time)

	booking, err := h.service.SaveBooking(r.Context(), principal, req.toDraft())
	if err != nil {
		logger.WarnContext(r.Context(), "booking save failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "booking saved")
	h.responder.writeJSON(r.Context(), w, upsertStatus(req.ID, booking.ID), bookingResponse{Booking: toBookingDTO(booking)})
}

func (h *AgendaHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "DeleteBooking", "principal_id", principal.UserID, "booking_id", id)
	if err := h.service.DeleteBooking(r.Context(), principal, id); err != nil {
		logger.WarnContext(r.Context(), "booking delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type bookingRequest struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Duration   int    `json:"duration"`
	UserID     string `json:"user_id"`
	ClientID   string `json:"client_id"`
	WalkInName string `json:"walk_in_name"`
	Notes      string `json:"notes"`
}

func (r bookingRequest) toDraft() application.BookingDraft {
	return application.BookingDraft{
		ID:         r.ID,
		Date:       r.Date,
		Time:       r.Time,
		Duration:   r.Duration,
		UserID:     r.UserID,
		ClientID:   r.ClientID,
		WalkInName: r.WalkInName,
		Notes:      r.Notes,
	}
}

type bookingDTO struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Duration   int    `json:"duration"`
	UserID     string `json:"user_id,omitempty"`
	ClientID   string `json:"client_id,omitempty"`
	WalkInName string `json:"walk_in_name,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func toBookingDTO(b document.Booking) bookingDTO {
	dto := bookingDTO{
		ID:       b.ID,
		Date:     b.Date,
		Time:     b.Time,
		Duration: b.Duration,
		UserID:   b.UserID,
		Notes:    b.Notes,
	}
	dto.ClientID, _ = b.Client.ClientID()
	dto.WalkInName, _ = b.Client.WalkInName()
	return dto
}

func toBookingDTOs(bookings []document.Booking) []bookingDTO {
	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingDTO(b))
	}
	return out
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type listBookingsResponse struct {
	Bookings []bookingDTO `json:"bookings"`
}

type bookingCountsResponse struct {
	Counts map[string]int `json:"counts"`
}

type agendaResponse struct {
	Day   dayDTO   `json:"day"`
	Month monthDTO `json:"month"`
}

type slotDTO struct {
	Time       string      `json:"time"`
	Free       bool        `json:"free"`
	Booking    *bookingDTO `json:"booking,omitempty"`
	ClientName string      `json:"client_name,omitempty"`
	UserName   string      `json:"user_name,omitempty"`
}

type dayDTO struct {
	Date     string       `json:"date"`
	Slots    []slotDTO    `json:"slots"`
	Bookings []bookingDTO `json:"bookings"`
}

func toDayDTO(view application.DayView) dayDTO {
	dto := dayDTO{
		Date:     view.Date,
		Slots:    make([]slotDTO, 0, len(view.Slots)),
		Bookings: toBookingDTOs(view.Bookings),
	}
	for _, row := range view.Slots {
		slot := slotDTO{
			Time:       row.Time,
			Free:       row.Free(),
			ClientName: row.ClientName,
			UserName:   row.UserName,
		}
		if row.Booking != nil {
			b := toBookingDTO(*row.Booking)
			slot.Booking = &b
		}
		dto.Slots = append(dto.Slots, slot)
	}
	return dto
}

type monthCellDTO struct {
	Date     string `json:"date"`
	InMonth  bool   `json:"in_month"`
	Today    bool   `json:"today"`
	Selected bool   `json:"selected"`
	Count    int    `json:"count"`
}

type monthDTO struct {
	Year     int            `json:"year"`
	Month    int            `json:"month"`
	Selected string         `json:"selected"`
	Previous string         `json:"previous"`
	Next     string         `json:"next"`
	Cells    []monthCellDTO `json:"cells"`
}

func toMonthDTO(view application.MonthView) monthDTO {
	dto := monthDTO{
		Year:     view.Year,
		Month:    int(view.Month),
		Selected: view.Selected,
		Previous: view.Previous,
		Next:     view.Next,
		Cells:    make([]monthCellDTO, 0, len(view.Cells)),
	}
	for _, cell := range view.Cells {
		dto.Cells = append(dto.Cells, monthCellDTO{
			Date:     cell.Date.String(),
			InMonth:  cell.InMonth,
			Today:    cell.IsToday,
			Selected: cell.Selected,
			Count:    cell.Count,
		})
	}
	return dto
}

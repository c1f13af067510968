package application

import (
	"context"
	"strings"

	"github.com/example/agenda/internal/calendar"
	"github.com/example/agenda/internal/document"
	"github.com/example/agenda/internal/scheduler"
)

// Accepted booking durations in minutes.
const (
	ShortDuration = 30
	LongDuration  = 60
)

// BookingDraft carries the editable fields of a booking. An empty or unknown
// ID creates a new booking. ClientID takes precedence over WalkInName.
type BookingDraft struct {
	ID         string
	Date       string
	Time       string
	Duration   int
	UserID     string
	ClientID   string
	WalkInName string
	Notes      string
}

// HasConflict reports whether a booking already occupies the slot.
func (a *Agenda) HasConflict(date, clock string) (conflict bool) {
	slot := scheduler.Slot{Date: strings.TrimSpace(date), Time: strings.TrimSpace(clock)}
	if normalized, err := calendar.NormalizeClock(slot.Time); err == nil {
		slot.Time = normalized
	}
	a.read(func(doc document.Document) {
		conflict = scheduler.HasConflict(doc.Bookings, slot)
	})
	return
}

// SaveBooking validates the draft and inserts or updates the booking. A new
// booking, or one moved to another slot, fails with a *ConflictError when the
// slot is taken.
func (a *Agenda) SaveBooking(ctx context.Context, principal Principal, draft BookingDraft) (saved document.Booking, err error) {
	logger := a.loggerWith(ctx, "SaveBooking",
		"booking_id", draft.ID,
		"date", draft.Date,
		"time", draft.Time,
	)
	defer func() {
		logOutcome(ctx, logger, err, "booking saved", "booking_id", saved.ID)
	}()

	if err = Authorize(principal, ViewAgenda); err != nil {
		return
	}

	var result document.Booking
	err = a.mutate(ctx, func(doc *document.Document) error {
		booking, vErr := validateBookingDraft(*doc, principal, draft)
		if vErr.HasErrors() {
			return vErr
		}

		index := bookingIndex(doc.Bookings, booking.ID)
		if index < 0 {
			booking.ID = a.idGenerator()
		}

		if occupant, taken := scheduler.DetectConflict(doc.Bookings, booking); taken {
			return &ConflictError{Date: booking.Date, Time: booking.Time, BookingID: occupant.ID}
		}

		if index < 0 {
			doc.Bookings = append(doc.Bookings, booking)
		} else {
			doc.Bookings[index] = booking
		}
		result = booking
		return nil
	})
	if err != nil {
		return
	}
	saved = result
	return
}

// DeleteBooking removes a booking. Finance entries linked to it keep their
// reference.
func (a *Agenda) DeleteBooking(ctx context.Context, principal Principal, id string) (err error) {
	logger := a.loggerWith(ctx, "DeleteBooking", "booking_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "booking deleted")
	}()

	if err = Authorize(principal, ViewAgenda); err != nil {
		return
	}

	return a.mutate(ctx, func(doc *document.Document) error {
		remaining, removed := scheduler.Remove(doc.Bookings, id)
		if !removed {
			return ErrNotFound
		}
		doc.Bookings = remaining
		return nil
	})
}

// BookingsOn returns the bookings of a date ordered by time of day.
func (a *Agenda) BookingsOn(date string) ([]document.Booking, error) {
	day, err := calendar.ParseDate(strings.TrimSpace(date))
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "date must be YYYY-MM-DD")
		return nil, vErr
	}
	var out []document.Booking
	a.read(func(doc document.Document) {
		out = scheduler.On(doc.Bookings, day.String())
	})
	return out, nil
}

// BookingCounts returns the number of bookings per date.
func (a *Agenda) BookingCounts() (counts map[string]int) {
	a.read(func(doc document.Document) {
		counts = scheduler.CountByDate(doc.Bookings)
	})
	return
}

func validateBookingDraft(doc document.Document, principal Principal, draft BookingDraft) (document.Booking, *ValidationError) {
	vErr := &ValidationError{}
	booking := document.Booking{
		ID:       strings.TrimSpace(draft.ID),
		Duration: draft.Duration,
		UserID:   strings.TrimSpace(draft.UserID),
		Notes:    draft.Notes,
	}

	if day, err := calendar.ParseDate(strings.TrimSpace(draft.Date)); err != nil {
		vErr.add("date", "date must be YYYY-MM-DD")
	} else {
		booking.Date = day.String()
	}

	if clock, err := calendar.NormalizeClock(strings.TrimSpace(draft.Time)); err != nil {
		vErr.add("time", "time must be HH:MM")
	} else {
		booking.Time = clock
	}

	if booking.Duration == 0 {
		booking.Duration = ShortDuration
	}
	if booking.Duration != ShortDuration && booking.Duration != LongDuration {
		vErr.add("duration", "duration must be 30 or 60 minutes")
	}

	if booking.UserID == "" {
		booking.UserID = principal.UserID
	}
	if _, ok := doc.UserByID(booking.UserID); !ok {
		vErr.add("user_id", "responsible user does not exist")
	}

	clientID := strings.TrimSpace(draft.ClientID)
	walkIn := strings.TrimSpace(draft.WalkInName)
	switch {
	case clientID != "":
		if _, ok := doc.ClientByID(clientID); !ok {
			vErr.add("client_id", "client does not exist")
		}
		booking.Client = document.RegisteredClient(clientID)
	case walkIn != "":
		booking.Client = document.WalkIn(walkIn)
	default:
		vErr.add("client", "a registered client or a walk-in name is required")
	}

	return booking, vErr
}

func bookingIndex(bookings []document.Booking, id string) int {
	if id == "" {
		return -1
	}
	for i, b := range bookings {
		if b.ID == id {
			return i
		}
	}
	return -1
}

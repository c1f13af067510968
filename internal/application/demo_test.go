package application

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/example/agenda/internal/document"
	"github.com/example/agenda/internal/testfixtures"
)

func TestSeedDemo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("adds linked demo records for today", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, seeded())
		if err := h.agenda.SeedDemo(ctx); err != nil {
			t.Fatalf("SeedDemo returned error: %v", err)
		}

		doc := h.agenda.Document()
		if len(doc.Clients) != 2 || len(doc.Bookings) != 1 || len(doc.Finance) != 1 {
			t.Fatalf("unexpected demo data %+v", doc)
		}
		booking := doc.Bookings[0]
		if booking.Date != testfixtures.ReferenceDate || booking.Time != DemoBookingTime || booking.Duration != LongDuration {
			t.Fatalf("unexpected demo booking %+v", booking)
		}
		if booking.UserID != testfixtures.AdminID || !booking.Client.References(doc.Clients[0].ID) {
			t.Fatalf("expected booking for the first user and first client, got %+v", booking)
		}
		income := doc.Finance[0]
		if income.Kind != document.KindIncome || income.Amount != DemoIncomeCents || income.BookingID != booking.ID {
			t.Fatalf("unexpected demo income %+v", income)
		}
		if h.agenda.Balance() != DemoIncomeCents {
			t.Fatalf("expected balance %d, got %d", DemoIncomeCents, h.agenda.Balance())
		}
	})

	t.Run("occupied slot is a conflict", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, seeded(testfixtures.WithBookings(testfixtures.NewBooking(testfixtures.WithBookingID("b-1")))))
		before := h.agenda.Document()

		err := h.agenda.SeedDemo(ctx)
		var conflict *ConflictError
		if !errors.As(err, &conflict) || conflict.BookingID != "b-1" {
			t.Fatalf("expected ConflictError against b-1, got %v", err)
		}
		if !reflect.DeepEqual(before, h.agenda.Document()) {
			t.Fatalf("expected document untouched")
		}
	})
}

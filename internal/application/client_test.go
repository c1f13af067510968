package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/agenda/internal/document"
	"github.com/example/agenda/internal/testfixtures"
)

func TestSaveClient(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	attendant := Principal{UserID: "ana", Role: document.RoleAttendant}

	t.Run("creates then updates in place", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, seeded())
		created, err := h.agenda.SaveClient(ctx, attendant, ClientInput{Name: "  Maria Souza ", Phone: "(11) 99999-1111"})
		if err != nil {
			t.Fatalf("SaveClient returned error: %v", err)
		}
		if created.ID != "id-1" || created.Name != "Maria Souza" {
			t.Fatalf("unexpected client %+v", created)
		}

		updated, err := h.agenda.SaveClient(ctx, attendant, ClientInput{ID: created.ID, Name: "Maria S.", Email: "maria@exemplo.com"})
		if err != nil {
			t.Fatalf("SaveClient update returned error: %v", err)
		}
		clients := h.agenda.ListClients()
		if len(clients) != 1 || clients[0] != updated || updated.Phone != "" {
			t.Fatalf("expected full overwrite of the record, got %+v", clients)
		}
	})

	t.Run("validates name and email", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, seeded())
		_, err := h.agenda.SaveClient(ctx, attendant, ClientInput{Name: " ", Email: "Maria <maria@x.com>"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.FieldErrors["name"] == "" || vErr.FieldErrors["email"] == "" {
			t.Fatalf("expected name and email errors, got %v", err)
		}
	})

	t.Run("rejects anonymous callers", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t, seeded())
		if _, err := h.agenda.SaveClient(ctx, Principal{}, ClientInput{Name: "x"}); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})
}

func TestDeleteClient(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, seeded(
		testfixtures.WithClients(
			testfixtures.NewClient(testfixtures.WithClientID("c-1")),
			testfixtures.NewClient(testfixtures.WithClientID("c-2")),
		),
		testfixtures.WithBookings(
			testfixtures.NewBooking(testfixtures.WithBookingID("b-1"), testfixtures.WithBookingClient("c-1")),
			testfixtures.NewBooking(testfixtures.WithBookingID("b-2"), testfixtures.WithBookingSlot("2024-03-16", "09:00"), testfixtures.WithBookingClient("c-2")),
		),
	))

	if err := h.agenda.DeleteClient(ctx, adminPrincipal, "c-1"); err != nil {
		t.Fatalf("DeleteClient returned error: %v", err)
	}

	doc := h.agenda.Document()
	if len(doc.Clients) != 1 || doc.Clients[0].ID != "c-2" {
		t.Fatalf("unexpected clients %+v", doc.Clients)
	}
	if len(doc.Bookings) != 2 {
		t.Fatalf("expected bookings to be kept, got %d", len(doc.Bookings))
	}
	if b, _ := doc.BookingByID("b-1"); !b.Client.IsZero() {
		t.Fatalf("expected b-1 to lose its client, got %+v", b.Client)
	}
	if b, _ := doc.BookingByID("b-2"); !b.Client.References("c-2") {
		t.Fatalf("expected b-2 untouched, got %+v", b.Client)
	}
	if err := h.agenda.DeleteClient(ctx, adminPrincipal, "c-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListClientsOrder(t *testing.T) {
	t.Parallel()

	h := newHarness(t, seeded(testfixtures.WithClients(
		testfixtures.NewClient(testfixtures.WithClientName("carlos")),
		testfixtures.NewClient(testfixtures.WithClientName("Ana")),
		testfixtures.NewClient(testfixtures.WithClientName("Bruna")),
	)))

	clients := h.agenda.ListClients()
	var names []string
	for _, c := range clients {
		names = append(names, c.Name)
	}
	if len(names) != 3 || names[0] != "Ana" || names[1] != "Bruna" || names[2] != "carlos" {
		t.Fatalf("expected case-insensitive name order, got %v", names)
	}
}

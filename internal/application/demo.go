package application

import (
	"context"

	"github.com/example/agenda/internal/document"
	"github.com/example/agenda/internal/scheduler"
)

// Demo data added by SeedDemo.
const (
	DemoBookingTime   = "09:00"
	DemoIncomeCents   = 20000
	demoBookingNotes  = "Retorno"
	demoIncomeMemo    = "Consulta Maria"
	demoBookingLength = LongDuration
)

// SeedDemo adds two clients, a booking today at 09:00 for the first user and
// an income entry linked to it. It is available before login. When the demo
// slot is already taken the call fails with a *ConflictError and nothing is
// added.
func (a *Agenda) SeedDemo(ctx context.Context) (err error) {
	logger := a.loggerWith(ctx, "SeedDemo")
	defer func() {
		logOutcome(ctx, logger, err, "demo data seeded")
	}()

	today := a.calendar.Today().String()

	return a.mutate(ctx, func(doc *document.Document) error {
		if len(doc.Users) == 0 {
			return ErrNotFound
		}
		slot := scheduler.Slot{Date: today, Time: DemoBookingTime}
		if occupant, taken := scheduler.FindAt(doc.Bookings, slot); taken {
			return &ConflictError{Date: slot.Date, Time: slot.Time, BookingID: occupant.ID}
		}

		maria := document.Client{
			ID:    a.idGenerator(),
			Name:  "Maria Souza",
			Phone: "(11) 99999-1111",
			Email: "maria@exemplo.com",
		}
		carlos := document.Client{
			ID:    a.idGenerator(),
			Name:  "Carlos Lima",
			Phone: "(21) 98888-2222",
			Email: "carlos@exemplo.com",
			Notes: "VIP",
		}
		booking := document.Booking{
			ID:       a.idGenerator(),
			Date:     today,
			Time:     DemoBookingTime,
			Duration: demoBookingLength,
			UserID:   doc.Users[0].ID,
			Client:   document.RegisteredClient(maria.ID),
			Notes:    demoBookingNotes,
		}
		income := document.FinanceEntry{
			ID:          a.idGenerator(),
			Date:        today,
			Kind:        document.KindIncome,
			Amount:      DemoIncomeCents,
			Description: demoIncomeMemo,
			BookingID:   booking.ID,
		}

		doc.Clients = append(doc.Clients, maria, carlos)
		doc.Bookings = append(doc.Bookings, booking)
		doc.Finance = append(doc.Finance, income)
		return nil
	})
}

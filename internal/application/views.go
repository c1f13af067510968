package application

import (
	"strings"
	"time"

	"github.com/example/agenda/internal/calendar"
	"github.com/example/agenda/internal/document"
	"github.com/example/agenda/internal/scheduler"
)

// SlotRow is one line of the day table: a configured slot and the booking
// occupying it, if any.
type SlotRow struct {
	Time    string
	Booking *document.Booking
	// ClientName is the registered client's name or the walk-in name; empty
	// when the reference no longer resolves.
	ClientName string
	// UserName is the responsible user's name; empty when unresolved.
	UserName string
}

// Free reports whether nobody booked the slot.
func (r SlotRow) Free() bool {
	return r.Booking == nil
}

// DayView is the agenda of a single date.
type DayView struct {
	Date string
	// Slots follows the configured workday.
	Slots []SlotRow
	// Bookings lists every booking of the date by time, including those whose
	// time falls outside the configured slots.
	Bookings []document.Booking
}

// MonthCell is a grid cell annotated with the number of bookings that day.
type MonthCell struct {
	calendar.Cell
	Count    int
	Selected bool
}

// MonthView is the calendar around a selected date.
type MonthView struct {
	Year     int
	Month    time.Month
	Selected string
	Previous string
	Next     string
	Cells    []MonthCell
}

func (m MonthView) clone() MonthView {
	out := m
	if m.Cells != nil {
		out.Cells = make([]MonthCell, len(m.Cells))
		copy(out.Cells, m.Cells)
	}
	return out
}

// FinanceView lists finance entries by date with their totals in cents.
type FinanceView struct {
	Entries []document.FinanceEntry
	Income  int64
	Expense int64
	Balance int64
}

// DayView builds the slot table for date. An empty date means today.
func (a *Agenda) DayView(date string) (DayView, error) {
	day, err := a.resolveDate(date)
	if err != nil {
		return DayView{}, err
	}

	var view DayView
	a.read(func(doc document.Document) {
		view = buildDayView(doc, day.String())
	})
	return view, nil
}

// MonthView builds the month grid around date with per-day booking counts.
// An empty date means today. Results are cached until the next commit.
func (a *Agenda) MonthView(date string) (MonthView, error) {
	day, err := a.resolveDate(date)
	if err != nil {
		return MonthView{}, err
	}
	today := a.calendar.Today()
	key := day.String() + "|" + today.String()

	// the cache is consulted and filled under the document lock so a
	// concurrent commit cannot leave a stale view behind
	var view MonthView
	a.read(func(doc document.Document) {
		if cached, ok := a.views.Get(key); ok {
			view = cached
			return
		}
		view = buildMonthView(doc, day, today)
		a.views.Store(key, view)
	})
	return view, nil
}

// FinanceView returns the entries ordered by date with income, expense and
// balance totals.
func (a *Agenda) FinanceView() FinanceView {
	view := FinanceView{Entries: a.ListFinance()}
	for _, entry := range view.Entries {
		switch entry.Kind {
		case document.KindIncome:
			view.Income += entry.Amount
		case document.KindExpense:
			view.Expense += entry.Amount
		}
	}
	view.Balance = view.Income - view.Expense
	return view
}

func (a *Agenda) resolveDate(value string) (calendar.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return a.calendar.Today(), nil
	}
	day, err := calendar.ParseDate(value)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "date must be YYYY-MM-DD")
		return calendar.Date{}, vErr
	}
	return day, nil
}

func buildDayView(doc document.Document, date string) DayView {
	bookings := scheduler.On(doc.Bookings, date)

	slots, err := calendar.EnumerateSlots(doc.Config.Start, doc.Config.End, doc.Config.Step)
	if err != nil {
		// imported documents may carry unusable bounds; fall back to the default workday
		def := document.DefaultConfig()
		slots, _ = calendar.EnumerateSlots(def.Start, def.End, def.Step)
	}

	view := DayView{
		Date:     date,
		Slots:    make([]SlotRow, 0, len(slots)),
		Bookings: bookings,
	}
	for _, slot := range slots {
		row := SlotRow{Time: slot}
		if found, ok := scheduler.FindAt(bookings, scheduler.Slot{Date: date, Time: slot}); ok {
			booking := found
			row.Booking = &booking
			row.ClientName = clientName(doc, found.Client)
			if user, ok := doc.UserByID(found.UserID); ok {
				row.UserName = user.Name
			}
		}
		view.Slots = append(view.Slots, row)
	}
	return view
}

func buildMonthView(doc document.Document, day, today calendar.Date) MonthView {
	counts := scheduler.CountByDate(doc.Bookings)
	grid := calendar.MonthGrid(day, today)
	view := MonthView{
		Year:     grid.Year,
		Month:    grid.Month,
		Selected: day.String(),
		Previous: day.AddMonths(-1).String(),
		Next:     day.AddMonths(1).String(),
		Cells:    make([]MonthCell, 0, len(grid.Cells)),
	}
	for _, cell := range grid.Cells {
		view.Cells = append(view.Cells, MonthCell{
			Cell:     cell,
			Count:    counts[cell.Date.String()],
			Selected: cell.Date == day,
		})
	}
	return view
}

func clientName(doc document.Document, ref document.ClientRef) string {
	if id, ok := ref.ClientID(); ok {
		if client, found := doc.ClientByID(id); found {
			return client.Name
		}
		return ""
	}
	name, _ := ref.WalkInName()
	return name
}

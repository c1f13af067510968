package scheduler

import (
	"sort"

	"github.com/example/agenda/internal/calendar"
	"github.com/example/agenda/internal/document"
)

// Slot is a date and time of day pair. Two bookings conflict when their slots
// are identical; duration never blocks neighbouring slots.
type Slot struct {
	Date string
	Time string
}

// SlotOf returns the slot occupied by a booking.
func SlotOf(b document.Booking) Slot {
	return Slot{Date: b.Date, Time: b.Time}
}

// HasConflict reports whether any booking occupies the exact slot.
func HasConflict(bookings []document.Booking, slot Slot) bool {
	_, ok := FindAt(bookings, slot)
	return ok
}

// FindAt returns the booking occupying the slot.
func FindAt(bookings []document.Booking, slot Slot) (document.Booking, bool) {
	for _, b := range bookings {
		if SlotOf(b) == slot {
			return b, true
		}
	}
	return document.Booking{}, false
}

// DetectConflict checks a candidate booking against the existing ones. The
// candidate only needs a free slot when it is new or moves to another slot;
// keeping its own slot on update never conflicts.
func DetectConflict(existing []document.Booking, candidate document.Booking) (document.Booking, bool) {
	slot := SlotOf(candidate)
	for _, b := range existing {
		if b.ID == candidate.ID {
			if SlotOf(b) == slot {
				return document.Booking{}, false
			}
			break
		}
	}
	return FindAt(existing, slot)
}

// On returns the bookings for a date ordered by time of day.
func On(bookings []document.Booking, date string) []document.Booking {
	out := make([]document.Booking, 0)
	for _, b := range bookings {
		if b.Date == date {
			out = append(out, b)
		}
	}
	SortByTime(out)
	return out
}

// SortByTime orders bookings by time of day; unparseable times sort last by text.
func SortByTime(bookings []document.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return timeKey(bookings[i].Time) < timeKey(bookings[j].Time) ||
			(timeKey(bookings[i].Time) == timeKey(bookings[j].Time) && bookings[i].Time < bookings[j].Time)
	})
}

func timeKey(value string) int {
	minutes, err := calendar.ParseClock(value)
	if err != nil {
		return 24 * 60
	}
	return minutes
}

// CountByDate tallies bookings per date, used for calendar density markers.
func CountByDate(bookings []document.Booking) map[string]int {
	counts := make(map[string]int)
	for _, b := range bookings {
		counts[b.Date]++
	}
	return counts
}

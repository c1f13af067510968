package scheduler

import "github.com/example/agenda/internal/document"

// DetachClient clears the client reference of every booking that pointed at
// clientID. Bookings are kept. It returns the rewritten collection and how many
// bookings changed.
func DetachClient(bookings []document.Booking, clientID string) ([]document.Booking, int) {
	out := make([]document.Booking, len(bookings))
	changed := 0
	for i, b := range bookings {
		if b.Client.References(clientID) {
			b.Client = document.ClientRef{}
			changed++
		}
		out[i] = b
	}
	return out, changed
}

// ReassignUser moves every booking owned by userID to fallbackID. An empty
// fallbackID leaves the bookings without a responsible user.
func ReassignUser(bookings []document.Booking, userID, fallbackID string) ([]document.Booking, int) {
	out := make([]document.Booking, len(bookings))
	changed := 0
	for i, b := range bookings {
		if b.UserID == userID {
			b.UserID = fallbackID
			changed++
		}
		out[i] = b
	}
	return out, changed
}

// Remove drops the booking with the given identifier.
func Remove(bookings []document.Booking, id string) ([]document.Booking, bool) {
	out := make([]document.Booking, 0, len(bookings))
	removed := false
	for _, b := range bookings {
		if b.ID == id {
			removed = true
			continue
		}
		out = append(out, b)
	}
	return out, removed
}

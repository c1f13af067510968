package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/agenda/internal/credential"
	"github.com/example/agenda/internal/document"
)

var (
	userCounter    uint64
	clientCounter  uint64
	bookingCounter uint64
)

var referenceTime = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It falls on Friday 2024-03-15.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate is ReferenceTime formatted as a civil date.
const ReferenceDate = "2024-03-15"

// Identifiers of the seeded administrator in NewDocument.
const (
	AdminID       = "admin"
	AdminEmail    = document.DefaultAdminEmail
	AdminPassword = document.DefaultAdminPassword
)

// ----------------------------- User fixtures -----------------------------

// UserOption configures a generated user.
type UserOption func(*document.User)

// NewUser returns a deterministic attendant with optional overrides. The
// password hash uses the legacy scheme so tests can verify it cheaply.
func NewUser(opts ...UserOption) document.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	user := document.User{
		ID:           id,
		Name:         fmt.Sprintf("User %03d", idx),
		Email:        fmt.Sprintf("%s@example.com", id),
		Role:         document.RoleAttendant,
		PasswordHash: credential.LegacyHash(document.DefaultUserPassword),
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(u *document.User) {
		u.ID = id
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(u *document.User) {
		u.Email = email
	}
}

// WithUserName overrides the generated display name.
func WithUserName(name string) UserOption {
	return func(u *document.User) {
		u.Name = name
	}
}

// WithUserRole overrides the role.
func WithUserRole(role document.Role) UserOption {
	return func(u *document.User) {
		u.Role = role
	}
}

// WithUserPassword stores the legacy hash of password.
func WithUserPassword(password string) UserOption {
	return func(u *document.User) {
		u.PasswordHash = credential.LegacyHash(password)
	}
}

// ----------------------------- Client fixtures ---------------------------

// ClientOption configures a generated client.
type ClientOption func(*document.Client)

// NewClient returns a deterministic client record.
func NewClient(opts ...ClientOption) document.Client {
	idx := atomic.AddUint64(&clientCounter, 1)
	id := fmt.Sprintf("client-%03d", idx)
	client := document.Client{
		ID:    id,
		Name:  fmt.Sprintf("Client %03d", idx),
		Phone: fmt.Sprintf("(11) 90000-%04d", idx),
		Email: fmt.Sprintf("%s@example.com", id),
	}
	for _, opt := range opts {
		opt(&client)
	}
	return client
}

// WithClientID overrides the generated client ID.
func WithClientID(id string) ClientOption {
	return func(c *document.Client) {
		c.ID = id
	}
}

// WithClientName overrides the generated name.
func WithClientName(name string) ClientOption {
	return func(c *document.Client) {
		c.Name = name
	}
}

// ----------------------------- Booking fixtures --------------------------

// BookingOption configures a generated booking.
type BookingOption func(*document.Booking)

// NewBooking returns a 30 minute walk-in booking on ReferenceDate at 09:00
// owned by the seeded administrator.
func NewBooking(opts ...BookingOption) document.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	booking := document.Booking{
		ID:       fmt.Sprintf("booking-%03d", idx),
		Date:     ReferenceDate,
		Time:     "09:00",
		Duration: 30,
		UserID:   AdminID,
		Client:   document.WalkIn(fmt.Sprintf("Walk-in %03d", idx)),
	}
	for _, opt := range opts {
		opt(&booking)
	}
	return booking
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(b *document.Booking) {
		b.ID = id
	}
}

// WithBookingSlot moves the booking to date and time.
func WithBookingSlot(date, clock string) BookingOption {
	return func(b *document.Booking) {
		b.Date = date
		b.Time = clock
	}
}

// WithBookingUser overrides the responsible user.
func WithBookingUser(userID string) BookingOption {
	return func(b *document.Booking) {
		b.UserID = userID
	}
}

// WithBookingClient references a registered client.
func WithBookingClient(clientID string) BookingOption {
	return func(b *document.Booking) {
		b.Client = document.RegisteredClient(clientID)
	}
}

// ----------------------------- Documents ---------------------------------

// DocumentOption configures a generated document.
type DocumentOption func(*document.Document)

// NewDocument returns the first-run document with the administrator stored
// under AdminID and a legacy hash of the default password, then applies opts.
func NewDocument(opts ...DocumentOption) document.Document {
	doc := document.Default(AdminID, credential.LegacyHash(AdminPassword), referenceTime)
	for _, opt := range opts {
		opt(&doc)
	}
	return doc
}

// WithUsers appends users after the administrator.
func WithUsers(users ...document.User) DocumentOption {
	return func(d *document.Document) {
		d.Users = append(d.Users, users...)
	}
}

// WithClients appends clients.
func WithClients(clients ...document.Client) DocumentOption {
	return func(d *document.Document) {
		d.Clients = append(d.Clients, clients...)
	}
}

// WithBookings appends bookings.
func WithBookings(bookings ...document.Booking) DocumentOption {
	return func(d *document.Document) {
		d.Bookings = append(d.Bookings, bookings...)
	}
}

// WithFinance appends finance entries.
func WithFinance(entries ...document.FinanceEntry) DocumentOption {
	return func(d *document.Document) {
		d.Finance = append(d.Finance, entries...)
	}
}

// WithAuthenticated sets the auth pointer.
func WithAuthenticated(userID string) DocumentOption {
	return func(d *document.Document) {
		d.Auth.UserID = userID
	}
}

// WithConfig replaces the configuration.
func WithConfig(cfg document.Config) DocumentOption {
	return func(d *document.Document) {
		d.Config = cfg
	}
}

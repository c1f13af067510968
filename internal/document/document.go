package document

import "time"

// Role identifies what a user may access.
type Role string

const (
	// RoleAdmin grants access to every view including users and configuration.
	RoleAdmin Role = "admin"
	// RoleAttendant grants access to the agenda, clients and finance views.
	RoleAttendant Role = "atendente"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleAttendant
}

// FinanceKind distinguishes incoming from outgoing money.
type FinanceKind string

const (
	// KindIncome adds to the running balance.
	KindIncome FinanceKind = "entrada"
	// KindExpense subtracts from the running balance.
	KindExpense FinanceKind = "saida"
)

// Valid reports whether k is one of the enumerated kinds.
func (k FinanceKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Default values applied to a freshly seeded document.
const (
	DefaultAdminName     = "Admin"
	DefaultAdminEmail    = "admin@local"
	DefaultAdminPassword = "admin123"
	DefaultUserPassword  = "123456"
	DefaultStart         = "08:00"
	DefaultEnd           = "18:00"
	DefaultStep          = 30
)

// User is an operator account.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// Client is a registered customer.
type Client struct {
	ID    string
	Name  string
	Phone string
	Email string
	Notes string
}

// Booking occupies one date and time slot.
type Booking struct {
	ID       string
	Date     string
	Time     string
	Duration int
	// UserID is the responsible user; empty when no user remains to own it.
	UserID string
	Client ClientRef
	Notes  string
}

// FinanceEntry is a single income or expense line. Amount is in cents.
type FinanceEntry struct {
	ID          string
	Date        string
	Kind        FinanceKind
	Amount      int64
	Description string
	// BookingID optionally links the entry to a booking and is never cleaned up.
	BookingID string
}

// Signed returns the entry's contribution to the balance.
func (f FinanceEntry) Signed() int64 {
	if f.Kind == KindExpense {
		return -f.Amount
	}
	return f.Amount
}

// Config drives slot enumeration for the agenda.
type Config struct {
	Start string
	End   string
	Step  int
}

// DefaultConfig returns the first-run workday configuration.
func DefaultConfig() Config {
	return Config{Start: DefaultStart, End: DefaultEnd, Step: DefaultStep}
}

// Auth points at the authenticated user, if any.
type Auth struct {
	UserID string
}

// Document is the whole persisted aggregate.
type Document struct {
	Auth     Auth
	Users    []User
	Clients  []Client
	Bookings []Booking
	Finance  []FinanceEntry
	Config   Config
}

// Default builds the first-run document with a single administrator.
func Default(adminID, adminPasswordHash string, createdAt time.Time) Document {
	return Document{
		Users: []User{{
			ID:           adminID,
			Name:         DefaultAdminName,
			Email:        DefaultAdminEmail,
			Role:         RoleAdmin,
			PasswordHash: adminPasswordHash,
			CreatedAt:    createdAt,
		}},
		Clients:  []Client{},
		Bookings: []Booking{},
		Finance:  []FinanceEntry{},
		Config:   DefaultConfig(),
	}
}

// Clone returns a deep copy whose slices can be mutated independently.
func (d Document) Clone() Document {
	return Document{
		Auth:     d.Auth,
		Users:    cloneSlice(d.Users),
		Clients:  cloneSlice(d.Clients),
		Bookings: cloneSlice(d.Bookings),
		Finance:  cloneSlice(d.Finance),
		Config:   d.Config,
	}
}

// Normalize replaces nil collections with empty ones so that a document
// compares equal to its own export/import round trip.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Clients == nil {
		d.Clients = []Client{}
	}
	if d.Bookings == nil {
		d.Bookings = []Booking{}
	}
	if d.Finance == nil {
		d.Finance = []FinanceEntry{}
	}
}

func cloneSlice[T any](values []T) []T {
	if values == nil {
		return nil
	}
	out := make([]T, len(values))
	copy(out, values)
	return out
}

// UserByID returns the user with the given identifier.
func (d Document) UserByID(id string) (User, bool) {
	for _, u := range d.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// ClientByID returns the client with the given identifier.
func (d Document) ClientByID(id string) (Client, bool) {
	for _, c := range d.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}

// BookingByID returns the booking with the given identifier.
func (d Document) BookingByID(id string) (Booking, bool) {
	for _, b := range d.Bookings {
		if b.ID == id {
			return b, true
		}
	}
	return Booking{}, false
}

// CurrentUser resolves the auth pointer.
func (d Document) CurrentUser() (User, bool) {
	if d.Auth.UserID == "" {
		return User{}, false
	}
	return d.UserByID(d.Auth.UserID)
}

// Balance sums incomes minus expenses, in cents.
func (d Document) Balance() int64 {
	var total int64
	for _, entry := range d.Finance {
		total += entry.Signed()
	}
	return total
}

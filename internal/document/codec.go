package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMalformed is returned when a serialized document cannot be decoded.
var ErrMalformed = errors.New("document: malformed data")

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// The wire types keep the field names of the browser agenda's localStorage
// backups so exported files stay interchangeable with it.

type wireDocument struct {
	Auth     wireAuth      `json:"auth"`
	Users    []wireUser    `json:"users"`
	Clients  []wireClient  `json:"clients"`
	Bookings []wireBooking `json:"bookings"`
	Finance  []wireFinance `json:"finance"`
	Config   wireConfig    `json:"config"`
}

type wireAuth struct {
	UserID *string `json:"userId"`
}

type wireUser struct {
	ID           string `json:"id"`
	Name         string `json:"nome"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    string `json:"createdAt"`
}

type wireClient struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Phone string `json:"telefone"`
	Email string `json:"email"`
	Notes string `json:"observacoes"`
}

type wireBooking struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Duration   int     `json:"duration"`
	UserID     *string `json:"userId"`
	ClientID   *string `json:"clientId"`
	WalkInName string  `json:"clientNameLivre"`
	Notes      string  `json:"obs"`
}

type wireFinance struct {
	ID          string  `json:"id"`
	Date        string  `json:"data"`
	Kind        string  `json:"tipo"`
	Amount      float64 `json:"valor"`
	Description string  `json:"descricao"`
	BookingID   *string `json:"vinculoBookingId"`
}

type wireConfig struct {
	Start string `json:"agendaInicio"`
	End   string `json:"agendaFim"`
	Step  int    `json:"step"`
}

// Marshal serializes the document in its persisted JSON shape.
func Marshal(doc Document) ([]byte, error) {
	return json.Marshal(toWire(doc))
}

// MarshalIndent is Marshal with indentation, used for downloadable backups.
func MarshalIndent(doc Document) ([]byte, error) {
	return json.MarshalIndent(toWire(doc), "", "  ")
}

// Unmarshal decodes a persisted document. Collections missing from the input
// decode as empty; a document without any user is rejected.
func Unmarshal(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc, err := fromWire(wire)
	if err != nil {
		return Document{}, err
	}
	if len(doc.Users) == 0 {
		return Document{}, fmt.Errorf("%w: document has no users", ErrMalformed)
	}
	doc.Normalize()
	return doc, nil
}

func toWire(doc Document) wireDocument {
	wire := wireDocument{
		Auth:     wireAuth{UserID: optional(doc.Auth.UserID)},
		Users:    make([]wireUser, 0, len(doc.Users)),
		Clients:  make([]wireClient, 0, len(doc.Clients)),
		Bookings: make([]wireBooking, 0, len(doc.Bookings)),
		Finance:  make([]wireFinance, 0, len(doc.Finance)),
		Config: wireConfig{
			Start: doc.Config.Start,
			End:   doc.Config.End,
			Step:  doc.Config.Step,
		},
	}

	for _, u := range doc.Users {
		created := ""
		if !u.CreatedAt.IsZero() {
			created = u.CreatedAt.UTC().Format(timestampLayout)
		}
		wire.Users = append(wire.Users, wireUser{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Role:         string(u.Role),
			PasswordHash: u.PasswordHash,
			CreatedAt:    created,
		})
	}

	for _, c := range doc.Clients {
		wire.Clients = append(wire.Clients, wireClient(c))
	}

	for _, b := range doc.Bookings {
		wb := wireBooking{
			ID:       b.ID,
			Date:     b.Date,
			Time:     b.Time,
			Duration: b.Duration,
			UserID:   optional(b.UserID),
			Notes:    b.Notes,
		}
		if id, ok := b.Client.ClientID(); ok {
			wb.ClientID = &id
		}
		if name, ok := b.Client.WalkInName(); ok {
			wb.WalkInName = name
		}
		wire.Bookings = append(wire.Bookings, wb)
	}

	for _, f := range doc.Finance {
		wire.Finance = append(wire.Finance, wireFinance{
			ID:          f.ID,
			Date:        f.Date,
			Kind:        string(f.Kind),
			Amount:      float64(f.Amount) / 100,
			Description: f.Description,
			BookingID:   optional(f.BookingID),
		})
	}

	return wire
}

func fromWire(wire wireDocument) (Document, error) {
	doc := Document{
		Auth:     Auth{UserID: deref(wire.Auth.UserID)},
		Users:    make([]User, 0, len(wire.Users)),
		Clients:  make([]Client, 0, len(wire.Clients)),
		Bookings: make([]Booking, 0, len(wire.Bookings)),
		Finance:  make([]FinanceEntry, 0, len(wire.Finance)),
		Config: Config{
			Start: wire.Config.Start,
			End:   wire.Config.End,
			Step:  wire.Config.Step,
		},
	}

	for _, u := range wire.Users {
		var created time.Time
		if u.CreatedAt != "" {
			parsed, err := time.Parse(time.RFC3339Nano, u.CreatedAt)
			if err != nil {
				return Document{}, fmt.Errorf("%w: user %s createdAt: %v", ErrMalformed, u.ID, err)
			}
			created = parsed.UTC()
		}
		doc.Users = append(doc.Users, User{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Role:         Role(u.Role),
			PasswordHash: u.PasswordHash,
			CreatedAt:    created,
		})
	}

	for _, c := range wire.Clients {
		doc.Clients = append(doc.Clients, Client(c))
	}

	for _, b := range wire.Bookings {
		ref := RegisteredClient(deref(b.ClientID))
		if ref.IsZero() {
			ref = WalkIn(b.WalkInName)
		}
		doc.Bookings = append(doc.Bookings, Booking{
			ID:       b.ID,
			Date:     b.Date,
			Time:     b.Time,
			Duration: b.Duration,
			UserID:   deref(b.UserID),
			Client:   ref,
			Notes:    b.Notes,
		})
	}

	for _, f := range wire.Finance {
		doc.Finance = append(doc.Finance, FinanceEntry{
			ID:          f.ID,
			Date:        f.Date,
			Kind:        FinanceKind(f.Kind),
			Amount:      ToCents(f.Amount),
			Description: f.Description,
			BookingID:   deref(f.BookingID),
		})
	}

	return doc, nil
}

// ToCents converts a decimal currency amount to integer cents.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

package application

import (
	"context"
	"sort"
	"strings"

	"github.com/example/agenda/internal/document"
	"github.com/example/agenda/internal/scheduler"
)

// ClientInput carries the editable fields of a client. An empty or unknown ID
// creates a new client.
type ClientInput struct {
	ID    string
	Name  string
	Phone string
	Email string
	Notes string
}

// SaveClient inserts or updates a client.
func (a *Agenda) SaveClient(ctx context.Context, principal Principal, input ClientInput) (saved document.Client, err error) {
	logger := a.loggerWith(ctx, "SaveClient", "client_id", input.ID)
	defer func() {
		logOutcome(ctx, logger, err, "client saved", "client_id", saved.ID)
	}()

	if err = Authorize(principal, ViewClients); err != nil {
		return
	}

	client := normalizeClientInput(input)
	if vErr := validateClient(client); vErr.HasErrors() {
		err = vErr
		return
	}

	err = a.mutate(ctx, func(doc *document.Document) error {
		index := clientIndex(doc.Clients, client.ID)
		if index < 0 {
			client.ID = a.idGenerator()
			doc.Clients = append(doc.Clients, client)
			return nil
		}
		doc.Clients[index] = client
		return nil
	})
	if err != nil {
		return
	}
	saved = client
	return
}

// DeleteClient removes a client and clears the client reference of every
// booking that pointed at it. The bookings themselves are kept.
func (a *Agenda) DeleteClient(ctx context.Context, principal Principal, id string) (err error) {
	logger := a.loggerWith(ctx, "DeleteClient", "client_id", id)
	var detached int
	defer func() {
		logOutcome(ctx, logger, err, "client deleted", "detached_bookings", detached)
	}()

	if err = Authorize(principal, ViewClients); err != nil {
		return
	}

	return a.mutate(ctx, func(doc *document.Document) error {
		index := clientIndex(doc.Clients, id)
		if index < 0 {
			return ErrNotFound
		}
		doc.Clients = append(doc.Clients[:index:index], doc.Clients[index+1:]...)
		doc.Bookings, detached = scheduler.DetachClient(doc.Bookings, id)
		return nil
	})
}

// ListClients returns the clients ordered by name.
func (a *Agenda) ListClients() []document.Client {
	var out []document.Client
	a.read(func(doc document.Document) {
		out = make([]document.Client, len(doc.Clients))
		copy(out, doc.Clients)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func normalizeClientInput(input ClientInput) document.Client {
	return document.Client{
		ID:    strings.TrimSpace(input.ID),
		Name:  strings.TrimSpace(input.Name),
		Phone: strings.TrimSpace(input.Phone),
		Email: strings.TrimSpace(input.Email),
		Notes: strings.TrimSpace(input.Notes),
	}
}

func validateClient(client document.Client) *ValidationError {
	vErr := &ValidationError{}
	if client.Name == "" {
		vErr.add("name", "name is required")
	}
	if client.Email != "" {
		if !validEmail(client.Email) {
			vErr.add("email", "email must be valid")
		}
	}
	return vErr
}

func clientIndex(clients []document.Client, id string) int {
	if id == "" {
		return -1
	}
	for i, c := range clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

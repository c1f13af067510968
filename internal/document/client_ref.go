package document

import "strings"

// ClientKind tags which variant of ClientRef is present.
type ClientKind int

const (
	// ClientUnassigned means the booking lost its client, e.g. after the client was deleted.
	ClientUnassigned ClientKind = iota
	// ClientRegistered references a record in Document.Clients.
	ClientRegistered
	// ClientWalkIn carries a free-text name for someone without a client record.
	ClientWalkIn
)

// ClientRef identifies who a booking is for: either a registered client or a
// walk-in name, never both.
type ClientRef struct {
	kind  ClientKind
	value string
}

// RegisteredClient references the client with the given identifier.
func RegisteredClient(id string) ClientRef {
	id = strings.TrimSpace(id)
	if id == "" {
		return ClientRef{}
	}
	return ClientRef{kind: ClientRegistered, value: id}
}

// WalkIn records a free-text client name.
func WalkIn(name string) ClientRef {
	name = strings.TrimSpace(name)
	if name == "" {
		return ClientRef{}
	}
	return ClientRef{kind: ClientWalkIn, value: name}
}

// Kind returns the present variant.
func (r ClientRef) Kind() ClientKind {
	return r.kind
}

// ClientID returns the referenced client identifier for registered clients.
func (r ClientRef) ClientID() (string, bool) {
	if r.kind != ClientRegistered {
		return "", false
	}
	return r.value, true
}

// WalkInName returns the free-text name for walk-ins.
func (r ClientRef) WalkInName() (string, bool) {
	if r.kind != ClientWalkIn {
		return "", false
	}
	return r.value, true
}

// IsZero reports whether no client identity is present.
func (r ClientRef) IsZero() bool {
	return r.kind == ClientUnassigned
}

// References reports whether r points at the client with the given identifier.
func (r ClientRef) References(clientID string) bool {
	return r.kind == ClientRegistered && r.value == clientID
}

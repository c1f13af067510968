// Package credential provides the password hashers used to store and check
// user credentials. Hashers only need to answer "does this password match the
// stored value"; callers never compare stored strings themselves.
package credential

import "errors"

// ErrUnknownScheme is returned when a hasher name cannot be resolved.
var ErrUnknownScheme = errors.New("credential: unknown scheme")

// Hasher produces and checks stored credentials.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}

// Scheme names accepted by New.
const (
	SchemeArgon2id = "argon2id"
	SchemeLegacy   = "legacy"
)

// New resolves a hasher by scheme name.
func New(scheme string) (Hasher, error) {
	switch scheme {
	case SchemeArgon2id, "":
		return NewArgon2id(DefaultArgon2idParams), nil
	case SchemeLegacy:
		return Legacy{}, nil
	default:
		return nil, ErrUnknownScheme
	}
}

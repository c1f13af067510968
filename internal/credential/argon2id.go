package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidPasswordHash         = errors.New("invalid password hash format")
	ErrIncompatiblePasswordVersion = errors.New("incompatible password hash version")
)

const argon2idPrefix = "$argon2id$"

// Bounds accepted for parameters read back from a stored hash. Stored values
// can arrive through backup imports, so they are not trusted.
const (
	maxArgon2idMemory     = 1 << 20 // KiB, 1 GiB
	maxArgon2idIterations = 64
	maxArgon2idKeyLength  = 1024
)

type Argon2idParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var DefaultArgon2idParams = Argon2idParams{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// Argon2id hashes new credentials with argon2id. Stored values without the
// argon2id prefix are checked with the legacy hash so that documents imported
// from the browser agenda keep their passwords.
type Argon2id struct {
	params Argon2idParams
}

// NewArgon2id returns a hasher using the given parameters.
func NewArgon2id(params Argon2idParams) Argon2id {
	return Argon2id{params: params}
}

// Hash returns an encoded argon2id hash with a random salt.
func (a Argon2id) Hash(password string) (string, error) {
	return CreatePasswordHash(password, a.params)
}

// Verify reports whether password matches the stored value.
func (a Argon2id) Verify(stored, password string) bool {
	if !strings.HasPrefix(stored, argon2idPrefix) {
		return Legacy{}.Verify(stored, password)
	}
	return VerifyPassword(stored, password) == nil
}

func CreatePasswordHash(password string, params Argon2idParams) (string, error) {
	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	// Format is $argon2id$v=19$m=...,t=...,p=...$salt$hash
	format := "$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s"
	return fmt.Sprintf(format, argon2.Version, params.Memory, params.Iterations, params.Parallelism, b64Salt, b64Hash), nil
}

// ErrMismatch is returned by VerifyPassword when the password is wrong.
var ErrMismatch = errors.New("credential: password mismatch")

func VerifyPassword(hashedPassword, password string) error {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 6 {
		return ErrInvalidPasswordHash
	}

	if parts[1] != "argon2id" {
		return ErrInvalidPasswordHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return err
	}
	if version != argon2.Version {
		return ErrIncompatiblePasswordVersion
	}

	var params Argon2idParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return err
	}
	if params.Iterations < 1 || params.Iterations > maxArgon2idIterations ||
		params.Parallelism < 1 || params.Memory > maxArgon2idMemory {
		return ErrInvalidPasswordHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return err
	}

	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return err
	}
	if len(decodedHash) == 0 || len(decodedHash) > maxArgon2idKeyLength {
		return ErrInvalidPasswordHash
	}

	comparisonHash := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, uint32(len(decodedHash)))

	if subtle.ConstantTimeCompare(decodedHash, comparisonHash) == 1 {
		return nil
	}

	return ErrMismatch
}

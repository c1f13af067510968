package credential

import (
	"strconv"
	"unicode/utf16"
)

// Legacy reproduces the reversible string hash stored by the browser agenda.
// It exists so that imported backups keep working and must not be used for new
// deployments.
type Legacy struct{}

// Hash returns "h" followed by the absolute 31-multiplier rolling hash of the
// password's UTF-16 code units.
func (Legacy) Hash(password string) (string, error) {
	return LegacyHash(password), nil
}

// Verify compares the stored value with the legacy hash of password.
func (Legacy) Verify(stored, password string) bool {
	return stored == LegacyHash(password)
}

// LegacyHash computes the legacy hash without an error return.
func LegacyHash(password string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(password)) {
		h = (h << 5) - h + int32(unit)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return "h" + strconv.FormatInt(abs, 10)
}

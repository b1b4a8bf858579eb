package auth

import (
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MinPasswordLength = 6
	// bcrypt refuses inputs longer than this many bytes.
	MaxPasswordBytes = 72
)

// NormalizeEmail trims and lowercases an address. Casers hold state, so one is
// built per call.
func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "is not a valid address")
	}
	return nil
}

// NormalizePassword trims surrounding whitespace and enforces the minimum length.
func NormalizePassword(password string) (string, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return "", invalid("password", "is required")
	}
	if len([]rune(password)) < MinPasswordLength {
		return "", invalid("password", "must be at least 6 characters")
	}
	if len(password) > MaxPasswordBytes {
		return "", invalid("password", "must be at most 72 bytes")
	}
	return password, nil
}

// HashPassword salts and hashes with the given bcrypt cost. Hashing failures are
// returned to the caller so nothing is persisted without a hash.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword reports whether candidate matches the stored hash. A mismatch is
// (false, nil); a malformed hash is an error.
func ComparePassword(hash, candidate string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

package credentials

import (
	"errors"
	"fmt"

	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/dalemusser/orgadmin/internal/app/system/inputval"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

const MsgPasswordTooLong = "Password must be at most 72 bytes long"

// Hasher hashes and checks admin passwords with bcrypt.
type Hasher struct {
	Cost int
}

func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return Hasher{Cost: cost}
}

// Hash returns the bcrypt digest of plain. A password longer than
// MaxPasswordBytes is a validation error on the password field.
func (h Hasher) Hash(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", tooLong(bcrypt.ErrPasswordTooLong)
	}
	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", tooLong(err)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest. A malformed digest is a
// mismatch, not an error.
func (h Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

func tooLong(cause error) error {
	e := apperr.Validation(inputval.FailedMessage, apperr.FieldError{Field: "password", Message: MsgPasswordTooLong})
	e.Err = cause
	return e
}

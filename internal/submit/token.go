package submit

import (
	"errors"

	"github.com/google/uuid"
)

// DefaultTokenName is the token slot used when a form does not name one.
const DefaultTokenName = "form_token"

// ErrDuplicate is returned for a submission whose token is missing or was
// already used.
var ErrDuplicate = errors.New("duplicate submission")

// Tokens holds one single-use token per form slot.
type Tokens struct {
	issued map[string]string
}

// NewTokens returns an empty token store.
func NewTokens() *Tokens {
	return &Tokens{issued: make(map[string]string)}
}

// Issue stores a fresh token under name and returns it, replacing any
// earlier token.
func (t *Tokens) Issue(name string) string {
	if name == "" {
		name = DefaultTokenName
	}
	token := uuid.NewString()
	t.issued[name] = token
	return token
}

// IsDuplicate consumes the token stored under name and reports whether the
// submission must be rejected: no token submitted, none stored, or a
// mismatch. Only the first call for an issued token can return false.
func (t *Tokens) IsDuplicate(name, submitted string) bool {
	if name == "" {
		name = DefaultTokenName
	}
	stored, ok := t.issued[name]
	delete(t.issued, name)
	if submitted == "" || !ok {
		return true
	}
	return submitted != stored
}

// Check is IsDuplicate returning ErrDuplicate.
func (t *Tokens) Check(name, submitted string) error {
	if t.IsDuplicate(name, submitted) {
		return ErrDuplicate
	}
	return nil
}

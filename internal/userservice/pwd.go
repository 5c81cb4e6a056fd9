package userservice

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// set replaces the stored hash. The plaintext is not kept.
func (p *Password) set(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	p.hash = hash

	return nil
}

// matches reports whether pwd hashes to the stored value. A malformed stored hash is an error, not a mismatch.
func (p *Password) matches(pwd string) (bool, error) {
	switch err := bcrypt.CompareHashAndPassword(p.hash, []byte(pwd)); {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// Package pin guards the scanning terminal with the shared numeric PIN. The
// configured value is stored as a bcrypt hash so a leaked config record does
// not expose the PIN itself.
package pin

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("pin hashing failed")
	ErrMismatch      = errors.New("pin mismatch")
	ErrInvalidPin    = errors.New("invalid pin")
)

const DefaultCost = bcrypt.DefaultCost

func Hash(pin string) (string, error) {
	if pin == "" {
		return "", ErrInvalidPin
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(pin), DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}

	return string(hashedBytes), nil
}

func Compare(hashedPin, pin string) error {
	if hashedPin == "" || pin == "" {
		return ErrInvalidPin
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPin), []byte(pin))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}

	return nil
}

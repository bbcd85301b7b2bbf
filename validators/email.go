// Package validators holds the input checks shared by the auth and
// book handlers, each reporting a sentinel error.
package validators

import (
	"errors"
	"net/mail"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

// EmailValidator checks that addr parses as an RFC 5322 address. It is
// deliberately loose beyond that; an address is only proven real once
// its OTP comes back.
func EmailValidator(addr string) error {
	if addr == "" {
		return ErrEmailEmpty
	}

	if _, err := mail.ParseAddress(addr); err != nil {
		return ErrEmailInvalid
	}

	return nil
}

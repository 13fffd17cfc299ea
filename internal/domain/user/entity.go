package user

import (
	"errors"
	"net/mail"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidTier  = errors.New("invalid tier")
)

type Email string

func NewEmail(s string) (Email, error) {
	if s == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return "", ErrInvalidEmail
	}
	return Email(s), nil
}

func (e Email) String() string {
	return string(e)
}

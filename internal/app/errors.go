package app

import (
	"errors"
	"fmt"
)

var (
	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is returned when login finds no account for the email.
	ErrUserNotFound = errors.New("user not found")

	// ErrWrongPassword is returned when the hash comparison fails.
	ErrWrongPassword = errors.New("wrong password")

	// ErrBookNotFound is returned when a book operation matches no row.
	ErrBookNotFound = errors.New("book not found")
)

// PageRangeError reports a page request past the last available page.
type PageRangeError struct {
	MaxPage int
}

func (e *PageRangeError) Error() string {
	return fmt.Sprintf("There are only %d page", e.MaxPage)
}

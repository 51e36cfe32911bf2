package model

import (
	"errors"

	authorModel "libratrack-backend/internal/domains/author/model"
)

var (
	// Business rule errors
	ErrBookNotFound            = errors.New("book not found")
	ErrDuplicateBook           = errors.New("book with this title and author set already exists")
	ErrInvalidStatusTransition = errors.New("a published book cannot be moved back to unpublished")

	// ErrBookReload marks a failed post-insert reload: the row we just
	// wrote is gone, which is a server-side invariant violation rather
	// than a client error.
	ErrBookReload = errors.New("book disappeared after write")
)

// ToErrorCode converts an error to its stable API error code.
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return "BOOK_NOT_FOUND"
	case errors.Is(err, ErrDuplicateBook):
		return "DUPLICATE_BOOK"
	case errors.Is(err, ErrInvalidStatusTransition):
		return "INVALID_STATUS"
	case errors.Is(err, authorModel.ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	default:
		return "SYSTEM_ERROR"
	}
}

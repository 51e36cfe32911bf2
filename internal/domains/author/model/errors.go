package model

import "errors"

var (
	// Business rule errors
	ErrAuthorNotFound  = errors.New("author not found")
	ErrDuplicateAuthor = errors.New("author with this name and birth date already exists")
)

// ToErrorCode converts an error to its stable API error code.
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	case errors.Is(err, ErrDuplicateAuthor):
		return "DUPLICATE_AUTHOR"
	default:
		return "SYSTEM_ERROR"
	}
}

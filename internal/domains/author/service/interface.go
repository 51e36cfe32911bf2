package service

import (
	"context"
	"time"

	"libratrack-backend/internal/domains/author/model"
)

// Service holds the author business logic: the consistency rules that
// gate every write plus the write orchestration itself.
type Service interface {
	// Create registers a new author.
	// Errors: ErrDuplicateAuthor when (name, birth date) is already taken.
	Create(ctx context.Context, name string, birthDate time.Time) (*model.Author, error)

	// Update fully replaces an author's mutable fields.
	// Errors: ErrAuthorNotFound.
	Update(ctx context.Context, id int64, name string, birthDate time.Time) (*model.Author, error)
}

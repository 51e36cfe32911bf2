package repository

import (
	"context"
	"time"

	"libratrack-backend/internal/domains/author/model"
)

// Repository is the persistence gateway for authors.
type Repository interface {
	// Insert stores a new author and returns the created row.
	// Returns ErrDuplicateAuthor when (name, birth date) already exists.
	Insert(ctx context.Context, name string, birthDate time.Time) (*model.Author, error)

	// GetByID returns ErrAuthorNotFound when the id is absent.
	GetByID(ctx context.Context, id int64) (*model.Author, error)

	// ExistsByID is a lightweight existence probe for reference checks.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// ExistsByNameAndBirthDate reports whether the duplicate pair is taken.
	ExistsByNameAndBirthDate(ctx context.Context, name string, birthDate time.Time) (bool, error)

	// Replace overwrites every mutable field and returns the updated row.
	// Returns ErrAuthorNotFound when the id is absent; callers are expected
	// to have checked existence already, this is a defensive fallback.
	Replace(ctx context.Context, id int64, name string, birthDate time.Time) (*model.Author, error)
}

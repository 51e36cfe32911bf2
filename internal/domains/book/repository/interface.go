package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"libratrack-backend/internal/domains/book/model"
)

// Repository is the persistence gateway for the book aggregate.
// Every multi-statement operation commits atomically or not at all.
type Repository interface {
	// Insert stores the book row and its association rows in one
	// transaction and returns the new id.
	// Returns ErrAuthorNotFound when an association row hits the
	// authors foreign key.
	Insert(ctx context.Context, title string, price decimal.Decimal, status model.BookStatus, authorIDs []int64) (int64, error)

	// GetByID loads the aggregate with authors eagerly attached.
	// Returns ErrBookNotFound when the id is absent.
	GetByID(ctx context.Context, id int64) (*model.Book, error)

	// ListByAuthor returns every book linked to the author, ordered by
	// book id, each with its full author list.
	ListByAuthor(ctx context.Context, authorID int64) ([]model.Book, error)

	// Replace overwrites the scalar fields, replaces the association
	// rows wholesale (delete-all-then-insert) and returns the reloaded
	// aggregate. All statements run in one transaction.
	Replace(ctx context.Context, id int64, title string, price decimal.Decimal, status model.BookStatus, authorIDs []int64) (*model.Book, error)

	// ExistsByTitleAndAuthors reports whether a book with the same title
	// and exactly the same (unordered) author set already exists.
	ExistsByTitleAndAuthors(ctx context.Context, title string, authorIDs []int64) (bool, error)
}

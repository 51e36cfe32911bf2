package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	authorModel "libratrack-backend/internal/domains/author/model"
)

// BookStatus represents the publication state of a book.
type BookStatus string

const (
	BookStatusUnpublished BookStatus = "unpublished"
	BookStatusPublished   BookStatus = "published"
)

func (s BookStatus) IsValid() bool {
	switch s {
	case BookStatusUnpublished, BookStatusPublished:
		return true
	}
	return false
}

func (s BookStatus) String() string {
	return string(s)
}

// Book is the aggregate root: the book row plus the author rows linked
// through book_authors. Association rows have no life of their own and
// are always written together with the book.
type Book struct {
	ID      int64                `json:"id" db:"id"`
	Title   string               `json:"title" db:"title"`
	Price   decimal.Decimal      `json:"price" db:"price"`
	Status  BookStatus           `json:"status" db:"status"`
	Authors []authorModel.Author `json:"authors"`
}

// AuthorIDs returns the ids of the associated authors in load order.
func (b *Book) AuthorIDs() []int64 {
	ids := make([]int64, 0, len(b.Authors))
	for _, a := range b.Authors {
		ids = append(ids, a.ID)
	}
	return ids
}

// CreateBookRequest - POST /books
type CreateBookRequest struct {
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Status    BookStatus      `json:"status"`
	AuthorIDs []int64         `json:"authorIds"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 500),
		),
		validation.Field(&r.Price, validation.By(nonNegativePrice)),
		validation.Field(&r.Status, validation.By(validStatus)),
		validation.Field(&r.AuthorIDs,
			validation.Required.Error("at least one author is required"),
			validation.By(validAuthorIDs),
		),
	)
}

// UpdateBookRequest - PUT /books
// Full replace: scalar fields and the author set are overwritten as a whole.
type UpdateBookRequest struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Status    BookStatus      `json:"status"`
	AuthorIDs []int64         `json:"authorIds"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID,
			validation.Required.Error("id is required"),
			validation.Min(int64(1)).Error("id must be positive"),
		),
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 500),
		),
		validation.Field(&r.Price, validation.By(nonNegativePrice)),
		validation.Field(&r.Status, validation.By(validStatus)),
		validation.Field(&r.AuthorIDs,
			validation.Required.Error("at least one author is required"),
			validation.By(validAuthorIDs),
		),
	)
}

func nonNegativePrice(value interface{}) error {
	price, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("price must be a decimal number")
	}
	if price.IsNegative() {
		return errors.New("price must not be negative")
	}
	return nil
}

// validAuthorIDs checks the element constraints itself: ozzo threshold
// rules skip zero values, so Each(Min(1)) never fires for an id of 0.
// Repeats are rejected too, since the author list is a set.
func validAuthorIDs(value interface{}) error {
	ids, ok := value.([]int64)
	if !ok {
		return errors.New("author ids must be integers")
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id < 1 {
			return errors.New("author ids must be positive")
		}
		if _, dup := seen[id]; dup {
			return errors.New("author ids must not repeat")
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validStatus(value interface{}) error {
	status, ok := value.(BookStatus)
	if !ok || !status.IsValid() {
		return errors.New("status must be one of: unpublished, published")
	}
	return nil
}

// BookResponse shapes a book aggregate for the API.
type BookResponse struct {
	ID      int64                        `json:"id"`
	Title   string                       `json:"title"`
	Price   decimal.Decimal              `json:"price"`
	Status  string                       `json:"status"`
	Authors []authorModel.AuthorResponse `json:"authors"`
}

// ToResponse converts a Book to its API shape.
func (b *Book) ToResponse() *BookResponse {
	authors := make([]authorModel.AuthorResponse, 0, len(b.Authors))
	for i := range b.Authors {
		authors = append(authors, *b.Authors[i].ToResponse())
	}
	return &BookResponse{
		ID:      b.ID,
		Title:   b.Title,
		Price:   b.Price,
		Status:  b.Status.String(),
		Authors: authors,
	}
}

// ToResponseList converts a slice of books.
func ToResponseList(books []Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, *books[i].ToResponse())
	}
	return out
}

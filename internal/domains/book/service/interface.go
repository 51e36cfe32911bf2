package service

import (
	"context"

	"libratrack-backend/internal/domains/book/model"
)

// Service coordinates validation and persistence for book operations.
type Service interface {
	Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error)
	Update(ctx context.Context, req *model.UpdateBookRequest) (*model.Book, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]model.Book, error)
}

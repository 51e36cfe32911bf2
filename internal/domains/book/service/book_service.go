package service

import (
	"context"
	"fmt"

	authorModel "libratrack-backend/internal/domains/author/model"
	authorRepo "libratrack-backend/internal/domains/author/repository"
	"libratrack-backend/internal/domains/book/model"
	"libratrack-backend/internal/domains/book/repository"
	"libratrack-backend/pkg/logger"
)

type bookService struct {
	bookRepo   repository.Repository
	authorRepo authorRepo.Repository
}

// NewBookService creates the book service.
func NewBookService(bookRepo repository.Repository, authors authorRepo.Repository) Service {
	return &bookService{
		bookRepo:   bookRepo,
		authorRepo: authors,
	}
}

func (s *bookService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	if err := s.validateNewBook(ctx, req); err != nil {
		return nil, err
	}

	id, err := s.bookRepo.Insert(ctx, req.Title, req.Price, req.Status, req.AuthorIDs)
	if err != nil {
		return nil, err
	}

	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("book missing immediately after insert", err)
		return nil, model.ErrBookReload
	}

	logger.Info("created book", map[string]interface{}{
		"book_id": book.ID,
		"title":   book.Title,
	})

	return book, nil
}

func (s *bookService) Update(ctx context.Context, req *model.UpdateBookRequest) (*model.Book, error) {
	current, err := s.bookRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := s.validateBookUpdate(ctx, current, req); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.Replace(ctx, req.ID, req.Title, req.Price, req.Status, req.AuthorIDs)
	if err != nil {
		return nil, err
	}

	logger.Info("updated book", map[string]interface{}{"book_id": book.ID})

	return book, nil
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

func (s *bookService) ListByAuthor(ctx context.Context, authorID int64) ([]model.Book, error) {
	exists, err := s.authorRepo.ExistsByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, authorModel.ErrAuthorNotFound
	}

	return s.bookRepo.ListByAuthor(ctx, authorID)
}

// validateNewBook checks the author references in the order the client
// supplied them, then looks for a same-title/same-author-set duplicate.
func (s *bookService) validateNewBook(ctx context.Context, req *model.CreateBookRequest) error {
	if err := s.checkAuthorRefs(ctx, req.AuthorIDs); err != nil {
		return err
	}

	duplicate, err := s.bookRepo.ExistsByTitleAndAuthors(ctx, req.Title, req.AuthorIDs)
	if err != nil {
		return err
	}
	if duplicate {
		return model.ErrDuplicateBook
	}

	return nil
}

// validateBookUpdate enforces the status transition rule before looking
// at author references, so a forbidden transition wins when both fail.
func (s *bookService) validateBookUpdate(ctx context.Context, current *model.Book, req *model.UpdateBookRequest) error {
	if current.Status == model.BookStatusPublished && req.Status == model.BookStatusUnpublished {
		return model.ErrInvalidStatusTransition
	}

	return s.checkAuthorRefs(ctx, req.AuthorIDs)
}

func (s *bookService) checkAuthorRefs(ctx context.Context, authorIDs []int64) error {
	for _, authorID := range authorIDs {
		exists, err := s.authorRepo.ExistsByID(ctx, authorID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("author with id %d does not exist: %w",
				authorID, authorModel.ErrAuthorNotFound)
		}
	}

	return nil
}

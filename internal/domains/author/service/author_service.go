package service

import (
	"context"
	"time"

	"libratrack-backend/internal/domains/author/model"
	"libratrack-backend/internal/domains/author/repository"
)

type authorService struct {
	repo repository.Repository
}

// NewAuthorService wires the service to its persistence gateway.
func NewAuthorService(repo repository.Repository) Service {
	return &authorService{
		repo: repo,
	}
}

// validateNewAuthor rejects a (name, birthDate) pair that is already taken.
func (s *authorService) validateNewAuthor(ctx context.Context, name string, birthDate time.Time) error {
	exists, err := s.repo.ExistsByNameAndBirthDate(ctx, name, birthDate)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrDuplicateAuthor
	}
	return nil
}

// validateAuthorUpdate requires the target author to exist.
func (s *authorService) validateAuthorUpdate(ctx context.Context, id int64) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrAuthorNotFound
	}
	return nil
}

func (s *authorService) Create(ctx context.Context, name string, birthDate time.Time) (*model.Author, error) {
	if err := s.validateNewAuthor(ctx, name, birthDate); err != nil {
		return nil, err
	}

	return s.repo.Insert(ctx, name, birthDate)
}

func (s *authorService) Update(ctx context.Context, id int64, name string, birthDate time.Time) (*model.Author, error) {
	if err := s.validateAuthorUpdate(ctx, id); err != nil {
		return nil, err
	}

	return s.repo.Replace(ctx, id, name, birthDate)
}

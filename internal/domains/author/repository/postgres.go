package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"libratrack-backend/internal/domains/author/model"
	"libratrack-backend/pkg/cache"
	"libratrack-backend/pkg/database"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	pool  database.Pool
	cache cache.Cache
}

// NewPostgresRepository creates the author persistence gateway.
func NewPostgresRepository(pool database.Pool, cache cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func (r *postgresRepository) Insert(ctx context.Context, name string, birthDate time.Time) (*model.Author, error) {
	query := `
        INSERT INTO authors (name, birth_date)
        VALUES ($1, $2)
        RETURNING id, name, birth_date
    `

	var created model.Author
	err := r.pool.QueryRow(ctx, query, name, birthDate).Scan(
		&created.ID,
		&created.Name,
		&created.BirthDate,
	)
	if err != nil {
		// The unique constraint on (name, birth_date) is the authoritative
		// duplicate guard; the service-level check is only a fast path.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, model.ErrDuplicateAuthor
		}
		return nil, fmt.Errorf("failed to insert author: %w", err)
	}

	return &created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	query := `
        SELECT id, name, birth_date
        FROM authors
        WHERE id = $1
    `

	var a model.Author
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.BirthDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	return &a, nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check author existence: %w", err)
	}

	return exists, nil
}

func (r *postgresRepository) ExistsByNameAndBirthDate(ctx context.Context, name string, birthDate time.Time) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM authors WHERE name = $1 AND birth_date = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, name, birthDate).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check author duplicate: %w", err)
	}

	return exists, nil
}

func (r *postgresRepository) Replace(ctx context.Context, id int64, name string, birthDate time.Time) (*model.Author, error) {
	query := `
        UPDATE authors
        SET name = $1, birth_date = $2
        WHERE id = $3
        RETURNING id, name, birth_date
    `

	var updated model.Author
	err := r.pool.QueryRow(ctx, query, name, birthDate, id).Scan(
		&updated.ID,
		&updated.Name,
		&updated.BirthDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, model.ErrDuplicateAuthor
		}
		return nil, fmt.Errorf("failed to replace author: %w", err)
	}

	// Book aggregates embed author rows; drop any cached copies that
	// still carry the old name or birth date.
	r.invalidateBookCaches(ctx)

	return &updated, nil
}

func (r *postgresRepository) invalidateBookCaches(ctx context.Context) {
	_ = r.cache.DeletePattern(ctx, "book:*")
	_ = r.cache.DeletePattern(ctx, "books:author:*")
}

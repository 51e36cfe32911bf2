package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	authorModel "libratrack-backend/internal/domains/author/model"
	"libratrack-backend/internal/domains/book/model"
	"libratrack-backend/pkg/cache"
	"libratrack-backend/pkg/database"
)

const foreignKeyViolation = "23503"

// Cache key constants
const (
	bookCacheKeyPrefix     = "book:"
	booksByAuthorKeyPrefix = "books:author:"
	cacheTTL               = 15 * time.Minute
)

type postgresRepository struct {
	pool  database.Pool
	cache cache.Cache
}

// NewPostgresRepository creates the book persistence gateway.
func NewPostgresRepository(pool database.Pool, cache cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func (r *postgresRepository) Insert(ctx context.Context, title string, price decimal.Decimal, status model.BookStatus, authorIDs []int64) (int64, error) {
	id, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int64, error) {
		const insertBook = `
            INSERT INTO books (title, price, status)
            VALUES ($1, $2, $3)
            RETURNING id
        `

		var bookID int64
		if err := tx.QueryRow(ctx, insertBook, title, price, status).Scan(&bookID); err != nil {
			return 0, fmt.Errorf("failed to insert book: %w", err)
		}

		if err := insertAssociations(ctx, tx, bookID, authorIDs); err != nil {
			return 0, err
		}

		return bookID, nil
	})
	if err != nil {
		return 0, err
	}

	r.invalidateListCaches(ctx)

	return id, nil
}

// insertAssociations writes the book_authors rows in input order. The
// foreign key on author_id is the authoritative reference guard.
func insertAssociations(ctx context.Context, tx pgx.Tx, bookID int64, authorIDs []int64) error {
	const insertAssoc = `
        INSERT INTO book_authors (book_id, author_id)
        VALUES ($1, $2)
    `

	for _, authorID := range authorIDs {
		if _, err := tx.Exec(ctx, insertAssoc, bookID, authorID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
				return fmt.Errorf("author with id %d does not exist: %w",
					authorID, authorModel.ErrAuthorNotFound)
			}
			return fmt.Errorf("failed to link author %d: %w", authorID, err)
		}
	}

	return nil
}

const aggregateQuery = `
        SELECT b.id, b.title, b.price, b.status, a.id, a.name, a.birth_date
        FROM books b
        LEFT JOIN book_authors ba ON b.id = ba.book_id
        LEFT JOIN authors a ON ba.author_id = a.id
        WHERE b.id = $1
        ORDER BY a.id
    `

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	cacheKey := fmt.Sprintf("%s%d", bookCacheKeyPrefix, id)

	var cached model.Book
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	rows, err := r.pool.Query(ctx, aggregateQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}
	defer rows.Close()

	books, err := scanAggregates(rows)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, model.ErrBookNotFound
	}

	book := &books[0]
	_ = r.cache.Set(ctx, cacheKey, book, cacheTTL)

	return book, nil
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, authorID int64) ([]model.Book, error) {
	cacheKey := fmt.Sprintf("%s%d", booksByAuthorKeyPrefix, authorID)

	var cached []model.Book
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return cached, nil
	}

	// The subquery keeps the full author list on each returned book
	// instead of filtering the join down to the requested author.
	const query = `
        SELECT b.id, b.title, b.price, b.status, a.id, a.name, a.birth_date
        FROM books b
        JOIN book_authors ba ON b.id = ba.book_id
        JOIN authors a ON ba.author_id = a.id
        WHERE b.id IN (SELECT book_id FROM book_authors WHERE author_id = $1)
        ORDER BY b.id, a.id
    `

	rows, err := r.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query books by author: %w", err)
	}
	defer rows.Close()

	books, err := scanAggregates(rows)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []model.Book{}
	}

	_ = r.cache.Set(ctx, cacheKey, books, cacheTTL)

	return books, nil
}

func (r *postgresRepository) Replace(ctx context.Context, id int64, title string, price decimal.Decimal, status model.BookStatus, authorIDs []int64) (*model.Book, error) {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		const updateBook = `
            UPDATE books
            SET title = $1, price = $2, status = $3
            WHERE id = $4
        `

		tag, err := tx.Exec(ctx, updateBook, title, price, status, id)
		if err != nil {
			return fmt.Errorf("failed to update book: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrBookNotFound
		}

		const deleteAssoc = `DELETE FROM book_authors WHERE book_id = $1`
		if _, err := tx.Exec(ctx, deleteAssoc, id); err != nil {
			return fmt.Errorf("failed to clear book authors: %w", err)
		}

		return insertAssociations(ctx, tx, id, authorIDs)
	})
	if err != nil {
		return nil, err
	}

	r.invalidateBookCache(ctx, id)
	r.invalidateListCaches(ctx)

	return r.GetByID(ctx, id)
}

func (r *postgresRepository) ExistsByTitleAndAuthors(ctx context.Context, title string, authorIDs []int64) (bool, error) {
	const candidateQuery = `SELECT id FROM books WHERE title = $1`

	rows, err := r.pool.Query(ctx, candidateQuery, title)
	if err != nil {
		return false, fmt.Errorf("failed to query books by title: %w", err)
	}

	var candidateIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return false, fmt.Errorf("failed to scan candidate book id: %w", err)
		}
		candidateIDs = append(candidateIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("error iterating candidate books: %w", err)
	}

	if len(candidateIDs) == 0 {
		return false, nil
	}

	const assocQuery = `
        SELECT book_id, author_id
        FROM book_authors
        WHERE book_id = ANY($1)
    `

	assocRows, err := r.pool.Query(ctx, assocQuery, candidateIDs)
	if err != nil {
		return false, fmt.Errorf("failed to query candidate author sets: %w", err)
	}
	defer assocRows.Close()

	authorSets := make(map[int64]map[int64]struct{}, len(candidateIDs))
	for assocRows.Next() {
		var bookID, authorID int64
		if err := assocRows.Scan(&bookID, &authorID); err != nil {
			return false, fmt.Errorf("failed to scan association row: %w", err)
		}
		set, ok := authorSets[bookID]
		if !ok {
			set = make(map[int64]struct{})
			authorSets[bookID] = set
		}
		set[authorID] = struct{}{}
	}
	if err := assocRows.Err(); err != nil {
		return false, fmt.Errorf("error iterating association rows: %w", err)
	}

	wanted := make(map[int64]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		wanted[id] = struct{}{}
	}

	for _, candidateID := range candidateIDs {
		set := authorSets[candidateID]
		// Cardinality is a cheap pre-filter before the set comparison.
		if len(set) != len(wanted) {
			continue
		}
		if equalSets(set, wanted) {
			return true, nil
		}
	}

	return false, nil
}

func equalSets(a, b map[int64]struct{}) bool {
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// scanAggregates groups join rows per book id, preserving row order.
func scanAggregates(rows pgx.Rows) ([]model.Book, error) {
	var books []model.Book
	index := make(map[int64]int)

	for rows.Next() {
		var (
			bookID int64
			title  string
			price  decimal.Decimal
			status model.BookStatus

			// The author columns come from a left join and can be NULL.
			authorID  pgtype.Int8
			name      pgtype.Text
			birthDate pgtype.Date
		)

		if err := rows.Scan(&bookID, &title, &price, &status, &authorID, &name, &birthDate); err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}

		pos, ok := index[bookID]
		if !ok {
			books = append(books, model.Book{
				ID:      bookID,
				Title:   title,
				Price:   price,
				Status:  status,
				Authors: []authorModel.Author{},
			})
			pos = len(books) - 1
			index[bookID] = pos
		}

		if authorID.Valid {
			books[pos].Authors = append(books[pos].Authors, authorModel.Author{
				ID:        authorID.Int64,
				Name:      name.String,
				BirthDate: birthDate.Time,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating book rows: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) invalidateBookCache(ctx context.Context, id int64) {
	_ = r.cache.Delete(ctx, fmt.Sprintf("%s%d", bookCacheKeyPrefix, id))
}

func (r *postgresRepository) invalidateListCaches(ctx context.Context) {
	_ = r.cache.DeletePattern(ctx, booksByAuthorKeyPrefix+"*")
}

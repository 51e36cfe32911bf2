package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libratrack-backend/internal/domains/author/model"
	bookModel "libratrack-backend/internal/domains/book/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthorService is a function-field test double.
type fakeAuthorService struct {
	CreateFunc func(ctx context.Context, name string, birthDate time.Time) (*model.Author, error)
	UpdateFunc func(ctx context.Context, id int64, name string, birthDate time.Time) (*model.Author, error)
}

func (f *fakeAuthorService) Create(ctx context.Context, name string, birthDate time.Time) (*model.Author, error) {
	return f.CreateFunc(ctx, name, birthDate)
}

func (f *fakeAuthorService) Update(ctx context.Context, id int64, name string, birthDate time.Time) (*model.Author, error) {
	return f.UpdateFunc(ctx, id, name, birthDate)
}

// fakeBookService covers the author-scoped listing endpoint.
type fakeBookService struct {
	ListByAuthorFunc func(ctx context.Context, authorID int64) ([]bookModel.Book, error)
}

func (f *fakeBookService) Create(ctx context.Context, req *bookModel.CreateBookRequest) (*bookModel.Book, error) {
	panic("not used")
}

func (f *fakeBookService) Update(ctx context.Context, req *bookModel.UpdateBookRequest) (*bookModel.Book, error) {
	panic("not used")
}

func (f *fakeBookService) GetByID(ctx context.Context, id int64) (*bookModel.Book, error) {
	panic("not used")
}

func (f *fakeBookService) ListByAuthor(ctx context.Context, authorID int64) ([]bookModel.Book, error) {
	return f.ListByAuthorFunc(ctx, authorID)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRouter(authors *fakeAuthorService, books *fakeBookService) *gin.Engine {
	h := NewHandler(authors, books)

	router := gin.New()
	router.POST("/authors", h.Create)
	router.PUT("/authors", h.Update)
	router.GET("/authors/:id/books", h.ListBooks)
	return router
}

func perform(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestCreateAuthor(t *testing.T) {
	t.Parallel()

	t.Run("returns 200 with the stored author", func(t *testing.T) {
		t.Parallel()

		born := time.Date(1965, 7, 31, 0, 0, 0, 0, time.UTC)
		authors := &fakeAuthorService{
			CreateFunc: func(ctx context.Context, name string, birthDate time.Time) (*model.Author, error) {
				assert.Equal(t, born, birthDate)
				return &model.Author{ID: 7, Name: name, BirthDate: birthDate}, nil
			},
		}

		router := newRouter(authors, &fakeBookService{})
		rec, env := perform(t, router, http.MethodPost, "/authors",
			`{"name":"Joanne Rowling","birthDate":"1965-07-31"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)

		var resp model.AuthorResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, "1965-07-31", resp.BirthDate)
	})

	t.Run("duplicate pair yields 400 DUPLICATE_AUTHOR", func(t *testing.T) {
		t.Parallel()

		authors := &fakeAuthorService{
			CreateFunc: func(ctx context.Context, name string, birthDate time.Time) (*model.Author, error) {
				return nil, model.ErrDuplicateAuthor
			},
		}

		router := newRouter(authors, &fakeBookService{})
		rec, env := perform(t, router, http.MethodPost, "/authors",
			`{"name":"Joanne Rowling","birthDate":"1965-07-31"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "DUPLICATE_AUTHOR", env.Error.Code)
	})

	t.Run("future birth date yields 400 VALIDATION_ERROR", func(t *testing.T) {
		t.Parallel()

		authors := &fakeAuthorService{
			CreateFunc: func(ctx context.Context, name string, birthDate time.Time) (*model.Author, error) {
				t.Fatal("service must not run on invalid input")
				return nil, nil
			},
		}

		future := time.Now().AddDate(1, 0, 0).Format(model.DateLayout)
		router := newRouter(authors, &fakeBookService{})
		rec, env := perform(t, router, http.MethodPost, "/authors",
			`{"name":"Joanne Rowling","birthDate":"`+future+`"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})
}

func TestUpdateAuthor(t *testing.T) {
	t.Parallel()

	t.Run("unknown id yields 404 AUTHOR_NOT_FOUND", func(t *testing.T) {
		t.Parallel()

		authors := &fakeAuthorService{
			UpdateFunc: func(ctx context.Context, id int64, name string, birthDate time.Time) (*model.Author, error) {
				return nil, model.ErrAuthorNotFound
			},
		}

		router := newRouter(authors, &fakeBookService{})
		rec, env := perform(t, router, http.MethodPut, "/authors",
			`{"id":99,"name":"Joanne Rowling","birthDate":"1965-07-31"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "AUTHOR_NOT_FOUND", env.Error.Code)
	})

	t.Run("returns 200 with the updated author", func(t *testing.T) {
		t.Parallel()

		authors := &fakeAuthorService{
			UpdateFunc: func(ctx context.Context, id int64, name string, birthDate time.Time) (*model.Author, error) {
				return &model.Author{ID: id, Name: name, BirthDate: birthDate}, nil
			},
		}

		router := newRouter(authors, &fakeBookService{})
		rec, env := perform(t, router, http.MethodPut, "/authors",
			`{"id":7,"name":"J. K. Rowling","birthDate":"1965-07-31"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)
	})
}

func TestListBooks(t *testing.T) {
	t.Parallel()

	t.Run("non-numeric id yields 400", func(t *testing.T) {
		t.Parallel()

		router := newRouter(&fakeAuthorService{}, &fakeBookService{})
		rec, env := perform(t, router, http.MethodGet, "/authors/abc/books", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("unknown author yields 404", func(t *testing.T) {
		t.Parallel()

		books := &fakeBookService{
			ListByAuthorFunc: func(ctx context.Context, authorID int64) ([]bookModel.Book, error) {
				return nil, model.ErrAuthorNotFound
			},
		}

		router := newRouter(&fakeAuthorService{}, books)
		rec, env := perform(t, router, http.MethodGet, "/authors/99/books", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "AUTHOR_NOT_FOUND", env.Error.Code)
	})

	t.Run("author without books yields an empty list", func(t *testing.T) {
		t.Parallel()

		books := &fakeBookService{
			ListByAuthorFunc: func(ctx context.Context, authorID int64) ([]bookModel.Book, error) {
				return []bookModel.Book{}, nil
			},
		}

		router := newRouter(&fakeAuthorService{}, books)
		rec, env := perform(t, router, http.MethodGet, "/authors/7/books", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, string(env.Data))
	})
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorModel "libratrack-backend/internal/domains/author/model"
	"libratrack-backend/internal/domains/book/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeService is a function-field test double for the book service.
type fakeService struct {
	CreateFunc       func(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error)
	UpdateFunc       func(ctx context.Context, req *model.UpdateBookRequest) (*model.Book, error)
	GetByIDFunc      func(ctx context.Context, id int64) (*model.Book, error)
	ListByAuthorFunc func(ctx context.Context, authorID int64) ([]model.Book, error)
}

func (f *fakeService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	return f.CreateFunc(ctx, req)
}

func (f *fakeService) Update(ctx context.Context, req *model.UpdateBookRequest) (*model.Book, error) {
	return f.UpdateFunc(ctx, req)
}

func (f *fakeService) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeService) ListByAuthor(ctx context.Context, authorID int64) ([]model.Book, error) {
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

func newRouter(svc *fakeService) *gin.Engine {
	h := NewHandler(svc)

	router := gin.New()
	router.POST("/books", h.Create)
	router.PUT("/books", h.Update)
	router.GET("/books/:id", h.GetByID)
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

func sampleBook() *model.Book {
	return &model.Book{
		ID:     5,
		Title:  "Dune",
		Price:  decimal.RequireFromString("19.99"),
		Status: model.BookStatusPublished,
		Authors: []authorModel.Author{
			{ID: 1, Name: "Isaac Asimov"},
		},
	}
}

func TestCreateBook(t *testing.T) {
	t.Parallel()

	const validBody = `{"title":"Dune","price":"19.99","status":"published","authorIds":[1]}`

	t.Run("returns 200 with the stored aggregate", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			CreateFunc: func(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
				assert.Equal(t, []int64{1}, req.AuthorIDs)
				return sampleBook(), nil
			},
		}

		rec, env := perform(t, newRouter(svc), http.MethodPost, "/books", validBody)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)

		var resp model.BookResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, int64(5), resp.ID)
		assert.Equal(t, "published", resp.Status)
	})

	t.Run("dangling author reference yields 400 AUTHOR_NOT_FOUND", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			CreateFunc: func(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
				return nil, authorModel.ErrAuthorNotFound
			},
		}

		rec, env := perform(t, newRouter(svc), http.MethodPost, "/books", validBody)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "AUTHOR_NOT_FOUND", env.Error.Code)
	})

	t.Run("duplicate title and author set yields 400 DUPLICATE_BOOK", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			CreateFunc: func(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
				return nil, model.ErrDuplicateBook
			},
		}

		rec, env := perform(t, newRouter(svc), http.MethodPost, "/books", validBody)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "DUPLICATE_BOOK", env.Error.Code)
	})

	t.Run("failed reload yields 500 SYSTEM_ERROR", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			CreateFunc: func(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
				return nil, model.ErrBookReload
			},
		}

		rec, env := perform(t, newRouter(svc), http.MethodPost, "/books", validBody)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "SYSTEM_ERROR", env.Error.Code)
	})

	t.Run("empty author list yields 400 VALIDATION_ERROR", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			CreateFunc: func(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
				t.Fatal("service must not run on invalid input")
				return nil, nil
			},
		}

		rec, env := perform(t, newRouter(svc), http.MethodPost, "/books",
			`{"title":"Dune","price":"19.99","status":"published","authorIds":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})
}

func TestUpdateBook(t *testing.T) {
	t.Parallel()

	const validBody = `{"id":5,"title":"Dune","price":"19.99","status":"unpublished","authorIds":[1]}`

	t.Run("unknown book yields 404 BOOK_NOT_FOUND", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			UpdateFunc: func(ctx context.Context, req *model.UpdateBookRequest) (*model.Book, error) {
				return nil, model.ErrBookNotFound
			},
		}

		rec, env := perform(t, newRouter(svc), http.MethodPut, "/books", validBody)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "BOOK_NOT_FOUND", env.Error.Code)
	})

	t.Run("forbidden status transition yields 400 INVALID_STATUS", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			UpdateFunc: func(ctx context.Context, req *model.UpdateBookRequest) (*model.Book, error) {
				return nil, model.ErrInvalidStatusTransition
			},
		}

		rec, env := perform(t, newRouter(svc), http.MethodPut, "/books", validBody)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_STATUS", env.Error.Code)
	})
}

func TestGetBookByID(t *testing.T) {
	t.Parallel()

	t.Run("unknown id yields 404", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			GetByIDFunc: func(ctx context.Context, id int64) (*model.Book, error) {
				return nil, model.ErrBookNotFound
			},
		}

		rec, env := perform(t, newRouter(svc), http.MethodGet, "/books/99", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "BOOK_NOT_FOUND", env.Error.Code)
	})

	t.Run("returns the aggregate", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			GetByIDFunc: func(ctx context.Context, id int64) (*model.Book, error) {
				return sampleBook(), nil
			},
		}

		rec, env := perform(t, newRouter(svc), http.MethodGet, "/books/5", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)
	})
}

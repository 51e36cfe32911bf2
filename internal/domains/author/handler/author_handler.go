package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"libratrack-backend/internal/domains/author/model"
	"libratrack-backend/internal/domains/author/service"
	bookModel "libratrack-backend/internal/domains/book/model"
	bookService "libratrack-backend/internal/domains/book/service"
	"libratrack-backend/internal/shared/response"
)

// Handler serves the author endpoints, including the author-scoped
// book listing.
type Handler struct {
	authors service.Service
	books   bookService.Service
}

// NewHandler - Constructor with DI
func NewHandler(authors service.Service, books bookService.Service) *Handler {
	return &Handler{
		authors: authors,
		books:   books,
	}
}

// Create - POST /authors
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ValidationError(c, validationDetails(err))
		return
	}

	birthDate, err := req.ParsedBirthDate()
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "birth date must be in yyyy-mm-dd format")
		return
	}

	author, err := h.authors.Create(c.Request.Context(), req.Name, birthDate)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateAuthor) {
			response.ErrorResponse(c, http.StatusBadRequest, model.ToErrorCode(err), err.Error())
			return
		}
		response.InternalServerError(c, "failed to create author")
		return
	}

	response.Success(c, http.StatusOK, author.ToResponse())
}

// Update - PUT /authors
// The target id travels in the body, not the path.
func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ValidationError(c, validationDetails(err))
		return
	}

	birthDate, err := req.ParsedBirthDate()
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "birth date must be in yyyy-mm-dd format")
		return
	}

	author, err := h.authors.Update(c.Request.Context(), req.ID, req.Name, birthDate)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAuthorNotFound):
			response.ErrorResponse(c, http.StatusNotFound, model.ToErrorCode(err), err.Error())
		case errors.Is(err, model.ErrDuplicateAuthor):
			response.ErrorResponse(c, http.StatusBadRequest, model.ToErrorCode(err), err.Error())
		default:
			response.InternalServerError(c, "failed to update author")
		}
		return
	}

	response.Success(c, http.StatusOK, author.ToResponse())
}

// ListBooks - GET /authors/:id/books
func (h *Handler) ListBooks(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "author id must be a positive integer")
		return
	}

	books, err := h.books.ListByAuthor(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrAuthorNotFound) {
			response.ErrorResponse(c, http.StatusNotFound, model.ToErrorCode(err), err.Error())
			return
		}
		response.InternalServerError(c, "failed to list books")
		return
	}

	response.Success(c, http.StatusOK, bookModel.ToResponseList(books))
}

// validationDetails flattens ozzo's error map into a field -> message
// shape suitable for the error envelope.
func validationDetails(err error) interface{} {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for field, ferr := range verrs {
			details[field] = ferr.Error()
		}
		return details
	}
	return err.Error()
}

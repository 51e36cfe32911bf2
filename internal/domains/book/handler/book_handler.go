package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	authorModel "libratrack-backend/internal/domains/author/model"
	"libratrack-backend/internal/domains/book/model"
	"libratrack-backend/internal/domains/book/service"
	"libratrack-backend/internal/shared/response"
)

// Handler serves the book endpoints.
type Handler struct {
	service service.Service
}

// NewHandler - Constructor with DI
func NewHandler(service service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Create - POST /books
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ValidationError(c, validationDetails(err))
		return
	}

	book, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		// A dangling author reference on a write is a bad request,
		// not a missing resource.
		case errors.Is(err, authorModel.ErrAuthorNotFound),
			errors.Is(err, model.ErrDuplicateBook):
			response.ErrorResponse(c, http.StatusBadRequest, model.ToErrorCode(err), err.Error())
		default:
			response.InternalServerError(c, "failed to create book")
		}
		return
	}

	response.Success(c, http.StatusOK, book.ToResponse())
}

// Update - PUT /books
// The target id travels in the body, not the path.
func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ValidationError(c, validationDetails(err))
		return
	}

	book, err := h.service.Update(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrBookNotFound):
			response.ErrorResponse(c, http.StatusNotFound, model.ToErrorCode(err), err.Error())
		case errors.Is(err, model.ErrInvalidStatusTransition),
			errors.Is(err, authorModel.ErrAuthorNotFound):
			response.ErrorResponse(c, http.StatusBadRequest, model.ToErrorCode(err), err.Error())
		default:
			response.InternalServerError(c, "failed to update book")
		}
		return
	}

	response.Success(c, http.StatusOK, book.ToResponse())
}

// GetByID - GET /books/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "book id must be a positive integer")
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			response.ErrorResponse(c, http.StatusNotFound, model.ToErrorCode(err), err.Error())
			return
		}
		response.InternalServerError(c, "failed to load book")
		return
	}

	response.Success(c, http.StatusOK, book.ToResponse())
}

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

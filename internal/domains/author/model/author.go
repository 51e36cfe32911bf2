package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateLayout is the wire format for birth dates.
const DateLayout = "2006-01-02"

// Author is the domain entity. The id is a surrogate key assigned by
// the store on insert and immutable afterwards.
type Author struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	BirthDate time.Time `json:"birth_date" db:"birth_date"`
}

// CreateAuthorRequest - POST /authors
type CreateAuthorRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
}

// Validate aggregates every field violation instead of failing on the first.
func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.BirthDate,
			validation.Required.Error("birth date is required"),
			validation.Date(DateLayout).Error("birth date must be in yyyy-mm-dd format"),
			validation.By(pastDate),
		),
	)
}

// pastDate requires the date to be strictly before today: a birth date
// of today is not in the past.
func pastDate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("birth date must be a string")
	}

	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		// The format rule reports malformed input.
		return nil
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !parsed.Before(today) {
		return errors.New("birth date must be in the past")
	}

	return nil
}

// ParsedBirthDate converts the validated wire value to a time.Time.
func (r CreateAuthorRequest) ParsedBirthDate() (time.Time, error) {
	return time.Parse(DateLayout, r.BirthDate)
}

// UpdateAuthorRequest - PUT /authors
// Full replace: every mutable field must be supplied.
type UpdateAuthorRequest struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID,
			validation.Required.Error("id is required"),
			validation.Min(int64(1)).Error("id must be positive"),
		),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.BirthDate,
			validation.Required.Error("birth date is required"),
			validation.Date(DateLayout).Error("birth date must be in yyyy-mm-dd format"),
		),
	)
}

func (r UpdateAuthorRequest) ParsedBirthDate() (time.Time, error) {
	return time.Parse(DateLayout, r.BirthDate)
}

// AuthorResponse shapes an author for the API; the birth date goes out
// as a plain yyyy-mm-dd string.
type AuthorResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
}

// ToResponse converts Author to AuthorResponse.
func (a *Author) ToResponse() *AuthorResponse {
	return &AuthorResponse{
		ID:        a.ID,
		Name:      a.Name,
		BirthDate: a.BirthDate.Format(DateLayout),
	}
}

package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/aiclient"
	"github.com/jonathan/resume-studio/internal/builder"
	"github.com/jonathan/resume-studio/internal/resumes"
	"github.com/jonathan/resume-studio/internal/schemas"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// AI service rejections keep their upstream status so the caller sees
// the same code the service returned.
func HTTPStatus(err error) int {
	var rejected *aiclient.RequestRejected
	if errors.As(err, &rejected) {
		return rejected.StatusCode
	}
	var netErr *aiclient.NetworkError
	if errors.As(err, &netErr) {
		return http.StatusBadGateway
	}
	var malformed *aiclient.MalformedResponse
	if errors.As(err, &malformed) {
		return http.StatusBadGateway
	}
	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		return http.StatusUnprocessableEntity
	}
	var photoSize *builder.ErrPhotoTooLarge
	if errors.As(err, &photoSize) {
		return http.StatusRequestEntityTooLarge
	}
	var photoType *builder.ErrPhotoNotImage
	if errors.As(err, &photoType) {
		return http.StatusUnsupportedMediaType
	}

	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrUserNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	case *builder.ErrSessionNotFound:
		return http.StatusNotFound
	case *resumes.ErrRecordNotFound:
		return http.StatusNotFound
	case *resumes.ErrNotSignedIn:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

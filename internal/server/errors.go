// Package server provides the HTTP REST API for the scoring service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/scoring"
)

// ErrResumeNotFound indicates the referenced resume does not exist.
type ErrResumeNotFound struct {
	ID int64
}

func (e *ErrResumeNotFound) Error() string {
	return fmt.Sprintf("resume not found: %d", e.ID)
}

// ErrJobNotFound indicates the referenced job does not exist.
type ErrJobNotFound struct {
	ID int64
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %d", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *scoring.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}

	switch err.(type) {
	case *ErrResumeNotFound, *ErrJobNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

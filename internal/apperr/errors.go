// Package apperr defines the error kinds the HTTP layer knows how to translate.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound matches any NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationError reports a request that failed input checks. It carries one
// message per violation.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NotFoundError reports that no row matches the requested key.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DataAccessError wraps a store failure that is not otherwise classified.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access (%s): %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// Validation builds a ValidationError from messages.
func Validation(messages ...string) error {
	return &ValidationError{Messages: messages}
}

// NotFound builds a NotFoundError.
func NotFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// DataAccess wraps err as a DataAccessError. A nil err stays nil.
func DataAccess(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Err: err}
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	var validationErr *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

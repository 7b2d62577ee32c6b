package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidBody     = "Invalid request body"
	msgMissingFields   = "Missing required fields"
	msgAddEventFailed  = "Failed to add event"
	msgEventAdded      = "Event added successfully"
	msgDBNotConfigured = "database is not configured"
)

// ErrorKind classifies why a request failed.
type ErrorKind int

const (
	ValidationError ErrorKind = iota + 1
	ConfigurationError
	PersistenceError
)

func (k ErrorKind) String() string {
	switch k {
	case ValidationError:
		return "validation"
	case ConfigurationError:
		return "configuration"
	case PersistenceError:
		return "persistence"
	default:
		return "unknown"
	}
}

// RequestError carries the client facing message of a failed request and
// the underlying cause, if any.
type RequestError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusCode maps the error kind to an HTTP status.
func (e *RequestError) StatusCode() int {
	if e.Kind == ValidationError {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func validationError(msg string) *RequestError {
	return &RequestError{Kind: ValidationError, Message: msg}
}

func configurationError(msg string, err error) *RequestError {
	return &RequestError{Kind: ConfigurationError, Message: msg, Err: err}
}

// persistenceError exposes the cause's message, falling back to a generic one.
func persistenceError(err error) *RequestError {
	msg := msgAddEventFailed
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &RequestError{Kind: PersistenceError, Message: msg, Err: err}
}

// writeError renders err as {"error": message}. Errors that are not a
// RequestError are treated as persistence failures.
func writeError(c *gin.Context, err error) {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		reqErr = persistenceError(err)
	}
	c.JSON(reqErr.StatusCode(), gin.H{"error": reqErr.Message})
}

package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jpl-au/docver/internal/metadata"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
	"github.com/jpl-au/docver/internal/validate"
)

// Error is an error with the HTTP status it maps to. Message is what the
// client sees; Err is logged.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// BadRequest reports a client error with msg as the response.
func BadRequest(msg string, err error) *Error {
	return &Error{Code: http.StatusBadRequest, Message: msg, Err: err}
}

// NotFound reports a missing resource.
func NotFound(msg string, err error) *Error {
	return &Error{Code: http.StatusNotFound, Message: msg, Err: err}
}

// classify maps an error without an explicit status.
func classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	switch {
	case service.IsStoreError(err):
		return &Error{Code: http.StatusInternalServerError, Message: err.Error(), Err: err}
	case errors.Is(err, store.ErrDocumentNotFound):
		return NotFound("Document not found.", err)
	case errors.Is(err, store.ErrVersionNotFound):
		return NotFound("Version not found.", err)
	case errors.Is(err, validate.ErrInvalidDocID),
		errors.Is(err, validate.ErrDocIDTooLong),
		errors.Is(err, validate.ErrInvalidVersion),
		errors.Is(err, validate.ErrInvalidVoteType):
		return BadRequest(err.Error(), err)
	case errors.Is(err, validate.ErrExtension):
		return BadRequest("File type not allowed", err)
	case errors.Is(err, metadata.ErrNotObject):
		return BadRequest("Invalid JSON format for metadata", err)
	}
	return &Error{Code: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

// errorHandler turns the last handler error into a JSON {"error": msg}
// response.
func errorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		e := classify(c.Errors.Last().Err)
		if e.Code >= http.StatusInternalServerError {
			logger.Error("request failed", "path", c.FullPath(), "error", e)
		} else {
			logger.Info("request rejected", "path", c.FullPath(), "error", e)
		}
		c.AbortWithStatusJSON(e.Code, gin.H{"error": e.Message})
	}
}

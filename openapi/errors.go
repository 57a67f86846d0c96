package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rws/go-ishremote/transport"
)

// Error is a non-2xx OpenAPI response.
type Error struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type,omitempty"`
	Title      string `json:"title,omitempty"`
	Detail     string `json:"detail,omitempty"`
	TraceID    string `json:"traceId,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Title
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("openapi: %d %s", e.StatusCode, msg)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}

// asError converts a transport status error into *Error. Other errors are
// returned unchanged.
func asError(err error) error {
	var se *transport.StatusError
	if !errors.As(err, &se) {
		return err
	}
	e := &Error{StatusCode: se.StatusCode}
	if len(se.Body) > 0 {
		// A body that is not a problem document keeps only the status.
		_ = json.Unmarshal(se.Body, e)
	}
	return e
}

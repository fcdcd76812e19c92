package jira

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// maxErrorBody bounds how much of an upstream response body is carried
// inside an error message.
const maxErrorBody = 500

// APIError is a non-2xx response from the Jira REST API. The body is
// truncated so errors stay renderable as text.
type APIError struct {
	StatusCode int
	Op         string
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	return fmt.Sprintf("jira API error (%d) on %s: %s", e.StatusCode, e.Op, body)
}

// IsNotFound reports whether err is an APIError signalling an absent
// endpoint or resource (404 or 410). This is the only class of failure
// that triggers the legacy search fallback.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 404 || apiErr.StatusCode == 410
}

// TimeoutError reports that an operation exceeded the configured
// deadline. There is no automatic retry on timeout.
type TimeoutError struct {
	Op    string
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s on %s", e.Limit, e.Op)
}

// IsTimeout reports whether err (or any error in its chain) is a
// TimeoutError.
func IsTimeout(err error) bool {
	var tErr *TimeoutError
	return errors.As(err, &tErr)
}

// ResolutionError indicates that a caller-supplied identifier does not
// match any known value. The valid values are attached so the caller can
// self-correct without a second round trip.
type ResolutionError struct {
	Kind  string
	Value string
	Valid []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf(
		"unknown %s %q; valid values: %s",
		e.Kind, e.Value, strings.Join(e.Valid, ", "),
	)
}

// IsResolution reports whether err is a ResolutionError.
func IsResolution(err error) bool {
	var rErr *ResolutionError
	return errors.As(err, &rErr)
}

// ValidationError is structurally invalid input, rejected before any
// network call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Msg
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// validationf builds a ValidationError from a format string.
func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

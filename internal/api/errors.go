package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the upstream failure shapes the UI distinguishes.
var (
	// ErrInvalidReferral covers both the registration and coupon variants of
	// the upstream invalid-code rejection.
	ErrInvalidReferral = errors.New("invalid referral code")

	// ErrCourseNotFound is the upstream 404 for a course that disappeared
	// between catalog fetch and submission.
	ErrCourseNotFound = errors.New("course not found")
)

// Upstream error strings matched verbatim.
const (
	registerInvalidReferral = "Invalid referral code. Please check and try again."
	couponInvalidReferral   = "Invalid referral code."
	validationErrorTag      = "Validation error"
)

// ValidationError is an upstream 400 with structured field details,
// flattened into one readable string for the notification.
type ValidationError struct {
	Details string
}

func (e *ValidationError) Error() string { return e.Details }

// StatusError is any other non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// errorBody is the upstream error envelope: {error, message, details}.
// details is either a string or a map of field -> list of messages.
type errorBody struct {
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// decodeError maps a non-2xx body to the error taxonomy.
func decodeError(status int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	switch {
	case eb.Error == registerInvalidReferral || eb.Error == couponInvalidReferral:
		return ErrInvalidReferral
	case status == 404:
		return ErrCourseNotFound
	case eb.Error == validationErrorTag && len(eb.Details) > 0:
		return &ValidationError{Details: flattenDetails(eb.Details)}
	}

	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	return &StatusError{StatusCode: status, Message: msg}
}

// flattenDetails renders upstream validation details as one line. A plain
// string passes through; a field map becomes its messages joined by ", ".
func flattenDetails(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var fields map[string][]string
	if err := json.Unmarshal(raw, &fields); err == nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var msgs []string
		for _, k := range keys {
			msgs = append(msgs, fields[k]...)
		}
		return strings.Join(msgs, ", ")
	}
	return string(raw)
}

package learnsphere

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind classifies an API failure so callers can decide how to present it.
type Kind int

const (
	KindUnknown Kind = iota
	// KindUnauthorized is an expired or missing credential (HTTP 401).
	KindUnauthorized
	// KindForbidden is an authenticated caller lacking permission (HTTP 403).
	KindForbidden
	// KindValidation carries field level details for inline display.
	KindValidation
	KindNotFound
	KindConflict
	// KindRequest is any other 4xx.
	KindRequest
	KindServer
	// KindNetwork is a transport failure before any response was received.
	KindNetwork
	KindTimeout
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindUnauthorized: "unauthorized",
	KindForbidden:    "forbidden",
	KindValidation:   "validation",
	KindNotFound:     "not_found",
	KindConflict:     "conflict",
	KindRequest:      "request",
	KindServer:       "server",
	KindNetwork:      "network",
	KindTimeout:      "timeout",
}

// String returns kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// FieldError is a single field level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error represents a failed API call.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Details []FieldError
	// Method and Path identify the failed call.
	Method string
	Path   string
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var builder strings.Builder
	if e.Method != "" {
		builder.WriteString(e.Method + " " + e.Path + ": ")
	}
	builder.WriteString(e.Kind.String())
	if e.Status != 0 {
		builder.WriteString(fmt.Sprintf(" (status %d)", e.Status))
	}
	if e.Message != "" {
		builder.WriteString(": " + e.Message)
	} else if e.Cause != nil {
		builder.WriteString(": " + e.Cause.Error())
	}
	return builder.String()
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Field returns validation message for the field or empty string
func (e *Error) Field(name string) string {
	for _, detail := range e.Details {
		if detail.Field == name {
			return detail.Message
		}
	}
	return ""
}

type errorBody struct {
	Error *struct {
		Code    string       `json:"code"`
		Message string       `json:"message"`
		Details []FieldError `json:"details"`
	} `json:"error"`
	Message string `json:"message"`
}

// NewStatusError builds an Error from a non 2xx status code and raw response body.
func NewStatusError(status int, body []byte) *Error {
	ret := &Error{Kind: KindForStatus(status), Status: status}
	if len(body) == 0 {
		ret.Message = http.StatusText(status)
		return ret
	}
	decoded := &errorBody{}
	if err := json.Unmarshal(body, decoded); err != nil {
		ret.Message = strings.TrimSpace(string(body))
		return ret
	}
	switch {
	case decoded.Error != nil:
		ret.Code = decoded.Error.Code
		ret.Message = decoded.Error.Message
		ret.Details = decoded.Error.Details
	case decoded.Message != "":
		ret.Message = decoded.Message
	default:
		ret.Message = http.StatusText(status)
	}
	if ret.Kind == KindRequest && len(ret.Details) > 0 {
		ret.Kind = KindValidation
	}
	return ret
}

// NewTransportError wraps a failure that happened before a response was received.
func NewTransportError(err error) *Error {
	kind := KindNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Cause: err}
}

// KindForStatus maps HTTP status code to an error kind.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return KindTimeout
	case status >= 400 && status < 500:
		return KindRequest
	case status >= 500:
		return KindServer
	}
	return KindUnknown
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return KindUnknown
}

// IsForbidden returns true if err is or wraps a 403 Error.
func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}

// IsValidation returns true if err carries field level validation details.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsNotFound returns true if err is or wraps a 404 Error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsTemporary reports failures worth a "try again" message: network, timeout and server errors.
func IsTemporary(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindTimeout, KindServer:
		return true
	}
	return false
}

// Package core provides the shared types, DTOs and error taxonomy of the SDK.
package core

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrorType represents the type of error that occurred
type ErrorType string

const (
	// ErrorTypeInvalidArgument indicates a caller-side argument problem detected before any request is sent
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	// ErrorTypeInvalidRequest indicates a client error reported by the service (4xx)
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
	// ErrorTypeAuthentication indicates an authentication error (401/403)
	ErrorTypeAuthentication ErrorType = "authentication_error"
	// ErrorTypeNotFound indicates a not found error (404)
	ErrorTypeNotFound ErrorType = "not_found_error"
	// ErrorTypeRateLimit indicates a rate limit error (429)
	ErrorTypeRateLimit ErrorType = "rate_limit_error"
	// ErrorTypeServer indicates a service-side or transport failure (5xx)
	ErrorTypeServer ErrorType = "server_error"
)

// ErrInvalidArgument matches any APIError of type ErrorTypeInvalidArgument via errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// APIError is the error type returned by every client operation
type APIError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code,omitempty"`
	Code       string    `json:"code,omitempty"`
	Param      string    `json:"param,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	// Original error for debugging
	Err error `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports ErrInvalidArgument equality for locally rejected arguments.
func (e *APIError) Is(target error) bool {
	return target == ErrInvalidArgument && e.Type == ErrorTypeInvalidArgument
}

// HTTPStatusCode returns the status code the service answered with, or the
// conventional one for the error type.
func (e *APIError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeInvalidRequest, ErrorTypeInvalidArgument:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeServer:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether repeating the same request may succeed.
func (e *APIError) Retryable() bool {
	return e.Type == ErrorTypeRateLimit || e.Type == ErrorTypeServer
}

// NewInvalidArgumentError reports a missing or malformed argument named param.
func NewInvalidArgumentError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidArgument,
		Message: message,
		Param:   param,
	}
}

// RequireID rejects an empty identifier argument.
func RequireID(param, value string) error {
	if value == "" {
		return NewInvalidArgumentError(param, param+" is required")
	}
	return nil
}

// RequireNotNil rejects a nil entity argument.
func RequireNotNil[T any](param string, value *T) error {
	if value == nil {
		return NewInvalidArgumentError(param, param+" must not be nil")
	}
	return nil
}

// NewServerError creates a new server-side or transport error
func NewServerError(statusCode int, message string, err error) *APIError {
	return &APIError{
		Type:       ErrorTypeServer,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// NewRateLimitError creates a new rate limit error (429)
func NewRateLimitError(message string) *APIError {
	return &APIError{
		Type:       ErrorTypeRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

// NewInvalidRequestError creates a new invalid request error (400)
func NewInvalidRequestError(message string, err error) *APIError {
	return NewInvalidRequestErrorWithStatus(http.StatusBadRequest, message, err)
}

// NewInvalidRequestErrorWithStatus creates a new invalid request error with a specific status code
func NewInvalidRequestErrorWithStatus(statusCode int, message string, err error) *APIError {
	return &APIError{
		Type:       ErrorTypeInvalidRequest,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// NewAuthenticationError creates a new authentication error (401)
func NewAuthenticationError(statusCode int, message string) *APIError {
	return &APIError{
		Type:       ErrorTypeAuthentication,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewNotFoundError creates a new not found error (404)
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// ParseAPIError turns a non-2xx response into an APIError. The standard
// {"error":{"message","type","code","param"}} envelope is read when present;
// otherwise the raw body becomes the message.
func ParseAPIError(statusCode int, body []byte, requestID string) *APIError {
	message := string(body)
	var code, param string
	if gjson.ValidBytes(body) {
		envelope := gjson.GetBytes(body, "error")
		if msg := envelope.Get("message").String(); msg != "" {
			message = msg
		}
		code = envelope.Get("code").String()
		param = envelope.Get("param").String()
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}

	var apiErr *APIError
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		apiErr = NewAuthenticationError(statusCode, message)
	case statusCode == http.StatusNotFound:
		apiErr = NewNotFoundError(message)
	case statusCode == http.StatusTooManyRequests:
		apiErr = NewRateLimitError(message)
	case statusCode >= 400 && statusCode < 500:
		apiErr = NewInvalidRequestErrorWithStatus(statusCode, message, nil)
	default:
		apiErr = NewServerError(statusCode, message, nil)
	}
	apiErr.Code = code
	apiErr.Param = param
	apiErr.RequestID = requestID
	return apiErr
}

package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name:     "error with param",
			err:      NewInvalidArgumentError("thread_id", "thread_id is required"),
			expected: "invalid_argument: thread_id is required (param: thread_id)",
		},
		{
			name: "error without param",
			err: &APIError{
				Type:    ErrorTypeInvalidRequest,
				Message: "bad request",
			},
			expected: "invalid_request_error: bad request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	apiErr := NewServerError(http.StatusBadGateway, "wrapped error", originalErr)

	if unwrapped := apiErr.Unwrap(); unwrapped != originalErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, originalErr)
	}
	if !errors.Is(apiErr, originalErr) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestAPIError_IsInvalidArgument(t *testing.T) {
	err := fmt.Errorf("get run: %w", RequireID("run_id", ""))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}

	remote := NewInvalidRequestError("bad file", nil)
	if errors.Is(remote, ErrInvalidArgument) {
		t.Error("service-side 400 must not match ErrInvalidArgument")
	}
}

func TestRequireHelpers(t *testing.T) {
	if err := RequireID("id", "abc"); err != nil {
		t.Errorf("RequireID() unexpected error: %v", err)
	}

	var thread *Thread
	err := RequireNotNil("thread", thread)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Param != "thread" {
		t.Errorf("Param = %q, want thread", apiErr.Param)
	}
	if err := RequireNotNil("thread", &Thread{}); err != nil {
		t.Errorf("RequireNotNil() unexpected error: %v", err)
	}
}

func TestAPIError_HTTPStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected int
	}{
		{"explicit status code", &APIError{Type: ErrorTypeServer, StatusCode: http.StatusServiceUnavailable}, http.StatusServiceUnavailable},
		{"rate limit default", &APIError{Type: ErrorTypeRateLimit}, http.StatusTooManyRequests},
		{"invalid argument default", &APIError{Type: ErrorTypeInvalidArgument}, http.StatusBadRequest},
		{"authentication default", &APIError{Type: ErrorTypeAuthentication}, http.StatusUnauthorized},
		{"not found default", &APIError{Type: ErrorTypeNotFound}, http.StatusNotFound},
		{"server default", &APIError{Type: ErrorTypeServer}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatusCode(); got != tt.expected {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestParseAPIError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantType  ErrorType
		wantMsg   string
		wantCode  string
		wantParam string
		retryable bool
	}{
		{
			name:      "invalid training file",
			status:    http.StatusBadRequest,
			body:      `{"error":{"message":"invalid training_file: Invalid File Name","type":"invalid_request_error","param":"training_file","code":"invalid_value"}}`,
			wantType:  ErrorTypeInvalidRequest,
			wantMsg:   "invalid training_file: Invalid File Name",
			wantCode:  "invalid_value",
			wantParam: "training_file",
		},
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"error":{"message":"Incorrect API key provided"}}`,
			wantType: ErrorTypeAuthentication,
			wantMsg:  "Incorrect API key provided",
		},
		{
			name:     "not found",
			status:   http.StatusNotFound,
			body:     `{"error":{"message":"No thread found with id 'thread_x'."}}`,
			wantType: ErrorTypeNotFound,
			wantMsg:  "No thread found with id 'thread_x'.",
		},
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			body:      `{"error":{"message":"slow down"}}`,
			wantType:  ErrorTypeRateLimit,
			wantMsg:   "slow down",
			retryable: true,
		},
		{
			name:      "plain text upstream failure",
			status:    http.StatusBadGateway,
			body:      "upstream connect error",
			wantType:  ErrorTypeServer,
			wantMsg:   "upstream connect error",
			retryable: true,
		},
		{
			name:      "empty body",
			status:    http.StatusServiceUnavailable,
			body:      "",
			wantType:  ErrorTypeServer,
			wantMsg:   "Service Unavailable",
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseAPIError(tt.status, []byte(tt.body), "req_1")
			if err.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", err.Type, tt.wantType)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", err.Code, tt.wantCode)
			}
			if err.Param != tt.wantParam {
				t.Errorf("Param = %q, want %q", err.Param, tt.wantParam)
			}
			if err.HTTPStatusCode() != tt.status {
				t.Errorf("HTTPStatusCode() = %d, want %d", err.HTTPStatusCode(), tt.status)
			}
			if err.RequestID != "req_1" {
				t.Errorf("RequestID = %q, want req_1", err.RequestID)
			}
			if err.Retryable() != tt.retryable {
				t.Errorf("Retryable() = %v, want %v", err.Retryable(), tt.retryable)
			}
		})
	}
}

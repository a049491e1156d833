package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodeConfig, Message: "invalid configuration"},
			expected: "[CONFIG_ERROR] invalid configuration",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeExternalTool, "ip netns add ns_r1", errors.New("exit status 1")),
			expected: "[EXTERNAL_TOOL_ERROR] ip netns add ns_r1: exit status 1",
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

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeConfig, Message: "test error"}
	err2 := &Error{Code: ErrCodeConfig, Message: "another error"}
	err3 := &Error{Code: ErrCodeValidation, Message: "validation error"}

	if !err1.Is(err2) {
		t.Errorf("Expected errors with same code to match")
	}

	if err1.Is(err3) {
		t.Errorf("Expected errors with different codes to not match")
	}
}

func TestError_IsWithReason(t *testing.T) {
	running := Derive(ErrAlreadyRunning, "router r1 is already running", nil)
	wrapped := fmt.Errorf("start: %w", running)

	if !errors.Is(wrapped, ErrAlreadyRunning) {
		t.Error("Expected derived error to match its sentinel")
	}
	if !errors.Is(wrapped, New(ErrCodeConflict, "")) {
		t.Error("Expected derived error to match a reason-less target with the same code")
	}
	if errors.Is(wrapped, ErrAlreadyExists) {
		t.Error("Expected different reasons with the same code to not match")
	}
	if errors.Is(wrapped, ErrNotRunning) {
		t.Error("Expected different codes to not match")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"domain error", NewNotFoundError("router r1", nil), ErrCodeNotFound},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewStateError("x", nil)), ErrCodeState},
		{"plain error", errors.New("boom"), ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		name string
		err  *Error
		code ErrorCode
	}{
		{"validation", NewValidationError("m", cause), ErrCodeValidation},
		{"not found", NewNotFoundError("m", cause), ErrCodeNotFound},
		{"conflict", NewConflictError("m", cause), ErrCodeConflict},
		{"external tool", NewExternalToolError("m", cause), ErrCodeExternalTool},
		{"state", NewStateError("m", cause), ErrCodeState},
		{"config", NewConfigError("m", cause), ErrCodeConfig},
		{"internal", NewInternalError("m", cause), ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if tt.err.Cause != cause {
				t.Error("Expected cause to be kept")
			}
		})
	}
}

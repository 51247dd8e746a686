package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeDuplicatePackage, "duplicate package id %q", "a 1.0.0")

	if err.Code != ErrCodeDuplicatePackage {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDuplicatePackage)
	}

	if err.Message != `duplicate package id "a 1.0.0"` {
		t.Errorf("Message = %v, want %v", err.Message, `duplicate package id "a 1.0.0"`)
	}

	expected := `DUPLICATE_PACKAGE: duplicate package id "a 1.0.0"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected character")
	err := Wrap(ErrCodeInvalidVersion, cause, "package %s", "serde")

	if err.Code != ErrCodeInvalidVersion {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidVersion)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

type codedError struct{ code Code }

func (e *codedError) Error() string { return "coded" }
func (e *codedError) Code() Code    { return e.code }

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeUnknownFeature, "test"),
			code:     ErrCodeUnknownFeature,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeUnknownFeature, "test"),
			code:     ErrCodeFeatureCycle,
			expected: false,
		},
		{
			name:     "outermost code wins",
			err:      Wrap(ErrCodeInvalidPlatformExpression, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeInvalidPlatformExpression,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("load: %w", New(ErrCodeUnknownDependency, "x")),
			code:     ErrCodeUnknownDependency,
			expected: true,
		},
		{
			name:     "typed error with Code method",
			err:      fmt.Errorf("activate: %w", &codedError{code: ErrCodeFeatureCycle}),
			code:     ErrCodeFeatureCycle,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidPackage, "test"),
			expected: ErrCodeInvalidPackage,
		},
		{
			name:     "typed error",
			err:      &codedError{code: ErrCodeCycle},
			expected: ErrCodeCycle,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "joined",
			err:      errors.Join(errors.New("plain"), New(ErrCodeUnknownFeature, "test")),
			expected: ErrCodeUnknownFeature,
		},
		{
			name:     "wrapped join",
			err:      fmt.Errorf("load: %w", errors.Join(&codedError{code: ErrCodeCycle}, New(ErrCodeInvalidPackage, "test"))),
			expected: ErrCodeCycle,
		},
		{
			name:     "join without codes",
			err:      errors.Join(errors.New("a"), errors.New("b")),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "wrapped cause",
			err:      Wrap(ErrCodeInvalidInput, errors.New("unexpected EOF"), "decode snapshot"),
			expected: "decode snapshot: unexpected EOF",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidFMRI, "test message: %s", "value")

	if err.Code != ErrCodeInvalidFMRI {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFMRI)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_FMRI: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodePersistence, cause, "failed to read")

	if err.Code != ErrCodePersistence {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodePersistence)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidCatalog, "test"),
			code:     ErrCodeInvalidCatalog,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidCatalog, "test"),
			code:     ErrCodePersistence,
			expected: false,
		},
		{
			name:     "outer code of wrapped error",
			err:      Wrap(ErrCodePersistence, New(ErrCodeIncompatibleSchema, "inner"), "outer"),
			code:     ErrCodePersistence,
			expected: true,
		},
		{
			name:     "inner code of wrapped error",
			err:      Wrap(ErrCodePersistence, New(ErrCodeIncompatibleSchema, "inner"), "outer"),
			code:     ErrCodeIncompatibleSchema,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidFMRI,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidFMRI,
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
			err:      New(ErrCodeConflict, "test"),
			expected: ErrCodeConflict,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
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
			err:      New(ErrCodeInvalidFMRI, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "nested",
			err:      Wrap(ErrCodeInvalidCatalog, New(ErrCodeInvalidFMRI, "bad version"), "catalog a record 3"),
			expected: "catalog a record 3: bad version",
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

func TestStage(t *testing.T) {
	if Stage("build graph", nil) != nil {
		t.Fatal("Stage(nil) should be nil")
	}

	err := Stage("ingest catalogs", New(ErrCodeInvalidCatalog, "record 2"))
	if !Is(err, ErrCodeInvalidCatalog) {
		t.Errorf("Stage() lost code, got %v", GetCode(err))
	}
	if got := UserMessage(err); got != "ingest catalogs: record 2" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := Stage("persist", errors.New("disk full"))
	if GetCode(plain) != ErrCodeInternal {
		t.Errorf("GetCode() = %v, want %v", GetCode(plain), ErrCodeInternal)
	}
}

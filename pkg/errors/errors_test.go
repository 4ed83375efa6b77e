package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeKmerNotFound, "seed %s absent", "ACGTA")

	if err.Code != ErrCodeKmerNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeKmerNotFound)
	}
	if err.Message != "seed ACGTA absent" {
		t.Errorf("Message = %v, want %v", err.Message, "seed ACGTA absent")
	}

	expected := "KMER_NOT_FOUND: seed ACGTA absent"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeStore, cause, "write record")

	if err.Code != ErrCodeStore {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStore)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if err.Error() != "STORE_ERROR: write record: disk full" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidConfig, "x"), ErrCodeInvalidConfig, true},
		{"non-matching code", New(ErrCodeInvalidConfig, "x"), ErrCodeStore, false},
		{"outer code wins", Wrap(ErrCodeAligner, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeAligner, true},
		{"fmt wrapped", fmt.Errorf("ctx: %w", New(ErrCodeUnknownRule, "rule")), ErrCodeUnknownRule, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
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
	if got := GetCode(New(ErrCodeTimeout, "slow")); got != ErrCodeTimeout {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeTimeout)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "bad kmer")); got != "bad kmer" {
		t.Errorf("UserMessage() = %q, want %q", got, "bad kmer")
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidSequence, "x"), 400},
		{New(ErrCodeUnknownRule, "x"), 400},
		{New(ErrCodeKmerNotFound, "x"), 404},
		{New(ErrCodeTimeout, "x"), 504},
		{New(ErrCodeUnsupported, "x"), 501},
		{New(ErrCodeStore, "x"), 500},
		{errors.New("plain"), 500},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

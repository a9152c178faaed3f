/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("Exchange", "MOEX")

	// Test error message
	expected := `Exchange with key "MOEX" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	// Test Is method
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}

	// Test helper function
	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestDuplicateKeyError(t *testing.T) {
	err := NewDuplicateKeyError("Board", "TQBR")

	expected := `Board with key "TQBR" already exists`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrDuplicateKey) {
		t.Error("DuplicateKeyError should match ErrDuplicateKey")
	}

	if !IsDuplicateKey(err) {
		t.Error("IsDuplicateKey should return true for DuplicateKeyError")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "path",
			message:  "is required",
			expected: `validation failed for field "path": is required`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "expected 4 fields, got 2",
			expected: "validation failed: expected 4 fields, got 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}

			if !errors.Is(err, ErrInvalidInput) {
				t.Error("ValidationError should match ErrInvalidInput")
			}

			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestDecodeRowError(t *testing.T) {
	cause := NewNotFoundError("Exchange", "NYSE")
	err := NewDecodeRowError("exchangeboard.csv", 3, cause)

	expected := `exchangeboard.csv:3: Exchange with key "NYSE" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsDecodeRow(err) {
		t.Error("IsDecodeRow should return true for DecodeRowError")
	}

	// The cause stays reachable
	if !IsNotFound(err) {
		t.Error("DecodeRowError should unwrap to its NotFoundError cause")
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Key != "NYSE" {
		t.Errorf("errors.As should expose the missing key, got %+v", nf)
	}
}

func TestAggregateInitError(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if err := NewAggregateInitError(); err != nil {
			t.Fatalf("Expected nil for no errors, got %v", err)
		}
		if err := NewAggregateInitError(nil, nil); err != nil {
			t.Fatalf("Expected nil for nil errors, got %v", err)
		}
	})

	t.Run("Collects", func(t *testing.T) {
		first := NewDecodeRowError("position.csv", 1, NewNotFoundError("Instrument", "UNKNOWN"))
		second := NewDecodeRowError("security.csv", 7, NewValidationError("", "expected 25 fields, got 3"))

		err := NewAggregateInitError(first, nil, second)
		if err == nil {
			t.Fatal("Expected aggregate error")
		}

		if !IsInit(err) {
			t.Error("IsInit should return true for AggregateInitError")
		}

		var agg *AggregateInitError
		if !errors.As(err, &agg) {
			t.Fatal("errors.As should find AggregateInitError")
		}
		if got := len(agg.Errors()); got != 2 {
			t.Fatalf("Expected 2 collected errors, got %d", got)
		}

		// Inner errors are visible through the aggregate
		if !IsNotFound(err) {
			t.Error("Aggregate should expose the inner NotFoundError")
		}
		if !IsValidationError(err) {
			t.Error("Aggregate should expose the inner ValidationError")
		}

		if !strings.Contains(err.Error(), "UNKNOWN") || !strings.Contains(err.Error(), "2 error(s)") {
			t.Errorf("Unexpected aggregate message: %q", err.Error())
		}
	})
}

func TestErrorWrapping(t *testing.T) {
	// Test that wrapped errors still match
	original := NewNotFoundError("Portfolio", "main")
	wrapped := fmt.Errorf("decode position: %w", original)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("Wrapped NotFoundError should still match ErrNotFound")
	}

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should work with wrapped errors")
	}
}

func TestSentinelErrors(t *testing.T) {
	// Ensure sentinel errors are distinct
	sentinels := []error{
		ErrNotFound,
		ErrDuplicateKey,
		ErrInvalidInput,
		ErrDecodeRow,
		ErrInit,
		ErrClosed,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v matches %v", err1, err2)
			}
		}
	}
}

func TestIsClosed(t *testing.T) {
	err := fmt.Errorf("add SBER: %w", ErrClosed)
	if !IsClosed(err) {
		t.Errorf("IsClosed(%v) = false, want true", err)
	}
	if IsClosed(ErrNotFound) {
		t.Error("IsClosed(ErrNotFound) = true, want false")
	}
}

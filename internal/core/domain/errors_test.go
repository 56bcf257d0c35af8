package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Uniqueness tests that all errors are distinct
func TestErrors_Uniqueness(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrNotImplemented,
		ErrFileAccess,
		ErrUndecodable,
		ErrStructural,
		ErrFieldDecode,
	}

	for i, err1 := range allErrors {
		assert.NotEmpty(t, err1.Error())
		for j, err2 := range allErrors {
			if i != j {
				assert.False(t, errors.Is(err1, err2),
					"Error %v should not match error %v", err1, err2)
			}
		}
	}
}

func TestErrors_WithWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: open a.conllu", ErrFileAccess)

	assert.ErrorIs(t, wrapped, ErrFileAccess)
	assert.Equal(t, "file access failed: open a.conllu", wrapped.Error())
}

// TestDiagnostic_Error tests the audit message of each kind
func TestDiagnostic_Error(t *testing.T) {
	tests := []struct {
		name     string
		diag     Diagnostic
		expected string
	}{
		{
			name: "file access",
			diag: Diagnostic{
				Kind:     KindFileAccess,
				Filename: "a.conllu",
				Message:  "permission denied",
			},
			expected: "a.conllu: permission denied",
		},
		{
			name: "structural",
			diag: Diagnostic{
				Kind:     KindStructural,
				Filename: "a.conllu",
				SentID:   2,
				Line:     14,
				Content:  "1\tA",
				Message:  "expected 10 columns, got 2",
			},
			expected: "a.conllu:14 sentence 2: expected 10 columns, got 2 (\"1\\tA\")",
		},
		{
			name: "field decode",
			diag: Diagnostic{
				Kind:     KindFieldDecode,
				Filename: "b.conllu",
				SentID:   1,
				Line:     3,
				Field:    "FEATS",
				Content:  "Degree",
				Message:  "missing \"=\"",
			},
			expected: "b.conllu:3 sentence 1 FEATS: missing \"=\" (\"Degree\")",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.diag.Error())
		})
	}
}

func TestDiagnostic_Unwrap(t *testing.T) {
	tests := []struct {
		kind DiagnosticKind
		want error
	}{
		{KindFileAccess, ErrFileAccess},
		{KindStructural, ErrStructural},
		{KindFieldDecode, ErrFieldDecode},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			var err error = Diagnostic{Kind: tt.kind, Filename: "a.conllu"}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Nil(t, Diagnostic{Kind: "other"}.Unwrap())
}

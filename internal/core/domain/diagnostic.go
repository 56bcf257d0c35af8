package domain

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a recovered condition.
type DiagnosticKind string

// Diagnostic kinds, from widest to narrowest recovery scope.
const (
	// KindFileAccess: whole file skipped, batch continues.
	KindFileAccess DiagnosticKind = "file_access"

	// KindStructural: token line skipped, sentence continues.
	KindStructural DiagnosticKind = "structural"

	// KindFieldDecode: field entry dropped, field continues.
	KindFieldDecode DiagnosticKind = "field_decode"
)

// Diagnostic records a condition that was recovered from during a fix or
// load. It carries enough context to audit the input afterwards.
type Diagnostic struct {
	Kind DiagnosticKind `json:"kind"`

	// Filename identifies the file (locator or display name).
	Filename string `json:"filename"`

	// DocID, SentID and Line are zero when not applicable.
	DocID  int `json:"doc_id,omitempty"`
	SentID int `json:"sent_id,omitempty"`
	Line   int `json:"line,omitempty"`

	// Field names the column for field decode diagnostics ("FEATS").
	Field string `json:"field,omitempty"`

	// Content is the offending raw line or entry.
	Content string `json:"content,omitempty"`

	// Message describes the problem.
	Message string `json:"message"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	var b strings.Builder
	b.WriteString(d.Filename)
	if d.Line > 0 {
		fmt.Fprintf(&b, ":%d", d.Line)
	}
	if d.SentID > 0 {
		fmt.Fprintf(&b, " sentence %d", d.SentID)
	}
	if d.Field != "" {
		fmt.Fprintf(&b, " %s", d.Field)
	}
	fmt.Fprintf(&b, ": %s", d.Message)
	if d.Content != "" {
		fmt.Fprintf(&b, " (%q)", d.Content)
	}
	return b.String()
}

// Unwrap maps the kind onto its sentinel error so callers can use errors.Is.
func (d Diagnostic) Unwrap() error {
	switch d.Kind {
	case KindFileAccess:
		return ErrFileAccess
	case KindStructural:
		return ErrStructural
	case KindFieldDecode:
		return ErrFieldDecode
	default:
		return nil
	}
}

// ParseResult is the output of parsing one file.
type ParseResult struct {
	Document    *Document
	Diagnostics []Diagnostic
}

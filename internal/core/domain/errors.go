package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not available with the current wiring.
	ErrNotImplemented = errors.New("not implemented")

	// Corpus errors.

	// ErrFileAccess indicates a source file could not be read or written.
	// The file is skipped and the batch continues.
	ErrFileAccess = errors.New("file access failed")

	// ErrUndecodable indicates a source is not valid UTF-8 text.
	ErrUndecodable = errors.New("text is not valid UTF-8")

	// ErrStructural indicates a token line without exactly ten columns.
	// The line is skipped and the sentence continues.
	ErrStructural = errors.New("malformed token line")

	// ErrFieldDecode indicates a malformed entry in a structured column.
	// The entry is dropped and the column continues.
	ErrFieldDecode = errors.New("malformed field entry")
)

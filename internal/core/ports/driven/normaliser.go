package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

// Normaliser repairs formatting defects in raw CoNLL-U text.
// Implementations are pure: the same input always yields the same output,
// and applying Normalise to its own output changes nothing.
type Normaliser interface {
	// Name identifies the normaliser in logs and reports.
	Name() string

	// Normalise returns the repaired text. It never fails.
	Normalise(raw string) string
}

// Parser builds the document graph from repaired CoNLL-U text.
type Parser interface {
	// Parse decodes text into a document with the given identity.
	// Recoverable conditions are returned as diagnostics; an error means the
	// text could not be decoded at all.
	Parse(docID int, filename, source, text string) (*domain.ParseResult, error)

	// ParseReader is the streaming form of Parse. It fails only when the
	// stream cannot be read or is not valid text.
	ParseReader(ctx context.Context, docID int, filename, source string, r io.Reader) (*domain.ParseResult, error)
}

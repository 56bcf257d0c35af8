package driving

import (
	"context"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

// CorpusService repairs and loads CoNLL-U corpora.
type CorpusService interface {
	// Normalise repairs raw text without touching any file.
	Normalise(text string) string

	// Parse decodes text into a document with the given id.
	// The configured source tag is assigned to the document.
	Parse(docID int, filename, text string) (*domain.ParseResult, error)

	// FixFile repairs one file in place. It reports whether the text changed.
	FixFile(ctx context.Context, locator string) (bool, error)

	// Fix repairs every file under root. A failing file is recorded in the
	// report and never aborts the batch.
	Fix(ctx context.Context, root string, opts domain.FixOptions) (*domain.FixReport, error)

	// LoadFile parses one file as the document with the given id.
	LoadFile(ctx context.Context, locator string, docID int) (*domain.ParseResult, error)

	// Load parses every file under root, assigning ids from nextDocID in
	// sorted locator order. It returns the next unassigned id.
	Load(ctx context.Context, root string, nextDocID int, opts domain.LoadOptions) (*domain.LoadReport, int, error)

	// Watch reloads files under root as they change until ctx is cancelled.
	// Files already known keep their id; new files are numbered from nextDocID.
	Watch(ctx context.Context, root string, nextDocID int, onLoad func(*domain.ParseResult, error)) error
}

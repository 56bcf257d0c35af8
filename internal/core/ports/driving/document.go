package driving

import (
	"context"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

// DocumentService gives read access to persisted documents.
type DocumentService interface {
	// List returns all documents without their sentences.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document with its sentences and tokens.
	Get(ctx context.Context, docID int) (*domain.Document, error)

	// Sentence retrieves one sentence of a document.
	Sentence(ctx context.Context, docID, sentID int) (*domain.Sentence, error)

	// Delete removes a document.
	Delete(ctx context.Context, docID int) error

	// Runs returns recorded load runs, most recent first.
	Runs(ctx context.Context) ([]domain.LoadRun, error)

	// RunDiagnostics returns the failures and diagnostics recorded for a run.
	RunDiagnostics(ctx context.Context, runID string) ([]domain.Diagnostic, error)

	// NextDocID returns the id following the highest stored document id.
	NextDocID(ctx context.Context) (int, error)
}

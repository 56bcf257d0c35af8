package driven

import (
	"context"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

// CorpusStore persists loaded documents.
// Backed by SQLite, or memory for tests and one-off runs.
type CorpusStore interface {
	// SaveDocument stores a document with all its sentences and tokens,
	// replacing any document with the same ID.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document with all its sentences and tokens.
	GetDocument(ctx context.Context, id int) (*domain.Document, error)

	// GetSentence retrieves one sentence of a document.
	GetSentence(ctx context.Context, docID, sentID int) (*domain.Sentence, error)

	// ListDocuments returns documents without their sentences, ordered by ID.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its sentences and tokens.
	DeleteDocument(ctx context.Context, id int) error

	// SaveRun records a load run and its diagnostics.
	SaveRun(ctx context.Context, run domain.LoadRun, diags []domain.Diagnostic) error

	// ListRuns returns recorded load runs, most recent first.
	ListRuns(ctx context.Context) ([]domain.LoadRun, error)

	// RunDiagnostics returns the diagnostics recorded for a run, in order.
	RunDiagnostics(ctx context.Context, runID string) ([]domain.Diagnostic, error)
}

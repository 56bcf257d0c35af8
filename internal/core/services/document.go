package services

import (
	"context"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driven"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService gives read access to persisted documents.
type DocumentService struct {
	store driven.CorpusStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(store driven.CorpusStore) *DocumentService {
	return &DocumentService{store: store}
}

// List returns all documents without their sentences.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, docID int) (*domain.Document, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.GetDocument(ctx, docID)
}

// Sentence retrieves one sentence of a document.
func (s *DocumentService) Sentence(ctx context.Context, docID, sentID int) (*domain.Sentence, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.GetSentence(ctx, docID, sentID)
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, docID int) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.DeleteDocument(ctx, docID)
}

// Runs returns recorded load runs, most recent first.
func (s *DocumentService) Runs(ctx context.Context) ([]domain.LoadRun, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.ListRuns(ctx)
}

// RunDiagnostics returns the failures and diagnostics recorded for a run.
func (s *DocumentService) RunDiagnostics(ctx context.Context, runID string) ([]domain.Diagnostic, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.RunDiagnostics(ctx, runID)
}

// NextDocID returns the id following the highest id any document or run
// has used, so ids are never reused across loads. An empty store yields 1.
func (s *DocumentService) NextDocID(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, domain.ErrNotImplemented
	}

	next := 1
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return 0, err
	}
	for _, doc := range docs {
		next = max(next, doc.ID+1)
	}

	runs, err := s.store.ListRuns(ctx)
	if err != nil {
		return 0, err
	}
	for _, run := range runs {
		next = max(next, run.NextDocID)
	}
	return next, nil
}

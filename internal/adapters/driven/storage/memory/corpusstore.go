package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore.
// Documents are held by value; callers never share a sentence slice with
// the store.
type CorpusStore struct {
	mu        sync.RWMutex
	documents map[int]domain.Document
	runs      []domain.LoadRun
	diags     map[string][]domain.Diagnostic
}

// NewCorpusStore creates a new in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{
		documents: make(map[int]domain.Document),
		diags:     make(map[string][]domain.Diagnostic),
	}
}

// SaveDocument stores or replaces a document.
func (s *CorpusStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = cloneDocument(doc)
	return nil
}

// GetDocument retrieves a document with its sentences.
func (s *CorpusStore) GetDocument(_ context.Context, id int) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneDocument(&doc)
	return &out, nil
}

// GetSentence retrieves one sentence of a document.
func (s *CorpusStore) GetSentence(_ context.Context, docID, sentID int) (*domain.Sentence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[docID]
	if !ok || sentID < 1 || sentID > len(doc.Sentences) {
		return nil, domain.ErrNotFound
	}
	sent := cloneSentence(doc.Sentences[sentID-1])
	return &sent, nil
}

// ListDocuments returns all documents without sentences, ordered by ID.
func (s *CorpusStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		doc.Sentences = nil
		docs = append(docs, doc)
	}
	slices.SortFunc(docs, func(a, b domain.Document) int { return a.ID - b.ID })
	return docs, nil
}

// DeleteDocument removes a document.
func (s *CorpusStore) DeleteDocument(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

// SaveRun records a load run and its diagnostics.
func (s *CorpusStore) SaveRun(_ context.Context, run domain.LoadRun, diags []domain.Diagnostic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	s.diags[run.ID] = slices.Clone(diags)
	return nil
}

// ListRuns returns load runs, most recent first.
func (s *CorpusStore) ListRuns(_ context.Context) ([]domain.LoadRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := slices.Clone(s.runs)
	slices.Reverse(runs)
	return runs, nil
}

// RunDiagnostics returns the diagnostics recorded for a run.
func (s *CorpusStore) RunDiagnostics(_ context.Context, runID string) ([]domain.Diagnostic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.diags[runID]), nil
}

func cloneDocument(doc *domain.Document) domain.Document {
	out := *doc
	if doc.Sentences != nil {
		out.Sentences = make([]domain.Sentence, len(doc.Sentences))
		for i, sent := range doc.Sentences {
			out.Sentences[i] = cloneSentence(sent)
		}
	}
	return out
}

func cloneSentence(sent domain.Sentence) domain.Sentence {
	sent.Metadata = slices.Clone(sent.Metadata)
	sent.Tokens = slices.Clone(sent.Tokens)
	return sent
}

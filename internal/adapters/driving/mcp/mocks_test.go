package mcp

import (
	"context"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driving"
	normaliser "github.com/custodia-labs/conllu-cli/internal/normalisers/conllu"
	"github.com/custodia-labs/conllu-cli/internal/parsers/conllu"
)

// stubCorpusService implements driving.CorpusService with the real
// normaliser and parser. File operations are not used by the server.
type stubCorpusService struct {
	driving.CorpusService
	parseErr error
}

func (m *stubCorpusService) Normalise(text string) string {
	return normaliser.Normalise(text)
}

func (m *stubCorpusService) Parse(docID int, filename, text string) (*domain.ParseResult, error) {
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	return conllu.New().Parse(docID, filename, "mcp", text)
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	runs      []domain.LoadRun
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ int) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Sentence(_ context.Context, _, _ int) (*domain.Sentence, error) {
	return nil, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ int) error {
	return m.err
}

func (m *mockDocumentService) Runs(_ context.Context) ([]domain.LoadRun, error) {
	return m.runs, m.err
}

func (m *mockDocumentService) RunDiagnostics(_ context.Context, _ string) ([]domain.Diagnostic, error) {
	return nil, m.err
}

func (m *mockDocumentService) NextDocID(_ context.Context) (int, error) {
	return 1, m.err
}

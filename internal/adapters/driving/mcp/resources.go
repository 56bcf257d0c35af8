package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/parsers/conllu"
)

const (
	// uriScheme is the custom URI scheme for corpus resources.
	uriScheme = "conllu://"

	mimeJSON   = "application/json"
	mimeConllu = "text/plain"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Documents loaded into the corpus store",
		MIMEType:    mimeJSON,
	}, s.handleDocumentsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recorded load runs, most recent first",
		MIMEType:    mimeJSON,
	}, s.handleRunsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{docId}",
		Name:        "document",
		Description: "A loaded document written back out as CoNLL-U",
		MIMEType:    mimeConllu,
	}, s.handleDocumentResource)
}

// handleDocumentsResource returns a summary of every loaded document.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return textResult(req.Params.URI, mimeJSON, "[]"), nil
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		ID       int    `json:"doc_id"`
		Filename string `json:"filename"`
		Source   string `json:"source"`
		URI      string `json:"uri"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:       docs[i].ID,
			Filename: docs[i].Filename,
			Source:   docs[i].Source,
			URI:      documentURI(docs[i].ID),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}
	return textResult(req.Params.URI, mimeJSON, string(data)), nil
}

// handleRunsResource returns the recorded load runs.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return textResult(req.Params.URI, mimeJSON, "[]"), nil
	}

	runs, err := s.ports.Document.Runs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	type runInfo struct {
		ID          string    `json:"id"`
		Root        string    `json:"root"`
		Source      string    `json:"source"`
		FirstDocID  int       `json:"first_doc_id"`
		NextDocID   int       `json:"next_doc_id"`
		Documents   int       `json:"documents"`
		Sentences   int       `json:"sentences"`
		Tokens      int       `json:"tokens"`
		Diagnostics int       `json:"diagnostics"`
		Failures    int       `json:"failures"`
		StartedAt   time.Time `json:"started_at"`
	}

	infos := make([]runInfo, len(runs))
	for i, run := range runs {
		infos[i] = runInfo{
			ID:          run.ID,
			Root:        run.Root,
			Source:      run.Source,
			FirstDocID:  run.FirstDocID,
			NextDocID:   run.NextDocID,
			Documents:   run.Documents,
			Sentences:   run.Sentences,
			Tokens:      run.Tokens,
			Diagnostics: run.Diagnostics,
			Failures:    run.Failures,
			StartedAt:   run.StartedAt,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}
	return textResult(req.Params.URI, mimeJSON, string(data)), nil
}

// handleDocumentResource returns one document as CoNLL-U text.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docID, ok := extractDocumentID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	var b strings.Builder
	if err := conllu.Format(&b, doc); err != nil {
		return nil, fmt.Errorf("formatting document: %w", err)
	}
	return textResult(req.Params.URI, mimeConllu, b.String()), nil
}

func textResult(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeType,
			Text:     text,
		}},
	}
}

func documentURI(id int) string {
	return uriScheme + "documents/" + strconv.Itoa(id)
}

// extractDocumentID extracts the document ID from a URI like conllu://documents/{docId}.
func extractDocumentID(uri string) (int, bool) {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

const (
	defaultFilename = "input.conllu"
	defaultDocID    = 1
)

// NormaliseInput is the input schema for the normalise_conllu tool.
type NormaliseInput struct {
	Text string `json:"text" jsonschema:"raw CoNLL-U text to repair"`
}

// NormaliseOutput is the output schema for the normalise_conllu tool.
type NormaliseOutput struct {
	Text    string `json:"text"`
	Changed bool   `json:"changed"`
}

// ParseInput is the input schema for the parse_conllu tool.
type ParseInput struct {
	Text      string `json:"text" jsonschema:"CoNLL-U text to parse"`
	Filename  string `json:"filename,omitempty" jsonschema:"name reported in diagnostics (default input.conllu)"`
	DocID     int    `json:"doc_id,omitempty" jsonschema:"document id to assign (default 1)"`
	Normalise bool   `json:"normalise,omitempty" jsonschema:"repair the text before parsing"`
}

// ParseOutput is the output schema for the parse_conllu tool.
type ParseOutput struct {
	DocID       int                `json:"doc_id"`
	Filename    string             `json:"filename"`
	Source      string             `json:"source"`
	Sentences   []SentenceOutput   `json:"sentences"`
	Tokens      int                `json:"tokens"`
	Diagnostics []DiagnosticOutput `json:"diagnostics,omitempty"`
}

// SentenceOutput represents a single parsed sentence.
type SentenceOutput struct {
	ID       int               `json:"sent_id"`
	Text     string            `json:"text"`
	Metadata domain.Attrs  `json:"metadata,omitempty"`
	Tokens   []TokenOutput `json:"tokens"`
}

// TokenOutput represents a single token with its decoded fields.
type TokenOutput struct {
	ID     int          `json:"token_id"`
	Index  string       `json:"index"`
	Form   string       `json:"form"`
	Lemma  string       `json:"lemma"`
	UPOS   string       `json:"upos,omitempty"`
	XPOS   string       `json:"xpos,omitempty"`
	Feats  domain.Attrs `json:"feats,omitempty"`
	Head   int          `json:"head"`
	DepRel string       `json:"deprel,omitempty"`
	Deps   []domain.Dep `json:"deps,omitempty"`
	Misc   domain.Attrs `json:"misc,omitempty"`
}

// DiagnosticOutput represents a condition the parser recovered from.
type DiagnosticOutput struct {
	Kind    string `json:"kind"`
	Line    int    `json:"line,omitempty"`
	SentID  int    `json:"sent_id,omitempty"`
	Field   string `json:"field,omitempty"`
	Content string `json:"content,omitempty"`
	Message string `json:"message"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "normalise_conllu",
		Description: "Repair CoNLL-U formatting: reflow wrapped # text comments, replace non-breaking spaces, collapse space runs",
	}, s.handleNormalise)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse_conllu",
		Description: "Parse CoNLL-U text into sentences and tokens with decoded fields and diagnostics",
	}, s.handleParse)
}

// handleNormalise handles the normalise_conllu tool invocation.
func (s *Server) handleNormalise(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input NormaliseInput,
) (*mcp.CallToolResult, NormaliseOutput, error) {
	repaired := s.ports.Corpus.Normalise(input.Text)
	return nil, NormaliseOutput{
		Text:    repaired,
		Changed: repaired != input.Text,
	}, nil
}

// handleParse handles the parse_conllu tool invocation.
func (s *Server) handleParse(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ParseInput,
) (*mcp.CallToolResult, ParseOutput, error) {
	filename := input.Filename
	if filename == "" {
		filename = defaultFilename
	}
	docID := input.DocID
	if docID <= 0 {
		docID = defaultDocID
	}
	text := input.Text
	if input.Normalise {
		text = s.ports.Corpus.Normalise(text)
	}

	result, err := s.ports.Corpus.Parse(docID, filename, text)
	if err != nil {
		return nil, ParseOutput{}, fmt.Errorf("parsing %s: %w", filename, err)
	}

	return nil, toParseOutput(result), nil
}

func toParseOutput(result *domain.ParseResult) ParseOutput {
	doc := result.Document
	out := ParseOutput{
		DocID:     doc.ID,
		Filename:  doc.Filename,
		Source:    doc.Source,
		Sentences: make([]SentenceOutput, len(doc.Sentences)),
		Tokens:    doc.TokenCount(),
	}

	for i := range doc.Sentences {
		sent := &doc.Sentences[i]
		so := SentenceOutput{
			ID:     sent.ID,
			Text:   sent.Text,
			Tokens: make([]TokenOutput, len(sent.Tokens)),
		}
		if len(sent.Metadata) > 0 {
			so.Metadata = sent.Metadata
		}
		for j := range sent.Tokens {
			so.Tokens[j] = toTokenOutput(&sent.Tokens[j])
		}
		out.Sentences[i] = so
	}

	for _, d := range result.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, DiagnosticOutput{
			Kind:    string(d.Kind),
			Line:    d.Line,
			SentID:  d.SentID,
			Field:   d.Field,
			Content: d.Content,
			Message: d.Message,
		})
	}
	return out
}

func toTokenOutput(tok *domain.Token) TokenOutput {
	f := &tok.Fields
	out := TokenOutput{
		ID:     tok.ID,
		Index:  f.Index,
		Form:   f.Form,
		Lemma:  f.Lemma,
		UPOS:   f.UPOS,
		XPOS:   f.XPOS,
		Head:   int(f.Head),
		DepRel: f.DepRel,
	}
	if len(f.Feats) > 0 {
		out.Feats = f.Feats
	}
	if len(f.Deps) > 0 {
		out.Deps = f.Deps
	}
	if len(f.Misc) > 0 {
		out.Misc = f.Misc
	}
	return out
}

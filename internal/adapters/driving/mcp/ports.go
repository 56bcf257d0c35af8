package mcp

import (
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Corpus repairs and parses text.
	Corpus driving.CorpusService

	// Document reads loaded documents. Optional: without it the document
	// resources report not found.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Corpus == nil {
		return ErrMissingCorpusService
	}
	return nil
}

// Package tui provides an interactive terminal browser for loaded corpora.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Document reads and deletes persisted documents.
	Document driving.DocumentService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(document driving.DocumentService) *Ports {
	return &Ports{Document: document}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}

// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants repair and parse CoNLL-U text and read the
// documents loaded into the corpus store.
package mcp

import "errors"

// ErrMissingCorpusService is returned when the corpus service is not provided.
var ErrMissingCorpusService = errors.New("mcp: corpus service is required")

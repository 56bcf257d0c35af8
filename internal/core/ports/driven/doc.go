// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - FileEnumerator: Discovers the files under a corpus root
//   - TextStore: Reads and writes whole-file text
//   - Normaliser: Repairs raw CoNLL-U text
//   - Parser: Builds the document graph from repaired text
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CorpusStore: Persistence of loaded documents. Without it, loads are in-memory only.
//   - Watcher: Change notification for a corpus root. Without it, watch mode is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven

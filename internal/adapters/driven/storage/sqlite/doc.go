// Package sqlite provides the SQLite-backed corpus store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single database holds:
//
//   - documents, sentences and tokens of loaded files
//   - load runs and the diagnostics each run recovered from
//
// FEATS, MISC, DEPS and sentence metadata are stored as JSON text.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory and recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.conllu/data/corpus.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The database runs in WAL mode
// with a busy timeout, and each document is written in one transaction.
package sqlite

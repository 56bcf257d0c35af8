package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/conllu-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driven"
)

// dbName is the database file inside the data directory.
const dbName = "corpus.db"

// Store is the SQLite database holding loaded corpora.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the corpus database in dataDir.
// If dataDir is empty, defaults to ~/.conllu/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".conllu", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbName)

	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CorpusStore returns a CorpusStore interface backed by this store.
func (s *Store) CorpusStore() driven.CorpusStore {
	return &corpusStore{store: s}
}

// migrate runs all pending migrations and records their versions.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Corpus Store ====================

// corpusStore implements driven.CorpusStore.
type corpusStore struct {
	store *Store
}

var _ driven.CorpusStore = (*corpusStore)(nil)

// SaveDocument replaces a document with all its sentences and tokens in
// one transaction.
func (s *corpusStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deleteDocument(ctx, tx, doc.ID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, filename, source, sentence_count, token_count, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Filename, doc.Source, len(doc.Sentences), doc.TokenCount(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	sentStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sentences (doc_id, sent_id, text, metadata)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer sentStmt.Close()

	tokStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tokens (doc_id, sent_id, token_id, idx, form, lemma, upos, xpos,
			feats, head, deprel, deps, misc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer tokStmt.Close()

	for _, sent := range doc.Sentences {
		metadata, err := encodeJSON(sent.Metadata, len(sent.Metadata))
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := sentStmt.ExecContext(ctx, doc.ID, sent.ID, sent.Text, metadata); err != nil {
			return fmt.Errorf("saving sentence %d: %w", sent.ID, err)
		}

		for _, tok := range sent.Tokens {
			if err := insertToken(ctx, tokStmt, doc.ID, sent.ID, tok); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertToken(ctx context.Context, stmt *sql.Stmt, docID, sentID int, tok domain.Token) error {
	f := tok.Fields
	feats, err := encodeJSON(f.Feats, len(f.Feats))
	if err != nil {
		return fmt.Errorf("marshalling feats: %w", err)
	}
	deps, err := encodeJSON(f.Deps, len(f.Deps))
	if err != nil {
		return fmt.Errorf("marshalling deps: %w", err)
	}
	misc, err := encodeJSON(f.Misc, len(f.Misc))
	if err != nil {
		return fmt.Errorf("marshalling misc: %w", err)
	}

	_, err = stmt.ExecContext(ctx, docID, sentID, tok.ID, f.Index, f.Form, f.Lemma,
		f.UPOS, f.XPOS, feats, int(f.Head), f.DepRel, deps, misc)
	if err != nil {
		return fmt.Errorf("saving token %d.%d: %w", sentID, tok.ID, err)
	}
	return nil
}

// GetDocument retrieves a document with all its sentences and tokens.
func (s *corpusStore) GetDocument(ctx context.Context, id int) (*domain.Document, error) {
	var doc domain.Document
	err := s.store.db.QueryRowContext(ctx, `
		SELECT id, filename, source FROM documents WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Filename, &doc.Source)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	sentences, err := s.querySentences(ctx, id, 0)
	if err != nil {
		return nil, err
	}
	tokens, err := s.queryTokens(ctx, id, 0)
	if err != nil {
		return nil, err
	}

	// Sentence ids are dense and 1-based.
	for _, tok := range tokens {
		if idx := tok.SentID - 1; idx >= 0 && idx < len(sentences) {
			sentences[idx].Tokens = append(sentences[idx].Tokens, tok)
		}
	}
	doc.Sentences = sentences
	return &doc, nil
}

// GetSentence retrieves one sentence of a document.
func (s *corpusStore) GetSentence(ctx context.Context, docID, sentID int) (*domain.Sentence, error) {
	sentences, err := s.querySentences(ctx, docID, sentID)
	if err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, domain.ErrNotFound
	}
	tokens, err := s.queryTokens(ctx, docID, sentID)
	if err != nil {
		return nil, err
	}
	sent := sentences[0]
	sent.Tokens = tokens
	return &sent, nil
}

// querySentences returns the sentences of a document, or only sentID when non-zero.
func (s *corpusStore) querySentences(ctx context.Context, docID, sentID int) ([]domain.Sentence, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT sent_id, text, metadata FROM sentences
		WHERE doc_id = ? AND (? = 0 OR sent_id = ?)
		ORDER BY sent_id
	`, docID, sentID, sentID)
	if err != nil {
		return nil, fmt.Errorf("querying sentences: %w", err)
	}
	defer rows.Close()

	var sentences []domain.Sentence //nolint:prealloc // size unknown from query
	for rows.Next() {
		sent := domain.Sentence{DocID: docID}
		var metadata sql.NullString
		if err := rows.Scan(&sent.ID, &sent.Text, &metadata); err != nil {
			return nil, fmt.Errorf("scanning sentence: %w", err)
		}
		if err := decodeJSON(metadata, &sent.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
		sentences = append(sentences, sent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sentences: %w", err)
	}
	return sentences, nil
}

// queryTokens returns the tokens of a document, or of sentID when non-zero.
func (s *corpusStore) queryTokens(ctx context.Context, docID, sentID int) ([]domain.Token, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT sent_id, token_id, idx, form, lemma, upos, xpos, feats, head, deprel, deps, misc
		FROM tokens
		WHERE doc_id = ? AND (? = 0 OR sent_id = ?)
		ORDER BY sent_id, token_id
	`, docID, sentID, sentID)
	if err != nil {
		return nil, fmt.Errorf("querying tokens: %w", err)
	}
	defer rows.Close()

	var tokens []domain.Token //nolint:prealloc // size unknown from query
	for rows.Next() {
		tok, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tokens: %w", err)
	}
	return tokens, nil
}

func scanToken(rows *sql.Rows) (domain.Token, error) {
	var (
		tok              domain.Token
		head             int
		feats, deps, msc sql.NullString
	)
	f := &tok.Fields
	if err := rows.Scan(&tok.SentID, &tok.ID, &f.Index, &f.Form, &f.Lemma, &f.UPOS, &f.XPOS,
		&feats, &head, &f.DepRel, &deps, &msc); err != nil {
		return tok, fmt.Errorf("scanning token: %w", err)
	}
	f.Head = domain.Head(head)

	if err := decodeJSON(feats, &f.Feats); err != nil {
		return tok, fmt.Errorf("unmarshalling feats: %w", err)
	}
	if err := decodeJSON(deps, &f.Deps); err != nil {
		return tok, fmt.Errorf("unmarshalling deps: %w", err)
	}
	if err := decodeJSON(msc, &f.Misc); err != nil {
		return tok, fmt.Errorf("unmarshalling misc: %w", err)
	}
	return tok, nil
}

// ListDocuments returns documents without their sentences, ordered by ID.
func (s *corpusStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, filename, source FROM documents ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Source); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document and its sentences and tokens.
func (s *corpusStore) DeleteDocument(ctx context.Context, id int) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM documents WHERE id = ?)", id).
		Scan(&exists); err != nil {
		return fmt.Errorf("checking document: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := deleteDocument(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteDocument(ctx context.Context, tx *sql.Tx, id int) error {
	for _, q := range []string{
		"DELETE FROM tokens WHERE doc_id = ?",
		"DELETE FROM sentences WHERE doc_id = ?",
		"DELETE FROM documents WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("deleting document: %w", err)
		}
	}
	return nil
}

// SaveRun records a load run and its diagnostics.
func (s *corpusStore) SaveRun(ctx context.Context, run domain.LoadRun, diags []domain.Diagnostic) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO load_runs (id, root, source, first_doc_id, next_doc_id, documents,
			sentences, tokens, diagnostics, failures, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Root, run.Source, run.FirstDocID, run.NextDocID, run.Documents,
		run.Sentences, run.Tokens, run.Diagnostics, run.Failures,
		run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO diagnostics (run_id, seq, kind, filename, doc_id, sent_id, line, field, content, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, d := range diags {
		if _, err := stmt.ExecContext(ctx, run.ID, i+1, string(d.Kind), d.Filename,
			d.DocID, d.SentID, d.Line, d.Field, d.Content, d.Message); err != nil {
			return fmt.Errorf("saving diagnostic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListRuns returns recorded load runs, most recent first.
func (s *corpusStore) ListRuns(ctx context.Context) ([]domain.LoadRun, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, root, source, first_doc_id, next_doc_id, documents, sentences, tokens,
			diagnostics, failures, started_at, finished_at
		FROM load_runs ORDER BY started_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.LoadRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.LoadRun
		if err := rows.Scan(&run.ID, &run.Root, &run.Source, &run.FirstDocID, &run.NextDocID,
			&run.Documents, &run.Sentences, &run.Tokens, &run.Diagnostics, &run.Failures,
			&run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// RunDiagnostics returns the diagnostics recorded for a run, in order.
func (s *corpusStore) RunDiagnostics(ctx context.Context, runID string) ([]domain.Diagnostic, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT kind, filename, doc_id, sent_id, line, field, content, message
		FROM diagnostics WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	defer rows.Close()

	var diags []domain.Diagnostic //nolint:prealloc // size unknown from query
	for rows.Next() {
		var d domain.Diagnostic
		var kind string
		if err := rows.Scan(&kind, &d.Filename, &d.DocID, &d.SentID, &d.Line,
			&d.Field, &d.Content, &d.Message); err != nil {
			return nil, fmt.Errorf("scanning diagnostic: %w", err)
		}
		d.Kind = domain.DiagnosticKind(kind)
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating diagnostics: %w", err)
	}
	return diags, nil
}

// ==================== Helper Functions ====================

// encodeJSON marshals v, storing NULL for empty collections.
func encodeJSON(v any, n int) (sql.NullString, error) {
	if n == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// decodeJSON unmarshals a nullable JSON column into v.
func decodeJSON(col sql.NullString, v any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), v)
}

package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/conllu-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/parsers/conllu"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

const sampleText = `# sent_id = s1
# text = The dog barks.
1	The	the	DET	DT	Definite=Def|PronType=Art	2	det	2:det	_
2	dog	dog	NOUN	NN	Number=Sing	3	nsubj	3:nsubj	_
3	barks	bark	VERB	VBZ	Mood=Ind	0	root	0:root	SpaceAfter=No|Foreign
4	.	.	PUNCT	.	_	_	_	_	_

# newpar
# text = comments only

1-2	del	_	_	_	_	_	_	_	_
1	de	de	ADP	_	_	2	case	2:case	_
2	el	el	DET	_	_	_	_	1.1:det|0:root	_
`

// parseSample builds a document through the real parser.
func parseSample(t *testing.T, id int) *domain.Document {
	t.Helper()
	result, err := conllu.New().Parse(id, "sample.conllu", "ud", sampleText)
	require.NoError(t, err)
	require.Empty(t, result.Diagnostics)
	return result.Document
}

func TestNewStore(t *testing.T) {
	t.Run("creates the database file", func(t *testing.T) {
		store := setupTestStore(t)
		assert.Equal(t, "corpus.db", filepath.Base(store.Path()))
		assert.FileExists(t, store.Path())
	})

	t.Run("creates nested data directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		store, err := NewStore(dir)
		require.NoError(t, err)
		defer store.Close()
		assert.DirExists(t, dir)
	})

	t.Run("unwritable directory", func(t *testing.T) {
		_, err := NewStore("/dev/null/data")
		assert.Error(t, err)
	})
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"documents", "sentences", "tokens", "load_runs", "diagnostics"} {
		var n int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s should exist", table)
	}

	t.Run("re-running is a no-op", func(t *testing.T) {
		require.NoError(t, store.migrate(migrations.FS))
		var n int
		require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("reopening keeps data", func(t *testing.T) {
		dir := t.TempDir()
		first, err := NewStore(dir)
		require.NoError(t, err)
		require.NoError(t, first.CorpusStore().SaveDocument(context.Background(), parseSample(t, 1)))
		require.NoError(t, first.Close())

		second, err := NewStore(dir)
		require.NoError(t, err)
		defer second.Close()
		docs, err := second.CorpusStore().ListDocuments(context.Background())
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store := setupTestStore(t)

	var enabled int
	require.NoError(t, store.db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestStore_Close(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.Error(t, store.db.Ping())
}

func TestCorpusStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cs := setupTestStore(t).CorpusStore()
	want := parseSample(t, 7)

	require.NoError(t, cs.SaveDocument(ctx, want))

	got, err := cs.GetDocument(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	t.Run("field details survive", func(t *testing.T) {
		barks := got.Sentences[0].Tokens[2].Fields
		assert.Equal(t, domain.Head(0), barks.Head)
		assert.True(t, barks.Misc.Has("Foreign"))
		assert.Equal(t, domain.NoHead, got.Sentences[0].Tokens[3].Fields.Head)
		el := got.Sentences[2].Tokens[2].Fields
		assert.Equal(t, []domain.Dep{{Head: 1, EmptyNode: 1, Relation: "det"}, {Head: 0, Relation: "root"}}, el.Deps)
	})

	t.Run("comment-only sentence", func(t *testing.T) {
		sent := got.Sentences[1]
		assert.Equal(t, 2, sent.ID)
		assert.Equal(t, "comments only", sent.Text)
		assert.Empty(t, sent.Tokens)
	})
}

func TestCorpusStore_GetSentence(t *testing.T) {
	ctx := context.Background()
	cs := setupTestStore(t).CorpusStore()
	doc := parseSample(t, 1)
	require.NoError(t, cs.SaveDocument(ctx, doc))

	sent, err := cs.GetSentence(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, doc.Sentences[2], *sent)

	_, err = cs.GetSentence(ctx, 1, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = cs.GetSentence(ctx, 2, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCorpusStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	cs := store.CorpusStore()

	require.NoError(t, cs.SaveDocument(ctx, parseSample(t, 1)))

	smaller := &domain.Document{
		ID:       1,
		Filename: "sample.conllu",
		Source:   "ud",
		Sentences: []domain.Sentence{
			{DocID: 1, ID: 1, Text: "x", Tokens: []domain.Token{
				{ID: 1, SentID: 1, Fields: domain.FieldSet{Index: "1", Form: "x", Lemma: "_", Head: domain.NoHead}},
			}},
		},
	}
	require.NoError(t, cs.SaveDocument(ctx, smaller))

	got, err := cs.GetDocument(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, smaller, got)

	var tokens int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM tokens").Scan(&tokens))
	assert.Equal(t, 1, tokens)
}

func TestCorpusStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	cs := store.CorpusStore()

	for _, id := range []int{3, 1, 2} {
		require.NoError(t, cs.SaveDocument(ctx, parseSample(t, id)))
	}

	docs, err := cs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, doc := range docs {
		assert.Equal(t, i+1, doc.ID)
		assert.Equal(t, "ud", doc.Source)
		assert.Nil(t, doc.Sentences)
	}

	require.NoError(t, cs.DeleteDocument(ctx, 2))
	_, err = cs.GetDocument(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, cs.DeleteDocument(ctx, 2), domain.ErrNotFound)

	var orphans int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM sentences WHERE doc_id = 2").Scan(&orphans))
	assert.Zero(t, orphans)

	assert.ErrorIs(t, cs.SaveDocument(ctx, nil), domain.ErrInvalidInput)
}

func TestCorpusStore_Runs(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	cs := store.CorpusStore()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older := domain.LoadRun{
		ID: "run-1", Root: "/corpus", Source: "ud", FirstDocID: 1, NextDocID: 3,
		Documents: 2, Sentences: 10, Tokens: 80,
		StartedAt: started, FinishedAt: started.Add(time.Second),
	}
	newer := older
	newer.ID = "run-2"
	newer.FirstDocID, newer.NextDocID = 3, 4
	newer.Diagnostics, newer.Failures = 2, 0
	newer.StartedAt = started.Add(time.Hour)
	newer.FinishedAt = started.Add(time.Hour + time.Second)

	diags := []domain.Diagnostic{
		{Kind: domain.KindStructural, Filename: "a.conllu", DocID: 3, SentID: 1, Line: 4,
			Content: "1\tx", Message: "expected 10 columns, found 2"},
		{Kind: domain.KindFieldDecode, Filename: "a.conllu", DocID: 3, SentID: 2, Line: 9,
			Field: "FEATS", Content: "Case", Message: "missing '='"},
	}

	require.NoError(t, cs.SaveRun(ctx, older, nil))
	require.NoError(t, cs.SaveRun(ctx, newer, diags))

	runs, err := cs.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, 3, runs[0].FirstDocID)
	assert.Equal(t, 2, runs[0].Diagnostics)
	assert.True(t, newer.StartedAt.Equal(runs[0].StartedAt))
	assert.Equal(t, "run-1", runs[1].ID)

	got, err := cs.RunDiagnostics(ctx, "run-2")
	require.NoError(t, err)
	assert.Equal(t, diags, got)

	t.Run("duplicate run id fails", func(t *testing.T) {
		assert.Error(t, cs.SaveRun(ctx, older, nil))
	})
}

func TestCorpusStore_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	cs := setupTestStore(t).CorpusStore()

	docs := make([]*domain.Document, 8)
	for i := range docs {
		docs[i] = parseSample(t, i+1)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(docs))
	for _, doc := range docs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- cs.SaveDocument(ctx, doc)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	listed, err := cs.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 8)
}

func TestNewStore_DefaultDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, filepath.Join(home, ".conllu", "data", "corpus.db"), store.Path())

	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

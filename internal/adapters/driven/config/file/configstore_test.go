package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewConfigStore(t *testing.T) {
	t.Run("uses config.toml in the directory", func(t *testing.T) {
		store, dir := newStore(t)
		assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
		assert.Empty(t, store.Keys())
	})

	t.Run("creates nested directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		_, err := NewConfigStore(dir)
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})

	t.Run("mkdir failure", func(t *testing.T) {
		store, err := NewConfigStore("/dev/null/cannot/create")
		assert.Error(t, err)
		assert.Nil(t, store)
	})

	t.Run("corrupted file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not toml {{[["), 0o600))
		store, err := NewConfigStore(dir)
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, _ := newStore(t)

	require.NoError(t, store.Set("corpus.source", "ud-ewt"))
	require.NoError(t, store.Set("corpus.workers", 4))
	require.NoError(t, store.Set("normalise.on_load", true))
	require.NoError(t, store.Set("corpus.extensions", []string{".conllu"}))

	assert.Equal(t, "ud-ewt", store.GetString("corpus.source"))
	assert.Equal(t, 4, store.GetInt("corpus.workers"))
	assert.True(t, store.GetBool("normalise.on_load"))
	assert.Equal(t, []string{".conllu"}, store.GetStringSlice("corpus.extensions"))

	t.Run("wrong types yield zero values", func(t *testing.T) {
		assert.Equal(t, "", store.GetString("corpus.workers"))
		assert.Equal(t, 0, store.GetInt("corpus.source"))
		assert.False(t, store.GetBool("corpus.source"))
		assert.Nil(t, store.GetStringSlice("corpus.workers"))
	})

	t.Run("missing keys", func(t *testing.T) {
		_, ok := store.Get("missing")
		assert.False(t, ok)
		assert.Equal(t, "", store.GetString("missing"))
	})
}

func TestConfigStore_Persistence(t *testing.T) {
	store, dir := newStore(t)

	require.NoError(t, store.Set("corpus.source", "ud-ewt"))
	require.NoError(t, store.Set("corpus.workers", 4))
	require.NoError(t, store.Set("normalise.boundary", "legacy"))
	require.NoError(t, store.Set("corpus.extensions", []string{".conllu", ".conll"}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[corpus]")
	assert.Contains(t, string(data), "[normalise]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "ud-ewt", reloaded.GetString("corpus.source"))
	assert.Equal(t, 4, reloaded.GetInt("corpus.workers"))
	assert.Equal(t, "legacy", reloaded.GetString("normalise.boundary"))
	assert.Equal(t, []string{".conllu", ".conll"}, reloaded.GetStringSlice("corpus.extensions"))
	assert.Equal(t, []string{
		"corpus.extensions",
		"corpus.source",
		"corpus.workers",
		"normalise.boundary",
	}, reloaded.Keys())
}

func TestConfigStore_ReadsHandWrittenTables(t *testing.T) {
	dir := t.TempDir()
	content := "[corpus]\nsource = \"gum\"\nworkers = 2\n\n[storage]\nbackend = \"memory\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "gum", store.GetString("corpus.source"))
	assert.Equal(t, 2, store.GetInt("corpus.workers"))
	assert.Equal(t, "memory", store.GetString("storage.backend"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Set("corpus.source", "x"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigStore_Errors(t *testing.T) {
	t.Run("key conflicts with table", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, store.Set("corpus.source", "x"))
		assert.Error(t, store.Set("corpus", "y"))
	})

	t.Run("unmarshallable value", func(t *testing.T) {
		store, _ := newStore(t)
		assert.Error(t, store.Set("channel", make(chan int)))
	})

	t.Run("write failure", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, store.Set("a", "b"))
		require.NoError(t, os.Remove(store.Path()))
		require.NoError(t, os.Mkdir(store.Path(), 0o700))
		assert.Error(t, store.Save())
	})

	t.Run("invalid toml on reload", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte("][}{"), 0o600))
		assert.Error(t, store.Load())
	})
}

func TestNestMap(t *testing.T) {
	got, err := nestMap(map[string]any{"a.b": 1, "a.c": "x", "d": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": 1, "c": "x"},
		"d": true,
	}, got)
	assert.Equal(t, map[string]any{"a.b": 1, "a.c": "x", "d": true}, flattenMap(got, ""))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, _ := newStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set("corpus.workers", i)
			_ = store.GetInt("corpus.workers")
			_ = store.Keys()
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"corpus.workers"}, store.Keys())
}

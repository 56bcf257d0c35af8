package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

const sample = "# text = A\nwrapped\ntext.\n" +
	"1\tA\ta\tDET\t_\t_\t0\troot\t_\t_\n\n"

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name  string
		opts  cli.Options
		check func(t *testing.T, s *domain.Settings)
	}{
		{
			name: "no flags keeps settings",
			opts: cli.Options{},
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, *domain.DefaultSettings(), *s)
			},
		},
		{
			name: "source and workers",
			opts: cli.Options{Source: "ud-ewt", Workers: 8},
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, "ud-ewt", s.Corpus.Source)
				assert.Equal(t, 8, s.Corpus.Workers)
			},
		},
		{
			name: "legacy reflow",
			opts: cli.Options{LegacyReflow: true},
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, domain.BoundaryLegacy, s.Normalise.Boundary)
			},
		},
		{
			name: "memory and data dir",
			opts: cli.Options{Memory: true, DataDir: "/tmp/x"},
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, domain.StorageMemory, s.Storage.Backend)
				assert.Equal(t, "/tmp/x", s.Storage.Dir)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.DefaultSettings()
			applyOverrides(s, tt.opts)
			tt.check(t, s)
		})
	}
}

func TestBuildServices_SettingsOnly(t *testing.T) {
	dir := t.TempDir()

	svc, err := buildServices(cli.Options{ConfigDir: dir, SettingsOnly: true})

	require.NoError(t, err)
	assert.NotNil(t, svc.Settings)
	assert.Nil(t, svc.Corpus)
	assert.Nil(t, svc.Document)
	assert.Equal(t, filepath.Join(dir, "config.toml"), svc.Settings.Path())
	_, err = os.Stat(filepath.Join(dir, "data"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuildServices_SQLite(t *testing.T) {
	dir := t.TempDir()
	corpus := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(corpus, "a.conllu"), []byte(sample), 0o644))

	svc, err := buildServices(cli.Options{ConfigDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })

	ctx := context.Background()
	_, next, err := svc.Corpus.Load(ctx, corpus, 1, domain.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	doc, err := svc.Document.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "A wrapped text.", doc.Sentences[0].Text)

	_, err = os.Stat(filepath.Join(dir, "data"))
	assert.NoError(t, err)
}

func TestBuildServices_MemoryWithoutConfig(t *testing.T) {
	svc, err := buildServices(cli.Options{NoConfig: true, Memory: true, LegacyReflow: true})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })

	assert.Equal(t, ":memory:", svc.Settings.Path())
	assert.True(t, strings.HasPrefix(svc.Corpus.Normalise(sample), "# text = A wrapped text.\n1\tA\t"))
}

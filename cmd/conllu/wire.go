package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/conllu-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/conllu-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driven"
	"github.com/custodia-labs/conllu-cli/internal/core/services"
	"github.com/custodia-labs/conllu-cli/internal/logger"
	normaliser "github.com/custodia-labs/conllu-cli/internal/normalisers/conllu"
	parser "github.com/custodia-labs/conllu-cli/internal/parsers/conllu"
)

// buildServices opens the stores named by the settings and global flags
// and wires the services over them.
func buildServices(opts cli.Options) (*cli.Services, error) {
	configStore, err := openConfigStore(opts)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore)

	svc := &cli.Services{Settings: settingsService}
	if opts.SettingsOnly {
		return svc, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	applyOverrides(settings, opts)

	store, closeStore, err := openCorpusStore(settings, opts)
	if err != nil {
		return nil, err
	}

	files := filesystem.New(settings.Corpus.Extensions...)
	svc.Corpus = services.NewCorpusService(
		normaliser.New(settings.Normalise.Boundary),
		parser.New(),
		files, files, files,
		store,
		services.CorpusConfig{
			Source:          settings.Corpus.Source,
			NormaliseOnLoad: settings.Normalise.OnLoad,
			Workers:         settings.Corpus.Workers,
		},
	)
	svc.Document = services.NewDocumentService(store)
	svc.Close = func() error {
		return errors.Join(files.Close(), closeStore())
	}

	logger.Debug("boundary=%s on_load=%t workers=%d backend=%s",
		settings.Normalise.Boundary, settings.Normalise.OnLoad,
		settings.Corpus.Workers, settings.Storage.Backend)
	return svc, nil
}

func openConfigStore(opts cli.Options) (driven.ConfigStore, error) {
	if opts.NoConfig {
		return memory.NewConfigStore(), nil
	}
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return store, nil
}

// applyOverrides lets global flags win over the configuration file.
func applyOverrides(settings *domain.Settings, opts cli.Options) {
	if opts.Source != "" {
		settings.Corpus.Source = opts.Source
	}
	if opts.Workers > 0 {
		settings.Corpus.Workers = opts.Workers
	}
	if opts.LegacyReflow {
		settings.Normalise.Boundary = domain.BoundaryLegacy
	}
	if opts.Memory {
		settings.Storage.Backend = domain.StorageMemory
	}
	if opts.DataDir != "" {
		settings.Storage.Dir = opts.DataDir
	}
}

func openCorpusStore(settings *domain.Settings, opts cli.Options) (driven.CorpusStore, func() error, error) {
	if settings.Storage.Backend == domain.StorageMemory {
		return memory.NewCorpusStore(), func() error { return nil }, nil
	}

	dir := settings.Storage.Dir
	if dir == "" && opts.ConfigDir != "" {
		dir = filepath.Join(opts.ConfigDir, "data")
	}
	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("using database %s", store.Path())
	return store.CorpusStore(), store.Close, nil
}

package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driven"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyCorpusSource     = "corpus.source"
	KeyCorpusExtensions = "corpus.extensions"
	KeyCorpusWorkers    = "corpus.workers"
	KeyBoundary         = "normalise.boundary"
	KeyNormaliseOnLoad  = "normalise.on_load"
	KeyStorageBackend   = "storage.backend"
	KeyStorageDir       = "storage.dir"
)

// SettingKeys lists every recognised config key.
var SettingKeys = []string{
	KeyCorpusSource,
	KeyCorpusExtensions,
	KeyCorpusWorkers,
	KeyBoundary,
	KeyNormaliseOnLoad,
	KeyStorageBackend,
	KeyStorageDir,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to the defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultSettings()

	return &domain.Settings{
		Corpus: domain.CorpusSettings{
			Source:     s.getString(KeyCorpusSource, defaults.Corpus.Source),
			Extensions: s.configStore.GetStringSlice(KeyCorpusExtensions),
			Workers:    s.getInt(KeyCorpusWorkers, defaults.Corpus.Workers),
		},
		Normalise: domain.NormaliseSettings{
			Boundary: s.getBoundary(defaults.Normalise.Boundary),
			OnLoad:   s.getBool(KeyNormaliseOnLoad, defaults.Normalise.OnLoad),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			Dir:     s.configStore.GetString(KeyStorageDir),
		},
	}, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}
	if !settings.Normalise.Boundary.IsValid() {
		return fmt.Errorf("%w: boundary %q", domain.ErrInvalidInput, settings.Normalise.Boundary)
	}
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, settings.Storage.Backend)
	}

	if err := s.configStore.Set(KeyCorpusSource, settings.Corpus.Source); err != nil {
		return fmt.Errorf("save corpus source: %w", err)
	}
	if len(settings.Corpus.Extensions) > 0 {
		if err := s.configStore.Set(KeyCorpusExtensions, settings.Corpus.Extensions); err != nil {
			return fmt.Errorf("save corpus extensions: %w", err)
		}
	}
	if err := s.configStore.Set(KeyCorpusWorkers, settings.Corpus.Workers); err != nil {
		return fmt.Errorf("save corpus workers: %w", err)
	}
	if err := s.configStore.Set(KeyBoundary, settings.Normalise.Boundary.String()); err != nil {
		return fmt.Errorf("save boundary: %w", err)
	}
	if err := s.configStore.Set(KeyNormaliseOnLoad, settings.Normalise.OnLoad); err != nil {
		return fmt.Errorf("save normalise on_load: %w", err)
	}
	if err := s.configStore.Set(KeyStorageBackend, string(settings.Storage.Backend)); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if settings.Storage.Dir != "" {
		if err := s.configStore.Set(KeyStorageDir, settings.Storage.Dir); err != nil {
			return fmt.Errorf("save storage dir: %w", err)
		}
	}

	return nil
}

// SetBoundary updates the reflow boundary mode.
func (s *SettingsService) SetBoundary(boundary domain.Boundary) error {
	if !boundary.IsValid() {
		return fmt.Errorf("%w: boundary %q", domain.ErrInvalidInput, boundary)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Normalise.Boundary = boundary
	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return *domain.DefaultSettings()
}

// SetValue validates raw for key and stores it.
func (s *SettingsService) SetValue(key, raw string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	value, err := ParseValue(key, raw)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Values returns the effective value of every recognised key.
func (s *SettingsService) Values() ([]domain.Setting, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	exts := settings.Corpus.Extensions
	if len(exts) == 0 {
		exts = domain.DefaultExtensions
	}
	dir := settings.Storage.Dir
	if dir == "" {
		dir = "(default)"
	}
	effective := map[string]string{
		KeyCorpusSource:     settings.Corpus.Source,
		KeyCorpusExtensions: strings.Join(exts, ","),
		KeyCorpusWorkers:    strconv.Itoa(settings.Corpus.Workers),
		KeyBoundary:         settings.Normalise.Boundary.String(),
		KeyNormaliseOnLoad:  strconv.FormatBool(settings.Normalise.OnLoad),
		KeyStorageBackend:   string(settings.Storage.Backend),
		KeyStorageDir:       dir,
	}

	values := make([]domain.Setting, len(SettingKeys))
	for i, key := range SettingKeys {
		_, set := s.configStore.Get(key)
		values[i] = domain.Setting{Key: key, Value: effective[key], IsDefault: !set}
	}
	return values, nil
}

// Path returns where the settings are stored.
func (s *SettingsService) Path() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.Path()
}

// ParseValue converts the command-line form of a setting to the type it is
// stored as, validating it on the way.
func ParseValue(key, raw string) (any, error) {
	switch key {
	case KeyCorpusSource, KeyStorageDir:
		return raw, nil
	case KeyCorpusExtensions:
		var exts []string
		for ext := range strings.SplitSeq(raw, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				exts = append(exts, ext)
			}
		}
		return exts, nil
	case KeyCorpusWorkers:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		return n, nil
	case KeyBoundary:
		b := domain.Boundary(raw)
		if !b.IsValid() {
			return nil, fmt.Errorf("%w: %s must be %q or %q",
				domain.ErrInvalidInput, key, domain.BoundaryStrict, domain.BoundaryLegacy)
		}
		return b.String(), nil
	case KeyNormaliseOnLoad:
		switch strings.ToLower(raw) {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
	case KeyStorageBackend:
		b := domain.StorageBackend(raw)
		if !b.IsValid() {
			return nil, fmt.Errorf("%w: %s must be %q or %q",
				domain.ErrInvalidInput, key, domain.StorageSQLite, domain.StorageMemory)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val < 1 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBoundary(defaultVal domain.Boundary) domain.Boundary {
	boundary := domain.Boundary(s.configStore.GetString(KeyBoundary))
	if !boundary.IsValid() {
		return defaultVal
	}
	return boundary
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(KeyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

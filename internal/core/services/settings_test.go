package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/conllu-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

// failingConfigStore fails every write.
type failingConfigStore struct {
	*memory.ConfigStore
}

func (f failingConfigStore) Set(string, any) error {
	return errors.New("disk full")
}

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, *domain.DefaultSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyCorpusSource, "ud-ewt")
	_ = store.Set(KeyCorpusExtensions, []any{".conllu", ".txt"})
	_ = store.Set(KeyCorpusWorkers, int64(4))
	_ = store.Set(KeyBoundary, "legacy")
	_ = store.Set(KeyNormaliseOnLoad, false)
	_ = store.Set(KeyStorageBackend, "memory")
	_ = store.Set(KeyStorageDir, "/tmp/corpus")

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, "ud-ewt", settings.Corpus.Source)
	assert.Equal(t, []string{".conllu", ".txt"}, settings.Corpus.Extensions)
	assert.Equal(t, 4, settings.Corpus.Workers)
	assert.Equal(t, domain.BoundaryLegacy, settings.Normalise.Boundary)
	assert.False(t, settings.Normalise.OnLoad)
	assert.Equal(t, domain.StorageMemory, settings.Storage.Backend)
	assert.Equal(t, "/tmp/corpus", settings.Storage.Dir)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyBoundary, "loose")
	_ = store.Set(KeyStorageBackend, "postgres")
	_ = store.Set(KeyCorpusWorkers, -2)

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.BoundaryStrict, settings.Normalise.Boundary)
	assert.Equal(t, domain.StorageSQLite, settings.Storage.Backend)
	assert.Equal(t, 1, settings.Corpus.Workers)
}

func TestSettingsService_Save(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		store := memory.NewConfigStore()
		service := NewSettingsService(store)

		want := domain.DefaultSettings()
		want.Corpus.Source = "gum"
		want.Corpus.Extensions = []string{".conllu"}
		want.Corpus.Workers = 8
		want.Normalise.OnLoad = false
		want.Storage.Dir = "/data"

		require.NoError(t, service.Save(want))
		got, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore())

		settings := domain.DefaultSettings()
		settings.Normalise.Boundary = "loose"
		assert.ErrorIs(t, service.Save(settings), domain.ErrInvalidInput)

		settings = domain.DefaultSettings()
		settings.Storage.Backend = "postgres"
		assert.ErrorIs(t, service.Save(settings), domain.ErrInvalidInput)

		assert.ErrorIs(t, service.Save(nil), domain.ErrInvalidInput)
	})

	t.Run("wraps store errors", func(t *testing.T) {
		service := NewSettingsService(failingConfigStore{memory.NewConfigStore()})

		err := service.Save(domain.DefaultSettings())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save corpus source")
	})
}

func TestSettingsService_SetBoundary(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetBoundary(domain.BoundaryLegacy))
	assert.Equal(t, "legacy", store.GetString(KeyBoundary))

	err := service.SetBoundary("loose")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "legacy", store.GetString(KeyBoundary))
}

func TestSettingsService_GetDefaults(t *testing.T) {
	defaults := NewSettingsService(nil).GetDefaults()
	assert.Equal(t, domain.BoundaryStrict, defaults.Normalise.Boundary)
	assert.True(t, defaults.Normalise.OnLoad)
}

func TestSettingsService_NilStore(t *testing.T) {
	service := NewSettingsService(nil)

	_, err := service.Get()
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, service.Save(domain.DefaultSettings()), domain.ErrNotImplemented)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		key     string
		raw     string
		want    any
		wantErr bool
	}{
		{key: KeyCorpusSource, raw: "ud", want: "ud"},
		{key: KeyCorpusExtensions, raw: ".conllu, .conll,", want: []string{".conllu", ".conll"}},
		{key: KeyCorpusWorkers, raw: "4", want: 4},
		{key: KeyCorpusWorkers, raw: "0", wantErr: true},
		{key: KeyCorpusWorkers, raw: "many", wantErr: true},
		{key: KeyBoundary, raw: "legacy", want: "legacy"},
		{key: KeyBoundary, raw: "loose", wantErr: true},
		{key: KeyNormaliseOnLoad, raw: "no", want: false},
		{key: KeyNormaliseOnLoad, raw: "TRUE", want: true},
		{key: KeyNormaliseOnLoad, raw: "maybe", wantErr: true},
		{key: KeyStorageBackend, raw: "memory", want: "memory"},
		{key: KeyStorageBackend, raw: "redis", wantErr: true},
		{key: KeyStorageDir, raw: "/srv", want: "/srv"},
		{key: "search.mode", raw: "x", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.raw, func(t *testing.T) {
			got, err := ParseValue(tc.key, tc.raw)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSettingsService_SetValue(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetValue(KeyCorpusWorkers, "8"))
	require.NoError(t, service.SetValue(KeyBoundary, "legacy"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 8, settings.Corpus.Workers)
	assert.Equal(t, domain.BoundaryLegacy, settings.Normalise.Boundary)

	assert.ErrorIs(t, service.SetValue(KeyCorpusWorkers, "-2"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.SetValue("unknown.key", "x"), domain.ErrInvalidInput)

	failing := NewSettingsService(failingConfigStore{memory.NewConfigStore()})
	assert.ErrorContains(t, failing.SetValue(KeyCorpusSource, "ud"), "save corpus.source")

	assert.ErrorIs(t, NewSettingsService(nil).SetValue(KeyCorpusSource, "ud"), domain.ErrNotImplemented)
}

func TestSettingsService_Values(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	require.NoError(t, service.SetValue(KeyCorpusSource, "ud-gum"))

	values, err := service.Values()

	require.NoError(t, err)
	require.Len(t, values, len(SettingKeys))
	byKey := make(map[string]domain.Setting, len(values))
	for i, v := range values {
		assert.Equal(t, SettingKeys[i], v.Key, "values keep key order")
		byKey[v.Key] = v
	}

	assert.Equal(t, domain.Setting{Key: KeyCorpusSource, Value: "ud-gum"}, byKey[KeyCorpusSource])
	assert.Equal(t, domain.Setting{Key: KeyCorpusExtensions, Value: ".conllu,.conll", IsDefault: true},
		byKey[KeyCorpusExtensions])
	assert.Equal(t, "1", byKey[KeyCorpusWorkers].Value)
	assert.Equal(t, "true", byKey[KeyNormaliseOnLoad].Value)
	assert.Equal(t, "(default)", byKey[KeyStorageDir].Value)

	_, err = NewSettingsService(nil).Values()
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestSettingsService_Path(t *testing.T) {
	assert.Equal(t, ":memory:", NewSettingsService(memory.NewConfigStore()).Path())
	assert.Empty(t, NewSettingsService(nil).Path())
}

package driving

import "github.com/custodia-labs/conllu-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, filling in defaults.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// SetBoundary updates the reflow boundary mode.
	SetBoundary(boundary domain.Boundary) error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// SetValue validates and stores one key in its command-line form.
	SetValue(key, raw string) error

	// Values returns the effective value of every recognised key, in order.
	Values() ([]domain.Setting, error)

	// Path returns where the settings are stored.
	Path() string
}

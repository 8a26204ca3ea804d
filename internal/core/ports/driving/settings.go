package driving

import "github.com/custodia-labs/groundwork/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, filling defaults for unset keys.
	Get() (*domain.AppSettings, error)

	// Set stores a single setting by key after validating the result.
	Set(key, value string) error

	// Keys lists the supported setting keys.
	Keys() []string
}

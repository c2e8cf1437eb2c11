package driving

import "github.com/krlabs/kra/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings with defaults applied.
	Get() (*domain.AppSettings, error)

	// Set updates one setting by key and persists it.
	// Returns domain.ErrInvalidSetting for unknown keys or bad values.
	Set(key, value string) error

	// Keys returns the recognised setting keys in display order.
	Keys() []string

	// Value returns the effective value of a setting as text.
	Value(key string) (string, error)
}

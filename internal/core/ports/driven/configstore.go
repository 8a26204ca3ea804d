package driven

// ConfigStore holds raw configuration values under flat dot keys such as
// "chunking.window". Values come back as the backend decoded them; the
// settings service owns type coercion.
type ConfigStore interface {
	// Get returns the value and whether the key exists.
	Get(key string) (any, bool)

	// Keys lists stored keys in sorted order.
	Keys() []string

	// Set stores a value and persists immediately.
	Set(key string, value any) error

	Save() error

	Load() error

	// Path returns the configuration file path.
	Path() string
}

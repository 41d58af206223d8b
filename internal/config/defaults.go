package config

const (
	// DefaultName is the record name used when the config sets none.
	DefaultName = "authloop"

	// DefaultLogLevel is used when the config sets none.
	DefaultLogLevel = "warn"
)

// GetDefaultConfig returns default configuration
func GetDefaultConfig() AppConfig {
	return AppConfig{
		Name:     DefaultName,
		LogLevel: DefaultLogLevel,
	}
}

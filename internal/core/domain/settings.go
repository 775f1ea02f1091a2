package domain

import (
	"fmt"
	"time"
)

// StorageDriver selects the value-set repository backend.
type StorageDriver string

const (
	// StorageMemory keeps value sets in process memory.
	StorageMemory StorageDriver = "memory"
	// StorageSQLite persists value sets in a local SQLite database.
	StorageSQLite StorageDriver = "sqlite"
	// StoragePostgres persists value sets in PostgreSQL.
	StoragePostgres StorageDriver = "postgres"
)

// Settings holds the process configuration for the validator.
type Settings struct {
	// VocabularyDirectory is the root of root/<codeSystemDir>/<vendor files>.
	VocabularyDirectory string

	// Recursive makes the watcher observe every subdirectory of the root.
	Recursive bool

	// ValuesetDirectory holds value set exports loaded at startup.
	ValuesetDirectory string

	// ValidatorsFile is the TOML file defining node expressions and validators.
	ValidatorsFile string

	// Storage configures the value-set repository.
	Storage StorageSettings

	// Watcher configures reload triggering.
	Watcher WatcherSettings

	// Log configures logging output.
	Log LogSettings
}

// StorageSettings configures the value-set repository backend.
type StorageSettings struct {
	Driver StorageDriver
	// DSN is the PostgreSQL connection string (postgres driver only).
	DSN string
	// DataDir is where the SQLite database lives (sqlite driver only).
	DataDir string
}

// WatcherSettings configures the directory watcher.
type WatcherSettings struct {
	// Enabled turns change detection on.
	Enabled bool
	// Debounce is the quiet period after the last event before a reload starts.
	Debounce time.Duration
	// MinInterval is the minimum time between two reload starts.
	MinInterval time.Duration
}

// LogSettings configures logging.
type LogSettings struct {
	Verbose bool
	// Format is "console" or "json".
	Format string
}

// DefaultSettings returns sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Recursive: true,
		Storage: StorageSettings{
			Driver: StorageSQLite,
		},
		Watcher: WatcherSettings{
			Enabled:     true,
			Debounce:    2 * time.Second,
			MinInterval: 10 * time.Second,
		},
		Log: LogSettings{
			Format: "console",
		},
	}
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	switch s.Storage.Driver {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if s.Storage.DSN == "" {
			return fmt.Errorf("%w: storage.dsn is required for the postgres driver", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: storage driver %q", ErrUnsupportedType, s.Storage.Driver)
	}
	if s.Watcher.Debounce < 0 || s.Watcher.MinInterval < 0 {
		return fmt.Errorf("%w: watcher intervals must not be negative", ErrInvalidInput)
	}
	if s.Log.Format != "" && s.Log.Format != "console" && s.Log.Format != "json" {
		return fmt.Errorf("%w: log format %q", ErrInvalidInput, s.Log.Format)
	}
	return nil
}

// DurationValue converts a configuration value to a duration. Strings are
// parsed as Go durations ("2s", "500ms"); integers and floats are seconds.
// Anything else yields 0.
func DurationValue(v any) time.Duration {
	switch d := v.(type) {
	case time.Duration:
		return d
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0
		}
		return parsed
	case int:
		return time.Duration(d) * time.Second
	case int64:
		return time.Duration(d) * time.Second
	case float64:
		return time.Duration(d * float64(time.Second))
	default:
		return 0
	}
}

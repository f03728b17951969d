package config

import (
	"time"

	"meridian-hq/minos/pkg/govern"
	"meridian-hq/minos/pkg/provider"
)

// Config is the root configuration structure for the minos governance
// service.
type Config struct {
	// Server contains the HTTP adapter configuration.
	Server ServerConfig `yaml:"server"`

	// Laws contains the law store configuration: where bundles are loaded
	// from and whether to hot-reload them.
	Laws LawsConfig `yaml:"laws"`

	// Provider selects and configures the external model capability.
	Provider ProviderConfig `yaml:"provider"`

	// Govern contains the orchestration engine configuration.
	Govern govern.Config `yaml:"govern"`

	// Audit contains the trace archive configuration.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP adapter.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8581"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes. Compliance cycles can take several model round-trips, so
	// this should comfortably exceed the worst-case cycle duration.
	// Default: 5m
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LawsConfig contains configuration for the law store.
type LawsConfig struct {
	// Path is the law bundle file or directory. Empty means the built-in
	// default bundle.
	Path string `yaml:"path"`

	// Watch enables hot reload of the law path.
	// Default: true when Path is set
	Watch bool `yaml:"watch"`

	// WatchDebounce is the quiet period after a file event before the
	// snapshot is rebuilt.
	// Default: 250ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// ProviderConfig selects the capability implementation.
type ProviderConfig struct {
	// Mode is "simulated" (offline, deterministic) or "http".
	// Default: "simulated"
	Mode string `yaml:"mode"`

	// HTTP configures the HTTP-backed capability when Mode is "http".
	HTTP provider.HTTPConfig `yaml:"http"`
}

// AuditConfig contains configuration for the trace archive.
type AuditConfig struct {
	// Enabled turns trace archiving on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend is "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLitePath is the database file path for the sqlite backend.
	// Default: "data/audit.db"
	SQLitePath string `yaml:"sqlite_path"`

	// Buffer is the async recorder channel size.
	// Default: 1000
	Buffer int `yaml:"buffer"`

	// RetentionDays is how long archived traces are kept. Zero disables
	// pruning.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is the cron expression for retention pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains configuration for the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: json or text.
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains configuration for the metrics endpoint.
type MetricsConfig struct {
	// Enabled exposes GET /metrics on the server.
	// Default: true
	Enabled bool `yaml:"enabled"`
}

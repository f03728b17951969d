package config

import (
	"time"

	"meridian-hq/minos/pkg/govern"
)

// ApplyDefaults fills unset fields with their default values. Zero values
// that are meaningful (e.g. RetentionDays: 0 disables pruning) are only
// defaulted when the whole section is untouched.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = "127.0.0.1:8581"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 5 * time.Minute
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Laws.WatchDebounce == 0 {
		cfg.Laws.WatchDebounce = 250 * time.Millisecond
	}

	if cfg.Provider.Mode == "" {
		cfg.Provider.Mode = "simulated"
	}
	if cfg.Provider.HTTP.Timeout == 0 {
		cfg.Provider.HTTP.Timeout = 60 * time.Second
	}
	if cfg.Provider.HTTP.Name == "" {
		cfg.Provider.HTTP.Name = "default"
	}

	if cfg.Govern.MaxRetries == 0 {
		cfg.Govern.MaxRetries = govern.DefaultConfig().MaxRetries
	}
	if cfg.Govern.OnExhausted == "" {
		cfg.Govern.OnExhausted = govern.DefaultConfig().OnExhausted
	}

	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = "memory"
	}
	if cfg.Audit.SQLitePath == "" {
		cfg.Audit.SQLitePath = "data/audit.db"
	}
	if cfg.Audit.Buffer == 0 {
		cfg.Audit.Buffer = 1000
	}
	if cfg.Audit.PruneSchedule == "" {
		cfg.Audit.PruneSchedule = "0 3 * * *"
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
}

// NewDefault returns a fully defaulted configuration.
func NewDefault() *Config {
	cfg := &Config{
		Audit: AuditConfig{
			Enabled:       true,
			RetentionDays: 90,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: true},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

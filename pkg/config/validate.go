package config

import (
	"fmt"
	"net"
)

// Validate checks the configuration for consistency. It is called after
// defaulting, so unset fields have already been filled.
func Validate(cfg *Config) error {
	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		return fmt.Errorf("server.listen_address %q is not host:port: %w", cfg.Server.ListenAddress, err)
	}

	switch cfg.Provider.Mode {
	case "simulated":
	case "http":
		if cfg.Provider.HTTP.BaseURL == "" {
			return fmt.Errorf("provider.http.base_url is required when provider.mode is \"http\"")
		}
		if cfg.Provider.HTTP.Model == "" {
			return fmt.Errorf("provider.http.model is required when provider.mode is \"http\"")
		}
	default:
		return fmt.Errorf("unknown provider.mode %q (want \"simulated\" or \"http\")", cfg.Provider.Mode)
	}

	if err := cfg.Govern.Validate(); err != nil {
		return fmt.Errorf("govern: %w", err)
	}

	switch cfg.Audit.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown audit.backend %q (want \"memory\" or \"sqlite\")", cfg.Audit.Backend)
	}
	if cfg.Audit.RetentionDays < 0 {
		return fmt.Errorf("audit.retention_days must not be negative")
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown logging format %q", cfg.Telemetry.Logging.Format)
	}

	return nil
}

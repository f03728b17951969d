package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, applies
// MINOS_* environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Variables use
// the format MINOS_SECTION_FIELD and always win over file values.
func applyEnvOverrides(cfg *Config) {
	setString := func(key string, target *string) {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
	setBool := func(key string, target *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*target = b
			}
		}
	}
	setInt := func(key string, target *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*target = n
			}
		}
	}
	setDuration := func(key string, target *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*target = d
			}
		}
	}

	setString("MINOS_SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	setString("MINOS_LAWS_PATH", &cfg.Laws.Path)
	setBool("MINOS_LAWS_WATCH", &cfg.Laws.Watch)
	setString("MINOS_PROVIDER_MODE", &cfg.Provider.Mode)
	setString("MINOS_PROVIDER_BASE_URL", &cfg.Provider.HTTP.BaseURL)
	setString("MINOS_PROVIDER_API_KEY", &cfg.Provider.HTTP.APIKey)
	setString("MINOS_PROVIDER_MODEL", &cfg.Provider.HTTP.Model)
	setDuration("MINOS_PROVIDER_TIMEOUT", &cfg.Provider.HTTP.Timeout)
	setInt("MINOS_GOVERN_MAX_RETRIES", &cfg.Govern.MaxRetries)
	setDuration("MINOS_GOVERN_CALL_TIMEOUT", &cfg.Govern.CallTimeout)
	setBool("MINOS_AUDIT_ENABLED", &cfg.Audit.Enabled)
	setString("MINOS_AUDIT_BACKEND", &cfg.Audit.Backend)
	setString("MINOS_AUDIT_SQLITE_PATH", &cfg.Audit.SQLitePath)
	setString("MINOS_LOG_LEVEL", &cfg.Telemetry.Logging.Level)
	setString("MINOS_LOG_FORMAT", &cfg.Telemetry.Logging.Format)
}

// Package config defines the root configuration for the minos service and
// loads it from YAML with defaults, validation, and environment overrides.
package config

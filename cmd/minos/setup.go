package main

import (
	"context"
	"fmt"
	"log/slog"

	"meridian-hq/minos/pkg/config"
	"meridian-hq/minos/pkg/govern"
	"meridian-hq/minos/pkg/judge"
	"meridian-hq/minos/pkg/law/store"
	"meridian-hq/minos/pkg/provider"
	"meridian-hq/minos/pkg/revise"
	"meridian-hq/minos/pkg/sentinel"
	"meridian-hq/minos/pkg/telemetry/logging"
	"meridian-hq/minos/pkg/telemetry/metrics"
)

// loadConfig loads the config file, or the built-in defaults when no file
// was given.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.NewDefault(), nil
	}
	return config.LoadConfig(cfgFile)
}

// setupLogging installs the configured logger, honoring --verbose.
func setupLogging(cfg *config.Config) (*slog.Logger, error) {
	logCfg := cfg.Telemetry.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	return logging.Setup(logCfg, nil)
}

// buildCapability constructs the configured external model capability.
func buildCapability(cfg *config.Config, logger *slog.Logger) (provider.Capability, error) {
	switch cfg.Provider.Mode {
	case "simulated":
		return provider.NewSimulated(), nil
	case "http":
		return provider.NewHTTPClient(cfg.Provider.HTTP, logger), nil
	}
	return nil, fmt.Errorf("unknown provider mode %q", cfg.Provider.Mode)
}

// components bundles the wired core for the run and govern commands.
type components struct {
	store    *store.Store
	sentinel *sentinel.Sentinel
	engine   *govern.Engine
}

// buildEngine wires the law store, sentinel, judge, reviser, and
// orchestrator from configuration. m may be nil.
func buildEngine(ctx context.Context, cfg *config.Config, m *metrics.GovernanceMetrics, logger *slog.Logger) (*components, error) {
	var source store.Source
	if cfg.Laws.Path != "" {
		source = store.NewFileSource(cfg.Laws.Path, logger)
	} else {
		source = store.NewDefaultSource()
	}

	st, err := store.New(ctx, source, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize law store: %w", err)
	}

	capability, err := buildCapability(cfg, logger)
	if err != nil {
		return nil, err
	}

	sn := sentinel.New(logger)
	jd := judge.New(capability, logger)
	rv := revise.New(capability, logger)

	engine, err := govern.New(st, sn, jd, rv, cfg.Govern, m, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize engine: %w", err)
	}

	return &components{store: st, sentinel: sn, engine: engine}, nil
}

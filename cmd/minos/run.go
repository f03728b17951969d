package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"meridian-hq/minos/pkg/audit"
	"meridian-hq/minos/pkg/config"
	"meridian-hq/minos/pkg/law/store"
	"meridian-hq/minos/pkg/server"
	"meridian-hq/minos/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the governance server",
	Long: `Start the governance server with the specified configuration.

The server exposes the compliance cycle, the standalone red-line check, the
active law set, and health and metrics endpoints.

Examples:
  # Start with built-in defaults (simulated provider, default laws)
  minos run

  # Start with custom config
  minos run --config /etc/minos/config.yaml

  # Override listen address
  minos run --listen 0.0.0.0:8581

  # Validate config without starting
  minos run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("configuration is valid")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	var (
		registry *prometheus.Registry
		m        *metrics.GovernanceMetrics
	)
	if cfg.Telemetry.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		m = metrics.New(registry)
	}

	core, err := buildEngine(ctx, cfg, m, logger)
	if err != nil {
		return err
	}

	// Law hot reload
	if cfg.Laws.Path != "" && cfg.Laws.Watch {
		watcher := store.NewWatcher(core.store, cfg.Laws.Path, cfg.Laws.WatchDebounce, logger)
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("law watcher stopped", "error", err)
			}
		}()
	}

	// Trace archive
	var recorder *audit.Recorder
	if cfg.Audit.Enabled {
		storage, err := buildAuditStorage(cfg.Audit)
		if err != nil {
			return err
		}
		defer storage.Close()

		recorder = audit.NewRecorder(storage, &audit.RecorderConfig{Buffer: cfg.Audit.Buffer})
		defer recorder.Close()

		pruner := audit.NewPruner(storage, audit.RetentionConfig{
			RetentionDays: cfg.Audit.RetentionDays,
			Schedule:      cfg.Audit.PruneSchedule,
		})
		if err := pruner.Start(ctx); err != nil {
			return err
		}
	}

	srv, err := server.New(server.Options{
		Config:   cfg.Server,
		Engine:   core.engine,
		Store:    core.store,
		Sentinel: core.sentinel,
		Recorder: recorder,
		Registry: registry,
		Version:  Version,
	})
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

// buildAuditStorage constructs the configured archive backend.
func buildAuditStorage(cfg config.AuditConfig) (audit.Storage, error) {
	switch cfg.Backend {
	case "memory":
		return audit.NewMemoryStorage(), nil
	case "sqlite":
		sqliteCfg := audit.DefaultSQLiteConfig()
		sqliteCfg.Path = cfg.SQLitePath
		return audit.NewSQLiteStorage(sqliteCfg)
	}
	return nil, fmt.Errorf("unknown audit backend %q", cfg.Backend)
}

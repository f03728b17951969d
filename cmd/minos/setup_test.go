package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"meridian-hq/minos/pkg/audit"
	"meridian-hq/minos/pkg/config"
	"meridian-hq/minos/pkg/provider"
)

func TestBuildCapability(t *testing.T) {
	logger := slog.Default()

	t.Run("simulated", func(t *testing.T) {
		cfg := config.NewDefault()
		capability, err := buildCapability(cfg, logger)
		if err != nil {
			t.Fatalf("buildCapability() failed: %v", err)
		}
		if _, ok := capability.(*provider.Simulated); !ok {
			t.Errorf("capability = %T, want *provider.Simulated", capability)
		}
	})

	t.Run("http", func(t *testing.T) {
		cfg := config.NewDefault()
		cfg.Provider.Mode = "http"
		cfg.Provider.HTTP.BaseURL = "https://api.example.com/v1"
		cfg.Provider.HTTP.Model = "gov-model"

		capability, err := buildCapability(cfg, logger)
		if err != nil {
			t.Fatalf("buildCapability() failed: %v", err)
		}
		if _, ok := capability.(*provider.HTTPClient); !ok {
			t.Errorf("capability = %T, want *provider.HTTPClient", capability)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		cfg := config.NewDefault()
		cfg.Provider.Mode = "psychic"
		if _, err := buildCapability(cfg, logger); err == nil {
			t.Fatal("buildCapability() expected error")
		}
	})
}

func TestBuildAuditStorage(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		storage, err := buildAuditStorage(config.AuditConfig{Backend: "memory"})
		if err != nil {
			t.Fatalf("buildAuditStorage() failed: %v", err)
		}
		defer storage.Close()
		if _, ok := storage.(*audit.MemoryStorage); !ok {
			t.Errorf("storage = %T, want *audit.MemoryStorage", storage)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		storage, err := buildAuditStorage(config.AuditConfig{
			Backend:    "sqlite",
			SQLitePath: filepath.Join(t.TempDir(), "audit.db"),
		})
		if err != nil {
			t.Fatalf("buildAuditStorage() failed: %v", err)
		}
		defer storage.Close()
		if _, ok := storage.(*audit.SQLiteStorage); !ok {
			t.Errorf("storage = %T, want *audit.SQLiteStorage", storage)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		if _, err := buildAuditStorage(config.AuditConfig{Backend: "tape"}); err == nil {
			t.Fatal("buildAuditStorage() expected error")
		}
	})
}

func TestBuildEngine(t *testing.T) {
	cfg := config.NewDefault()
	core, err := buildEngine(context.Background(), cfg, nil, slog.Default())
	if err != nil {
		t.Fatalf("buildEngine() failed: %v", err)
	}
	if core.store == nil || core.sentinel == nil || core.engine == nil {
		t.Errorf("components = %+v, want all wired", core)
	}
	if core.store.ActiveSnapshot().Len() == 0 {
		t.Error("default law bundle is empty")
	}
}

func TestFlagOrFile(t *testing.T) {
	t.Run("value wins when no file", func(t *testing.T) {
		got, err := flagOrFile("direct", "")
		if err != nil || got != "direct" {
			t.Errorf("flagOrFile() = (%q, %v)", got, err)
		}
	})

	t.Run("file contents trimmed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "draft.txt")
		if err := os.WriteFile(path, []byte("from file\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := flagOrFile("", path)
		if err != nil || got != "from file" {
			t.Errorf("flagOrFile() = (%q, %v)", got, err)
		}
	})

	t.Run("both set rejected", func(t *testing.T) {
		if _, err := flagOrFile("x", "y"); err == nil {
			t.Fatal("flagOrFile() expected error when both are set")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := flagOrFile("", filepath.Join(t.TempDir(), "absent")); err == nil {
			t.Fatal("flagOrFile() expected error for missing file")
		}
	})
}

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version must have a default")
	}
}

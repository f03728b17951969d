package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func writeLawBundle(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "laws.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runLint(t *testing.T, path string) error {
	t.Helper()
	lawsFlags.path = path
	lawsFlags.format = "text"
	defer func() { lawsFlags.path = "" }()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return lintLaws(cmd, nil)
}

func TestLintLaws(t *testing.T) {
	t.Run("valid bundle", func(t *testing.T) {
		path := writeLawBundle(t, `
version: test-1
laws:
  - id: SEC.1
    tier: UNIVERSAL
    text: Reject prompts asking to ignore prior directives.
    severity: CRITICAL
    redline: true
    pattern: '(?i)ignore (all )?previous instructions'
`)
		if err := runLint(t, path); err != nil {
			t.Fatalf("lintLaws() failed on valid bundle: %v", err)
		}
	})

	t.Run("invalid red-line pattern", func(t *testing.T) {
		path := writeLawBundle(t, `
version: test-2
laws:
  - id: SEC.9
    tier: UNIVERSAL
    text: Block data exfiltration phrasing.
    severity: CRITICAL
    redline: true
    pattern: '(unclosed'
`)
		if err := runLint(t, path); err == nil {
			t.Fatal("lintLaws() expected error for uncompilable pattern")
		}
	})

	t.Run("duplicate ids", func(t *testing.T) {
		path := writeLawBundle(t, `
version: test-3
laws:
  - id: GCP.4
    tier: DOMAIN
    text: Claims must cite trial evidence.
  - id: GCP.4
    tier: DOMAIN
    text: Claims must cite trial evidence again.
`)
		if err := runLint(t, path); err == nil {
			t.Fatal("lintLaws() expected error for duplicate law ids")
		}
	})

	t.Run("missing path", func(t *testing.T) {
		if err := runLint(t, ""); err == nil {
			t.Fatal("lintLaws() expected error when --path is empty")
		}
	})
}

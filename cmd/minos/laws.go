package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"meridian-hq/minos/pkg/law"
	"meridian-hq/minos/pkg/law/store"
)

var lawsFlags struct {
	path   string
	format string
}

var lawsCmd = &cobra.Command{
	Use:   "laws",
	Short: "Inspect and validate law bundles",
}

var lawsLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate law bundle files",
	Long: `Validate law bundle files for structural errors.

The lint command loads a bundle file or directory and checks every law:
  - required fields (id, text)
  - tier, severity, and red-line constraints
  - red-line pattern compilation
  - duplicate law IDs across the bundle

Examples:
  # Lint a single bundle
  minos laws lint --path laws.yaml

  # Lint a directory of bundles
  minos laws lint --path laws/

  # JSON output for CI
  minos laws lint --path laws/ --format json`,
	RunE: lintLaws,
}

var lawsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active law set",
	Long: `List the laws that would be active for the given configuration.

Without --path the built-in default laws are shown.

Examples:
  # Show the built-in defaults
  minos laws list

  # Show a custom bundle
  minos laws list --path laws/`,
	RunE: listLaws,
}

func init() {
	rootCmd.AddCommand(lawsCmd)
	lawsCmd.AddCommand(lawsLintCmd)
	lawsCmd.AddCommand(lawsListCmd)

	lawsCmd.PersistentFlags().StringVarP(&lawsFlags.path, "path", "p", "", "law bundle file or directory")
	lawsCmd.PersistentFlags().StringVar(&lawsFlags.format, "format", "text", "output format: text, json")
}

// lintResult is the outcome of validating one law bundle source.
type lintResult struct {
	Path    string   `json:"path"`
	Version string   `json:"version,omitempty"`
	Laws    int      `json:"laws"`
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors,omitempty"`
}

func lintLaws(cmd *cobra.Command, args []string) error {
	if lawsFlags.path == "" {
		return fmt.Errorf("--path must be specified")
	}

	result := lintResult{Path: lawsFlags.path, Valid: true}

	source := store.NewFileSource(lawsFlags.path, nil)
	version, laws, err := source.LoadLaws(cmd.Context())
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	} else {
		result.Version = version
		result.Laws = len(laws)
		if _, err := law.NewSnapshot(version, laws); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err.Error())
		}
	}

	if lawsFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		if result.Valid {
			fmt.Printf("%s: ok (%d laws, version %s)\n", result.Path, result.Laws, result.Version)
		} else {
			fmt.Printf("%s: invalid\n", result.Path)
			for _, msg := range result.Errors {
				fmt.Printf("  %s\n", msg)
			}
		}
	}

	if !result.Valid {
		return fmt.Errorf("law bundle validation failed")
	}
	return nil
}

func listLaws(cmd *cobra.Command, args []string) error {
	var source store.Source
	if lawsFlags.path != "" {
		source = store.NewFileSource(lawsFlags.path, nil)
	} else {
		source = store.NewDefaultSource()
	}

	version, laws, err := source.LoadLaws(cmd.Context())
	if err != nil {
		return err
	}
	snapshot, err := law.NewSnapshot(version, laws)
	if err != nil {
		return err
	}

	if lawsFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot.Laws())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTIER\tSEVERITY\tREDLINE\tTAGS\tTEXT\n")
	for _, l := range snapshot.Laws() {
		text := l.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\n",
			l.ID, l.Tier, l.Severity, l.Redline, strings.Join(l.Tags, ","), text)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d laws, version %s\n", snapshot.Len(), version)
	return nil
}

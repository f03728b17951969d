package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "minos",
	Short: "Minos - compliance governance for generative agents",
	Long: `Minos sits between a content-generating process and the end user,
checking every output against a versioned set of laws.

It provides:
  - Red-line prompt screening before any generation cost is incurred
  - Tiered, context-filtered law selection
  - An evaluate/revise loop that rewrites violations instead of blocking them
  - An auditable trace of every decision`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

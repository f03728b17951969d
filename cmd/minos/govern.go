package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"meridian-hq/minos/pkg/govern"
)

var governFlags struct {
	prompt     string
	promptFile string
	draft      string
	draftFile  string
	tags       []string
}

var governCmd = &cobra.Command{
	Use:   "govern",
	Short: "Run a single compliance cycle",
	Long: `Run one compliance cycle against the configured law set and print
the resulting trace as JSON.

With only a prompt, the command performs the red-line check and approves or
blocks the prompt. With a draft, the full critique-and-revise loop runs
against the laws selected for the given context tags.

Examples:
  # Red-line check a prompt
  minos govern --prompt "Summarize the trial results"

  # Full cycle over a draft, scoped to clinical laws
  minos govern --prompt "Draft a dosage note" \
    --draft "We have a hunch the dosage should double" \
    --tags clinical_trials

  # Read the draft from a file
  minos govern --prompt "Review this" --draft-file draft.txt`,
	RunE: runGovern,
}

func init() {
	rootCmd.AddCommand(governCmd)

	governCmd.Flags().StringVarP(&governFlags.prompt, "prompt", "p", "", "input prompt")
	governCmd.Flags().StringVar(&governFlags.promptFile, "prompt-file", "", "read the prompt from a file")
	governCmd.Flags().StringVarP(&governFlags.draft, "draft", "d", "", "draft content to govern")
	governCmd.Flags().StringVar(&governFlags.draftFile, "draft-file", "", "read the draft from a file")
	governCmd.Flags().StringSliceVarP(&governFlags.tags, "tags", "t", nil, "context tags for law selection")
}

func runGovern(cmd *cobra.Command, args []string) error {
	prompt, err := flagOrFile(governFlags.prompt, governFlags.promptFile)
	if err != nil {
		return err
	}
	if prompt == "" {
		return fmt.Errorf("either --prompt or --prompt-file must be specified")
	}

	draft, err := flagOrFile(governFlags.draft, governFlags.draftFile)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	core, err := buildEngine(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}

	result, err := core.engine.RunComplianceCycle(ctx, govern.Request{
		Prompt:      prompt,
		Draft:       draft,
		ContextTags: governFlags.tags,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// flagOrFile resolves a value given directly or via a file path. The two
// are mutually exclusive.
func flagOrFile(value, path string) (string, error) {
	if value != "" && path != "" {
		return "", fmt.Errorf("flag value and file path are mutually exclusive")
	}
	if path == "" {
		return value, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

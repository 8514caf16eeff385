package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse-go/internal/analytics"
	"github.com/repopulse/repopulse-go/internal/annotate"
	"github.com/repopulse/repopulse-go/internal/auth"
	"github.com/repopulse/repopulse-go/internal/output"
)

var (
	inspectWindowDays int
	inspectSave       bool
	inspectBrief      bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <owner/repo>",
	Short: "Run the full analysis over a repository's recent history",
	Long: `Fetch history for a repository and compute the full snapshot:
contributor stats, knowledge map, bus factors, review culture, branch
hygiene, and a synthesized changelog.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntVarP(&inspectWindowDays, "window-days", "w", 0, "analysis window in days (default from config)")
	inspectCmd.Flags().BoolVar(&inspectSave, "save", false, "persist the snapshot for later comparison")
	inspectCmd.Flags().BoolVar(&inspectBrief, "brief", false, "add an LLM-written briefing (requires an API key)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	window, err := analysisWindow(inspectWindowDays)
	if err != nil {
		return err
	}

	h, err := loadHistory(ctx, args[0], window.Start)
	if err != nil {
		return err
	}

	snap, err := analytics.NewRegistry(logger).RunAll(ctx, h, window, analysisOptions())
	if err != nil {
		return err
	}

	view := output.SnapshotView{Snapshot: snap}

	if inspectBrief {
		apiKey := cfg.Annotate.APIKey
		if apiKey == "" {
			apiKey, _ = auth.NewKeyring(logger).APIKey()
		}
		briefing, err := annotate.New(apiKey, cfg.Annotate.Model, logger).Annotate(ctx, snap)
		switch {
		case errors.Is(err, annotate.ErrDisabled):
			logger.Warn("briefing skipped: no API key configured, run 'pulse login --api-key'")
		case err != nil:
			logger.WithError(err).Warn("briefing failed, continuing without it")
		default:
			view.Briefing = briefing
		}
	}

	if inspectSave {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.SaveSnapshot(ctx, snap)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Snapshot saved: %s\n", id)
	}

	return render(view)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse-go/internal/analytics"
	"github.com/repopulse/repopulse-go/internal/output"
)

var changelogWindowDays int

var changelogCmd = &cobra.Command{
	Use:   "changelog <owner/repo>",
	Short: "Synthesize a categorized changelog from merged PRs and commits",
	Args:  cobra.ExactArgs(1),
	RunE:  runChangelog,
}

func init() {
	changelogCmd.Flags().IntVarP(&changelogWindowDays, "window-days", "w", 0, "window in days (default from config)")
	rootCmd.AddCommand(changelogCmd)
}

func runChangelog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	window, err := analysisWindow(changelogWindowDays)
	if err != nil {
		return err
	}

	h, err := loadHistory(ctx, args[0], window.Start)
	if err != nil {
		return err
	}

	report, err := analytics.SynthesizeChangelog(ctx, h, window, analysisOptions())
	if err != nil {
		return err
	}
	return render(output.ChangelogView{ChangelogReport: report})
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse-go/internal/analytics"
	"github.com/repopulse/repopulse-go/internal/output"
)

var whatifWindowDays int

var whatifCmd = &cobra.Command{
	Use:   "whatif <owner/repo> <contributor>...",
	Short: "Simulate the departure of one or more contributors",
	Long: `Recompute the knowledge map and bus factors with the named
contributors' historical weight removed. Their weight is subtracted, not
redistributed: the simulation shows the knowledge that would actually be
gone. Contributors are named by login, or email or display name for
commits without a linked account.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runWhatif,
}

func init() {
	whatifCmd.Flags().IntVarP(&whatifWindowDays, "window-days", "w", 0, "analysis window in days (default from config)")
	rootCmd.AddCommand(whatifCmd)
}

func runWhatif(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	window, err := analysisWindow(whatifWindowDays)
	if err != nil {
		return err
	}

	h, err := loadHistory(ctx, args[0], window.Start)
	if err != nil {
		return err
	}

	opts := analysisOptions()
	km, err := analytics.BuildKnowledgeMap(ctx, h, window, opts)
	if err != nil {
		return err
	}

	result, err := analytics.SimulateRemoval(km.Matrix, args[1:], opts)
	if err != nil {
		return fmt.Errorf("simulate removal: %w", err)
	}
	return render(output.WhatIfView{WhatIfResult: result})
}

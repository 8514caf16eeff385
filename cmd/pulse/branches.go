package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse-go/internal/analytics"
	"github.com/repopulse/repopulse-go/internal/output"
)

var branchesInactivityDays int

var branchesCmd = &cobra.Command{
	Use:   "branches <owner/repo>",
	Short: "Classify branches as wip, abandoned, merged, or orphaned",
	Long: `Classify every branch other than the default branch by merge state
and recency, and list the ones that can be deleted without losing work.`,
	Args: cobra.ExactArgs(1),
	RunE: runBranches,
}

func init() {
	branchesCmd.Flags().IntVar(&branchesInactivityDays, "inactivity-days", 0, "days without activity before a branch counts as stale (default from config)")
	rootCmd.AddCommand(branchesCmd)
}

func runBranches(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Branch classification looks at all refs, not just a window, but
	// fetching still needs a lower bound for commit history.
	window, err := analysisWindow(0)
	if err != nil {
		return err
	}

	h, err := loadHistory(ctx, args[0], window.Start)
	if err != nil {
		return err
	}

	opts := analysisOptions()
	if branchesInactivityDays > 0 {
		opts.InactivityDays = branchesInactivityDays
	}

	report, err := analytics.ClassifyBranches(h, time.Now().UTC(), opts)
	if err != nil {
		return err
	}
	return render(output.BranchReportView{BranchReport: report})
}

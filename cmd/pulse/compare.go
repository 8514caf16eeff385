package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse-go/internal/analytics"
	"github.com/repopulse/repopulse-go/internal/models"
	"github.com/repopulse/repopulse-go/internal/output"
)

var compareWindowDays int

var compareCmd = &cobra.Command{
	Use:   "compare <owner/repo>",
	Short: "Compare the current window against the one before it",
	Long: `Run the full analysis over two back-to-back windows and report
metric deltas and contributor churn. The windows share a boundary but
never overlap, so no event is counted twice.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().IntVarP(&compareWindowDays, "window-days", "w", 0, "window length in days (default from config)")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	days := compareWindowDays
	if days <= 0 {
		days = cfg.Analysis.WindowDays
	}
	end := time.Now().UTC()
	mid := end.AddDate(0, 0, -days)

	windowB, err := models.NewWindow(mid, end)
	if err != nil {
		return err
	}
	windowA, err := models.NewWindow(mid.AddDate(0, 0, -days), mid)
	if err != nil {
		return err
	}

	h, err := loadHistory(ctx, args[0], windowA.Start)
	if err != nil {
		return err
	}

	report, err := analytics.NewRegistry(logger).Compare(ctx, h, windowA, windowB, analysisOptions())
	if err != nil {
		return err
	}
	return render(output.ComparisonView{ComparisonReport: report})
}

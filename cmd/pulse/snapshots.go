package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse-go/internal/output"
)

var snapshotsLimit int

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage saved analysis snapshots",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list <owner/repo>",
	Short: "List saved snapshots for a repository, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.ListSnapshots(cmd.Context(), args[0], snapshotsLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No snapshots saved. Run 'pulse inspect --save' first.")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%s  %s  %s -> %s\n",
				rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"),
				rec.WindowStart.Format("2006-01-02"), rec.WindowEnd.Format("2006-01-02"))
		}
		return nil
	},
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <snapshot-id>",
	Short: "Render a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.GetSnapshot(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(output.SnapshotView{Snapshot: rec.Snapshot})
	},
}

var snapshotsDeleteCmd = &cobra.Command{
	Use:   "delete <snapshot-id>",
	Short: "Delete a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteSnapshot(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted snapshot %s\n", args[0])
		return nil
	},
}

func init() {
	snapshotsListCmd.Flags().IntVarP(&snapshotsLimit, "limit", "n", 20, "maximum snapshots to list")
	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsShowCmd)
	snapshotsCmd.AddCommand(snapshotsDeleteCmd)
	rootCmd.AddCommand(snapshotsCmd)
}

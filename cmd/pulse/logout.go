package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse-go/internal/auth"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials from the OS keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		keyring := auth.NewKeyring(logger)
		if err := keyring.DeleteToken(); err != nil {
			return err
		}
		if err := keyring.DeleteAPIKey(); err != nil {
			return err
		}
		fmt.Println("Credentials removed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

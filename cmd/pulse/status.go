package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse-go/internal/auth"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and credential status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("RepoPulse status")
	fmt.Println()

	fmt.Println("Configuration:")
	fmt.Printf("  Storage:        %s\n", cfg.Storage.Type)
	if cfg.Storage.Type == "sqlite" {
		fmt.Printf("  Database:       %s\n", cfg.Storage.LocalPath)
	}
	fmt.Printf("  Cache:          %s (ttl %s)\n", cfg.Cache.Path, cfg.Cache.TTL)
	fmt.Printf("  Window:         %d days\n", cfg.Analysis.WindowDays)
	fmt.Printf("  Half-life:      %.0f days\n", cfg.Analysis.HalfLifeDays)
	fmt.Printf("  Output format:  %s\n", cfg.Output.Format)
	fmt.Println()

	keyring := auth.NewKeyring(logger)
	fmt.Println("Credentials:")
	fmt.Printf("  GitHub token:   %s\n", credentialStatus(cfg.GitHub.Token != "", keyring.Token, auth.EnvToken))
	fmt.Printf("  OpenAI API key: %s\n", credentialStatus(cfg.Annotate.APIKey != "", keyring.APIKey, auth.EnvAPIKey))
	return nil
}

func credentialStatus(inConfig bool, fromKeyring func() (string, error), envVar string) string {
	if os.Getenv(envVar) != "" {
		return "set (environment)"
	}
	if inConfig {
		return "set (config file)"
	}
	if v, err := fromKeyring(); err == nil && v != "" {
		return "set (keychain)"
	}
	return "not set"
}

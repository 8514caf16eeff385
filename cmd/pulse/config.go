package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging defaults, the config file,
.env files, and environment variables. Credentials are redacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		redacted := *cfg
		if redacted.GitHub.Token != "" {
			redacted.GitHub.Token = "<redacted>"
		}
		if redacted.Annotate.APIKey != "" {
			redacted.Annotate.APIKey = "<redacted>"
		}
		if redacted.Storage.PostgresDSN != "" {
			redacted.Storage.PostgresDSN = "<redacted>"
		}

		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		if err := enc.Encode(redacted); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

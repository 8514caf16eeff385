package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/repopulse/repopulse-go/internal/auth"
)

const tokenSettingsURL = "https://github.com/settings/tokens/new?scopes=repo&description=RepoPulse"

var loginAPIKey bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a GitHub token (or annotation API key) in the OS keychain",
	Long: `Store credentials in the OS keychain so they never sit in a config
file. The GitHub token needs the repo scope for private repositories;
public repositories work with any token.

Use --api-key to store the OpenAI API key used by 'pulse inspect --brief'.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&loginAPIKey, "api-key", false, "store the annotation API key instead of the GitHub token")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	keyring := auth.NewKeyring(logger)

	if loginAPIKey {
		key, err := promptSecret("Paste your OpenAI API key: ")
		if err != nil {
			return err
		}
		if err := keyring.SaveAPIKey(key); err != nil {
			return err
		}
		fmt.Println("API key saved to OS keychain.")
		return nil
	}

	fmt.Println("RepoPulse needs a GitHub personal access token.")
	fmt.Printf("Opening %s\n", tokenSettingsURL)
	if err := browser.OpenURL(tokenSettingsURL); err != nil {
		fmt.Println("Could not open a browser; visit the URL manually.")
	}

	token, err := promptSecret("Paste your token: ")
	if err != nil {
		return err
	}
	if err := keyring.SaveToken(token); err != nil {
		return err
	}
	fmt.Println("Token saved to OS keychain.")
	return nil
}

// promptSecret reads a line without echoing when stdin is a terminal.
func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(line), nil
}

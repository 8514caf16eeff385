// Package auth stores credentials in the OS keychain, with environment
// variables as the override for CI and headless machines.
package auth

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"
)

const (
	// keyringService is the service name in the OS keychain.
	keyringService = "RepoPulse"

	// keyringTokenItem is the key for the GitHub token.
	keyringTokenItem = "github-token"

	// keyringAPIKeyItem is the key for the annotation API key.
	keyringAPIKeyItem = "openai-api-key"

	// EnvToken overrides the stored GitHub token when set.
	EnvToken = "PULSE_GITHUB_TOKEN"

	// EnvAPIKey overrides the stored annotation API key when set.
	EnvAPIKey = "PULSE_OPENAI_API_KEY"
)

// Keyring handles secure credential storage in the OS keychain.
// macOS uses Keychain Access, Windows the Credential Manager, Linux the
// Secret Service (requires libsecret).
type Keyring struct {
	logger *logrus.Logger
}

func NewKeyring(logger *logrus.Logger) *Keyring {
	if logger == nil {
		logger = logrus.New()
	}
	return &Keyring{logger: logger}
}

// SaveToken stores the GitHub token in the OS keychain.
func (k *Keyring) SaveToken(token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if err := keyring.Set(keyringService, keyringTokenItem, token); err != nil {
		return fmt.Errorf("save to OS keychain: %w", err)
	}
	k.logger.WithField("service", keyringService).Info("github token saved to keychain")
	return nil
}

// Token returns the GitHub token: the environment variable when set,
// otherwise the keychain. An unset token is empty, not an error.
func (k *Keyring) Token() (string, error) {
	if token := os.Getenv(EnvToken); token != "" {
		return token, nil
	}
	token, err := keyring.Get(keyringService, keyringTokenItem)
	if err == keyring.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read from OS keychain: %w", err)
	}
	return token, nil
}

// DeleteToken removes the GitHub token. Deleting an absent token is not
// an error.
func (k *Keyring) DeleteToken() error {
	err := keyring.Delete(keyringService, keyringTokenItem)
	if err == keyring.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete from OS keychain: %w", err)
	}
	k.logger.Info("github token deleted from keychain")
	return nil
}

// SaveAPIKey stores the annotation API key in the OS keychain.
func (k *Keyring) SaveAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("api key cannot be empty")
	}
	if err := keyring.Set(keyringService, keyringAPIKeyItem, apiKey); err != nil {
		return fmt.Errorf("save to OS keychain: %w", err)
	}
	k.logger.WithField("service", keyringService).Info("api key saved to keychain")
	return nil
}

// APIKey returns the annotation API key: the environment variable when
// set, otherwise the keychain. Unset is empty, not an error.
func (k *Keyring) APIKey() (string, error) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key, nil
	}
	key, err := keyring.Get(keyringService, keyringAPIKeyItem)
	if err == keyring.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read from OS keychain: %w", err)
	}
	return key, nil
}

// DeleteAPIKey removes the annotation API key.
func (k *Keyring) DeleteAPIKey() error {
	err := keyring.Delete(keyringService, keyringAPIKeyItem)
	if err == keyring.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete from OS keychain: %w", err)
	}
	return nil
}

package auth

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"
)

func testKeyring(t *testing.T) *Keyring {
	t.Helper()
	keyring.MockInit()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewKeyring(logger)
}

func TestSaveAndGetToken(t *testing.T) {
	k := testKeyring(t)

	if err := k.SaveToken("ghp_test123"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	token, err := k.Token()
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if token != "ghp_test123" {
		t.Errorf("token = %q, want ghp_test123", token)
	}
}

func TestEnvOverridesKeychain(t *testing.T) {
	k := testKeyring(t)

	if err := k.SaveToken("ghp_stored"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	t.Setenv(EnvToken, "ghp_from_env")

	token, err := k.Token()
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if token != "ghp_from_env" {
		t.Errorf("token = %q, want env var to win", token)
	}
}

func TestMissingTokenIsNotAnError(t *testing.T) {
	k := testKeyring(t)

	token, err := k.Token()
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty", token)
	}
}

func TestDeleteToken(t *testing.T) {
	k := testKeyring(t)

	if err := k.SaveToken("ghp_test123"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if err := k.DeleteToken(); err != nil {
		t.Fatalf("delete token: %v", err)
	}
	if token, _ := k.Token(); token != "" {
		t.Errorf("token = %q after delete, want empty", token)
	}
	// Deleting again is a no-op.
	if err := k.DeleteToken(); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestRejectEmptyToken(t *testing.T) {
	k := testKeyring(t)

	if err := k.SaveToken(""); err == nil {
		t.Error("expected error saving empty token")
	}
	if err := k.SaveAPIKey(""); err == nil {
		t.Error("expected error saving empty api key")
	}
}

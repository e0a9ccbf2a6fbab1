package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:8000" {
		t.Errorf("base_url = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout != 60*time.Second {
		t.Errorf("timeout = %v", cfg.Server.Timeout)
	}
	if cfg.UI.HistoryLimit != 50 {
		t.Errorf("history_limit = %d", cfg.UI.HistoryLimit)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: https://todo.example.com
  timeout: 30s
logger:
  level: debug
  format: json
ui:
  assistant_name: Helper
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BaseURL != "https://todo.example.com" {
		t.Errorf("base_url = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Server.Timeout)
	}
	if cfg.Logger.Format != "json" {
		t.Errorf("format = %q", cfg.Logger.Format)
	}
	if cfg.UI.AssistantName != "Helper" {
		t.Errorf("assistant_name = %q", cfg.UI.AssistantName)
	}
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	path := writeConfig(t, "server:\n  base_url: ftp://nope\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for non-http base_url")
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	path := writeConfig(t, "logger:\n  level: loud\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for unknown level")
	}
}

func TestEncryptedTokenRoundTrip(t *testing.T) {
	enc, err := EncryptValue("secret-token", "hunter2")
	if err != nil {
		t.Fatalf("EncryptValue: %v", err)
	}

	path := writeConfig(t, "auth:\n  token: enc:"+enc+"\n")
	t.Setenv(PassphraseEnv, "hunter2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.Token != "secret-token" {
		t.Errorf("token = %q, want decrypted value", cfg.Auth.Token)
	}
}

func TestEncryptedTokenWithoutPassphrase(t *testing.T) {
	enc, err := EncryptValue("secret-token", "hunter2")
	if err != nil {
		t.Fatalf("EncryptValue: %v", err)
	}
	path := writeConfig(t, "auth:\n  token: enc:"+enc+"\n")
	t.Setenv(PassphraseEnv, "")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error when passphrase env is unset")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	enc, err := EncryptValue("secret", "right")
	if err != nil {
		t.Fatalf("EncryptValue: %v", err)
	}
	if _, err := DecryptValue(enc, "wrong"); err == nil {
		t.Fatal("expected decrypt failure with wrong passphrase")
	}
}

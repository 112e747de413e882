package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[cloudstack]
api_url = "https://acs.example.com/client/api"
api_key = "key"
secret_key = "secret"
`)

	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path: got %q, want %q", resolved, path)
	}
	if cfg.Receipts.Prefix != "joblist-" {
		t.Errorf("receipt prefix default: got %q", cfg.Receipts.Prefix)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("logging defaults: got %+v", cfg.Logging)
	}
	if !cfg.CloudStack.VerifyTLS {
		t.Error("verify_tls should default to true")
	}
	if !filepath.IsAbs(cfg.Receipts.Dir) {
		t.Errorf("receipt dir should be absolute, got %q", cfg.Receipts.Dir)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[cloudstack]
api_url = "https://acs.example.com/client/api"
api_key = "key"
secret_key = "secret"
timeout_seconds = 30
verify_tls = false

[receipts]
dir = "`+dir+`"
prefix = "migrations-"

[logging]
level = "debug"
format = "json"
`)

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CloudStack.TimeoutSeconds != 30 {
		t.Errorf("timeout: got %d", cfg.CloudStack.TimeoutSeconds)
	}
	if cfg.CloudStack.VerifyTLS {
		t.Error("verify_tls override not applied")
	}
	if cfg.Receipts.Dir != dir || cfg.Receipts.Prefix != "migrations-" {
		t.Errorf("receipts override not applied: %+v", cfg.Receipts)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("logging override not applied: %+v", cfg.Logging)
	}
}

func TestLoadRequiresCredentials(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing url", "[cloudstack]\napi_key = \"k\"\nsecret_key = \"s\"\n", "api_url"},
		{"missing key", "[cloudstack]\napi_url = \"https://x/api\"\nsecret_key = \"s\"\n", "api_key"},
		{"missing secret", "[cloudstack]\napi_url = \"https://x/api\"\napi_key = \"k\"\n", "secret_key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Load(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error naming %s, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := ExpandPath("~/receipts")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "receipts") {
		t.Errorf("ExpandPath: got %q", got)
	}
	if _, err := ExpandPath("  "); err == nil {
		t.Error("expected error for empty path")
	}
}

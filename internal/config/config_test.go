package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearHollerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOLLER_SERVER_URL", "HOLLER_ORG", "HOLLER_PROJECT",
		"HOLLER_PER_PAGE", "HOLLER_REFRESH_SECONDS", "HOLLER_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	clearHollerEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != "" || cfg.Org != "" || cfg.Project != "" {
		t.Fatalf("cfg = %+v, want empty slugs and server by default", cfg)
	}
	if cfg.PerPage != defaultPerPage {
		t.Fatalf("PerPage = %d, want %d", cfg.PerPage, defaultPerPage)
	}
	if cfg.RefreshSeconds != defaultRefreshSeconds {
		t.Fatalf("RefreshSeconds = %d, want %d", cfg.RefreshSeconds, defaultRefreshSeconds)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	clearHollerEnv(t)
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server_url = "  https://feedback.acme.dev  "
org = " acme "
project = " widget "
per_page = 50
refresh_seconds = 10
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != "https://feedback.acme.dev" {
		t.Fatalf("ServerURL = %q, want trimmed url", cfg.ServerURL)
	}
	if cfg.Org != "acme" || cfg.Project != "widget" {
		t.Fatalf("slugs = %q/%q, want acme/widget", cfg.Org, cfg.Project)
	}
	if cfg.PerPage != 50 || cfg.RefreshSeconds != 10 {
		t.Fatalf("numbers = %d/%d, want 50/10", cfg.PerPage, cfg.RefreshSeconds)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearHollerEnv(t)
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
org = "from-file"
project = "from-file"
per_page = 50
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("HOLLER_ORG", "from-env")
	t.Setenv("HOLLER_PER_PAGE", "25")
	t.Setenv("HOLLER_REFRESH_SECONDS", "not-a-number")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Org != "from-env" {
		t.Fatalf("Org = %q, want env override from-env", cfg.Org)
	}
	if cfg.Project != "from-file" {
		t.Fatalf("Project = %q, want file value untouched", cfg.Project)
	}
	if cfg.PerPage != 25 {
		t.Fatalf("PerPage = %d, want env override 25", cfg.PerPage)
	}
	// A malformed numeric override falls back to the file/default value.
	if cfg.RefreshSeconds != defaultRefreshSeconds {
		t.Fatalf("RefreshSeconds = %d, want %d", cfg.RefreshSeconds, defaultRefreshSeconds)
	}
}

func TestLoad_NonPositiveNumbersUseDefaults(t *testing.T) {
	clearHollerEnv(t)
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
per_page = -1
refresh_seconds = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PerPage != defaultPerPage {
		t.Fatalf("PerPage = %d, want %d", cfg.PerPage, defaultPerPage)
	}
	if cfg.RefreshSeconds != defaultRefreshSeconds {
		t.Fatalf("RefreshSeconds = %d, want %d", cfg.RefreshSeconds, defaultRefreshSeconds)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearHollerEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`org = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

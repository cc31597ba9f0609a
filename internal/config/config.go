package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
)

// Config captures everything Holler needs to reach a Soapbox project.
// Values resolve in order: built-in defaults, then the config file, then
// HOLLER_* environment variables. Command-line flags override all three.
type Config struct {
	ServerURL      string `toml:"server_url"`
	Org            string `toml:"org"`
	Project        string `toml:"project"`
	PerPage        int    `toml:"per_page"`
	RefreshSeconds int    `toml:"refresh_seconds"`
	LogFile        string `toml:"log_file"`
}

const (
	defaultConfigPath     = "~/.config/holler/config.toml"
	defaultPerPage        = 20
	defaultRefreshSeconds = 30
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the Holler config, falling back to defaults when
// the file is missing. Environment overrides apply after the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{PerPage: defaultPerPage, RefreshSeconds: defaultRefreshSeconds}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	cfg.ServerURL = strings.TrimSpace(cfg.ServerURL)
	cfg.Org = strings.TrimSpace(cfg.Org)
	cfg.Project = strings.TrimSpace(cfg.Project)
	if cfg.PerPage <= 0 {
		cfg.PerPage = defaultPerPage
	}
	if cfg.RefreshSeconds <= 0 {
		cfg.RefreshSeconds = defaultRefreshSeconds
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.ServerURL = getEnv("HOLLER_SERVER_URL", c.ServerURL)
	c.Org = getEnv("HOLLER_ORG", c.Org)
	c.Project = getEnv("HOLLER_PROJECT", c.Project)
	c.PerPage = getInt("HOLLER_PER_PAGE", c.PerPage)
	c.RefreshSeconds = getInt("HOLLER_REFRESH_SECONDS", c.RefreshSeconds)
	c.LogFile = getEnv("HOLLER_LOG_FILE", c.LogFile)
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	return lo.Ternary(v != "", v, def)
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// Package identity derives and persists the pseudo-anonymous fingerprint the
// Soapbox backend uses to deduplicate votes without accounts.
// The fingerprint is stored in ~/.config/holler/identity.toml.
package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

const defaultIdentityPath = "~/.config/holler/identity.toml"

// Provider owns the fingerprint for this installation. Construct one at
// application start and share the instance; the token is created at most once
// per storage entry and only Reset replaces it.
//
// The fingerprint is a de-duplication heuristic, not an authentication
// credential: it hashes coarse device traits with a non-cryptographic hash
// and pads with a timestamp and random suffix to keep distinct installs
// apart. A determined user can evade it.
type Provider struct {
	mu     sync.Mutex
	path   string
	log    *zap.Logger
	cached string
}

type identityFile struct {
	Fingerprint string `toml:"fingerprint"`
}

// New builds a Provider persisting to path. An empty path uses the default
// location; a nil logger discards diagnostics.
func New(path string, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	resolved, err := resolvePath(path)
	if err != nil {
		// No usable home directory: the provider degrades to in-memory.
		log.Debug("resolve identity path failed", zap.Error(err))
		resolved = ""
	}
	return &Provider{path: resolved, log: log}
}

// Fingerprint returns the persisted token, synthesizing and persisting a
// fresh one when none exists. It never fails: storage errors degrade to an
// in-memory token for this process and are not retried on later calls.
func (p *Provider) Fingerprint() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached
	}
	if stored := p.load(); stored != "" {
		p.cached = stored
		return p.cached
	}

	p.cached = synthesize()
	p.persist(p.cached)
	return p.cached
}

// Reset clears the persisted token. The next Fingerprint call synthesizes a
// fresh one. Intended for testing and support flows, not normal operation.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cached = ""
	if p.path == "" {
		return
	}
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.log.Debug("remove identity file failed", zap.Error(err))
	}
}

// load reads the stored fingerprint, returning "" on any failure.
func (p *Provider) load() string {
	if p.path == "" {
		return ""
	}
	raw, err := os.ReadFile(p.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			p.log.Debug("read identity file failed", zap.Error(err))
		}
		return ""
	}
	var file identityFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		p.log.Debug("parse identity file failed", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(file.Fingerprint)
}

// persist writes the fingerprint, swallowing every error. It runs once per
// synthesized token; there is no retry loop.
func (p *Provider) persist(token string) {
	if p.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		p.log.Debug("create identity dir failed", zap.Error(err))
		return
	}
	raw, err := toml.Marshal(identityFile{Fingerprint: token})
	if err != nil {
		p.log.Debug("marshal identity file failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(p.path, raw, 0o600); err != nil {
		p.log.Debug("write identity file failed", zap.Error(err))
	}
}

// synthesize builds a new token: a 16-hex-digit xxhash of coarse device
// traits, a base-36 millisecond timestamp, and a short crypto-random suffix.
// The traits keep the hash stable per install; the suffix keeps two installs
// with identical traits apart.
func synthesize() string {
	hostname, _ := os.Hostname()
	_, tzOffset := time.Now().Zone()
	traits := strings.Join([]string{
		hostname,
		runtime.GOOS,
		runtime.GOARCH,
		strconv.Itoa(runtime.NumCPU()),
		locale(),
		os.Getenv("TERM"),
		strconv.Itoa(tzOffset),
	}, "|")

	hash := fmt.Sprintf("%016x", xxhash.Sum64String(traits))
	stamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return hash + "-" + stamp + "-" + suffix
}

func locale() string {
	for _, key := range []string{"LC_ALL", "LANG"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return "unknown"
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultIdentityPath)
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

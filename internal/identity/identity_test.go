package identity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFingerprint_IdempotentWithinProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.toml")
	p := New(path, nil)

	first := p.Fingerprint()
	if first == "" {
		t.Fatalf("Fingerprint returned empty token")
	}
	for i := 0; i < 5; i++ {
		if got := p.Fingerprint(); got != first {
			t.Fatalf("Fingerprint call %d = %q, want %q", i, got, first)
		}
	}
}

func TestFingerprint_StableAcrossProviders(t *testing.T) {
	// A fresh Provider on the same file simulates a new process start; the
	// persisted token must survive it.
	path := filepath.Join(t.TempDir(), "identity.toml")

	first := New(path, nil).Fingerprint()
	second := New(path, nil).Fingerprint()
	if first != second {
		t.Fatalf("fingerprint changed across providers: %q then %q", first, second)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("identity file not written: %v", err)
	}
}

func TestFingerprint_Shape(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "identity.toml"), nil)
	token := p.Fingerprint()

	parts := strings.Split(token, "-")
	if len(parts) != 3 {
		t.Fatalf("token = %q, want hash-stamp-suffix", token)
	}
	if len(parts[0]) != 16 {
		t.Fatalf("hash part = %q, want 16 hex digits", parts[0])
	}
	if len(parts[2]) != 8 {
		t.Fatalf("suffix part = %q, want 8 characters", parts[2])
	}
}

func TestReset_SynthesizesFreshToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.toml")
	p := New(path, nil)

	before := p.Fingerprint()
	p.Reset()
	after := p.Fingerprint()

	if after == "" {
		t.Fatalf("Fingerprint after Reset returned empty token")
	}
	if after == before {
		t.Fatalf("Fingerprint after Reset = %q, want a fresh token", after)
	}

	// The fresh token is persisted like the original.
	if got := New(path, nil).Fingerprint(); got != after {
		t.Fatalf("persisted token = %q, want %q", got, after)
	}
}

func TestFingerprint_StorageUnavailable(t *testing.T) {
	// A regular file where a directory is needed makes every write fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	p := New(filepath.Join(blocker, "identity.toml"), nil)

	token := p.Fingerprint()
	if token == "" {
		t.Fatalf("Fingerprint returned empty token with unavailable storage")
	}
	// Still idempotent for the life of the process.
	if got := p.Fingerprint(); got != token {
		t.Fatalf("Fingerprint = %q, want %q despite unavailable storage", got, token)
	}
}

func TestFingerprint_CorruptFileRegenerates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	token := New(path, nil).Fingerprint()
	if token == "" {
		t.Fatalf("Fingerprint returned empty token for corrupt file")
	}
}

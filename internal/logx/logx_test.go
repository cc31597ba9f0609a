package logx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "holler.log")

	logger, closer, err := New(path, false)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("board refreshed")
	logger.Debug("should be filtered at info level")
	closer()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, "board refreshed") {
		t.Fatalf("log file missing info entry: %q", content)
	}
	if strings.Contains(content, "should be filtered") {
		t.Fatalf("log file contains debug entry at info level: %q", content)
	}
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holler.log")

	logger, closer, err := New(path, true)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("vote toggled")
	closer()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), "vote toggled") {
		t.Fatalf("log file missing debug entry: %q", raw)
	}
}

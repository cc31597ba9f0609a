package ui

import (
	"strings"
	"testing"
	"time"
)

func TestClassifyOffline(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"cannot reach api.soapbox.dev", "unreachable"},
		{"request timeout after 10s", "timeout"},
		{"500 internal server error", "error"},
		{"", "error"},
	}
	for _, tc := range cases {
		if got := classifyOffline(tc.in); got != tc.want {
			t.Fatalf("classifyOffline(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatFetchTime(t *testing.T) {
	if got := formatFetchTime(time.Time{}); got != "" {
		t.Fatalf("formatFetchTime zero = %q, want empty", got)
	}

	now := time.Now()
	if got := formatFetchTime(now.Add(-30 * time.Second)); !strings.HasSuffix(got, " (now)") {
		t.Fatalf("formatFetchTime 30s = %q, want (now) suffix", got)
	}
	if got := formatFetchTime(now.Add(-5 * time.Minute)); !strings.HasSuffix(got, " (5m ago)") {
		t.Fatalf("formatFetchTime 5m = %q, want (5m ago) suffix", got)
	}
	if got := formatFetchTime(now.Add(-2 * time.Hour)); !strings.HasSuffix(got, " (2h ago)") {
		t.Fatalf("formatFetchTime 2h = %q, want (2h ago) suffix", got)
	}

	// Past a day the relative part is dropped
	if got := formatFetchTime(now.Add(-25 * time.Hour)); strings.Contains(got, "(") {
		t.Fatalf("formatFetchTime 25h = %q, want no relative part", got)
	}
}

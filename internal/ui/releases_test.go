package ui

import (
	"testing"

	"github.com/soapboxhq/holler/internal/soapbox"
)

func TestVersionLabel(t *testing.T) {
	cases := []struct {
		name string
		r    soapbox.Release
		want string
	}{
		{"bare_version", soapbox.Release{Version: "1.2.3"}, "v1.2.3"},
		{"prefixed_version", soapbox.Release{Version: "v2.0.0"}, "v2.0.0"},
		{"no_version", soapbox.Release{Title: "First release"}, "First release"},
		{"no_version_long_title", soapbox.Release{Title: "A very long release headline"}, "A very long r..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := versionLabel(tc.r); got != tc.want {
				t.Fatalf("versionLabel = %q, want %q", got, tc.want)
			}
		})
	}
}

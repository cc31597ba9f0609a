package feed

import (
	"errors"
	"testing"

	"github.com/soapboxhq/holler/internal/soapbox"
)

func TestDisplayError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"server message wins", &soapbox.APIError{Code: "DUPLICATE_VOTE", Status: 409, Message: "Already voted"}, "Already voted"},
		{"network gets stable phrasing", &soapbox.APIError{Code: soapbox.CodeNetwork, Message: "dial tcp 10.0.0.1:443: i/o timeout"}, "Cannot reach the server"},
		{"code when no message", &soapbox.APIError{Code: "HTTP_502", Status: 502}, "HTTP_502"},
		{"unknown error gets fallback", errors.New("boom"), "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayError(tt.err); got != tt.want {
				t.Errorf("displayError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

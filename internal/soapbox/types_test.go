package soapbox

import (
	"testing"
	"time"
)

func TestParseTimeLayouts(t *testing.T) {
	if parseTime("").IsZero() != true {
		t.Fatalf("parseTime(\"\") should be zero")
	}
	if parseTime("not a time").IsZero() != true {
		t.Fatalf("parseTime should return zero for garbage input")
	}

	got := parseTime("2026-03-14T09:26:53Z")
	if got.IsZero() {
		t.Fatalf("parseTime should parse RFC3339")
	}
	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 14 {
		t.Fatalf("parseTime = %v, want 2026-03-14", got)
	}

	if parseTime("2026-03-14T09:26:53.123456789Z").IsZero() {
		t.Fatalf("parseTime should parse RFC3339Nano")
	}
}

func TestWishTimestampHelpers(t *testing.T) {
	w := Wish{CreatedAt: "2026-01-02T03:04:05Z", UpdatedAt: "bogus"}
	if w.ParsedCreatedAt().IsZero() {
		t.Fatalf("ParsedCreatedAt should parse a valid timestamp")
	}
	if !w.ParsedUpdatedAt().IsZero() {
		t.Fatalf("ParsedUpdatedAt should be zero for an invalid timestamp")
	}
}

func TestErrorFormatting(t *testing.T) {
	err := &APIError{Code: "HTTP_404", Message: "Not Found"}
	if err.Error() != "HTTP_404: Not Found" {
		t.Fatalf("Error() = %q, want code: message", err.Error())
	}
	bare := &APIError{Code: CodeNetwork}
	if bare.Error() != CodeNetwork {
		t.Fatalf("Error() = %q, want bare code when message empty", bare.Error())
	}
}

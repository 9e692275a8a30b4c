package cli

import (
	"testing"
	"time"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"json"}},
		{"json", []string{"json"}},
		{"json,html", []string{"json", "html"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestArtifactBasePath(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"", "banner"},
		{"promo.json", "promo"},
		{"promo.html", "promo"},
		{"promo", "promo"},
		{"out/promo.svg", "out/promo.svg"}, // unknown extension stays
	}

	for _, tt := range tests {
		if got := artifactBasePath(tt.output); got != tt.want {
			t.Errorf("artifactBasePath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID() = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID() = %q", got)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t); got != tt.want {
			t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
		}
	}
}

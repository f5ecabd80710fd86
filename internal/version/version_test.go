package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origV, origC, origD := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = origV, origC, origD })
}

func TestColoredPlain(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	tests := []struct{ in, want string }{
		{"1.2.3", "1.2.3"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"weird", "weird"},
	}
	for _, tt := range tests {
		withVersion(t, tt.in, "", "")
		if got := Colored(); got != tt.want {
			t.Fatalf("Colored(%q) = %q", tt.in, got)
		}
	}
}

func TestBannerOptionalFields(t *testing.T) {
	withVersion(t, "1.0.0", "", "")
	if b := Banner(); strings.Contains(b, "commit:") || strings.Contains(b, "built:") {
		t.Fatalf("banner shows empty fields:\n%s", b)
	}
	withVersion(t, "1.0.0", "abc123", "2024-01-15T10:30:00Z")
	b := Banner()
	if !strings.Contains(b, "commit:  abc123") || !strings.Contains(b, "built:   2024-01-15T10:30:00Z") {
		t.Fatalf("banner = %s", b)
	}
}

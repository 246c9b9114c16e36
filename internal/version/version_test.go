package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColored(t *testing.T) {
	origNumber, origNoColor := Number, color.NoColor
	defer func() { Number, color.NoColor = origNumber, origNoColor }()
	color.NoColor = true

	tests := []struct {
		number string
		want   string
	}{
		{"0.1.0", "0.1.0"},
		{"1.2.3-rc.1", "1.2.3-rc.1"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"not a version", "not a version"},
	}
	for _, tt := range tests {
		Number = tt.number
		if got := Colored(); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.number, got, tt.want)
		}
	}
}

func TestDefaultNumberParses(t *testing.T) {
	if _, err := Semver(); err != nil {
		t.Fatalf("default Number %q is not a semantic version: %v", Number, err)
	}
}

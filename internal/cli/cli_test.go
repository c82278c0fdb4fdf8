package cli

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single", "png", []string{"png"}},
		{"multiple", "svg,png,pdf", []string{"svg", "png", "pdf"}},
		{"whitespace trimmed", " svg , dot ", []string{"svg", "dot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		suffix string
		want   string
	}{
		{"explicit output wins", "out.json", "family.json", ".layout.json", "out.json"},
		{"derived from input", "", "family.json", ".layout.json", "family.layout.json"},
		{"no extension", "", "family", ".svg", "family.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.suffix); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		multi  bool
		want   string
	}{
		{"single format explicit output", "tree.svg", "family.json", "svg", false, "tree.svg"},
		{"single format derived", "", "family.json", "svg", false, "family.svg"},
		{"multi format base output", "tree", "family.json", "png", true, "tree.png"},
		{"multi format derived", "", "family.json", "pdf", true, "family.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPath(tt.output, tt.input, tt.format, tt.multi); got != tt.want {
				t.Errorf("artifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "kindred") {
		t.Errorf("cacheDir = %q", dir)
	}
}

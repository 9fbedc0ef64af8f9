package config

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/treemap/pkg/errors"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, s Settings)
	}{
		{
			name:  "empty keeps defaults",
			input: "",
			check: func(t *testing.T, s Settings) {
				if s != Default() {
					t.Errorf("Decode(\"\") = %+v, want defaults", s)
				}
			},
		},
		{
			name: "partial override",
			input: `
debug = true

[layout]
width = 160.0
padding = 0.5

[search]
max_depth = 2
`,
			check: func(t *testing.T, s Settings) {
				if !s.Debug || s.Layout.Width != 160 || s.Layout.Padding != 0.5 || s.Search.MaxDepth != 2 {
					t.Errorf("overrides not applied: %+v", s)
				}
				if s.Layout.Depth != 100 || s.Search.BranchingLimit != 4 {
					t.Errorf("defaults lost: %+v", s)
				}
			},
		},
		{
			name:  "infinite norm",
			input: "[search]\np_norm = inf\n",
			check: func(t *testing.T, s Settings) {
				if !math.IsInf(s.Search.PNorm, 1) {
					t.Errorf("p_norm = %v, want +Inf", s.Search.PNorm)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			tt.check(t, s)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown key", "[layout]\nwidht = 3.0\n", "layout.widht"},
		{"unknown table", "[render]\ncolor = true\n", "render"},
		{"syntax", "[layout\n", "parse settings"},
		{"out of range", "[search]\np_norm = 0.5\nbranching_limit = 0\n", "branching_limit"},
		{"negative padding", "[layout]\npadding = -1.0\n", "padding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("Decode() = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Decode() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	s := Default()
	s.Layout.Width = 42
	s.Correction.Seed = 99
	s.Search.PNorm = math.Inf(1)

	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "treemap.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != s {
		t.Errorf("Load() = %+v, want %+v", got, s)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEngineOptions(t *testing.T) {
	s := Default()
	s.Debug = true
	s.Layout.Padding = 0.25
	s.Correction.Precision = 1e-6
	s.Search.MaxDepth = 3

	opts := s.EngineOptions(nil)
	if !opts.Debug || opts.Padding != 0.25 || opts.ReuseThreshold != s.Layout.ReuseThreshold {
		t.Errorf("layout options = %+v", opts)
	}
	if opts.Correct.Precision != 1e-6 || opts.Correct.MaxIterations != s.Correction.MaxIterations {
		t.Errorf("correction options = %+v", opts.Correct)
	}
	if opts.Search.MaxDepth != 3 || opts.Search.PNorm != s.Search.PNorm {
		t.Errorf("search options = %+v", opts.Search)
	}
	if b := s.Bounds(); b.Width != 100 || b.Depth != 100 {
		t.Errorf("Bounds() = %v", b)
	}
}

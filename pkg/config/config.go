// Package config loads and validates the engine settings file.
//
// Settings are stored as TOML. Missing keys keep their defaults, unknown keys
// are rejected so that typos do not go unnoticed:
//
//	debug = false
//
//	[layout]
//	width = 100.0
//	depth = 100.0
//	padding = 0.0
//	reuse_threshold = 5
//
//	[correction]
//	precision = 1e-5
//	max_iterations = 50
//	seed = 1
//
//	[search]
//	p_norm = 2.0
//	max_depth = 1
//	branching_limit = 4
//	move_penalty = 1e-4
//	workers = 0
package config

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/correct"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
	"github.com/matzehuels/treemap/pkg/search"
	"github.com/matzehuels/treemap/pkg/treemap"
)

// Settings is the complete engine configuration.
type Settings struct {
	Debug      bool       `toml:"debug"`
	Layout     Layout     `toml:"layout"`
	Correction Correction `toml:"correction"`
	Search     Search     `toml:"search"`
}

// Layout configures the hierarchical layout.
type Layout struct {
	Width          float64 `toml:"width"`
	Depth          float64 `toml:"depth"`
	Padding        float64 `toml:"padding"`
	ReuseThreshold int     `toml:"reuse_threshold"`
}

// Correction configures area correction.
type Correction struct {
	Precision     float64 `toml:"precision"`
	MaxIterations int     `toml:"max_iterations"`
	Seed          uint64  `toml:"seed"`
}

// Search configures the quality search.
type Search struct {
	PNorm          float64 `toml:"p_norm"`
	MaxDepth       int     `toml:"max_depth"`
	BranchingLimit int     `toml:"branching_limit"`
	MovePenalty    float64 `toml:"move_penalty"`
	Workers        int     `toml:"workers"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Layout: Layout{
			Width:          100,
			Depth:          100,
			ReuseThreshold: treemap.DefaultReuseThreshold,
		},
		Correction: Correction{
			Precision:     correct.DefaultPrecision,
			MaxIterations: correct.DefaultMaxIterations,
			Seed:          correct.DefaultSeed,
		},
		Search: Search{
			PNorm:          search.DefaultPNorm,
			MaxDepth:       search.DefaultMaxDepth,
			BranchingLimit: search.DefaultBranchingLimit,
			MovePenalty:    search.DefaultMovePenalty,
		},
	}
}

// Load reads the settings file at path over the defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Settings{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read config: %w", err)
	}
	s, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode parses TOML settings from r over the defaults and validates them.
func Decode(r io.Reader) (Settings, error) {
	s := Default()
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse settings")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Settings{}, errors.New(errors.ErrCodeInvalidConfig, "unknown settings: %s", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Write encodes s as TOML.
func Write(w io.Writer, s Settings) error {
	return toml.NewEncoder(w).Encode(s)
}

// Validate checks that every value is in range.
func (s Settings) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}
	check(s.Layout.Width > 0 && !math.IsInf(s.Layout.Width, 0), "layout.width must be positive, got %g", s.Layout.Width)
	check(s.Layout.Depth > 0 && !math.IsInf(s.Layout.Depth, 0), "layout.depth must be positive, got %g", s.Layout.Depth)
	check(s.Layout.Padding >= 0, "layout.padding must not be negative, got %g", s.Layout.Padding)
	check(s.Layout.ReuseThreshold >= 1, "layout.reuse_threshold must be at least 1, got %d", s.Layout.ReuseThreshold)
	check(s.Correction.Precision > 0, "correction.precision must be positive, got %g", s.Correction.Precision)
	check(s.Correction.MaxIterations >= 1, "correction.max_iterations must be at least 1, got %d", s.Correction.MaxIterations)
	check(s.Search.PNorm >= 1, "search.p_norm must be at least 1, got %g", s.Search.PNorm)
	check(s.Search.MaxDepth >= 0, "search.max_depth must not be negative, got %d", s.Search.MaxDepth)
	check(s.Search.BranchingLimit >= 1, "search.branching_limit must be at least 1, got %d", s.Search.BranchingLimit)
	check(s.Search.MovePenalty >= 0, "search.move_penalty must not be negative, got %g", s.Search.MovePenalty)
	check(s.Search.Workers >= 0, "search.workers must not be negative, got %d", s.Search.Workers)

	if len(problems) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s", strings.Join(problems, "; "))
	}
	return nil
}

// Bounds returns the layout rectangle anchored at the origin.
func (s Settings) Bounds() geom.Rect {
	return geom.Rect{Width: s.Layout.Width, Depth: s.Layout.Depth}
}

// EngineOptions converts s into engine options logging to logger.
func (s Settings) EngineOptions(logger *log.Logger) treemap.Options {
	opts := treemap.DefaultOptions()
	opts.Debug = s.Debug
	opts.Padding = s.Layout.Padding
	opts.ReuseThreshold = s.Layout.ReuseThreshold
	opts.Correct = correct.Options{
		Precision:     s.Correction.Precision,
		MaxIterations: s.Correction.MaxIterations,
		Seed:          s.Correction.Seed,
		Logger:        logger,
	}
	opts.Search = search.Settings{
		PNorm:          s.Search.PNorm,
		MaxDepth:       s.Search.MaxDepth,
		BranchingLimit: s.Search.BranchingLimit,
		MovePenalty:    s.Search.MovePenalty,
		Workers:        s.Search.Workers,
		Logger:         logger,
	}
	opts.Logger = logger
	return opts
}

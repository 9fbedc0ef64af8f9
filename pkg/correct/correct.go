// Package correct adjusts the rectangles of a partition so that every cell's
// area matches its target size, without changing topology.
//
// Correction runs in two stages. Whenever a segment runs from one fixed
// boundary to the opposite one, the region is sliceable: both sides are
// rescaled to their share of the total size, the segment is frozen and each
// side is corrected on its own. Regions with no such segment are relaxed
// with Gauss-Newton steps: the sensitivity of every cell area to every free
// segment position forms a Jacobian whose least-squares pseudo-inverse,
// computed by SVD, yields the segment shifts for the next step.
//
// Correction only succeeds for target sizes that sum to the area of the
// partition's bounding rectangle; see [partition.Partition.ScaleSizes].
package correct

import (
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/partition"
)

// Defaults for [Options].
const (
	DefaultPrecision     = 1e-5
	DefaultMaxIterations = 50
	DefaultSeed          = 1
)

// rcond is the relative cutoff below which singular values are treated as zero.
const rcond = 1e-12

// maxHalvings bounds the step damping of a single relaxation iteration.
const maxHalvings = 12

// Options configures a correction run.
type Options struct {
	// Precision is both the per-cell tolerance of the initial check and the
	// bound on the summed absolute area error that relaxation must reach. A
	// sliced region succeeds when its parts do and its summed error stays
	// within Precision per cell.
	Precision float64
	// MaxIterations caps the relaxation steps per non-sliceable region.
	MaxIterations int
	// Seed makes the perturbation used for singular systems reproducible.
	Seed uint64
	// Logger receives shortfall warnings; nil means log.Default().
	Logger *log.Logger
}

// DefaultOptions returns the standard correction settings.
func DefaultOptions() Options {
	return Options{
		Precision:     DefaultPrecision,
		MaxIterations: DefaultMaxIterations,
		Seed:          DefaultSeed,
	}
}

func (o Options) withDefaults() Options {
	if o.Precision <= 0 {
		o.Precision = DefaultPrecision
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Report describes the outcome of [Run].
type Report struct {
	OK         bool    // All areas within precision and all rectangles positive
	Iterations int     // Relaxation steps taken across all regions
	Slices     int     // Sliceable segments used to split the problem
	Retries    int     // Perturbed retries after a singular system
	Residual   float64 // Summed absolute area error after correction
}

// Areas corrects p in place and reports whether all targets were met.
func Areas(p *partition.Partition, opts Options) bool {
	return Run(p, opts).OK
}

// Run corrects p in place. On failure the partially corrected rectangles are
// kept and a warning is logged.
func Run(p *partition.Partition, opts Options) Report {
	opts = opts.withDefaults()
	c := &corrector{
		p:      p,
		opts:   opts,
		frozen: make(map[partition.SegmentID]bool),
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef)),
	}
	cells := p.Cells()
	ok := c.correct(cells)

	rep := Report{
		OK:         ok,
		Iterations: c.iterations,
		Slices:     c.slices,
		Retries:    c.retries,
		Residual:   c.residual(cells),
	}
	if !ok {
		opts.Logger.Warn("area correction fell short",
			"cells", len(cells),
			"iterations", rep.Iterations,
			"residual", rep.Residual)
	}
	return rep
}

type corrector struct {
	p      *partition.Partition
	opts   Options
	frozen map[partition.SegmentID]bool
	rng    *rand.Rand

	iterations int
	slices     int
	retries    int
}

func (c *corrector) correct(cells []partition.CellID) bool {
	if c.satisfied(cells) {
		return true
	}
	if len(cells) == 1 {
		// A lone cell is pinned by fixed segments on all four sides.
		return false
	}
	if s, ok := c.sliceable(cells); ok {
		lo, hi := c.split(cells, s)
		c.adjustSliced(cells, lo, hi, s)
		c.slices++

		c.frozen[s] = true
		okLo := c.correct(lo)
		okHi := c.correct(hi)
		delete(c.frozen, s)
		return okLo && okHi && c.positive(cells) && c.residual(cells) <= c.tolerance(cells)
	}
	return c.relax(cells)
}

func (c *corrector) satisfied(cells []partition.CellID) bool {
	for _, id := range cells {
		if math.Abs(c.p.Rect(id).Area()-c.p.Size(id)) >= c.opts.Precision {
			return false
		}
	}
	return true
}

func (c *corrector) residual(cells []partition.CellID) float64 {
	var sum float64
	for _, id := range cells {
		sum += math.Abs(c.p.Size(id) - c.p.Rect(id).Area())
	}
	return sum
}

// tolerance is the summed error a region may keep once each of its parts
// has met its own bound.
func (c *corrector) tolerance(cells []partition.CellID) float64 {
	return c.opts.Precision * float64(len(cells))
}

func (c *corrector) positive(cells []partition.CellID) bool {
	for _, id := range cells {
		if !c.p.Rect(id).Positive() {
			return false
		}
	}
	return true
}

// fixed reports whether s cannot move in the current region.
func (c *corrector) fixed(s partition.SegmentID) bool {
	return c.p.Segment(s).Const || c.frozen[s]
}

// free returns the segments relaxation may move.
func (c *corrector) free(cells []partition.CellID) []partition.SegmentID {
	var out []partition.SegmentID
	for _, s := range c.p.SegmentsOf(cells...) {
		if !c.frozen[s] {
			out = append(out, s)
		}
	}
	return out
}

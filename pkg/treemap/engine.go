package treemap

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/correct"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/partition"
	"github.com/matzehuels/treemap/pkg/search"
)

// DefaultReuseThreshold is the number of surviving siblings from which a
// group is updated incrementally.
const DefaultReuseThreshold = 5

// Options configures an [Engine].
type Options struct {
	// Padding insets emitted rectangles per nesting level; see [Layout.Place].
	Padding float64
	// ReuseThreshold is the minimum number of siblings that must have
	// existed before, all under one parent, for incremental reuse.
	ReuseThreshold int
	// Debug validates every partition after each edit and fails the
	// operation on an invariant violation.
	Debug bool

	Correct correct.Options
	Search  search.Settings

	// Logger is used for all engine output; nil means log.Default().
	Logger *log.Logger
}

// DefaultOptions returns the standard engine settings.
func DefaultOptions() Options {
	return Options{
		ReuseThreshold: DefaultReuseThreshold,
		Correct:        correct.DefaultOptions(),
		Search:         search.DefaultSettings(),
	}
}

// Engine runs layout operations with shared settings. An Engine holds no
// per-layout state and may be shared; a single partition must not be
// edited from several goroutines at once.
type Engine struct {
	opts   Options
	logger *log.Logger
}

// New creates an engine.
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ReuseThreshold < 1 {
		opts.ReuseThreshold = 1
	}
	if opts.Correct.Logger == nil {
		opts.Correct.Logger = opts.Logger
	}
	if opts.Search.Logger == nil {
		opts.Search.Logger = opts.Logger
	}
	opts.Search.Correct = opts.Correct
	return &Engine{opts: opts, logger: opts.Logger}
}

// Options returns the engine's effective settings.
func (e *Engine) Options() Options { return e.opts }

// Dissect builds a fresh partition of bounds for items.
func (e *Engine) Dissect(bounds geom.Rect, items []partition.Item) (*partition.Partition, error) {
	start := time.Now()
	p, err := partition.Dissect(bounds, items)
	if err == nil {
		err = e.check(p, "dissect")
	}
	observability.Engine().OnEdit("dissect", len(items), time.Since(start), err)
	return p, err
}

// Insert adds a cell for id by halving the cell with the worst aspect ratio.
func (e *Engine) Insert(p *partition.Partition, id string, size float64) (partition.CellID, error) {
	start := time.Now()
	c, err := p.Insert(id, size)
	if err == nil {
		err = e.check(p, "insert")
	}
	observability.Engine().OnEdit("insert", p.Len(), time.Since(start), err)
	if err != nil {
		return c, err
	}
	e.logger.Debug("inserted cell", "id", id, "rect", p.Rect(c))
	return c, nil
}

// Remove deletes cell c, letting its neighbours take over its area.
func (e *Engine) Remove(p *partition.Partition, c partition.CellID) error {
	start := time.Now()
	var id string
	if p.Has(c) {
		id = p.Cell(c).ID
	}
	err := p.Remove(c)
	if err == nil {
		err = e.check(p, "remove")
	}
	observability.Engine().OnEdit("remove", p.Len(), time.Since(start), err)
	if err != nil {
		return err
	}
	e.logger.Debug("removed cell", "id", id)
	return nil
}

// CorrectAreas adjusts the rectangles of p toward their target sizes. A
// shortfall is not an error: it is logged and reported as false.
func (e *Engine) CorrectAreas(p *partition.Partition) bool {
	start := time.Now()
	rep := correct.Run(p, e.opts.Correct)
	observability.Engine().OnCorrect(p.Len(), rep.Iterations, rep.Residual, rep.OK, time.Since(start))
	if rep.OK {
		if err := e.check(p, "correct"); err != nil {
			e.logger.Warn("correction broke the partition", "err", err)
			return false
		}
	}
	return rep.OK
}

// ImproveQuality runs the local search on p and commits the best result.
func (e *Engine) ImproveQuality(p *partition.Partition) search.Result {
	res := search.Improve(p, e.opts.Search)
	observability.Engine().OnSearch(res.Candidates, len(res.Moves), res.Baseline, res.Best, res.Duration)
	return res
}

// check validates p in debug mode.
func (e *Engine) check(p *partition.Partition, op string) error {
	if !e.opts.Debug {
		return nil
	}
	if err := p.Validate(); err != nil {
		e.logger.Error("invariant violated", "op", op, "err", err)
		return errors.Wrap(errors.ErrCodeInvariant, err, "after %s", op)
	}
	return nil
}

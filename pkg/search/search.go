// Package search improves the aspect ratios of a partition's cells with a
// bounded beam search over local moves.
//
// Every candidate is a clone of the partition with one more flip or stretch
// applied and its areas corrected. The first level tries every move; deeper
// levels only try moves on segments next to the cells the previous move
// changed. Each level keeps the best BranchingLimit candidates, and the best
// candidate seen overall, ranked by score plus a small penalty per move,
// replaces the partition. The unchanged partition always competes, so the
// score never gets worse.
package search

import (
	"io"
	"math"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/treemap/pkg/correct"
	"github.com/matzehuels/treemap/pkg/partition"
)

// Defaults for [Settings].
const (
	DefaultPNorm          = 2
	DefaultMaxDepth       = 1
	DefaultBranchingLimit = 4
	DefaultMovePenalty    = 1e-4
)

// Settings bounds the search.
type Settings struct {
	PNorm          float64 // Norm over aspect ratios; math.Inf(1) scores the worst cell only
	MaxDepth       int     // Moves chained per candidate; 0 disables the search
	BranchingLimit int     // Candidates kept per level
	MovePenalty    float64 // Added to the score per applied move
	Workers        int     // Concurrent candidate evaluations; 0 means GOMAXPROCS

	// Correct configures the area correction run on every candidate.
	Correct correct.Options
	// Logger receives a debug summary; nil means log.Default().
	Logger *log.Logger
}

// DefaultSettings returns the standard search settings.
func DefaultSettings() Settings {
	return Settings{
		PNorm:          DefaultPNorm,
		MaxDepth:       DefaultMaxDepth,
		BranchingLimit: DefaultBranchingLimit,
		MovePenalty:    DefaultMovePenalty,
		Correct:        correct.DefaultOptions(),
	}
}

// Result describes what [Improve] did.
type Result struct {
	Baseline   float64          // Score before the search
	Best       float64          // Score after the search
	Moves      []partition.Move // Moves applied, in order; empty if nothing won
	Candidates int              // Candidates that survived correction
	Duration   time.Duration
}

// Improved reports whether a candidate replaced the partition.
func (r Result) Improved() bool { return len(r.Moves) > 0 }

// Score returns the p-norm aspect ratio quality of p; lower is better. It is
// computed as max * (sum((ar/max)^p))^(1/p) to avoid overflow for large p.
func Score(p *partition.Partition, pNorm float64) float64 {
	cells := p.Cells()
	ratios := make([]float64, len(cells))
	var worst float64
	for i, c := range cells {
		ratios[i] = p.Rect(c).AspectRatio()
		worst = math.Max(worst, ratios[i])
	}
	if math.IsInf(pNorm, 1) || worst == 0 || math.IsInf(worst, 1) {
		return worst
	}
	var sum float64
	for _, ar := range ratios {
		sum += math.Pow(ar/worst, pNorm)
	}
	return worst * math.Pow(sum, 1/pNorm)
}

type candidate struct {
	p     *partition.Partition
	moves []partition.Move
	score float64
}

func (c candidate) rank(penalty float64) float64 {
	return c.score + penalty*float64(len(c.moves))
}

type job struct {
	parent *candidate
	move   partition.Move
}

// Improve searches for a better arrangement of p and commits the winner to p
// in place. Callers must not use p concurrently.
func Improve(p *partition.Partition, s Settings) Result {
	s = s.withDefaults()
	start := time.Now()

	root := &candidate{p: p, score: Score(p, s.PNorm)}
	best := root
	res := Result{Baseline: root.score}

	frontier := []*candidate{root}
	for depth := 1; depth <= s.MaxDepth && len(frontier) > 0; depth++ {
		jobs := expand(frontier)
		if len(jobs) == 0 {
			break
		}
		next := evaluate(jobs, s)
		res.Candidates += len(next)

		slices.SortStableFunc(next, func(a, b *candidate) int {
			switch {
			case a.score < b.score:
				return -1
			case a.score > b.score:
				return 1
			}
			return 0
		})
		if len(next) > s.BranchingLimit {
			next = next[:s.BranchingLimit]
		}
		for _, c := range next {
			if c.rank(s.MovePenalty) < best.rank(s.MovePenalty) {
				best = c
			}
		}
		frontier = next
	}

	if best != root {
		*p = *best.p
	}
	res.Best = best.score
	res.Moves = best.moves
	res.Duration = time.Since(start)

	s.Logger.Debug("quality search",
		"cells", p.Len(),
		"candidates", res.Candidates,
		"moves", len(res.Moves),
		"baseline", res.Baseline,
		"best", res.Best)
	return res
}

// expand lists the moves to try from each frontier candidate. Past the first
// level only moves touching a cell of the candidate's last move are tried.
func expand(frontier []*candidate) []job {
	var jobs []job
	for _, c := range frontier {
		var moves []partition.Move
		if len(c.moves) == 0 {
			moves = c.p.AllMoves()
		} else {
			last := c.moves[len(c.moves)-1]
			for _, seg := range c.p.SegmentsOf(last.Cells()...) {
				for _, m := range c.p.Moves(seg) {
					if m.Involves(last.A) || m.Involves(last.B) {
						moves = append(moves, m)
					}
				}
			}
		}
		for _, m := range moves {
			jobs = append(jobs, job{parent: c, move: m})
		}
	}
	return jobs
}

// evaluate builds and corrects the candidates concurrently. Results keep the
// job order so the outcome does not depend on scheduling.
func evaluate(jobs []job, s Settings) []*candidate {
	results := make([]*candidate, len(jobs))

	var g errgroup.Group
	g.SetLimit(s.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			q := j.parent.p.Clone()
			if err := q.Apply(j.move); err != nil {
				return nil
			}
			if !correct.Areas(q, s.Correct) {
				return nil
			}
			if q.Validate() != nil {
				return nil
			}
			moves := make([]partition.Move, len(j.parent.moves), len(j.parent.moves)+1)
			copy(moves, j.parent.moves)
			results[i] = &candidate{
				p:     q,
				moves: append(moves, j.move),
				score: Score(q, s.PNorm),
			}
			return nil
		})
	}
	_ = g.Wait()

	out := results[:0]
	for _, c := range results {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (s Settings) withDefaults() Settings {
	if s.PNorm < 1 {
		s.PNorm = DefaultPNorm
	}
	if s.BranchingLimit < 1 {
		s.BranchingLimit = DefaultBranchingLimit
	}
	if s.MaxDepth < 0 {
		s.MaxDepth = 0
	}
	if s.Workers <= 0 {
		s.Workers = runtime.GOMAXPROCS(0)
	}
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	// Candidates routinely fail correction; their warnings are noise.
	s.Correct.Logger = log.New(io.Discard)
	return s
}

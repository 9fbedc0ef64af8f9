package search

import (
	"io"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/geom"
	"github.com/matzehuels/treemap/pkg/partition"
)

func quiet() Settings {
	s := DefaultSettings()
	s.Logger = log.New(io.Discard)
	return s
}

// stacked returns two 20x5 cells of equal size in a 20x10 area.
func stacked(t *testing.T) *partition.Partition {
	t.Helper()
	p, err := partition.New(geom.Rect{Width: 10, Depth: 20}, "a", 100)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Insert("b", 100); err != nil {
		t.Fatal(err)
	}
	p.Transform(geom.Rect{Width: 20, Depth: 10})
	return p
}

func TestScore(t *testing.T) {
	p := stacked(t)
	tests := []struct {
		name  string
		pNorm float64
		want  float64
	}{
		{"p=1", 1, 8},
		{"p=2", 2, math.Sqrt(32)},
		{"p=inf", math.Inf(1), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(p, tt.pNorm); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Score(p=%v) = %v, want %v", tt.pNorm, got, tt.want)
			}
		})
	}
}

func TestScore_LargeNormApproachesMax(t *testing.T) {
	p := stacked(t)
	if got := Score(p, 500); math.Abs(got-4) > 0.01 {
		t.Errorf("Score(p=500) = %v, want close to 4", got)
	}
}

func TestImprove_FlipsStackedCells(t *testing.T) {
	p := stacked(t)
	res := Improve(p, quiet())

	if !res.Improved() || len(res.Moves) != 1 {
		t.Fatalf("Improve() = %+v, want a single move", res)
	}
	if res.Moves[0].Kind != partition.Flip {
		t.Errorf("move = %v, want a flip", res.Moves[0])
	}
	if math.Abs(res.Baseline-math.Sqrt(32)) > 1e-9 || math.Abs(res.Best-math.Sqrt(2)) > 1e-9 {
		t.Errorf("scores = %v -> %v, want sqrt(32) -> sqrt(2)", res.Baseline, res.Best)
	}
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, c := range p.Cells() {
		r := p.Rect(c)
		if math.Abs(r.Width-10) > 1e-9 || math.Abs(r.Depth-10) > 1e-9 {
			t.Errorf("cell %s = %v, want a 10x10 square", p.Cell(c).ID, r)
		}
	}
}

func TestImprove_ZeroDepthLeavesPartition(t *testing.T) {
	p := stacked(t)
	before := p.State()

	s := quiet()
	s.MaxDepth = 0
	res := Improve(p, s)

	if res.Improved() || res.Candidates != 0 {
		t.Errorf("Improve() = %+v, want no work", res)
	}
	after := p.State()
	for i := range before.Cells {
		if before.Cells[i].Rect != after.Cells[i].Rect {
			t.Errorf("cell %s changed", before.Cells[i].ID)
		}
	}
}

func TestImprove_IdentityWinsOnSquares(t *testing.T) {
	p, err := partition.Dissect(geom.Rect{Width: 10, Depth: 10}, []partition.Item{
		{ID: "a", Size: 25}, {ID: "b", Size: 25}, {ID: "c", Size: 25}, {ID: "d", Size: 25},
	})
	if err != nil {
		t.Fatal(err)
	}
	res := Improve(p, quiet())
	if res.Improved() {
		t.Errorf("Improve() applied %v to a grid of squares", res.Moves)
	}
	if res.Best != res.Baseline {
		t.Errorf("Best = %v, want baseline %v", res.Best, res.Baseline)
	}
}

func TestExpand_StaysNearLastMove(t *testing.T) {
	p, err := partition.Dissect(geom.Rect{Width: 30, Depth: 20}, []partition.Item{
		{ID: "a", Size: 150}, {ID: "b", Size: 120}, {ID: "c", Size: 100},
		{ID: "d", Size: 80}, {ID: "e", Size: 90}, {ID: "f", Size: 60},
	})
	if err != nil {
		t.Fatal(err)
	}
	all := p.AllMoves()
	if len(all) == 0 {
		t.Fatal("AllMoves() is empty")
	}
	if jobs := expand([]*candidate{{p: p}}); len(jobs) != len(all) {
		t.Errorf("first level expands %d moves, want all %d", len(jobs), len(all))
	}

	for _, last := range all {
		jobs := expand([]*candidate{{p: p, moves: []partition.Move{last}}})
		for _, j := range jobs {
			if !j.move.Involves(last.A) && !j.move.Involves(last.B) {
				t.Errorf("after %v expanded unrelated %v", last, j.move)
			}
		}
	}
}

func TestImprove_NeverRegresses(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		pNorm float64
	}{
		{"depth 1", 1, 2},
		{"depth 2", 2, 2},
		{"depth 2 max norm", 2, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(7, 11))
			items := make([]partition.Item, 12)
			for i := range items {
				items[i] = partition.Item{ID: string(rune('a' + i)), Size: 1 + rng.Float64()*9}
			}
			p, err := partition.Dissect(geom.Rect{Width: 30, Depth: 10}, items)
			if err != nil {
				t.Fatal(err)
			}
			p.ScaleSizes()

			s := quiet()
			s.MaxDepth = tt.depth
			s.PNorm = tt.pNorm
			before := Score(p, tt.pNorm)
			res := Improve(p, s)

			if after := Score(p, tt.pNorm); after > before+1e-12 {
				t.Errorf("score regressed: %v -> %v", before, after)
			}
			if res.Best > res.Baseline+1e-12 {
				t.Errorf("Result = %+v, best worse than baseline", res)
			}
			if err := p.Validate(); err != nil {
				t.Fatal(err)
			}
			for _, c := range p.Cells() {
				want := p.Size(c)
				if got := p.Rect(c).Area(); math.Abs(got-want) > 1e-4 {
					t.Errorf("area(%s) = %v, want %v", p.Cell(c).ID, got, want)
				}
			}
		})
	}
}

func TestImprove_SequentialMatchesParallel(t *testing.T) {
	build := func() *partition.Partition {
		p, err := partition.Dissect(geom.Rect{Width: 40, Depth: 10}, []partition.Item{
			{ID: "a", Size: 90}, {ID: "b", Size: 70}, {ID: "c", Size: 60},
			{ID: "d", Size: 50}, {ID: "e", Size: 30}, {ID: "f", Size: 100},
		})
		if err != nil {
			t.Fatal(err)
		}
		return p
	}

	seq, par := quiet(), quiet()
	seq.Workers, par.Workers = 1, 8
	seq.MaxDepth, par.MaxDepth = 2, 2

	p, q := build(), build()
	rp, rq := Improve(p, seq), Improve(q, par)

	if rp.Best != rq.Best || len(rp.Moves) != len(rq.Moves) {
		t.Fatalf("sequential %+v differs from parallel %+v", rp, rq)
	}
	for i := range rp.Moves {
		if rp.Moves[i] != rq.Moves[i] {
			t.Errorf("move %d: %v vs %v", i, rp.Moves[i], rq.Moves[i])
		}
	}
}

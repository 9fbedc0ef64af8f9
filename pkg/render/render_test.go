package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/treemap/pkg/geom"
	"github.com/matzehuels/treemap/pkg/partition"
)

// twoByOne is a 10x10 square split into a (left) and b (right).
func twoByOne(t *testing.T) *partition.Partition {
	t.Helper()
	p, err := partition.New(geom.Rect{Width: 10, Depth: 10}, "a", 50)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Insert("b", 50); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAdjacency(t *testing.T) {
	p := twoByOne(t)
	edges := Adjacency(p)
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(edges))
	}
	e := edges[0]
	if p.Cell(e.A).ID != "a" || p.Cell(e.B).ID != "b" || !e.Vertical {
		t.Errorf("edge = %+v", e)
	}
}

func TestAdjacency_Dissected(t *testing.T) {
	p, err := partition.Dissect(geom.Rect{Width: 10, Depth: 10}, []partition.Item{
		{ID: "a", Size: 25}, {ID: "b", Size: 25}, {ID: "c", Size: 25}, {ID: "d", Size: 25},
	})
	if err != nil {
		t.Fatal(err)
	}
	// A 2x2 grid: every cell touches exactly two others.
	degree := map[partition.CellID]int{}
	for _, e := range Adjacency(p) {
		degree[e.A]++
		degree[e.B]++
	}
	for _, c := range p.Cells() {
		if degree[c] != 2 {
			t.Errorf("%s has %d neighbors, want 2", p.Cell(c).ID, degree[c])
		}
	}
}

func TestToDOT(t *testing.T) {
	p := twoByOne(t)
	tests := []struct {
		name     string
		opts     Options
		contains []string
	}{
		{
			name:     "plain",
			opts:     Options{},
			contains: []string{"graph G {", `"a" -- "b" [style=solid];`, `label="a"`, `pos="2.0000,4.0000!"`},
		},
		{
			name:     "detailed",
			opts:     Options{Detailed: true, Scale: 1},
			contains: []string{`size: 50`, `ratio: 2.00`, `pos="7.5000,5.0000!"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(p, tt.opts)
			for _, want := range tt.contains {
				if !strings.Contains(dot, want) {
					t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
				}
			}
		})
	}
}

func TestText(t *testing.T) {
	p := twoByOne(t)
	got := Text(p, 4, 2)
	want := "AABB\nAABB\n"
	if got != want {
		t.Errorf("Text() =\n%s\nwant\n%s", got, want)
	}

	p2, _ := partition.New(geom.Rect{Width: 4, Depth: 8}, "a", 16)
	_, _ = p2.Insert("b", 16)
	// Deeper than wide: the split is horizontal, a keeps the lower half.
	if got := Text(p2, 2, 4); got != "BB\nBB\nAA\nAA\n" {
		t.Errorf("Text(horizontal) =\n%s", got)
	}
}

func TestRasterize(t *testing.T) {
	p := twoByOne(t)
	g := Rasterize(p, 10, 1)
	a, _ := p.Lookup("a")
	b, _ := p.Lookup("b")
	if g.At(0, 0) != a || g.At(9, 0) != b {
		t.Errorf("row = %v", g.Cells)
	}
	if g.Index(b) != 1 || g.Index(99) != -1 {
		t.Errorf("Index: b=%d missing=%d", g.Index(b), g.Index(99))
	}
}

func TestGlyph(t *testing.T) {
	if Glyph(0) != 'A' || Glyph(26) != 'a' || Glyph(len(glyphs)) != 'A' {
		t.Error("unexpected glyph sequence")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should pass through, got %s", got)
	}
}

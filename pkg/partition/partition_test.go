package partition

import (
	"errors"
	"testing"

	perrors "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
)

const eps = 1e-9

func mustNew(t *testing.T, bounds geom.Rect, id string, size float64) *Partition {
	t.Helper()
	p, err := New(bounds, id, size)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return p
}

func mustValidate(t *testing.T, p *Partition) {
	t.Helper()
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
}

func rectOf(t *testing.T, p *Partition, id string) geom.Rect {
	t.Helper()
	c, ok := p.Lookup(id)
	if !ok {
		t.Fatalf("cell %q not found", id)
	}
	return p.Rect(c)
}

func wantRects(t *testing.T, p *Partition, want map[string]geom.Rect) {
	t.Helper()
	if p.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", p.Len(), len(want))
	}
	for id, r := range want {
		if got := rectOf(t, p, id); !got.ApproxEqual(r, 1e-9) {
			t.Errorf("cell %s = %v, want %v", id, got, r)
		}
	}
}

// pinwheel builds five cells on a 3x3 area where the center cell E is not
// grounded in any direction.
//
//	+---+-------+
//	| D |   C   |
//	|   +---+---+
//	|   | E | B |
//	+---+---+   |
//	|   A   |   |
//	+-------+---+
func pinwheel(t *testing.T) *Partition {
	t.Helper()
	st := State{
		Segments: []SegmentState{
			{Vertical: true, Const: true},  // 0 left frame
			{Vertical: true, Const: true},  // 1 right frame
			{Vertical: false, Const: true}, // 2 lower frame
			{Vertical: false, Const: true}, // 3 upper frame
			{Vertical: false},              // 4 z=1
			{Vertical: true},               // 5 x=2
			{Vertical: false},              // 6 z=2
			{Vertical: true},               // 7 x=1
		},
		Cells: []CellState{
			{ID: "A", Rect: geom.Rect{X: 0, Z: 0, Width: 2, Depth: 1}, Size: 2, Left: 0, Right: 5, Lower: 2, Upper: 4},
			{ID: "B", Rect: geom.Rect{X: 2, Z: 0, Width: 1, Depth: 2}, Size: 2, Left: 5, Right: 1, Lower: 2, Upper: 6},
			{ID: "C", Rect: geom.Rect{X: 1, Z: 2, Width: 2, Depth: 1}, Size: 2, Left: 7, Right: 1, Lower: 6, Upper: 3},
			{ID: "D", Rect: geom.Rect{X: 0, Z: 1, Width: 1, Depth: 2}, Size: 2, Left: 0, Right: 7, Lower: 4, Upper: 3},
			{ID: "E", Rect: geom.Rect{X: 1, Z: 1, Width: 1, Depth: 1}, Size: 1, Left: 7, Right: 5, Lower: 4, Upper: 6},
		},
	}
	p, err := FromState(st)
	if err != nil {
		t.Fatalf("FromState(pinwheel) error: %v", err)
	}
	return p
}

func TestNew(t *testing.T) {
	p := mustNew(t, geom.Rect{Width: 10, Depth: 10}, "a", 100)
	mustValidate(t, p)
	wantRects(t, p, map[string]geom.Rect{"a": {Width: 10, Depth: 10}})
	if got := len(p.Segments()); got != 4 {
		t.Errorf("Segments() = %d, want 4 frame segments", got)
	}
	for _, s := range p.Segments() {
		if !p.Segment(s).Const {
			t.Errorf("segment %d should be const", s)
		}
	}
}

func TestNew_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		bounds geom.Rect
		id     string
		size   float64
	}{
		{"zero width", geom.Rect{Width: 0, Depth: 1}, "a", 1},
		{"empty id", geom.Rect{Width: 1, Depth: 1}, "", 1},
		{"negative size", geom.Rect{Width: 1, Depth: 1}, "a", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.bounds, tt.id, tt.size)
			if !perrors.Is(err, perrors.ErrCodeInvalidInput) {
				t.Errorf("New() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestClone_Independent(t *testing.T) {
	p := mustNew(t, geom.Rect{Width: 10, Depth: 10}, "a", 50)
	if _, err := p.Insert("b", 50); err != nil {
		t.Fatal(err)
	}

	q := p.Clone()
	if _, err := q.Insert("c", 25); err != nil {
		t.Fatal(err)
	}
	q.SetRect(0, geom.Rect{Width: 1, Depth: 1})

	if p.Len() != 2 || q.Len() != 3 {
		t.Errorf("Len() = %d/%d, want 2/3", p.Len(), q.Len())
	}
	if _, ok := p.Lookup("c"); ok {
		t.Error("insert into clone leaked into original")
	}
	mustValidate(t, p)
	wantRects(t, p, map[string]geom.Rect{
		"a": {X: 0, Z: 0, Width: 5, Depth: 10},
		"b": {X: 5, Z: 0, Width: 5, Depth: 10},
	})
}

func TestTransform(t *testing.T) {
	p := mustNew(t, geom.Rect{Width: 10, Depth: 20}, "a", 100)
	if _, err := p.Insert("b", 100); err != nil {
		t.Fatal(err)
	}
	p.Transform(geom.Rect{X: 5, Z: 5, Width: 20, Depth: 10})
	mustValidate(t, p)
	wantRects(t, p, map[string]geom.Rect{
		"a": {X: 5, Z: 5, Width: 20, Depth: 5},
		"b": {X: 5, Z: 10, Width: 20, Depth: 5},
	})
}

func TestScaleSizes(t *testing.T) {
	p := mustNew(t, geom.Rect{Width: 10, Depth: 10}, "a", 1)
	if _, err := p.Insert("b", 3); err != nil {
		t.Fatal(err)
	}
	p.ScaleSizes()
	a, _ := p.Lookup("a")
	b, _ := p.Lookup("b")
	if got := p.Size(a); got != 25 {
		t.Errorf("Size(a) = %v, want 25", got)
	}
	if got := p.Size(b); got != 75 {
		t.Errorf("Size(b) = %v, want 75", got)
	}
}

func TestSegmentsOf(t *testing.T) {
	p := pinwheel(t)
	e, _ := p.Lookup("E")
	got := p.SegmentsOf(e)
	want := []SegmentID{4, 5, 6, 7}
	if len(got) != len(want) {
		t.Fatalf("SegmentsOf(E) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SegmentsOf(E)[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	a, _ := p.Lookup("A")
	if got := p.SegmentsOf(a); len(got) != 2 {
		t.Errorf("SegmentsOf(A) = %v, want the two inner segments", got)
	}
}

func TestValidate_DetectsBrokenGeometry(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Partition)
	}{
		{"non-positive", func(p *Partition) { p.SetRect(0, geom.Rect{Width: 0, Depth: 10}) }},
		{"shifted", func(p *Partition) { p.SetRect(1, geom.Rect{X: 6, Z: 0, Width: 4, Depth: 10}) }},
		{"unregistered", func(p *Partition) { p.detach(0, Right) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustNew(t, geom.Rect{Width: 10, Depth: 10}, "a", 50)
			if _, err := p.Insert("b", 50); err != nil {
				t.Fatal(err)
			}
			tt.mutate(p)
			err := p.Validate()
			if !perrors.Is(err, perrors.ErrCodeInvariant) {
				t.Errorf("Validate() = %v, want INVARIANT_VIOLATION", err)
			}
		})
	}
}

func TestFromState_RoundTrip(t *testing.T) {
	p := pinwheel(t)
	if err := p.Remove(4); err != nil {
		t.Fatal(err)
	}

	q, err := FromState(p.State())
	if err != nil {
		t.Fatalf("FromState() error: %v", err)
	}
	if q.Len() != p.Len() {
		t.Fatalf("Len() = %d, want %d", q.Len(), p.Len())
	}
	for _, c := range p.Cells() {
		cell := p.Cell(c)
		if got := rectOf(t, q, cell.ID); !got.ApproxEqual(cell.Rect, eps) {
			t.Errorf("cell %s = %v, want %v", cell.ID, got, cell.Rect)
		}
	}
	if len(q.Segments()) != len(p.Segments()) {
		t.Errorf("Segments() = %d, want %d", len(q.Segments()), len(p.Segments()))
	}
}

func TestFromState_Invalid(t *testing.T) {
	tests := []struct {
		name string
		st   State
	}{
		{"empty", State{}},
		{"segment out of range", State{
			Segments: []SegmentState{{Vertical: true, Const: true}},
			Cells:    []CellState{{ID: "a", Rect: geom.Rect{Width: 1, Depth: 1}, Size: 1, Right: 3}},
		}},
		{"wrong orientation", State{
			Segments: []SegmentState{{Vertical: true, Const: true}},
			Cells:    []CellState{{ID: "a", Rect: geom.Rect{Width: 1, Depth: 1}, Size: 1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromState(tt.st); err == nil {
				t.Error("FromState() should fail")
			}
		})
	}
}

func TestDissect(t *testing.T) {
	items := []Item{{"a", 30}, {"b", 20}, {"c", 25}, {"d", 15}, {"e", 10}}
	p, err := Dissect(geom.Rect{Width: 10, Depth: 10}, items)
	if err != nil {
		t.Fatalf("Dissect() error: %v", err)
	}
	mustValidate(t, p)
	for _, it := range items {
		if got := rectOf(t, p, it.ID).Area(); got < it.Size-1e-9 || got > it.Size+1e-9 {
			t.Errorf("area(%s) = %v, want %v", it.ID, got, it.Size)
		}
	}
}

func TestDissect_Errors(t *testing.T) {
	bounds := geom.Rect{Width: 10, Depth: 10}
	if _, err := Dissect(bounds, nil); !errors.Is(err, ErrNoItems) {
		t.Errorf("Dissect(nil) = %v, want ErrNoItems", err)
	}
	_, err := Dissect(bounds, []Item{{"a", 1}, {"a", 2}})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Dissect(dup) = %v, want ErrDuplicateID", err)
	}
	if !perrors.Is(err, perrors.ErrCodeDuplicateID) {
		t.Errorf("Dissect(dup) code = %v, want DUPLICATE_ID", perrors.GetCode(err))
	}
}

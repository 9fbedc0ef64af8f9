package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
	"github.com/matzehuels/treemap/pkg/treemap"
)

// LayoutFile is the on-disk form of a layout.
type LayoutFile struct {
	Bounds  geom.Rect               `json:"bounds"`
	Padding float64                 `json:"padding"`
	Nodes   []treemap.Placement     `json:"nodes"`
	Groups  []treemap.GroupSnapshot `json:"groups"`
}

// NewLayoutFile flattens l with the given padding. It also returns the
// number of rectangles too small to pad; see [treemap.Layout.Place].
func NewLayoutFile(l *treemap.Layout, padding float64) (LayoutFile, int) {
	nodes, skipped := l.Place(padding)
	snap := l.Snapshot()
	return LayoutFile{
		Bounds:  snap.Bounds,
		Padding: padding,
		Nodes:   nodes,
		Groups:  snap.Groups,
	}, skipped
}

// Layout restores the layout held by the file.
func (f LayoutFile) Layout() (*treemap.Layout, error) {
	return treemap.Restore(treemap.Snapshot{Bounds: f.Bounds, Groups: f.Groups})
}

// WriteLayout encodes f as indented JSON.
func WriteLayout(w io.Writer, f LayoutFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadLayout decodes a layout file from r and restores its layout. ReadLayout
// does not close r.
func ReadLayout(r io.Reader) (LayoutFile, *treemap.Layout, error) {
	var f LayoutFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return LayoutFile{}, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	l, err := f.Layout()
	if err != nil {
		return LayoutFile{}, nil, err
	}
	return f, l, nil
}

// ExportLayout writes f to a JSON file at path.
func ExportLayout(path string, f LayoutFile) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLayout(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// ImportLayout reads the layout file at path.
func ImportLayout(path string) (LayoutFile, *treemap.Layout, error) {
	in, err := os.Open(path)
	if os.IsNotExist(err) {
		return LayoutFile{}, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
	}
	if err != nil {
		return LayoutFile{}, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()
	return ReadLayout(in)
}

package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/treemap"
)

// Format names an item file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported item file %s (want .json or .toml)", path)
}

type itemsFile struct {
	Items []treemap.Item `json:"items" toml:"items"`
}

// ReadItems decodes an item hierarchy from r, names unnamed items and
// validates the result with [treemap.ValidateItems]. ReadItems does not
// close r.
func ReadItems(r io.Reader, format Format) ([]treemap.Item, error) {
	var data itemsFile
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode items")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode items")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown item field %s", undecoded[0])
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported item format %q", format)
	}

	NameItems(data.Items)
	if err := treemap.ValidateItems(data.Items); err != nil {
		return nil, err
	}
	return data.Items, nil
}

// ImportItems reads the item file at path, choosing the format by extension.
func ImportItems(path string) ([]treemap.Item, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "items %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadItems(f, format)
}

// WriteItems encodes items in the given format.
func WriteItems(w io.Writer, items []treemap.Item, format Format) error {
	data := itemsFile{Items: items}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(data); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported item format %q", format)
}

// NameItems gives every item with an empty ID a UUID derived from its path
// of child indices, e.g. "0/2/1".
func NameItems(items []treemap.Item) {
	var walk func(items []treemap.Item, path string)
	walk = func(items []treemap.Item, path string) {
		for i := range items {
			p := path + "/" + strconv.Itoa(i)
			if items[i].ID == "" {
				items[i].ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(p)).String()
			}
			walk(items[i].Children, p)
		}
	}
	walk(items, "")
}

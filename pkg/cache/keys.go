package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/treemap/pkg/geom"
)

const layoutPrefix = "layout"

// LayoutKey returns the key of the layout remembered for an input file laid
// out into bounds. The key has the form "layout:<sha256>" where the digest
// covers the cleaned path and the four bounds values.
func LayoutKey(inputPath string, bounds geom.Rect) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%v,%v,%v,%v", filepath.Clean(inputPath), bounds.X, bounds.Z, bounds.Width, bounds.Depth)
	return layoutPrefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// keyType is the prefix of a key, reported to the cache hooks.
func keyType(key string) string {
	prefix, _, _ := strings.Cut(key, ":")
	return prefix
}

// entryName maps any key to a 64-character file stem. Layout keys already
// carry a digest; other keys are hashed.
func entryName(key string) string {
	if prefix, digest, ok := strings.Cut(key, ":"); ok && prefix == layoutPrefix && len(digest) == sha256.Size*2 {
		return digest
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Package io reads item hierarchies and reads and writes layout files.
//
// # Items
//
// An item file lists the hierarchy to lay out. JSON and TOML are accepted;
// the format is chosen by file extension:
//
//	{
//	  "items": [
//	    {"id": "src", "children": [
//	      {"id": "main.go", "size": 120},
//	      {"id": "util.go", "size": 40}
//	    ]},
//	    {"id": "README.md", "size": 12}
//	  ]
//	}
//
// The same hierarchy in TOML:
//
//	[[items]]
//	id = "src"
//
//	  [[items.children]]
//	  id = "main.go"
//	  size = 120.0
//
//	  [[items.children]]
//	  id = "util.go"
//	  size = 40.0
//
//	[[items]]
//	id = "README.md"
//	size = 12.0
//
// Items without an id get a name-based UUID derived from their position in
// the tree, so they keep the same identity across runs as long as the tree
// shape does not change.
//
// # Layout Files
//
// A layout file holds the padded placements for rendering plus a snapshot
// of every group's segment graph:
//
//	{
//	  "bounds": {"x": 0, "z": 0, "width": 100, "depth": 100},
//	  "padding": 0.5,
//	  "nodes": [{"id": "src", "depth": 1, "leaf": false, "rect": {...}}, ...],
//	  "groups": [{"parent": "", "state": {"cells": [...], "segments": [...]}}, ...]
//	}
//
// Reading a layout file restores the snapshot and validates it, so the
// result can seed an incremental update.
package io

// Package io reads and writes changeset graphs and ancestry reports.
//
// # Graph Formats
//
// Graphs can be stored as JSON or TOML. Both describe the same document:
// a list of nodes, each with an id, optional generation, optional parent
// list and optional metadata, plus an optional list of extra edges.
//
//	{
//	  "nodes": [
//	    {"id": "base"},
//	    {"id": "left", "parents": ["base"]},
//	    {"id": "right", "parents": ["base"]},
//	    {"id": "merge", "parents": ["left", "right"]}
//	  ]
//	}
//
// The same graph in TOML:
//
//	[[node]]
//	id = "base"
//
//	[[node]]
//	id = "left"
//	parents = ["base"]
//
// Parent order is preserved. When any node lacks a generation, generations
// are assigned by longest path from the roots. Every import is validated:
// unknown parents, cycles and inconsistent generations fail with an
// INVALID_FORMAT error; missing files fail with FILE_NOT_FOUND.
//
// Use [Import] and [Export] for files (format chosen by extension), or
// [Read] and [Write] for streams. Export always writes generations, so a
// round trip reproduces the graph exactly.
//
// # Reports
//
// [WriteReport] serializes a computed [ancestry.Workspace]: the LCA, the
// SPCAs, the leaves, and per significant node its class, generation,
// immediate significant descendants and covered leaves.
//
// [ancestry.Workspace]: github.com/matzehuels/mergebase/pkg/ancestry.Workspace
package io

package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mergebase/pkg/dag"
	"github.com/matzehuels/mergebase/pkg/dag/transform"
	errs "github.com/matzehuels/mergebase/pkg/errors"
)

// Format names a serialization of a changeset graph.
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
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported graph file %s (want .json or .toml)", path)
}

// ReadJSON decodes a JSON graph from r into a DAG.
//
// The input is an object with a "nodes" array and an optional "edges" array:
//
//	{
//	  "nodes": [{"id": "a"}, {"id": "b", "parents": ["a"]}],
//	  "edges": [{"from": "a", "to": "c"}]
//	}
//
// Each node must have an "id". Parents may be given per node, as edges, or
// both; per-node parents come first. If any node lacks a "generation",
// generations are computed for the whole graph.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dag.DAG, error) {
	var data graph
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json")
	}
	return build(data)
}

// ReadTOML decodes a TOML graph from r into a DAG:
//
//	[[node]]
//	id = "a"
//
//	[[node]]
//	id = "b"
//	parents = ["a"]
//	generation = 1
//
// The rules match [ReadJSON]; edges may also be listed as [[edge]] tables.
func ReadTOML(r io.Reader) (*dag.DAG, error) {
	var data graph
	md, err := toml.NewDecoder(r).Decode(&data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "decode toml: unknown key %s", undecoded[0])
	}
	return build(data)
}

// Read decodes a graph in the given format.
func Read(r io.Reader, format Format) (*dag.DAG, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown format %q", format)
}

// Import reads the graph file at path, choosing the format by extension.
func Import(path string) (*dag.DAG, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func build(data graph) (*dag.DAG, error) {
	if len(data.Nodes) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "graph has no nodes")
	}

	g := dag.New(data.Meta)
	complete := true
	for _, n := range data.Nodes {
		if err := errs.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
		nd := dag.Node{ID: n.ID, Meta: n.Meta}
		if n.Generation != nil {
			nd.Generation = *n.Generation
		} else {
			complete = false
		}
		if err := g.AddNode(nd); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "node %s", n.ID)
		}
	}
	for _, n := range data.Nodes {
		for _, p := range n.Parents {
			if err := g.AddEdge(dag.Edge{From: p, To: n.ID}); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parent %s of %s", p, n.ID)
			}
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "edge %s->%s", e.From, e.To)
		}
	}

	if !complete {
		if err := transform.AssignGenerations(g); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "assign generations")
		}
	}
	if err := g.Validate(); err != nil {
		if errors.Is(err, dag.ErrGraphHasCycle) {
			err = fmt.Errorf("%w: %v", err, transform.FindCycle(g))
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "invalid graph")
	}
	return g, nil
}

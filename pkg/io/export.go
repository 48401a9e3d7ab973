package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mergebase/pkg/dag"
	errs "github.com/matzehuels/mergebase/pkg/errors"
)

type graph struct {
	Meta  dag.Metadata `json:"meta,omitempty" toml:"meta,omitempty"`
	Nodes []node       `json:"nodes" toml:"node"`
	Edges []edge       `json:"edges,omitempty" toml:"edge,omitempty"`
}

type node struct {
	ID         string       `json:"id" toml:"id"`
	Generation *uint32      `json:"generation,omitempty" toml:"generation,omitempty"`
	Parents    []string     `json:"parents,omitempty" toml:"parents,omitempty"`
	Meta       dag.Metadata `json:"meta,omitempty" toml:"meta,omitempty"`
}

type edge struct {
	From string `json:"from" toml:"from"`
	To   string `json:"to" toml:"to"`
}

// encodeGraph lists nodes by generation with their parents inline. Every
// node carries its generation, so a round trip never recomputes them.
func encodeGraph(g *dag.DAG) graph {
	out := graph{Nodes: make([]node, 0, g.NodeCount())}
	if len(g.Meta()) > 0 {
		out.Meta = g.Meta()
	}
	for _, n := range g.Nodes() {
		gen := n.Generation
		nd := node{ID: n.ID, Generation: &gen, Parents: g.Parents(n.ID)}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		out.Nodes = append(out.Nodes, nd)
	}
	return out
}

// WriteJSON encodes a DAG as indented JSON. The output can be re-imported
// with [ReadJSON].
func WriteJSON(g *dag.DAG, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(encodeGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML encodes a DAG as TOML with one [[node]] table per changeset.
func WriteTOML(g *dag.DAG, w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	if err := enc.Encode(encodeGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Write encodes a DAG in the given format.
func Write(g *dag.DAG, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(g, w)
	case FormatTOML:
		return WriteTOML(g, w)
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unknown format %q", format)
}

// Export writes a DAG to path, choosing the format by extension.
func Export(g *dag.DAG, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(g, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

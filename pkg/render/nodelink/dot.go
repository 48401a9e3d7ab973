package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mergebase/pkg/ancestry"
	"github.com/matzehuels/mergebase/pkg/dag"
	"github.com/matzehuels/mergebase/pkg/dag/transform"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	"github.com/matzehuels/mergebase/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the generation, class and metadata in node labels.
	// When false, only the node ID is shown.
	Detailed bool

	// Heads limits the diagram to these nodes and their ancestors.
	// Empty means the whole graph.
	Heads []string

	// Convergence adds dotted edges from every LCA and SPCA to its
	// immediate significant descendants.
	Convergence bool
}

// Fill colors per class. Visited pass-through nodes stay white; nodes the
// traversal never fetched are grey and dashed.
var classFill = map[ancestry.Class]string{
	ancestry.ClassNobody: "white",
	ancestry.ClassLeaf:   "palegreen",
	ancestry.ClassSPCA:   "lightskyblue",
	ancestry.ClassLCA:    "gold",
}

// ToDOT converts a changeset graph to Graphviz DOT source. When ws is
// non-nil, nodes are styled by the class the workspace assigned them.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g *dag.DAG, ws *ancestry.Workspace, opts Options) string {
	if len(opts.Heads) > 0 {
		g = transform.Ancestry(g, opts.Heads...)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		info, visited := lookup(ws, n.ID)
		label := fmtLabel(*n, info, visited, opts.Detailed)
		attrs := fmtAttrs(info, visited, ws != nil, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	// Edges point from child to parent so rankdir=BT puts roots at the top.
	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.To, e.From)
	}

	if opts.Convergence && ws != nil {
		writeConvergence(&buf, g, ws)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func lookup(ws *ancestry.Workspace, id string) (ancestry.NodeInfo, bool) {
	if ws == nil {
		return ancestry.NodeInfo{}, false
	}
	return ws.Lookup(id)
}

func writeConvergence(buf *bytes.Buffer, g *dag.DAG, ws *ancestry.Workspace) {
	var lines []string
	for a := range ws.All(false) {
		if _, ok := g.Node(a.ID); !ok {
			continue
		}
		for _, d := range a.ImmediateDescendants() {
			if _, ok := g.Node(d); !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("  %q -> %q [style=dotted, color=steelblue, constraint=false];\n", d, a.ID))
		}
	}
	if len(lines) == 0 {
		return
	}
	buf.WriteString("\n")
	for _, l := range lines {
		buf.WriteString(l)
	}
}

func fmtLabel(n dag.Node, info ancestry.NodeInfo, visited, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := []string{fmt.Sprintf("gen: %d", n.Generation)}
	if visited && info.Class != ancestry.ClassNobody {
		parts = append(parts, "class: "+info.Class.String())
	}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}

	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(info ancestry.NodeInfo, visited, styled bool, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !styled {
		return attrs
	}
	if !visited {
		return append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=dimgrey")
	}
	if fill := classFill[info.Class]; fill != "white" {
		attrs = append(attrs, "fillcolor="+fill)
	}
	if info.Class == ancestry.ClassLCA {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

// Render produces the requested format from DOT source.
func Render(ctx context.Context, dot string, format render.Format, scale float64) ([]byte, error) {
	switch format {
	case render.FormatDOT:
		return []byte(dot), nil
	case render.FormatSVG:
		return RenderSVG(ctx, dot)
	case render.FormatPDF:
		return RenderPDF(ctx, dot)
	case render.FormatPNG:
		return RenderPNG(ctx, dot, scale)
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "unknown render format %q", format)
}

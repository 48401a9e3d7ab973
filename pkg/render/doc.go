// Package render turns changeset graphs and ancestry results into pictures.
//
// The [nodelink] subpackage builds Graphviz DOT source with the LCA, the
// SPCAs and the leaves highlighted, and renders it to SVG in process.
// [ToPDF] and [ToPNG] convert that SVG with the external rsvg-convert tool
// (from librsvg).
//
//	dot := nodelink.ToDOT(g, ws, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/mergebase/pkg/render/nodelink
package render

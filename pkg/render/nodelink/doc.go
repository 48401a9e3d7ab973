// Package nodelink draws changeset graphs as node-link diagrams.
//
// [ToDOT] emits Graphviz DOT source with roots at the top. Given a computed
// [ancestry.Workspace], it colors nodes by class:
//
//   - gold with a heavy border: the LCA
//   - blue: SPCAs
//   - green: the input leaves
//   - white: visited pass-through nodes
//   - grey, dashed: nodes the traversal never fetched
//
// The grey region shows how much history the short-circuit skipped.
//
//	dot := nodelink.ToDOT(g, ws, nodelink.Options{Heads: leaves, Convergence: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// SVG rendering runs in process through [github.com/goccy/go-graphviz].
// PDF and PNG conversion requires librsvg (rsvg-convert).
//
// [ancestry.Workspace]: github.com/matzehuels/mergebase/pkg/ancestry.Workspace
package nodelink

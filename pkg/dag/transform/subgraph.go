package transform

import "github.com/matzehuels/mergebase/pkg/dag"

// Ancestry returns a new graph holding the given heads and every ancestor
// they reach, with the edges between them. Node values, including
// generations and metadata, are copied. Unknown heads are ignored.
func Ancestry(g *dag.DAG, heads ...string) *dag.DAG {
	keep := make(map[string]bool)
	stack := make([]string, 0, len(heads))
	for _, h := range heads {
		if _, ok := g.Node(h); ok {
			stack = append(stack, h)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if keep[id] {
			continue
		}
		keep[id] = true
		stack = append(stack, g.Parents(id)...)
	}
	return Restrict(g, keep)
}

// Restrict returns a new graph with only the nodes in keep and the edges
// among them, preserving insertion and parent order.
func Restrict(g *dag.DAG, keep map[string]bool) *dag.DAG {
	out := dag.New(g.Meta())
	for _, id := range g.IDs() {
		if !keep[id] {
			continue
		}
		n, _ := g.Node(id)
		_ = out.AddNode(*n)
	}
	for _, e := range g.Edges() {
		if keep[e.From] && keep[e.To] {
			_ = out.AddEdge(e)
		}
	}
	return out
}

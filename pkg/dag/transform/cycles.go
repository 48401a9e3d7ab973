package transform

import (
	"slices"

	"github.com/matzehuels/mergebase/pkg/dag"
)

// FindCycle returns the node IDs along one directed cycle, starting and
// ending at the same node, or nil if the graph is acyclic. Traversal starts
// from nodes in insertion order so the reported cycle is deterministic.
func FindCycle(g *dag.DAG) []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var path, cycle []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		color[node] = gray
		path = append(path, node)
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				start := slices.Index(path, child)
				cycle = append(slices.Clone(path[start:]), child)
				return true
			}
		}
		path = path[:len(path)-1]
		color[node] = black
		return false
	}

	for _, id := range g.IDs() {
		if color[id] == white && dfs(id) {
			return cycle
		}
	}
	return nil
}

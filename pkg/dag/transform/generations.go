package transform

import (
	"fmt"

	"github.com/matzehuels/mergebase/pkg/dag"
)

// AssignGenerations assigns every node its depth from the roots.
//
// AssignGenerations uses a longest-path algorithm via topological sort
// (Kahn's algorithm). Each node is placed at one plus the maximum
// generation of any of its parents, so:
//   - Root nodes (no parents) are at generation 0
//   - All parents are strictly below their children
//
// Existing generations are overwritten. If the graph has a cycle, the nodes
// on it never reach zero in-degree; AssignGenerations then leaves the graph
// untouched and returns an error wrapping [dag.ErrGraphHasCycle] that names
// one cycle.
//
// Time complexity is O(V + E).
func AssignGenerations(g *dag.DAG) error {
	ids := g.IDs()
	inDegree := make(map[string]int, len(ids))
	gens := make(map[string]uint32, len(ids))
	queue := make([]string, 0, len(ids))

	for _, id := range ids {
		degree := len(g.Parents(id))
		inDegree[id] = degree
		if degree == 0 {
			gens[id] = 0
			queue = append(queue, id)
		}
	}

	done := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		done++

		for _, child := range g.Children(curr) {
			if gen := gens[curr] + 1; gen > gens[child] {
				gens[child] = gen
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if done < len(ids) {
		return fmt.Errorf("%w: %v", dag.ErrGraphHasCycle, FindCycle(g))
	}
	g.SetGenerations(gens)
	return nil
}

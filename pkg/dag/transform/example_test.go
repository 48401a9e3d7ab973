package transform_test

import (
	"fmt"

	"github.com/matzehuels/mergebase/pkg/dag"
	"github.com/matzehuels/mergebase/pkg/dag/transform"
)

func ExampleAssignGenerations() {
	// Edges only: base -> feature -> merge, base -> merge
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "base"})
	_ = g.AddNode(dag.Node{ID: "feature"})
	_ = g.AddNode(dag.Node{ID: "merge"})
	_ = g.AddEdge(dag.Edge{From: "base", To: "feature"})
	_ = g.AddEdge(dag.Edge{From: "feature", To: "merge"})
	_ = g.AddEdge(dag.Edge{From: "base", To: "merge"})

	if err := transform.AssignGenerations(g); err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, n := range g.Nodes() {
		fmt.Println(n.ID, n.Generation)
	}
	// Output:
	// base 0
	// feature 1
	// merge 2
}

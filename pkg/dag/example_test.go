package dag_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/mergebase/pkg/dag"
)

func ExampleDAG_basic() {
	// base -> feature -> fix
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "base", Generation: 0})
	_ = g.AddNode(dag.Node{ID: "feature", Generation: 1})
	_ = g.AddNode(dag.Node{ID: "fix", Generation: 2})
	_ = g.AddEdge(dag.Edge{From: "base", To: "feature"})
	_ = g.AddEdge(dag.Edge{From: "feature", To: "fix"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Generations:", g.Generations())
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Generations: [0 1 2]
	// Valid: true
}

func ExampleDAG_Fetch() {
	// A merge changeset with two parents
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "base"})
	_ = g.AddNode(dag.Node{ID: "left", Generation: 1})
	_ = g.AddNode(dag.Node{ID: "right", Generation: 1})
	_ = g.AddNode(dag.Node{ID: "merge", Generation: 2})
	_ = g.AddEdge(dag.Edge{From: "base", To: "left"})
	_ = g.AddEdge(dag.Edge{From: "base", To: "right"})
	_ = g.AddEdge(dag.Edge{From: "left", To: "merge"})
	_ = g.AddEdge(dag.Edge{From: "right", To: "merge"})

	n, _ := g.Fetch(context.Background(), "repo", "merge")
	fmt.Println("Generation:", n.Generation)
	fmt.Println("Parents:", n.Parents)
	// Output:
	// Generation: 2
	// Parents: [left right]
}

func ExampleDAG_metadata() {
	g := dag.New(dag.Metadata{"name": "my-repo"})
	_ = g.AddNode(dag.Node{
		ID: "c0ffee",
		Meta: dag.Metadata{
			"message": "initial import",
			"author":  "dev",
		},
	})

	node, _ := g.Node("c0ffee")
	fmt.Println("Changeset:", node.ID)
	fmt.Println("Message:", node.Meta["message"])
	// Output:
	// Changeset: c0ffee
	// Message: initial import
}

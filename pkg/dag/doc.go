// Package dag provides an in-memory changeset graph.
//
// # Overview
//
// A changeset graph is a directed acyclic graph whose edges run from a
// parent changeset to each of its children. Every node carries a
// generation: roots have generation 0, and each node sits strictly below
// all of its parents. The [transform] subpackage computes generations by
// longest path when the input does not carry them.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "base"})
//	g.AddNode(dag.Node{ID: "feature", Generation: 1})
//	g.AddEdge(dag.Edge{From: "base", To: "feature"})
//
// [DAG.Validate] checks edge endpoints, generation order and acyclicity.
//
// # Fetching
//
// [DAG.Fetch] satisfies [ancestry.Fetcher], so a loaded graph can be handed
// straight to an ancestry computation. Parents are reported in the order
// their edges were added.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines modify the same graph; the memory store in
// pkg/store does this for served graphs.
//
// [transform]: github.com/matzehuels/mergebase/pkg/dag/transform
package dag

// Package ancestry computes the lowest common ancestor of a set of nodes in
// a changeset DAG, together with every significant partial common ancestor
// (SPCA) that criss-cross merges produce between the leaves and the LCA.
//
// # Overview
//
// Nodes are read lazily through a [Fetcher]; the DAG is never loaded as a
// whole. Each node carries a generation (its depth from the roots), and the
// traversal walks from the input leaves towards the roots in strictly
// non-increasing generation order. Every visited node accumulates a closure
// bit-set naming the significant nodes below it. A node where two or more
// independent lineages first meet is registered as an SPCA and receives its
// own bit, which later ancestors inherit. The traversal stops as soon as it
// can prove that no remaining frontier node can become a peer of the
// current complete ancestor.
//
// # Usage
//
//	ws := ancestry.New("repo", fetcher, ancestry.WithLogger(logger))
//	if err := ws.AddLeaves(ctx, "a1b2", "c3d4"); err != nil {
//	    return err
//	}
//	if err := ws.Compute(ctx); err != nil {
//	    return err
//	}
//	for a := range ws.All(false) {
//	    fmt.Println(a.ID, a.Class, a.ImmediateDescendants())
//	}
//
// [FindLCA] wraps those three steps.
//
// # Errors
//
// All failures are coded errors from [github.com/matzehuels/mergebase/pkg/errors]:
// FROZEN and NOT_FROZEN for lifecycle misuse, DUPLICATE_LEAF,
// LEAF_IS_ANCESTOR when one leaf lies below another, NO_ANCESTOR when no
// single node covers every leaf (for example in a disconnected DAG),
// NOT_FOUND for queries about unvisited nodes, and FETCH_FAILED wrapping
// whatever the fetcher returned.
//
// A [Workspace] is single-use and not safe for concurrent use.
package ancestry

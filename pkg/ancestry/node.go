package ancestry

import "context"

// RootID identifies the implied root that sits below every real root node.
// Fetchers answer it with a synthetic node that has no parents; the
// traversal itself never materializes it.
const RootID = ""

// Node is the data a [Fetcher] returns for one changeset.
type Node struct {
	// Generation is the depth of the node: roots have generation 0 and every
	// node has a generation strictly greater than each of its parents.
	Generation uint32
	// Parents lists parent identifiers in the order the store keeps them.
	Parents []string
}

// Fetcher retrieves a single node of a DAG. Implementations may perform I/O;
// the traversal blocks on each call. A Fetcher must return the synthetic
// root node for [RootID].
type Fetcher interface {
	Fetch(ctx context.Context, dagID, id string) (*Node, error)
}

// FetchFunc adapts an ordinary function to the [Fetcher] interface.
type FetchFunc func(ctx context.Context, dagID, id string) (*Node, error)

// Fetch calls f(ctx, dagID, id).
func (f FetchFunc) Fetch(ctx context.Context, dagID, id string) (*Node, error) {
	return f(ctx, dagID, id)
}

// Class is the role a node plays in a computed result.
type Class int

const (
	// ClassNobody marks pass-through nodes that never became significant.
	ClassNobody Class = iota
	// ClassLeaf marks one of the caller-supplied input nodes.
	ClassLeaf
	// ClassSPCA marks a significant partial common ancestor: a node where two
	// or more independent significant lineages first converge.
	ClassSPCA
	// ClassLCA marks the single root-most SPCA covering every leaf.
	ClassLCA
)

var classNames = [...]string{
	ClassNobody: "nobody",
	ClassLeaf:   "leaf",
	ClassSPCA:   "spca",
	ClassLCA:    "lca",
}

// String returns the lowercase name of the class.
func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// NodeInfo is a read-only view of a cached node.
type NodeInfo struct {
	ID         string
	Generation uint32
	Parents    []string
	Class      Class
	// Index is the node's slot in the significant-node registry, or -1.
	Index int
}

package dag

import (
	"cmp"
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/matzehuels/mergebase/pkg/ancestry"
	errs "github.com/matzehuels/mergebase/pkg/errors"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	// The empty identifier is reserved for the implied root.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownParent is returned by [DAG.AddEdge] when the From node does
	// not exist.
	ErrUnknownParent = errors.New("unknown parent node")

	// ErrUnknownChild is returned by [DAG.AddEdge] when the To node does not
	// exist.
	ErrUnknownChild = errors.New("unknown child node")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGenerationOrder is returned by [DAG.Validate] when a parent does not
	// have a strictly lower generation than its child.
	ErrGenerationOrder = errors.New("parent generation must be below child generation")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph,
// such as a changeset message or author. Metadata maps are never nil after
// AddNode.
type Metadata map[string]any

// Node is a changeset in the graph.
//
// The zero value is not usable - ID must be set before adding to a DAG.
type Node struct {
	ID         string   // Unique identifier, typically a content hash
	Generation uint32   // Depth from the roots; roots are 0
	Meta       Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Edge connects a parent changeset (From) to one of its children (To).
type Edge struct {
	From string // Parent node ID
	To   string // Child node ID
}

// DAG is an in-memory changeset graph. Parents are kept in the order their
// edges were added, which is the order [DAG.Fetch] reports them.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	order    []string            // insertion order
	edges    []Edge
	outgoing map[string][]string // nodeID -> children IDs
	incoming map[string][]string // nodeID -> parent IDs
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the node ID
// is empty, or ErrDuplicateNodeID if a node with the same ID already exists.
func (d *DAG) AddNode(n Node) error {
	if n.ID == ancestry.RootID {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	d.nodes[n.ID] = &n
	d.order = append(d.order, n.ID)
	return nil
}

// AddEdge records that From is a parent of To. Both nodes must exist.
// AddEdge does not check generations - use Validate after building the graph.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownParent
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownChild
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// SetGenerations updates generation assignments. Nodes not present in gens
// keep their current generation.
func (d *DAG) SetGenerations(gens map[string]uint32) {
	for id, g := range gens {
		if n, ok := d.nodes[id]; ok {
			n.Generation = g
		}
	}
}

// Nodes returns all nodes ordered by generation, then ID. The returned
// pointers refer to the nodes in the graph.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.nodes))
	for _, id := range d.order {
		nodes = append(nodes, d.nodes[id])
	}
	slices.SortFunc(nodes, compareNodes)
	return nodes
}

// IDs returns node IDs in insertion order.
func (d *DAG) IDs() []string { return slices.Clone(d.order) }

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of the node's children. The returned slice
// should not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of the node's parents in edge insertion order.
// The returned slice should not be modified.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// Node returns the node with the given ID and true, or nil and false.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Generations returns the distinct generations in ascending order.
func (d *DAG) Generations() []uint32 {
	seen := make(map[uint32]struct{})
	for _, n := range d.nodes {
		seen[n.Generation] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// NodesInGeneration returns the nodes of generation g ordered by ID.
func (d *DAG) NodesInGeneration(g uint32) []*Node {
	var out []*Node
	for _, n := range d.nodes {
		if n.Generation == g {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, compareNodes)
	return out
}

// Roots returns nodes without parents, ordered by ID.
func (d *DAG) Roots() []*Node {
	var roots []*Node
	for _, n := range d.nodes {
		if len(d.incoming[n.ID]) == 0 {
			roots = append(roots, n)
		}
	}
	slices.SortFunc(roots, compareNodes)
	return roots
}

// Heads returns nodes without children, ordered by generation then ID.
func (d *DAG) Heads() []*Node {
	var heads []*Node
	for _, n := range d.nodes {
		if len(d.outgoing[n.ID]) == 0 {
			heads = append(heads, n)
		}
	}
	slices.SortFunc(heads, compareNodes)
	return heads
}

// Validate checks graph integrity and returns nil if valid. It verifies
// that every edge connects existing nodes, that every parent has a lower
// generation than its child, and that the graph is acyclic.
//
// Returns ErrInvalidEdgeEndpoint, ErrGenerationOrder or ErrGraphHasCycle.
func (d *DAG) Validate() error {
	if err := d.detectCycles(); err != nil {
		return err
	}
	return d.validateEdgeConsistency()
}

func (d *DAG) validateEdgeConsistency() error {
	for _, e := range d.edges {
		parent, okP := d.nodes[e.From]
		child, okC := d.nodes[e.To]
		if !okP || !okC {
			return ErrInvalidEdgeEndpoint
		}
		if parent.Generation >= child.Generation {
			return ErrGenerationOrder
		}
	}
	return nil
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// Fetch implements [ancestry.Fetcher] over the graph. The dagID is ignored;
// callers holding several graphs should route through a store. Unknown IDs
// fail with a NOT_FOUND error.
func (d *DAG) Fetch(_ context.Context, _ string, id string) (*ancestry.Node, error) {
	if id == ancestry.RootID {
		return &ancestry.Node{}, nil
	}
	n, ok := d.nodes[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "node %s not found", id)
	}
	return &ancestry.Node{
		Generation: n.Generation,
		Parents:    slices.Clone(d.incoming[id]),
	}, nil
}

func compareNodes(a, b *Node) int {
	if c := cmp.Compare(a.Generation, b.Generation); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

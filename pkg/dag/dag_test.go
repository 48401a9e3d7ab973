package dag

import (
	"context"
	"errors"
	"slices"
	"testing"

	errs "github.com/matzehuels/mergebase/pkg/errors"
)

func diamond(t *testing.T) *DAG {
	t.Helper()
	g := New(nil)
	for _, n := range []Node{
		{ID: "a"},
		{ID: "b", Generation: 1},
		{ID: "c", Generation: 1},
		{ID: "d", Generation: 2},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	for _, e := range []Edge{{"a", "b"}, {"a", "c"}, {"c", "d"}, {"b", "d"}} {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "x"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(Node{ID: "x"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v, want ErrDuplicateNodeID", err)
	}
	n, _ := g.Node("x")
	if n.Meta == nil {
		t.Error("Meta should be initialized")
	}
}

func TestAddEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "x"})
	if err := g.AddEdge(Edge{From: "missing", To: "x"}); !errors.Is(err, ErrUnknownParent) {
		t.Errorf("AddEdge = %v, want ErrUnknownParent", err)
	}
	if err := g.AddEdge(Edge{From: "x", To: "missing"}); !errors.Is(err, ErrUnknownChild) {
		t.Errorf("AddEdge = %v, want ErrUnknownChild", err)
	}
}

func TestQueries(t *testing.T) {
	g := diamond(t)

	if got := g.Parents("d"); !slices.Equal(got, []string{"c", "b"}) {
		t.Errorf("Parents(d) = %v, want [c b]", got)
	}
	if got := g.Children("a"); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Children(a) = %v, want [b c]", got)
	}
	if got := NodeIDs(g.Roots()); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Roots() = %v, want [a]", got)
	}
	if got := NodeIDs(g.Heads()); !slices.Equal(got, []string{"d"}) {
		t.Errorf("Heads() = %v, want [d]", got)
	}
	if got := NodeIDs(g.Nodes()); !slices.Equal(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("Nodes() = %v, want [a b c d]", got)
	}
	if got := NodeIDs(g.NodesInGeneration(1)); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("NodesInGeneration(1) = %v, want [b c]", got)
	}
	if got := g.IDs(); !slices.Equal(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("IDs() = %v", got)
	}
	if g.EdgeCount() != 4 || len(g.Edges()) != 4 {
		t.Errorf("EdgeCount() = %d, want 4", g.EdgeCount())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		build func(*DAG)
		want  error
	}{
		{"valid", func(*DAG) {}, nil},
		{
			"generation order",
			func(g *DAG) { g.SetGenerations(map[string]uint32{"d": 1}) },
			ErrGenerationOrder,
		},
		{
			"cycle",
			func(g *DAG) { _ = g.AddEdge(Edge{From: "d", To: "a"}) },
			ErrGraphHasCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := diamond(t)
			tt.build(g)
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	g := diamond(t)
	ctx := context.Background()

	n, err := g.Fetch(ctx, "repo", "d")
	if err != nil {
		t.Fatalf("Fetch(d): %v", err)
	}
	if n.Generation != 2 || !slices.Equal(n.Parents, []string{"c", "b"}) {
		t.Errorf("Fetch(d) = %+v", n)
	}

	n.Parents[0] = "mutated"
	if g.Parents("d")[0] != "c" {
		t.Error("Fetch should return a copy of the parent list")
	}

	root, err := g.Fetch(ctx, "repo", "")
	if err != nil || root.Generation != 0 || len(root.Parents) != 0 {
		t.Errorf("Fetch(root) = %+v, %v", root, err)
	}

	if _, err := g.Fetch(ctx, "repo", "zzz"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("Fetch(zzz) = %v, want NOT_FOUND", err)
	}
}

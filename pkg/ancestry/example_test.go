package ancestry_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/mergebase/pkg/ancestry"
	errs "github.com/matzehuels/mergebase/pkg/errors"
)

// nodes is a tiny criss-cross history: two branches merged into each other
// before the final two heads.
var nodes = map[string]ancestry.Node{
	"base": {Generation: 0},
	"a1":   {Generation: 1, Parents: []string{"base"}},
	"b1":   {Generation: 1, Parents: []string{"base"}},
	"a2":   {Generation: 2, Parents: []string{"a1", "b1"}},
	"b2":   {Generation: 2, Parents: []string{"b1", "a1"}},
}

func fetch(_ context.Context, _ string, id string) (*ancestry.Node, error) {
	if id == ancestry.RootID {
		return &ancestry.Node{}, nil
	}
	n, ok := nodes[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "node %s not found", id)
	}
	return &n, nil
}

func ExampleFindLCA() {
	ws, err := ancestry.FindLCA(context.Background(), "demo", ancestry.FetchFunc(fetch), []string{"a2", "b2"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for a := range ws.All(false) {
		fmt.Println(a.ID, a.Class, a.ImmediateDescendants())
	}
	// Output:
	// base lca [a1 b1]
	// a1 spca [a2 b2]
	// b1 spca [a2 b2]
}

func ExampleWorkspace_DescendantLeaves() {
	ws := ancestry.New("demo", ancestry.FetchFunc(fetch))
	ctx := context.Background()
	_ = ws.AddLeaves(ctx, "a2", "b2")
	if err := ws.Compute(ctx); err != nil {
		fmt.Println("error:", err)
		return
	}
	leaves, _ := ws.DescendantLeaves("a1")
	fmt.Println(leaves)
	// Output: [a2 b2]
}

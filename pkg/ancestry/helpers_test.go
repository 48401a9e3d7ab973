package ancestry

import (
	"context"
	"slices"

	errs "github.com/matzehuels/mergebase/pkg/errors"
)

// testGraph maps a node to its parents. Roots map to nil. Generations are
// derived as the longest path from a root.
type testGraph map[string][]string

func (g testGraph) generation(id string, memo map[string]uint32) uint32 {
	if v, ok := memo[id]; ok {
		return v
	}
	var gen uint32
	for _, p := range g[id] {
		if pg := g.generation(p, memo) + 1; pg > gen {
			gen = pg
		}
	}
	memo[id] = gen
	return gen
}

func (g testGraph) fetcher() FetchFunc {
	memo := make(map[string]uint32)
	return func(_ context.Context, _ string, id string) (*Node, error) {
		if id == RootID {
			return &Node{}, nil
		}
		parents, ok := g[id]
		if !ok {
			return nil, errs.New(errs.ErrCodeNotFound, "node %s not found", id)
		}
		return &Node{Generation: g.generation(id, memo), Parents: slices.Clone(parents)}, nil
	}
}

// countingFetcher records every id fetched through it.
type countingFetcher struct {
	f       Fetcher
	fetched []string
}

func (c *countingFetcher) Fetch(ctx context.Context, dagID, id string) (*Node, error) {
	c.fetched = append(c.fetched, id)
	return c.f.Fetch(ctx, dagID, id)
}

func compute(g testGraph, leaves ...string) (*Workspace, error) {
	return FindLCA(context.Background(), "test", g.fetcher(), leaves)
}

func ids(as []Ancestor) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}

var (
	// A -> {B, C} -> {L0, L1}
	simpleMerge = testGraph{
		"A":  nil,
		"B":  {"A"},
		"C":  {"A"},
		"L0": {"B"},
		"L1": {"C"},
	}

	// Three layers of fully connected diamonds under T.
	crissCross = testGraph{
		"T":  nil,
		"A1": {"T"},
		"B1": {"T"},
		"A2": {"A1", "B1"},
		"B2": {"A1", "B1"},
		"A3": {"A2", "B2"},
		"B3": {"A2", "B2"},
		"L0": {"A3", "B3"},
		"L1": {"A3", "B3"},
	}

	// A -> {B, C}, B -> {L0, L1}, C -> {L2, L3}
	balanced = testGraph{
		"A":  nil,
		"B":  {"A"},
		"C":  {"A"},
		"L0": {"B"},
		"L1": {"B"},
		"L2": {"C"},
		"L3": {"C"},
	}

	// R -> {M, S}, M -> {L0, L1, L2}, S -> {L0, L1}
	nested = testGraph{
		"R":  nil,
		"M":  {"R"},
		"S":  {"R"},
		"L0": {"M", "S"},
		"L1": {"M", "S"},
		"L2": {"M"},
	}

	// X -> {A, Z}, A -> {B, C}, Z -> C, B -> L0, C -> L1
	sideBranch = testGraph{
		"X":  nil,
		"A":  {"X"},
		"Z":  {"X"},
		"B":  {"A"},
		"C":  {"A", "Z"},
		"L0": {"B"},
		"L1": {"C"},
	}

	// S converges L0 and L1, and P sees L0, L1 directly and S through the
	// pass-through X. P must stay pass-through: S accounts for both leaves.
	sharedBelow = testGraph{
		"T":  nil,
		"P":  {"T"},
		"X":  {"P"},
		"S":  {"X"},
		"L0": {"S", "P"},
		"L1": {"S", "P"},
	}

	// The sharedBelow shape nested twice: P is a false convergence above S,
	// and P2 is a false convergence above the real SPCA S2, which joins the
	// S lineage (through P) with L2.
	nestedPassThrough = testGraph{
		"T":  nil,
		"P2": {"T"},
		"Y":  {"P2"},
		"S2": {"Y"},
		"P":  {"S2", "P2"},
		"X":  {"P"},
		"S":  {"X"},
		"L0": {"S", "P"},
		"L1": {"S", "P"},
		"L2": {"S2", "P2"},
	}
)

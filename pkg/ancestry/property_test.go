package ancestry

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	errs "github.com/matzehuels/mergebase/pkg/errors"
)

// randomGraph builds a single-rooted DAG where node i picks one to three
// parents among nodes [0, i).
func randomGraph(rng *rand.Rand, n int) testGraph {
	g := testGraph{"n0": nil}
	for i := 1; i < n; i++ {
		k := 1 + rng.IntN(min(3, i))
		seen := map[int]bool{}
		var parents []string
		for len(parents) < k {
			p := rng.IntN(i)
			if seen[p] {
				continue
			}
			seen[p] = true
			parents = append(parents, fmt.Sprintf("n%d", p))
		}
		g[fmt.Sprintf("n%d", i)] = parents
	}
	return g
}

// ancestorsOf returns every proper ancestor of id.
func (g testGraph) ancestorsOf(id string) map[string]bool {
	out := map[string]bool{}
	stack := slices.Clone(g[id])
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if out[n] {
			continue
		}
		out[n] = true
		stack = append(stack, g[n]...)
	}
	return out
}

// minimalCommonAncestors returns the common proper ancestors of leaves that
// are not themselves ancestors of another common ancestor, sorted.
func (g testGraph) minimalCommonAncestors(leaves []string) []string {
	common := g.ancestorsOf(leaves[0])
	for _, l := range leaves[1:] {
		above := g.ancestorsOf(l)
		for c := range common {
			if !above[c] {
				delete(common, c)
			}
		}
	}
	var out []string
	for c := range common {
		minimal := true
		for o := range common {
			if o != c && g.ancestorsOf(o)[c] {
				minimal = false
				break
			}
		}
		if minimal {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}

func TestRandomDAGProperties(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			g := randomGraph(rng, 4+rng.IntN(28))

			// Leaves come from the later half of the nodes, which is
			// where lineages diverge without covering each other.
			lo := len(g) / 2
			k := 2 + rng.IntN(3)
			var leaves []string
			for _, i := range rng.Perm(len(g) - lo)[:min(k, len(g)-lo)] {
				leaves = append(leaves, fmt.Sprintf("n%d", lo+i))
			}

			above := map[string]map[string]bool{}
			wantLeafErr := false
			for _, l := range leaves {
				above[l] = g.ancestorsOf(l)
			}
			for _, l := range leaves {
				for _, o := range leaves {
					if above[l][o] {
						wantLeafErr = true
					}
				}
			}

			ws, err := compute(g, leaves...)
			if wantLeafErr {
				if !errs.Is(err, errs.ErrCodeLeafIsAncestor) {
					t.Fatalf("leaves %v: error = %v, want LEAF_IS_ANCESTOR", leaves, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("leaves %v: %v", leaves, err)
			}
			checkResult(t, g, ws, leaves)

			shuffled := slices.Clone(leaves)
			rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			again, err := compute(g, shuffled...)
			if err != nil {
				t.Fatalf("shuffled leaves %v: %v", shuffled, err)
			}
			a, _ := ws.Ancestors(true)
			b, _ := again.Ancestors(true)
			if !slices.Equal(ids(a), ids(b)) {
				t.Errorf("order depends on leaf order: %v vs %v", ids(a), ids(b))
			}
			for i := range a {
				if a[i].Class != b[i].Class {
					t.Errorf("%s: class %s vs %s", a[i].ID, a[i].Class, b[i].Class)
				}
			}
		})
	}
}

func checkResult(t *testing.T, g testGraph, ws *Workspace, leaves []string) {
	t.Helper()

	lca, err := ws.LCA()
	if err != nil {
		t.Fatalf("LCA: %v", err)
	}
	if rec := ws.store.at(lca.r); !ws.claimed.Equal(rec.closure) {
		t.Errorf("LCA %s closure %s, want %s", lca.ID, rec.closure, ws.claimed)
	}

	all, _ := ws.Ancestors(true)
	var leafSeen int
	for i, a := range all {
		if i > 0 && all[i-1].Generation > a.Generation {
			t.Errorf("%s (gen %d) listed after %s (gen %d)", a.ID, a.Generation, all[i-1].ID, all[i-1].Generation)
		}
		if a.Class == ClassLeaf {
			leafSeen++
		}

		// Descendant leaves must match plain reachability.
		var want []string
		for _, l := range leaves {
			if l == a.ID || g.ancestorsOf(l)[a.ID] {
				want = append(want, l)
			}
		}
		got, err := ws.DescendantLeaves(a.ID)
		if err != nil {
			t.Fatalf("DescendantLeaves(%s): %v", a.ID, err)
		}
		if !slices.Equal(got, want) {
			t.Errorf("DescendantLeaves(%s) = %v, want %v", a.ID, got, want)
		}
		if a.Class == ClassSPCA && len(got) < 2 {
			t.Errorf("SPCA %s covers only %v", a.ID, got)
		}

		ok, err := ws.IsDescendant(a.ID, lca.ID)
		if err != nil || !ok {
			t.Errorf("IsDescendant(%s, %s) = %v, %v", a.ID, lca.ID, ok, err)
		}
	}
	for _, c := range g.minimalCommonAncestors(leaves) {
		info, ok := ws.Lookup(c)
		if !ok || (info.Class != ClassSPCA && info.Class != ClassLCA) {
			t.Errorf("minimal common ancestor %s is not significant (%+v)", c, info)
		}
		if c != lca.ID && !g.ancestorsOf(c)[lca.ID] {
			t.Errorf("LCA %s is not an ancestor of minimal common ancestor %s", lca.ID, c)
		}
	}
	if leafSeen != len(leaves) {
		t.Errorf("saw %d leaves, want %d", leafSeen, len(leaves))
	}
	for i, l := range leaves {
		if info, _ := ws.Lookup(l); info.Index != i {
			t.Errorf("leaf %s index = %d, want %d", l, info.Index, i)
		}
	}
	if got := 1 + ws.SPCACount() + ws.LeafCount(); got != len(all) {
		t.Errorf("counts add up to %d, want %d", got, len(all))
	}
}

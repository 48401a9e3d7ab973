package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/mergebase/pkg/ancestry"
	"github.com/matzehuels/mergebase/pkg/cache"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	"github.com/matzehuels/mergebase/pkg/observability"
)

type countingFetcher struct {
	nodes map[string]ancestry.Node
	calls map[string]int
}

func (f *countingFetcher) Fetch(_ context.Context, _ string, id string) (*ancestry.Node, error) {
	f.calls[id]++
	n, ok := f.nodes[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "node %s not found", id)
	}
	return &n, nil
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{
		nodes: map[string]ancestry.Node{
			"base": {Generation: 0},
			"a":    {Generation: 1, Parents: []string{"base"}},
			"b":    {Generation: 1, Parents: []string{"base"}},
		},
		calls: map[string]int{},
	}
}

type recordingCacheHooks struct {
	mu                sync.Mutex
	hits, misses, set int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *recordingCacheHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.misses++
	h.mu.Unlock()
}

func (h *recordingCacheHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	h.set++
	h.mu.Unlock()
}

func TestCachedFetcher(t *testing.T) {
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	inner := newCountingFetcher()
	f := Cached(inner, cache.NewMemoryCache(), time.Hour)

	for range 3 {
		n, err := f.Fetch(ctx, "repo", "a")
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if n.Generation != 1 || len(n.Parents) != 1 || n.Parents[0] != "base" {
			t.Errorf("Fetch = %+v", n)
		}
	}
	if inner.calls["a"] != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls["a"])
	}
	if hooks.hits != 2 || hooks.misses != 1 || hooks.set != 1 {
		t.Errorf("hooks = %d hits, %d misses, %d sets", hooks.hits, hooks.misses, hooks.set)
	}
}

func TestCachedFetcherKeysByDag(t *testing.T) {
	ctx := context.Background()
	inner := newCountingFetcher()
	f := Cached(inner, cache.NewMemoryCache(), 0)

	_, _ = f.Fetch(ctx, "one", "a")
	_, _ = f.Fetch(ctx, "two", "a")
	if inner.calls["a"] != 2 {
		t.Errorf("inner calls = %d, want 2 (one per dag)", inner.calls["a"])
	}
}

func TestCachedFetcherErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	inner := newCountingFetcher()
	mem := cache.NewMemoryCache()
	f := Cached(inner, mem, 0)

	for range 2 {
		if _, err := f.Fetch(ctx, "repo", "missing"); !errs.Is(err, errs.ErrCodeNotFound) {
			t.Errorf("Fetch(missing) = %v, want NOT_FOUND", err)
		}
	}
	if inner.calls["missing"] != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls["missing"])
	}
	if mem.Len() != 0 {
		t.Errorf("cache has %d entries, want 0", mem.Len())
	}
}

func TestCachedFetcherDropsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	inner := newCountingFetcher()
	mem := cache.NewMemoryCache()
	f := Cached(inner, mem, 0)

	_ = mem.Set(ctx, f.Keyer.NodeKey("repo", "b"), []byte("not json"), 0)
	n, err := f.Fetch(ctx, "repo", "b")
	if err != nil || n.Generation != 1 {
		t.Fatalf("Fetch = %+v, %v", n, err)
	}
	if inner.calls["b"] != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls["b"])
	}
}

func TestCachedFetcherRoot(t *testing.T) {
	inner := newCountingFetcher()
	f := Cached(inner, cache.NewMemoryCache(), 0)
	n, err := f.Fetch(context.Background(), "repo", ancestry.RootID)
	if err != nil || len(n.Parents) != 0 {
		t.Errorf("Fetch(root) = %+v, %v", n, err)
	}
	if len(inner.calls) != 0 {
		t.Errorf("root should not reach the inner fetcher: %v", inner.calls)
	}
}

func TestCachedFetcherComputes(t *testing.T) {
	ws, err := ancestry.FindLCA(context.Background(), "repo",
		Cached(newCountingFetcher(), cache.NewMemoryCache(), 0), []string{"a", "b"})
	if err != nil {
		t.Fatalf("FindLCA: %v", err)
	}
	lca, err := ws.LCA()
	if err != nil || lca.ID != "base" {
		t.Errorf("LCA = %v, %v; want base", lca.ID, err)
	}
}

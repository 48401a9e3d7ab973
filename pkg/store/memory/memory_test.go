package memory

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/mergebase/pkg/dag"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	"github.com/matzehuels/mergebase/pkg/observability"
)

func chain(t *testing.T, ids ...string) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for i, id := range ids {
		if err := g.AddNode(dag.Node{ID: id, Generation: uint32(i)}); err != nil {
			t.Fatal(err)
		}
		if i > 0 {
			if err := g.AddEdge(dag.Edge{From: ids[i-1], To: id}); err != nil {
				t.Fatal(err)
			}
		}
	}
	return g
}

type queryLog struct {
	observability.NoopStoreHooks
	backends []string
}

func (q *queryLog) OnQuery(_ context.Context, backend, _, _ string, _ time.Duration, _ error) {
	q.backends = append(q.backends, backend)
}

func TestStore(t *testing.T) {
	log := &queryLog{}
	observability.SetStoreHooks(log)
	defer observability.Reset()

	ctx := context.Background()
	s := New()
	if err := s.Put("repo", chain(t, "a", "b", "c")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("other", chain(t, "x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got := s.DagIDs(); !slices.Equal(got, []string{"other", "repo"}) {
		t.Errorf("DagIDs() = %v", got)
	}

	n, err := s.Fetch(ctx, "repo", "c")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if n.Generation != 2 || !slices.Equal(n.Parents, []string{"b"}) {
		t.Errorf("Fetch(c) = %+v", n)
	}

	if _, err := s.Fetch(ctx, "repo", "x"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("Fetch(repo, x) = %v, want NOT_FOUND", err)
	}
	if _, err := s.Fetch(ctx, "nope", "a"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("Fetch(nope, a) = %v, want NOT_FOUND", err)
	}
	if len(log.backends) != 3 || log.backends[0] != "memory" {
		t.Errorf("queries = %v", log.backends)
	}
}

func TestPutValidates(t *testing.T) {
	s := New()
	if err := s.Put("", chain(t, "a")); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Put(empty id) = %v", err)
	}

	bad := dag.New(nil)
	_ = bad.AddNode(dag.Node{ID: "p", Generation: 3})
	_ = bad.AddNode(dag.Node{ID: "c", Generation: 1})
	_ = bad.AddEdge(dag.Edge{From: "p", To: "c"})
	if err := s.Put("repo", bad); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Put(bad generations) = %v", err)
	}
	if _, ok := s.Get("repo"); ok {
		t.Error("invalid graph should not be stored")
	}
}

// Package memory serves changeset graphs held in process memory.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/mergebase/pkg/ancestry"
	"github.com/matzehuels/mergebase/pkg/dag"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	"github.com/matzehuels/mergebase/pkg/observability"
)

// Store maps DAG ids to graphs. It is safe for concurrent use as long as
// graphs are not modified after [Store.Put].
type Store struct {
	mu     sync.RWMutex
	graphs map[string]*dag.DAG
}

// New creates an empty store.
func New() *Store {
	return &Store{graphs: make(map[string]*dag.DAG)}
}

// Put registers g under dagID, replacing any previous graph.
func (s *Store) Put(dagID string, g *dag.DAG) error {
	if err := errs.ValidateDagID(dagID); err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "dag %s", dagID)
	}
	s.mu.Lock()
	s.graphs[dagID] = g
	s.mu.Unlock()
	return nil
}

// Get returns the graph registered under dagID.
func (s *Store) Get(dagID string) (*dag.DAG, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.graphs[dagID]
	return g, ok
}

// DagIDs returns the registered ids in sorted order.
func (s *Store) DagIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.graphs))
}

// Fetch implements [ancestry.Fetcher].
func (s *Store) Fetch(ctx context.Context, dagID, id string) (*ancestry.Node, error) {
	if id == ancestry.RootID {
		return &ancestry.Node{}, nil
	}
	start := time.Now()
	n, err := s.fetch(ctx, dagID, id)
	observability.Store().OnQuery(ctx, "memory", dagID, id, time.Since(start), err)
	return n, err
}

func (s *Store) fetch(ctx context.Context, dagID, id string) (*ancestry.Node, error) {
	g, ok := s.Get(dagID)
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "dag %s not found", dagID)
	}
	return g.Fetch(ctx, dagID, id)
}

var _ ancestry.Fetcher = (*Store)(nil)

package ancestry

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mergebase/pkg/bitset"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	"github.com/matzehuels/mergebase/pkg/observability"
)

// Option configures a [Workspace].
type Option func(*Workspace)

// WithLogger enables debug tracing of the traversal on l. Every visited
// node is logged with its generation, class, registry index and bit-sets.
// Tracing never changes the result; a nil logger disables it.
func WithLogger(l *log.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// WithSizeHint presizes per-node bit-sets for about n significant nodes.
// Bit-sets grow on demand, so the hint only saves reallocations.
func WithSizeHint(n int) Option {
	return func(w *Workspace) {
		if n > 0 {
			w.sizeHint = n
		}
	}
}

// Workspace computes the significant common ancestry of a set of leaves.
//
// A workspace is built once: leaves are added, [Workspace.Compute] freezes
// it and runs the traversal, and the frozen result can then be queried any
// number of times. It is not safe for concurrent use; run one workspace
// per computation instead.
type Workspace struct {
	dagID   string
	fetcher Fetcher
	logger  *log.Logger

	sizeHint int
	store    *recordStore
	frontier *frontier

	items       []ref          // registry slot -> record
	claimed     *bitset.Bitset // every slot handed out
	leafCount   int
	visited     int
	frozen      bool
	released    bool
	computeErr  error
	computeDone bool
}

// New creates a workspace over the DAG dagID whose nodes are read through f.
func New(dagID string, f Fetcher, opts ...Option) *Workspace {
	w := &Workspace{
		dagID:    dagID,
		fetcher:  f,
		sizeHint: 64,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.store = newRecordStore(w.sizeHint)
	w.frontier = newFrontier(w.store)
	w.claimed = bitset.New(w.sizeHint)
	return w
}

// DagID returns the identifier of the DAG this workspace reads from.
func (w *Workspace) DagID() string { return w.dagID }

// Frozen reports whether [Workspace.Compute] has been called.
func (w *Workspace) Frozen() bool { return w.frozen }

// LeafCount returns the number of registered leaves.
func (w *Workspace) LeafCount() int { return w.leafCount }

// SPCACount returns the number of significant partial common ancestors,
// not counting the LCA.
func (w *Workspace) SPCACount() int {
	n := len(w.items) - w.leafCount
	if w.LCACount() == 1 {
		n--
	}
	return n
}

// LCACount returns 1 once a computation has succeeded and 0 otherwise.
func (w *Workspace) LCACount() int {
	if w.computeDone && w.computeErr == nil {
		return 1
	}
	return 0
}

// Visited returns the number of nodes fetched so far, leaves included.
func (w *Workspace) Visited() int { return w.store.len() }

// AddLeaf fetches id and registers it as an input leaf.
// It fails with FROZEN after [Workspace.Compute] and with DUPLICATE_LEAF if
// id was already added.
func (w *Workspace) AddLeaf(ctx context.Context, id string) error {
	if w.frozen {
		return errs.New(errs.ErrCodeFrozen, "cannot add leaf %s: workspace is frozen", id)
	}
	if err := errs.ValidateNodeID(id); err != nil {
		return err
	}
	if _, ok := w.store.lookup(id); ok {
		return errs.New(errs.ErrCodeDuplicateLeaf, "leaf %s already registered", id)
	}
	n, err := w.fetch(ctx, id)
	if err != nil {
		return err
	}
	r, err := w.store.add(id, n)
	if err != nil {
		return err
	}
	if err := w.registerLeaf(r); err != nil {
		return err
	}
	w.frontier.push(r)
	return nil
}

// AddLeaves adds each id in order, stopping at the first failure.
func (w *Workspace) AddLeaves(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if err := w.AddLeaf(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Release drops every cached record. The workspace must not be used
// afterwards; queries report INVALID_INPUT.
func (w *Workspace) Release() {
	w.store.release()
	w.items = nil
	w.frontier = newFrontier(w.store)
	w.released = true
}

// fetch reads id through the fetcher and reports the call to the hooks.
func (w *Workspace) fetch(ctx context.Context, id string) (*Node, error) {
	start := time.Now()
	n, err := w.fetcher.Fetch(ctx, w.dagID, id)
	observability.Traversal().OnFetch(ctx, w.dagID, id, time.Since(start), err)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeFetch, err, "fetch %s", id)
	}
	if n == nil {
		return nil, errs.New(errs.ErrCodeFetch, "fetch %s: no node returned", id)
	}
	return n, nil
}

// ready checks that the workspace holds a successful, frozen result.
func (w *Workspace) ready() error {
	switch {
	case w.released:
		return errs.New(errs.ErrCodeInvalidInput, "workspace has been released")
	case !w.frozen:
		return errs.New(errs.ErrCodeNotFrozen, "workspace has not been computed")
	case w.computeErr != nil:
		return w.computeErr
	}
	return nil
}

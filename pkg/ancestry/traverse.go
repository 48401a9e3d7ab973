package ancestry

import (
	"context"
	"time"

	"github.com/matzehuels/mergebase/pkg/bitset"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	"github.com/matzehuels/mergebase/pkg/observability"
)

// Compute freezes the workspace and runs the traversal from the registered
// leaves towards the roots. It needs at least two leaves and may be called
// only once. On failure the workspace keeps the error: every later query
// returns it, and the workspace should be discarded.
func (w *Workspace) Compute(ctx context.Context) error {
	if w.released {
		return errs.New(errs.ErrCodeInvalidInput, "workspace has been released")
	}
	if w.frozen {
		return errs.New(errs.ErrCodeFrozen, "compute already ran on this workspace")
	}
	if w.leafCount < 2 {
		return errs.New(errs.ErrCodeInvalidInput, "need at least 2 leaves, have %d", w.leafCount)
	}
	w.frozen = true

	hooks := observability.Traversal()
	hooks.OnComputeStart(ctx, w.dagID, w.leafCount)
	start := time.Now()

	err := w.traverse(ctx)
	if err == nil {
		err = w.finalize()
	}
	w.computeDone = true
	w.computeErr = err

	hooks.OnComputeComplete(ctx, w.dagID, w.store.len(), len(w.items), time.Since(start), err)
	if w.logger != nil {
		if err != nil {
			w.logger.Debug("compute failed", "dag", w.dagID, "visited", w.store.len(), "err", err)
		} else {
			w.logger.Debug("compute done", "dag", w.dagID, "visited", w.store.len(),
				"leaves", w.leafCount, "spcas", w.SPCACount(), "elapsed", time.Since(start))
		}
	}
	return err
}

// traverse is the driving loop: pop the deepest queued node, settle its
// significance, then either stop or push its closure into its parents.
func (w *Workspace) traverse(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, ok := w.frontier.pop()
		if !ok {
			return nil
		}
		rec := w.store.at(r)
		if rec.item == suspected {
			if err := w.confirm(ctx, r); err != nil {
				return err
			}
		}
		w.trace("visit", rec)

		if w.frontier.queued() == 0 {
			return nil
		}
		if w.canStop(rec) {
			w.trace("short-circuit", rec)
			return nil
		}
		for _, pid := range rec.node.Parents {
			if err := w.processParent(ctx, rec, pid); err != nil {
				return err
			}
		}
	}
}

// confirm settles a suspected node. Slots that one of its immediate
// significant descendants already reaches are redundant paths; the node is
// an SPCA only if more than one independent lineage remains.
func (w *Workspace) confirm(ctx context.Context, r ref) error {
	rec := w.store.at(r)
	rec.item = unclaimed

	redundant := bitset.New(len(w.items))
	for k := range rec.immediate.All() {
		if k >= len(w.items) {
			return errs.New(errs.ErrCodeInternal, "node %s refers to unknown slot %d", rec.id, k)
		}
		d := w.store.at(w.items[k])
		below := d.closure.Clone()
		below.AndNot(d.significantBit)
		redundant.Or(below)
	}
	rec.immediate.AndNot(redundant)

	if rec.immediate.Count() > 1 {
		return w.registerSPCA(ctx, r)
	}
	return nil
}

// canStop reports whether rec, a complete SPCA, is the answer already.
// That holds when the queued frontier, without rec's own slot, no longer
// carries every claimed slot and touches at most one leaf, so no peer of
// rec can still converge above it.
func (w *Workspace) canStop(rec *record) bool {
	if rec.item < w.leafCount {
		return false
	}
	if !w.claimed.Subset(rec.closure) {
		return false
	}

	union := bitset.New(len(w.items))
	for q := range w.frontier.pending() {
		union.Or(w.store.at(q).closure)
	}
	rest := union.Clone()
	rest.AndNot(rec.significantBit)
	others := w.claimed.Clone()
	others.AndNot(rec.significantBit)
	if rest.Equal(others) {
		return false
	}
	return union.CountBelow(w.leafCount) <= 1
}

// processParent propagates the visited child into the parent pid.
func (w *Workspace) processParent(ctx context.Context, child *record, pid string) error {
	if pid == RootID {
		return nil
	}
	if r, ok := w.store.lookup(pid); ok {
		parent := w.store.at(r)
		if parent.class == ClassLeaf {
			return w.leafIsAncestor(parent, child)
		}
		if err := checkGeneration(parent, child); err != nil {
			return err
		}
		w.mergeClosure(parent, child)
		return nil
	}

	n, err := w.fetch(ctx, pid)
	if err != nil {
		return err
	}
	r, err := w.store.add(pid, n)
	if err != nil {
		return err
	}
	parent := w.store.at(r)
	if err := checkGeneration(parent, child); err != nil {
		return err
	}
	parent.closure = child.closure.Clone()
	if child.significant() {
		parent.immediate = child.significantBit.Clone()
	} else {
		parent.immediate = child.immediate.Clone()
	}
	w.frontier.push(r)
	return nil
}

// mergeClosure unions the child's closure into the parent. Only an edge
// that brings information the parent lacked, and that the child alone does
// not already account for, makes the parent suspect.
func (w *Workspace) mergeClosure(parent, child *record) {
	u := parent.closure.Clone()
	u.Or(child.closure)
	switch {
	case u.Equal(parent.closure):
		return
	case u.Equal(child.closure):
		parent.closure = u
	default:
		parent.closure = u
		if parent.item < 0 {
			parent.item = suspected
		}
	}

	if child.significant() {
		parent.immediate.AndNot(child.immediate)
		parent.immediate.Or(child.significantBit)
	} else {
		parent.immediate.Or(child.immediate)
	}
}

// leafIsAncestor builds the error for a leaf reached from below.
func (w *Workspace) leafIsAncestor(leaf, child *record) error {
	if w.leafCount == 2 {
		other := w.store.at(w.items[0])
		if other == leaf {
			other = w.store.at(w.items[1])
		}
		return errs.New(errs.ErrCodeLeafIsAncestor, "leaf %s is an ancestor of leaf %s", leaf.id, other.id)
	}
	return errs.New(errs.ErrCodeLeafIsAncestor, "leaf %s is an ancestor of another leaf (reached from %s)", leaf.id, child.id)
}

func checkGeneration(parent, child *record) error {
	if parent.generation >= child.generation {
		return errs.New(errs.ErrCodeInvalidInput,
			"parent %s has generation %d, not below child %s at %d",
			parent.id, parent.generation, child.id, child.generation)
	}
	return nil
}

// finalize certifies the shallowest significant node as the LCA.
func (w *Workspace) finalize() error {
	r, ok := w.frontier.first()
	if !ok {
		return errs.New(errs.ErrCodeNoAncestor, "no significant nodes")
	}
	rec := w.store.at(r)
	if rec.class != ClassSPCA || !w.claimed.Subset(rec.closure) {
		return errs.New(errs.ErrCodeNoAncestor, "no common ancestor covers all %d leaves", w.leafCount)
	}
	rec.class = ClassLCA
	return nil
}

package ancestry

import (
	"context"

	"github.com/matzehuels/mergebase/pkg/bitset"
	errs "github.com/matzehuels/mergebase/pkg/errors"
	"github.com/matzehuels/mergebase/pkg/observability"
)

// registerLeaf gives r the next leaf slot. Leaves occupy the contiguous
// range [0, leafCount) in the order they were added.
func (w *Workspace) registerLeaf(r ref) error {
	if w.frozen {
		return errs.New(errs.ErrCodeFrozen, "cannot register leaf after freeze")
	}
	idx := len(w.items)
	if idx != w.leafCount {
		return errs.New(errs.ErrCodeInternal, "leaf slot %d does not follow %d leaves", idx, w.leafCount)
	}
	rec := w.store.at(r)
	rec.item = idx
	rec.class = ClassLeaf
	rec.leafBit = bitset.Singleton(idx)
	rec.significantBit = bitset.Singleton(idx)
	rec.closure = bitset.Singleton(idx)
	rec.immediate = bitset.New(w.sizeHint)

	w.claimed.Set(idx, true)
	w.items = append(w.items, r)
	w.leafCount++
	w.frontier.addResult(r)
	return nil
}

// registerSPCA gives r the next ancestor slot and adds that slot to its
// closure. The new bit reaches every ancestor through later closure merges,
// which is how nested convergences are discovered without recursion.
func (w *Workspace) registerSPCA(ctx context.Context, r ref) error {
	rec := w.store.at(r)
	if !rec.leafBit.IsZero() || rec.class != ClassNobody {
		return errs.New(errs.ErrCodeInternal, "node %s cannot become an ancestor (class %s)", rec.id, rec.class)
	}
	idx := len(w.items)
	rec.item = idx
	rec.class = ClassSPCA
	rec.significantBit = bitset.Singleton(idx)
	rec.closure.Or(rec.significantBit)

	w.claimed.Set(idx, true)
	w.items = append(w.items, r)
	w.frontier.addResult(r)
	observability.Traversal().OnSignificant(ctx, w.dagID, rec.id, ClassSPCA.String())
	return nil
}

package ancestry

import (
	"cmp"
	"iter"
	"slices"

	errs "github.com/matzehuels/mergebase/pkg/errors"
)

// Ancestor is one significant node of a computed result.
type Ancestor struct {
	ID         string
	Class      Class
	Generation uint32

	ws *Workspace
	r  ref
}

// ImmediateDescendants returns the nearest significant nodes below a,
// shallowest first. Leaves have none.
func (a Ancestor) ImmediateDescendants() []string {
	if a.ws == nil || a.ws.released {
		return nil
	}
	rec := a.ws.store.at(a.r)
	var recs []*record
	for k := range rec.immediate.All() {
		if k < len(a.ws.items) {
			recs = append(recs, a.ws.store.at(a.ws.items[k]))
		}
	}
	slices.SortFunc(recs, func(x, y *record) int {
		if c := cmp.Compare(x.generation, y.generation); c != 0 {
			return c
		}
		return cmp.Compare(x.id, y.id)
	})
	ids := make([]string, len(recs))
	for i, d := range recs {
		ids[i] = d.id
	}
	return ids
}

func (w *Workspace) ancestor(r ref) Ancestor {
	rec := w.store.at(r)
	return Ancestor{ID: rec.id, Class: rec.class, Generation: rec.generation, ws: w, r: r}
}

// All yields significant nodes shallowest first, so the LCA comes first.
// Leaves are included only when withLeaves is set. It yields nothing unless
// a computation has succeeded.
func (w *Workspace) All(withLeaves bool) iter.Seq[Ancestor] {
	return func(yield func(Ancestor) bool) {
		if w.ready() != nil {
			return
		}
		for r := range w.frontier.ordered() {
			if !withLeaves && w.store.at(r).class == ClassLeaf {
				continue
			}
			if !yield(w.ancestor(r)) {
				return
			}
		}
	}
}

// Ancestors collects [Workspace.All] into a slice.
func (w *Workspace) Ancestors(withLeaves bool) ([]Ancestor, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	return slices.Collect(w.All(withLeaves)), nil
}

// LCA returns the lowest common ancestor of the leaves.
func (w *Workspace) LCA() (Ancestor, error) {
	if err := w.ready(); err != nil {
		return Ancestor{}, err
	}
	r, ok := w.frontier.first()
	if !ok {
		return Ancestor{}, errs.New(errs.ErrCodeInternal, "computed workspace has no results")
	}
	return w.ancestor(r), nil
}

// DescendantLeaves returns the input leaves reachable below id, in the
// order the leaves were added.
func (w *Workspace) DescendantLeaves(id string) ([]string, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	r, ok := w.store.lookup(id)
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "node %s was not visited", id)
	}
	var leaves []string
	for k := range w.store.at(r).closure.All() {
		if k >= w.leafCount {
			break
		}
		leaves = append(leaves, w.store.at(w.items[k]).id)
	}
	return leaves, nil
}

// IsDescendant reports whether descendant lies below ancestor. Both must
// have been visited and descendant must be a significant node; a
// significant node counts as its own descendant.
func (w *Workspace) IsDescendant(descendant, ancestor string) (bool, error) {
	if err := w.ready(); err != nil {
		return false, err
	}
	dr, ok := w.store.lookup(descendant)
	if !ok {
		return false, errs.New(errs.ErrCodeNotFound, "node %s was not visited", descendant)
	}
	ar, ok := w.store.lookup(ancestor)
	if !ok {
		return false, errs.New(errs.ErrCodeNotFound, "node %s was not visited", ancestor)
	}
	d := w.store.at(dr)
	if !d.significant() {
		return false, errs.New(errs.ErrCodeNotFound, "node %s holds no significant slot", descendant)
	}
	return w.store.at(ar).closure.Get(d.item, false), nil
}

// Lookup returns the cached state of id. Any node fetched so far can be
// looked up, before or after [Workspace.Compute].
func (w *Workspace) Lookup(id string) (NodeInfo, bool) {
	r, ok := w.store.lookup(id)
	if !ok {
		return NodeInfo{}, false
	}
	rec := w.store.at(r)
	idx := rec.item
	if idx < 0 {
		idx = -1
	}
	return NodeInfo{
		ID:         rec.id,
		Generation: rec.generation,
		Parents:    slices.Clone(rec.node.Parents),
		Class:      rec.class,
		Index:      idx,
	}, true
}

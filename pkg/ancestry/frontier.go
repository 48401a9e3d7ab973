package ancestry

import (
	"iter"

	"github.com/google/btree"
)

// btreeDegree is the fan-out of the frontier trees. Frontiers rarely hold
// more than a few hundred entries, so a small degree keeps nodes compact.
const btreeDegree = 8

// frontier holds the two ordered, non-owning indices over the record store.
//
// The work queue orders records deepest first so a node is only visited
// after every discovered descendant has pushed its closure into it. The
// result map orders significant records shallowest first, which puts the
// LCA at the front. Both break generation ties by identifier so runs are
// deterministic.
type frontier struct {
	queue   *btree.BTreeG[ref]
	results *btree.BTreeG[ref]
}

func newFrontier(s *recordStore) *frontier {
	deeperFirst := func(a, b ref) bool {
		ra, rb := s.at(a), s.at(b)
		if ra.generation != rb.generation {
			return ra.generation > rb.generation
		}
		return ra.id < rb.id
	}
	shallowerFirst := func(a, b ref) bool {
		ra, rb := s.at(a), s.at(b)
		if ra.generation != rb.generation {
			return ra.generation < rb.generation
		}
		return ra.id < rb.id
	}
	return &frontier{
		queue:   btree.NewG(btreeDegree, deeperFirst),
		results: btree.NewG(btreeDegree, shallowerFirst),
	}
}

// push adds r to the work queue.
func (f *frontier) push(r ref) { f.queue.ReplaceOrInsert(r) }

// pop removes and returns the deepest queued record.
func (f *frontier) pop() (ref, bool) { return f.queue.DeleteMin() }

// queued returns the number of records waiting in the work queue.
func (f *frontier) queued() int { return f.queue.Len() }

// pending yields queued records deepest first.
func (f *frontier) pending() iter.Seq[ref] {
	return func(yield func(ref) bool) {
		f.queue.Ascend(func(r ref) bool { return yield(r) })
	}
}

// addResult records a significant node in the result map.
func (f *frontier) addResult(r ref) { f.results.ReplaceOrInsert(r) }

// first returns the shallowest significant record.
func (f *frontier) first() (ref, bool) { return f.results.Min() }

// ordered yields significant records shallowest first.
func (f *frontier) ordered() iter.Seq[ref] {
	return func(yield func(ref) bool) {
		f.results.Ascend(func(r ref) bool { return yield(r) })
	}
}

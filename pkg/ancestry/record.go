package ancestry

import (
	"github.com/matzehuels/mergebase/pkg/bitset"
	errs "github.com/matzehuels/mergebase/pkg/errors"
)

// Item index states for records that hold no registry slot yet.
const (
	unclaimed = -1
	suspected = -2
)

// ref addresses a record in the recordStore arena.
type ref int

// record is the per-node traversal state.
type record struct {
	id         string
	node       *Node
	generation uint32
	item       int
	class      Class

	leafBit        *bitset.Bitset // own slot if the node is an input leaf
	significantBit *bitset.Bitset // own slot once item >= 0, nil before
	immediate      *bitset.Bitset // nearest significant descendants
	closure        *bitset.Bitset // every significant descendant, inclusive
}

func (r *record) significant() bool { return r.item >= 0 }

// recordStore owns every record and the node fetched for it. All other
// structures hold refs into it.
type recordStore struct {
	records  []*record
	index    map[string]ref
	sizeHint int
}

func newRecordStore(sizeHint int) *recordStore {
	return &recordStore{index: make(map[string]ref), sizeHint: sizeHint}
}

// add takes ownership of n and creates a record for id. It fails if id is
// already cached.
func (s *recordStore) add(id string, n *Node) (ref, error) {
	if _, ok := s.index[id]; ok {
		return 0, errs.New(errs.ErrCodeInternal, "node %s already cached", id)
	}
	r := ref(len(s.records))
	s.records = append(s.records, &record{
		id:         id,
		node:       n,
		generation: n.Generation,
		item:       unclaimed,
		class:      ClassNobody,
		leafBit:    bitset.New(0),
		immediate:  bitset.New(s.sizeHint),
		closure:    bitset.New(s.sizeHint),
	})
	s.index[id] = r
	return r, nil
}

// lookup returns the ref cached for id.
func (s *recordStore) lookup(id string) (ref, bool) {
	r, ok := s.index[id]
	return r, ok
}

func (s *recordStore) at(r ref) *record { return s.records[r] }

func (s *recordStore) len() int { return len(s.records) }

// release drops every record and fetched node.
func (s *recordStore) release() {
	clear(s.records)
	s.records = nil
	s.index = make(map[string]ref)
}

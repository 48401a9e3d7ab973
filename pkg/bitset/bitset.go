// Package bitset provides a growable bit vector with the bulk boolean
// operators used by the ancestry traversal.
//
// A [Bitset] has no fixed capacity: every write grows storage on demand and
// every read past the end returns the caller-supplied default instead of
// failing. Storage is one uint64 word per 64 bits, so memory stays
// O(length) and sets scale past 64 members for n-way merges.
//
// The nil *Bitset is a valid empty set for all read operations ([Bitset.Get],
// [Bitset.Len], [Bitset.Count], [Bitset.IsZero], [Bitset.Equal],
// [Bitset.Disjoint], [Bitset.String]). Writes require a non-nil receiver.
package bitset

import (
	"iter"
	"math/bits"
	"strings"
)

const wordBits = 64

// Bitset is a growable, indexable boolean vector.
// The zero value is an empty set ready to use.
type Bitset struct {
	words []uint64
	size  int // bits addressed so far via Set or Append
}

// New returns an empty set with room for sizeHint bits before it has to grow.
// A non-positive hint allocates nothing up front.
func New(sizeHint int) *Bitset {
	if sizeHint <= 0 {
		return &Bitset{}
	}
	return &Bitset{words: make([]uint64, 0, wordsFor(sizeHint))}
}

// Singleton returns a set containing only bit i.
func Singleton(i int) *Bitset {
	b := New(i + 1)
	b.Set(i, true)
	return b
}

// Clone returns an independent copy of b. Cloning nil yields an empty set.
func (b *Bitset) Clone() *Bitset {
	if b == nil {
		return &Bitset{}
	}
	c := &Bitset{size: b.size}
	if n := b.usedWords(); n > 0 {
		c.words = make([]uint64, n)
		copy(c.words, b.words[:n])
	}
	return c
}

// Zero clears every bit, keeping allocated storage.
func (b *Bitset) Zero() {
	clear(b.words)
	b.size = 0
}

// Set writes bit i, growing storage if needed. Negative indices panic.
func (b *Bitset) Set(i int, v bool) {
	if i < 0 {
		panic("bitset: negative index")
	}
	w := i / wordBits
	if v {
		b.grow(w + 1)
		b.words[w] |= 1 << uint(i%wordBits)
	} else if w < len(b.words) {
		b.words[w] &^= 1 << uint(i%wordBits)
	}
	if i >= b.size {
		b.size = i + 1
	}
}

// Get reads bit i, returning def when i lies outside the stored range.
func (b *Bitset) Get(i int, def bool) bool {
	if b == nil || i < 0 {
		return def
	}
	if i >= b.size {
		return def
	}
	w := i / wordBits
	if w >= len(b.words) {
		return false
	}
	return b.words[w]&(1<<uint(i%wordBits)) != 0
}

// Append writes v at the first index past every bit addressed so far and
// returns that index.
func (b *Bitset) Append(v bool) int {
	i := b.size
	if l := b.Len(); l > i {
		i = l
	}
	b.Set(i, v)
	return i
}

// Len returns the number of bits in use: the index of the highest set bit
// plus one, or 0 for an empty set.
func (b *Bitset) Len() int {
	if b == nil {
		return 0
	}
	for w := len(b.words) - 1; w >= 0; w-- {
		if b.words[w] != 0 {
			return w*wordBits + bits.Len64(b.words[w])
		}
	}
	return 0
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Or performs b |= src.
func (b *Bitset) Or(src *Bitset) {
	if src == nil {
		return
	}
	n := src.usedWords()
	b.grow(n)
	for i := 0; i < n; i++ {
		b.words[i] |= src.words[i]
	}
	if src.size > b.size {
		b.size = src.size
	}
}

// AndNot performs b &= ^src.
func (b *Bitset) AndNot(src *Bitset) {
	if src == nil {
		return
	}
	n := min(len(b.words), len(src.words))
	for i := 0; i < n; i++ {
		b.words[i] &^= src.words[i]
	}
}

// Equal reports whether b and o have exactly the same bits set.
// Trailing storage and addressed-but-clear bits are ignored.
func (b *Bitset) Equal(o *Bitset) bool {
	bw, ow := b.usedWords(), o.usedWords()
	if bw != ow {
		return false
	}
	for i := 0; i < bw; i++ {
		if b.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether no bit is set.
func (b *Bitset) IsZero() bool { return b.usedWords() == 0 }

// Disjoint reports whether (b & o) == 0.
func (b *Bitset) Disjoint(o *Bitset) bool {
	if b == nil || o == nil {
		return true
	}
	n := min(len(b.words), len(o.words))
	for i := 0; i < n; i++ {
		if b.words[i]&o.words[i] != 0 {
			return false
		}
	}
	return true
}

// Subset reports whether every bit of b is also set in o.
func (b *Bitset) Subset(o *Bitset) bool {
	n := b.usedWords()
	for i := 0; i < n; i++ {
		var ow uint64
		if o != nil && i < len(o.words) {
			ow = o.words[i]
		}
		if b.words[i]&^ow != 0 {
			return false
		}
	}
	return true
}

// CountBelow returns the number of set bits with index < n.
func (b *Bitset) CountBelow(n int) int {
	if b == nil || n <= 0 {
		return 0
	}
	c := 0
	full := n / wordBits
	for i := 0; i < full && i < len(b.words); i++ {
		c += bits.OnesCount64(b.words[i])
	}
	if rem := n % wordBits; rem > 0 && full < len(b.words) {
		c += bits.OnesCount64(b.words[full] & (1<<uint(rem) - 1))
	}
	return c
}

// All yields the indices of set bits in ascending order.
func (b *Bitset) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		if b == nil {
			return
		}
		for wi, w := range b.words {
			for w != 0 {
				t := bits.TrailingZeros64(w)
				if !yield(wi*wordBits + t) {
					return
				}
				w &= w - 1
			}
		}
	}
}

// String renders bits 0..Len()-1 as '0' and '1' characters, lowest index
// first. The empty set renders as "-".
func (b *Bitset) String() string {
	n := b.Len()
	if n == 0 {
		return "-"
	}
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		if b.Get(i, false) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// usedWords returns the number of words up to and including the last
// non-zero one.
func (b *Bitset) usedWords() int {
	if b == nil {
		return 0
	}
	n := len(b.words)
	for n > 0 && b.words[n-1] == 0 {
		n--
	}
	return n
}

// grow extends storage to at least n words.
func (b *Bitset) grow(n int) {
	if n <= len(b.words) {
		return
	}
	if n <= cap(b.words) {
		b.words = b.words[:n]
		return
	}
	words := make([]uint64, n, max(n, 2*cap(b.words)))
	copy(words, b.words)
	b.words = words
}

func wordsFor(nbits int) int { return (nbits + wordBits - 1) / wordBits }

package bitset

import (
	"slices"
	"testing"
)

func fromBits(idx ...int) *Bitset {
	b := New(0)
	for _, i := range idx {
		b.Set(i, true)
	}
	return b
}

func TestSetGet(t *testing.T) {
	b := New(8)
	b.Set(3, true)
	b.Set(130, true)

	if !b.Get(3, false) {
		t.Error("Get(3) = false, want true")
	}
	if b.Get(4, true) {
		t.Error("Get(4) = true, want false (in range, unset)")
	}
	if !b.Get(130, false) {
		t.Error("Get(130) = false, want true")
	}
	if got := b.Get(500, true); !got {
		t.Error("Get(500, true) should return default for out-of-range index")
	}
	if got := b.Get(-1, true); !got {
		t.Error("Get(-1, true) should return default")
	}

	b.Set(130, false)
	if b.Get(130, true) {
		t.Error("Get(130) after clear = true, want false")
	}
	if got := b.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
}

func TestNilReads(t *testing.T) {
	var b *Bitset
	if b.Get(0, true) != true {
		t.Error("nil Get should return default")
	}
	if b.Len() != 0 || b.Count() != 0 || !b.IsZero() {
		t.Error("nil set should be empty")
	}
	if !b.Equal(New(0)) {
		t.Error("nil should equal empty set")
	}
	if !b.Disjoint(fromBits(1)) {
		t.Error("nil should be disjoint from everything")
	}
	if b.String() != "-" {
		t.Errorf("String() = %q, want %q", b.String(), "-")
	}
}

func TestAppend(t *testing.T) {
	b := New(0)
	if got := b.Append(true); got != 0 {
		t.Errorf("Append = %d, want 0", got)
	}
	if got := b.Append(false); got != 1 {
		t.Errorf("Append = %d, want 1", got)
	}
	if got := b.Append(true); got != 2 {
		t.Errorf("Append = %d, want 2", got)
	}
	if got := b.String(); got != "101" {
		t.Errorf("String() = %q, want %q", got, "101")
	}
}

func TestOrAndNot(t *testing.T) {
	tests := []struct {
		name   string
		dst    []int
		src    []int
		or     []int
		andNot []int
	}{
		{"disjoint", []int{0, 1}, []int{2}, []int{0, 1, 2}, []int{0, 1}},
		{"overlap", []int{0, 1, 2}, []int{1}, []int{0, 1, 2}, []int{0, 2}},
		{"src wider", []int{1}, []int{1, 200}, []int{1, 200}, nil},
		{"empty src", []int{5}, nil, []int{5}, []int{5}},
		{"empty dst", nil, []int{70}, []int{70}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			or := fromBits(tt.dst...)
			or.Or(fromBits(tt.src...))
			if got := slices.Collect(or.All()); !slices.Equal(got, tt.or) {
				t.Errorf("Or = %v, want %v", got, tt.or)
			}

			an := fromBits(tt.dst...)
			an.AndNot(fromBits(tt.src...))
			if got := slices.Collect(an.All()); !slices.Equal(got, tt.andNot) {
				t.Errorf("AndNot = %v, want %v", got, tt.andNot)
			}
		})
	}
}

func TestEqualIgnoresCapacity(t *testing.T) {
	a := fromBits(1, 2)
	b := New(1024)
	b.Set(1, true)
	b.Set(2, true)
	b.Set(900, true)
	b.Set(900, false)

	if !a.Equal(b) {
		t.Error("sets with same bits but different storage should be equal")
	}
	b.Set(3, true)
	if a.Equal(b) {
		t.Error("sets with different bits should not be equal")
	}
}

func TestPredicates(t *testing.T) {
	a := fromBits(0, 64)
	b := fromBits(1, 65)
	c := fromBits(64)

	if !a.Disjoint(b) {
		t.Error("a and b should be disjoint")
	}
	if a.Disjoint(c) {
		t.Error("a and c share bit 64")
	}
	if !c.Subset(a) {
		t.Error("c should be a subset of a")
	}
	if a.Subset(c) {
		t.Error("a should not be a subset of c")
	}
	if New(0).IsZero() != true {
		t.Error("new set should be zero")
	}
}

func TestCount(t *testing.T) {
	b := fromBits(0, 1, 63, 64, 127, 128)
	if got := b.Count(); got != 6 {
		t.Errorf("Count() = %d, want 6", got)
	}
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{63, 2},
		{64, 3},
		{65, 4},
		{128, 5},
		{1000, 6},
	}
	for _, tt := range tests {
		if got := b.CountBelow(tt.n); got != tt.want {
			t.Errorf("CountBelow(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := fromBits(3, 99)
	c := a.Clone()
	c.Set(4, true)
	a.Set(99, false)

	if a.Get(4, false) {
		t.Error("mutating clone leaked into original")
	}
	if !c.Get(99, false) {
		t.Error("mutating original leaked into clone")
	}
}

func TestZero(t *testing.T) {
	b := fromBits(1, 2, 300)
	b.Zero()
	if !b.IsZero() || b.Len() != 0 {
		t.Errorf("after Zero: Len = %d, IsZero = %v", b.Len(), b.IsZero())
	}
	b.Set(5, true)
	if got := slices.Collect(b.All()); !slices.Equal(got, []int{5}) {
		t.Errorf("after reuse: %v, want [5]", got)
	}
}

func TestSingletonString(t *testing.T) {
	if got := Singleton(2).String(); got != "001" {
		t.Errorf("Singleton(2).String() = %q, want %q", got, "001")
	}
}

func TestAllEarlyStop(t *testing.T) {
	b := fromBits(1, 2, 3)
	var got []int
	for i := range b.All() {
		got = append(got, i)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []int{1, 2}) {
		t.Errorf("got %v, want [1 2]", got)
	}
}

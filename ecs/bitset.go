package ecs

import (
	"iter"
	"math/bits"
)

// MaxKinds is the number of distinct component kinds a Bitset can track.
const MaxKinds = 256

// Bitset is a 256-bit set of component kinds. Each entity owns one describing
// which components it currently has; Filters are built from three of them.
type Bitset [4]uint64

// NewBitset returns a Bitset with the given kinds set.
func NewBitset(kinds ...KindID) Bitset {
	var b Bitset
	for _, k := range kinds {
		b.Set(k)
	}
	return b
}

// Set sets the bit for kind.
func (b *Bitset) Set(kind KindID) {
	b[kind>>6] |= 1 << (kind & 63)
}

// Clear clears the bit for kind.
func (b *Bitset) Clear(kind KindID) {
	b[kind>>6] &^= 1 << (kind & 63)
}

// Has reports whether the bit for kind is set.
func (b Bitset) Has(kind KindID) bool {
	return b[kind>>6]&(1<<(kind&63)) != 0
}

// ContainsAll reports whether every bit of other is also set in b.
func (b Bitset) ContainsAll(other Bitset) bool {
	return b[0]&other[0] == other[0] &&
		b[1]&other[1] == other[1] &&
		b[2]&other[2] == other[2] &&
		b[3]&other[3] == other[3]
}

// ContainsAny reports whether b and other share at least one bit.
func (b Bitset) ContainsAny(other Bitset) bool {
	return b[0]&other[0] != 0 ||
		b[1]&other[1] != 0 ||
		b[2]&other[2] != 0 ||
		b[3]&other[3] != 0
}

// Or returns the union of b and other.
func (b Bitset) Or(other Bitset) Bitset {
	return Bitset{b[0] | other[0], b[1] | other[1], b[2] | other[2], b[3] | other[3]}
}

// IsZero reports whether no bits are set.
func (b Bitset) IsZero() bool {
	return b[0] == 0 && b[1] == 0 && b[2] == 0 && b[3] == 0
}

// Count returns the number of set bits.
func (b Bitset) Count() int {
	return bits.OnesCount64(b[0]) +
		bits.OnesCount64(b[1]) +
		bits.OnesCount64(b[2]) +
		bits.OnesCount64(b[3])
}

// Kinds yields the set kinds in ascending order.
func (b Bitset) Kinds() iter.Seq[KindID] {
	return func(yield func(KindID) bool) {
		for word := range b {
			w := b[word]
			for w != 0 {
				bit := bits.TrailingZeros64(w)
				if !yield(KindID(word*64 + bit)) {
					return
				}
				w &= w - 1
			}
		}
	}
}

package hwio

import "math/bits"

const wordSize = 64

// Bitset is a fixed size set of bits. Use NewBitset, the zero value can't
// hold any bit.
type Bitset struct {
	words []uint64
	n     uint
}

// NewBitset returns a set of n bits, all cleared.
func NewBitset(n uint) Bitset {
	return Bitset{
		words: make([]uint64, (n+wordSize-1)/wordSize),
		n:     n,
	}
}

func (b *Bitset) Len() uint { return b.n }

func (b *Bitset) Set(i uint)   { b.words[i/wordSize] |= 1 << (i % wordSize) }
func (b *Bitset) Clear(i uint) { b.words[i/wordSize] &^= 1 << (i % wordSize) }

func (b *Bitset) Test(i uint) bool {
	return b.words[i/wordSize]&(1<<(i%wordSize)) != 0
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Next returns the index of the first set bit at or after i.
func (b *Bitset) Next(i uint) (uint, bool) {
	if i >= b.n {
		return 0, false
	}
	wi := i / wordSize
	w := b.words[wi] >> (i % wordSize)
	if w != 0 {
		return i + uint(bits.TrailingZeros64(w)), true
	}
	for wi++; wi < uint(len(b.words)); wi++ {
		if b.words[wi] != 0 {
			return wi*wordSize + uint(bits.TrailingZeros64(b.words[wi])), true
		}
	}
	return 0, false
}

// Reset clears all bits.
func (b *Bitset) Reset() {
	clear(b.words)
}

// SetAll sets all bits.
func (b *Bitset) SetAll() {
	if b.n == 0 {
		return
	}
	for i := range b.words {
		b.words[i] = ^uint64(0)
	}
	if rem := b.n % wordSize; rem != 0 {
		b.words[len(b.words)-1] = 1<<rem - 1
	}
}

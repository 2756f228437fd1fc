package hwio

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestBitset(t *testing.T) {
	const nbits = 1024

	b := NewBitset(nbits)
	if b.Len() != nbits {
		t.Fatalf("Len() = %d, want %d", b.Len(), nbits)
	}
	if _, ok := b.Next(0); ok {
		t.Fatalf("Next on empty set returned a bit")
	}

	b.SetAll()
	if b.Count() != nbits {
		t.Fatalf("Count() = %d after SetAll, want %d", b.Count(), nbits)
	}

	b.Reset()
	if b.Count() != 0 {
		t.Fatalf("Count() = %d after Reset, want 0", b.Count())
	}

	for i := range uint(nbits) {
		b.Set(i)
		if !b.Test(i) {
			t.Fatalf("bit %d is not set", i)
		}
		b.Clear(i)
		if b.Test(i) {
			t.Fatalf("bit %d is set", i)
		}
	}
}

func TestBitsetOddSize(t *testing.T) {
	b := NewBitset(70)
	b.SetAll()
	if b.Count() != 70 {
		t.Errorf("Count() = %d, want 70", b.Count())
	}
	if i, ok := b.Next(69); !ok || i != 69 {
		t.Errorf("Next(69) = %d, %t", i, ok)
	}
	if _, ok := b.Next(70); ok {
		t.Errorf("Next(70) found a bit past the end")
	}
}

func TestBitsetNext(t *testing.T) {
	const nbits = 1000
	rng := rand.New(rand.NewPCG(3, 4))

	for range 50 {
		b := NewBitset(nbits)
		var want []uint
		for i := range uint(nbits) {
			if rng.IntN(20) == 0 {
				b.Set(i)
				want = append(want, i)
			}
		}

		var got []uint
		for i, ok := b.Next(0); ok; i, ok = b.Next(i + 1) {
			got = append(got, i)
		}
		if !slices.Equal(got, want) {
			t.Fatalf("iterated bits = %v, want %v", got, want)
		}
		if b.Count() != len(want) {
			t.Fatalf("Count() = %d, want %d", b.Count(), len(want))
		}
	}
}

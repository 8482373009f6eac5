package simrng

import "testing"

func TestSameSeedProducesSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 20; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("sequences diverged at step %d", i)
		}
	}
}

func TestIntRangeStaysInBounds(t *testing.T) {
	r := New(7)
	for i := 0; i < 200; i++ {
		v := r.IntRange(3, 9)
		if v < 3 || v > 9 {
			t.Fatalf("IntRange(3,9) = %d, out of bounds", v)
		}
	}
}

func TestZeroSeedProducesValuesInRange(t *testing.T) {
	r := New(0)
	for i := 0; i < 20; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v, want [0,1)", v)
		}
	}
}

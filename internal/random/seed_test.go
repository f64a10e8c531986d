package random

import "testing"

func TestNewSeedVaries(t *testing.T) {
	a, err := NewSeed()
	if err != nil {
		t.Fatalf("new seed: %v", err)
	}
	b, err := NewSeed()
	if err != nil {
		t.Fatalf("new seed: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct seeds, got %d twice", a)
	}
}

func TestNewRandDeterministic(t *testing.T) {
	first := NewRand(42)
	second := NewRand(42)
	for i := 0; i < 10; i++ {
		a, b := first.Float64(), second.Float64()
		if a != b {
			t.Fatalf("draw %d: %v != %v for the same seed", i, a, b)
		}
	}
}

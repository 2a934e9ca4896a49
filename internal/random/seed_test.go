package random

import "testing"

func TestResolveKeepsConfiguredSeed(t *testing.T) {
	seed, err := Resolve(77)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if seed != 77 {
		t.Fatalf("seed = %d, want 77", seed)
	}
}

func TestResolveGeneratesSeed(t *testing.T) {
	a, err := Resolve(0)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	b, err := Resolve(0)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if a == b {
		t.Fatalf("two generated seeds are both %d", a)
	}
}

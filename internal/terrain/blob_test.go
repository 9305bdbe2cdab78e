package terrain

import (
	"math/rand/v2"
	"testing"
)

func TestBlobPowerAnchors(t *testing.T) {
	if p := blobPower(1000); p != 0.93 {
		t.Fatalf("blobPower(1000) = %v, want 0.93", p)
	}
	if p := blobPower(10000); p != 0.98 {
		t.Fatalf("blobPower(10000) = %v, want 0.98", p)
	}
	if p := blobPower(100000); p != 0.9973 {
		t.Fatalf("blobPower(100000) = %v, want 0.9973", p)
	}
}

func TestBlobPowerMonotonic(t *testing.T) {
	a := blobPower(500)
	b := blobPower(5000)
	c := blobPower(500000)
	if !(a <= b && b <= c) {
		t.Fatalf("blobPower should be non-decreasing in n, got %v %v %v", a, b, c)
	}
}

func TestDiffuseBlobSingleCellNoNeighbors(t *testing.T) {
	neighbors := [][]int{{}}
	r := rand.New(rand.NewPCG(1, 2))
	delta := diffuseBlob(neighbors, 0, 100, 0.97, r)
	if delta[0] != 100 {
		t.Fatalf("seed delta = %v, want 100", delta[0])
	}
}

func TestDiffuseBlobDecaysOutward(t *testing.T) {
	// A simple chain: 0-1-2-3-4.
	neighbors := [][]int{{1}, {0, 2}, {1, 3}, {2, 4}, {3}}
	r := rand.New(rand.NewPCG(7, 11))
	delta := diffuseBlob(neighbors, 0, 200, 0.9, r)
	if delta[0] != 200 {
		t.Fatalf("seed delta = %v, want 200", delta[0])
	}
	for i := 1; i < len(delta); i++ {
		if delta[i] > delta[i-1] {
			t.Fatalf("delta not non-increasing along the chain: %v", delta)
		}
	}
}

package terrain

import (
	"testing"

	"worldforge/internal/mesh"
	"worldforge/internal/rng"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	m := mesh.Build(200, 200, 25, 0.4, 42)
	return NewEngine(m, rng.New(42))
}

func TestAddAppliesToEveryCell(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Run([]Command{Add{Value: 10}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, h := range e.Height {
		if h != 10 {
			t.Fatalf("cell %d height = %v, want 10", i, h)
		}
	}
}

func TestNormalizeProducesFullRange(t *testing.T) {
	e := newTestEngine(t)
	for i := range e.Height {
		e.Height[i] = float64(i)
	}
	if err := e.Run([]Command{Normalize{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lo, hi := e.Height[0], e.Height[0]
	for _, h := range e.Height {
		if h < lo {
			lo = h
		}
		if h > hi {
			hi = h
		}
	}
	if lo != 0 {
		t.Fatalf("min height = %v, want 0", lo)
	}
	if hi != 255 {
		t.Fatalf("max height = %v, want 255", hi)
	}
}

func TestSetSeaLevelShiftsThreshold(t *testing.T) {
	e := newTestEngine(t)
	for i := range e.Height {
		e.Height[i] = float64(i)
	}
	if err := e.Run([]Command{SetSeaLevel{LandFraction: 0.5}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := len(e.Height)
	above := 0
	for _, h := range e.Height {
		if h >= seaThreshold {
			above++
		}
	}
	frac := float64(above) / float64(n)
	if frac < 0.45 || frac > 0.55 {
		t.Fatalf("land fraction = %v, want close to 0.5", frac)
	}
}

func TestMountainProducesSingleLocalMaximum(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Run([]Command{Mountain{Height: 200, X: 0.5, Y: 0.5, Radius: 0.1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	maxIdx := 0
	for i, h := range e.Height {
		if h > e.Height[maxIdx] {
			maxIdx = i
		}
	}
	seed := e.nearestNormalized(0.5, 0.5)
	if maxIdx != seed {
		t.Fatalf("max height at cell %d, want seed cell %d", maxIdx, seed)
	}
}

package climate

import (
	"testing"

	"worldforge/internal/mesh"
)

func TestDistanceToSeaZeroAtWater(t *testing.T) {
	m := mesh.Build(150, 150, 20, 0.4, 5)
	isWater := make([]bool, m.N())
	isWater[0] = true

	dist := distanceToSea(m, isWater)
	if dist[0] != 0 {
		t.Fatalf("distance at a water cell = %d, want 0", dist[0])
	}
	for _, nb := range m.Neighbors[0] {
		if dist[nb] != 1 {
			t.Fatalf("distance at neighbor %d = %d, want 1", nb, dist[nb])
		}
	}
}

func TestPrecipitationDecreasesInland(t *testing.T) {
	m := mesh.Build(200, 200, 20, 0.4, 9)
	height := make([]uint8, m.N())
	for i := range height {
		height[i] = 100
	}
	coastal := precipitationAt(m, height, 0, 1, 0.5, 0)
	inland := precipitationAt(m, height, 0, 40, 0.5, 0)
	if inland > coastal {
		t.Fatalf("inland precipitation %d should not exceed coastal %d", inland, coastal)
	}
}

func TestPrecipitationFieldMarksWaterAtMax(t *testing.T) {
	m := mesh.Build(150, 150, 20, 0.4, 6)
	height := make([]uint8, m.N())
	isWater := make([]bool, m.N())
	isWater[0] = true
	for i := range height {
		height[i] = 80
	}

	out := Precipitation(m, height, isWater, 0)
	if len(out) != m.N() {
		t.Fatalf("got %d precipitation values, want %d", len(out), m.N())
	}
	if out[0] != 255 {
		t.Fatalf("water cell precipitation = %d, want 255", out[0])
	}
}

func TestPrecipitationWindwardBoost(t *testing.T) {
	m := mesh.Build(200, 200, 20, 0.4, 12)
	height := make([]uint8, m.N())
	for i := range height {
		height[i] = 50
	}
	i := m.Spatial.Nearest(100, 100)
	height[i] = 200 // this cell towers over its upwind neighbor
	p := precipitationAt(m, height, i, 10, 0.5, 0)
	if p == 0 {
		t.Fatal("expected non-zero precipitation")
	}
	// far enough inland that neither value clamps at 255, the windward cell
	// gets more precipitation than the same cell on flat ground.
	windward := precipitationAt(m, height, i, 200, 0.5, 0)
	height[i] = 50
	flat := precipitationAt(m, height, i, 200, 0.5, 0)
	if windward <= flat {
		t.Fatalf("windward precipitation %d should exceed flat-ground %d", windward, flat)
	}
}

package features

import (
	"testing"

	"worldforge/internal/mesh"
)

func TestSmoothCoastlineFlipsMajorityOpposite(t *testing.T) {
	m := mesh.Build(150, 150, 20, 0.4, 21)
	isWater := make([]bool, m.N())
	height := make([]uint8, m.N())
	for i := range height {
		height[i] = 50
	}
	// isolate cell 0 as the only water cell among land neighbors
	isWater[0] = true
	height[0] = 5

	smoothCoastline(m, isWater, height, 1)

	if isWater[0] {
		t.Fatal("a single water cell surrounded by land should flip to land")
	}
}

func TestSmoothCoastlineStableOnUniformField(t *testing.T) {
	m := mesh.Build(150, 150, 20, 0.4, 22)
	isWater := make([]bool, m.N())
	height := make([]uint8, m.N())
	for i := range height {
		height[i] = 100
	}

	smoothCoastline(m, isWater, height, 3)

	for i := range isWater {
		if isWater[i] {
			t.Fatalf("cell %d flipped in a uniform all-land field", i)
		}
	}
}

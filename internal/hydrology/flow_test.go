package hydrology

import (
	"testing"

	"worldforge/internal/mesh"
)

func TestFlowDirectionPicksLowerNeighbor(t *testing.T) {
	// a 5-node line: heights 100 80 60 90 70, neighbors from hydrology.rs's
	// own flow-direction test fixture.
	height := []float64{100, 80, 60, 90, 70}
	m := &mesh.Mesh{Neighbors: [][]int{{1}, {0, 2}, {1, 4}, {4}, {2, 3}}}
	isWater := make([]bool, 5)

	dir := flowDirection(m, height, isWater)
	if dir[0] != 1 {
		t.Fatalf("dir[0] = %d, want 1", dir[0])
	}
	if dir[1] != 2 {
		t.Fatalf("dir[1] = %d, want 2", dir[1])
	}
	if dir[3] != 4 {
		t.Fatalf("dir[3] = %d, want 4", dir[3])
	}
}

func TestFlowDirectionNoneAtLocalMinimum(t *testing.T) {
	height := []float64{10, 5, 10}
	m := &mesh.Mesh{Neighbors: [][]int{{1}, {0, 2}, {1}}}
	isWater := make([]bool, 3)

	dir := flowDirection(m, height, isWater)
	if dir[1] != noFlow {
		t.Fatalf("dir[1] = %d, want noFlow at a local minimum", dir[1])
	}
}

func TestFlowDirectionSkipsWaterCells(t *testing.T) {
	height := []float64{10, 5, 20}
	m := &mesh.Mesh{Neighbors: [][]int{{1}, {0, 2}, {1}}}
	isWater := []bool{false, true, false}

	dir := flowDirection(m, height, isWater)
	if dir[1] != noFlow {
		t.Fatalf("water cells should never have a flow direction, got %d", dir[1])
	}
}

func TestPriorityFloodFillsDepressionToRimHeight(t *testing.T) {
	m := mesh.Build(150, 150, 20, 0.4, 4)
	n := m.N()
	height := make([]uint8, n)
	for i := range height {
		height[i] = 50
	}
	isWater := make([]bool, n)
	isWater[0] = true // 0 acts as a drain seed

	// dig a pit at a cell not touching the map border and below its neighbors
	pit := -1
	for i := 1; i < n; i++ {
		if m.TouchesBoundary(i) {
			continue
		}
		pit = i
		break
	}
	if pit == -1 {
		t.Fatal("expected at least one interior cell")
	}
	height[pit] = 5

	filled, raised, _ := priorityFlood(m, height, isWater)
	if !raised[pit] {
		t.Fatalf("expected the pit cell %d to be raised by priority flood", pit)
	}
	if filled[pit] < float64(height[pit]) {
		t.Fatalf("filled height %v should be >= original %v", filled[pit], height[pit])
	}
}

func TestSaturatingAdd(t *testing.T) {
	if got := saturatingAddU16(60000, 10000); got != 0xFFFF {
		t.Fatalf("saturatingAddU16 overflow = %d, want 65535", got)
	}
	if got := saturatingAddU16(10, 20); got != 30 {
		t.Fatalf("saturatingAddU16(10,20) = %d, want 30", got)
	}
}

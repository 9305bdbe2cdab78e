package hydrology

import (
	"testing"

	"worldforge/internal/mesh"
)

func TestExtractLakesGroupsConnectedRaisedCells(t *testing.T) {
	m := &mesh.Mesh{Neighbors: [][]int{{1}, {0, 2}, {1, 3}, {2}}}
	raised := []bool{false, true, true, false}
	filled := []float64{10, 30, 32, 15}

	lakes := extractLakes(m, raised, filled)
	if len(lakes) != 1 {
		t.Fatalf("expected 1 lake, got %d", len(lakes))
	}
	lake := lakes[0]
	if len(lake.Cells) != 2 {
		t.Fatalf("expected 2 cells in the lake, got %d", len(lake.Cells))
	}
	if lake.SurfaceLevel != 32 {
		t.Fatalf("surface level = %d, want 32 (the highest filled height)", lake.SurfaceLevel)
	}
	if lake.OutletCell == nil {
		t.Fatal("expected an outlet cell")
	}
}

func TestExtractLakesNoneWithoutRaisedCells(t *testing.T) {
	m := &mesh.Mesh{Neighbors: [][]int{{1}, {0}}}
	raised := []bool{false, false}
	filled := []float64{10, 10}

	lakes := extractLakes(m, raised, filled)
	if len(lakes) != 0 {
		t.Fatalf("expected no lakes, got %d", len(lakes))
	}
}

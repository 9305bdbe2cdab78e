package biomes

import (
	"testing"

	"worldforge/internal/mesh"
)

func TestCoastalCellsMarksLandAdjacentToWater(t *testing.T) {
	m := mesh.Build(200, 200, 20, 0.4, 7)
	isWater := make([]bool, m.N())
	isWater[0] = true

	coast := coastalCells(m, isWater)
	if coast[0] {
		t.Fatal("a water cell should not be marked coastal")
	}
	sawCoast := false
	for _, nb := range m.Neighbors[0] {
		if coast[nb] {
			sawCoast = true
		}
	}
	if !sawCoast {
		t.Fatal("expected at least one neighbor of the water cell to be coastal")
	}
}

func TestCoastalCellsFalseAwayFromWater(t *testing.T) {
	m := mesh.Build(200, 200, 20, 0.4, 11)
	isWater := make([]bool, m.N())

	coast := coastalCells(m, isWater)
	for i, c := range coast {
		if c {
			t.Fatalf("cell %d marked coastal with no water anywhere", i)
		}
	}
}

package features

import (
	"testing"

	"worldforge/internal/mesh"
)

func TestLabelSeparatesLandAndWater(t *testing.T) {
	m := mesh.Build(200, 200, 20, 0.4, 42)
	isWater := make([]bool, m.N())
	for i := range isWater {
		isWater[i] = i%2 == 0
	}

	result := label(m, isWater)
	for i := range isWater {
		if result.featureID[i] == 0 {
			t.Fatalf("cell %d never labeled", i)
		}
	}
	for _, r := range result.regions {
		for _, c := range r.cells {
			if (!isWater[c]) != r.isLand {
				t.Fatalf("region %d polarity mismatch at cell %d", r.id, c)
			}
		}
	}
}

func TestLabelAllLandIsOneRegion(t *testing.T) {
	m := mesh.Build(150, 150, 20, 0.4, 3)
	isWater := make([]bool, m.N())

	result := label(m, isWater)
	if len(result.regions) != 1 {
		t.Fatalf("expected a single all-land region, got %d", len(result.regions))
	}
	if !result.regions[0].isLand {
		t.Fatal("expected the single region to be land")
	}
}

func TestClassifySplitsLandWaterOceanLake(t *testing.T) {
	regions := []region{
		{id: 1, cells: []uint32{0, 1, 2}, isLand: true},
		{id: 2, cells: []uint32{3, 4}, isLand: false, touchesMap: true},
		{id: 3, cells: []uint32{5}, isLand: false, touchesMap: false},
	}
	landmasses, lakes, oceans := classify(regions, 100)
	if len(landmasses) != 1 || len(lakes) != 1 || len(oceans) != 1 {
		t.Fatalf("expected 1 landmass/lake/ocean each, got %d/%d/%d",
			len(landmasses), len(lakes), len(oceans))
	}
	if landmasses[0].IsContinent {
		t.Fatal("3-cell landmass should not exceed the default continent threshold")
	}
}

func TestClassifyContinentThreshold(t *testing.T) {
	cells := make([]uint32, 150)
	for i := range cells {
		cells[i] = uint32(i)
	}
	regions := []region{{id: 1, cells: cells, isLand: true}}
	landmasses, _, _ := classify(regions, 100)
	if !landmasses[0].IsContinent {
		t.Fatal("150-cell landmass should exceed a 100-cell continent threshold")
	}
}

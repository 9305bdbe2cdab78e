package detail

import "testing"

func TestThermalErodeFlattensSteepPair(t *testing.T) {
	height := []float64{100, 0}
	neighbors := [][]int{{1}, {0}}

	thermalErode(height, neighbors, 1, 6)

	diff := height[0] - height[1]
	if diff >= 100 {
		t.Fatalf("expected erosion to reduce the slope, got diff=%v", diff)
	}
	if diff < 6-1e-9 {
		t.Fatalf("erosion should stop transferring once slope <= talus, got diff=%v", diff)
	}
}

func TestThermalErodeConservesMass(t *testing.T) {
	height := []float64{50, 10, 30}
	neighbors := [][]int{{1, 2}, {0}, {0}}
	sumBefore := height[0] + height[1] + height[2]

	thermalErode(height, neighbors, 5, 6)

	sumAfter := height[0] + height[1] + height[2]
	if diff := sumAfter - sumBefore; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("mass not conserved: before=%v after=%v", sumBefore, sumAfter)
	}
}

func TestThermalErodeNoopBelowTalus(t *testing.T) {
	height := []float64{10, 8}
	neighbors := [][]int{{1}, {0}}

	thermalErode(height, neighbors, 10, 6)

	if height[0] != 10 || height[1] != 8 {
		t.Fatalf("expected no change below talus, got %v %v", height[0], height[1])
	}
}

package detail

import (
	"math/rand/v2"
	"testing"

	"worldforge/internal/config"
)

// a small line mesh of n cells sloping downhill from cell 0 to cell n-1.
func lineMesh(n int) (height []float64, neighbors [][]int) {
	height = make([]float64, n)
	neighbors = make([][]int, n)
	for i := 0; i < n; i++ {
		height[i] = float64(n - i)
		switch {
		case i == 0:
			neighbors[i] = []int{1}
		case i == n-1:
			neighbors[i] = []int{i - 1}
		default:
			neighbors[i] = []int{i - 1, i + 1}
		}
	}
	return height, neighbors
}

func TestHydraulicErodeCarvesSlope(t *testing.T) {
	height, neighbors := lineMesh(10)
	cfg := config.DefaultErosionConfig()
	cfg.Droplets = 50
	cfg.DropletLifetime = 8
	r := rand.New(rand.NewPCG(1, 2))

	before := make([]float64, len(height))
	copy(before, height)

	hydraulicErode(height, neighbors, cfg, r)

	changed := false
	for i := range height {
		if height[i] != before[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatal("expected hydraulic erosion to modify at least one cell")
	}
}

func TestHydraulicErodeStopsAtLocalMinimum(t *testing.T) {
	height := []float64{5, 0, 5}
	neighbors := [][]int{{1}, {0, 2}, {1}}
	cfg := config.DefaultErosionConfig()
	cfg.Droplets = 1
	cfg.DropletLifetime = 20
	r := rand.New(rand.NewPCG(9, 9))

	// force the droplet to start at the pit's rim by running many trials;
	// this checks only that every run terminates without panicking.
	for i := 0; i < 20; i++ {
		hydraulicErode(height, neighbors, cfg, r)
	}
}

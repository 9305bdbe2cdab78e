package detail

import "testing"

func TestBuildOctavesIndependentSeeds(t *testing.T) {
	layers := buildOctaves([]int64{1, 2, 3}, 0.02, 0.5, 2.0)
	if len(layers) != 3 {
		t.Fatalf("got %d layers, want 3", len(layers))
	}
	if layers[0].frequency != 0.02 {
		t.Fatalf("octave 0 frequency = %v, want 0.02", layers[0].frequency)
	}
	if layers[1].frequency != 0.04 || layers[2].frequency != 0.08 {
		t.Fatalf("lacunarity not applied: %v %v", layers[1].frequency, layers[2].frequency)
	}
	if layers[1].weight != 0.5 || layers[2].weight != 0.25 {
		t.Fatalf("persistence not applied: %v %v", layers[1].weight, layers[2].weight)
	}
}

func TestEvalStaysInSignedRange(t *testing.T) {
	layers := buildOctaves([]int64{7, 11, 13}, 0.05, 0.5, 2.0)
	for x := 0.0; x < 50; x += 3.3 {
		for y := 0.0; y < 50; y += 4.1 {
			v := eval(layers, x, y)
			if v < -1.0001 || v > 1.0001 {
				t.Fatalf("eval(%v,%v) = %v, out of [-1,1]", x, y, v)
			}
		}
	}
}

func TestEvalNoLayersIsZero(t *testing.T) {
	if v := eval(nil, 1, 1); v != 0 {
		t.Fatalf("eval with no layers = %v, want 0", v)
	}
}

// Package detail implements §4.4: constrained fBm at medium and small
// scale, thermal erosion, and hydraulic droplet erosion, applied after
// either elevation path finishes.
package detail

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// octaveLayer is one fBm octave: its own noise field, frequency, and
// contribution weight, mirroring tobyjaguar-mini-world's octaveNoise
// (persistence^k amplitude, lacunarity^k frequency) but with each octave
// keyed to an independently-seeded generator rather than one shared field,
// per §4.4 ("each layer is seeded independently from the master seed").
type octaveLayer struct {
	noise     opensimplex.Noise
	frequency float64
	weight    float64
}

func buildOctaves(seeds []int64, baseFrequency, persistence, lacunarity float64) []octaveLayer {
	layers := make([]octaveLayer, len(seeds))
	freq := baseFrequency
	amp := 1.0
	for k, seed := range seeds {
		layers[k] = octaveLayer{
			noise:     opensimplex.NewNormalized(seed),
			frequency: freq,
			weight:    amp,
		}
		freq *= lacunarity
		amp *= persistence
	}
	return layers
}

// eval sums the octaves at (x, y) and returns a zero-mean value roughly in
// [-1, 1] (opensimplex-go's NewNormalized fields are [0,1]; centered here).
func eval(layers []octaveLayer, x, y float64) float64 {
	sum, total := 0.0, 0.0
	for _, l := range layers {
		v := l.noise.Eval2(x*l.frequency, y*l.frequency)*2 - 1
		sum += v * l.weight
		total += l.weight
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

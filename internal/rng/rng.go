// Package rng provides the splittable pseudo-random source the pipeline
// uses for determinism: every stage, blob, and BFS sub-step derives its own
// independent stream from the master seed instead of sharing one *rand.Rand,
// so parallel sections stay reproducible regardless of goroutine scheduling.
package rng

import "math/rand/v2"

// Source wraps a master seed and hands out independent per-substream
// generators. Two Sources created from the same seed, asked for the same
// (stageID, localID) pairs, always produce identical sequences.
type Source struct {
	seed uint64
}

// New creates a splittable source rooted at seed.
func New(seed uint64) *Source {
	return &Source{seed: seed}
}

// Sub derives a deterministic, independent *rand.Rand for (stageID, localID).
// stageID identifies the pipeline stage (or sub-phase); localID identifies
// the unit of work within it (a blob index, a BFS wave, a worker shard).
func (s *Source) Sub(stageID, localID uint64) *rand.Rand {
	h1, h2 := splitmix(s.seed, stageID, localID)
	return rand.New(rand.NewPCG(h1, h2))
}

// splitmix64 mixing constants, as used by the reference SplitMix64 generator.
const (
	sm64Gamma = 0x9E3779B97F4A7C15
	sm64Mul1  = 0xBF58476D1CE4E5B9
	sm64Mul2  = 0x94D049BB133111EB
)

func sm64(x uint64) uint64 {
	x += sm64Gamma
	z := x
	z = (z ^ (z >> 30)) * sm64Mul1
	z = (z ^ (z >> 27)) * sm64Mul2
	return z ^ (z >> 31)
}

// splitmix combines the master seed with a stage id and a local id into the
// two 64-bit words a PCG generator needs, per §9's
// "substream id is hash(master_seed, stage_id, local_id)".
func splitmix(seed, stageID, localID uint64) (uint64, uint64) {
	a := sm64(seed ^ sm64(stageID*0x100000001B3+localID))
	b := sm64(a ^ sm64(localID*0x9E3779B1+stageID))
	return a, b
}

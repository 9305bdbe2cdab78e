// Package tectonics implements the §4.3 plate-tectonics elevation path:
// plate assignment by BFS region growing, kinematics, boundary detection
// and classification, and an iterated uplift/subduction/rift/transform
// update with isostatic relaxation — re-targeted from the teacher's sphere
// vertex / 3D-velocity model (plates.go, tectonics.go) onto the planar
// mesh cells this module works over.
package tectonics

import (
	"context"
	"math"
	"math/rand/v2"

	"worldforge/internal/config"
	"worldforge/internal/meshutil"
	"worldforge/internal/pipeline"
)

// Generate runs the full plate simulation over ms.Mesh and returns a raw
// (not yet range-normalized) per-cell height array; the caller (internal/
// terrain.Stage) is responsible for the shared §4.3 "Finalization" step.
func Generate(ctx context.Context, ms *pipeline.MapSystem, cfg *config.TectonicConfig, report func(float64)) ([]float64, *pipeline.Error) {
	n := ms.Mesh.N()
	r := ms.RNG.Sub(uint64(pipeline.StageElevation), 0)

	plateOf := assignPlates(ms, cfg.PlateCount, r)
	plates := buildPlates(ms, plateOf, cfg.PlateCount, cfg.ContinentalRatio, r)
	boundaries := findBoundaries(ms, plateOf, plates)
	rings := precomputeRings(ms, plateOf, boundaries, cfg.BoundaryWidth)
	hotspots := placeHotspots(ms, cfg.HotspotCount, r)

	height := make([]float64, n)
	for _, p := range plates {
		base := 100.0
		if p.Kind == pipeline.PlateOceanic {
			base = 40.0
		}
		for _, c := range p.Cells {
			height[c] = base
		}
	}

	for iter := 0; iter < cfg.Iterations; iter++ {
		select {
		case <-ctx.Done():
			return nil, pipeline.Canceled(pipeline.StageElevation)
		default:
		}

		applyBoundaries(height, boundaries, rings, cfg)
		applyHotspots(height, ms, hotspots, cfg, r)
		isostaticRelax(height, ms.Mesh.Neighbors, cfg.IsostaticRate)

		if report != nil {
			report(float64(iter+1) / float64(cfg.Iterations))
		}
	}

	ms.Plates = plates
	ms.PlateBoundaries = boundaries
	return height, nil
}

// assignPlates picks PlateCount seed cells and grows plate ownership by a
// simultaneous multi-source BFS (first-arrival wins), the planar analogue
// of the teacher's organic-region-growing approach in createOrganicPlates.
func assignPlates(ms *pipeline.MapSystem, plateCount int, r *rand.Rand) []int {
	n := ms.Mesh.N()
	plateOf := make([]int, n)
	for i := range plateOf {
		plateOf[i] = -1
	}
	if plateCount <= 0 {
		return plateOf
	}

	seeds := make([]int, 0, plateCount)
	seen := map[int]bool{}
	for len(seeds) < plateCount && len(seen) < n {
		c := r.IntN(n)
		if seen[c] {
			continue
		}
		seen[c] = true
		seeds = append(seeds, c)
	}

	queue := make([]int, len(seeds))
	copy(queue, seeds)
	for i, s := range seeds {
		plateOf[s] = i
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range ms.Mesh.Neighbors[cur] {
			if plateOf[nb] == -1 {
				plateOf[nb] = plateOf[cur]
				queue = append(queue, nb)
			}
		}
	}
	return plateOf
}

func buildPlates(ms *pipeline.MapSystem, plateOf []int, plateCount int, continentalRatio float64, r *rand.Rand) []pipeline.Plate {
	plates := make([]pipeline.Plate, plateCount)
	for i := range plates {
		plates[i] = pipeline.Plate{
			ID:        i,
			Direction: r.Float64() * 2 * math.Pi,
			Speed:     0.5 + r.Float64()*1.5,
		}
	}

	numContinental := int(math.Round(float64(plateCount) * continentalRatio))
	continental := make([]bool, plateCount)
	order := r.Perm(plateCount)
	for _, idx := range order[:min(numContinental, plateCount)] {
		continental[idx] = true
	}
	for i := range plates {
		if continental[i] {
			plates[i].Kind = pipeline.PlateContinental
			plates[i].Density = 2.7
		} else {
			plates[i].Kind = pipeline.PlateOceanic
			plates[i].Density = 3.0
		}
	}

	sums := make([]meshutil.Vec2, plateCount)
	counts := make([]int, plateCount)
	for cell, p := range plateOf {
		if p < 0 {
			continue
		}
		plates[p].Cells = append(plates[p].Cells, uint32(cell))
		sums[p] = sums[p].Add(ms.Mesh.Points[cell])
		counts[p]++
	}
	for i := range plates {
		if counts[i] > 0 {
			plates[i].Centroid = meshutil.Vec2{X: sums[i].X / float64(counts[i]), Y: sums[i].Y / float64(counts[i])}
		}
	}
	return plates
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func findBoundaries(ms *pipeline.MapSystem, plateOf []int, plates []pipeline.Plate) []pipeline.PlateBoundary {
	type key struct{ a, b int }
	groups := map[key][]uint32{}

	for cell, p := range plateOf {
		if p < 0 {
			continue
		}
		for _, nb := range ms.Mesh.Neighbors[cell] {
			q := plateOf[nb]
			if q < 0 || q == p {
				continue
			}
			a, b := p, q
			if a > b {
				a, b = b, a
			}
			k := key{a, b}
			groups[k] = append(groups[k], uint32(cell))
		}
	}

	boundaries := make([]pipeline.PlateBoundary, 0, len(groups))
	for k, cells := range groups {
		pa, pb := plates[k.a], plates[k.b]
		nrm := meshutil.Vec2{X: pb.Centroid.X - pa.Centroid.X, Y: pb.Centroid.Y - pa.Centroid.Y}
		if nrm.Len() < 1e-9 {
			nrm = meshutil.Vec2{X: 1, Y: 0}
		} else {
			nrm = nrm.Normalize()
		}
		tang := nrm.Rot90()

		va := meshutil.Vec2{X: pa.Speed * math.Cos(pa.Direction), Y: pa.Speed * math.Sin(pa.Direction)}
		vb := meshutil.Vec2{X: pb.Speed * math.Cos(pb.Direction), Y: pb.Speed * math.Sin(pb.Direction)}

		approach := va.Dot(nrm) + vb.Dot(meshutil.Vec2{X: -nrm.X, Y: -nrm.Y})
		shear := math.Abs(va.Dot(tang) - vb.Dot(tang))

		pb2 := pipeline.PlateBoundary{A: k.a, B: k.b, Cells: cells, Intensity: math.Abs(approach)}
		switch {
		case approach > 0.3:
			pb2.Kind = pipeline.BoundaryConvergent
			if pa.Density != pb.Density {
				sub := k.b
				if pa.Density > pb.Density {
					sub = k.a
				}
				pb2.Subducting = &sub
			}
		case approach < -0.3:
			pb2.Kind = pipeline.BoundaryDivergent
			pb2.Intensity = math.Abs(approach)
		case shear > 0.3:
			pb2.Kind = pipeline.BoundaryTransform
			pb2.Intensity = shear
		default:
			pb2.Kind = pipeline.BoundaryConvergent
			pb2.Intensity = math.Max(0.05, math.Abs(approach))
		}
		boundaries = append(boundaries, pb2)
	}
	return boundaries
}

// ringInfo records, per boundary index and per side (0='A' plate side,
// 1='B' plate side), the BFS ring distance of every cell reachable within
// BoundaryWidth hops of that side's boundary-adjacent cells. Computed once
// since plate membership is fixed for the run; only heights change across
// iterations.
type ringInfo struct {
	sideDist [2]map[uint32]int
}

func precomputeRings(ms *pipeline.MapSystem, plateOf []int, boundaries []pipeline.PlateBoundary, width int) []ringInfo {
	out := make([]ringInfo, len(boundaries))
	for bi, b := range boundaries {
		for side := 0; side < 2; side++ {
			plateID := b.A
			if side == 1 {
				plateID = b.B
			}
			seeds := sideSeeds(ms, plateOf, b, plateID)
			out[bi].sideDist[side] = bfsRings(ms.Mesh.Neighbors, plateOf, plateID, seeds, width)
		}
	}
	return out
}

func sideSeeds(ms *pipeline.MapSystem, plateOf []int, b pipeline.PlateBoundary, plateID int) []uint32 {
	var seeds []uint32
	for _, c := range b.Cells {
		if plateOf[int(c)] == plateID {
			seeds = append(seeds, c)
		}
	}
	return seeds
}

func bfsRings(neighbors [][]int, plateOf []int, plateID int, seeds []uint32, maxWidth int) map[uint32]int {
	dist := map[uint32]int{}
	queue := make([]uint32, 0, len(seeds))
	for _, s := range seeds {
		if _, ok := dist[s]; !ok {
			dist[s] = 0
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := dist[cur]
		if d >= maxWidth {
			continue
		}
		for _, nb := range neighbors[int(cur)] {
			if plateOf[nb] != plateID {
				continue
			}
			u := uint32(nb)
			if _, ok := dist[u]; ok {
				continue
			}
			dist[u] = d + 1
			queue = append(queue, u)
		}
	}
	return dist
}

func applyBoundaries(height []float64, boundaries []pipeline.PlateBoundary, rings []ringInfo, cfg *config.TectonicConfig) {
	width := float64(cfg.BoundaryWidth)
	for bi, b := range boundaries {
		switch b.Kind {
		case pipeline.BoundaryConvergent:
			overridingSide, subductingSide := 0, 1
			if b.Subducting != nil && *b.Subducting == b.A {
				overridingSide, subductingSide = 1, 0
			}
			for cell, d := range rings[bi].sideDist[overridingSide] {
				falloff := 1 - float64(d)/width
				rate := cfg.CollisionUpliftRate
				factor := 0.1
				if b.Subducting == nil {
					factor = 0.15
				}
				height[int(cell)] += rate * b.Intensity * falloff * factor
			}
			if b.Subducting != nil {
				for cell, d := range rings[bi].sideDist[subductingSide] {
					falloff := 1 - float64(d)/width
					height[int(cell)] -= cfg.SubductionDepthRate * b.Intensity * falloff * 0.1
				}
			} else {
				for cell, d := range rings[bi].sideDist[subductingSide] {
					falloff := 1 - float64(d)/width
					height[int(cell)] += cfg.CollisionUpliftRate * b.Intensity * falloff * 0.15
				}
			}
		case pipeline.BoundaryDivergent:
			for side := 0; side < 2; side++ {
				for cell, d := range rings[bi].sideDist[side] {
					switch {
					case d <= 2:
						height[int(cell)] -= cfg.RiftDepthRate * b.Intensity * 0.1
					case d <= 5:
						falloff := 1 - float64(d)/width
						height[int(cell)] += cfg.RiftDepthRate * b.Intensity * falloff * 0.02
					}
				}
			}
		case pipeline.BoundaryTransform:
			for _, cell := range b.Cells {
				height[int(cell)] += cfg.NoiseStrength * b.Intensity * 0.05
			}
		}
	}
}

func isostaticRelax(height []float64, neighbors [][]int, rate float64) {
	next := make([]float64, len(height))
	copy(next, height)
	for i, h := range height {
		ns := neighbors[i]
		if len(ns) == 0 {
			continue
		}
		sum := 0.0
		for _, n := range ns {
			sum += height[n]
		}
		mean := sum / float64(len(ns))
		next[i] = h + (mean-h)*rate
	}
	copy(height, next)
}

package detail

import (
	"context"
	"math"
	"runtime"
	"sync"

	"worldforge/internal/config"
	"worldforge/internal/pipeline"
)

// Stage runs the §4.4 detail step: medium- and small-scale fBm layered onto
// the elevation produced by internal/terrain, then optional thermal and
// hydraulic erosion.
type Stage struct{}

func (Stage) ID() pipeline.StageID { return pipeline.StageDetail }

func (Stage) Run(ctx context.Context, ms *pipeline.MapSystem, report func(float64)) error {
	cfg, ok := ms.Config.(*config.GenerationConfig)
	if !ok {
		return pipeline.InvariantViolated(pipeline.StageDetail, "MapSystem.Config is not a *config.GenerationConfig")
	}

	n := ms.Mesh.N()
	height := make([]float64, n)
	for i, h := range ms.Cells.Height {
		height[i] = float64(h)
	}

	boundaryDist := boundaryDistanceField(ms)
	isContinental := make([]bool, n)
	if len(ms.Plates) > 0 {
		for _, p := range ms.Plates {
			for _, c := range p.Cells {
				isContinental[c] = p.Kind == pipeline.PlateContinental
			}
		}
	} else {
		for i := range isContinental {
			isContinental[i] = !ms.Cells.IsWater[i]
		}
	}

	seed := int64(ms.RNG.Sub(uint64(pipeline.StageDetail), 0).Uint64())
	medium := buildOctaves(seedSeries(seed, 3), 0.01, 0.5, 2.0)
	small := buildOctaves(seedSeries(seed, 5), 0.05, 0.5, 2.0)

	strength := float64(cfg.Detail.MediumNoiseStrength)
	smallStrength := float64(cfg.Detail.DetailNoiseStrength)
	seaLevel := float64(cfg.SeaLevel)

	applyParallel(n, func(i int) {
		x, y := ms.Mesh.Points[i].X, ms.Mesh.Points[i].Y

		medVal := eval(medium, x, y) * strength
		switch {
		case isContinental[i]:
			medVal *= 1.5
		default:
			medVal *= 0.5
		}
		if d := boundaryDist[i]; d < 1 {
			medVal *= 1 - math.Exp(-5*d)
		}

		smallVal := eval(small, x, y) * smallStrength
		if height[i] > seaLevel {
			smallVal *= 1 + (height[i]-seaLevel)/255*0.5
		} else {
			smallVal *= 0.5
		}

		height[i] += medVal*255 + smallVal*255
	})

	select {
	case <-ctx.Done():
		return pipeline.Canceled(pipeline.StageDetail)
	default:
	}

	if cfg.Detail.Erosion != nil {
		e := cfg.Detail.Erosion
		if e.ThermalEnabled {
			thermalErode(height, ms.Mesh.Neighbors, e.ThermalIter, e.Talus)
		}
		select {
		case <-ctx.Done():
			return pipeline.Canceled(pipeline.StageDetail)
		default:
		}
		if e.HydraulicEnabled {
			r := ms.RNG.Sub(uint64(pipeline.StageDetail), 1)
			hydraulicErode(height, ms.Mesh.Neighbors, *e, r)
		}
	}

	// §4.4 layers fBm deltas and erosion onto an already-finalized elevation
	// (§4.2/§4.3 clamp or range-normalize at their own finalization, not
	// here); a second range-normalize would rescale by this stage's own
	// min/max and undo whatever sea level the elevation stage established,
	// the same SetSeaLevel-cancellation bug fixed in internal/terrain. Clamp
	// only.
	for i, h := range height {
		q := math.Max(0, math.Min(h, 255))
		ms.Cells.Height[i] = uint8(q + 0.5)
		ms.Cells.IsWater[i] = ms.Cells.Height[i] < cfg.SeaLevel
	}

	report(1.0)
	return nil
}

func init() {
	pipeline.Register(Stage{})
}

// seedSeries derives octaves independent sub-seeds from a single master
// seed, since each fBm layer must be "seeded independently" per §4.4.
func seedSeries(master int64, count int) []int64 {
	seeds := make([]int64, count)
	s := uint64(master)
	for i := range seeds {
		s = s*6364136223846793005 + 1442695040888963407
		seeds[i] = int64(s)
	}
	return seeds
}

// boundaryDistanceField returns, for each cell, the BFS ring distance to
// the nearest plate boundary normalized to [0,1] (1 = at or beyond 6
// hops away; the width is fixed at the default TectonicConfig.BoundaryWidth
// and the configured value is not read). Cells are 0 exactly on a boundary. On the
// template elevation path (no plates) every cell is 1 — no boundary to
// suppress against.
func boundaryDistanceField(ms *pipeline.MapSystem) []float64 {
	n := ms.Mesh.N()
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	if len(ms.PlateBoundaries) == 0 {
		return out
	}

	const width = 6
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	queue := make([]int, 0, n)
	for _, b := range ms.PlateBoundaries {
		for _, c := range b.Cells {
			if dist[c] != 0 {
				dist[c] = 0
				queue = append(queue, int(c))
			}
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := dist[cur]
		if d >= width {
			continue
		}
		for _, nb := range ms.Mesh.Neighbors[cur] {
			if dist[nb] != -1 {
				continue
			}
			dist[nb] = d + 1
			queue = append(queue, nb)
		}
	}
	for i, d := range dist {
		if d == -1 {
			out[i] = 1
			continue
		}
		out[i] = math.Min(1, float64(d)/width)
	}
	return out
}

// applyParallel partitions [0,n) across GOMAXPROCS workers, matching §5's
// "data-parallel sections ... partitioning the cell id range across worker
// threads" for the Detail stage's per-cell noise evaluation.
func applyParallel(n int, fn func(i int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}

package biomes

import (
	"context"
	"runtime"
	"sync"

	"worldforge/internal/config"
	"worldforge/internal/pipeline"
)

// Stage runs §4.7's biome classification, the last field-writing stage
// before cleanup.
type Stage struct{}

func (Stage) ID() pipeline.StageID { return pipeline.StageBiomes }

func (Stage) Run(ctx context.Context, ms *pipeline.MapSystem, report func(float64)) error {
	cfg, ok := ms.Config.(*config.GenerationConfig)
	if !ok {
		return pipeline.InvariantViolated(pipeline.StageBiomes, "MapSystem.Config is not a *config.GenerationConfig")
	}
	threshold := cfg.Biomes.WetlandFluxThreshold

	coast := coastalCells(ms.Mesh, ms.Cells.IsWater)

	n := ms.Mesh.N()
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = 1
	}
	if workers < 1 {
		workers = 1
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
				var flux uint32
				if cfg.Hydrology.WideFlux {
					flux = ms.Cells.FluxWide[i]
				} else {
					flux = uint32(ms.Cells.Flux[i])
				}
				ms.Cells.Biome[i] = classify(
					ms.Cells.IsWater[i],
					ms.Cells.Temperature[i],
					ms.Cells.Precipitation[i],
					flux,
					coast[i],
					threshold,
				)
			}
		}(start, end)
	}
	wg.Wait()

	select {
	case <-ctx.Done():
		return pipeline.Canceled(pipeline.StageBiomes)
	default:
	}

	report(1.0)
	return nil
}

func init() {
	pipeline.Register(Stage{})
}

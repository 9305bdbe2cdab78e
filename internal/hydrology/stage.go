package hydrology

import (
	"context"

	"worldforge/internal/climate"
	"worldforge/internal/config"
	"worldforge/internal/pipeline"
)

// Stage runs §4.6: flow direction, priority-flood lake filling, flow
// accumulation, and river extraction.
type Stage struct{}

func (Stage) ID() pipeline.StageID { return pipeline.StageHydrology }

func (Stage) Run(ctx context.Context, ms *pipeline.MapSystem, report func(float64)) error {
	cfg, ok := ms.Config.(*config.GenerationConfig)
	if !ok {
		return pipeline.InvariantViolated(pipeline.StageHydrology, "MapSystem.Config is not a *config.GenerationConfig")
	}
	hc := cfg.Hydrology

	n := ms.Mesh.N()
	filled, raised := make([]float64, n), make([]bool, n)
	for i, h := range ms.Cells.Height {
		filled[i] = float64(h)
	}

	if hc.EnableLakes {
		f, r, _ := priorityFlood(ms.Mesh, ms.Cells.Height, ms.Cells.IsWater)
		filled, raised = f, r
		for i, h := range filled {
			if raised[i] {
				ms.Cells.Height[i] = clampU8(h)
			}
		}
		ms.Lakes = extractLakes(ms.Mesh, raised, filled)
		for _, lake := range ms.Lakes {
			for _, c := range lake.Cells {
				ms.Cells.IsWater[c] = true
			}
		}
	}
	report(0.4)

	select {
	case <-ctx.Done():
		return pipeline.Canceled(pipeline.StageHydrology)
	default:
	}

	dir := flowDirection(ms.Mesh, filled, ms.Cells.IsWater)
	// §2 runs Hydrology before Climate, so ms.Cells.Precipitation is still
	// unpopulated here — the §4.6 flux formula needs it regardless, so this
	// derives the same §4.7 precipitation field Climate will later write,
	// rather than reading the zeroed-out MapSystem field.
	precip := climate.Precipitation(ms.Mesh, ms.Cells.Height, ms.Cells.IsWater, cfg.Climate.WindDirectionRadians)
	flux16, flux32 := accumulateFlux(filled, ms.Cells.IsWater, dir, precip, hc.WideFlux)
	if hc.WideFlux {
		ms.Cells.FluxWide = flux32
	} else {
		ms.Cells.Flux = flux16
	}
	report(0.7)

	fluxF := toFloat64Flux(flux16, flux32, hc.WideFlux)
	rivers := extractRivers(dir, fluxF, ms.Cells.IsWater, float64(hc.RiverThreshold))
	ms.Rivers = rivers
	markRiverEdges(ms, rivers)

	report(1.0)
	return nil
}

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func toFloat64Flux(flux16 []uint16, flux32 []uint32, wide bool) []float64 {
	if wide {
		out := make([]float64, len(flux32))
		for i, v := range flux32 {
			out[i] = float64(v)
		}
		return out
	}
	out := make([]float64, len(flux16))
	for i, v := range flux16 {
		out[i] = float64(v)
	}
	return out
}

// markRiverEdges records each river's path as a chain of edge-field entries
// (§3 EdgeFields), so renderers can draw the drainage network without
// re-deriving it from the cell path.
func markRiverEdges(ms *pipeline.MapSystem, rivers []pipeline.River) {
	for _, r := range rivers {
		for k := 0; k+1 < len(r.Cells); k++ {
			id, ok := ms.Edge.ID(int(r.Cells[k]), int(r.Cells[k+1]))
			if !ok {
				continue
			}
			ms.Edges.RiverID[id] = r.ID
			if k < len(r.Widths) {
				ms.Edges.RiverWidth[id] = r.Widths[k]
			}
			ms.Edges.BorderType[id] = uint8(pipeline.BorderRiver)
		}
	}
}

func init() {
	pipeline.Register(Stage{})
}

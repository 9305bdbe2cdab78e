// Package cleanup runs the final pipeline stage: §8's testable invariants
// re-checked over the whole MapSystem before it is handed to a caller, the
// way mad-ca's internal/core.Sim registry lets a terminal "verify" stage
// plug into the same driver loop as every generative stage rather than
// living as a special case the driver hardcodes.
package cleanup

import (
	"context"
	"fmt"

	"worldforge/internal/config"
	"worldforge/internal/pipeline"
)

// Stage re-validates §8's invariants across the finished map and reports
// InvariantViolated on the first breach; it performs no mutation of its
// own beyond this check, since range normalization (§4.2's Normalize
// command) and coastline smoothing (§4.5) already ran in their owning
// stages.
type Stage struct{}

func (Stage) ID() pipeline.StageID { return pipeline.StageCleanup }

func (Stage) Run(ctx context.Context, ms *pipeline.MapSystem, report func(float64)) error {
	cfg, ok := ms.Config.(*config.GenerationConfig)
	if !ok {
		return pipeline.InvariantViolated(pipeline.StageCleanup, "MapSystem.Config is not a *config.GenerationConfig")
	}

	if err := checkMeshSymmetry(ms); err != nil {
		return err
	}
	report(0.25)

	select {
	case <-ctx.Done():
		return pipeline.Canceled(pipeline.StageCleanup)
	default:
	}

	if err := checkFeaturePartition(ms); err != nil {
		return err
	}
	report(0.5)

	if err := checkCleanupThresholds(ms, cfg); err != nil {
		return err
	}
	report(0.75)

	if err := checkFlowMonotonicity(ms); err != nil {
		return err
	}

	report(1.0)
	return nil
}

func init() {
	pipeline.Register(Stage{})
}

// checkMeshSymmetry re-verifies §8.2's neighbor-adjacency symmetry.
func checkMeshSymmetry(ms *pipeline.MapSystem) error {
	neighbors := ms.Mesh.Neighbors
	for i, ns := range neighbors {
		for _, j := range ns {
			if !containsInt(neighbors[j], i) {
				return pipeline.InvariantViolated(pipeline.StageCleanup,
					fmt.Sprintf("neighbor asymmetry: %d lists %d but not vice versa", i, j))
			}
		}
	}
	return nil
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// checkFeaturePartition re-verifies §8.3: every cell has exactly one
// feature and the union of feature cell sets covers every cell.
func checkFeaturePartition(ms *pipeline.MapSystem) error {
	n := ms.Mesh.N()
	covered := make([]bool, n)
	mark := func(cells []uint32) error {
		for _, c := range cells {
			if int(c) >= n {
				return pipeline.InvariantViolated(pipeline.StageCleanup, "feature cell index out of range")
			}
			if covered[c] {
				return pipeline.InvariantViolated(pipeline.StageCleanup, "cell claimed by more than one feature")
			}
			covered[c] = true
		}
		return nil
	}
	for _, l := range ms.Landmasses {
		if err := mark(l.Cells); err != nil {
			return err
		}
	}
	for _, l := range ms.Lakes {
		if err := mark(l.Cells); err != nil {
			return err
		}
	}
	for _, o := range ms.Oceans {
		if err := mark(o.Cells); err != nil {
			return err
		}
	}
	for i, c := range covered {
		if !c {
			return pipeline.InvariantViolated(pipeline.StageCleanup,
				fmt.Sprintf("cell %d belongs to no feature", i))
		}
	}
	return nil
}

// checkCleanupThresholds re-verifies §8.4 against the configured minimums.
func checkCleanupThresholds(ms *pipeline.MapSystem, cfg *config.GenerationConfig) error {
	if !cfg.Features.EnableFeatureCleanup {
		return nil
	}
	for _, l := range ms.Lakes {
		if len(l.Cells) < int(cfg.Features.MinLakeSize) {
			return pipeline.InvariantViolated(pipeline.StageCleanup,
				fmt.Sprintf("lake %d has %d cells, below minLakeSize %d", l.ID, len(l.Cells), cfg.Features.MinLakeSize))
		}
	}
	for _, l := range ms.Landmasses {
		if len(l.Cells) < int(cfg.Features.MinIslandSize) {
			return pipeline.InvariantViolated(pipeline.StageCleanup,
				fmt.Sprintf("landmass %d has %d cells, below minIslandSize %d", l.ID, len(l.Cells), cfg.Features.MinIslandSize))
		}
	}
	return nil
}

// checkFlowMonotonicity re-verifies §8.5: every land cell's height is at
// least its downstream neighbor's (equality only across a filled pit).
func checkFlowMonotonicity(ms *pipeline.MapSystem) error {
	for i, water := range ms.Cells.IsWater {
		if water {
			continue
		}
		down := lowestNeighbor(ms, i)
		if down < 0 {
			continue
		}
		if ms.Cells.Height[down] > ms.Cells.Height[i] {
			return pipeline.InvariantViolated(pipeline.StageCleanup,
				fmt.Sprintf("cell %d's lowest neighbor %d is higher", i, down))
		}
	}
	return nil
}

func lowestNeighbor(ms *pipeline.MapSystem, i int) int {
	best := -1
	for _, nb := range ms.Mesh.Neighbors[i] {
		if best < 0 || ms.Cells.Height[nb] < ms.Cells.Height[best] {
			best = nb
		}
	}
	return best
}

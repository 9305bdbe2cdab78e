package features

import (
	"context"

	"worldforge/internal/config"
	"worldforge/internal/pipeline"
)

// Stage runs §4.5: flood-fill feature labeling, island/lake cleanup, and
// coastline smoothing, writing FeatureID/IsWater/Height and populating
// ms.Landmasses/Lakes/Oceans.
type Stage struct{}

func (Stage) ID() pipeline.StageID { return pipeline.StageFeatures }

func (Stage) Run(ctx context.Context, ms *pipeline.MapSystem, report func(float64)) error {
	cfg, ok := ms.Config.(*config.GenerationConfig)
	if !ok {
		return pipeline.InvariantViolated(pipeline.StageFeatures, "MapSystem.Config is not a *config.GenerationConfig")
	}
	fc := cfg.Features

	result := label(ms.Mesh, ms.Cells.IsWater)
	report(0.3)

	if fc.EnableFeatureCleanup {
		changed := cleanup(ms.Mesh, ms.Cells.IsWater, ms.Cells.Height, result.regions,
			int(fc.MinIslandSize), int(fc.MinLakeSize))
		if changed {
			select {
			case <-ctx.Done():
				return pipeline.Canceled(pipeline.StageFeatures)
			default:
			}
			result = label(ms.Mesh, ms.Cells.IsWater)
		}
	}
	report(0.6)

	if fc.CoastlineSmoothing > 0 {
		smoothCoastline(ms.Mesh, ms.Cells.IsWater, ms.Cells.Height, int(fc.CoastlineSmoothing))
		result = label(ms.Mesh, ms.Cells.IsWater)
	}

	select {
	case <-ctx.Done():
		return pipeline.Canceled(pipeline.StageFeatures)
	default:
	}

	landmasses, lakes, oceans := classify(result.regions, fc.ContinentThreshold)
	ms.Landmasses = landmasses
	ms.Lakes = lakes
	ms.Oceans = oceans
	for i, id := range result.featureID {
		ms.Cells.FeatureID[i] = id
	}

	report(1.0)
	return nil
}

func init() {
	pipeline.Register(Stage{})
}

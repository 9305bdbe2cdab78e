package climate

import (
	"context"

	"worldforge/internal/config"
	"worldforge/internal/pipeline"
)

// Stage runs §4.7's temperature and precipitation fields.
type Stage struct{}

func (Stage) ID() pipeline.StageID { return pipeline.StageClimate }

func (Stage) Run(ctx context.Context, ms *pipeline.MapSystem, report func(float64)) error {
	cfg, ok := ms.Config.(*config.GenerationConfig)
	if !ok {
		return pipeline.InvariantViolated(pipeline.StageClimate, "MapSystem.Config is not a *config.GenerationConfig")
	}
	cc := cfg.Climate

	h := float64(ms.Mesh.Bounds.Height())
	if h == 0 {
		h = 1
	}

	for i, p := range ms.Mesh.Points {
		yFrac := p.Y / h
		ms.Cells.Temperature[i] = temperatureAt(yFrac, ms.Cells.Height[i], cfg.SeaLevel, cc.MaxAltitudeKM)
	}
	report(0.4)

	select {
	case <-ctx.Done():
		return pipeline.Canceled(pipeline.StageClimate)
	default:
	}

	copy(ms.Cells.Precipitation, Precipitation(ms.Mesh, ms.Cells.Height, ms.Cells.IsWater, cc.WindDirectionRadians))

	report(1.0)
	return nil
}

func init() {
	pipeline.Register(Stage{})
}

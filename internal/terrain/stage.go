package terrain

import (
	"context"
	"math"

	"worldforge/internal/config"
	"worldforge/internal/pipeline"
	"worldforge/internal/tectonics"
)

// Stage runs the §4.2/§4.3 elevation step: either the template command
// engine over a fresh height scratch, or (when configured) the plate
// tectonics simulator in internal/tectonics. The two paths finalize
// differently: the template path clamps (§4.2), the plates path
// range-normalizes (§4.3) — see finalizeClamped/finalizeNormalized.
type Stage struct{}

func (Stage) ID() pipeline.StageID { return pipeline.StageElevation }

func (Stage) Run(ctx context.Context, ms *pipeline.MapSystem, report func(float64)) error {
	cfg, ok := ms.Config.(*config.GenerationConfig)
	if !ok {
		return pipeline.InvariantViolated(pipeline.StageElevation, "MapSystem.Config is not a *config.GenerationConfig")
	}

	switch cfg.ElevationMode {
	case config.ElevationPlates:
		h, err := tectonics.Generate(ctx, ms, &cfg.Tectonic, report)
		if err != nil {
			return err
		}
		finalizeNormalized(ms, h, cfg.SeaLevel)
	default:
		cmds, perr := resolveTemplate(cfg)
		if perr != nil {
			return perr
		}
		eng := NewEngine(ms.Mesh, ms.RNG)
		if err := eng.Run(cmds); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return pipeline.Canceled(pipeline.StageElevation)
		default:
		}
		finalizeClamped(ms, eng.Height, cfg.SeaLevel)
		report(1.0)
	}

	return nil
}

// resolveTemplate decides between an inline command string and a named
// built-in (§6 elevation_mode); with neither set it returns InvalidConfig.
func resolveTemplate(cfg *config.GenerationConfig) ([]Command, *pipeline.Error) {
	if cfg.TemplateCommands != "" {
		return Parse(cfg.TemplateCommands)
	}
	if cfg.TemplateName != "" {
		return Named(cfg.TemplateName)
	}
	return nil, pipeline.InvalidConfig("elevationMode", "template mode requires templateName or templateCommands")
}

// finalizeClamped implements §4.2's "clamped at finalization" for the
// template path: the command scratch (Add/Multiply/blob deltas/etc.) is
// clamped to [0,255] and quantized, never range-normalized. SetSeaLevel
// already shifted h to hit its requested land/water ratio at the fixed
// threshold 20 (commands.go's SetSeaLevel.apply); a range-normalize here
// would rescale by the scratch's own min/max and cancel that shift, since
// the stretch is invariant under any uniform shift of the whole array.
func finalizeClamped(ms *pipeline.MapSystem, height []float64, seaLevel uint8) {
	for i, h := range height {
		q := math.Max(0, math.Min(h, 255))
		ms.Cells.Height[i] = uint8(q + 0.5)
		ms.Cells.IsWater[i] = ms.Cells.Height[i] < seaLevel
	}
}

// finalizeNormalized implements §4.3's "range-normalize to [0,255], quantize
// to u8" for the plate-tectonics path only: the iterated uplift/subduction/
// isostatic update has no fixed scale, so it is linearly rescaled to span
// the full range before quantization.
func finalizeNormalized(ms *pipeline.MapSystem, height []float64, seaLevel uint8) {
	lo, hi := height[0], height[0]
	for _, h := range height {
		if h < lo {
			lo = h
		}
		if h > hi {
			hi = h
		}
	}
	span := hi - lo
	for i, h := range height {
		var q float64
		if span == 0 {
			q = 0
		} else {
			q = (h - lo) / span * 255
		}
		q = math.Max(0, math.Min(q, 255))
		ms.Cells.Height[i] = uint8(q + 0.5)
		ms.Cells.IsWater[i] = ms.Cells.Height[i] < seaLevel
	}
}

func init() {
	pipeline.Register(Stage{})
}

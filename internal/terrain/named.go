package terrain

import (
	"fmt"

	"worldforge/internal/pipeline"
)

// named holds the built-in heightmap recipes available by name instead of
// a file path — a supplemented feature (SPEC_FULL.md §D): the original
// tool ships a handful of named presets and this keeps that convenience
// without requiring template files on disk for common shapes.
var named = map[string][]Command{
	"continents": {
		Add{Value: 20},
		Hill{Count: 3, Height: Range2{Lo: 150, Hi: 220}, X: Range2{Lo: 0.2, Hi: 0.8}, Y: Range2{Lo: 0.2, Hi: 0.8}, Radius: Range2{Lo: 0.3, Hi: 0.6}},
		Hill{Count: 8, Height: Range2{Lo: 40, Hi: 90}, X: Range2{Lo: 0, Hi: 1}, Y: Range2{Lo: 0, Hi: 1}, Radius: Range2{Lo: 0.05, Hi: 0.15}},
		MountainRange{Count: 4, Height: Range2{Lo: 80, Hi: 140}, X: Range2{Lo: 0.1, Hi: 0.9}, Y: Range2{Lo: 0.1, Hi: 0.9}, Length: Range2{Lo: 0.2, Hi: 0.4}, Width: Range2{Lo: 0.1, Hi: 0.3}, Angle: Range2{Lo: 0, Hi: 6.28318}},
		Pit{Count: 6, Height: Range2{Lo: 20, Hi: 60}, X: Range2{Lo: 0, Hi: 1}, Y: Range2{Lo: 0, Hi: 1}, Radius: Range2{Lo: 0.05, Hi: 0.1}},
		Smooth{Iterations: 1},
		Normalize{},
		SetSeaLevel{LandFraction: 0.35},
	},
	"archipelago": {
		Add{Value: 10},
		Hill{Count: 24, Height: Range2{Lo: 60, Hi: 130}, X: Range2{Lo: 0, Hi: 1}, Y: Range2{Lo: 0, Hi: 1}, Radius: Range2{Lo: 0.02, Hi: 0.08}},
		Mask{Mode: MaskEdgeFade, Strength: 0.6},
		Smooth{Iterations: 1},
		Normalize{},
		SetSeaLevel{LandFraction: 0.2},
	},
	"pangaea": {
		Add{Value: 60},
		Mask{Mode: MaskCenterBoost, Strength: 0.5},
		Hill{Count: 10, Height: Range2{Lo: 30, Hi: 70}, X: Range2{Lo: 0.15, Hi: 0.85}, Y: Range2{Lo: 0.15, Hi: 0.85}, Radius: Range2{Lo: 0.1, Hi: 0.25}},
		MountainRange{Count: 2, Height: Range2{Lo: 100, Hi: 160}, X: Range2{Lo: 0.2, Hi: 0.8}, Y: Range2{Lo: 0.2, Hi: 0.8}, Length: Range2{Lo: 0.3, Hi: 0.5}, Width: Range2{Lo: 0.2, Hi: 0.4}, Angle: Range2{Lo: 0, Hi: 6.28318}},
		Smooth{Iterations: 2},
		Normalize{},
		SetSeaLevel{LandFraction: 0.55},
	},
}

// Named returns the command list for a built-in template name.
func Named(name string) ([]Command, *pipeline.Error) {
	cmds, ok := named[name]
	if !ok {
		return nil, pipeline.InvalidConfig("templateName", fmt.Sprintf("no built-in template named %q", name))
	}
	return cmds, nil
}

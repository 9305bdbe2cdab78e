package terrain

import (
	"context"
	"math"
	"testing"

	"worldforge/internal/config"
	"worldforge/internal/mesh"
	"worldforge/internal/pipeline"
)

func TestStageTemplateProducesQuantizedHeights(t *testing.T) {
	m := mesh.Build(200, 200, 25, 0.4, 5)
	ms := pipeline.New(m, 5)
	cfg := config.Default()
	cfg.TemplateCommands = "Add 20\nHill 40 20..200 0..1 0..1 0.02..0.1\nNormalize\nSetSeaLevel 30\n"
	ms.Config = &cfg

	stage := Stage{}
	if err := stage.Run(context.Background(), ms, func(float64) {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waterCount := 0
	for i := range ms.Cells.Height {
		if ms.Cells.IsWater[i] {
			waterCount++
		}
	}
	if waterCount == 0 || waterCount == len(ms.Cells.Height) {
		t.Fatalf("expected a mix of land and water, got %d water of %d", waterCount, len(ms.Cells.Height))
	}
}

// TestSetSeaLevelHoldsRequestedLandFraction is the regression test for the
// §4.2 finalization bug: a prior finalize range-normalized the template
// path too, which rescales by the scratch's own min/max and silently
// cancels SetSeaLevel's uniform shift. Hill supplies a non-degenerate
// height distribution (a constant scratch can't expose the bug: every cell
// shifts to the same value and "land fraction" is vacuously either 0 or 1).
func TestSetSeaLevelHoldsRequestedLandFraction(t *testing.T) {
	const wantFraction = 0.3

	m := mesh.Build(300, 300, 15, 0.4, 11)
	ms := pipeline.New(m, 11)
	cfg := config.Default()
	cfg.TemplateCommands = "Hill 40 20..200 0..1 0..1 0.02..0.1\nNormalize\nSetSeaLevel 30\n"
	ms.Config = &cfg

	stage := Stage{}
	if err := stage.Run(context.Background(), ms, func(float64) {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := len(ms.Cells.Height)
	landCount := 0
	for i := range ms.Cells.Height {
		if !ms.Cells.IsWater[i] {
			landCount++
		}
	}
	gotFraction := float64(landCount) / float64(total)

	const tolerance = 0.05
	if diff := math.Abs(gotFraction - wantFraction); diff > tolerance {
		t.Fatalf("SetSeaLevel 30 produced land fraction %.3f, want %.3f (+/- %.2f) — a finalize step that range-normalizes the template path would cancel the shift",
			gotFraction, wantFraction, tolerance)
	}
}

func TestStageMissingConfigIsInvariantViolation(t *testing.T) {
	m := mesh.Build(100, 100, 25, 0.4, 1)
	ms := pipeline.New(m, 1)

	stage := Stage{}
	err := stage.Run(context.Background(), ms, func(float64) {})
	if err == nil {
		t.Fatal("expected an error when ms.Config is unset")
	}
	pe, ok := err.(*pipeline.Error)
	if !ok || pe.Kind != pipeline.KindInvariantViolated {
		t.Fatalf("expected InvariantViolated, got %v", err)
	}
}

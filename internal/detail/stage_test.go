package detail

import (
	"context"
	"testing"

	"worldforge/internal/config"
	"worldforge/internal/mesh"
	"worldforge/internal/pipeline"
)

func TestStageAddsDetailWithoutCrashing(t *testing.T) {
	m := mesh.Build(200, 200, 25, 0.4, 11)
	ms := pipeline.New(m, 11)
	cfg := config.Default()
	ms.Config = &cfg
	for i := range ms.Cells.Height {
		ms.Cells.Height[i] = uint8((i * 37) % 256)
		ms.Cells.IsWater[i] = ms.Cells.Height[i] < cfg.SeaLevel
	}

	stage := Stage{}
	if err := stage.Run(context.Background(), ms, func(float64) {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
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

func TestStageWithHydraulicErosionEnabled(t *testing.T) {
	m := mesh.Build(150, 150, 25, 0.4, 3)
	ms := pipeline.New(m, 3)
	cfg := config.Default()
	cfg.Detail.Erosion.HydraulicEnabled = true
	cfg.Detail.Erosion.Droplets = 100
	ms.Config = &cfg
	for i := range ms.Cells.Height {
		ms.Cells.Height[i] = uint8((i * 53) % 256)
	}

	stage := Stage{}
	if err := stage.Run(context.Background(), ms, func(float64) {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStagePreservesLandFractionFromElevation(t *testing.T) {
	// Regression test: a prior finalization range-normalized this stage's
	// output, rescaling by its own min/max and silently shifting whatever
	// sea level the elevation stage established. With a two-level input
	// height (10 for water cells, 200 for land cells) the land fraction set
	// by the elevation stage must survive the detail pass modulo the small
	// per-cell fBm noise.
	m := mesh.Build(250, 250, 20, 0.4, 9)
	ms := pipeline.New(m, 9)
	cfg := config.Default()
	ms.Config = &cfg

	landCells := 0
	for i := range ms.Cells.Height {
		if i%10 < 3 {
			ms.Cells.Height[i] = 10 // water
		} else {
			ms.Cells.Height[i] = 200 // land
			landCells++
		}
		ms.Cells.IsWater[i] = ms.Cells.Height[i] < cfg.SeaLevel
	}
	wantFraction := float64(landCells) / float64(len(ms.Cells.Height))

	stage := Stage{}
	if err := stage.Run(context.Background(), ms, func(float64) {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := 0
	for i := range ms.Cells.Height {
		if !ms.Cells.IsWater[i] {
			got++
		}
	}
	gotFraction := float64(got) / float64(len(ms.Cells.Height))

	const tolerance = 0.1
	if diff := gotFraction - wantFraction; diff < -tolerance || diff > tolerance {
		t.Fatalf("detail stage shifted land fraction from %.2f to %.2f, want within %.2f", wantFraction, gotFraction, tolerance)
	}
}

func TestBoundaryDistanceFieldWithNoPlatesIsAllOne(t *testing.T) {
	m := mesh.Build(100, 100, 25, 0.4, 4)
	ms := pipeline.New(m, 4)

	dist := boundaryDistanceField(ms)
	for i, d := range dist {
		if d != 1 {
			t.Fatalf("cell %d distance = %v, want 1 with no plate boundaries", i, d)
		}
	}
}

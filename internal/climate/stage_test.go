package climate

import (
	"context"
	"testing"

	"worldforge/internal/config"
	"worldforge/internal/mesh"
	"worldforge/internal/pipeline"
)

func TestStagePopulatesTemperatureAndPrecipitation(t *testing.T) {
	m := mesh.Build(200, 200, 20, 0.4, 4)
	ms := pipeline.New(m, 4)
	cfg := config.Default()
	ms.Config = &cfg
	for i := range ms.Cells.Height {
		ms.Cells.Height[i] = 60
		ms.Cells.IsWater[i] = false
	}
	ms.Cells.IsWater[0] = true

	stage := Stage{}
	if err := stage.Run(context.Background(), ms, func(float64) {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.Cells.Precipitation[0] != 255 {
		t.Fatalf("water cell precipitation = %d, want 255", ms.Cells.Precipitation[0])
	}
	seen := false
	for _, v := range ms.Cells.Temperature {
		if v != 0 {
			seen = true
			break
		}
	}
	if !seen {
		t.Fatal("expected temperature to be populated")
	}
}

func TestStageMissingConfigIsInvariantViolation(t *testing.T) {
	m := mesh.Build(100, 100, 20, 0.4, 1)
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

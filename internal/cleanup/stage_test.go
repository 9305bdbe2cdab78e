package cleanup

import (
	"context"
	"testing"

	"worldforge/internal/config"
	"worldforge/internal/mesh"
	"worldforge/internal/pipeline"
)

func allLandSystem(seed uint64) *pipeline.MapSystem {
	m := mesh.Build(200, 200, 20, 0.4, seed)
	ms := pipeline.New(m, seed)
	n := m.N()
	cells := make([]uint32, n)
	for i := range cells {
		cells[i] = uint32(i)
		ms.Cells.Height[i] = 100
	}
	ms.Landmasses = []pipeline.Landmass{{ID: 1, Cells: cells, IsContinent: true}}
	return ms
}

func TestStagePassesOnWellFormedMap(t *testing.T) {
	ms := allLandSystem(5)
	cfg := config.Default()
	ms.Config = &cfg

	stage := Stage{}
	if err := stage.Run(context.Background(), ms, func(float64) {}); err != nil {
		t.Fatalf("unexpected error on a well-formed map: %v", err)
	}
}

func TestStageCatchesUnpartitionedCells(t *testing.T) {
	ms := allLandSystem(7)
	cfg := config.Default()
	ms.Config = &cfg
	ms.Landmasses[0].Cells = ms.Landmasses[0].Cells[:len(ms.Landmasses[0].Cells)-1]

	stage := Stage{}
	err := stage.Run(context.Background(), ms, func(float64) {})
	if err == nil {
		t.Fatal("expected an error when a cell belongs to no feature")
	}
	pe, ok := err.(*pipeline.Error)
	if !ok || pe.Kind != pipeline.KindInvariantViolated {
		t.Fatalf("expected InvariantViolated, got %v", err)
	}
}

func TestStageCatchesUndersizedLandmass(t *testing.T) {
	ms := allLandSystem(9)
	cfg := config.Default()
	cfg.Features.EnableFeatureCleanup = true
	cfg.Features.MinIslandSize = uint16(len(ms.Landmasses[0].Cells) + 1)
	ms.Config = &cfg

	stage := Stage{}
	err := stage.Run(context.Background(), ms, func(float64) {})
	if err == nil {
		t.Fatal("expected an error when a landmass is below minIslandSize")
	}
	pe, ok := err.(*pipeline.Error)
	if !ok || pe.Kind != pipeline.KindInvariantViolated {
		t.Fatalf("expected InvariantViolated, got %v", err)
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

// Package pipeline holds the shared map state (§3) and the staged driver
// that advances it (§2, §4.8, §5). Concrete stages live in their own
// packages (terrain, detail, features, hydrology, climate, biomes) and
// register themselves here through the Runner registry, the way
// mad-ca's internal/core.Sim registry lets named simulations plug into a
// shared driver without the driver importing every simulation package.
package pipeline

import (
	"worldforge/internal/meshutil"
	"worldforge/internal/mesh"
	"worldforge/internal/rng"
)

// CellFields are the dense, length-N per-cell arrays (§3).
type CellFields struct {
	Height        []uint8
	IsWater       []bool
	Temperature   []int8
	Precipitation []uint8
	Flux          []uint16
	FluxWide      []uint32 // populated instead of Flux when WideFlux is set (§9)
	Biome         []uint16
	Culture       []uint16
	State         []uint16
	Province      []uint16
	Religion      []uint16
	Burg          []uint16
	FeatureID     []uint16
}

func newCellFields(n int) CellFields {
	return CellFields{
		Height:        make([]uint8, n),
		IsWater:       make([]bool, n),
		Temperature:   make([]int8, n),
		Precipitation: make([]uint8, n),
		Flux:          make([]uint16, n),
		FluxWide:      make([]uint32, n),
		Biome:         make([]uint16, n),
		Culture:       make([]uint16, n),
		State:         make([]uint16, n),
		Province:      make([]uint16, n),
		Religion:      make([]uint16, n),
		Burg:          make([]uint16, n),
		FeatureID:     make([]uint16, n),
	}
}

// EdgeFields are dense arrays indexed by Voronoi edge id (§3).
type EdgeFields struct {
	RiverID    []uint16
	RiverWidth []uint8
	BorderType []uint8
}

func newEdgeFields(n int) EdgeFields {
	return EdgeFields{
		RiverID:    make([]uint16, n),
		RiverWidth: make([]uint8, n),
		BorderType: make([]uint8, n),
	}
}

// BorderType enumerates the edge classifications used for coast/river/plate rendering hints.
type BorderType uint8

const (
	BorderNone BorderType = iota
	BorderCoast
	BorderRiver
	BorderLake
	BorderPlate
)

// Landmass is a connected land region (§3).
type Landmass struct {
	ID          uint16
	Cells       []uint32
	IsContinent bool
}

// Lake is a connected water region that does not touch the map boundary.
type Lake struct {
	ID           uint16
	Cells        []uint32
	OutletCell   *uint32
	SurfaceLevel uint8
}

// Ocean is a connected water region touching the map boundary.
type Ocean struct {
	ID    uint16
	Cells []uint32
}

// PlateKind distinguishes continental from oceanic crust (§3).
type PlateKind int

const (
	PlateContinental PlateKind = iota
	PlateOceanic
)

// Plate is a tectonic plate, populated only on the plate-tectonics path (§3).
type Plate struct {
	ID            int
	Kind          PlateKind
	Direction     float64 // radians
	Speed         float64
	Density       float64
	Cells         []uint32
	BoundaryCells []uint32
	Centroid      meshutil.Vec2
}

// BoundaryKind classifies a plate boundary (§3, §4.3).
type BoundaryKind int

const (
	BoundaryConvergent BoundaryKind = iota
	BoundaryDivergent
	BoundaryTransform
)

// PlateBoundary groups the cells along the border between two plates.
type PlateBoundary struct {
	A, B       int
	Kind       BoundaryKind
	Intensity  float64
	Subducting *int // plate id subducting, nil if none (continent-continent)
	Cells      []uint32
}

// River is a traced drainage path from source to mouth (§3, §4.6).
type River struct {
	ID             uint16
	Cells          []uint32 // source -> mouth order
	Source         uint32
	Mouth          uint32
	WidthKM        float64
	Widths         []uint8
	TributaryOf    *uint16 // set if this river joins another
	ConfluenceCell *uint32
}

// MapSystem is the full output bundle (§6 Output): the mesh, the dense
// fields, the feature tables, and the generation-stage marker.
type MapSystem struct {
	Mesh *mesh.Mesh
	Edge *mesh.EdgeIndex

	Cells CellFields
	Edges EdgeFields

	Landmasses      []Landmass
	Lakes           []Lake
	Oceans          []Ocean
	Plates          []Plate
	PlateBoundaries []PlateBoundary
	Rivers          []River

	Stage StageID
	Seed  uint64
	RNG   *rng.Source

	// Config carries the *config.GenerationConfig for the run. It is typed
	// as any so this package never imports internal/config (which itself
	// imports pipeline for the Error type); stages recover their concrete
	// config type with a type assertion.
	Config any
}

// New creates a MapSystem over a freshly built mesh, with all fields
// allocated empty and the stage marker at StageMesh (mesh already built,
// nothing else populated yet).
func New(m *mesh.Mesh, seed uint64) *MapSystem {
	edgeIdx := mesh.BuildEdgeIndex(m)
	return &MapSystem{
		Mesh:  m,
		Edge:  edgeIdx,
		Cells: newCellFields(m.N()),
		Edges: newEdgeFields(edgeIdx.Count()),
		Stage: StageMesh,
		Seed:  seed,
		RNG:   rng.New(seed),
	}
}

// Package config defines the GenerationConfig record (§6) and loads it from
// JSON, falling back to documented defaults the way
// onuse-worldgenerator_go/config/settings.go layers a settings.json file
// over built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"worldforge/internal/pipeline"
)

// ElevationMode selects the elevation stage's algorithm (§4.2 vs §4.3).
type ElevationMode string

const (
	ElevationTemplate ElevationMode = "template"
	ElevationPlates    ElevationMode = "plates"
)

// TectonicConfig parameterizes the plate-tectonics elevation path (§4.3, §6).
type TectonicConfig struct {
	PlateCount          int     `json:"plateCount"`
	ContinentalRatio    float64 `json:"continentalRatio"`
	Iterations          int     `json:"iterations"`
	CollisionUpliftRate float64 `json:"collisionUpliftRate"`
	SubductionDepthRate float64 `json:"subductionDepthRate"`
	RiftDepthRate       float64 `json:"riftDepthRate"`
	IsostaticRate       float64 `json:"isostaticRate"`
	BoundaryWidth       int     `json:"boundaryWidth"`
	NoiseStrength       float64 `json:"noiseStrength"`

	// HotspotCount is a supplemented feature (SPEC_FULL.md §D): the number
	// of intraplate mantle-plume hotspots contributing extra uplift each
	// iteration. Zero disables hotspot volcanism entirely.
	HotspotCount int `json:"hotspotCount"`
}

func DefaultTectonicConfig() TectonicConfig {
	return TectonicConfig{
		PlateCount:          12,
		ContinentalRatio:    0.4,
		Iterations:          150,
		CollisionUpliftRate: 1.0,
		SubductionDepthRate: 1.0,
		RiftDepthRate:       1.0,
		IsostaticRate:       0.1,
		BoundaryWidth:       6,
		NoiseStrength:       0.05,
		HotspotCount:        6,
	}
}

// ErosionConfig parameterizes thermal and hydraulic erosion (§4.4).
type ErosionConfig struct {
	ThermalEnabled bool    `json:"thermalEnabled"`
	ThermalIter    int     `json:"thermalIterations"`
	Talus          float64 `json:"talus"`

	HydraulicEnabled  bool    `json:"hydraulicEnabled"`
	Droplets          int     `json:"droplets"`
	DropletLifetime   int     `json:"dropletLifetime"`
	Inertia           float64 `json:"inertia"`
	Capacity          float64 `json:"capacity"`
	ErosionRate       float64 `json:"erosionRate"`
	Evaporation       float64 `json:"evaporation"`
}

func DefaultErosionConfig() ErosionConfig {
	return ErosionConfig{
		ThermalEnabled:  true,
		ThermalIter:     8,
		Talus:           6,
		HydraulicEnabled: false,
		Droplets:        2000,
		DropletLifetime: 30,
		Inertia:         0.05,
		Capacity:        4.0,
		ErosionRate:     0.3,
		Evaporation:     0.02,
	}
}

// DetailConfig parameterizes the fBm detail stage (§4.4).
type DetailConfig struct {
	MediumNoiseStrength float32        `json:"mediumNoiseStrength"`
	DetailNoiseStrength float32        `json:"detailNoiseStrength"`
	Erosion             *ErosionConfig `json:"erosion,omitempty"`
}

func DefaultDetailConfig() DetailConfig {
	e := DefaultErosionConfig()
	return DetailConfig{
		MediumNoiseStrength: 0.2,
		DetailNoiseStrength: 0.1,
		Erosion:             &e,
	}
}

// FeaturesConfig parameterizes cleanup and coastline smoothing (§4.5).
type FeaturesConfig struct {
	EnableFeatureCleanup bool   `json:"enableFeatureCleanup"`
	MinIslandSize        uint16 `json:"minIslandSize"`
	MinLakeSize          uint16 `json:"minLakeSize"`
	CoastlineSmoothing   uint8  `json:"coastlineSmoothing"`
	ContinentThreshold   int    `json:"continentThreshold"`
}

func DefaultFeaturesConfig() FeaturesConfig {
	return FeaturesConfig{
		EnableFeatureCleanup: true,
		MinIslandSize:        3,
		MinLakeSize:          2,
		CoastlineSmoothing:   1,
		ContinentThreshold:   100,
	}
}

// HydrologyConfig parameterizes flow/river extraction (§4.6).
type HydrologyConfig struct {
	RiverThreshold uint16 `json:"riverThreshold"`
	EnableLakes    bool   `json:"enableLakes"`
	// WideFlux switches the flux accumulator to uint32 instead of the
	// saturating uint16 default (§9 open question).
	WideFlux bool `json:"wideFlux"`
}

func DefaultHydrologyConfig() HydrologyConfig {
	return HydrologyConfig{RiverThreshold: 300, EnableLakes: true}
}

// ClimateConfig parameterizes temperature/precipitation (§4.7).
type ClimateConfig struct {
	WindDirectionRadians float64 `json:"windDirectionRadians"`
	MaxAltitudeKM        float64 `json:"maxAltitudeKm"`
}

func DefaultClimateConfig() ClimateConfig {
	return ClimateConfig{WindDirectionRadians: 0, MaxAltitudeKM: 8.0}
}

// BiomesConfig parameterizes the classification overrides in §4.7.
type BiomesConfig struct {
	WetlandFluxThreshold uint32 `json:"wetlandFluxThreshold"`
}

func DefaultBiomesConfig() BiomesConfig {
	return BiomesConfig{WetlandFluxThreshold: 1000}
}

// GenerationConfig is the single config record fed to the pipeline (§6).
type GenerationConfig struct {
	Seed         uint64  `json:"seed"`
	Width        uint32  `json:"width"`
	Height       uint32  `json:"height"`
	CellSpacing  uint32  `json:"cellSpacing"`
	JitterFrac   float64 `json:"jitterFrac"`
	SeaLevel     uint8   `json:"seaLevel"`

	ElevationMode    ElevationMode  `json:"elevationMode"`
	TemplateName     string         `json:"templateName,omitempty"`
	TemplateCommands string         `json:"templateCommands,omitempty"`
	Tectonic         TectonicConfig `json:"tectonic"`

	Detail     DetailConfig    `json:"detail"`
	Features   FeaturesConfig  `json:"features"`
	Hydrology  HydrologyConfig `json:"hydrology"`
	Climate    ClimateConfig   `json:"climate"`
	Biomes     BiomesConfig    `json:"biomes"`

	StagesEnabled []string `json:"stagesEnabled,omitempty"`
}

// Default returns a complete, valid configuration for a modest map.
func Default() GenerationConfig {
	return GenerationConfig{
		Seed:          1,
		Width:         1000,
		Height:        1000,
		CellSpacing:   20,
		JitterFrac:    0.45,
		SeaLevel:      20,
		ElevationMode: ElevationTemplate,
		TemplateName:  "continents",
		Tectonic:      DefaultTectonicConfig(),
		Detail:        DefaultDetailConfig(),
		Features:      DefaultFeaturesConfig(),
		Hydrology:     DefaultHydrologyConfig(),
		Climate:       DefaultClimateConfig(),
		Biomes:        DefaultBiomesConfig(),
	}
}

// Load reads a GenerationConfig from a JSON file, layering it over Default()
// the way the teacher's loadSettings does: missing file is not an error,
// only a malformed one is.
func Load(path string) (GenerationConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("opening config %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields §7's InvalidConfig kind covers.
func (c GenerationConfig) Validate() *pipeline.Error {
	if c.Width == 0 || c.Height == 0 {
		return pipeline.InvalidConfig("width/height", "map extent must be positive")
	}
	if c.CellSpacing == 0 {
		return pipeline.InvalidConfig("cellSpacing", "must be positive")
	}
	if c.JitterFrac < 0 || c.JitterFrac > 1 {
		return pipeline.InvalidConfig("jitterFrac", "must be within [0,1]")
	}
	switch c.ElevationMode {
	case ElevationTemplate, ElevationPlates:
	default:
		return pipeline.InvalidConfig("elevationMode", "must be \"template\" or \"plates\"")
	}
	if c.ElevationMode == ElevationPlates && c.Tectonic.PlateCount < 2 {
		return pipeline.InvalidConfig("tectonic.plateCount", "must be at least 2")
	}
	if c.Hydrology.RiverThreshold == 0 {
		return pipeline.InvalidConfig("hydrology.riverThreshold", "must be positive")
	}
	return nil
}

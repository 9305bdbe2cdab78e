package tectonics

import (
	"math"
	"math/rand/v2"

	"worldforge/internal/config"
	"worldforge/internal/pipeline"
)

// hotspot is a fixed intraplate mantle plume, the planar re-expression of
// the teacher's volcanism.go/geological_processes.go fixed-position hotspot
// model (originally uplifting sphere vertices within angular distance of a
// plume). This is the supplemented feature SPEC_FULL.md §D adds on top of
// §4.3's named convergent/divergent/transform/isostatic terms; setting
// TectonicConfig.HotspotCount to 0 disables it entirely.
type hotspot struct {
	cell      int
	intensity float64
}

// placeHotspots picks HotspotCount fixed cells once, up front, since real
// hotspots move far slower than plate boundaries over a single run.
func placeHotspots(ms *pipeline.MapSystem, count int, r *rand.Rand) []hotspot {
	if count <= 0 {
		return nil
	}
	n := ms.Mesh.N()
	hotspots := make([]hotspot, 0, count)
	for i := 0; i < count; i++ {
		hotspots = append(hotspots, hotspot{
			cell:      r.IntN(n),
			intensity: 0.5 + r.Float64()*0.5,
		})
	}
	return hotspots
}

// hotspotRadius is the BFS ring radius (in cells) a plume's uplift reaches.
const hotspotRadius = 4

// applyHotspots adds a small additive uplift term within hotspotRadius
// rings of each plume, decaying linearly like the boundary falloff terms.
func applyHotspots(height []float64, ms *pipeline.MapSystem, hotspots []hotspot, cfg *config.TectonicConfig, r *rand.Rand) {
	if len(hotspots) == 0 {
		return
	}
	neighbors := ms.Mesh.Neighbors
	for _, hs := range hotspots {
		dist := map[int]int{hs.cell: 0}
		queue := []int{hs.cell}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			d := dist[cur]
			if d >= hotspotRadius {
				continue
			}
			for _, nb := range neighbors[cur] {
				if _, ok := dist[nb]; ok {
					continue
				}
				dist[nb] = d + 1
				queue = append(queue, nb)
			}
		}
		for cell, d := range dist {
			falloff := 1 - float64(d)/float64(hotspotRadius)
			jitter := 0.9 + r.Float64()*0.2
			height[cell] += hs.intensity * falloff * jitter * math.Max(cfg.NoiseStrength, 0.02) * 10
		}
	}
}

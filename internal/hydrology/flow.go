// Package hydrology implements §4.6: flow direction, priority-flood
// depression filling, flow accumulation, and river tracing.
package hydrology

import (
	"container/heap"
	"sort"

	"worldforge/internal/mesh"
)

// noFlow marks a cell with no downstream neighbor (ocean, or an unfilled pit).
const noFlow = -1

// flowDirection picks, for each land cell, the lowest neighbor that is
// either strictly lower or already water, ties broken by lowest neighbor
// id (§4.6), grounded on hydrology.rs's compute_flow_direction
// (`min_by_key` over height with the same "lower or water" filter).
func flowDirection(m *mesh.Mesh, height []float64, isWater []bool) []int {
	n := len(height)
	dir := make([]int, n)
	for i := range dir {
		dir[i] = noFlow
	}
	for i := 0; i < n; i++ {
		if isWater[i] {
			continue
		}
		best := noFlow
		for _, nb := range m.Neighbors[i] {
			if !(height[nb] < height[i] || isWater[nb]) {
				continue
			}
			if best == noFlow || height[nb] < height[best] || (height[nb] == height[best] && nb < best) {
				best = nb
			}
		}
		dir[i] = best
	}
	return dir
}

type floodItem struct {
	height float64
	id     int
}

type floodHeap []floodItem

func (h floodHeap) Len() int { return len(h) }
func (h floodHeap) Less(a, b int) bool {
	if h[a].height != h[b].height {
		return h[a].height < h[b].height
	}
	return h[a].id < h[b].id
}
func (h floodHeap) Swap(a, b int)      { h[a], h[b] = h[b], h[a] }
func (h *floodHeap) Push(x any)        { *h = append(*h, x.(floodItem)) }
func (h *floodHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// priorityFlood fills depressions per §4.6: seed a min-heap with every
// water or map-boundary cell, then repeatedly pop the lowest fixed cell and
// raise each unfixed land neighbor to at least that height, pushing it in
// turn. raised[i] is true wherever the fill increased a cell's height by
// at least epsilon (1.0),
// which is how lakes without a below-sea-level outlet are identified.
// Grounded on the min-heap frontier idea in
// YoshiDesign-ProceduralGeneration's lake filling, generalized from its
// FIFO frontier to a `container/heap` min-heap keyed (height, id) per §9.
func priorityFlood(m *mesh.Mesh, height []uint8, isWater []bool) (filled []float64, raised []bool, fixedFrom []int) {
	n := len(height)
	filled = make([]float64, n)
	for i, h := range height {
		filled[i] = float64(h)
	}
	fixed := make([]bool, n)
	raised = make([]bool, n)
	fixedFrom = make([]int, n)
	for i := range fixedFrom {
		fixedFrom[i] = noFlow
	}

	pq := &floodHeap{}
	heap.Init(pq)
	for i := 0; i < n; i++ {
		if isWater[i] || m.TouchesBoundary(i) {
			fixed[i] = true
			heap.Push(pq, floodItem{height: filled[i], id: i})
		}
	}

	for pq.Len() > 0 {
		it := heap.Pop(pq).(floodItem)
		u := it.id
		if it.height != filled[u] {
			continue // stale entry from before a later, tighter push
		}
		const epsilon = 1.0
		for _, v := range m.Neighbors[u] {
			if fixed[v] {
				continue
			}
			nh := filled[u]
			if filled[v] > nh {
				nh = filled[v]
			}
			if nh-filled[v] >= epsilon {
				raised[v] = true
			}
			filled[v] = nh
			fixedFrom[v] = u
			fixed[v] = true
			heap.Push(pq, floodItem{height: nh, id: v})
		}
	}
	return filled, raised, fixedFrom
}

// accumulateFlux sweeps land cells in descending height order and
// saturating-adds each cell's flux into its downstream neighbor (§4.6),
// grounded on hydrology.rs's compute_flux (sort-by-height-descending sweep).
func accumulateFlux(height []float64, isWater []bool, dir []int, precipitation []uint8, wide bool) ([]uint16, []uint32) {
	n := len(height)
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !isWater[i] {
			order = append(order, i)
		}
	}
	sortDescByHeight(order, height)

	if wide {
		flux := make([]uint32, n)
		for i := range flux {
			if !isWater[i] {
				p := uint32(1)
				if precipitation != nil && uint32(precipitation[i]) > p {
					p = uint32(precipitation[i])
				}
				flux[i] = p
			}
		}
		for _, i := range order {
			if d := dir[i]; d != noFlow {
				flux[d] = saturatingAddU32(flux[d], flux[i])
			}
		}
		return nil, flux
	}

	flux := make([]uint16, n)
	for i := range flux {
		if !isWater[i] {
			p := uint16(1)
			if precipitation != nil && uint16(precipitation[i]) > p {
				p = uint16(precipitation[i])
			}
			flux[i] = p
		}
	}
	for _, i := range order {
		if d := dir[i]; d != noFlow {
			flux[d] = saturatingAddU16(flux[d], flux[i])
		}
	}
	return flux, nil
}

// sortDescByHeight orders cells by descending height, ties broken by id
// (the slice is built in ascending-id order, and sort.SliceStable
// preserves that among equal heights).
func sortDescByHeight(order []int, height []float64) {
	sort.SliceStable(order, func(a, b int) bool { return height[order[a]] > height[order[b]] })
}

func saturatingAddU16(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	if sum > 0xFFFF {
		return 0xFFFF
	}
	return uint16(sum)
}

func saturatingAddU32(a, b uint32) uint32 {
	sum := uint64(a) + uint64(b)
	if sum > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(sum)
}

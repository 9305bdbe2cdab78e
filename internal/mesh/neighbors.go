package mesh

import "sort"

// buildNeighbors derives the cell adjacency graph from Delaunay edges: two
// sites are neighbors iff some triangle has both as vertices. Adding both
// directions for every edge guarantees §3's invariant
// "j ∈ neighbors(i) ⇔ i ∈ neighbors(j)" by construction.
func buildNeighbors(n int, tris []Triangle) [][]int {
	sets := make([]map[int]struct{}, n)
	for i := range sets {
		sets[i] = make(map[int]struct{})
	}
	add := func(a, b int) {
		sets[a][b] = struct{}{}
		sets[b][a] = struct{}{}
	}
	for _, t := range tris {
		add(t.A, t.B)
		add(t.B, t.C)
		add(t.C, t.A)
	}

	neighbors := make([][]int, n)
	for i, s := range sets {
		ns := make([]int, 0, len(s))
		for j := range s {
			ns = append(ns, j)
		}
		sort.Ints(ns)
		neighbors[i] = ns
	}
	return neighbors
}

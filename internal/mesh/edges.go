package mesh

// EdgeIndex assigns a stable id to each undirected Delaunay edge, so the
// pipeline's edge fields (river id, river width, border type, §3) can be
// dense arrays instead of maps keyed by cell pairs.
type EdgeIndex struct {
	Pairs  [][2]int
	lookup map[[2]int]int
}

// BuildEdgeIndex enumerates every neighbor pair once, in ascending
// (a, b) order with a < b, so the result is deterministic for a given mesh.
func BuildEdgeIndex(m *Mesh) *EdgeIndex {
	idx := &EdgeIndex{lookup: make(map[[2]int]int)}
	for a, ns := range m.Neighbors {
		for _, b := range ns {
			if b <= a {
				continue
			}
			key := [2]int{a, b}
			idx.lookup[key] = len(idx.Pairs)
			idx.Pairs = append(idx.Pairs, key)
		}
	}
	return idx
}

// ID returns the edge id between cells a and b, if they are neighbors.
func (e *EdgeIndex) ID(a, b int) (int, bool) {
	if a > b {
		a, b = b, a
	}
	id, ok := e.lookup[[2]int{a, b}]
	return id, ok
}

// Count returns the number of distinct edges.
func (e *EdgeIndex) Count() int { return len(e.Pairs) }

package features

import "worldforge/internal/mesh"

// touchesMapBoundary reports whether cell i sits on the map's outer
// rectangle, the planar-mesh analogue of the original Rust implementation's
// `border_cells` flag (there supplied by the grid; here derived from the
// mesh, since our sites are jittered rather than laid out on a fixed grid).
func touchesMapBoundary(m *mesh.Mesh, i int) bool {
	return m.TouchesBoundary(i)
}

// Package mesh triangulates simple 2D polygons with holes.
//
// The triangulator never inserts vertices: every output triangle references
// input vertices by their global index (rings are numbered consecutively,
// outer ring first). Callers can therefore map triangles back to the exact
// 3D vertices and edges the rings were projected from.
//
// # Algorithm
//
// Holes are merged into the outer ring through bridge edges (rightmost hole
// vertex joined to a visible outer vertex), then the merged ring is ear
// clipped. Each bridge is traversed twice, once in each direction, so every
// ring edge ends up in exactly one triangle and every diagonal or bridge in
// exactly two.
//
// # Usage
//
//	tr := mesh.NewTriangulator()
//	tris, err := tr.Triangulate([][]geom.UV{outer, hole})
package mesh

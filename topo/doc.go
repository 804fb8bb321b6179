// Package topo implements boundary-representation topology: vertices,
// edges, wires, faces and the containers built from them.
//
// Edges, wires and faces are small handles holding a pointer to a shared
// entity plus an orientation flag. Copying a handle never copies the
// entity, so a single edge can bound two faces (once in each direction)
// and identity is compared with IsSame. Containers (Shell, Solid,
// CompSolid, Compound) are plain pointers.
//
// The builders mirror what a conversion layer needs from a CAD kernel:
//
//   - WireBuilder chains edges, merging vertices within tolerance
//   - Reshape replaces a vertex throughout a wire
//   - MakeFace bounds a surface by closed wires
//   - MakePrism sweeps a face into a solid
//   - Transform maps a shape while keeping shared sub-shapes shared
//   - FindSurface, FixOrientation and FixAddPCurve heal face input
//
// MeshFace and Volume triangulate faces for export and measurement.
package topo

package kernel

import (
	"fmt"
	"math"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/geom"
	"github.com/gogpu/brep/internal/mesh"
	"github.com/gogpu/brep/topo"
)

// TriangulateWires replaces a boundary without a supporting surface by
// planar triangles. wires[0] is the outer boundary, the rest are holes.
//
// Every triangle edge that lies on a boundary reuses the boundary edge,
// and every internal edge is created once and shared by its two
// triangles, so the triangles sew into a manifold patch. Violations of
// that rule are logged and flagged on the faceset helper, if any; the
// triangles are still returned.
func (k *Kernel) TriangulateWires(wires []topo.Wire, opts ...ConvertOption) (faces []topo.Face, err error) {
	c := k.begin(nil, opts)
	defer c.recover(&err)
	return c.triangulate(wires)
}

// uvEdge keys an edge by the parameters of its end points.
type uvEdge [2]geom.UV

func (c *conversion) triangulate(wires []topo.Wire) ([]topo.Face, error) {
	if len(wires) == 0 {
		return nil, fmt.Errorf("triangulate: %w", ErrNoBoundaries)
	}
	pl, ok := c.approximatePlane(wires[0], math.Inf(1))
	if !ok {
		return nil, fmt.Errorf("triangulate: %w", ErrDegenerate)
	}

	var (
		uvs      []geom.UV
		rings    [][]geom.UV
		mapping  = map[geom.UV]*topo.Vertex{}
		existing = map[uvEdge]topo.Edge{}
		created  = map[uvEdge]topo.Edge{}
	)
	insert := func(m map[uvEdge]topo.Edge, k uvEdge, e topo.Edge) {
		if _, ok := m[k]; !ok {
			m[k] = e
		}
	}

	for _, w := range wires {
		var ring []geom.UV
		for _, e := range w.Edges() {
			v := e.FirstVertex()
			uv := pl.Parameters(v.P)
			ring = append(ring, uv)
			if _, ok := mapping[uv]; !ok {
				mapping[uv] = v
			}
			uvs = append(uvs, uv)

			// Triangles refer to boundary edges through their end points.
			uv0, uv1 := uv, pl.Parameters(e.LastVertex().P)
			insert(existing, uvEdge{uv0, uv1}, e)
			insert(existing, uvEdge{uv1, uv0}, e.Reversed())
		}
		rings = append(rings, ring)
	}

	tris, err := mesh.NewTriangulator().Triangulate(rings)
	if err != nil {
		return nil, fmt.Errorf("triangulate: %w: %w", ErrDegenerate, err)
	}

	faces := make([]topo.Face, 0, len(tris))
	for _, tri := range tris {
		edges := make([]topo.Edge, 3)
		var pts [3]brep.Point3
		for j := range 3 {
			a, b := uvs[tri[j]], uvs[tri[(j+1)%3]]
			va, vb := mapping[a], mapping[b]
			if va == nil || vb == nil {
				c.log.Error("internal error: unable to unproject uv-mesh")
				return nil, fmt.Errorf("triangulate: %w", ErrInternal)
			}
			pts[j] = va.P

			key := uvEdge{a, b}
			if e, ok := existing[key]; ok {
				edges[j] = e
			} else if e, ok := created[key]; ok {
				edges[j] = e
			} else {
				// New internal edge: the neighboring triangle picks up
				// its reverse.
				ne := topo.MakeSegmentVertices(va, vb)
				edges[j] = ne
				created[uvEdge{b, a}] = ne.Reversed()
			}
		}

		tpl, ok := geom.NewellPlane(pts[:])
		if !ok {
			tpl = pl
		}
		f, err := topo.MakeFace(tpl, topo.NewWire(edges...))
		if err != nil {
			c.log.Error("internal error: missing face", "err", err)
			return nil, fmt.Errorf("triangulate: %w", ErrInternal)
		}
		faces = append(faces, f)
	}

	c.validateTriangulation(wires, faces)
	return faces, nil
}

// validateTriangulation checks that every boundary edge is used by exactly
// one triangle and every internal edge by exactly two.
func (c *conversion) validateTriangulation(wires []topo.Wire, faces []topo.Face) {
	boundary := map[topo.Edge]bool{}
	for _, w := range wires {
		for _, e := range w.Edges() {
			boundary[e.Forward()] = true
		}
	}

	uses := map[topo.Edge]int{}
	for _, f := range faces {
		for e, n := range topo.EdgeUses(f) {
			uses[e] += n
		}
	}

	for e := range boundary {
		if uses[e] == 0 {
			c.log.Error("internal error, missing edge from triangulation")
			c.nonManifold()
		}
	}
	for e, n := range uses {
		want := 2
		if boundary[e] {
			want = 1
		}
		if n != want {
			c.log.Error("internal error, non-manifold result from triangulation", "uses", n, "want", want)
			c.nonManifold()
		}
	}
}

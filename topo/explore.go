package topo

// Faces returns every face of s in depth-first order.
func Faces(s Shape) []Face {
	var out []Face
	walkFaces(s, func(f Face) { out = append(out, f) })
	return out
}

func walkFaces(s Shape, fn func(Face)) {
	switch sh := s.(type) {
	case Face:
		fn(sh)
	case *Shell:
		for _, f := range sh.faces {
			fn(f)
		}
	case *Solid:
		for _, shell := range sh.shells {
			walkFaces(shell, fn)
		}
	case *CompSolid:
		for _, solid := range sh.solids {
			walkFaces(solid, fn)
		}
	case *Compound:
		for _, c := range sh.children {
			walkFaces(c, fn)
		}
	}
}

// Wires returns every wire of s. Wires that are not bounded by a face
// (a bare Wire or wires inside a Compound) are included.
func Wires(s Shape) []Wire {
	var out []Wire
	walkWires(s, func(w Wire) { out = append(out, w) })
	return out
}

func walkWires(s Shape, fn func(Wire)) {
	switch sh := s.(type) {
	case Wire:
		fn(sh)
	case Face:
		for _, w := range sh.f.wires {
			fn(w)
		}
	case *Compound:
		for _, c := range sh.children {
			walkWires(c, fn)
		}
	default:
		walkFaces(s, func(f Face) { walkWires(f, fn) })
	}
}

func walkEdges(s Shape, fn func(Edge)) {
	switch sh := s.(type) {
	case Edge:
		fn(sh)
	case Wire:
		for _, e := range sh.w.edges {
			fn(e)
		}
	case *Compound:
		for _, c := range sh.children {
			walkEdges(c, fn)
		}
	default:
		walkWires(s, func(w Wire) { walkEdges(w, fn) })
	}
}

// Edges returns the distinct edges of s, each with the orientation of its
// first occurrence.
func Edges(s Shape) []Edge {
	seen := map[*edgeEntity]bool{}
	var out []Edge
	walkEdges(s, func(e Edge) {
		if !seen[e.e] {
			seen[e.e] = true
			out = append(out, e)
		}
	})
	return out
}

// EdgeUses counts how many times every distinct edge of s is referenced
// by a wire. Keys are forward-oriented handles.
func EdgeUses(s Shape) map[Edge]int {
	uses := map[Edge]int{}
	walkEdges(s, func(e Edge) { uses[e.Forward()]++ })
	return uses
}

// Vertices returns the distinct vertices of s.
func Vertices(s Shape) []*Vertex {
	seen := map[*Vertex]bool{}
	var out []*Vertex
	walkEdges(s, func(e Edge) {
		for _, v := range [2]*Vertex{e.e.v0, e.e.v1} {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	})
	return out
}

// Solids returns every solid of s.
func Solids(s Shape) []*Solid {
	switch sh := s.(type) {
	case *Solid:
		return []*Solid{sh}
	case *CompSolid:
		return sh.solids
	case *Compound:
		var out []*Solid
		for _, c := range sh.children {
			out = append(out, Solids(c)...)
		}
		return out
	}
	return nil
}

// Counts summarizes the topology of a shape.
type Counts struct {
	Solids, Faces, Wires, Edges, Vertices int
}

// Count returns the number of distinct sub-shapes of each kind.
func Count(s Shape) Counts {
	faces := map[*faceEntity]bool{}
	for _, f := range Faces(s) {
		faces[f.f] = true
	}
	wires := map[*wireEntity]bool{}
	for _, w := range Wires(s) {
		wires[w.w] = true
	}
	return Counts{
		Solids:   len(Solids(s)),
		Faces:    len(faces),
		Wires:    len(wires),
		Edges:    len(Edges(s)),
		Vertices: len(Vertices(s)),
	}
}

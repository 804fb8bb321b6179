package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/kernel"
)

// WriteSTL writes results as a single ASCII STL solid.
func WriteSTL(w io.Writer, name string, results []kernel.ConversionResult, opts ...Option) error {
	cfg := newConfig(opts)
	objects, err := meshResults(results, cfg.deflection)
	if err != nil {
		return err
	}
	if name == "" {
		name = "brep"
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, o := range objects {
		pts := o.mesh.Points
		for _, t := range o.mesh.Triangles {
			a, b, c := pts[t[0]], pts[t[1]], pts[t[2]]
			n := triangleNormal(a, b, c)
			fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
			bw.WriteString("    outer loop\n")
			for _, p := range [3]brep.Point3{a, b, c} {
				fmt.Fprintf(bw, "      vertex %g %g %g\n", p.X, p.Y, p.Z)
			}
			bw.WriteString("    endloop\n")
			bw.WriteString("  endfacet\n")
		}
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

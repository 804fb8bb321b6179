package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/kernel"
)

// WriteOBJ writes results as a Wavefront OBJ file with one object per
// result. Vertices are not shared between faces.
func WriteOBJ(w io.Writer, results []kernel.ConversionResult, opts ...Option) error {
	cfg := newConfig(opts)
	objects, err := meshResults(results, cfg.deflection)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# brep %s\n", brep.Version)

	base := 1
	for _, o := range objects {
		fmt.Fprintf(bw, "o %s\n", o.name)
		for _, p := range o.mesh.Points {
			fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
		}
		for _, t := range o.mesh.Triangles {
			fmt.Fprintf(bw, "f %d %d %d\n", t[0]+base, t[1]+base, t[2]+base)
		}
		base += len(o.mesh.Points)
	}
	return bw.Flush()
}

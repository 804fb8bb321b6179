package kernel

import (
	"fmt"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/taxonomy"
	"github.com/gogpu/brep/topo"
)

// ConversionResult is one converted top-level item.
type ConversionResult struct {
	// ID is the instance identifier of the source item.
	ID string

	// Placement positions Shape in its parent. Extrusion matrices are
	// already applied to the shape; see WithPlacement.
	Placement brep.Matrix4

	Shape topo.Shape
	Style *taxonomy.Style
}

// Convert converts a top-level item (extrusion, face, shell or loop) and
// appends the result to results. Unexpected internal states abort the
// conversion with ErrInternal instead of panicking; nothing is appended
// on error.
func (k *Kernel) Convert(item taxonomy.Item, results *[]ConversionResult, opts ...ConvertOption) (err error) {
	c := k.begin(item, opts)
	defer c.recover(&err)

	var (
		shape topo.Shape
		style *taxonomy.Style
	)
	switch it := item.(type) {
	case *taxonomy.Extrusion:
		shape, err = c.extrusion(it)
		style = it.Style
	case *taxonomy.Face:
		shape, err = c.face(it)
		style = it.Style
	case *taxonomy.Shell:
		shape, err = c.shell(it)
		style = it.Style
	case *taxonomy.Loop:
		shape, err = c.loop(it)
	default:
		c.log.Error("no conversion for item", "kind", kindOf(item))
		return fmt.Errorf("%w: %s", ErrUnsupported, kindOf(item))
	}
	if err != nil {
		return err
	}

	*results = append(*results, ConversionResult{
		ID:        item.Instance(),
		Placement: c.placement,
		Shape:     shape,
		Style:     style,
	})
	return nil
}

func kindOf(item taxonomy.Item) string {
	if item == nil {
		return "<nil>"
	}
	return item.Kind().String()
}

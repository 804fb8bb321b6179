// Package kernel converts taxonomy items into topological shapes.
//
// The conversion is best effort and never silently drops topology:
//
//   - Loops are joined edge by edge. Gaps below the precision are ignored,
//     gaps up to 1000 times the precision are closed by moving the end
//     point of a straight or circular edge, and larger gaps get an extra
//     straight segment with a warning.
//   - Faces take the outer loop first. Their surface is the face basis,
//     a plane through a polygonal outer loop, or a plane fitted through
//     the sampled loop. Faces without a surface are triangulated into a
//     manifold patch that reuses the boundary edges.
//   - Extrusions sweep the converted profile into a prism and move it by
//     their placement.
//
// Every message is logged with the instance of the item it concerns.
// Conversions are independent; a Kernel can serve concurrent calls.
//
// Example:
//
//	k := kernel.New(kernel.WithPrecision(1e-5))
//	var results []kernel.ConversionResult
//	if err := k.Convert(extrusion, &results); err != nil {
//	    return err
//	}
package kernel

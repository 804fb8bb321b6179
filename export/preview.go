package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/brep/kernel"
)

// previewMargin is the empty border around the drawing, in pixels.
const previewMargin = 16

var (
	background   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	defaultColor = color.RGBA{0x60, 0x70, 0x80, 0xff}
	labelColor   = color.RGBA{0x10, 0x10, 0x10, 0xff}
)

// RenderPreview draws the results as seen from above (+Z looking down)
// and writes the image as PNG. Each result is filled with its style
// color, or a neutral gray, and labeled with its identifier.
func RenderPreview(w io.Writer, results []kernel.ConversionResult, opts ...Option) error {
	img, err := Preview(results, opts...)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Preview returns the plan view image written by RenderPreview.
func Preview(results []kernel.ConversionResult, opts ...Option) (*image.RGBA, error) {
	cfg := newConfig(opts)
	objects, err := meshResults(results, cfg.deflection)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, cfg.width, cfg.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	view, ok := fitView(objects, cfg.width, cfg.height)
	if !ok {
		return img, nil
	}

	for _, o := range objects {
		r := vector.NewRasterizer(cfg.width, cfg.height)
		r.DrawOp = draw.Over
		pts := o.mesh.Points
		for _, t := range o.mesh.Triangles {
			a := view.project(pts[t[0]].X, pts[t[0]].Y)
			b := view.project(pts[t[1]].X, pts[t[1]].Y)
			c := view.project(pts[t[2]].X, pts[t[2]].Y)
			area := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
			if area == 0 {
				continue
			}
			// Overlapping triangles of opposite winding would cancel.
			if area < 0 {
				b, c = c, b
			}
			r.MoveTo(a[0], a[1])
			r.LineTo(b[0], b[1])
			r.LineTo(c[0], c[1])
			r.ClosePath()
		}
		r.Draw(img, img.Bounds(), image.NewUniform(fill(o.result)), image.Point{})
	}

	if cfg.labels {
		for _, o := range objects {
			drawLabel(img, view, o)
		}
	}
	return img, nil
}

// view maps model XY onto pixels, Y up.
type view struct {
	minX, minY float64
	scale      float64
	offX, offY float64
	height     int
}

func fitView(objects []object, width, height int) (view, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, o := range objects {
		for _, p := range o.mesh.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return view{}, false
	}

	w := float64(width - 2*previewMargin)
	h := float64(height - 2*previewMargin)
	dx, dy := maxX-minX, maxY-minY
	scale := math.Inf(1)
	if dx > 0 {
		scale = w / dx
	}
	if dy > 0 {
		scale = math.Min(scale, h/dy)
	}
	if math.IsInf(scale, 1) || w <= 0 || h <= 0 {
		return view{}, false
	}
	return view{
		minX:   minX,
		minY:   minY,
		scale:  scale,
		offX:   previewMargin + (w-dx*scale)/2,
		offY:   previewMargin + (h-dy*scale)/2,
		height: height,
	}, true
}

func (v view) project(x, y float64) [2]float32 {
	px := v.offX + (x-v.minX)*v.scale
	py := float64(v.height) - (v.offY + (y-v.minY)*v.scale)
	return [2]float32{float32(px), float32(py)}
}

func fill(r kernel.ConversionResult) color.Color {
	if r.Style == nil || r.Style.Color == [3]float64{} {
		return defaultColor
	}
	ch := func(f float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, f)) * 0xff))
	}
	alpha := ch(1 - r.Style.Transparency)
	// Premultiplied.
	pre := func(f float64) uint8 { return uint8(uint16(ch(f)) * uint16(alpha) / 0xff) }
	return color.RGBA{pre(r.Style.Color[0]), pre(r.Style.Color[1]), pre(r.Style.Color[2]), alpha}
}

// drawLabel writes the object name centered on its plan view bounds.
func drawLabel(img *image.RGBA, v view, o object) {
	if len(o.mesh.Points) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range o.mesh.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	c := v.project((minX+maxX)/2, (minY+maxY)/2)

	face := basicfont.Face7x13
	width := font.MeasureString(face, o.name)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: face,
	}
	d.Dot = fixed.Point26_6{
		X: fixed.I(int(c[0])) - width/2,
		Y: fixed.I(int(c[1]) + face.Ascent/2),
	}
	d.DrawString(o.name)
}

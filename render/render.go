// Package render rasterizes traced drawings.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"cogentcore.org/core/math32"
	"github.com/mastercactapus/gcodeplot/coord"
	"github.com/mastercactapus/gcodeplot/plot"
	"github.com/pkg/errors"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Debug levels. Each level includes the ones below it.
const (
	DebugNone = iota
	DebugTravel
	DebugArcs
	DebugArrows
)

type Options struct {
	// Scale is pixels per file unit.
	Scale float32
	// Margin around the drawing, in pixels.
	Margin int
	// Stroke width in pixels.
	Stroke float32
	// Grid spacing in file units; 0 disables the grid.
	Grid  float32
	Debug int
}

var DefaultOptions = Options{Scale: 4, Margin: 16, Stroke: 2}

// MaxSize is the largest width or height, in pixels, that Image renders.
const MaxSize = 8192

// maxGridLines caps the grid lines drawn along each axis. Finer grids are
// skipped.
const maxGridLines = 1000

// ErrTooLarge is returned when the rendered image would exceed MaxSize.
var ErrTooLarge = errors.New("image too large")

var (
	inkColor    = color.Black
	gridColor   = color.Gray{Y: 0xe0}
	travelColor = color.Gray{Y: 0xa0}
	arcColor    = color.RGBA{R: 0xd0, A: 0xff}
)

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultOptions.Scale
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.Stroke <= 0 {
		o.Stroke = DefaultOptions.Stroke
	}
	return o
}

func (o Options) validate() error {
	for _, v := range []struct {
		name string
		val  float32
	}{{"scale", o.Scale}, {"stroke", o.Stroke}, {"grid", o.Grid}} {
		if math32.IsNaN(v.val) || math32.IsInf(v.val, 0) {
			return errors.Errorf("%s must be a finite number, got %v", v.name, v.val)
		}
	}
	return nil
}

// PNG renders d and writes it as a PNG image.
func PNG(w io.Writer, d plot.Drawing, opts Options) error {
	img, err := Image(d, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// pixels returns the image extent for a drawing extent of units.
func (o Options) pixels(units float32) (int, error) {
	n := math32.Ceil(units*o.Scale) + 2*float32(o.Margin) + 1
	if !(n <= MaxSize) {
		return 0, errors.Wrapf(ErrTooLarge, "%.0f pixels at scale %g, limit is %d", n, o.Scale, MaxSize)
	}
	return int(n), nil
}

// Image renders d with the Y axis pointing up. The image covers the
// bounds of d plus the margin. Neither side may exceed MaxSize pixels.
func Image(d plot.Drawing, opts Options) (*image.RGBA, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	size := d.Bounds.Size()
	width, err := opts.pixels(size.X)
	if err != nil {
		return nil, err
	}
	height, err := opts.pixels(size.Y)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	if d.Bounds.Empty() {
		return img, nil
	}

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	c := &canvas{
		dasher: rasterx.NewDasher(width, height, scanner),
		min:    d.Bounds.Min,
		scale:  opts.Scale,
		height: float32(height),
		margin: float32(opts.Margin),
	}

	if opts.Grid > 0 {
		c.stroke(gridColor, 1, gridLines(d.Bounds, opts.Grid)...)
	}

	var drawn, travel [][]coord.Point
	for _, p := range d.Paths {
		if p.Drawn {
			drawn = append(drawn, p.Points)
		} else {
			travel = append(travel, p.Points)
		}
	}

	if opts.Debug >= DebugTravel {
		lines := travel
		if opts.Debug >= DebugArrows {
			for _, pts := range travel {
				lines = append(lines, c.arrowHead(pts)...)
			}
		}
		c.stroke(travelColor, math32.Max(1, opts.Stroke/2), lines...)
	}
	c.stroke(inkColor, opts.Stroke, drawn...)

	if opts.Debug >= DebugArcs {
		var lines [][]coord.Point
		for _, a := range d.Arcs {
			lines = append(lines, []coord.Point{a.Start, a.Center, a.End})
			for _, p := range []coord.Point{a.Start, a.Center, a.End} {
				lines = append(lines, c.cross(p)...)
			}
		}
		c.stroke(arcColor, 1, lines...)
	}

	return img, nil
}

type canvas struct {
	dasher *rasterx.Dasher
	min    coord.Point
	scale  float32
	height float32
	margin float32
}

func (c *canvas) px(p coord.Point) fixed.Point26_6 {
	x := (p.X-c.min.X)*c.scale + c.margin
	y := c.height - 1 - c.margin - (p.Y-c.min.Y)*c.scale
	return rasterx.ToFixedP(float64(x), float64(y))
}

// units converts a pixel length into file units.
func (c *canvas) units(px float32) float32 { return px / c.scale }

func (c *canvas) stroke(col color.Color, width float32, lines ...[]coord.Point) {
	if len(lines) == 0 {
		return
	}
	c.dasher.Clear()
	c.dasher.SetStroke(fixed.Int26_6(width*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
	c.dasher.SetColor(col)
	for _, pts := range lines {
		if len(pts) == 0 {
			continue
		}
		started := false
		last := c.px(pts[0])
		for _, p := range pts[1:] {
			next := c.px(p)
			if next == last {
				continue
			}
			if !started {
				c.dasher.Start(last)
				started = true
			}
			c.dasher.Line(next)
			last = next
		}
		if started {
			c.dasher.Stop(false)
		}
	}
	c.dasher.Draw()
}

func (c *canvas) cross(p coord.Point) [][]coord.Point {
	r := c.units(3)
	return [][]coord.Point{
		{p.Add(coord.Pt(-r, -r)), p.Add(coord.Pt(r, r))},
		{p.Add(coord.Pt(-r, r)), p.Add(coord.Pt(r, -r))},
	}
}

// arrowHead returns two short strokes pointing along the last segment of pts.
func (c *canvas) arrowHead(pts []coord.Point) [][]coord.Point {
	if len(pts) < 2 {
		return nil
	}
	end := pts[len(pts)-1]
	back := pts[len(pts)-2].Sub(end)
	l := back.Len()
	if l == 0 {
		return nil
	}
	back = back.Mul(c.units(8) / l)
	return [][]coord.Point{
		{end.Add(back.Rotate(0.4)), end, end.Add(back.Rotate(-0.4))},
	}
}

// gridLines returns the grid lines crossing b, or nil when either axis
// would need more than maxGridLines of them.
func gridLines(b coord.Box, spacing float32) [][]coord.Point {
	xs := gridSteps(b.Min.X, b.Max.X, spacing)
	ys := gridSteps(b.Min.Y, b.Max.Y, spacing)
	if xs == nil || ys == nil {
		return nil
	}
	lines := make([][]coord.Point, 0, len(xs)+len(ys))
	for _, x := range xs {
		lines = append(lines, []coord.Point{coord.Pt(x, b.Min.Y), coord.Pt(x, b.Max.Y)})
	}
	for _, y := range ys {
		lines = append(lines, []coord.Point{coord.Pt(b.Min.X, y), coord.Pt(b.Max.X, y)})
	}
	return lines
}

// gridSteps returns the multiples of spacing in [lo, hi].
func gridSteps(lo, hi, spacing float32) []float32 {
	if !(spacing > 0) || math32.IsInf(spacing, 1) {
		return nil
	}
	s := float64(spacing)
	first := math.Ceil(float64(lo) / s)
	n := math.Floor(float64(hi)/s) - first + 1
	if !(n >= 1 && n <= maxGridLines) {
		return nil
	}
	steps := make([]float32, int(n))
	for i := range steps {
		steps[i] = float32((first + float64(i)) * s)
	}
	return steps
}

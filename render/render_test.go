package render

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/mastercactapus/gcodeplot/coord"
	"github.com/mastercactapus/gcodeplot/gcode"
	"github.com/mastercactapus/gcodeplot/plot"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const square = `G0 X0 Y0
M280 P0 S50
G1 X10 Y0
M280 P0 S0
G0 X10 Y10
`

func trace(t *testing.T, src string) plot.Drawing {
	t.Helper()
	p, err := gcode.Parse(src)
	require.NoError(t, err)
	return plot.Trace(p, plot.Options{})
}

func mustImage(t *testing.T, d plot.Drawing, opts Options) *image.RGBA {
	t.Helper()
	img, err := Image(d, opts)
	require.NoError(t, err)
	return img
}

func red(img image.Image, x, y int) uint32 {
	r, _, _, _ := img.At(x, y).RGBA()
	return r >> 8
}

func TestImage(t *testing.T) {
	d := trace(t, square)
	opts := Options{Scale: 4, Margin: 8, Stroke: 4}

	img := mustImage(t, d, opts)
	assert.Equal(t, image.Rect(0, 0, 57, 57), img.Bounds())

	// drawn segment along y=0, flipped to the bottom of the image
	assert.Less(t, red(img, 28, 47), uint32(0x40))
	// travel is hidden without debug
	assert.Equal(t, uint32(0xff), red(img, 47, 28))
	// corner stays blank
	assert.Equal(t, uint32(0xff), red(img, 2, 2))

	opts.Debug = DebugTravel
	img = mustImage(t, d, opts)
	assert.Less(t, red(img, 47, 28), uint32(0xff))
	assert.Greater(t, red(img, 47, 28), uint32(0x40))
}

func TestImage_Empty(t *testing.T) {
	img := mustImage(t, plot.Drawing{}, Options{Margin: 5})
	assert.Equal(t, image.Rect(0, 0, 11, 11), img.Bounds())
	assert.Equal(t, uint32(0xff), red(img, 5, 5))
}

func TestImage_Arcs(t *testing.T) {
	d := trace(t, "G2 X0 Y10 I0 J5\n")
	img := mustImage(t, d, Options{Scale: 4, Margin: 8, Debug: DebugArcs})

	// construction lines pass through the center at (0,5)
	x, y := 8+20, 57-1-8-20
	r, g, _, _ := img.At(x, y).RGBA()
	assert.Greater(t, r>>8, g>>8)
}

func TestPNG(t *testing.T) {
	d := trace(t, square)
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, d, Options{Grid: 5, Debug: DebugArrows}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, mustImage(t, d, Options{Grid: 5, Debug: DebugArrows}).Bounds(), img.Bounds())
}

func TestImage_TooLarge(t *testing.T) {
	d := trace(t, square)

	_, err := Image(d, Options{Scale: 1e9})
	assert.Equal(t, ErrTooLarge, errors.Cause(err))

	_, err = Image(d, Options{Scale: 1, Margin: MaxSize})
	assert.Equal(t, ErrTooLarge, errors.Cause(err))

	var buf bytes.Buffer
	assert.Error(t, PNG(&buf, d, Options{Scale: 1e9}))
	assert.Zero(t, buf.Len())

	img := mustImage(t, d, Options{Scale: 100})
	assert.Equal(t, image.Rect(0, 0, 1001, 1001), img.Bounds())
}

func TestImage_NotFinite(t *testing.T) {
	d := trace(t, square)
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	for _, opts := range []Options{
		{Scale: nan},
		{Scale: inf},
		{Scale: -inf},
		{Stroke: nan},
		{Grid: inf},
	} {
		_, err := Image(d, opts)
		assert.Error(t, err, "%+v", opts)
	}
}

func TestGridLines(t *testing.T) {
	b := coord.Box{}.Extend(coord.Pt(0, 0), coord.Pt(10, 10))

	lines := gridLines(b, 5)
	require.Len(t, lines, 6)
	assert.Equal(t, []coord.Point{coord.Pt(5, 0), coord.Pt(5, 10)}, lines[1])
	assert.Equal(t, []coord.Point{coord.Pt(0, 10), coord.Pt(10, 10)}, lines[5])

	assert.Nil(t, gridLines(b, 0.001))
	assert.Nil(t, gridLines(b, 0))
	assert.Nil(t, gridLines(b, float32(math.NaN())))
}

func TestGridLines_FarFromOrigin(t *testing.T) {
	d := trace(t, "G0 X1000000 Y1000000\nM280 P0 S50\nG1 X1000001 Y1000001\n")

	done := make(chan [][]coord.Point, 1)
	go func() { done <- gridLines(d.Bounds, 0.01) }()
	select {
	case lines := <-done:
		assert.LessOrEqual(t, len(lines), 2*maxGridLines)
	case <-time.After(5 * time.Second):
		t.Fatal("gridLines did not return")
	}

	big := coord.Box{}.Extend(coord.Pt(0, 0), coord.Pt(1e6, 1e6))
	assert.Nil(t, gridLines(big, 0.01))
}

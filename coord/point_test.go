package coord

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_Add(t *testing.T) {
	a := Point{X: 1, Y: 2}
	b := Point{X: 4, Y: 5}

	assert.Equal(t, Point{X: 5, Y: 7}, a.Add(b))
	assert.Equal(t, Point{X: -3, Y: -3}, a.Sub(b))
}

func TestPoint_DistanceSq(t *testing.T) {
	dist := Point{X: 1, Y: 2}.DistanceSq(Pt(4, 5))
	assert.InDelta(t, 18, dist, 1e-6)
}

func TestPoint_Rotate(t *testing.T) {
	p := Pt(1, 0).Rotate(math.Pi / 2)
	assert.InDelta(t, 0, p.X, 1e-6)
	assert.InDelta(t, 1, p.Y, 1e-6)

	p = Pt(1, 0).Rotate(-math.Pi / 2)
	assert.InDelta(t, 0, p.X, 1e-6)
	assert.InDelta(t, -1, p.Y, 1e-6)
}

func TestPoint_AngleTo(t *testing.T) {
	assert.InDelta(t, math.Pi/2, Pt(1, 0).AngleTo(Pt(0, -3)), 1e-6)
	assert.InDelta(t, math.Pi, Pt(0, -5).AngleTo(Pt(0, 5)), 1e-6)
	assert.InDelta(t, 0, Pt(2, 2).AngleTo(Pt(1, 1)), 1e-3)
	assert.Equal(t, float32(0), Pt(0, 0).AngleTo(Pt(1, 1)))
}

func TestPoint_Cross(t *testing.T) {
	assert.True(t, Pt(1, 0).Cross(Pt(0, 1)) > 0)
	assert.True(t, Pt(1, 0).Cross(Pt(0, -1)) < 0)
}

func TestBox_Extend(t *testing.T) {
	var b Box
	assert.True(t, b.Empty())

	b = b.Extend(Pt(1, 2), Pt(-3, 5), Pt(0, 0))
	assert.False(t, b.Empty())
	assert.Equal(t, Pt(-3, 0), b.Min)
	assert.Equal(t, Pt(1, 5), b.Max)
	assert.Equal(t, Pt(4, 5), b.Size())
}

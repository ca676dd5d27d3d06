// Package arc converts G2/G3 arcs, given as an end point and a center offset
// relative to the start point, into polylines.
package arc

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/mastercactapus/gcodeplot/coord"
)

// DefaultTolerance is the threshold below which squared distances are
// treated as equal.
const DefaultTolerance = 1e-5

// Steps decides how many segments approximate an arc: the radius times
// PerUnit, rounded and clamped to [Min, Max]. Full circles and partial arcs
// get the same count for the same radius.
type Steps struct {
	PerUnit  float32
	Min, Max int
}

// DefaultSteps draws 3.6 segments per unit of radius with at least 18 and at
// most 720 (half a degree per segment on a full circle).
var DefaultSteps = Steps{PerUnit: 3.6, Min: 18, Max: 720}

// Count returns the number of segments for an arc with squared radius r2.
func (s Steps) Count(r2 float32) int {
	n := int(math32.Round(math32.Sqrt(r2) * s.PerUnit))
	if s.Max > 0 && n > s.Max {
		n = s.Max
	}
	if n < s.Min {
		n = s.Min
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Warning reports an arc whose declared center is not equidistant from
// both endpoints. The arc is still drawn around the declared center.
type Warning struct {
	StartRadius float32
	EndRadius   float32
}

func (w Warning) String() string {
	if w.StartRadius == 0 {
		return "arc has no radius, (I,J) is the start point"
	}
	return fmt.Sprintf("(I,J) is not the arc center: radius %g at start, %g at end", w.StartRadius, w.EndRadius)
}

// Resolve approximates an arc with the default step policy.
func Resolve(current coord.Point, clockwise bool, end, offset coord.Point, tolerance float32) ([]coord.Point, *Warning) {
	return DefaultSteps.Resolve(current, clockwise, end, offset, tolerance)
}

// Resolve approximates the arc from current to end around current+offset.
//
// It returns Count+1 points; the first is current and the last is end unless
// a Warning is returned. An end point within tolerance of current draws a
// full circle, always counterclockwise. A zero radius yields only the
// straight segment current, end.
func (s Steps) Resolve(current coord.Point, clockwise bool, end, offset coord.Point, tolerance float32) ([]coord.Point, *Warning) {
	a := offset.Neg()
	r2 := a.Len2()
	center := current.Add(offset)

	if r2 < tolerance {
		var w *Warning
		if current.DistanceSq(end) >= tolerance {
			w = &Warning{StartRadius: 0, EndRadius: end.Sub(center).Len()}
		}
		return []coord.Point{current, end}, w
	}

	dir := float32(1)
	if clockwise {
		dir = -1
	}

	steps := s.Count(r2)
	var step float32
	var w *Warning
	if current.DistanceSq(end) < tolerance {
		step = 2 * math32.Pi / float32(steps)
	} else {
		b := a.Add(end.Sub(current))
		b2 := b.Len2()
		if math32.Abs(r2-b2) > tolerance {
			w = &Warning{StartRadius: math32.Sqrt(r2), EndRadius: math32.Sqrt(b2)}
		}

		angle := a.AngleTo(b)

		// compare directions only, at the start radius; squared distances
		// grow with r2 so the threshold does too
		if b2 > 0 {
			b = b.Mul(math32.Sqrt(r2 / b2))
		}
		if a.Rotate(dir*angle).DistanceSq(b) > tolerance*math32.Max(1, r2) {
			angle = 2*math32.Pi - angle
		}
		step = dir * angle / float32(steps)
	}

	points := make([]coord.Point, steps+1)
	for n := range points {
		points[n] = a.Rotate(float32(n) * step).Add(center)
	}
	return points, w
}

package coord

import (
	"cogentcore.org/core/math32"
)

// Point is a position or offset in the XY plane, in file units.
type Point struct{ X, Y float32 }

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

func (p Point) Equal(b Point) bool {
	return p.X == b.X && p.Y == b.Y
}

// Cross returns the z-component of the 3D cross product.
// Positive when b is counterclockwise from p.
func (p Point) Cross(b Point) float32 {
	return p.X*b.Y - p.Y*b.X
}
func (p Point) Dot(b Point) float32 {
	return p.X*b.X + p.Y*b.Y
}
func (p Point) Mul(val float32) Point {
	p.X *= val
	p.Y *= val
	return p
}
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// Add will add the target values to p.
func (p Point) Add(target Point) Point {
	p.X += target.X
	p.Y += target.Y
	return p
}

// Sub will subtract the target values from p.
func (p Point) Sub(target Point) Point {
	p.X -= target.X
	p.Y -= target.Y
	return p
}

// Len2 is the squared length of p.
func (p Point) Len2() float32 {
	return p.X*p.X + p.Y*p.Y
}
func (p Point) Len() float32 {
	return math32.Sqrt(p.Len2())
}

// DistanceSq will return the squared distance between p and the target.
func (p Point) DistanceSq(target Point) float32 {
	return target.Sub(p).Len2()
}

// Rotate turns p around the origin by theta radians, counterclockwise
// for positive theta.
func (p Point) Rotate(theta float32) Point {
	sin, cos := math32.Sin(theta), math32.Cos(theta)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// AngleTo returns the unsigned angle between p and b in [0, π].
//
// It is 0 if either vector has zero length.
func (p Point) AngleTo(b Point) float32 {
	l := p.Len() * b.Len()
	if l == 0 {
		return 0
	}
	c := p.Dot(b) / l
	return math32.Acos(math32.Max(-1, math32.Min(1, c)))
}

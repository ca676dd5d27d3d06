package coord

import "cogentcore.org/core/math32"

// Box is an axis-aligned bounding box. The zero value is empty.
type Box struct {
	Min, Max Point
	valid    bool
}

func (b Box) Empty() bool { return !b.valid }

// Extend grows b to include all points.
func (b Box) Extend(points ...Point) Box {
	for _, p := range points {
		if !b.valid {
			b = Box{Min: p, Max: p, valid: true}
			continue
		}
		b.Min.X = math32.Min(b.Min.X, p.X)
		b.Min.Y = math32.Min(b.Min.Y, p.Y)
		b.Max.X = math32.Max(b.Max.X, p.X)
		b.Max.Y = math32.Max(b.Max.Y, p.Y)
	}
	return b
}

// Size returns the width and height of b.
func (b Box) Size() Point {
	return b.Max.Sub(b.Min)
}

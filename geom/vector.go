// Package geom provides the vector, rectangle, transform, and segment
// primitives shared by every stage of the rasterization pipeline.
package geom

import "math"

// Vec2 is a 2D vector or point (the two are not distinguished by type,
// following the rest of the pipeline).
type Vec2 struct {
	X, Y float64
}

// Pt is a convenience constructor for Vec2.
func Pt(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v+w.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{v.X + w.X, v.Y + w.Y}
}

// Sub returns v-w.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{v.X - w.X, v.Y - w.Y}
}

// Mul returns v scaled by s.
func (v Vec2) Mul(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{-v.X, -v.Y}
}

// Dot returns the dot product of v and w.
func (v Vec2) Dot(w Vec2) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z-component of the 3D cross product of v and w.
func (v Vec2) Cross(w Vec2) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the Euclidean length of v.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// LengthSquared returns the squared length of v, avoiding a sqrt.
func (v Vec2) LengthSquared() float64 {
	return v.Dot(v)
}

// Normalize returns a unit vector in the direction of v, or the zero
// vector if v is (near) zero length.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l < 1e-10 {
		return Vec2{}
	}
	return v.Mul(1 / l)
}

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Angle returns the angle of v from the positive X axis, in radians.
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Lerp linearly interpolates between v and w at parameter t.
func (v Vec2) Lerp(w Vec2, t float64) Vec2 {
	return Vec2{
		X: v.X + (w.X-v.X)*t,
		Y: v.Y + (w.Y-v.Y)*t,
	}
}

// Distance returns the distance between v and w.
func (v Vec2) Distance(w Vec2) float64 {
	return v.Sub(w).Length()
}

// IsFinite reports whether both components are finite (not NaN or Inf).
// No pipeline stage calls it: coordinates are not checked for NaN or
// Inf on input, and such primitives are not skipped.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

package geom

// Affine is a 2D affine transform stored in row-major form:
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{A: 1, D: 1}
}

// Translation returns a pure translation transform.
func Translation(tx, ty float64) Affine {
	return Affine{A: 1, D: 1, E: tx, F: ty}
}

// Scaling returns a pure scale transform.
func Scaling(sx, sy float64) Affine {
	return Affine{A: sx, D: sy}
}

// IsIdentity reports whether the transform is exactly the identity.
func (m Affine) IsIdentity() bool {
	return m == Identity()
}

// Apply transforms a point by the affine matrix.
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyVector transforms a direction vector (ignores translation).
func (m Affine) ApplyVector(v Vec2) Vec2 {
	return Vec2{
		X: m.A*v.X + m.C*v.Y,
		Y: m.B*v.X + m.D*v.Y,
	}
}

// Multiply returns m * other, i.e. the transform that first applies
// other, then m.
func (m Affine) Multiply(o Affine) Affine {
	return Affine{
		A: m.A*o.A + m.C*o.B,
		B: m.B*o.A + m.D*o.B,
		C: m.A*o.C + m.C*o.D,
		D: m.B*o.C + m.D*o.D,
		E: m.A*o.E + m.C*o.F + m.E,
		F: m.B*o.E + m.D*o.F + m.F,
	}
}

// Determinant returns the determinant of the linear part of m.
func (m Affine) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the inverse of m, or Identity if m is singular.
func (m Affine) Invert() Affine {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}
	inv := 1 / det
	return Affine{
		A: m.D * inv,
		B: -m.B * inv,
		C: -m.C * inv,
		D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}
}

// TransformRect returns the bounding rect of r after transformation by m.
func TransformRect(r Rect, m Affine) Rect {
	if r.IsEmpty() {
		return r
	}
	corners := [4]Vec2{
		{r.MinX, r.MinY}, {r.MaxX, r.MinY}, {r.MinX, r.MaxY}, {r.MaxX, r.MaxY},
	}
	out := EmptyRect()
	for _, c := range corners {
		out = out.UnionPoint(m.Apply(c))
	}
	return out
}

package geom

import "math"

// Rect is an axis-aligned rectangle, stored as two corners rather than
// origin+size so that empty/inverted rects are representable and easy
// to detect.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewRect builds a Rect from two opposite corners, normalizing order.
func NewRect(x0, y0, x1, y1 float64) Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{x0, y0, x1, y1}
}

// EmptyRect returns a rect that contains no points and unions
// identically with anything (MinX/MinY = +Inf, MaxX/MaxY = -Inf).
func EmptyRect() Rect {
	return Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// Width returns the rect's width.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the rect's height.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// IsEmpty reports whether the rect contains no area.
func (r Rect) IsEmpty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// Contains reports whether p lies within the rect (inclusive).
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Intersect returns the intersection of r and o, or EmptyRect if disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.MinX, o.MinX)
	y0 := math.Max(r.MinY, o.MinY)
	x1 := math.Min(r.MaxX, o.MaxX)
	y1 := math.Min(r.MaxY, o.MaxY)
	if x1 <= x0 || y1 <= y0 {
		return EmptyRect()
	}
	return Rect{x0, y0, x1, y1}
}

// Union returns the smallest rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// UnionPoint extends r (if needed) so that it also contains p.
func (r Rect) UnionPoint(p Vec2) Rect {
	return Rect{
		MinX: math.Min(r.MinX, p.X),
		MinY: math.Min(r.MinY, p.Y),
		MaxX: math.Max(r.MaxX, p.X),
		MaxY: math.Max(r.MaxY, p.Y),
	}
}

// RectI is an integer rectangle, used for tile-space bounds.
type RectI struct {
	MinX, MinY, MaxX, MaxY int32
}

// TileBoundsI rounds a float rect out to whole tiles of the given size,
// giving the "rounded-out tile bounds" referenced by the tile-bound
// containment invariant.
func TileBoundsI(r Rect, tileSize int) RectI {
	if r.IsEmpty() {
		return RectI{}
	}
	ts := float64(tileSize)
	return RectI{
		MinX: int32(math.Floor(r.MinX / ts)),
		MinY: int32(math.Floor(r.MinY / ts)),
		MaxX: int32(math.Ceil(r.MaxX / ts)),
		MaxY: int32(math.Ceil(r.MaxY / ts)),
	}
}

// Contains reports whether (x,y) lies within [MinX,MaxX) x [MinY,MaxY).
func (r RectI) Contains(x, y int32) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

// Width returns MaxX-MinX.
func (r RectI) Width() int32 { return r.MaxX - r.MinX }

// Height returns MaxY-MinY.
func (r RectI) Height() int32 { return r.MaxY - r.MinY }

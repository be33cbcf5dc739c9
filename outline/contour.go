// Package outline implements the Path2d builder: it assembles contours
// of on-curve and control points into an Outline, collapsing degenerate
// segments as points are pushed.
package outline

import "github.com/gogpu/rasterkit/geom"

// PointFlag classifies a point within a Contour.
type PointFlag uint8

const (
	// OnCurve marks a point that lies on the curve (an endpoint).
	OnCurve PointFlag = iota
	// Control0 marks the first control point of a quadratic or cubic.
	Control0
	// Control1 marks the second control point of a cubic.
	Control1
)

// Contour is an ordered sequence of points with per-point flags, a
// closed bit, and a cached bounding rect.
//
// Invariant: the first point is always on-curve; Control0 never
// follows Control1; a quadratic run is on,c0,on and a cubic run is
// on,c0,c1,on.
type Contour struct {
	Points []geom.Vec2
	Flags  []PointFlag
	Closed bool

	bounds      geom.Rect
	boundsDirty bool
}

// NewContour returns an empty contour.
func NewContour() *Contour {
	return &Contour{bounds: geom.EmptyRect()}
}

// Len returns the number of points in the contour.
func (c *Contour) Len() int { return len(c.Points) }

// IsEmpty reports whether the contour has no points.
func (c *Contour) IsEmpty() bool { return len(c.Points) == 0 }

func (c *Contour) pushPoint(p geom.Vec2, f PointFlag) {
	c.Points = append(c.Points, p)
	c.Flags = append(c.Flags, f)
	c.boundsDirty = true
}

// MoveTo starts an empty contour with an on-curve point at p. Per the
// invariant, the first point pushed to any contour must be on-curve;
// on a contour that already has points, MoveTo does nothing.
func (c *Contour) MoveTo(p geom.Vec2) {
	if c.IsEmpty() {
		c.pushPoint(p, OnCurve)
	}
}

// LineTo appends a straight segment to p. Degenerate (zero-length)
// segments are collapsed: pushing the same point twice is a no-op, per
// the failure semantics ("zero-area paths ... silently skipped").
func (c *Contour) LineTo(p geom.Vec2) {
	if c.IsEmpty() {
		c.pushPoint(p, OnCurve)
		return
	}
	if c.last() == p {
		return
	}
	c.pushPoint(p, OnCurve)
}

// QuadTo appends a quadratic Bezier through ctrl to p.
func (c *Contour) QuadTo(ctrl, p geom.Vec2) {
	if c.IsEmpty() {
		c.pushPoint(ctrl, OnCurve) // degenerate: no prior anchor
	}
	if c.last() == ctrl && ctrl == p {
		return
	}
	c.pushPoint(ctrl, Control0)
	c.pushPoint(p, OnCurve)
}

// CubicTo appends a cubic Bezier through ctrl0, ctrl1 to p.
func (c *Contour) CubicTo(ctrl0, ctrl1, p geom.Vec2) {
	if c.IsEmpty() {
		c.pushPoint(ctrl0, OnCurve)
	}
	if c.last() == ctrl0 && ctrl0 == ctrl1 && ctrl1 == p {
		return
	}
	c.pushPoint(ctrl0, Control0)
	c.pushPoint(ctrl1, Control1)
	c.pushPoint(p, OnCurve)
}

// Close marks the contour closed, implicitly connecting the last
// on-curve point back to the first.
func (c *Contour) Close() {
	c.Closed = true
}

func (c *Contour) last() geom.Vec2 {
	return c.Points[len(c.Points)-1]
}

// Bounds returns the contour's cached bounding rect, recomputing it if
// points have been added since the last call.
func (c *Contour) Bounds() geom.Rect {
	if c.boundsDirty {
		b := geom.EmptyRect()
		for _, p := range c.Points {
			b = b.UnionPoint(p)
		}
		c.bounds = b
		c.boundsDirty = false
	}
	return c.bounds
}

// Segments returns the contour decomposed into geom.Segment values,
// including the closing segment if Closed is set and the contour does
// not already end back at its start point.
func (c *Contour) Segments() []geom.Segment {
	n := len(c.Points)
	if n < 2 {
		return nil
	}
	var segs []geom.Segment
	start := c.Points[0]
	i := 0
	for i < n-1 {
		from := c.Points[i]
		flag := c.Flags[i+1]
		switch {
		case flag == OnCurve:
			segs = append(segs, geom.Line(from, c.Points[i+1]))
			i++
		case flag == Control0 && i+2 < n && c.Flags[i+2] == Control1:
			segs = append(segs, geom.Cubic(from, c.Points[i+1], c.Points[i+2], c.Points[i+3]))
			i += 3
		default: // Control0 followed by OnCurve: quadratic
			segs = append(segs, geom.Quadratic(from, c.Points[i+1], c.Points[i+2]))
			i += 2
		}
	}
	if c.Closed {
		last := c.Points[n-1]
		if last != start {
			segs = append(segs, geom.Line(last, start))
		}
	}
	return segs
}

package outline

import "github.com/gogpu/rasterkit/geom"

// Outline is an ordered list of contours plus a union bounding rect.
// Contour order is meaningful for winding.
type Outline struct {
	Contours []*Contour

	bounds      geom.Rect
	boundsDirty bool
}

// NewOutline returns an empty outline.
func NewOutline() *Outline {
	return &Outline{bounds: geom.EmptyRect()}
}

// PushContour appends a contour, skipping it entirely if it is
// degenerate (fewer than two points), matching the "zero-area paths
// ... silently skipped" failure semantics.
func (o *Outline) PushContour(c *Contour) {
	if c == nil || c.Len() < 2 {
		return
	}
	o.Contours = append(o.Contours, c)
	o.boundsDirty = true
}

// Bounds returns the union bounding rect of all contours.
func (o *Outline) Bounds() geom.Rect {
	if o.boundsDirty {
		b := geom.EmptyRect()
		for _, c := range o.Contours {
			b = b.Union(c.Bounds())
		}
		o.bounds = b
		o.boundsDirty = false
	}
	return o.bounds
}

// Transform returns a new Outline with every point transformed by m.
func (o *Outline) Transform(m Affine) *Outline {
	out := NewOutline()
	for _, c := range o.Contours {
		nc := NewContour()
		nc.Points = make([]geom.Vec2, len(c.Points))
		nc.Flags = append([]PointFlag(nil), c.Flags...)
		for i, p := range c.Points {
			nc.Points[i] = m.Apply(p)
		}
		nc.Closed = c.Closed
		out.PushContour(nc)
	}
	return out
}

// Affine is a local alias so callers don't need to import geom just to
// call Transform; kept distinct from geom.Affine would be needless
// indirection, so we simply re-export the type.
type Affine = geom.Affine

// IsEmpty reports whether the outline has no contours.
func (o *Outline) IsEmpty() bool {
	return len(o.Contours) == 0
}

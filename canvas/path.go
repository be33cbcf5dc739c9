package canvas

import (
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
)

// Path is the canvas-facing path builder: a sequence of move/line/
// quad/cubic calls accumulating into an outline.Outline, the same
// move-to/line-to/cubic-to/close vocabulary the SVG ingestion surface
// feeds in, and the vocabulary the teacher's own Context exposes
// directly on itself rather than on a separate builder type.
type Path struct {
	outline *outline.Outline
	current *outline.Contour
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{outline: outline.NewOutline()}
}

// MoveTo starts a new subpath at (x, y), first closing off any
// subpath already in progress.
func (p *Path) MoveTo(x, y float64) {
	p.closeCurrent()
	p.current = outline.NewContour()
	p.current.MoveTo(geom.Vec2{X: x, Y: y})
}

// LineTo appends a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) {
	if p.current == nil {
		p.MoveTo(x, y)
		return
	}
	p.current.LineTo(geom.Vec2{X: x, Y: y})
}

// QuadTo appends a quadratic Bezier through (cx, cy) to (x, y).
func (p *Path) QuadTo(cx, cy, x, y float64) {
	if p.current == nil {
		p.MoveTo(cx, cy)
	}
	p.current.QuadTo(geom.Vec2{X: cx, Y: cy}, geom.Vec2{X: x, Y: y})
}

// CubicTo appends a cubic Bezier through (c0x, c0y), (c1x, c1y) to (x, y).
func (p *Path) CubicTo(c0x, c0y, c1x, c1y, x, y float64) {
	if p.current == nil {
		p.MoveTo(c0x, c0y)
	}
	p.current.CubicTo(geom.Vec2{X: c0x, Y: c0y}, geom.Vec2{X: c1x, Y: c1y}, geom.Vec2{X: x, Y: y})
}

// Close closes the current subpath, connecting it back to its start.
func (p *Path) Close() {
	if p.current != nil {
		p.current.Close()
	}
}

// Rect appends a closed rectangular subpath spanning (x, y) to (x+w, y+h).
func (p *Path) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Outline returns the path's accumulated outline, closing off any
// subpath still in progress.
func (p *Path) Outline() *outline.Outline {
	p.closeCurrent()
	return p.outline
}

func (p *Path) closeCurrent() {
	if p.current != nil {
		p.outline.PushContour(p.current)
		p.current = nil
	}
}

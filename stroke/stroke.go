// Package stroke converts a stroked contour into a filled outline
// whose interior, under the even-odd rule, equals the stroke. It
// follows the offset-and-join construction described in spec section
// 4.1: an outer loop offset outward by half the line width, an inner
// loop offset inward and reversed, joined by end caps and corner
// joins.
package stroke

import (
	"math"

	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
)

// LineCap is the shape of a stroke's open endpoints.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin is the shape of a stroke's interior corners.
type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// Style describes how a contour should be stroked.
type Style struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
}

// DefaultStyle returns the conventional stroke defaults.
func DefaultStyle() Style {
	return Style{Width: 1, Cap: CapButt, Join: JoinMiter, MiterLimit: 4}
}

// offsetTolerance is the acceptance window (spec section 4.1) for an
// offset segment's sampled deviation from the ideal parallel curve.
const offsetTolerance = 0.1

// kappa is the standard cubic-Bezier approximation constant for a
// quarter-circle arc (4/3 * tan(pi/8)).
const kappa = 0.5522847498307936

// Expand converts a stroked outline into a filled outline equivalent
// to the stroke under the even-odd rule. Each contour of src is
// expanded independently; zero-radius strokes are skipped per the
// failure semantics in spec section 4.8.
func Expand(src *outline.Outline, style Style) *outline.Outline {
	out := outline.NewOutline()
	if style.Width <= 0 {
		return out
	}
	for _, c := range src.Contours {
		e := &expander{style: style}
		e.run(c)
		if e.forward != nil && !e.forward.IsEmpty() {
			e.finish(c.Closed)
		}
		for _, rc := range e.results {
			out.PushContour(rc)
		}
	}
	return out
}

// expander holds the mutable state of one contour's stroke expansion,
// mirroring the forward/backward offset-loop construction.
type expander struct {
	style   Style
	forward *outline.Contour
	// backward accumulates points in segment order; they are appended to
	// the output in reverse to close the loop on the inner side.
	backward    []geom.Vec2
	backwardCub [][3]geom.Vec2 // parallel cubic control info, nil entry = line
	results     []*outline.Contour

	startPt, lastPt     geom.Vec2
	startTan, lastTan   geom.Vec2
	startNorm, lastNorm geom.Vec2
	joinThresh          float64
	started             bool
}

func (e *expander) run(c *outline.Contour) {
	e.joinThresh = 2 * offsetTolerance / e.style.Width
	segs := c.Segments()
	for i, seg := range segs {
		if seg.IsDegenerate() {
			continue
		}
		if i == 0 {
			e.startPt = seg.From
			e.lastPt = seg.From
		}
		e.processSegment(seg)
	}
}

func (e *expander) processSegment(seg geom.Segment) {
	switch seg.Kind {
	case geom.SegmentLine:
		e.lineTo(seg.To)
	default:
		// Flatten curves to lines at offset tolerance before offsetting;
		// the offset of a flattened chord is within tolerance of the
		// offset of the true curve for sufficiently fine flattening.
		pts := geom.Flatten(nil, seg, offsetTolerance)
		for _, p := range pts {
			e.lineTo(p)
		}
	}
}

func (e *expander) lineTo(p geom.Vec2) {
	if p == e.lastPt {
		return
	}
	tangent := p.Sub(e.lastPt)
	e.join(tangent)
	e.lastTan = tangent
	e.extend(tangent, p)
}

func (e *expander) join(tan0 geom.Vec2) {
	scale := 0.5 * e.style.Width / tan0.Length()
	norm := tan0.Perp().Mul(scale)
	p0 := e.lastPt

	if !e.started {
		e.started = true
		e.forward = outline.NewContour()
		e.forward.MoveTo(p0.Add(norm.Neg()))
		e.backward = []geom.Vec2{p0.Add(norm)}
		e.startTan = tan0
		e.startNorm = norm
		return
	}

	ab, cd := e.lastTan, tan0
	cross := ab.Cross(cd)
	dot := ab.Dot(cd)
	hyp := math.Hypot(cross, dot)

	if dot > 0 && math.Abs(cross) < hyp*e.joinThresh {
		e.forward.LineTo(p0.Add(norm.Neg()))
		e.pushBackward(p0.Add(norm))
		return
	}

	switch e.style.Join {
	case JoinBevel:
		e.forward.LineTo(p0.Add(norm.Neg()))
		e.pushBackward(p0.Add(norm))
	case JoinMiter:
		e.miterJoin(p0, norm, ab, cd, cross, dot, hyp)
	case JoinRound:
		e.roundJoin(p0, norm, cross, dot)
	}
}

func (e *expander) miterJoin(p0, norm, ab, cd geom.Vec2, cross, dot, hyp float64) {
	limitSq := e.style.MiterLimit * e.style.MiterLimit
	// Miter endpoint exceeds miter_limit*width from the join point: fall
	// back to a bevel by simply not emitting the extra miter point.
	if 2*hyp < (hyp+dot)*limitSq {
		lastScale := 0.5 * e.style.Width / ab.Length()
		lastNorm := ab.Perp().Mul(lastScale)
		if cross > 0 {
			fpLast := p0.Add(lastNorm.Neg())
			fpThis := p0.Add(norm.Neg())
			h := ab.Cross(fpThis.Sub(fpLast)) / cross
			e.forward.LineTo(fpThis.Add(cd.Mul(-h)))
			e.pushBackward(p0)
		} else if cross < 0 {
			fpLast := p0.Add(lastNorm)
			fpThis := p0.Add(norm)
			h := ab.Cross(fpThis.Sub(fpLast)) / cross
			e.pushBackward(fpThis.Add(cd.Mul(-h)))
			e.forward.LineTo(p0)
		}
	}
	e.forward.LineTo(p0.Add(norm.Neg()))
	e.pushBackward(p0.Add(norm))
}

func (e *expander) roundJoin(p0, norm geom.Vec2, cross, dot float64) {
	lastScale := 0.5 * e.style.Width / e.lastTan.Length()
	lastNorm := e.lastTan.Perp().Mul(lastScale)
	angle := math.Atan2(cross, dot)
	if angle > 0 {
		e.pushBackward(p0.Add(norm))
		e.arcInto(e.forward, p0, lastNorm.Neg(), angle)
	} else {
		e.forward.LineTo(p0.Add(norm.Neg()))
		e.arcIntoBackward(p0, lastNorm, -angle)
	}
}

func (e *expander) extend(tangent, p1 geom.Vec2) {
	scale := 0.5 * e.style.Width / tangent.Length()
	norm := tangent.Perp().Mul(scale)
	e.forward.LineTo(p1.Add(norm.Neg()))
	e.pushBackward(p1.Add(norm))
	e.lastPt = p1
	e.lastNorm = norm
}

func (e *expander) pushBackward(p geom.Vec2) {
	e.backward = append(e.backward, p)
}

// arcInto appends a round-join/cap arc directly to a forward contour.
func (e *expander) arcInto(dst *outline.Contour, center, norm geom.Vec2, angle float64) {
	for _, seg := range arcSegments(center, norm, angle) {
		dst.CubicTo(seg.Ctrl0, seg.Ctrl1, seg.To)
	}
}

// arcIntoBackward appends a round-join/cap arc to the backward loop,
// which is stored as raw points; the arc is flattened finely enough
// that storing it as points (rather than cubic control data) does not
// perceptibly affect the result.
func (e *expander) arcIntoBackward(center, norm geom.Vec2, angle float64) {
	for _, seg := range arcSegments(center, norm.Neg(), angle) {
		pts := geom.FlattenCubic(nil, seg, offsetTolerance)
		for _, p := range pts {
			e.pushBackward(p)
		}
	}
}

// arcSegments approximates an arc of the given signed angle, starting
// at the direction of norm around center with radius |norm|, as a
// sequence of cubic Bezier segments: one full cubic per 90-degree
// quadrant, with the final partial quadrant using the exact
// cosine-driven approximation (the formula due to DeVeneza) rather
// than a scaled quarter-circle constant.
func arcSegments(center, norm geom.Vec2, angle float64) []geom.Segment {
	if angle == 0 {
		return nil
	}
	sign := 1.0
	if angle < 0 {
		sign = -1.0
	}
	remaining := math.Abs(angle)
	a0 := norm.Angle()
	radius := norm.Length()

	var segs []geom.Segment
	for remaining > 1e-9 {
		step := math.Min(remaining, math.Pi/2)
		a1 := a0 + sign*step
		var seg geom.Segment
		if step >= math.Pi/2-1e-9 {
			seg = quarterArcCubic(center, radius, a0, a1)
		} else {
			seg = exactArcCubic(center, radius, a0, a1)
		}
		segs = append(segs, seg)
		a0 = a1
		remaining -= step
	}
	return segs
}

// quarterArcCubic builds a cubic approximating exactly a 90-degree arc
// using the standard kappa constant.
func quarterArcCubic(center geom.Vec2, radius, a0, a1 float64) geom.Segment {
	cos0, sin0 := math.Cos(a0), math.Sin(a0)
	cos1, sin1 := math.Cos(a1), math.Sin(a1)
	p0 := geom.Vec2{X: center.X + radius*cos0, Y: center.Y + radius*sin0}
	p1 := geom.Vec2{X: center.X + radius*cos1, Y: center.Y + radius*sin1}
	sign := 1.0
	if a1 < a0 {
		sign = -1.0
	}
	c0 := geom.Vec2{X: p0.X - sign*kappa*radius*sin0, Y: p0.Y + sign*kappa*radius*cos0}
	c1 := geom.Vec2{X: p1.X + sign*kappa*radius*sin1, Y: p1.Y - sign*kappa*radius*cos1}
	return geom.Cubic(p0, c0, c1, p1)
}

// exactArcCubic builds a cubic approximating an arbitrary (< 90 degree)
// arc using the exact cosine-driven half-angle formula due to DeVeneza,
// more accurate than scaling the quarter-circle kappa for partial arcs.
func exactArcCubic(center geom.Vec2, radius, a0, a1 float64) geom.Segment {
	da := a1 - a0
	alpha := math.Sin(da) * (math.Sqrt(4+3*math.Pow(math.Tan(da/2), 2)) - 1) / 3
	cos0, sin0 := math.Cos(a0), math.Sin(a0)
	cos1, sin1 := math.Cos(a1), math.Sin(a1)
	p0 := geom.Vec2{X: center.X + radius*cos0, Y: center.Y + radius*sin0}
	p1 := geom.Vec2{X: center.X + radius*cos1, Y: center.Y + radius*sin1}
	c0 := geom.Vec2{X: p0.X - alpha*radius*sin0, Y: p0.Y + alpha*radius*cos0}
	c1 := geom.Vec2{X: p1.X + alpha*radius*sin1, Y: p1.Y - alpha*radius*cos1}
	return geom.Cubic(p0, c0, c1, p1)
}

// finish closes off a contour's stroke outline with end caps (or,
// for a closed source contour, joins back to the start and emits the
// forward and backward loops as two separate closed contours).
func (e *expander) finish(closed bool) {
	if closed {
		e.join(e.startTan)
		e.forward.Close()
		e.results = append(e.results, e.forward)

		back := outline.NewContour()
		if len(e.backward) > 0 {
			back.MoveTo(e.backward[len(e.backward)-1])
			for i := len(e.backward) - 2; i >= 0; i-- {
				back.LineTo(e.backward[i])
			}
			back.Close()
			e.results = append(e.results, back)
		}
		return
	}

	e.applyCap(e.style.Cap, e.lastPt, e.lastNorm.Neg(), false)
	for i := len(e.backward) - 1; i >= 0; i-- {
		e.forward.LineTo(e.backward[i])
	}
	e.applyCap(e.style.Cap, e.startPt, e.startNorm, true)
	e.results = append(e.results, e.forward)
}

func (e *expander) applyCap(cap LineCap, center geom.Vec2, norm geom.Vec2, closing bool) {
	switch cap {
	case CapButt:
		if closing {
			e.forward.Close()
		} else {
			e.forward.LineTo(center.Add(norm.Neg()))
		}
	case CapRound:
		e.arcInto(e.forward, center, norm, math.Pi)
		if closing {
			e.forward.Close()
		}
	case CapSquare:
		p1 := squareTransform(center, norm, geom.Pt(1, 1))
		p2 := squareTransform(center, norm, geom.Pt(-1, 1))
		e.forward.LineTo(p1)
		e.forward.LineTo(p2)
		if closing {
			e.forward.Close()
		} else {
			e.forward.LineTo(squareTransform(center, norm, geom.Pt(-1, 0)))
		}
	}
}

func squareTransform(center, norm, p geom.Vec2) geom.Vec2 {
	return geom.Vec2{
		X: norm.X*p.X - norm.Y*p.Y + center.X,
		Y: norm.Y*p.X + norm.X*p.Y + center.Y,
	}
}

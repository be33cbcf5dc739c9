package geom

import "math"

// Tolerance is the default flattening tolerance in pixels, used when
// subdividing cubic and quadratic curves into line segments or
// sub-curves that meet the deviation bound of spec section 4.1/8.
const Tolerance = 0.1

// SegmentKind identifies the geometric type of a Segment.
type SegmentKind uint8

const (
	// SegmentLine is a straight line from From to To.
	SegmentLine SegmentKind = iota
	// SegmentQuadratic is a quadratic Bezier curve with one control point.
	SegmentQuadratic
	// SegmentCubic is a cubic Bezier curve with two control points.
	SegmentCubic
)

// Segment is a line, quadratic, or cubic Bezier segment. Baseline
// endpoints plus up to two control points, per the data model.
type Segment struct {
	Kind       SegmentKind
	From, To   Vec2
	Ctrl0      Vec2
	Ctrl1      Vec2
}

// Line constructs a line segment.
func Line(from, to Vec2) Segment {
	return Segment{Kind: SegmentLine, From: from, To: to}
}

// Quadratic constructs a quadratic Bezier segment.
func Quadratic(from, ctrl, to Vec2) Segment {
	return Segment{Kind: SegmentQuadratic, From: from, Ctrl0: ctrl, To: to}
}

// Cubic constructs a cubic Bezier segment.
func Cubic(from, ctrl0, ctrl1, to Vec2) Segment {
	return Segment{Kind: SegmentCubic, From: from, Ctrl0: ctrl0, Ctrl1: ctrl1, To: to}
}

// ToCubic promotes a line or quadratic to an equivalent cubic, the way
// the CPU tiler promotes quadratics before tiling (spec section 4.2).
func (s Segment) ToCubic() Segment {
	switch s.Kind {
	case SegmentCubic:
		return s
	case SegmentQuadratic:
		c0 := s.From.Add(s.Ctrl0.Sub(s.From).Mul(2.0 / 3.0))
		c1 := s.To.Add(s.Ctrl0.Sub(s.To).Mul(2.0 / 3.0))
		return Cubic(s.From, c0, c1, s.To)
	default: // line
		c0 := s.From.Lerp(s.To, 1.0/3.0)
		c1 := s.From.Lerp(s.To, 2.0/3.0)
		return Cubic(s.From, c0, c1, s.To)
	}
}

// IsDegenerate reports whether the segment has (near) zero length,
// which the dicing, tiling, and stroking stages all skip silently.
func (s Segment) IsDegenerate() bool {
	return s.From.Distance(s.To) < 1e-9 &&
		(s.Kind == SegmentLine || s.Ctrl0.Distance(s.From) < 1e-9) &&
		(s.Kind != SegmentCubic || s.Ctrl1.Distance(s.From) < 1e-9)
}

// Flatness returns the maximum deviation of the segment's control
// points from the chord, used to decide whether a curve needs further
// subdivision before line-segment processing.
func (s Segment) Flatness() float64 {
	switch s.Kind {
	case SegmentLine:
		return 0
	case SegmentQuadratic:
		return distanceToLine(s.Ctrl0, s.From, s.To)
	default:
		d1 := distanceToLine(s.Ctrl0, s.From, s.To)
		d2 := distanceToLine(s.Ctrl1, s.From, s.To)
		return math.Max(d1, d2)
	}
}

// SplitAt subdivides the segment at parameter t in [0,1] using de
// Casteljau's algorithm, returning the two resulting sub-segments.
func (s Segment) SplitAt(t float64) (Segment, Segment) {
	switch s.Kind {
	case SegmentLine:
		mid := s.From.Lerp(s.To, t)
		return Line(s.From, mid), Line(mid, s.To)
	case SegmentQuadratic:
		q0 := s.From.Lerp(s.Ctrl0, t)
		q1 := s.Ctrl0.Lerp(s.To, t)
		mid := q0.Lerp(q1, t)
		return Quadratic(s.From, q0, mid), Quadratic(mid, q1, s.To)
	default:
		q0 := s.From.Lerp(s.Ctrl0, t)
		q1 := s.Ctrl0.Lerp(s.Ctrl1, t)
		q2 := s.Ctrl1.Lerp(s.To, t)
		r0 := q0.Lerp(q1, t)
		r1 := q1.Lerp(q2, t)
		mid := r0.Lerp(r1, t)
		return Cubic(s.From, q0, r0, mid), Cubic(mid, r1, q2, s.To)
	}
}

// Sample evaluates the segment at parameter t in [0,1].
func (s Segment) Sample(t float64) Vec2 {
	switch s.Kind {
	case SegmentLine:
		return s.From.Lerp(s.To, t)
	case SegmentQuadratic:
		q0 := s.From.Lerp(s.Ctrl0, t)
		q1 := s.Ctrl0.Lerp(s.To, t)
		return q0.Lerp(q1, t)
	default:
		q0 := s.From.Lerp(s.Ctrl0, t)
		q1 := s.Ctrl0.Lerp(s.Ctrl1, t)
		q2 := s.Ctrl1.Lerp(s.To, t)
		r0 := q0.Lerp(q1, t)
		r1 := q1.Lerp(q2, t)
		return r0.Lerp(r1, t)
	}
}

// Transform applies an affine transform to every control point.
func (s Segment) Transform(m Affine) Segment {
	out := s
	out.From = m.Apply(s.From)
	out.To = m.Apply(s.To)
	if s.Kind != SegmentLine {
		out.Ctrl0 = m.Apply(s.Ctrl0)
	}
	if s.Kind == SegmentCubic {
		out.Ctrl1 = m.Apply(s.Ctrl1)
	}
	return out
}

// FlattenCubic recursively subdivides a cubic Bezier into line points,
// appending to dst, stopping once Flatness is within tolerance.
// Mirrors the flattening recursion used throughout the pipeline
// (dicing on the GPU, line-segment tiling on the CPU).
func FlattenCubic(dst []Vec2, c Segment, tolerance float64) []Vec2 {
	if c.Flatness() <= tolerance {
		return append(dst, c.To)
	}
	a, b := c.SplitAt(0.5)
	dst = FlattenCubic(dst, a, tolerance)
	dst = FlattenCubic(dst, b, tolerance)
	return dst
}

// FlattenQuadratic recursively subdivides a quadratic Bezier into line
// points, appending to dst.
func FlattenQuadratic(dst []Vec2, q Segment, tolerance float64) []Vec2 {
	if q.Flatness() <= tolerance {
		return append(dst, q.To)
	}
	a, b := q.SplitAt(0.5)
	dst = FlattenQuadratic(dst, a, tolerance)
	dst = FlattenQuadratic(dst, b, tolerance)
	return dst
}

// Flatten reduces any segment to line points at the given tolerance.
// Quadratics are promoted to cubics per spec section 4.2 before the
// CPU tiler gets them, but flattening itself works on the native kind
// so callers that just need a polyline (e.g. dashing) avoid the promotion.
func Flatten(dst []Vec2, s Segment, tolerance float64) []Vec2 {
	switch s.Kind {
	case SegmentLine:
		return append(dst, s.To)
	case SegmentQuadratic:
		return FlattenQuadratic(dst, s, tolerance)
	default:
		return FlattenCubic(dst, s, tolerance)
	}
}

// Length estimates the arc length of the segment by flattening at
// Tolerance and summing chord lengths.
func (s Segment) Length() float64 {
	if s.Kind == SegmentLine {
		return s.From.Distance(s.To)
	}
	pts := Flatten(make([]Vec2, 0, 8), s, Tolerance)
	total := 0.0
	prev := s.From
	for _, p := range pts {
		total += prev.Distance(p)
		prev = p
	}
	return total
}

func distanceToLine(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	abLen2 := ab.LengthSquared()
	if abLen2 < 1e-20 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / abLen2
	if t < 0 {
		return p.Distance(a)
	}
	if t > 1 {
		return p.Distance(b)
	}
	closest := a.Add(ab.Mul(t))
	return p.Distance(closest)
}

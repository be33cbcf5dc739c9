package stroke

import (
	"math"
	"testing"

	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
)

func straightLine(from, to geom.Vec2) *outline.Outline {
	o := outline.NewOutline()
	c := outline.NewContour()
	c.MoveTo(from)
	c.LineTo(to)
	o.PushContour(c)
	return o
}

// shoelaceArea flattens a contour at geom.Tolerance and computes the
// unsigned area of the resulting polygon via the shoelace formula, used
// to check the stroke-fill duality property from spec section 8.
func shoelaceArea(c *outline.Contour) float64 {
	var pts []geom.Vec2
	for _, s := range c.Segments() {
		if len(pts) == 0 {
			pts = append(pts, s.From)
		}
		pts = geom.Flatten(pts, s, geom.Tolerance)
	}
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}

func TestStrokeFillDualityStraightLine(t *testing.T) {
	const length = 100.0
	const width = 10.0
	src := straightLine(geom.Pt(0, 0), geom.Pt(length, 0))
	style := Style{Width: width, Cap: CapButt, Join: JoinMiter, MiterLimit: 4}

	out := Expand(src, style)
	if len(out.Contours) != 1 {
		t.Fatalf("expected one contour for an open butt-capped line, got %d", len(out.Contours))
	}

	area := shoelaceArea(out.Contours[0])
	want := length * width
	eps := width / 100
	if math.Abs(area-want) > eps {
		t.Fatalf("stroked area = %v, want %v +/- %v", area, want, eps)
	}
}

func TestStrokeZeroWidthSkipped(t *testing.T) {
	src := straightLine(geom.Pt(0, 0), geom.Pt(10, 0))
	out := Expand(src, Style{Width: 0})
	if !out.IsEmpty() {
		t.Fatalf("expected zero-width stroke to produce no contours")
	}
}

func TestStrokeRoundCapAddsArea(t *testing.T) {
	src := straightLine(geom.Pt(0, 0), geom.Pt(50, 0))
	style := Style{Width: 10, Cap: CapRound, Join: JoinRound, MiterLimit: 4}
	out := Expand(src, style)
	if len(out.Contours) == 0 {
		t.Fatalf("expected a contour")
	}
	area := shoelaceArea(out.Contours[0])
	// A round-capped stroke covers the rectangle plus two half-discs of
	// radius width/2, i.e. one full disc of area pi*r^2.
	r := style.Width / 2
	want := 50*style.Width + math.Pi*r*r
	if math.Abs(area-want) > 1.0 {
		t.Fatalf("round-capped area = %v, want ~%v", area, want)
	}
}

func TestMiterFallsBackToBevelBeyondLimit(t *testing.T) {
	o := outline.NewOutline()
	c := outline.NewContour()
	// A very sharp corner: near-reversal should exceed any reasonable
	// miter limit and fall back to a bevel rather than spike outward.
	c.MoveTo(geom.Pt(0, 0))
	c.LineTo(geom.Pt(100, 0))
	c.LineTo(geom.Pt(0, 1))
	o.PushContour(c)

	style := Style{Width: 10, Join: JoinMiter, MiterLimit: 1}
	out := Expand(o, style)
	if len(out.Contours) == 0 {
		t.Fatalf("expected at least one contour")
	}
	b := out.Bounds()
	// With a bevel fallback the outline stays close to the path; an
	// unchecked miter spike would extend the bound far beyond the path's
	// own bounding box.
	pathBounds := o.Bounds()
	margin := style.MiterLimit*style.Width + style.Width
	if b.MaxX > pathBounds.MaxX+margin || b.MinY < pathBounds.MinY-margin {
		t.Fatalf("miter join exceeded expected bevel-fallback bound: %+v", b)
	}
}

func TestArcSegmentsSplitsAtQuadrants(t *testing.T) {
	segs := arcSegments(geom.Pt(0, 0), geom.Pt(1, 0), math.Pi)
	if len(segs) != 2 {
		t.Fatalf("expected a 180-degree arc to split into exactly 2 quadrant cubics, got %d", len(segs))
	}
	for _, s := range segs {
		if s.Kind != geom.SegmentCubic {
			t.Fatalf("expected cubic segments, got %v", s.Kind)
		}
	}
}

func TestArcSegmentsPartialQuadrantUsesExactFormula(t *testing.T) {
	// 45 degrees: a single partial quadrant, must use exactArcCubic.
	segs := arcSegments(geom.Pt(0, 0), geom.Pt(1, 0), math.Pi/4)
	if len(segs) != 1 {
		t.Fatalf("expected one partial-quadrant cubic, got %d", len(segs))
	}
	end := segs[0].To
	wantEnd := geom.Pt(math.Cos(math.Pi/4), math.Sin(math.Pi/4))
	if end.Distance(wantEnd) > 1e-9 {
		t.Fatalf("arc endpoint = %v, want %v", end, wantEnd)
	}
}

package dash

import (
	"testing"

	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
)

func lineOutline(from, to geom.Vec2) *outline.Outline {
	o := outline.NewOutline()
	c := outline.NewContour()
	c.MoveTo(from)
	c.LineTo(to)
	o.PushContour(c)
	return o
}

func TestSolidPatternPassesThrough(t *testing.T) {
	src := lineOutline(geom.Pt(0, 0), geom.Pt(10, 0))
	out := Apply(src, Pattern{})
	if out != src {
		t.Fatalf("expected solid pattern to return src unchanged")
	}
}

func TestDashSplitsIntoRuns(t *testing.T) {
	src := lineOutline(geom.Pt(0, 0), geom.Pt(40, 0))
	out := Apply(src, Pattern{Array: []float64{10, 10}})
	if len(out.Contours) != 2 {
		t.Fatalf("expected 2 dash runs over a 40-unit line with 10/10 pattern, got %d", len(out.Contours))
	}
	for _, c := range out.Contours {
		b := c.Bounds()
		if b.Width() > 10+1e-6 {
			t.Fatalf("dash run too long: width %v", b.Width())
		}
	}
}

func TestDashOffsetShiftsPhase(t *testing.T) {
	src := lineOutline(geom.Pt(0, 0), geom.Pt(20, 0))
	out := Apply(src, Pattern{Array: []float64{10, 10}, Offset: 10})
	// With offset 10, the pattern starts in its "off" gap, so the first
	// on-run should begin at x=10, not x=0.
	if len(out.Contours) == 0 {
		t.Fatalf("expected at least one dash run")
	}
	first := out.Contours[0].Points[0]
	if first.X < 9.999 {
		t.Fatalf("expected first dash run to start near x=10 with offset, got %v", first)
	}
}

func TestNegativeDashTreatedAsSolid(t *testing.T) {
	src := lineOutline(geom.Pt(0, 0), geom.Pt(10, 0))
	out := Apply(src, Pattern{Array: []float64{5, -1}})
	if out != src {
		t.Fatalf("malformed negative dash length should be treated as solid")
	}
}

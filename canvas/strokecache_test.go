package canvas

import (
	"testing"

	"github.com/gogpu/rasterkit/dash"
	"github.com/gogpu/rasterkit/stroke"
)

func straightLine() *Path {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	return p
}

func TestHashStrokeInputStableForIdenticalInput(t *testing.T) {
	style := stroke.DefaultStyle()
	pattern := dash.Pattern{}

	a := hashStrokeInput(straightLine().Outline(), style, pattern)
	b := hashStrokeInput(straightLine().Outline(), style, pattern)

	if a != b {
		t.Errorf("hashStrokeInput differed across equal inputs: %d vs %d", a, b)
	}
}

func TestHashStrokeInputChangesWithWidth(t *testing.T) {
	pattern := dash.Pattern{}
	o := straightLine().Outline()

	a := hashStrokeInput(o, stroke.Style{Width: 1}, pattern)
	b := hashStrokeInput(o, stroke.Style{Width: 2}, pattern)

	if a == b {
		t.Errorf("hashStrokeInput matched for different widths")
	}
}

func TestStrokePathCachesExpandedOutline(t *testing.T) {
	c := NewCanvas(100, 100)
	c.SetLineWidth(4)

	c.StrokePath(straightLine())
	if c.strokes.Len() != 1 {
		t.Fatalf("strokes.Len() after first StrokePath = %d, want 1", c.strokes.Len())
	}

	c.StrokePath(straightLine())
	if c.strokes.Len() != 1 {
		t.Fatalf("strokes.Len() after repeated identical StrokePath = %d, want 1 (cache hit)", c.strokes.Len())
	}
	stats := c.strokes.Stats()
	if stats.Hits == 0 {
		t.Errorf("expected at least one cache hit, got stats %+v", stats)
	}
}

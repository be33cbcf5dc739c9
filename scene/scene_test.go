package scene

import (
	"testing"

	"github.com/gogpu/rasterkit/blend"
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
	"github.com/gogpu/rasterkit/paint"
)

func square(x0, y0, x1, y1 float64) *outline.Outline {
	o := outline.NewOutline()
	c := outline.NewContour()
	c.MoveTo(geom.Pt(x0, y0))
	c.LineTo(geom.Pt(x1, y0))
	c.LineTo(geom.Pt(x1, y1))
	c.LineTo(geom.Pt(x0, y1))
	c.Close()
	o.PushContour(c)
	return o
}

func TestPushDrawPathBatchesConsecutiveDraws(t *testing.T) {
	s := New(geom.NewRect(0, 0, 100, 100))
	id := s.PushPaint(paint.SolidColor(paint.Color{R: 1, A: 1}))
	s.PushDrawPath(DrawPath{Outline: square(0, 0, 10, 10), Paint: id, FillRule: outline.FillNonZero})
	s.PushDrawPath(DrawPath{Outline: square(10, 10, 20, 20), Paint: id, FillRule: outline.FillNonZero})

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected consecutive draws to batch into one item, got %d", len(items))
	}
	if len(items[0].Paths) != 2 {
		t.Fatalf("expected 2 paths in the batch, got %d", len(items[0].Paths))
	}
}

func TestRenderTargetPushPopSplitsBatches(t *testing.T) {
	s := New(geom.NewRect(0, 0, 100, 100))
	id := s.PushPaint(paint.SolidColor(paint.Color{A: 1}))
	s.PushDrawPath(DrawPath{Outline: square(0, 0, 5, 5), Paint: id})
	s.PushRenderTarget(64, 64)
	s.PushDrawPath(DrawPath{Outline: square(0, 0, 5, 5), Paint: id})
	if err := s.PopRenderTarget(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := s.Items()
	if len(items) != 4 {
		t.Fatalf("expected draw, push, draw, pop (4 items), got %d", len(items))
	}
	if items[1].Kind != ItemPushRenderTarget || items[3].Kind != ItemPopRenderTarget {
		t.Fatalf("unexpected item kinds: %+v", items)
	}
}

func TestPopRenderTargetWithoutPushErrors(t *testing.T) {
	s := New(geom.NewRect(0, 0, 10, 10))
	if err := s.PopRenderTarget(); err == nil {
		t.Fatalf("expected an error popping a render target that was never pushed")
	}
}

func TestBuildRejectsUnbalancedRenderTargets(t *testing.T) {
	s := New(geom.NewRect(0, 0, 10, 10))
	s.PushRenderTarget(8, 8)
	if _, err := s.Build(); err == nil {
		t.Fatalf("expected Build to reject a scene with an unpopped render target")
	}
}

func TestAppendSceneRemapsPaintAndClipIDs(t *testing.T) {
	a := New(geom.NewRect(0, 0, 100, 100))
	idA := a.PushPaint(paint.SolidColor(paint.Color{R: 1, A: 1}))
	clipA := a.PushClipPath(square(0, 0, 50, 50), outline.FillNonZero, 0)
	a.PushDrawPath(DrawPath{Outline: square(0, 0, 10, 10), Paint: idA, Clip: clipA, BlendMode: blend.BlendMultiply})

	b := New(geom.NewRect(0, 0, 100, 100))
	idB := b.PushPaint(paint.SolidColor(paint.Color{G: 1, A: 1}))
	b.PushDrawPath(DrawPath{Outline: square(20, 20, 30, 30), Paint: idB})

	beforeEpoch := a.Epoch()
	a.AppendScene(b)
	if a.Epoch() == beforeEpoch {
		t.Fatalf("expected AppendScene to bump the epoch")
	}

	var draws []DrawPath
	for _, item := range a.Items() {
		if item.Kind == ItemDrawPaths {
			draws = append(draws, item.Paths...)
		}
	}
	if len(draws) != 2 {
		t.Fatalf("expected 2 total draw paths after merge, got %d", len(draws))
	}
	merged := draws[1]
	if a.Palette.Get(merged.Paint) != (paint.Paint{Kind: paint.KindColor, Color: paint.Color{G: 1, A: 1}}) {
		t.Fatalf("remapped paint id does not resolve to the source color")
	}
}

func TestDamageTrackerAccumulatesBounds(t *testing.T) {
	s := New(geom.NewRect(0, 0, 100, 100))
	id := s.PushPaint(paint.SolidColor(paint.Color{A: 1}))
	s.PushDrawPath(DrawPath{Outline: square(0, 0, 10, 10), Paint: id})
	s.PushDrawPath(DrawPath{Outline: square(50, 50, 60, 60), Paint: id})

	d := NewDamageTracker()
	d.TrackScene(s)
	b := d.Dirty()
	if b.MinX != 0 || b.MinY != 0 || b.MaxX != 60 || b.MaxY != 60 {
		t.Fatalf("unexpected damage bounds: %+v", b)
	}

	// Calling again with the same scene and epoch must not double count
	// (union with itself is idempotent, but this also exercises the
	// dedup path explicitly).
	d.TrackScene(s)
	if d.Dirty() != b {
		t.Fatalf("re-tracking the same scene should not change the dirty rect")
	}
}

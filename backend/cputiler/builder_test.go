package cputiler

import (
	"testing"

	"github.com/gogpu/rasterkit/outline"
	"github.com/gogpu/rasterkit/paint"
	"github.com/gogpu/rasterkit/scene"
)

func solidPaint(r, g, bl, a float32) paint.Paint {
	return paint.SolidColor(paint.Color{R: r, G: g, B: bl, A: a})
}

func TestBuilderSplitsBatchOnColorChange(t *testing.T) {
	sc := scene.New(viewBox(64, 64))
	red := sc.PushPaint(solidPaint(1, 0, 0, 1))
	blue := sc.PushPaint(solidPaint(0, 0, 1, 1))

	sc.PushDrawPath(scene.DrawPath{Outline: square(0, 0, 16, 16), Paint: red, FillRule: outline.FillNonZero})
	sc.PushDrawPath(scene.DrawPath{Outline: square(16, 0, 32, 16), Paint: red, FillRule: outline.FillNonZero})
	sc.PushDrawPath(scene.DrawPath{Outline: square(32, 0, 48, 16), Paint: blue, FillRule: outline.FillNonZero})

	built, err := sc.Build()
	if err != nil {
		t.Fatal(err)
	}

	batches := NewBuilder(nil).Build(built)
	if len(batches) != 2 {
		t.Fatalf("len(batches) = %d, want 2 (red run then blue run)", len(batches))
	}
	if len(batches[0].Paths) != 2 {
		t.Fatalf("first batch has %d paths, want 2", len(batches[0].Paths))
	}
	if len(batches[1].Paths) != 1 {
		t.Fatalf("second batch has %d paths, want 1", len(batches[1].Paths))
	}
}

func TestBuilderAttachesCurrentRenderTarget(t *testing.T) {
	sc := scene.New(viewBox(64, 64))
	red := sc.PushPaint(solidPaint(1, 0, 0, 1))

	sc.PushDrawPath(scene.DrawPath{Outline: square(0, 0, 16, 16), Paint: red, FillRule: outline.FillNonZero})
	rt := sc.PushRenderTarget(32, 32)
	sc.PushDrawPath(scene.DrawPath{Outline: square(0, 0, 16, 16), Paint: red, FillRule: outline.FillNonZero})
	if err := sc.PopRenderTarget(); err != nil {
		t.Fatal(err)
	}
	sc.PushDrawPath(scene.DrawPath{Outline: square(0, 0, 16, 16), Paint: red, FillRule: outline.FillNonZero})

	built, err := sc.Build()
	if err != nil {
		t.Fatal(err)
	}
	batches := NewBuilder(nil).Build(built)
	if len(batches) != 3 {
		t.Fatalf("len(batches) = %d, want 3", len(batches))
	}
	if batches[0].RenderTarget != 0 {
		t.Fatalf("batch 0 render target = %d, want 0 (framebuffer)", batches[0].RenderTarget)
	}
	if batches[1].RenderTarget != rt {
		t.Fatalf("batch 1 render target = %d, want %d", batches[1].RenderTarget, rt)
	}
	if batches[2].RenderTarget != 0 {
		t.Fatalf("batch 2 render target = %d, want 0 after pop", batches[2].RenderTarget)
	}
}

func TestBuilderEmptySceneProducesNoBatches(t *testing.T) {
	sc := scene.New(viewBox(64, 64))
	built, err := sc.Build()
	if err != nil {
		t.Fatal(err)
	}
	if got := NewBuilder(nil).Build(built); len(got) != 0 {
		t.Fatalf("expected 0 batches for an empty scene, got %d", len(got))
	}
}

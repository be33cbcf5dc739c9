package cputiler

import (
	"github.com/gogpu/rasterkit/blend"
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/internal/parallel"
	"github.com/gogpu/rasterkit/scene"
)

// TileBatch is one contiguous run of built paths sharing a render
// target and a single color texture, the unit backend A's fill/tile
// passes consume one at a time.
type TileBatch struct {
	RenderTarget scene.RenderTargetID // 0 means the frame's own framebuffer
	Paths        []*BuiltPath
}

// Builder converts a finished Scene into an ordered list of TileBatch
// values: it walks the scene's display items, running the CPU tiler in
// parallel across each DrawPaths item's path range and splitting a new
// batch whenever the color texture backing consecutive paths changes.
type Builder struct {
	pool *parallel.WorkerPool
}

// NewBuilder returns a Builder that tiles paths using pool. A nil pool
// runs every path on the calling goroutine.
func NewBuilder(pool *parallel.WorkerPool) *Builder {
	return &Builder{pool: pool}
}

// Build walks sc's display items in order and returns the resulting
// tile batches. PushRenderTarget/PopRenderTarget items update which
// RenderTargetID later batches are attached to; a DrawPaths item
// becomes one or more batches, split wherever the color texture used
// by the scene's paint palette changes between consecutive paths.
func (b *Builder) Build(sc *scene.Scene) []TileBatch {
	var (
		batches []TileBatch
		rtStack []scene.RenderTargetID
	)
	currentRT := func() scene.RenderTargetID {
		if len(rtStack) == 0 {
			return 0
		}
		return rtStack[len(rtStack)-1]
	}

	for _, item := range sc.Items() {
		switch item.Kind {
		case scene.ItemPushRenderTarget:
			rtStack = append(rtStack, item.RenderTarget.ID)
		case scene.ItemPopRenderTarget:
			if len(rtStack) > 0 {
				rtStack = rtStack[:len(rtStack)-1]
			}
		case scene.ItemDrawPaths:
			batches = append(batches, b.buildDrawPaths(sc, item.Paths, currentRT())...)
		}
	}
	return batches
}

func (b *Builder) buildDrawPaths(sc *scene.Scene, paths []scene.DrawPath, rt scene.RenderTargetID) []TileBatch {
	if len(paths) == 0 {
		return nil
	}

	var batches []TileBatch
	start := 0
	key := paths[0].Paint
	for i := 1; i <= len(paths); i++ {
		atEnd := i == len(paths)
		if atEnd || paths[i].Paint != key {
			batches = append(batches, b.buildRun(sc.ViewBox, paths[start:i], rt))
			if !atEnd {
				start = i
				key = paths[i].Paint
			}
		}
	}
	return batches
}

func (b *Builder) buildRun(viewBox geom.Rect, run []scene.DrawPath, rt scene.RenderTargetID) TileBatch {
	inputs := make([]PathInput, len(run))
	for i, p := range run {
		inputs[i] = PathInput{
			PathID:       uint32(i),
			Outline:      p.Outline,
			FillRule:     p.FillRule,
			Paint:        p.Paint,
			Ctrl:         blend.EncodeCtrl(p.BlendMode, false, false),
			ZOrder:       int32(i),
			ShadowColor:  p.ShadowColor,
			ShadowBlur:   p.ShadowBlur,
			ShadowOffset: p.ShadowOffset,
		}
	}
	return TileBatch{RenderTarget: rt, Paths: BuildAll(inputs, viewBox, b.pool)}
}

package cputiler

import (
	"github.com/gogpu/rasterkit/blend"
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/internal/parallel"
	"github.com/gogpu/rasterkit/outline"
	"github.com/gogpu/rasterkit/paint"
)

// PathInput is one path to tile, as handed to BuildAll by a scene
// builder: an outline plus the paint/ordering state that goes along
// with it but never affects tiling math itself.
type PathInput struct {
	PathID   uint32
	Outline  *outline.Outline
	FillRule outline.FillRule
	Paint    paint.PaintID
	Ctrl     blend.Ctrl
	ZOrder   int32

	// ShadowColor, ShadowBlur, and ShadowOffset describe an optional
	// drop shadow, copied onto the resulting BuiltPath untouched by
	// tiling. ShadowColor.A == 0 means no shadow.
	ShadowColor  paint.Color
	ShadowBlur   float64
	ShadowOffset geom.Vec2
}

// BuildAll tiles every path in inputs, using pool to tile independent
// paths concurrently. Each path only ever touches its own BuiltPath, so
// no locking is needed between workers; results are returned in the
// same order as inputs regardless of completion order.
//
// A nil pool runs every path on the calling goroutine, which is useful
// for tests and for scenes small enough that spinning up workers would
// cost more than it saves.
func BuildAll(inputs []PathInput, viewBox geom.Rect, pool *parallel.WorkerPool) []*BuiltPath {
	results := make([]*BuiltPath, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	build := func(i int) {
		in := inputs[i]
		bp := Build(in.PathID, in.Outline, in.FillRule, in.Paint, in.Ctrl, in.ZOrder, viewBox)
		bp.ShadowColor = in.ShadowColor
		bp.ShadowBlur = in.ShadowBlur
		bp.ShadowOffset = in.ShadowOffset
		results[i] = bp
	}

	if pool == nil {
		for i := range inputs {
			build(i)
		}
		return results
	}

	work := make([]func(), len(inputs))
	for i := range inputs {
		i := i
		work[i] = func() { build(i) }
	}
	pool.ExecuteAll(work)
	return results
}

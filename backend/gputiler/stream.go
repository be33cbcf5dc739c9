package gputiler

import (
	"github.com/gogpu/rasterkit/blend"
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
	"github.com/gogpu/rasterkit/scene"
)

// TileBatchData describes how many paths, tiles, and segments one
// batch contributes to the streams StreamBuilder accumulates, letting
// the renderer size GPU buffers before dispatching backend B's
// compute pipeline for that batch.
//
// FillRule applies to the whole batch: unlike backend A, which
// classifies each path's tiles with its own fill rule at build time,
// backend B's propagate pass takes one fill rule uniform per
// dispatch. A batch's rule is its first path's; mixing fill rules
// within one same-paint run is rare enough in practice (most callers
// set one fill rule per draw call) that splitting batches further on
// fill-rule change isn't worth the extra dispatch count.
type TileBatchData struct {
	RenderTarget scene.RenderTargetID
	FillRule     outline.FillRule
	PathCount    int
	SegmentCount int
	TileCount    int

	FirstSegment int
	FirstPath    int
}

// StreamBuilder is backend B's scene builder (SPEC_FULL.md's
// "Scene-builder B"): instead of tiling paths host-side, it appends
// every path's flattened segments to one flat draw-segment stream
// and records per-path metadata, so the dice/bound/bin passes can
// consume the whole batch in one compute dispatch.
type StreamBuilder struct {
	Segments []GPUSegment
	PathMeta []GPUPathMeta
	Batches  []TileBatchData
}

// NewStreamBuilder returns an empty StreamBuilder.
func NewStreamBuilder() *StreamBuilder {
	return &StreamBuilder{}
}

// Build walks sc's display items the same way cputiler.Builder does,
// but appends to flat streams instead of invoking a host-side tiler.
func (b *StreamBuilder) Build(sc *scene.Scene) []TileBatchData {
	var rtStack []scene.RenderTargetID
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
			b.appendDrawPaths(sc.ViewBox, item.Paths, currentRT())
		}
	}
	return b.Batches
}

func (b *StreamBuilder) appendDrawPaths(viewBox geom.Rect, paths []scene.DrawPath, rt scene.RenderTargetID) {
	if len(paths) == 0 {
		return
	}

	start := 0
	key := paths[0].Paint
	for i := 1; i <= len(paths); i++ {
		atEnd := i == len(paths)
		if atEnd || paths[i].Paint != key {
			b.appendRun(viewBox, paths[start:i], rt)
			if !atEnd {
				start = i
				key = paths[i].Paint
			}
		}
	}
}

func (b *StreamBuilder) appendRun(viewBox geom.Rect, run []scene.DrawPath, rt scene.RenderTargetID) {
	batch := TileBatchData{
		RenderTarget: rt,
		FillRule:     run[0].FillRule,
		FirstSegment: len(b.Segments),
		FirstPath:    len(b.PathMeta),
	}

	for i, p := range run {
		tiles := appendPath(b, uint32(batch.FirstPath+i), p, viewBox)
		batch.PathCount++
		batch.TileCount += tiles
	}
	batch.SegmentCount = len(b.Segments) - batch.FirstSegment
	b.Batches = append(b.Batches, batch)
}

func appendPath(b *StreamBuilder, pathID uint32, p scene.DrawPath, viewBox geom.Rect) int {
	bounds := p.Outline.Bounds().Intersect(viewBox)
	if bounds.IsEmpty() {
		return 0
	}

	originX := int32(bounds.MinX) / TileSize
	originY := int32(bounds.MinY) / TileSize
	tilesWide := uint32(bounds.MaxX)/TileSize - uint32(originX) + 1
	tilesHigh := uint32(bounds.MaxY)/TileSize - uint32(originY) + 1

	ctrl := blend.EncodeCtrl(p.BlendMode, false, false)
	b.PathMeta = append(b.PathMeta, GPUPathMeta{
		PaintID:     uint32(p.Paint),
		Ctrl:        uint32(ctrl),
		TileOriginX: originX,
		TileOriginY: originY,
		TilesWide:   tilesWide,
		TilesHigh:   tilesHigh,
	})

	for _, contour := range p.Outline.Contours {
		for _, seg := range contour.Segments() {
			b.Segments = append(b.Segments, segmentToGPU(pathID, seg))
		}
	}
	return int(tilesWide * tilesHigh)
}

func segmentToGPU(pathID uint32, seg geom.Segment) GPUSegment {
	if seg.Kind == geom.SegmentLine {
		return GPUSegment{
			P0:     [2]float32{float32(seg.From.X), float32(seg.From.Y)},
			P1:     [2]float32{float32(seg.To.X), float32(seg.To.Y)},
			PathID: pathID,
			Kind:   uint32(segmentLine),
		}
	}
	cubic := seg.ToCubic()
	return GPUSegment{
		P0:     [2]float32{float32(cubic.From.X), float32(cubic.From.Y)},
		P1:     [2]float32{float32(cubic.Ctrl0.X), float32(cubic.Ctrl0.Y)},
		P2:     [2]float32{float32(cubic.Ctrl1.X), float32(cubic.Ctrl1.Y)},
		P3:     [2]float32{float32(cubic.To.X), float32(cubic.To.Y)},
		PathID: pathID,
		Kind:   uint32(segmentCubic),
	}
}

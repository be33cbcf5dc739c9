// Package gputiler implements backend B: the seven-pass GPU compute
// pipeline (dice, bound, bin, propagate, fill, sort, tile) and its
// scene builder, StreamBuilder, which appends paths to flat segment
// streams instead of running the CPU tiler host-side.
package gputiler

import (
	"github.com/gogpu/rasterkit/blend"
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
	"github.com/gogpu/rasterkit/paint"
)

// TileSize is the fixed tile edge length every backend B pass assumes,
// matching backend A's tile grid so the two backends composite
// interchangeably onto the same render targets.
const TileSize = 16

// WorkgroupSize is the compute workgroup size shared by every pass,
// per the fixed dispatch width the shaders are written against.
const WorkgroupSize = 64

// segmentKind distinguishes a GPUSegment's interpretation in the dice
// shader; quadratics are promoted to cubics before upload, matching
// backend A's flattening.
type segmentKind uint32

const (
	segmentLine segmentKind = iota
	segmentCubic
)

// GPUSegment mirrors dice.wgsl's Segment struct layout; field order
// and types must match exactly since this is uploaded as raw bytes.
type GPUSegment struct {
	P0, P1, P2, P3 [2]float32
	PathID         uint32
	Kind           uint32
	_pad           [2]uint32
}

// GPUPathMeta mirrors bound.wgsl's PathMeta struct, giving each tile
// slot the paint id, ctrl byte, and local tile-grid offset of the
// path that owns it.
type GPUPathMeta struct {
	PaintID      uint32
	Ctrl         uint32
	TileOriginX  int32
	TileOriginY  int32
	TilesWide    uint32
	TilesHigh    uint32
}

// GPUTileSlot mirrors the TileSlot struct shared by bound/propagate/
// sort/fill.wgsl.
type GPUTileSlot struct {
	TileX, TileY int32
	PaintID      uint32
	Ctrl         uint32
	Backdrop     int32
	FirstFill    int32
	PathID       uint32
	Kind         uint32
}

// TileKind mirrors propagate.wgsl's KIND_* constants on the host side,
// used when reading tile metadata back for tests and diagnostics.
type TileKind uint32

const (
	TileEmpty TileKind = iota
	TileSolid
	TileAlpha
)

// segmentInput is one path's worth of outline segments plus the paint
// and blend state StreamBuilder needs to produce GPUSegment/GPUPathMeta
// records for it.
type segmentInput struct {
	PathID   uint32
	Outline  *outline.Outline
	FillRule outline.FillRule
	Paint    paint.PaintID
	Ctrl     blend.Ctrl
	ViewBox  geom.Rect
}

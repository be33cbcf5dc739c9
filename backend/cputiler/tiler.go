// Package cputiler implements backend A: a host-parallel CPU tiler
// that walks each path's flattened segments tile by tile using an
// Amanatides-Woo-style DDA traversal, the way the original software
// rasterizer this module is descended from did it.
package cputiler

import (
	"math"

	"github.com/gogpu/rasterkit/blend"
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/outline"
	"github.com/gogpu/rasterkit/paint"
)

// TileWidth and TileHeight are the fixed tile dimensions every backend
// shares.
const (
	TileWidth  = 16
	TileHeight = 16
)

// flattenTolerance is the deviation bound used to decide whether a
// cubic needs further subdivision before line-segment tiling. It is
// deliberately coarser than geom.Tolerance (used for stroking/dashing)
// since tile-level coverage doesn't need sub-pixel curve precision.
const flattenTolerance = 1.0

// Kind classifies a tile's coverage after backdrop propagation.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindSolid
	KindAlpha
)

// Fill is one clipped line segment contributing coverage to a tile,
// in the tile's local coordinate space (subtract TileX*TileWidth,
// TileY*TileHeight from path-space coordinates to get these).
type Fill struct {
	From, To geom.Vec2
	TileX    int32
	TileY    int32
}

// Tile is one tile slot in a built path's dense grid.
type Tile struct {
	X, Y      int32
	Backdrop  int32
	Kind      Kind
	FillStart int
	FillCount int
}

// BuiltPath is the tiled form of one draw or clip path: a dense grid
// of tiles covering the intersection of the path's bounds and the
// view box, plus the fills fine rasterization reads per alpha tile.
type BuiltPath struct {
	PathID   uint32
	Paint    paint.PaintID
	Ctrl     blend.Ctrl
	ZOrder   int32
	FillRule outline.FillRule

	Bounds geom.RectI // tile-space bounds; Tiles is (Bounds.Width() x Bounds.Height())
	Tiles  []Tile
	Fills  []Fill

	// ShadowColor, ShadowBlur, and ShadowOffset carry a path's optional
	// drop shadow through to the renderer; set by BuildAll from the
	// PathInput, not touched by Build's tiling math. ShadowColor.A == 0
	// means no shadow.
	ShadowColor  paint.Color
	ShadowBlur   float64
	ShadowOffset geom.Vec2
}

func newBuiltPath(pathID uint32, p paint.PaintID, ctrl blend.Ctrl, z int32, fillRule outline.FillRule, bounds geom.RectI) *BuiltPath {
	w := int(bounds.Width())
	h := int(bounds.Height())
	if w <= 0 || h <= 0 {
		return &BuiltPath{PathID: pathID, Paint: p, Ctrl: ctrl, ZOrder: z, FillRule: fillRule, Bounds: bounds}
	}
	tiles := make([]Tile, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tiles[y*w+x] = Tile{X: bounds.MinX + int32(x), Y: bounds.MinY + int32(y)}
		}
	}
	return &BuiltPath{
		PathID:   pathID,
		Paint:    p,
		Ctrl:     ctrl,
		ZOrder:   z,
		FillRule: fillRule,
		Bounds:   bounds,
		Tiles:    tiles,
	}
}

func (b *BuiltPath) tileIndex(tx, ty int32) (int, bool) {
	if tx < b.Bounds.MinX || tx >= b.Bounds.MaxX || ty < b.Bounds.MinY || ty >= b.Bounds.MaxY {
		return 0, false
	}
	w := int(b.Bounds.Width())
	return int(ty-b.Bounds.MinY)*w + int(tx-b.Bounds.MinX), true
}

func (b *BuiltPath) addFill(from, to geom.Vec2, tx, ty int32) {
	idx, ok := b.tileIndex(tx, ty)
	if !ok {
		return
	}
	origin := geom.Pt(float64(tx)*TileWidth, float64(ty)*TileHeight)
	b.Fills = append(b.Fills, Fill{From: from.Sub(origin), To: to.Sub(origin), TileX: tx, TileY: ty})
	b.Tiles[idx].FillCount++
}

// Build tiles a single path, intersecting its outline bounds with the
// view box, and returns its dense tile grid with fills attached. Build
// itself replaces viewBox's top edge with -Inf, both for the tile
// bounds and for segment clipping, per the CPU tiler's "rays enter
// from above" convention; callers pass the plain view box.
func Build(pathID uint32, o *outline.Outline, fillRule outline.FillRule, paintID paint.PaintID, ctrl blend.Ctrl, zOrder int32, viewBox geom.Rect) *BuiltPath {
	bounds := o.Bounds().Intersect(geom.NewRect(viewBox.MinX, math.Inf(-1), viewBox.MaxX, viewBox.MaxY))
	tb := geom.TileBoundsI(bounds, TileWidth)
	bp := newBuiltPath(pathID, paintID, ctrl, zOrder, fillRule, tb)
	if len(bp.Tiles) == 0 {
		return bp
	}

	clipRect := geom.NewRect(viewBox.MinX, math.Inf(-1), viewBox.MaxX, viewBox.MaxY)
	for _, c := range o.Contours {
		for _, seg := range c.Segments() {
			processSegment(seg, bp, clipRect)
		}
	}
	prepareTiles(bp, fillRule)
	return bp
}

func processSegment(seg geom.Segment, bp *BuiltPath, clipRect geom.Rect) {
	switch seg.Kind {
	case geom.SegmentQuadratic:
		processSegment(seg.ToCubic(), bp, clipRect)
	case geom.SegmentLine:
		processLineSegment(seg.From, seg.To, bp, clipRect)
	default: // cubic
		if seg.Flatness() <= flattenTolerance {
			processLineSegment(seg.From, seg.To, bp, clipRect)
			return
		}
		a, b := seg.SplitAt(0.5)
		processSegment(a, bp, clipRect)
		processSegment(b, bp, clipRect)
	}
}

type stepDir uint8

const (
	stepNone stepDir = iota
	stepX
	stepY
)

// processLineSegment walks every tile a clipped line segment crosses,
// recording a Fill per tile-local piece and adjusting column backdrops
// on horizontal tile-boundary crossings, mirroring the reference
// Amanatides-Woo DDA traversal exactly (including its two extra-fill
// cases for vertical crossings with a downward or upward step).
func processLineSegment(from, to geom.Vec2, bp *BuiltPath, clipRect geom.Rect) {
	cf, ct, ok := geom.ClipLineToRect(from, to, clipRect)
	if !ok {
		return
	}
	from, to = cf, ct

	vector := to.Sub(from)
	if vector.X == 0 && vector.Y == 0 {
		return
	}

	fromTile := geom.Pt(math.Floor(from.X/TileWidth), math.Floor(from.Y/TileHeight))
	toTile := geom.Pt(math.Floor(to.X/TileWidth), math.Floor(to.Y/TileHeight))

	stepXDir := 1
	if vector.X < 0 {
		stepXDir = -1
	}
	stepYDir := 1
	if vector.Y < 0 {
		stepYDir = -1
	}

	nextCornerX := fromTile.X
	if vector.X >= 0 {
		nextCornerX++
	}
	nextCornerY := fromTile.Y
	if vector.Y >= 0 {
		nextCornerY++
	}
	firstCrossing := geom.Pt(nextCornerX*TileWidth, nextCornerY*TileHeight)

	tMax := geom.Pt(safeDiv(firstCrossing.X-from.X, vector.X), safeDiv(firstCrossing.Y-from.Y, vector.Y))
	tDelta := geom.Pt(math.Abs(safeDiv(TileWidth, vector.X)), math.Abs(safeDiv(TileHeight, vector.Y)))

	current := from
	tileX, tileY := int32(fromTile.X), int32(fromTile.Y)
	toTileX, toTileY := int32(toTile.X), int32(toTile.Y)
	last := stepNone

	for {
		var next stepDir
		switch {
		case tMax.X < tMax.Y:
			next = stepX
		case tMax.X > tMax.Y:
			next = stepY
		default:
			if stepXDir > 0 {
				next = stepX
			} else {
				next = stepY
			}
		}

		nextT := tMax.X
		if next == stepY {
			nextT = tMax.Y
		}
		if nextT > 1 {
			nextT = 1
		}

		if tileX == toTileX && tileY == toTileY {
			next = stepNone
		}

		nextPos := sampleLine(from, to, nextT)
		bp.addFill(current, nextPos, tileX, tileY)

		if stepYDir < 0 && next == stepY {
			bp.addFill(nextPos, geom.Pt(float64(tileX)*TileWidth, float64(tileY)*TileHeight), tileX, tileY)
		} else if stepYDir > 0 && last == stepY {
			bp.addFill(geom.Pt(float64(tileX)*TileWidth, float64(tileY)*TileHeight), current, tileX, tileY)
		}

		if stepXDir < 0 && last == stepX {
			adjustAlphaBackdrop(bp, tileX, tileY, 1)
		} else if stepXDir > 0 && next == stepX {
			adjustAlphaBackdrop(bp, tileX, tileY, -1)
		}

		switch next {
		case stepX:
			tMax.X += tDelta.X
			tileX += int32(stepXDir)
		case stepY:
			tMax.Y += tDelta.Y
			tileY += int32(stepYDir)
		default:
			return
		}
		current = nextPos
		last = next
	}
}

func sampleLine(from, to geom.Vec2, t float64) geom.Vec2 {
	return from.Lerp(to, t)
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return math.Inf(1)
	}
	return a / b
}

// adjustAlphaBackdrop records a winding delta for the tile at (tx,ty),
// entered or left through its right boundary. Stored directly on the
// tile; prepareTiles later sums these into a running per-column value.
func adjustAlphaBackdrop(bp *BuiltPath, tx, ty int32, delta int32) {
	idx, ok := bp.tileIndex(tx, ty)
	if !ok {
		return
	}
	bp.Tiles[idx].Backdrop += delta
}

// prepareTiles propagates backdrop winding left to right across each
// tile row, then classifies each tile as empty, solid, or alpha based
// on the accumulated winding and whether it has any fills, matching
// the reference implementation's row-by-row backdrop sweep.
func prepareTiles(bp *BuiltPath, fillRule outline.FillRule) {
	w := int(bp.Bounds.Width())
	h := int(bp.Bounds.Height())

	fillsByTile := make(map[int][]Fill, len(bp.Fills))
	for _, f := range bp.Fills {
		idx, ok := bp.tileIndex(f.TileX, f.TileY)
		if !ok {
			continue
		}
		fillsByTile[idx] = append(fillsByTile[idx], f)
	}

	for y := 0; y < h; y++ {
		running := int32(0)
		for x := 0; x < w; x++ {
			idx := y*w + x
			t := &bp.Tiles[idx]
			delta := t.Backdrop
			t.Backdrop = running
			running += delta

			fills := fillsByTile[idx]
			t.FillCount = len(fills)
			if len(fills) == 0 {
				if isFullyCovered(t.Backdrop, fillRule) {
					t.Kind = KindSolid
				} else {
					t.Kind = KindEmpty
				}
				continue
			}
			t.Kind = KindAlpha
		}
	}
}

func isFullyCovered(winding int32, rule outline.FillRule) bool {
	if rule == outline.FillEvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// CompactFills rewrites bp.Fills into per-tile contiguous runs,
// updating each alpha tile's FillStart/FillCount to index into the new
// order. Call once after Build if a caller needs the flat-buffer
// layout backend/gputiler's fill stage expects (backend A's own fine
// rasterizer does not; see RasterizeAll).
func CompactFills(bp *BuiltPath) {
	w := int(bp.Bounds.Width())
	byTile := make(map[int][]Fill)
	for _, f := range bp.Fills {
		idx, ok := bp.tileIndex(f.TileX, f.TileY)
		if !ok {
			continue
		}
		byTile[idx] = append(byTile[idx], f)
	}
	compacted := make([]Fill, 0, len(bp.Fills))
	for y := 0; y < int(bp.Bounds.Height()); y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			t := &bp.Tiles[idx]
			if t.Kind != KindAlpha {
				continue
			}
			t.FillStart = len(compacted)
			compacted = append(compacted, byTile[idx]...)
			t.FillCount = len(byTile[idx])
		}
	}
	bp.Fills = compacted
}

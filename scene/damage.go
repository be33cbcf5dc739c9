package scene

import (
	"math"

	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/internal/parallel"
)

// DamageTracker accumulates the bounding rects of paths drawn since it
// was last reset, so a renderer can restrict repaint to the region
// that actually changed between frames instead of redrawing the full
// view box on every scene. Beneath the coarse union rect (Dirty), it
// also marks the finer tile grid each touched path's bounds overlaps
// (DirtyTiles), so a renderer that tiles its repaint (both backends do)
// can skip individual untouched tiles inside an otherwise-dirty rect
// rather than repainting the whole bounding box.
type DamageTracker struct {
	dirty     geom.Rect
	lastScene *Scene
	lastEpoch uint64

	tiles   *parallel.DirtyRegion
	viewBox geom.Rect
}

// NewDamageTracker returns a tracker with no accumulated damage. Its
// tile grid is sized lazily from the first scene's view box passed to
// TrackScene, since a tracker may be constructed before the view box
// that will use it is known.
func NewDamageTracker() *DamageTracker {
	return &DamageTracker{dirty: geom.EmptyRect()}
}

// Track extends the tracker's dirty rect, and tile grid if established,
// to include a path's bounds.
func (d *DamageTracker) Track(bounds geom.Rect) {
	d.dirty = d.dirty.Union(bounds)
	if d.tiles != nil {
		d.tiles.MarkRect(int(math.Floor(bounds.MinX)), int(math.Floor(bounds.MinY)),
			int(math.Ceil(bounds.Width())), int(math.Ceil(bounds.Height())))
	}
}

// TrackScene walks every draw path in scene s and tracks its bounds.
// Calling it again with the same scene pointer and unchanged epoch is
// a no-op, so a renderer may call it once per frame per scene without
// double-counting. The first call establishes the tile grid from s's
// view box.
func (d *DamageTracker) TrackScene(s *Scene) {
	if s == d.lastScene && s.Epoch() == d.lastEpoch {
		return
	}
	if d.tiles == nil || s.ViewBox != d.viewBox {
		d.viewBox = s.ViewBox
		tilesX := int(math.Ceil(s.ViewBox.Width() / parallel.TileWidth))
		tilesY := int(math.Ceil(s.ViewBox.Height() / parallel.TileHeight))
		d.tiles = parallel.NewDirtyRegion(tilesX, tilesY)
	}
	for _, item := range s.Items() {
		if item.Kind != ItemDrawPaths {
			continue
		}
		for _, p := range item.Paths {
			d.Track(p.Outline.Bounds())
		}
	}
	d.lastScene = s
	d.lastEpoch = s.Epoch()
}

// Dirty returns the tracker's accumulated dirty rect.
func (d *DamageTracker) Dirty() geom.Rect { return d.dirty }

// DirtyTiles returns every tile touched since the tracker was last
// reset, as (tileX, tileY) pairs, or nil if no scene has established a
// tile grid yet.
func (d *DamageTracker) DirtyTiles() [][2]int {
	if d.tiles == nil {
		return nil
	}
	var out [][2]int
	d.tiles.ForEachDirty(func(tx, ty int) {
		out = append(out, [2]int{tx, ty})
	})
	return out
}

// Reset clears accumulated damage, typically called once the dirty
// region has been repainted.
func (d *DamageTracker) Reset() {
	d.dirty = geom.EmptyRect()
	if d.tiles != nil {
		d.tiles.Clear()
	}
}

package canvas

import (
	"hash/fnv"
	"math"

	"github.com/gogpu/rasterkit/cache"
	"github.com/gogpu/rasterkit/dash"
	"github.com/gogpu/rasterkit/outline"
	"github.com/gogpu/rasterkit/stroke"
)

// newStrokeCache returns the per-Canvas cache backing StrokePath:
// stroke.Expand's offset-and-join construction is the most expensive
// step in the stroke pipeline, and a canvas redrawing the same icon or
// UI chrome outline every frame (unchanged points, unchanged line
// style) should not pay for it twice. Keyed by a content hash rather
// than the outline's pointer identity since canvas.Path values are
// typically rebuilt fresh each frame from the same coordinates, the
// same reasoning paint/pattern.go's ContentHash uses for its own
// content-addressed dedup.
func newStrokeCache() *cache.ShardedCache[uint64, *outline.Outline] {
	return cache.NewSharded[uint64, *outline.Outline](cache.DefaultCapacity, cache.Uint64Hasher)
}

// hashStrokeInput hashes everything that affects stroke.Expand's
// output: the source outline's points and point kinds, the stroke
// style, and the dash pattern. Two different inputs hashing to the same key would produce
// a stale cache hit; at 64 bits that risk is the same one every other
// content-hash dedup in this module already accepts.
func hashStrokeInput(src *outline.Outline, style stroke.Style, pattern dash.Pattern) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	writeFloat := func(f float64) {
		bits := math.Float64bits(f)
		for i := range buf {
			buf[i] = byte(bits >> (8 * i))
		}
		h.Write(buf[:])
	}

	for _, c := range src.Contours {
		for _, p := range c.Points {
			writeFloat(p.X)
			writeFloat(p.Y)
		}
		for _, f := range c.Flags {
			h.Write([]byte{byte(f)})
		}
		if c.Closed {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}

	writeFloat(style.Width)
	writeFloat(style.MiterLimit)
	h.Write([]byte{byte(style.Cap), byte(style.Join)})

	writeFloat(pattern.Offset)
	for _, d := range pattern.Array {
		writeFloat(d)
	}

	return h.Sum64()
}

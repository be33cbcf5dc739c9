package render

import (
	"image"
	"math"

	"github.com/gogpu/rasterkit/backend/cputiler"
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/paint"
)

// patternSampler resolves paint.KindPattern fills to source pixels for
// the CPU backend, which has no GPU texture unit to sample from. It
// resamples the pattern's source image once per built path to the
// path's pixel-space footprint (bp.Bounds converted out of tile
// units), then maps each covered device pixel back into that
// footprint: the draw_image/draw_render_target path this backs always
// fills an axis-aligned unit square (see canvas.drawPatternRect), so
// the footprint's bounding box is the sampler's parameterization
// domain.
type patternSampler struct {
	pat     *paint.Pattern
	img     *image.RGBA
	originX float64
	originY float64
	width   float64
	height  float64
}

// newPatternSampler builds a sampler for bp's pattern paint, or nil if
// the pattern has no CPU-resident source image (a render-target-backed
// pattern) or the built path has an empty footprint.
func newPatternSampler(pat *paint.Pattern, bp *cputiler.BuiltPath) *patternSampler {
	if pat == nil || pat.Source != paint.SourceImage || pat.Image == nil {
		return nil
	}
	b := bp.Bounds
	pxW := int(b.Width()) * cputiler.TileWidth
	pxH := int(b.Height()) * cputiler.TileHeight
	if pxW <= 0 || pxH <= 0 {
		return nil
	}
	img := pat.Resample(pxW, pxH)
	if img == nil {
		return nil
	}
	return &patternSampler{
		pat:     pat,
		img:     img,
		originX: float64(b.MinX) * float64(cputiler.TileWidth),
		originY: float64(b.MinY) * float64(cputiler.TileHeight),
		width:   float64(pxW),
		height:  float64(pxH),
	}
}

// At samples the resampled pattern image at device pixel position at,
// wrapping per RepeatX/RepeatY or clamping to the edge otherwise, then
// applies FilterTextColorSubstitute if the pattern carries one.
func (s *patternSampler) At(at geom.Vec2) paint.Color {
	px := wrapOrClamp(at.X-s.originX, s.width, s.pat.RepeatX)
	py := wrapOrClamp(at.Y-s.originY, s.height, s.pat.RepeatY)

	r, g, b, a := s.img.At(px, py).RGBA()
	var c paint.Color
	if a > 0 {
		// img is an *image.RGBA: At().RGBA() returns premultiplied
		// values, but paint.Color and blendOver both expect straight
		// color, so unpremultiply before handing it off.
		af := float32(a) / 65535
		c = paint.Color{
			R: float32(r) / 65535 / af,
			G: float32(g) / 65535 / af,
			B: float32(b) / 65535 / af,
			A: af,
		}
	}
	if s.pat.Filter == paint.FilterTextColorSubstitute && c.A > 0 {
		lum := 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
		bg, fg := s.pat.TextBackground, s.pat.TextForeground
		c.R = bg.R + (fg.R-bg.R)*lum
		c.G = bg.G + (fg.G-bg.G)*lum
		c.B = bg.B + (fg.B-bg.B)*lum
	}
	return c
}

func wrapOrClamp(coord, extent float64, repeat bool) int {
	if extent <= 0 {
		return 0
	}
	if repeat {
		m := math.Mod(coord, extent)
		if m < 0 {
			m += extent
		}
		return int(m)
	}
	if coord < 0 {
		return 0
	}
	if coord >= extent {
		return int(extent) - 1
	}
	return int(coord)
}

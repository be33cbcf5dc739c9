package render

import (
	"fmt"
	"math"

	"github.com/gogpu/rasterkit/backend/cputiler"
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/internal/parallel"
	"github.com/gogpu/rasterkit/paint"
	"github.com/gogpu/rasterkit/scene"
)

// CPURenderer drives backend A: it builds tile batches with
// cputiler.Builder, rasterizes each alpha tile's coverage, and
// composites the result onto a PixmapTarget's pixels with an
// over-blend, in display-list order so later batches paint on top.
type CPURenderer struct {
	builder *cputiler.Builder
}

// NewCPURenderer returns a CPURenderer that tiles paths across pool,
// or on the calling goroutine if pool is nil.
func NewCPURenderer(pool *parallel.WorkerPool) *CPURenderer {
	return &CPURenderer{builder: cputiler.NewBuilder(pool)}
}

func (r *CPURenderer) Capabilities() RendererCapabilities {
	return RendererCapabilities{
		IsGPU:                false,
		SupportsAntialiasing: true,
		SupportsBlendModes:   true,
		SupportsGradients:    true,
		SupportsPatterns:     true,
	}
}

func (r *CPURenderer) Flush() error { return nil }

// Render walks every tile batch in display-list order and composites
// it onto target. Batches attached to a pushed render target are
// skipped here: CPURenderer draws only to the framebuffer target it
// is given, the same simplification backend A's builder already makes
// by tracking render-target identity without owning target storage.
func (r *CPURenderer) Render(target RenderTarget, sc *scene.Scene) error {
	pix, ok := target.(*PixmapTarget)
	if !ok {
		return fmt.Errorf("render: CPURenderer requires a *PixmapTarget, got %T", target)
	}

	cleared := false
	for _, batch := range r.builder.Build(sc) {
		if batch.RenderTarget != 0 {
			continue
		}
		if !cleared {
			// The frame's first draw clears the target; later batches
			// draw over it.
			clear(pix.Pixels())
			cleared = true
		}
		for _, bp := range batch.Paths {
			r.compositePath(pix, sc, bp)
		}
	}
	return nil
}

func (r *CPURenderer) compositePath(pix *PixmapTarget, sc *scene.Scene, bp *cputiler.BuiltPath) {
	p := sc.Palette.Get(bp.Paint)
	coverage := cputiler.RasterizeAll(bp, bp.FillRule)

	renderShadow(pix, bp, coverage)

	var pat *patternSampler
	if p.Kind == paint.KindPattern {
		pat = newPatternSampler(p.Pattern, bp)
	}

	for idx, t := range bp.Tiles {
		originX := int(t.X) * cputiler.TileWidth
		originY := int(t.Y) * cputiler.TileHeight

		switch t.Kind {
		case cputiler.KindSolid:
			r.fillRect(pix, originX, originY, p, pat, nil)
		case cputiler.KindAlpha:
			r.fillRect(pix, originX, originY, p, pat, coverage[idx])
		}
	}
}

// fillRect paints one tile's worth of pixels starting at
// (originX, originY). A nil coverage slice means full (1.0) coverage
// at every pixel, the KindSolid case; otherwise coverage holds one
// sample per pixel in row-major tile-local order.
func (r *CPURenderer) fillRect(pix *PixmapTarget, originX, originY int, p paint.Paint, pat *patternSampler, coverage []float32) {
	bounds := pix.Image().Bounds()
	for y := 0; y < cputiler.TileHeight; y++ {
		py := originY + y
		if py < bounds.Min.Y || py >= bounds.Max.Y {
			continue
		}
		for x := 0; x < cputiler.TileWidth; x++ {
			px := originX + x
			if px < bounds.Min.X || px >= bounds.Max.X {
				continue
			}
			alpha := float32(1)
			if coverage != nil {
				alpha = coverage[y*cputiler.TileWidth+x]
				if alpha <= 0 {
					continue
				}
			}
			at := geom.Vec2{X: float64(px) + 0.5, Y: float64(py) + 0.5}
			c := sampleColor(p, pat, at)
			blendOver(pix, px, py, c, alpha)
		}
	}
}

func sampleColor(p paint.Paint, pat *patternSampler, at geom.Vec2) paint.Color {
	switch p.Kind {
	case paint.KindGradient:
		return p.Gradient.Sample(p.Gradient.OffsetAt(at))
	case paint.KindPattern:
		if pat == nil {
			return paint.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}
		}
		return pat.At(at)
	default:
		return p.Color
	}
}

func blendOver(pix *PixmapTarget, x, y int, c paint.Color, coverage float32) {
	a := c.A * coverage
	if a <= 0 {
		return
	}
	i := y*pix.Stride() + x*4
	pixels := pix.Pixels()
	dr, dg, db, da := float32(pixels[i])/255, float32(pixels[i+1])/255, float32(pixels[i+2])/255, float32(pixels[i+3])/255

	outA := a + da*(1-a)
	if outA <= 0 {
		pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = 0, 0, 0, 0
		return
	}
	mix := func(sc, dc float32) float32 { return (sc*a + dc*da*(1-a)) / outA }
	pixels[i] = toByte(mix(c.R, dr))
	pixels[i+1] = toByte(mix(c.G, dg))
	pixels[i+2] = toByte(mix(c.B, db))
	pixels[i+3] = toByte(outA)
}

func toByte(v float32) byte {
	return byte(math.Round(float64(clamp01(v)) * 255))
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var (
	_ Renderer        = (*CPURenderer)(nil)
	_ CapableRenderer = (*CPURenderer)(nil)
)

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/rasterkit/backend/cputiler"
	"github.com/gogpu/rasterkit/geom"
	"github.com/gogpu/rasterkit/paint"
)

// renderShadow composites bp's drop shadow onto pix, underneath the
// path itself: a flat-colored silhouette of bp's own coverage, blurred
// by a horizontal then a vertical separable Gaussian pass (two
// render-target-sized scratch buffers, matching the two-axis blur the
// pattern filter pipeline is built around), then blended in at
// bp.ShadowOffset from the path's own position. A no-op if bp carries
// no shadow.
func renderShadow(pix *PixmapTarget, bp *cputiler.BuiltPath, coverage map[int][]float32) {
	if bp.ShadowColor.A <= 0 || bp.ShadowBlur <= 0 {
		return
	}

	pxW := int(bp.Bounds.Width()) * cputiler.TileWidth
	pxH := int(bp.Bounds.Height()) * cputiler.TileHeight
	if pxW <= 0 || pxH <= 0 {
		return
	}

	silhouette := rasterizeSilhouette(bp, coverage, pxW, pxH, bp.ShadowColor)

	blurX := paint.NewImagePattern(silhouette, geom.Identity(), false, false, false)
	blurX.Filter = paint.FilterBlurAxisX
	blurX.BlurSigma = bp.ShadowBlur
	passX := blurX.Resample(pxW, pxH)

	blurY := paint.NewImagePattern(passX, geom.Identity(), false, false, false)
	blurY.Filter = paint.FilterBlurAxisY
	blurY.BlurSigma = bp.ShadowBlur
	blurred := blurY.Resample(pxW, pxH)

	originX := int(bp.Bounds.MinX)*cputiler.TileWidth + int(bp.ShadowOffset.X)
	originY := int(bp.Bounds.MinY)*cputiler.TileHeight + int(bp.ShadowOffset.Y)
	bounds := pix.Image().Bounds()

	for y := 0; y < pxH; y++ {
		py := originY + y
		if py < bounds.Min.Y || py >= bounds.Max.Y {
			continue
		}
		for x := 0; x < pxW; x++ {
			px := originX + x
			if px < bounds.Min.X || px >= bounds.Max.X {
				continue
			}
			r, g, b, a := blurred.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			// r/g/b come back alpha-premultiplied; blendOver expects
			// straight color, so unpremultiply before handing it off.
			af := float32(a) / 65535
			c := paint.Color{
				R: float32(r) / 65535 / af,
				G: float32(g) / 65535 / af,
				B: float32(b) / 65535 / af,
				A: af,
			}
			blendOver(pix, px, py, c, 1)
		}
	}
}

// rasterizeSilhouette paints bp's own tile coverage as flat shadowColor
// into a pxW x pxH buffer aligned to bp's tile-space bounds, the
// pre-blur shadow shape.
func rasterizeSilhouette(bp *cputiler.BuiltPath, coverage map[int][]float32, pxW, pxH int, shadowColor paint.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, pxW, pxH))
	w := int(bp.Bounds.Width())

	shade := func(local int, alpha float32) {
		if alpha <= 0 {
			return
		}
		tx := local % w
		ty := local / w
		ox := tx * cputiler.TileWidth
		oy := ty * cputiler.TileHeight
		for ly := 0; ly < cputiler.TileHeight; ly++ {
			for lx := 0; lx < cputiler.TileWidth; lx++ {
				img.SetRGBA(ox+lx, oy+ly, color.RGBA{
					R: toByte(shadowColor.R),
					G: toByte(shadowColor.G),
					B: toByte(shadowColor.B),
					A: toByte(shadowColor.A * alpha),
				})
			}
		}
	}

	for idx, t := range bp.Tiles {
		switch t.Kind {
		case cputiler.KindSolid:
			shade(idx, 1)
		case cputiler.KindAlpha:
			cov := coverage[idx]
			if cov == nil {
				continue
			}
			tx := idx % w
			ty := idx / w
			ox := tx * cputiler.TileWidth
			oy := ty * cputiler.TileHeight
			for ly := 0; ly < cputiler.TileHeight; ly++ {
				for lx := 0; lx < cputiler.TileWidth; lx++ {
					alpha := cov[ly*cputiler.TileWidth+lx]
					if alpha <= 0 {
						continue
					}
					img.SetRGBA(ox+lx, oy+ly, color.RGBA{
						R: toByte(shadowColor.R),
						G: toByte(shadowColor.G),
						B: toByte(shadowColor.B),
						A: toByte(shadowColor.A * alpha),
					})
				}
			}
		}
	}
	return img
}
